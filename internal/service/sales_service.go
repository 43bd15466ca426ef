package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
)

// SalesService computes order figures and role-scoped rollups. Every read is
// memoized against the generation counters of the kinds it touches.
type SalesService interface {
	OrderTotal(orderID uint) (decimal.Decimal, error)
	OrderPaid(orderID uint) (decimal.Decimal, error)
	// OrderBalance is total minus paid and goes negative on overpayment.
	OrderBalance(orderID uint) (decimal.Decimal, error)
	OrderCommission(orderID uint) (decimal.Decimal, error)
	SalesByUser(userID uint, r model.DateRange) (decimal.Decimal, error)
	SalesByAgent(agentID uint, r model.DateRange) (decimal.Decimal, error)
	UserCommission(userID uint, r model.DateRange) (SalesFigures, error)
	MonthlySales(scope Scope, year int) ([12]decimal.Decimal, error)
	CommissionSummary(actor model.Actor, r model.DateRange) (CommissionSummary, error)
	VisibleOrders(actor model.Actor) ([]model.Order, error)
	OrderSummary(orderID uint) (OrderSummary, error)
}

// Scope narrows MonthlySales. UserID wins when both are set; neither means
// every order.
type Scope struct {
	UserID  uint `json:"user_id,omitempty"`
	AgentID uint `json:"agent_id,omitempty"`
}

type SalesFigures struct {
	TotalSales      decimal.Decimal `json:"total_sales"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	OrderCount      int             `json:"order_count"`
}

type CommissionSummary struct {
	SalesFigures
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type OrderSummary struct {
	Order        model.Order       `json:"order"`
	CustomerName string            `json:"customer_name"`
	CreatedBy    string            `json:"created_by"`
	Items        []OrderItemDetail `json:"items"`
	Payments     []model.Payment   `json:"payments"`
	Total        decimal.Decimal   `json:"total"`
	Paid         decimal.Decimal   `json:"paid"`
	Balance      decimal.Decimal   `json:"balance"`
	Commission   decimal.Decimal   `json:"commission"`
}

type OrderItemDetail struct {
	model.OrderItem
	ProductName string          `json:"product_name"`
	ProductCode string          `json:"product_code"`
	Total       decimal.Decimal `json:"total"`
	Commission  decimal.Decimal `json:"commission"`
}

type rangeKey struct {
	id  uint
	rng [2]int64
}

type monthlyKey struct {
	scope Scope
	year  int
}

type actorRangeKey struct {
	actor model.Actor
	rng   [2]int64
}

var (
	orderKinds    = []cache.Kind{cache.KindOrder, cache.KindOrderItem}
	paymentKinds  = []cache.Kind{cache.KindOrder, cache.KindPayment}
	rollupKinds   = []cache.Kind{cache.KindCustomer, cache.KindOrder, cache.KindOrderItem}
	customerKinds = []cache.Kind{cache.KindCustomer}
)

type salesService struct {
	store *repository.Store
	now   func() time.Time

	figures      *cache.Memo[uint, SalesFigures]
	paid         *cache.Memo[uint, decimal.Decimal]
	byUser       *cache.Memo[rangeKey, SalesFigures]
	byAgent      *cache.Memo[rangeKey, SalesFigures]
	monthly      *cache.Memo[monthlyKey, [12]decimal.Decimal]
	byActorRange *cache.Memo[actorRangeKey, SalesFigures]
}

// NewSalesService builds the aggregation layer. now supplies the default
// commission period; nil means time.Now.
func NewSalesService(store *repository.Store, now func() time.Time) SalesService {
	if now == nil {
		now = time.Now
	}
	s := &salesService{store: store, now: now}
	gens, opts := store.Generations(), store.MemoOptions()

	s.figures = cache.NewMemo("order_figures", gens, orderKinds, s.computeOrderFigures, opts...)
	s.paid = cache.NewMemo("order_paid", gens, paymentKinds, s.computeOrderPaid, opts...)
	s.byUser = cache.NewMemo("sales_by_user", gens, orderKinds, func(k rangeKey) (SalesFigures, error) {
		return s.sumOrders(s.store.Orders().FindByUser(k.id), model.RangeFromKey(k.rng))
	}, opts...)
	s.byAgent = cache.NewMemo("sales_by_agent", gens, rollupKinds, func(k rangeKey) (SalesFigures, error) {
		return s.sumOrders(s.store.Orders().FindByAgent(k.id), model.RangeFromKey(k.rng))
	}, opts...)
	s.monthly = cache.NewMemo("monthly_sales", gens, rollupKinds, s.computeMonthly, opts...)
	s.byActorRange = cache.NewMemo("commission_summary", gens, rollupKinds, func(k actorRangeKey) (SalesFigures, error) {
		orders, err := s.VisibleOrders(k.actor)
		if err != nil {
			return SalesFigures{}, err
		}
		return s.sumOrders(orders, model.RangeFromKey(k.rng))
	}, opts...)
	return s
}

func (s *salesService) computeOrderFigures(orderID uint) (SalesFigures, error) {
	if _, ok := s.store.Orders().FindByID(orderID); !ok {
		return SalesFigures{}, fmt.Errorf("order %d: %w", orderID, apperror.ErrNotFound)
	}
	f := SalesFigures{TotalSales: decimal.Zero, TotalCommission: decimal.Zero, OrderCount: 1}
	for _, item := range s.store.OrderItems().FindByOrder(orderID) {
		f.TotalSales = f.TotalSales.Add(item.Total())
		f.TotalCommission = f.TotalCommission.Add(item.Commission())
	}
	return f, nil
}

func (s *salesService) computeOrderPaid(orderID uint) (decimal.Decimal, error) {
	if _, ok := s.store.Orders().FindByID(orderID); !ok {
		return decimal.Zero, fmt.Errorf("order %d: %w", orderID, apperror.ErrNotFound)
	}
	paid := decimal.Zero
	for _, p := range s.store.Payments().FindByOrder(orderID) {
		paid = paid.Add(p.Amount)
	}
	return paid, nil
}

// sumOrders adds up the orders dated inside r. An order deleted after it was
// listed counts as nothing.
func (s *salesService) sumOrders(orders []model.Order, r model.DateRange) (SalesFigures, error) {
	total := SalesFigures{TotalSales: decimal.Zero, TotalCommission: decimal.Zero}
	for _, o := range orders {
		if !r.Contains(o.OrderDate) {
			continue
		}
		f, err := s.figures.Get(o.ID)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		if err != nil {
			return SalesFigures{}, err
		}
		total.TotalSales = total.TotalSales.Add(f.TotalSales)
		total.TotalCommission = total.TotalCommission.Add(f.TotalCommission)
		total.OrderCount++
	}
	return total, nil
}

func (s *salesService) computeMonthly(k monthlyKey) ([12]decimal.Decimal, error) {
	var out [12]decimal.Decimal
	for i := range out {
		out[i] = decimal.Zero
	}

	var orders []model.Order
	switch {
	case k.scope.UserID != 0:
		orders = s.store.Orders().FindByUser(k.scope.UserID)
	case k.scope.AgentID != 0:
		orders = s.store.Orders().FindByAgent(k.scope.AgentID)
	default:
		orders = s.store.Orders().FindAll()
	}

	// Months are calendar months in UTC, like the report's year range.
	for _, o := range orders {
		date := o.OrderDate.UTC()
		if date.Year() != k.year {
			continue
		}
		f, err := s.figures.Get(o.ID)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		if err != nil {
			return out, err
		}
		m := date.Month() - 1
		out[m] = out[m].Add(f.TotalSales)
	}
	return out, nil
}

func (s *salesService) OrderTotal(orderID uint) (decimal.Decimal, error) {
	f, err := s.figures.Get(orderID)
	return f.TotalSales, err
}

func (s *salesService) OrderCommission(orderID uint) (decimal.Decimal, error) {
	f, err := s.figures.Get(orderID)
	return f.TotalCommission, err
}

func (s *salesService) OrderPaid(orderID uint) (decimal.Decimal, error) {
	return s.paid.Get(orderID)
}

func (s *salesService) OrderBalance(orderID uint) (decimal.Decimal, error) {
	total, err := s.OrderTotal(orderID)
	if err != nil {
		return decimal.Zero, err
	}
	paid, err := s.OrderPaid(orderID)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Sub(paid), nil
}

func (s *salesService) SalesByUser(userID uint, r model.DateRange) (decimal.Decimal, error) {
	if err := r.Validate(); err != nil {
		return decimal.Zero, err
	}
	f, err := s.byUser.Get(rangeKey{id: userID, rng: r.Key()})
	return f.TotalSales, err
}

func (s *salesService) SalesByAgent(agentID uint, r model.DateRange) (decimal.Decimal, error) {
	if err := r.Validate(); err != nil {
		return decimal.Zero, err
	}
	f, err := s.byAgent.Get(rangeKey{id: agentID, rng: r.Key()})
	return f.TotalSales, err
}

// UserCommission covers the orders the user created, whatever the role.
func (s *salesService) UserCommission(userID uint, r model.DateRange) (SalesFigures, error) {
	if err := r.Validate(); err != nil {
		return SalesFigures{}, err
	}
	return s.byUser.Get(rangeKey{id: userID, rng: r.Key()})
}

func (s *salesService) MonthlySales(scope Scope, year int) ([12]decimal.Decimal, error) {
	if scope.UserID != 0 {
		scope.AgentID = 0
	}
	return s.monthly.Get(monthlyKey{scope: scope, year: year})
}

// CommissionSummary defaults an open start to the first day of the current
// month and an open end to now. The defaults are resolved here so the
// memoized body never reads the clock.
func (s *salesService) CommissionSummary(actor model.Actor, r model.DateRange) (CommissionSummary, error) {
	now := s.now()
	if r.Start.IsZero() {
		r.Start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if r.End.IsZero() {
		r.End = now
	}
	if err := r.Validate(); err != nil {
		return CommissionSummary{}, err
	}

	f, err := s.byActorRange.Get(actorRangeKey{actor: actorKey(actor), rng: r.Key()})
	if err != nil {
		return CommissionSummary{}, err
	}
	return CommissionSummary{SalesFigures: f, StartDate: r.Start, EndDate: r.End}, nil
}

// actorKey drops fields the role table ignores, so equivalent actors share
// cache entries.
func actorKey(a model.Actor) model.Actor {
	if a.Role != model.RoleCollaborator {
		a.AgentID = 0
	}
	return a
}

// VisibleOrders is the single role table for order visibility:
// admin sees every order, an agent the orders of their customers, a
// collaborator the orders they created.
func (s *salesService) VisibleOrders(actor model.Actor) ([]model.Order, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return s.store.Orders().FindAll(), nil
	case model.RoleAgent:
		return s.store.Orders().FindByAgent(actor.UserID), nil
	case model.RoleCollaborator:
		return s.store.Orders().FindByUser(actor.UserID), nil
	}
	return nil, fmt.Errorf("role %q: %w", actor.Role, apperror.ErrInvalidArgument)
}

func (s *salesService) OrderSummary(orderID uint) (OrderSummary, error) {
	order, ok := s.store.Orders().FindByID(orderID)
	if !ok {
		return OrderSummary{}, fmt.Errorf("order %d: %w", orderID, apperror.ErrNotFound)
	}
	f, err := s.figures.Get(orderID)
	if err != nil {
		return OrderSummary{}, err
	}
	paid, err := s.paid.Get(orderID)
	if err != nil {
		return OrderSummary{}, err
	}

	sum := OrderSummary{
		Order:      order,
		Items:      make([]OrderItemDetail, 0),
		Payments:   s.store.Payments().FindByOrder(orderID),
		Total:      f.TotalSales,
		Paid:       paid,
		Balance:    f.TotalSales.Sub(paid),
		Commission: f.TotalCommission,
	}
	if c, ok := s.store.Customers().FindByID(order.CustomerID); ok {
		sum.CustomerName = c.Name
	}
	if u, ok := s.store.Users().FindByID(order.UserID); ok {
		sum.CreatedBy = u.DisplayName()
	}
	for _, item := range s.store.OrderItems().FindByOrder(orderID) {
		d := OrderItemDetail{OrderItem: item, Total: item.Total(), Commission: item.Commission()}
		if p, ok := s.store.Products().FindByID(item.ProductID); ok {
			d.ProductName = p.Name
			d.ProductCode = p.Code
		}
		sum.Items = append(sum.Items, d)
	}
	return sum, nil
}
