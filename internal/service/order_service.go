package service

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/pkg/validator"
)

type OrderService interface {
	CreateOrder(actor model.Actor, req *CreateOrderRequest) (*OrderSummary, error)
	UpdateOrder(actor model.Actor, id uint, req *UpdateOrderRequest) (*model.Order, error)
	DeleteOrder(actor model.Actor, id uint) error
	GetOrder(actor model.Actor, id uint) (*OrderSummary, error)
	ListOrders(actor model.Actor) ([]OrderListEntry, error)

	AddItem(actor model.Actor, orderID uint, req *OrderItemRequest) (*model.OrderItem, error)
	UpdateItem(actor model.Actor, itemID uint, req *OrderItemRequest) (*model.OrderItem, error)
	RemoveItem(actor model.Actor, itemID uint) error

	AddPayment(actor model.Actor, orderID uint, req *PaymentRequest) (*model.Payment, error)
	DeletePayment(actor model.Actor, paymentID uint) error
}

type CreateOrderRequest struct {
	CustomerID uint               `json:"customer_id" validate:"required"`
	OrderDate  *time.Time         `json:"order_date"`
	Status     model.OrderStatus  `json:"status" validate:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	Notes      string             `json:"notes"`
	Items      []OrderItemRequest `json:"items" validate:"dive"`
}

type UpdateOrderRequest struct {
	Status    model.OrderStatus `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
	Notes     string            `json:"notes"`
	OrderDate *time.Time        `json:"order_date"`
}

// OrderItemRequest leaves Price nil to take the customer's effective price.
type OrderItemRequest struct {
	ProductID      uint             `json:"product_id" validate:"required"`
	Quantity       int              `json:"quantity" validate:"gt=0"`
	Price          *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	CommissionRate decimal.Decimal  `json:"commission_rate" validate:"gte=0,lte=100"`
}

type PaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	PaymentDate   *time.Time      `json:"payment_date"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

type OrderListEntry struct {
	model.Order
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Balance      decimal.Decimal `json:"balance"`
}

type orderService struct {
	store   *repository.Store
	pricing PricingService
	sales   SalesService
	access  AccessService
	events  EventPublisher
}

func NewOrderService(store *repository.Store, pricing PricingService, sales SalesService,
	access AccessService, events EventPublisher) OrderService {
	return &orderService{
		store:   store,
		pricing: pricing,
		sales:   sales,
		access:  access,
		events:  publisherOrNop(events),
	}
}

func (s *orderService) visibleOrder(actor model.Actor, id uint) (model.Order, error) {
	o, ok := s.store.Orders().FindByID(id)
	if !ok {
		return model.Order{}, fmt.Errorf("order %d: %w", id, apperror.ErrNotFound)
	}
	if !s.access.CanViewOrder(actor, id) {
		return model.Order{}, fmt.Errorf("order %d: %w", id, apperror.ErrForbidden)
	}
	return o, nil
}

// buildItem resolves a nil price through the pricing resolver.
func (s *orderService) buildItem(customerID, orderID uint, req *OrderItemRequest) (model.OrderItem, error) {
	if _, ok := s.store.Products().FindByID(req.ProductID); !ok {
		return model.OrderItem{}, fmt.Errorf("product %d: %w", req.ProductID, apperror.ErrNotFound)
	}
	item := model.OrderItem{
		OrderID:        orderID,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		CommissionRate: req.CommissionRate,
	}
	if req.Price != nil {
		item.Price = *req.Price
		return item, nil
	}
	price, err := s.pricing.EffectivePrice(customerID, req.ProductID)
	if err != nil {
		return model.OrderItem{}, err
	}
	item.Price = price
	return item, nil
}

func (s *orderService) CreateOrder(actor model.Actor, req *CreateOrderRequest) (*OrderSummary, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if _, ok := s.store.Customers().FindByID(req.CustomerID); !ok {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, apperror.ErrNotFound)
	}
	if !s.access.CanViewCustomer(actor, req.CustomerID) {
		return nil, fmt.Errorf("customer %d: %w", req.CustomerID, apperror.ErrForbidden)
	}

	// Resolve every item before the order exists so a bad item creates nothing.
	items := make([]model.OrderItem, 0, len(req.Items))
	for i := range req.Items {
		item, err := s.buildItem(req.CustomerID, 0, &req.Items[i])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	order := model.Order{
		CustomerID: req.CustomerID,
		UserID:     actor.UserID,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	order = s.store.Orders().Create(order)

	for _, item := range items {
		item.OrderID = order.ID
		if _, err := s.store.OrderItems().CreateForOrder(item); err != nil {
			log.Error().Err(err).Uint("order_id", order.ID).Msg("order removed while adding items")
			return nil, err
		}
	}

	summary, err := s.sales.OrderSummary(order.ID)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("order_id", order.ID).Str("code", order.OrderCode).Int("items", len(items)).
		Uint("by", actor.UserID).Msg("order created")
	s.events.Publish("order_created", actor.UserID, summary)
	return &summary, nil
}

func (s *orderService) UpdateOrder(actor model.Actor, id uint, req *UpdateOrderRequest) (*model.Order, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	order, err := s.visibleOrder(actor, id)
	if err != nil {
		return nil, err
	}

	order.Status = req.Status
	order.Notes = req.Notes
	if req.OrderDate != nil {
		order.OrderDate = *req.OrderDate
	}
	updated, err := s.store.Orders().Update(order)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("order_id", id).Str("status", updated.Status.String()).Msg("order updated")
	s.events.Publish("order_updated", actor.UserID, updated)
	return &updated, nil
}

// DeleteOrder removes the order and its items. Payments stay behind.
func (s *orderService) DeleteOrder(actor model.Actor, id uint) error {
	if _, err := s.visibleOrder(actor, id); err != nil {
		return err
	}
	if !s.store.Orders().Delete(id) {
		return fmt.Errorf("order %d: %w", id, apperror.ErrNotFound)
	}
	log.Info().Uint("order_id", id).Uint("by", actor.UserID).Msg("order deleted")
	s.events.Publish("order_deleted", actor.UserID, map[string]uint{"order_id": id})
	return nil
}

func (s *orderService) GetOrder(actor model.Actor, id uint) (*OrderSummary, error) {
	if _, err := s.visibleOrder(actor, id); err != nil {
		return nil, err
	}
	summary, err := s.sales.OrderSummary(id)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// ListOrders returns the actor's visible orders, newest first.
func (s *orderService) ListOrders(actor model.Actor) ([]OrderListEntry, error) {
	orders, err := s.sales.VisibleOrders(actor)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(orders, func(a, b model.Order) int {
		if c := b.OrderDate.Compare(a.OrderDate); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	out := make([]OrderListEntry, 0, len(orders))
	for _, o := range orders {
		entry := OrderListEntry{Order: o}
		if c, ok := s.store.Customers().FindByID(o.CustomerID); ok {
			entry.CustomerName = c.Name
		}
		total, err := s.sales.OrderTotal(o.ID)
		if err != nil {
			continue
		}
		paid, err := s.sales.OrderPaid(o.ID)
		if err != nil {
			continue
		}
		entry.Total, entry.Paid, entry.Balance = total, paid, total.Sub(paid)
		out = append(out, entry)
	}
	return out, nil
}

func (s *orderService) AddItem(actor model.Actor, orderID uint, req *OrderItemRequest) (*model.OrderItem, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	order, err := s.visibleOrder(actor, orderID)
	if err != nil {
		return nil, err
	}
	item, err := s.buildItem(order.CustomerID, orderID, req)
	if err != nil {
		return nil, err
	}
	created, err := s.store.OrderItems().CreateForOrder(item)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("order_id", orderID).Uint("item_id", created.ID).Msg("order item added")
	s.events.Publish("item_added", actor.UserID, created)
	return &created, nil
}

func (s *orderService) UpdateItem(actor model.Actor, itemID uint, req *OrderItemRequest) (*model.OrderItem, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	existing, ok := s.store.OrderItems().FindByID(itemID)
	if !ok {
		return nil, fmt.Errorf("order item %d: %w", itemID, apperror.ErrNotFound)
	}
	order, err := s.visibleOrder(actor, existing.OrderID)
	if err != nil {
		return nil, err
	}
	item, err := s.buildItem(order.CustomerID, order.ID, req)
	if err != nil {
		return nil, err
	}
	item.ID = itemID
	updated, err := s.store.OrderItems().Update(item)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("order_id", order.ID).Uint("item_id", itemID).Msg("order item updated")
	s.events.Publish("item_updated", actor.UserID, updated)
	return &updated, nil
}

func (s *orderService) RemoveItem(actor model.Actor, itemID uint) error {
	existing, ok := s.store.OrderItems().FindByID(itemID)
	if !ok {
		return fmt.Errorf("order item %d: %w", itemID, apperror.ErrNotFound)
	}
	if _, err := s.visibleOrder(actor, existing.OrderID); err != nil {
		return err
	}
	if !s.store.OrderItems().Delete(itemID) {
		return fmt.Errorf("order item %d: %w", itemID, apperror.ErrNotFound)
	}
	log.Info().Uint("order_id", existing.OrderID).Uint("item_id", itemID).Msg("order item removed")
	s.events.Publish("item_removed", actor.UserID, existing)
	return nil
}

// AddPayment accepts overpayment; the balance simply goes negative.
func (s *orderService) AddPayment(actor model.Actor, orderID uint, req *PaymentRequest) (*model.Payment, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.visibleOrder(actor, orderID); err != nil {
		return nil, err
	}
	payment := model.Payment{
		OrderID:       orderID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = *req.PaymentDate
	}
	created, err := s.store.Payments().CreateForOrder(payment)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("order_id", orderID).Uint("payment_id", created.ID).
		Str("amount", created.Amount.StringFixed(2)).Msg("payment added")
	s.events.Publish("payment_added", actor.UserID, created)
	return &created, nil
}

func (s *orderService) DeletePayment(actor model.Actor, paymentID uint) error {
	existing, ok := s.store.Payments().FindByID(paymentID)
	if !ok {
		return fmt.Errorf("payment %d: %w", paymentID, apperror.ErrNotFound)
	}
	// Orphaned payments are only reachable by admins.
	_, attached := s.store.Orders().FindByID(existing.OrderID)
	if !attached || s.store.Payments().IsOrphaned(paymentID) {
		if actor.Role != model.RoleAdmin {
			return fmt.Errorf("payment %d: %w", paymentID, apperror.ErrForbidden)
		}
	} else if _, err := s.visibleOrder(actor, existing.OrderID); err != nil {
		return err
	}
	if !s.store.Payments().Delete(paymentID) {
		return fmt.Errorf("payment %d: %w", paymentID, apperror.ErrNotFound)
	}
	log.Info().Uint("payment_id", paymentID).Uint("order_id", existing.OrderID).Msg("payment deleted")
	s.events.Publish("payment_deleted", actor.UserID, existing)
	return nil
}
