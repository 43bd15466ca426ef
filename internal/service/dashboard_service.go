package service

import (
	"time"

	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/model"
)

type DashboardService interface {
	GetDashboard(actor model.Actor) (*Dashboard, error)
}

type Dashboard struct {
	Year          int                 `json:"year"`
	Month         string              `json:"month"`
	OrderCount    int                 `json:"order_count"`
	MonthSales    decimal.Decimal     `json:"month_sales"`
	CustomerCount int                 `json:"customer_count"`
	UserCount     int                 `json:"user_count"`
	RecentOrders  []OrderListEntry    `json:"recent_orders"`
	MonthlySales  [12]decimal.Decimal `json:"monthly_sales"`
	Commission    CommissionSummary   `json:"commission"`
}

const recentOrderCount = 5

type dashboardService struct {
	sales  SalesService
	access AccessService
	orders OrderService
	users  UserService
	now    func() time.Time
}

func NewDashboardService(sales SalesService, access AccessService, orders OrderService, users UserService, now func() time.Time) DashboardService {
	if now == nil {
		now = time.Now
	}
	return &dashboardService{sales: sales, access: access, orders: orders, users: users, now: now}
}

// scopeFor picks the monthly chart scope: an agent sees their customers'
// orders, a collaborator their own, an admin everything.
func scopeFor(actor model.Actor) Scope {
	switch actor.Role {
	case model.RoleAgent:
		return Scope{AgentID: actor.UserID}
	case model.RoleCollaborator:
		return Scope{UserID: actor.UserID}
	}
	return Scope{}
}

func (s *dashboardService) GetDashboard(actor model.Actor) (*Dashboard, error) {
	now := s.now()

	commission, err := s.sales.CommissionSummary(actor, model.DateRange{})
	if err != nil {
		return nil, err
	}
	customers, err := s.access.VisibleCustomers(actor)
	if err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(actor)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(actor)
	if err != nil {
		return nil, err
	}
	if len(orders) > recentOrderCount {
		orders = orders[:recentOrderCount]
	}
	monthly, err := s.sales.MonthlySales(scopeFor(actor), now.Year())
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Year:          now.Year(),
		Month:         now.Format("2006-01"),
		OrderCount:    commission.OrderCount,
		MonthSales:    commission.TotalSales,
		CustomerCount: len(customers),
		UserCount:     len(users),
		RecentOrders:  orders,
		MonthlySales:  monthly,
		Commission:    commission,
	}, nil
}
