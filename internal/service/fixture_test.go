package service

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

type recordedEvent struct {
	action  string
	actorID uint
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(action string, actorID uint, _ interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{action: action, actorID: actorID})
}

func (p *recordingPublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.action)
	}
	return out
}

// fixture: admin(1), agent(2), collaborator(3) under agent 2, agent(4).
// Customer 1 belongs to agent 2, customer 2 to agent 4. Product 1 "P1" costs 100.00.
type fixture struct {
	store    *repository.Store
	events   *recordingPublisher
	pricing  PricingService
	sales    SalesService
	access   AccessService
	users    UserService
	orders   OrderService
	products ProductService

	admin, agent, collab, otherAgent model.Actor
	c1, c2                           model.Customer
	p1                               model.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := repository.NewStore(repository.WithClock(clock))

	users := store.Users()
	admin := users.Create(model.User{Username: "admin", Role: model.RoleAdmin, FullName: "Administrator"})
	agent := users.Create(model.User{Username: "agent1", Role: model.RoleAgent, FullName: "Main Agent"})
	collab := users.Create(model.User{Username: "collab1", Role: model.RoleCollaborator, AgentID: ptr(agent.ID)})
	other := users.Create(model.User{Username: "agent2", Role: model.RoleAgent})

	f := &fixture{store: store, events: &recordingPublisher{}}
	f.admin, f.agent, f.collab, f.otherAgent = admin.Actor(), agent.Actor(), collab.Actor(), other.Actor()
	f.c1 = store.Customers().Create(model.Customer{Name: "Cliente Basic SRL", VATNumber: "IT1", AgentID: agent.ID})
	f.c2 = store.Customers().Create(model.Customer{Name: "Other SpA", VATNumber: "IT2", AgentID: other.ID})
	f.p1 = store.Products().Create(model.Product{Name: "P1", Code: "P-001", Price: dec("100.00")})

	f.pricing = NewPricingService(store)
	f.sales = NewSalesService(store, clock)
	f.access = NewAccessService(store)
	f.users = NewUserService(users)
	f.products = NewProductService(store.Products())
	f.orders = NewOrderService(store, f.pricing, f.sales, f.access, f.events)
	return f
}

// addOrder inserts an order with one item directly through the store.
func (f *fixture) addOrder(userID, customerID uint, date time.Time, qty int, price, rate string) model.Order {
	o := f.store.Orders().Create(model.Order{CustomerID: customerID, UserID: userID, OrderDate: date})
	f.store.OrderItems().Create(model.OrderItem{
		OrderID: o.ID, ProductID: f.p1.ID, Quantity: qty, Price: dec(price), CommissionRate: dec(rate),
	})
	return o
}
