package repository

import (
	"slices"

	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
)

type CustomerRepository interface {
	Create(customer model.Customer) model.Customer
	Update(customer model.Customer) (model.Customer, error)
	Delete(id uint) bool
	FindByID(id uint) (model.Customer, bool)
	FindAll() []model.Customer
	FindByAgent(agentID uint) []model.Customer
}

type customerRepo struct {
	s       *Store
	byAgent *cache.Memo[uint, []model.Customer]
}

func newCustomerRepo(s *Store) *customerRepo {
	r := &customerRepo{s: s}
	r.byAgent = cache.NewMemo("customers_by_agent", s.gens, []cache.Kind{cache.KindCustomer},
		func(agentID uint) ([]model.Customer, error) {
			return s.customers.filter(func(c *model.Customer) bool { return c.AgentID == agentID }), nil
		}, s.MemoOptions()...)
	return r
}

func (r *customerRepo) Create(customer model.Customer) model.Customer {
	return r.s.customers.insert(customer, r.s.now())
}

func (r *customerRepo) Update(customer model.Customer) (model.Customer, error) {
	t := r.s.customers
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.getLocked(customer.ID); ok {
		customer.CreatedAt = existing.CreatedAt
	}
	return t.replaceLocked(customer)
}

func (r *customerRepo) Delete(id uint) bool {
	return r.s.customers.remove(id)
}

func (r *customerRepo) FindByID(id uint) (model.Customer, bool) {
	return r.s.customers.get(id)
}

func (r *customerRepo) FindAll() []model.Customer {
	return r.s.customers.filter(nil)
}

func (r *customerRepo) FindByAgent(agentID uint) []model.Customer {
	customers, _ := r.byAgent.Get(agentID)
	return slices.Clone(customers)
}
