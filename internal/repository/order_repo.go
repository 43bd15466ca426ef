package repository

import (
	"fmt"
	"slices"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
)

type OrderRepository interface {
	// Create with the id of an existing order replaces it the way Delete
	// followed by Create would.
	Create(order model.Order) model.Order
	Update(order model.Order) (model.Order, error)
	// Delete removes the order and every item that belongs to it as one step.
	// Payments are left in place but marked orphaned, so an order that later
	// reuses the id does not inherit them.
	Delete(id uint) bool
	FindByID(id uint) (model.Order, bool)
	FindAll() []model.Order
	FindByUser(userID uint) []model.Order
	FindByCustomer(customerID uint) []model.Order
	FindByAgent(agentID uint) []model.Order
}

type orderRepo struct {
	s          *Store
	byUser     *cache.Memo[uint, []model.Order]
	byCustomer *cache.Memo[uint, []model.Order]
	byAgent    *cache.Memo[uint, []model.Order]
}

func newOrderRepo(s *Store) *orderRepo {
	r := &orderRepo{s: s}
	r.byUser = cache.NewMemo("orders_by_user", s.gens, []cache.Kind{cache.KindOrder},
		func(userID uint) ([]model.Order, error) {
			return s.orders.filter(func(o *model.Order) bool { return o.UserID == userID }), nil
		}, s.MemoOptions()...)
	r.byCustomer = cache.NewMemo("orders_by_customer", s.gens, []cache.Kind{cache.KindOrder},
		func(customerID uint) ([]model.Order, error) {
			return s.orders.filter(func(o *model.Order) bool { return o.CustomerID == customerID }), nil
		}, s.MemoOptions()...)
	r.byAgent = cache.NewMemo("orders_by_agent", s.gens, []cache.Kind{cache.KindCustomer, cache.KindOrder},
		func(agentID uint) ([]model.Order, error) {
			s.customers.mu.RLock()
			defer s.customers.mu.RUnlock()
			s.orders.mu.RLock()
			defer s.orders.mu.RUnlock()

			owned := make(map[uint]bool)
			for _, c := range s.customers.rows {
				if c.AgentID == agentID {
					owned[c.ID] = true
				}
			}
			return s.orders.filterLocked(func(o *model.Order) bool { return owned[o.CustomerID] }), nil
		}, s.MemoOptions()...)
	return r
}

// orderCode is derived from the order date and id, so it never changes once
// the order exists.
func orderCode(o model.Order) string {
	return fmt.Sprintf("ORD-%s-%06d", o.OrderDate.Format("20060102"), o.ID)
}

func (r *orderRepo) Create(order model.Order) model.Order {
	t := r.s.orders
	t.mu.Lock()
	defer t.mu.Unlock()

	now := r.s.now()
	if order.ID == 0 {
		order.ID = t.nextIDLocked()
	} else if _, exists := t.getLocked(order.ID); exists {
		// The replaced order's items and payments do not carry over.
		r.s.orderItems.mu.Lock()
		defer r.s.orderItems.mu.Unlock()
		r.s.payments.mu.Lock()
		defer r.s.payments.mu.Unlock()
		r.detachLocked(order.ID)
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}
	if order.Status == "" {
		order.Status = model.StatusPending
	}
	if order.OrderCode == "" {
		order.OrderCode = orderCode(order)
	}
	order.UpdatedAt = now
	return t.insertLocked(order, now)
}

// Update replaces the order, keeping its code and creation time.
func (r *orderRepo) Update(order model.Order) (model.Order, error) {
	t := r.s.orders
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.getLocked(order.ID)
	if !ok {
		return model.Order{}, fmt.Errorf("order %d: %w", order.ID, apperror.ErrNotFound)
	}
	order.OrderCode = existing.OrderCode
	order.CreatedAt = existing.CreatedAt
	order.UpdatedAt = r.s.now()
	return t.replaceLocked(order)
}

func (r *orderRepo) Delete(id uint) bool {
	orders, items, payments := r.s.orders, r.s.orderItems, r.s.payments
	orders.mu.Lock()
	defer orders.mu.Unlock()
	items.mu.Lock()
	defer items.mu.Unlock()
	payments.mu.Lock()
	defer payments.mu.Unlock()

	if !orders.removeLocked(id) {
		return false
	}
	r.detachLocked(id)
	return true
}

// detachLocked drops the items of orderID and orphans its payments. The caller
// holds the orders, order items and payments write locks.
func (r *orderRepo) detachLocked(orderID uint) {
	items := r.s.orderItems
	removed := false
	for itemID, item := range items.rows {
		if item.OrderID == orderID {
			delete(items.rows, itemID)
			removed = true
		}
	}
	if removed {
		items.gens.Bump(items.kind)
	}
	r.s.paymentRepo.orphanLocked(orderID)
}

func (r *orderRepo) FindByID(id uint) (model.Order, bool) {
	return r.s.orders.get(id)
}

func (r *orderRepo) FindAll() []model.Order {
	return r.s.orders.filter(nil)
}

func (r *orderRepo) FindByUser(userID uint) []model.Order {
	orders, _ := r.byUser.Get(userID)
	return slices.Clone(orders)
}

func (r *orderRepo) FindByCustomer(customerID uint) []model.Order {
	orders, _ := r.byCustomer.Get(customerID)
	return slices.Clone(orders)
}

func (r *orderRepo) FindByAgent(agentID uint) []model.Order {
	orders, _ := r.byAgent.Get(agentID)
	return slices.Clone(orders)
}
