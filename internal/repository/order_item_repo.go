package repository

import (
	"fmt"
	"slices"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
)

type OrderItemRepository interface {
	Create(item model.OrderItem) model.OrderItem
	// CreateForOrder inserts only while the parent order exists, holding the
	// orders lock so a concurrent cascade cannot strand the item.
	CreateForOrder(item model.OrderItem) (model.OrderItem, error)
	Update(item model.OrderItem) (model.OrderItem, error)
	Delete(id uint) bool
	FindByID(id uint) (model.OrderItem, bool)
	FindAll() []model.OrderItem
	FindByOrder(orderID uint) []model.OrderItem
}

type orderItemRepo struct {
	s       *Store
	byOrder *cache.Memo[uint, []model.OrderItem]
}

func newOrderItemRepo(s *Store) *orderItemRepo {
	r := &orderItemRepo{s: s}
	r.byOrder = cache.NewMemo("items_by_order", s.gens, []cache.Kind{cache.KindOrderItem},
		func(orderID uint) ([]model.OrderItem, error) {
			return s.orderItems.filter(func(i *model.OrderItem) bool { return i.OrderID == orderID }), nil
		}, s.MemoOptions()...)
	return r
}

func (r *orderItemRepo) Create(item model.OrderItem) model.OrderItem {
	return r.s.orderItems.insert(item, r.s.now())
}

func (r *orderItemRepo) CreateForOrder(item model.OrderItem) (model.OrderItem, error) {
	orders, items := r.s.orders, r.s.orderItems
	orders.mu.RLock()
	defer orders.mu.RUnlock()

	if _, ok := orders.getLocked(item.OrderID); !ok {
		return model.OrderItem{}, fmt.Errorf("order %d: %w", item.OrderID, apperror.ErrNotFound)
	}
	return items.insert(item, r.s.now()), nil
}

func (r *orderItemRepo) Update(item model.OrderItem) (model.OrderItem, error) {
	t := r.s.orderItems
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.getLocked(item.ID); ok {
		item.CreatedAt = existing.CreatedAt
	}
	return t.replaceLocked(item)
}

func (r *orderItemRepo) Delete(id uint) bool {
	return r.s.orderItems.remove(id)
}

func (r *orderItemRepo) FindByID(id uint) (model.OrderItem, bool) {
	return r.s.orderItems.get(id)
}

func (r *orderItemRepo) FindAll() []model.OrderItem {
	return r.s.orderItems.filter(nil)
}

func (r *orderItemRepo) FindByOrder(orderID uint) []model.OrderItem {
	items, _ := r.byOrder.Get(orderID)
	return slices.Clone(items)
}
