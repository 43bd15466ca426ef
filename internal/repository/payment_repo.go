package repository

import (
	"fmt"
	"slices"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
)

type PaymentRepository interface {
	Create(payment model.Payment) model.Payment
	CreateForOrder(payment model.Payment) (model.Payment, error)
	Update(payment model.Payment) (model.Payment, error)
	Delete(id uint) bool
	// FindByID also returns payments whose order has been deleted.
	FindByID(id uint) (model.Payment, bool)
	FindAll() []model.Payment
	// FindByOrder is empty for an order that no longer exists and never
	// includes payments orphaned by an earlier order with the same id.
	FindByOrder(orderID uint) []model.Payment
	IsOrphaned(id uint) bool
}

type paymentRepo struct {
	s       *Store
	byOrder *cache.Memo[uint, []model.Payment]

	// orphaned holds payments whose order was deleted. Guarded by s.payments.mu.
	orphaned map[uint]struct{}
}

func newPaymentRepo(s *Store) *paymentRepo {
	r := &paymentRepo{s: s, orphaned: make(map[uint]struct{})}
	r.byOrder = cache.NewMemo("payments_by_order", s.gens, []cache.Kind{cache.KindOrder, cache.KindPayment},
		func(orderID uint) ([]model.Payment, error) {
			s.orders.mu.RLock()
			defer s.orders.mu.RUnlock()
			if _, ok := s.orders.getLocked(orderID); !ok {
				return []model.Payment{}, nil
			}
			return s.payments.filter(func(p *model.Payment) bool {
				_, gone := r.orphaned[p.ID]
				return p.OrderID == orderID && !gone
			}), nil
		}, s.MemoOptions()...)
	return r
}

func (r *paymentRepo) Create(payment model.Payment) model.Payment {
	return r.s.payments.insert(payment, r.s.now())
}

func (r *paymentRepo) CreateForOrder(payment model.Payment) (model.Payment, error) {
	orders := r.s.orders
	orders.mu.RLock()
	defer orders.mu.RUnlock()

	if _, ok := orders.getLocked(payment.OrderID); !ok {
		return model.Payment{}, fmt.Errorf("order %d: %w", payment.OrderID, apperror.ErrNotFound)
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = r.s.now()
	}
	return r.s.payments.insert(payment, r.s.now()), nil
}

func (r *paymentRepo) Update(payment model.Payment) (model.Payment, error) {
	t := r.s.payments
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.getLocked(payment.ID)
	if !ok {
		return model.Payment{}, fmt.Errorf("payment %d: %w", payment.ID, apperror.ErrNotFound)
	}
	payment.CreatedAt = existing.CreatedAt
	updated, err := t.replaceLocked(payment)
	if err == nil && updated.OrderID != existing.OrderID {
		// moved to another order on purpose
		delete(r.orphaned, updated.ID)
	}
	return updated, err
}

func (r *paymentRepo) Delete(id uint) bool {
	t := r.s.payments
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(r.orphaned, id)
	return t.removeLocked(id)
}

// orphanLocked marks every payment of orderID as orphaned. The caller holds
// the payments write lock.
func (r *paymentRepo) orphanLocked(orderID uint) {
	marked := false
	for id, p := range r.s.payments.rows {
		if _, gone := r.orphaned[id]; p.OrderID == orderID && !gone {
			r.orphaned[id] = struct{}{}
			marked = true
		}
	}
	if marked {
		r.s.gens.Bump(cache.KindPayment)
	}
}

func (r *paymentRepo) IsOrphaned(id uint) bool {
	r.s.payments.mu.RLock()
	defer r.s.payments.mu.RUnlock()
	_, gone := r.orphaned[id]
	return gone
}

func (r *paymentRepo) FindByID(id uint) (model.Payment, bool) {
	return r.s.payments.get(id)
}

func (r *paymentRepo) FindAll() []model.Payment {
	return r.s.payments.filter(nil)
}

func (r *paymentRepo) FindByOrder(orderID uint) []model.Payment {
	payments, _ := r.byOrder.Get(orderID)
	return slices.Clone(payments)
}
