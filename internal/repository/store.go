package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
)

// Store owns every entity table and the generation counters that guard the
// memoized reads built on top of them.
//
// Lock order: operations touching more than one table lock them in
// cache.Kind order (users, customers, products, price lists, orders, order
// items, payments). Order deletion therefore holds orders, then order items,
// then payments.
type Store struct {
	gens     *cache.Generations
	now      func() time.Time
	capacity int

	users      *table[model.User, *model.User]
	customers  *table[model.Customer, *model.Customer]
	products   *table[model.Product, *model.Product]
	priceLists *table[model.PriceList, *model.PriceList]
	orders     *table[model.Order, *model.Order]
	orderItems *table[model.OrderItem, *model.OrderItem]
	payments   *table[model.Payment, *model.Payment]

	userRepo      *userRepo
	customerRepo  *customerRepo
	productRepo   *productRepo
	priceListRepo *priceListRepo
	orderRepo     *orderRepo
	orderItemRepo *orderItemRepo
	paymentRepo   *paymentRepo
}

type StoreOption func(*Store)

// WithClock replaces time.Now for audit fields and generated order codes.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// WithCacheCapacity bounds each memoized relation lookup.
func WithCacheCapacity(n int) StoreOption {
	return func(s *Store) {
		s.capacity = n
	}
}

func NewStore(opts ...StoreOption) *Store {
	gens := cache.NewGenerations()
	s := &Store{
		gens:       gens,
		now:        time.Now,
		users:      newTable[model.User](cache.KindUser, gens),
		customers:  newTable[model.Customer](cache.KindCustomer, gens),
		products:   newTable[model.Product](cache.KindProduct, gens),
		priceLists: newTable[model.PriceList](cache.KindPriceList, gens),
		orders:     newTable[model.Order](cache.KindOrder, gens),
		orderItems: newTable[model.OrderItem](cache.KindOrderItem, gens),
		payments:   newTable[model.Payment](cache.KindPayment, gens),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.userRepo = &userRepo{s: s}
	s.customerRepo = newCustomerRepo(s)
	s.productRepo = &productRepo{s: s}
	s.priceListRepo = newPriceListRepo(s)
	s.orderRepo = newOrderRepo(s)
	s.orderItemRepo = newOrderItemRepo(s)
	s.paymentRepo = newPaymentRepo(s)
	return s
}

func (s *Store) Generations() *cache.Generations { return s.gens }

func (s *Store) Users() UserRepository           { return s.userRepo }
func (s *Store) Customers() CustomerRepository   { return s.customerRepo }
func (s *Store) Products() ProductRepository     { return s.productRepo }
func (s *Store) PriceLists() PriceListRepository { return s.priceListRepo }
func (s *Store) Orders() OrderRepository         { return s.orderRepo }
func (s *Store) OrderItems() OrderItemRepository { return s.orderItemRepo }
func (s *Store) Payments() PaymentRepository     { return s.paymentRepo }

// MemoOptions carries the configured capacity to memoized reads layered on the store.
func (s *Store) MemoOptions() []cache.MemoOption {
	return []cache.MemoOption{cache.WithCapacity(s.capacity)}
}

// entity is satisfied by pointers to the model types through their embedded BaseModel.
type entity[T any] interface {
	*T
	GetID() uint
	SetID(uint)
	Touch(time.Time)
}

// table is one entity kind: its rows, its lock and its generation counter.
// Methods suffixed Locked expect the caller to hold mu.
type table[T any, P entity[T]] struct {
	mu   sync.RWMutex
	kind cache.Kind
	rows map[uint]T
	gens *cache.Generations
}

func newTable[T any, P entity[T]](kind cache.Kind, gens *cache.Generations) *table[T, P] {
	return &table[T, P]{kind: kind, rows: make(map[uint]T), gens: gens}
}

// nextIDLocked is max(existing ids)+1, or 1 for an empty table.
func (t *table[T, P]) nextIDLocked() uint {
	var max uint
	for id := range t.rows {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (t *table[T, P]) insertLocked(rec T, now time.Time) T {
	p := P(&rec)
	if p.GetID() == 0 {
		p.SetID(t.nextIDLocked())
	}
	p.Touch(now)
	t.rows[p.GetID()] = rec
	t.gens.Bump(t.kind)
	return rec
}

func (t *table[T, P]) insert(rec T, now time.Time) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insertLocked(rec, now)
}

func (t *table[T, P]) replaceLocked(rec T) (T, error) {
	id := P(&rec).GetID()
	if _, ok := t.rows[id]; !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", t.kind, id, apperror.ErrNotFound)
	}
	t.rows[id] = rec
	t.gens.Bump(t.kind)
	return rec, nil
}

func (t *table[T, P]) replace(rec T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replaceLocked(rec)
}

func (t *table[T, P]) removeLocked(id uint) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	t.gens.Bump(t.kind)
	return true
}

func (t *table[T, P]) remove(id uint) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.removeLocked(id)
}

func (t *table[T, P]) getLocked(id uint) (T, bool) {
	rec, ok := t.rows[id]
	return rec, ok
}

func (t *table[T, P]) get(id uint) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.getLocked(id)
}

// filterLocked returns matching rows ordered by id. A nil pred matches all.
func (t *table[T, P]) filterLocked(pred func(*T) bool) []T {
	out := make([]T, 0)
	for _, rec := range t.rows {
		if pred == nil || pred(&rec) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return P(&out[i]).GetID() < P(&out[j]).GetID()
	})
	return out
}

func (t *table[T, P]) filter(pred func(*T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filterLocked(pred)
}
