package repository

import (
	"fmt"
	"slices"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
)

type PriceListRepository interface {
	// Create upserts on (CustomerID, ProductID): an existing row keeps its id
	// and takes the new custom price.
	Create(pl model.PriceList) model.PriceList
	Update(pl model.PriceList) (model.PriceList, error)
	Delete(id uint) bool
	FindByID(id uint) (model.PriceList, bool)
	FindAll() []model.PriceList
	FindByCustomer(customerID uint) []model.PriceList
	FindByCustomerProduct(customerID, productID uint) (model.PriceList, bool)
}

type priceListRepo struct {
	s          *Store
	byCustomer *cache.Memo[uint, []model.PriceList]
}

func newPriceListRepo(s *Store) *priceListRepo {
	r := &priceListRepo{s: s}
	r.byCustomer = cache.NewMemo("price_lists_by_customer", s.gens, []cache.Kind{cache.KindPriceList},
		func(customerID uint) ([]model.PriceList, error) {
			return s.priceLists.filter(func(pl *model.PriceList) bool { return pl.CustomerID == customerID }), nil
		}, s.MemoOptions()...)
	return r
}

func findPairLocked(t *table[model.PriceList, *model.PriceList], customerID, productID uint) (model.PriceList, bool) {
	for _, pl := range t.rows {
		if pl.CustomerID == customerID && pl.ProductID == productID {
			return pl, true
		}
	}
	return model.PriceList{}, false
}

func (r *priceListRepo) Create(pl model.PriceList) model.PriceList {
	t := r.s.priceLists
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := findPairLocked(t, pl.CustomerID, pl.ProductID); ok {
		existing.CustomPrice = pl.CustomPrice
		t.rows[existing.ID] = existing
		t.gens.Bump(t.kind)
		return existing
	}
	return t.insertLocked(pl, r.s.now())
}

func (r *priceListRepo) Update(pl model.PriceList) (model.PriceList, error) {
	t := r.s.priceLists
	t.mu.Lock()
	defer t.mu.Unlock()

	existing, ok := t.getLocked(pl.ID)
	if !ok {
		return model.PriceList{}, fmt.Errorf("price list %d: %w", pl.ID, apperror.ErrNotFound)
	}
	if other, ok := findPairLocked(t, pl.CustomerID, pl.ProductID); ok && other.ID != pl.ID {
		return model.PriceList{}, fmt.Errorf("customer %d already has a price for product %d: %w",
			pl.CustomerID, pl.ProductID, apperror.ErrConflict)
	}
	pl.CreatedAt = existing.CreatedAt
	return t.replaceLocked(pl)
}

func (r *priceListRepo) Delete(id uint) bool {
	return r.s.priceLists.remove(id)
}

func (r *priceListRepo) FindByID(id uint) (model.PriceList, bool) {
	return r.s.priceLists.get(id)
}

func (r *priceListRepo) FindAll() []model.PriceList {
	return r.s.priceLists.filter(nil)
}

func (r *priceListRepo) FindByCustomer(customerID uint) []model.PriceList {
	rows, _ := r.byCustomer.Get(customerID)
	return slices.Clone(rows)
}

func (r *priceListRepo) FindByCustomerProduct(customerID, productID uint) (model.PriceList, bool) {
	for _, pl := range r.FindByCustomer(customerID) {
		if pl.ProductID == productID {
			return pl, true
		}
	}
	return model.PriceList{}, false
}
