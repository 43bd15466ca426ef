package repository

import (
	"go-sales-tracker/internal/model"
)

type ProductRepository interface {
	Create(product model.Product) model.Product
	Update(product model.Product) (model.Product, error)
	// Delete also drops the product's price list rows, so a product that later
	// reuses the id starts without overrides.
	Delete(id uint) bool
	FindByID(id uint) (model.Product, bool)
	FindByCode(code string) (model.Product, bool)
	FindAll() []model.Product
}

type productRepo struct {
	s *Store
}

func (r *productRepo) Create(product model.Product) model.Product {
	return r.s.products.insert(product, r.s.now())
}

func (r *productRepo) Update(product model.Product) (model.Product, error) {
	return r.s.products.replace(product)
}

func (r *productRepo) Delete(id uint) bool {
	products, priceLists := r.s.products, r.s.priceLists
	products.mu.Lock()
	defer products.mu.Unlock()
	priceLists.mu.Lock()
	defer priceLists.mu.Unlock()

	if !products.removeLocked(id) {
		return false
	}
	removed := false
	for plID, pl := range priceLists.rows {
		if pl.ProductID == id {
			delete(priceLists.rows, plID)
			removed = true
		}
	}
	if removed {
		priceLists.gens.Bump(priceLists.kind)
	}
	return true
}

func (r *productRepo) FindByID(id uint) (model.Product, bool) {
	return r.s.products.get(id)
}

func (r *productRepo) FindByCode(code string) (model.Product, bool) {
	matches := r.s.products.filter(func(p *model.Product) bool { return p.Code == code })
	if len(matches) == 0 {
		return model.Product{}, false
	}
	return matches[0], true
}

func (r *productRepo) FindAll() []model.Product {
	return r.s.products.filter(nil)
}
