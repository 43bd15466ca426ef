package service

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/pkg/validator"
)

type PricingService interface {
	// EffectivePrice is the customer's override if one exists, else the
	// catalog price.
	EffectivePrice(customerID, productID uint) (decimal.Decimal, error)
	CustomerPriceList(customerID uint) ([]PricedProduct, error)
	SetCustomPrice(req SetCustomPriceRequest) (model.PriceList, error)
	RemoveCustomPrice(id uint) error
}

type PricedProduct struct {
	model.Product
	CatalogPrice   decimal.Decimal `json:"catalog_price"`
	HasCustomPrice bool            `json:"has_custom_price"`
}

type SetCustomPriceRequest struct {
	CustomerID  uint            `json:"customer_id" validate:"required"`
	ProductID   uint            `json:"product_id" validate:"required"`
	CustomPrice decimal.Decimal `json:"custom_price" validate:"gte=0"`
}

type pricePair struct {
	customerID uint
	productID  uint
}

type pricingService struct {
	store     *repository.Store
	effective *cache.Memo[pricePair, decimal.Decimal]
}

func NewPricingService(store *repository.Store) PricingService {
	s := &pricingService{store: store}
	s.effective = cache.NewMemo("effective_price", store.Generations(),
		[]cache.Kind{cache.KindProduct, cache.KindPriceList}, s.resolvePrice, store.MemoOptions()...)
	return s
}

func (s *pricingService) resolvePrice(k pricePair) (decimal.Decimal, error) {
	if pl, ok := s.store.PriceLists().FindByCustomerProduct(k.customerID, k.productID); ok {
		return pl.CustomPrice, nil
	}
	product, ok := s.store.Products().FindByID(k.productID)
	if !ok {
		return decimal.Zero, fmt.Errorf("product %d: %w", k.productID, apperror.ErrNotFound)
	}
	return product.Price, nil
}

func (s *pricingService) EffectivePrice(customerID, productID uint) (decimal.Decimal, error) {
	return s.effective.Get(pricePair{customerID: customerID, productID: productID})
}

// CustomerPriceList lists only the overridden products when the customer has
// any override, and the whole catalog otherwise.
func (s *pricingService) CustomerPriceList(customerID uint) ([]PricedProduct, error) {
	if _, ok := s.store.Customers().FindByID(customerID); !ok {
		return nil, fmt.Errorf("customer %d: %w", customerID, apperror.ErrNotFound)
	}

	overrides := make(map[uint]decimal.Decimal)
	for _, pl := range s.store.PriceLists().FindByCustomer(customerID) {
		overrides[pl.ProductID] = pl.CustomPrice
	}

	out := make([]PricedProduct, 0)
	for _, p := range s.store.Products().FindAll() {
		custom, has := overrides[p.ID]
		if len(overrides) > 0 && !has {
			continue
		}
		pp := PricedProduct{Product: p, CatalogPrice: p.Price, HasCustomPrice: has}
		if has {
			pp.Price = custom
		}
		out = append(out, pp)
	}
	return out, nil
}

func (s *pricingService) SetCustomPrice(req SetCustomPriceRequest) (model.PriceList, error) {
	if err := validator.Validate(&req); err != nil {
		return model.PriceList{}, err
	}
	if _, ok := s.store.Customers().FindByID(req.CustomerID); !ok {
		return model.PriceList{}, fmt.Errorf("customer %d: %w", req.CustomerID, apperror.ErrNotFound)
	}
	if _, ok := s.store.Products().FindByID(req.ProductID); !ok {
		return model.PriceList{}, fmt.Errorf("product %d: %w", req.ProductID, apperror.ErrNotFound)
	}

	pl := s.store.PriceLists().Create(model.PriceList{
		CustomerID:  req.CustomerID,
		ProductID:   req.ProductID,
		CustomPrice: req.CustomPrice,
	})
	log.Info().Uint("customer_id", pl.CustomerID).Uint("product_id", pl.ProductID).
		Str("price", pl.CustomPrice.StringFixed(2)).Msg("custom price set")
	return pl, nil
}

func (s *pricingService) RemoveCustomPrice(id uint) error {
	if !s.store.PriceLists().Delete(id) {
		return fmt.Errorf("price list %d: %w", id, apperror.ErrNotFound)
	}
	log.Info().Uint("price_list_id", id).Msg("custom price removed")
	return nil
}
