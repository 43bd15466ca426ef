package service

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/pkg/validator"
)

type ProductService interface {
	CreateProduct(req *model.Product) (*model.Product, error)
	UpdateProduct(id uint, req *model.Product) (*model.Product, error)
	DeleteProduct(id uint) error
	GetProduct(id uint) (*model.Product, error)
	ListProducts() []model.Product
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(req *model.Product) (*model.Product, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	if existing, ok := s.productRepo.FindByCode(req.Code); ok {
		return nil, fmt.Errorf("code %q used by product %d: %w", req.Code, existing.ID, apperror.ErrConflict)
	}

	req.ID = 0
	created := s.productRepo.Create(*req)
	log.Info().Uint("product_id", created.ID).Str("code", created.Code).Msg("product created")
	return &created, nil
}

func (s *productService) UpdateProduct(id uint, req *model.Product) (*model.Product, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}
	existing, ok := s.productRepo.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	if other, ok := s.productRepo.FindByCode(req.Code); ok && other.ID != id {
		return nil, fmt.Errorf("code %q used by product %d: %w", req.Code, other.ID, apperror.ErrConflict)
	}

	req.ID = id
	req.CreatedAt = existing.CreatedAt
	updated, err := s.productRepo.Update(*req)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("product_id", id).Str("price", updated.Price.StringFixed(2)).Msg("product updated")
	return &updated, nil
}

// DeleteProduct leaves existing order items untouched; they keep the price
// they were sold at.
func (s *productService) DeleteProduct(id uint) error {
	if !s.productRepo.Delete(id) {
		return fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	log.Info().Uint("product_id", id).Msg("product deleted")
	return nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	p, ok := s.productRepo.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, apperror.ErrNotFound)
	}
	return &p, nil
}

func (s *productService) ListProducts() []model.Product {
	return s.productRepo.FindAll()
}
