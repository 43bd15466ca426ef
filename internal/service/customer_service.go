package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/pkg/validator"
)

type CustomerService interface {
	CreateCustomer(actor model.Actor, req *model.Customer) (*model.Customer, error)
	UpdateCustomer(actor model.Actor, id uint, req *model.Customer) (*model.Customer, error)
	DeleteCustomer(actor model.Actor, id uint) error
	GetCustomer(actor model.Actor, id uint) (*model.Customer, error)
	// GetCustomerDetail adds the customer's orders with their balances and
	// the customer's price list rows.
	GetCustomerDetail(actor model.Actor, id uint) (*CustomerDetail, error)
	ListCustomers(actor model.Actor) ([]model.Customer, error)
}

type CustomerDetail struct {
	Customer  model.Customer      `json:"customer"`
	Orders    []OrderListEntry    `json:"orders"`
	PriceList []CustomerPriceItem `json:"price_list"`
}

type CustomerPriceItem struct {
	ID            uint            `json:"id"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	ProductCode   string          `json:"product_code"`
	StandardPrice decimal.Decimal `json:"standard_price"`
	CustomPrice   decimal.Decimal `json:"custom_price"`
}

type customerService struct {
	customerRepo  repository.CustomerRepository
	userRepo      repository.UserRepository
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	priceListRepo repository.PriceListRepository
	access        AccessService
	sales         SalesService
}

func NewCustomerService(store *repository.Store, access AccessService, sales SalesService) CustomerService {
	return &customerService{
		customerRepo:  store.Customers(),
		userRepo:      store.Users(),
		orderRepo:     store.Orders(),
		productRepo:   store.Products(),
		priceListRepo: store.PriceLists(),
		access:        access,
		sales:         sales,
	}
}

// assignAgent fills the owning agent for non-admin actors and checks that the
// agent exists.
func (s *customerService) assignAgent(actor model.Actor, c *model.Customer) error {
	switch actor.Role {
	case model.RoleAgent:
		c.AgentID = actor.UserID
	case model.RoleCollaborator:
		c.AgentID = actor.AgentID
	}
	agent, ok := s.userRepo.FindByID(c.AgentID)
	if !ok || agent.Role != model.RoleAgent {
		return fmt.Errorf("agent %d: %w", c.AgentID, apperror.ErrInvalidArgument)
	}
	return nil
}

func (s *customerService) CreateCustomer(actor model.Actor, req *model.Customer) (*model.Customer, error) {
	if err := s.assignAgent(actor, req); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	req.ID = 0
	created := s.customerRepo.Create(*req)
	log.Info().Uint("customer_id", created.ID).Uint("agent_id", created.AgentID).Msg("customer created")
	return &created, nil
}

func (s *customerService) UpdateCustomer(actor model.Actor, id uint, req *model.Customer) (*model.Customer, error) {
	existing, ok := s.customerRepo.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, apperror.ErrNotFound)
	}
	if !s.access.CanViewCustomer(actor, id) {
		return nil, fmt.Errorf("customer %d: %w", id, apperror.ErrForbidden)
	}
	if actor.Role != model.RoleAdmin {
		req.AgentID = existing.AgentID
	}
	if err := s.assignAgent(model.Actor{Role: model.RoleAdmin}, req); err != nil {
		return nil, err
	}
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	req.ID = id
	req.CreatedAt = existing.CreatedAt
	updated, err := s.customerRepo.Update(*req)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("customer_id", id).Uint("by", actor.UserID).Msg("customer updated")
	return &updated, nil
}

// DeleteCustomer refuses while orders still reference the customer.
func (s *customerService) DeleteCustomer(actor model.Actor, id uint) error {
	if _, ok := s.customerRepo.FindByID(id); !ok {
		return fmt.Errorf("customer %d: %w", id, apperror.ErrNotFound)
	}
	if !s.access.CanViewCustomer(actor, id) {
		return fmt.Errorf("customer %d: %w", id, apperror.ErrForbidden)
	}
	if n := len(s.orderRepo.FindByCustomer(id)); n > 0 {
		return fmt.Errorf("customer %d has %d orders: %w", id, n, apperror.ErrConflict)
	}
	if !s.customerRepo.Delete(id) {
		return fmt.Errorf("customer %d: %w", id, apperror.ErrNotFound)
	}
	log.Info().Uint("customer_id", id).Uint("by", actor.UserID).Msg("customer deleted")
	return nil
}

func (s *customerService) GetCustomer(actor model.Actor, id uint) (*model.Customer, error) {
	c, ok := s.customerRepo.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", id, apperror.ErrNotFound)
	}
	if !s.access.CanViewCustomer(actor, id) {
		return nil, fmt.Errorf("customer %d: %w", id, apperror.ErrForbidden)
	}
	return &c, nil
}

func (s *customerService) GetCustomerDetail(actor model.Actor, id uint) (*CustomerDetail, error) {
	c, err := s.GetCustomer(actor, id)
	if err != nil {
		return nil, err
	}

	detail := &CustomerDetail{
		Customer:  *c,
		Orders:    make([]OrderListEntry, 0),
		PriceList: make([]CustomerPriceItem, 0),
	}
	for _, o := range s.orderRepo.FindByCustomer(id) {
		total, err := s.sales.OrderTotal(o.ID)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		paid, err := s.sales.OrderPaid(o.ID)
		if errors.Is(err, apperror.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		detail.Orders = append(detail.Orders, OrderListEntry{
			Order:        o,
			CustomerName: c.Name,
			Total:        total,
			Paid:         paid,
			Balance:      total.Sub(paid),
		})
	}

	for _, pl := range s.priceListRepo.FindByCustomer(id) {
		p, ok := s.productRepo.FindByID(pl.ProductID)
		if !ok {
			continue
		}
		detail.PriceList = append(detail.PriceList, CustomerPriceItem{
			ID:            pl.ID,
			ProductID:     p.ID,
			ProductName:   p.Name,
			ProductCode:   p.Code,
			StandardPrice: p.Price,
			CustomPrice:   pl.CustomPrice,
		})
	}
	return detail, nil
}

func (s *customerService) ListCustomers(actor model.Actor) ([]model.Customer, error) {
	return s.access.VisibleCustomers(actor)
}
