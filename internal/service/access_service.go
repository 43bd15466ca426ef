package service

import (
	"fmt"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
)

// AccessService answers visibility questions. A missing record is never
// visible.
type AccessService interface {
	CanViewCustomer(actor model.Actor, customerID uint) bool
	CanViewOrder(actor model.Actor, orderID uint) bool
	VisibleCustomers(actor model.Actor) ([]model.Customer, error)
}

type accessKey struct {
	actor model.Actor
	id    uint
}

type accessService struct {
	store    *repository.Store
	customer *cache.Memo[accessKey, bool]
	order    *cache.Memo[accessKey, bool]
}

func NewAccessService(store *repository.Store) AccessService {
	s := &accessService{store: store}
	gens, opts := store.Generations(), store.MemoOptions()
	s.customer = cache.NewMemo("can_view_customer", gens, customerKinds, s.checkCustomer, opts...)
	s.order = cache.NewMemo("can_view_order", gens,
		[]cache.Kind{cache.KindCustomer, cache.KindOrder}, s.checkOrder, opts...)
	return s
}

func ownsCustomer(actor model.Actor, c model.Customer) bool {
	switch actor.Role {
	case model.RoleAdmin:
		return true
	case model.RoleAgent:
		return c.AgentID == actor.UserID
	case model.RoleCollaborator:
		return actor.AgentID != 0 && c.AgentID == actor.AgentID
	}
	return false
}

func (s *accessService) checkCustomer(k accessKey) (bool, error) {
	c, ok := s.store.Customers().FindByID(k.id)
	if !ok {
		return false, nil
	}
	return ownsCustomer(k.actor, c), nil
}

func (s *accessService) checkOrder(k accessKey) (bool, error) {
	o, ok := s.store.Orders().FindByID(k.id)
	if !ok {
		return false, nil
	}
	if k.actor.Role == model.RoleAdmin || o.UserID == k.actor.UserID {
		return true, nil
	}
	return s.customer.Get(accessKey{actor: k.actor, id: o.CustomerID})
}

func (s *accessService) CanViewCustomer(actor model.Actor, customerID uint) bool {
	ok, _ := s.customer.Get(accessKey{actor: actor, id: customerID})
	return ok
}

func (s *accessService) CanViewOrder(actor model.Actor, orderID uint) bool {
	ok, _ := s.order.Get(accessKey{actor: actor, id: orderID})
	return ok
}

// VisibleCustomers is every customer for an admin, an agent's own customers,
// and a collaborator's agent's customers.
func (s *accessService) VisibleCustomers(actor model.Actor) ([]model.Customer, error) {
	switch actor.Role {
	case model.RoleAdmin:
		return s.store.Customers().FindAll(), nil
	case model.RoleAgent:
		return s.store.Customers().FindByAgent(actor.UserID), nil
	case model.RoleCollaborator:
		if actor.AgentID == 0 {
			return []model.Customer{}, nil
		}
		return s.store.Customers().FindByAgent(actor.AgentID), nil
	}
	return nil, fmt.Errorf("role %q: %w", actor.Role, apperror.ErrInvalidArgument)
}
