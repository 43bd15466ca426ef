package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/service"
)

type CustomerHandler struct {
	customers service.CustomerService
	pricing   service.PricingService
}

func NewCustomerHandler(customers service.CustomerService, pricing service.PricingService) *CustomerHandler {
	return &CustomerHandler{customers: customers, pricing: pricing}
}

// GET /api/v1/customers
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	customers, err := h.customers.ListCustomers(actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

// GetCustomer returns the customer with their orders and custom prices
// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	detail, err := h.customers.GetCustomerDetail(actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(detail)
}

// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.customers.CreateCustomer(actor, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req model.Customer
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	customer, err := h.customers.UpdateCustomer(actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.customers.DeleteCustomer(actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}

// GetPriceList returns the products with the customer's effective prices
// GET /api/v1/customers/:id/price-list
func (h *CustomerHandler) GetPriceList(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.customers.GetCustomer(actor, id); err != nil {
		return respondError(c, err)
	}
	list, err := h.pricing.CustomerPriceList(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// SetCustomPrice upserts the customer's price for a product
// PUT /api/v1/customers/:id/price-list
func (h *CustomerHandler) SetCustomPrice(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.customers.GetCustomer(actor, id); err != nil {
		return respondError(c, err)
	}
	var req service.SetCustomPriceRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	req.CustomerID = id
	pl, err := h.pricing.SetCustomPrice(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Custom price saved", "data": pl})
}

// RemoveCustomPrice deletes one override
// DELETE /api/v1/customers/:id/price-list/:priceId
func (h *CustomerHandler) RemoveCustomPrice(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if _, err := h.customers.GetCustomer(actor, id); err != nil {
		return respondError(c, err)
	}
	priceID, err := parseID(c, "priceId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.pricing.RemoveCustomPrice(priceID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Custom price removed"})
}
