package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-sales-tracker/internal/pdf"
	"go-sales-tracker/internal/service"
)

type OrderHandler struct {
	service service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{service: s}
}

// GET /api/v1/orders
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	orders, err := h.service.ListOrders(actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// GetOrder returns the order summary with items, payments and balance
// GET /api/v1/orders/:id
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.service.GetOrder(actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetOrderPDF renders the order confirmation
// GET /api/v1/orders/:id/pdf
func (h *OrderHandler) GetOrderPDF(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.service.GetOrder(actor, id)
	if err != nil {
		return respondError(c, err)
	}
	doc, err := pdf.RenderOrder(*summary)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+summary.Order.OrderCode+`.pdf"`)
	return c.Send(doc)
}

// POST /api/v1/orders
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	summary, err := h.service.CreateOrder(actor, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Order created", "data": summary})
}

// PUT /api/v1/orders/:id
func (h *OrderHandler) UpdateOrder(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.UpdateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	order, err := h.service.UpdateOrder(actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order updated", "data": order})
}

// DELETE /api/v1/orders/:id
func (h *OrderHandler) DeleteOrder(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteOrder(actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted"})
}

// POST /api/v1/orders/:id/items
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.OrderItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	item, err := h.service.AddItem(actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item added", "data": item})
}

// PUT /api/v1/orders/items/:itemId
func (h *OrderHandler) UpdateItem(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "itemId")
	if err != nil {
		return respondError(c, err)
	}
	var req service.OrderItemRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	item, err := h.service.UpdateItem(actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": item})
}

// DELETE /api/v1/orders/items/:itemId
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "itemId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.RemoveItem(actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item removed"})
}

// POST /api/v1/orders/:id/payments
func (h *OrderHandler) AddPayment(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req service.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	payment, err := h.service.AddPayment(actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Payment added", "data": payment})
}

// DELETE /api/v1/orders/payments/:paymentId
func (h *OrderHandler) DeletePayment(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c, "paymentId")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeletePayment(actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment deleted"})
}
