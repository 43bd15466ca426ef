package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/service"
	"go-sales-tracker/pkg/validator"
)

type ProductHandler struct {
	service service.ProductService
}

func NewProductHandler(s service.ProductService) *ProductHandler {
	return &ProductHandler{service: s}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	return c.JSON(h.service.ListProducts())
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.service.GetProduct(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidJSON(c)
	}
	if fields := validator.Fields(&product); fields != nil {
		return c.Status(400).JSON(apperror.NewValidation(fields))
	}

	created, err := h.service.CreateProduct(&product)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": created})
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidJSON(c)
	}
	if fields := validator.Fields(&product); fields != nil {
		return c.Status(400).JSON(apperror.NewValidation(fields))
	}

	updated, err := h.service.UpdateProduct(id, &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
