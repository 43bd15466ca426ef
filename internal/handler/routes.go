package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-sales-tracker/internal/middleware"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/service"
)

// Handlers groups every HTTP handler mounted under /api/v1.
type Handlers struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Customers *CustomerHandler
	Products  *ProductHandler
	Orders    *OrderHandler
	Users     *UserHandler
}

// RegisterRoutes mounts the JSON API. Everything except login and token
// validation requires a bearer token.
func RegisterRoutes(app *fiber.App, h Handlers, auth service.AuthService) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	authGroup := api.Group("/auth")
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/validate-token", h.Auth.ValidateToken)
	authGroup.Post("/change-password", middleware.RequireAuth(auth), h.Auth.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(auth))
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	managers := middleware.RequireRole(model.RoleAdmin, model.RoleAgent)

	protected.Get("/dashboard", h.Dashboard.GetDashboard)
	protected.Get("/dashboard/commissions", h.Dashboard.GetCommissions)
	protected.Get("/reports", h.Dashboard.GetReport)
	protected.Get("/debug/cache", adminOnly, h.Dashboard.GetCacheStats)

	protected.Get("/customers", h.Customers.GetCustomers)
	protected.Get("/customers/:id", h.Customers.GetCustomer)
	protected.Post("/customers", managers, h.Customers.CreateCustomer)
	protected.Put("/customers/:id", managers, h.Customers.UpdateCustomer)
	protected.Delete("/customers/:id", managers, h.Customers.DeleteCustomer)
	protected.Get("/customers/:id/price-list", h.Customers.GetPriceList)
	protected.Put("/customers/:id/price-list", managers, h.Customers.SetCustomPrice)
	protected.Delete("/customers/:id/price-list/:priceId", managers, h.Customers.RemoveCustomPrice)

	protected.Get("/products", h.Products.GetProducts)
	protected.Get("/products/:id", h.Products.GetProduct)
	protected.Post("/products", adminOnly, h.Products.CreateProduct)
	protected.Put("/products/:id", adminOnly, h.Products.UpdateProduct)
	protected.Delete("/products/:id", adminOnly, h.Products.DeleteProduct)

	// static segments are registered before /orders/:id
	protected.Put("/orders/items/:itemId", h.Orders.UpdateItem)
	protected.Delete("/orders/items/:itemId", h.Orders.RemoveItem)
	protected.Delete("/orders/payments/:paymentId", h.Orders.DeletePayment)
	protected.Get("/orders", h.Orders.GetOrders)
	protected.Post("/orders", h.Orders.CreateOrder)
	protected.Get("/orders/:id", h.Orders.GetOrder)
	protected.Get("/orders/:id/summary", h.Orders.GetOrder)
	protected.Get("/orders/:id/pdf", h.Orders.GetOrderPDF)
	protected.Put("/orders/:id", h.Orders.UpdateOrder)
	protected.Delete("/orders/:id", h.Orders.DeleteOrder)
	protected.Post("/orders/:id/items", h.Orders.AddItem)
	protected.Post("/orders/:id/payments", h.Orders.AddPayment)

	protected.Get("/users", h.Users.GetUsers)
	protected.Get("/users/:id", h.Users.GetUser)
	protected.Post("/users", managers, h.Users.CreateUser)
	protected.Put("/users/:id", h.Users.UpdateUser)
	protected.Delete("/users/:id", adminOnly, h.Users.DeleteUser)
}
