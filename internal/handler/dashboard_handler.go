package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"go-sales-tracker/internal/cache"
	"go-sales-tracker/internal/service"
)

type DashboardHandler struct {
	dashboard service.DashboardService
	reports   service.ReportService
	sales     service.SalesService
	gens      *cache.Generations
}

func NewDashboardHandler(d service.DashboardService, r service.ReportService, s service.SalesService, gens *cache.Generations) *DashboardHandler {
	return &DashboardHandler{dashboard: d, reports: r, sales: s, gens: gens}
}

// GetDashboard returns the month overview for the caller
// GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	d, err := h.dashboard.GetDashboard(actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(d)
}

// GetCommissions returns the commission summary
// Query params: start_date, end_date (YYYY-MM-DD, default current month)
func (h *DashboardHandler) GetCommissions(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	r, err := parseRange(c)
	if err != nil {
		return respondError(c, err)
	}
	summary, err := h.sales.CommissionSummary(actor, r)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetReport returns monthly sales and commission rows
// Query params: year (default current year)
func (h *DashboardHandler) GetReport(c *fiber.Ctx) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	year := time.Now().Year()
	if s := c.Query("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid year"})
		}
		year = y
	}
	report, err := h.reports.GetReport(actor, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetCacheStats exposes generation counters and memo hit rates
// GET /api/v1/debug/cache
func (h *DashboardHandler) GetCacheStats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"generations": h.gens.Snapshot(),
		"memos":       h.gens.MemoStats(),
	})
}
