package handler

import (
	"go-farmacia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

// GetDashboardStats returns the overview block the dashboard polls.
// GET /api/v1/dashboard/stats
func (h *ReportHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetTodaySales returns today's sales, newest first.
// GET /api/v1/reports/today
func (h *ReportHandler) GetTodaySales(c *fiber.Ctx) error {
	sales, err := h.service.TodaySales()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch today sales"})
	}
	return c.JSON(sales)
}

// GetTopProducts ranks products by cumulative quantity sold.
// GET /api/v1/reports/top-products?limit=10
func (h *ReportHandler) GetTopProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	products, err := h.service.TopProducts(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch top products"})
	}
	return c.JSON(products)
}

// GetLowStock lists active products at or below their minimum threshold.
// GET /api/v1/reports/low-stock
func (h *ReportHandler) GetLowStock(c *fiber.Ctx) error {
	products, err := h.service.LowStock()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch low stock"})
	}
	return c.JSON(products)
}
