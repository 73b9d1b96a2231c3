package handler

import (
	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/money"
	"go-farmacia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

func (h *CatalogHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

// Lookup resolves a scan/search token the way the POS search box does.
// GET /api/v1/products/lookup?token=001
func (h *CatalogHandler) Lookup(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		return c.Status(400).JSON(fiber.Map{"error": "token query parameter is required"})
	}
	product, err := h.service.FindSellable(token)
	if err != nil {
		return statusError(c, err)
	}
	return c.JSON(product)
}

// productPayload is the product create/update body. Prices travel either
// as céntimos in the numeric fields or as decimal strings ("4.90"), the
// format the register UI sends.
type productPayload struct {
	model.Product
	PriceDecimal     string `json:"price_decimal"`
	CostPriceDecimal string `json:"cost_price_decimal"`
}

func (p *productPayload) resolve() (*model.Product, error) {
	if p.PriceDecimal != "" {
		cents, err := money.ParseAmount(p.PriceDecimal)
		if err != nil {
			return nil, err
		}
		p.Product.Price = cents
	}
	if p.CostPriceDecimal != "" {
		cents, err := money.ParseAmount(p.CostPriceDecimal)
		if err != nil {
			return nil, err
		}
		p.Product.CostPrice = cents
	}
	return &p.Product, nil
}

func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := payload.resolve()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.CreateProduct(product); err != nil {
		return statusError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var payload productPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	product, err := payload.resolve()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	updated, err := h.service.UpdateProduct(id, product)
	if err != nil {
		return statusError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": updated})
}

func (h *CatalogHandler) DeactivateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	if err := h.service.DeactivateProduct(id); err != nil {
		return statusError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deactivated"})
}

type RestockRequest struct {
	Quantity int    `json:"quantity"`
	Note     string `json:"note"`
}

// Restock adds stock and records the IN movement.
// POST /api/v1/products/:id/restock
func (h *CatalogHandler) Restock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var req RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.service.Restock(id, req.Quantity, req.Note); err != nil {
		return statusError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Stock updated"})
}

func (h *CatalogHandler) GetMovements(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	movements, err := h.service.RecentMovements(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movements)
}
