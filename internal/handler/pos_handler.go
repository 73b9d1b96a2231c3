package handler

import (
	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/pos"
	"go-farmacia-pos/internal/receipt"
	"go-farmacia-pos/internal/repository"
	"go-farmacia-pos/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// POSHandler wires the checkout screen: cart assembly per terminal
// session and the finalize call.
type POSHandler struct {
	carts       *pos.Carts
	catalog     service.CatalogService
	checkout    service.CheckoutService
	productRepo repository.ProductRepository
	taxRate     float64
}

func NewPOSHandler(carts *pos.Carts, catalog service.CatalogService, checkout service.CheckoutService, productRepo repository.ProductRepository, taxRate float64) *POSHandler {
	return &POSHandler{
		carts:       carts,
		catalog:     catalog,
		checkout:    checkout,
		productRepo: productRepo,
		taxRate:     taxRate,
	}
}

type AddLineRequest struct {
	Token    string `json:"token"`
	Quantity int    `json:"quantity"`
}

func cartView(cart *pos.Cart) fiber.Map {
	return fiber.Map{
		"lines":  cart.Lines(),
		"totals": cart.Totals(),
	}
}

// AddLine resolves the scan token and adds it to the session cart.
// POST /api/v1/pos/:session/lines
func (h *POSHandler) AddLine(c *fiber.Ctx) error {
	var req AddLineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Token == "" {
		return c.Status(400).JSON(fiber.Map{"error": "token is required"})
	}

	product, err := h.catalog.FindSellable(req.Token)
	if err != nil {
		return statusError(c, err)
	}

	cart := h.carts.Get(c.Params("session"))
	if err := cart.AddLine(product, req.Quantity); err != nil {
		return statusError(c, err)
	}
	return c.JSON(cartView(cart))
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity updates a cart line against the product's current stock.
// PUT /api/v1/pos/:session/lines/:productId
func (h *POSHandler) SetQuantity(c *fiber.Ctx) error {
	productID, err := uuid.Parse(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	var req SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.productRepo.FindByID(productID)
	if err != nil {
		return statusError(c, err)
	}

	cart := h.carts.Get(c.Params("session"))
	if err := cart.SetQuantity(product, req.Quantity); err != nil {
		return statusError(c, err)
	}
	return c.JSON(cartView(cart))
}

// GetCart returns the session cart with derived totals.
// GET /api/v1/pos/:session
func (h *POSHandler) GetCart(c *fiber.Ctx) error {
	return c.JSON(cartView(h.carts.Get(c.Params("session"))))
}

// ClearCart empties the session cart.
// DELETE /api/v1/pos/:session
func (h *POSHandler) ClearCart(c *fiber.Ctx) error {
	cart := h.carts.Get(c.Params("session"))
	cart.Clear()
	return c.JSON(cartView(cart))
}

type CheckoutRequest struct {
	Customer      service.CustomerInput `json:"customer"`
	ReceiptType   model.ReceiptType     `json:"receipt_type"`
	PaymentMethod model.PaymentMethod   `json:"payment_method"`
}

// Checkout finalizes the session cart into a committed sale and returns
// it together with the printable receipt.
// POST /api/v1/pos/:session/checkout
func (h *POSHandler) Checkout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session := c.Params("session")
	cart := h.carts.Get(session)

	sale, err := h.checkout.Finalize(cart, req.Customer, req.ReceiptType, req.PaymentMethod)
	if err != nil {
		// Cart is preserved so the cashier can correct and retry.
		return statusError(c, err)
	}

	h.carts.Drop(session)
	return c.Status(201).JSON(fiber.Map{
		"sale":    sale,
		"receipt": receipt.Render(sale, h.taxRate),
	})
}
