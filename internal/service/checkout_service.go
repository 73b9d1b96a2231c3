package service

import (
	"errors"
	"fmt"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/pos"
	"go-farmacia-pos/internal/repository"
	"go-farmacia-pos/internal/ws"
)

// CustomerInput is what the cashier typed at checkout. Both fields are
// optional: a bare document resolves an existing customer, document+name
// creates one on the fly, neither sells to the generic customer.
type CustomerInput struct {
	Document string `json:"document"`
	Name     string `json:"name"`
}

type CheckoutService interface {
	// Finalize converts a cart into a committed, immutable sale:
	// validate, resolve the customer, compute totals, and hand the
	// atomic commit (number, items, decrements, movements) to the
	// store. On any error the cart is preserved unchanged; on success
	// it is reset to empty.
	Finalize(cart *pos.Cart, customer CustomerInput, receiptType model.ReceiptType, payment model.PaymentMethod) (*model.Sale, error)
}

type checkoutService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
	wsHub        *ws.Hub
}

func NewCheckoutService(
	pRepo repository.ProductRepository,
	cRepo repository.CustomerRepository,
	sRepo repository.SaleRepository,
	hub *ws.Hub,
) CheckoutService {
	return &checkoutService{
		productRepo:  pRepo,
		customerRepo: cRepo,
		saleRepo:     sRepo,
		wsHub:        hub,
	}
}

func (s *checkoutService) Finalize(cart *pos.Cart, customer CustomerInput, receiptType model.ReceiptType, payment model.PaymentMethod) (*model.Sale, error) {
	if !receiptType.Valid() {
		return nil, fmt.Errorf("invalid receipt type %q", receiptType)
	}
	if !payment.Valid() {
		return nil, fmt.Errorf("invalid payment method %q", payment)
	}

	// 1. Validate against authoritative stock, not the add-time
	// snapshot: stock may have dropped since the line was added.
	lines := cart.Lines()
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}
	for _, line := range lines {
		product, err := s.productRepo.FindByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity > product.Stock {
			return nil, &model.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: product.Stock,
			}
		}
	}

	// 2. Resolve customer.
	resolved, err := s.resolveCustomer(customer)
	if err != nil {
		return nil, err
	}

	// 3. Totals from the add-time prices: a sale is a priced commitment
	// at cart-build time. Computed from the same line snapshot that was
	// validated, in case the cart moves underneath.
	totals := pos.TotalsFor(lines, cart.TaxRate())

	sale := &model.Sale{
		ReceiptType:   receiptType,
		Subtotal:      totals.Subtotal,
		IGV:           totals.IGV,
		Total:         totals.Total,
		PaymentMethod: payment,
		Status:        model.SaleCompleted,
	}
	if resolved != nil {
		sale.CustomerID = &resolved.ID
	}
	sale.Items = make([]model.SaleItem, len(lines))
	for i, line := range lines {
		sale.Items[i] = model.SaleItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal(),
		}
	}

	// 4+5. Sale number and atomic commit live inside the store: the
	// guarded decrement there is the real concurrency barrier, the
	// pre-validation above only gives the cashier an early answer.
	if err := s.saleRepo.CreateSale(sale); err != nil {
		if model.IsInsufficientStock(err) || errors.Is(err, model.ErrEmptyCart) || errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", model.ErrPersistence, err)
	}

	sale.Customer = resolved
	cart.Clear()

	s.wsHub.Notify(ws.Event{
		Type:   "stock_update",
		Action: "sale_completed",
		Payload: map[string]interface{}{
			"sale_number": sale.SaleNumber,
			"total":       sale.Total,
			"items":       len(sale.Items),
		},
	})

	return sale, nil
}

func (s *checkoutService) resolveCustomer(input CustomerInput) (*model.Customer, error) {
	if input.Document == "" {
		return nil, nil
	}
	customer, err := s.customerRepo.FindByDocument(input.Document)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}
	if input.Name == "" {
		// Unknown document, no name to register: sell to the generic
		// customer, the receipt shows the placeholder.
		return nil, nil
	}
	created := &model.Customer{
		DocumentType:   model.DocumentTypeFor(input.Document),
		DocumentNumber: input.Document,
		Name:           input.Name,
	}
	if err := s.customerRepo.Create(created); err != nil {
		return nil, err
	}
	return created, nil
}
