// Package pos holds the in-progress checkout state: the cart a cashier
// assembles before finalization, and the per-terminal cart registry.
package pos

import (
	"sync"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/money"

	"github.com/google/uuid"
)

// CartLine snapshots the product at the moment it was added. The unit
// price is a commitment: later catalog price changes do not affect an
// open cart.
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unit_price"` // céntimos
	Quantity  int       `json:"quantity"`
}

func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Totals is the derived money view of a cart.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	IGV      int64 `json:"igv"`
	Total    int64 `json:"total"`
}

// Cart is an ordered line collection, unique by product id. One cart
// serves one checkout session, but requests for the same session can
// arrive concurrently, so every method locks.
type Cart struct {
	mu      sync.Mutex
	taxRate float64
	lines   []CartLine
}

func NewCart(taxRate float64) *Cart {
	return &Cart{taxRate: taxRate}
}

// AddLine merges qty into an existing line for the product or appends a
// new one. Fails with InsufficientStock when the resulting quantity would
// exceed the product's current stock; the cart is unchanged on failure.
func (c *Cart) AddLine(product *model.Product, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if qty < 1 {
		qty = 1
	}
	current := 0
	idx := -1
	for i, line := range c.lines {
		if line.ProductID == product.ID {
			current = line.Quantity
			idx = i
			break
		}
	}
	if current+qty > product.Stock {
		return &model.InsufficientStockError{
			ProductID: product.ID,
			Requested: current + qty,
			Available: product.Stock,
		}
	}
	if idx >= 0 {
		c.lines[idx].Quantity += qty
		return nil
	}
	c.lines = append(c.lines, CartLine{
		ProductID: product.ID,
		Code:      product.Code,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  qty,
	})
	return nil
}

// SetQuantity sets the line quantity against the product's current stock.
// qty <= 0 removes the line.
func (c *Cart) SetQuantity(product *model.Product, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := -1
	for i, line := range c.lines {
		if line.ProductID == product.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ErrNotFound
	}
	if qty <= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
		return nil
	}
	if qty > product.Stock {
		return &model.InsufficientStockError{
			ProductID: product.ID,
			Requested: qty,
			Available: product.Stock,
		}
	}
	c.lines[idx].Quantity = qty
	return nil
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

func (c *Cart) Empty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Lines returns a copy; callers cannot mutate cart state through it.
func (c *Cart) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalsFor computes the money view of a line set: line subtotals are
// exact in céntimos, the IGV is rounded once from the exact subtotal,
// and total = subtotal + tax.
func TotalsFor(lines []CartLine, taxRate float64) Totals {
	var subtotal int64
	for _, line := range lines {
		subtotal += line.Subtotal()
	}
	tax := money.ComputeTax(subtotal, taxRate)
	return Totals{
		Subtotal: subtotal,
		IGV:      tax,
		Total:    money.ComputeTotal(subtotal, tax),
	}
}

func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TotalsFor(c.lines, c.taxRate)
}

func (c *Cart) TaxRate() float64 {
	return c.taxRate
}
