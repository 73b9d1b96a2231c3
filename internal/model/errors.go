package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Recoverable operator errors: the cart is always left unchanged so the
// cashier can correct the input and retry.
var (
	ErrNotFound      = errors.New("product not found")
	ErrOutOfStock    = errors.New("product out of stock")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrDuplicateCode = errors.New("product code already exists")
	ErrPersistence   = errors.New("persistence failure")
)

// InsufficientStockError reports a quantity that exceeds the product's
// authoritative stock at the time of the check.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err wraps an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
