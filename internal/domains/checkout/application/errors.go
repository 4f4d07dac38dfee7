package application

import (
	"errors"
	"fmt"
)

// ErrMissingSlip rejects a bank-transfer order that arrived with neither an
// uploaded slip nor a pre-existing slip URL. Raised before any database write.
var ErrMissingSlip = errors.New("a payment slip is required for bank_transfer orders")

// UnknownProductError names the requested product id that has no catalog
// record.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("unknown product %d", e.ProductID)
}

// InsufficientStockError names the product (display name resolved in the
// order's locale) and the shortfall.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	if e.Requested > 0 {
		return fmt.Sprintf("insufficient stock for %q: requested %d, only %d available", e.ProductName, e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %q", e.ProductName)
}
