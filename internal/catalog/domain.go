package catalog

import (
	"errors"
	"time"
)

// ErrNotFound indicates the product does not exist.
var ErrNotFound = errors.New("catalog: product not found")

// ErrInsufficientStock indicates a sale would drive stock negative.
var ErrInsufficientStock = errors.New("catalog: insufficient stock")

// Product is one sellable item. Price here is the authoritative price:
// order totals are always derived from it, never from client input.
type Product struct {
	ID                int64
	SKU               string
	Name              string
	Price             float64
	Stock             int
	LowStockThreshold int
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// LowStockEvent fires when a stock movement crosses the low-stock
// threshold from above.
type LowStockEvent struct {
	ProductID int64
	Name      string
	Remaining int
}
