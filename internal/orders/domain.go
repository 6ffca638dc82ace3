package orders

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates the order does not exist.
	ErrNotFound = errors.New("orders: not found")
	// ErrEmptyOrder indicates an order with no resolvable items.
	ErrEmptyOrder = errors.New("orders: no valid items")
	// ErrInvalidStatus indicates an unknown status transition target.
	ErrInvalidStatus = errors.New("orders: invalid status")
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Order is one customer purchase. Total is always derived from catalog
// prices at placement time, never taken from the client.
type Order struct {
	ID            int64
	CustomerID    int64
	Status        string
	PaymentMethod string
	Total         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is one line of an order, priced from the catalog.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Qty       int
	UnitPrice float64
}

func validStatus(status string) bool {
	switch status {
	case StatusPending, StatusPreparing, StatusReady, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
