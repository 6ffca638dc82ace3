package catalog

import (
	"context"
)

// RepositoryPort defines data access methods for the catalog.
type RepositoryPort interface {
	GetProduct(ctx context.Context, id int64) (Product, error)
	GetProducts(ctx context.Context, ids []int64) ([]Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) (Product, error)
}

// LowStockSink receives low-stock events. Delivery is best-effort; the
// sink must never fail the stock movement.
type LowStockSink interface {
	LowStock(ctx context.Context, evt LowStockEvent)
}

// Service handles catalog business logic.
type Service struct {
	repo RepositoryPort
	sink LowStockSink
}

// NewService builds Service instance. sink may be nil.
func NewService(repo RepositoryPort, sink LowStockSink) *Service {
	return &Service{repo: repo, sink: sink}
}

// GetProduct returns one product.
func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// GetProducts returns several products in one query.
func (s *Service) GetProducts(ctx context.Context, ids []int64) ([]Product, error) {
	return s.repo.GetProducts(ctx, ids)
}

// ListProducts returns the active catalogue.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

// AdjustStock moves stock by delta and raises a low-stock event when the
// movement crosses the threshold from above.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int) (Product, error) {
	after, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return Product{}, err
	}
	// The prior level is derived from the updated row, not a separate read,
	// so concurrent adjustments cannot both observe the same crossing.
	before := after.Stock - delta
	if s.sink != nil && before > after.LowStockThreshold && after.Stock <= after.LowStockThreshold {
		s.sink.LowStock(ctx, LowStockEvent{
			ProductID: after.ID,
			Name:      after.Name,
			Remaining: after.Stock,
		})
	}
	return after, nil
}
