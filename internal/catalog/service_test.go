package catalog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	mu       sync.Mutex
	products map[int64]Product
}

func newMemoryRepo(products ...Product) *memoryRepo {
	repo := &memoryRepo{products: make(map[int64]Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *memoryRepo) GetProduct(ctx context.Context, id int64) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) GetProducts(ctx context.Context, ids []int64) ([]Product, error) {
	var out []Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) ListProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memoryRepo) AdjustStock(ctx context.Context, id int64, delta int) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	if p.Stock+delta < 0 {
		return Product{}, ErrInsufficientStock
	}
	p.Stock += delta
	r.products[id] = p
	return p, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []LowStockEvent
}

func (s *recordingSink) LowStock(ctx context.Context, evt LowStockEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
}

func TestAdjustStockEmitsLowStockOnThresholdCrossing(t *testing.T) {
	repo := newMemoryRepo(Product{ID: 1, Name: "Sprite 12oz", Stock: 6, LowStockThreshold: 5, IsActive: true})
	sink := &recordingSink{}
	svc := NewService(repo, sink)

	product, err := svc.AdjustStock(context.Background(), 1, -2)
	require.NoError(t, err)
	assert.Equal(t, 4, product.Stock)

	require.Len(t, sink.events, 1)
	assert.Equal(t, LowStockEvent{ProductID: 1, Name: "Sprite 12oz", Remaining: 4}, sink.events[0])
}

func TestAdjustStockConcurrentDecrementsEmitCrossingOnce(t *testing.T) {
	repo := newMemoryRepo(Product{ID: 1, Name: "Sprite 12oz", Stock: 6, LowStockThreshold: 5, IsActive: true})
	sink := &recordingSink{}
	svc := NewService(repo, sink)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AdjustStock(context.Background(), 1, -1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.Len(t, sink.events, 1, "exactly one adjustment crosses the threshold")
	assert.Equal(t, int64(1), sink.events[0].ProductID)
}

func TestAdjustStockBelowThresholdDoesNotRepeatEvent(t *testing.T) {
	repo := newMemoryRepo(Product{ID: 1, Name: "Sprite 12oz", Stock: 4, LowStockThreshold: 5, IsActive: true})
	sink := &recordingSink{}
	svc := NewService(repo, sink)

	_, err := svc.AdjustStock(context.Background(), 1, -1)
	require.NoError(t, err)
	assert.Empty(t, sink.events, "already below threshold, no new crossing")
}

func TestAdjustStockRestockAboveThresholdSilent(t *testing.T) {
	repo := newMemoryRepo(Product{ID: 1, Name: "Sprite 12oz", Stock: 2, LowStockThreshold: 5, IsActive: true})
	sink := &recordingSink{}
	svc := NewService(repo, sink)

	product, err := svc.AdjustStock(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 22, product.Stock)
	assert.Empty(t, sink.events)
}

func TestAdjustStockRejectsNegativeResult(t *testing.T) {
	repo := newMemoryRepo(Product{ID: 1, Name: "Sprite 12oz", Stock: 1, LowStockThreshold: 5, IsActive: true})
	svc := NewService(repo, &recordingSink{})

	_, err := svc.AdjustStock(context.Background(), 1, -2)
	require.ErrorIs(t, err, ErrInsufficientStock)
}
