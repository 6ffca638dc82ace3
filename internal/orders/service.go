package orders

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/tindahan/tindahan/internal/catalog"
)

// Catalog is the slice of the catalog service that order placement needs.
type Catalog interface {
	GetProducts(ctx context.Context, ids []int64) ([]catalog.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) (catalog.Product, error)
}

// Service handles order business logic.
type Service struct {
	repo     RepositoryPort
	catalog  Catalog
	notifier *Notifier
}

// NewService builds Service instance. notifier may be nil.
func NewService(repo RepositoryPort, cat Catalog, notifier *Notifier) *Service {
	return &Service{repo: repo, catalog: cat, notifier: notifier}
}

// PlaceOrder creates an order for the customer. Unit prices and the order
// total come from the catalog at placement time; any price in the request
// is ignored. Client-supplied prices are too easy to tamper with, so the
// catalog is authoritative even though it costs one extra read.
// All requested products are fetched in a single batched query.
func (s *Service) PlaceOrder(ctx context.Context, customerID int64, req PlaceOrderRequest) (Order, error) {
	ids := make([]int64, 0, len(req.Items))
	qty := make(map[int64]int, len(req.Items))
	for _, item := range req.Items {
		if item.Qty <= 0 {
			continue
		}
		if _, seen := qty[item.ProductID]; !seen {
			ids = append(ids, item.ProductID)
		}
		qty[item.ProductID] += item.Qty
	}
	if len(ids) == 0 {
		return Order{}, ErrEmptyOrder
	}

	products, err := s.catalog.GetProducts(ctx, ids)
	if err != nil {
		return Order{}, fmt.Errorf("orders: resolve products: %w", err)
	}
	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var (
		items []OrderItem
		total float64
	)
	for _, id := range ids {
		product, ok := byID[id]
		if !ok || !product.IsActive {
			return Order{}, fmt.Errorf("orders: product %d unavailable: %w", id, ErrEmptyOrder)
		}
		items = append(items, OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       qty[id],
			UnitPrice: product.Price,
		})
		total += product.Price * float64(qty[id])
	}

	order := Order{
		CustomerID:    customerID,
		Status:        StatusPending,
		PaymentMethod: req.PaymentMethod,
		Total:         total,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.InsertOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id
		return tx.InsertItems(ctx, id, items)
	})
	if err != nil {
		return Order{}, err
	}

	// Stock movements run after the commit; low-stock warnings ride on
	// them. A failed decrement is an operational concern, not a reason to
	// unwind a sale that already happened.
	itemCount := 0
	for _, item := range items {
		itemCount += item.Qty
		if _, err := s.catalog.AdjustStock(ctx, item.ProductID, -item.Qty); err != nil {
			s.reportStockFailure(ctx, order, item, err)
		}
	}

	s.notifier.OrderPlaced(ctx, order, itemCount)
	return order, nil
}

// GetOrder returns one order with its lines. Header and lines load
// concurrently; either failure fails the read.
func (s *Service) GetOrder(ctx context.Context, id int64) (Order, []OrderItem, error) {
	var (
		order Order
		items []OrderItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order, err = s.repo.GetOrder(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.repo.GetItems(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Order{}, nil, err
	}
	return order, items, nil
}

// UpdateStatus moves an order to a new status and tells the customer.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (Order, error) {
	if !validStatus(status) {
		return Order{}, ErrInvalidStatus
	}
	order, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return Order{}, err
	}
	s.notifier.OrderStatusChanged(ctx, order)
	return order, nil
}

// RecordPaymentResult reacts to the payment collaborator's outcome. A
// successful payment completes the order; a failure leaves it pending and
// raises the owner/administrator fan-out.
func (s *Service) RecordPaymentResult(ctx context.Context, orderID int64, succeeded bool, amount float64, method string) (Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if succeeded {
		order, err = s.repo.UpdateStatus(ctx, orderID, StatusCompleted)
		if err != nil {
			return Order{}, err
		}
		s.notifier.PaymentReceived(ctx, order, amount, method)
		return order, nil
	}
	s.notifier.PaymentFailed(ctx, order, amount, method)
	return order, nil
}

func (s *Service) reportStockFailure(ctx context.Context, order Order, item OrderItem, err error) {
	if s.notifier == nil {
		return
	}
	s.notifier.logger.Warn("stock decrement failed",
		slog.Int64("order_id", order.ID),
		slog.Int64("product_id", item.ProductID),
		slog.Any("error", err))
	s.notifier.StockAdjustmentFailed(ctx, order, item)
}
