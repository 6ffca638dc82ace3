package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tindahan/tindahan/internal/platform/db"
)

// TxRepository exposes the order writes that must land atomically.
type TxRepository interface {
	InsertOrder(ctx context.Context, order Order) (int64, error)
	InsertItems(ctx context.Context, orderID int64, items []OrderItem) error
}

// RepositoryPort defines data access methods for orders.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetOrder(ctx context.Context, id int64) (Order, error)
	GetItems(ctx context.Context, orderID int64) ([]OrderItem, error)
	UpdateStatus(ctx context.Context, id int64, status string) (Order, error)
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx runs fn inside one transaction, committing on nil error.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (t *txRepo) InsertOrder(ctx context.Context, order Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (customer_id, status, payment_method, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id`,
		order.CustomerID, order.Status, order.PaymentMethod, order.Total).Scan(&id)
	return id, err
}

func (t *txRepo) InsertItems(ctx context.Context, orderID int64, items []OrderItem) error {
	for _, item := range items {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, name, qty, unit_price)
			VALUES ($1, $2, $3, $4, $5)`,
			orderID, item.ProductID, item.Name, item.Qty, item.UnitPrice)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetOrder fetches one order.
func (r *Repository) GetOrder(ctx context.Context, id int64) (Order, error) {
	var order Order
	err := r.pool.QueryRow(ctx, `
		SELECT id, customer_id, status, payment_method, total, created_at, updated_at
		FROM orders WHERE id = $1`, id).
		Scan(&order.ID, &order.CustomerID, &order.Status, &order.PaymentMethod, &order.Total, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return order, nil
}

// GetItems fetches the lines of one order.
func (r *Repository) GetItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, name, qty, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Qty, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus moves an order to a new status and returns the updated
// order.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) (Order, error) {
	var order Order
	err := r.pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, customer_id, status, payment_method, total, created_at, updated_at`,
		id, status).
		Scan(&order.ID, &order.CustomerID, &order.Status, &order.PaymentMethod, &order.Total, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}
	return order, nil
}

var _ RepositoryPort = (*Repository)(nil)
