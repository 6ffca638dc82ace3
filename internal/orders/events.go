package orders

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tindahan/tindahan/internal/catalog"
	"github.com/tindahan/tindahan/internal/notify"
	"github.com/tindahan/tindahan/internal/rbac"
)

// Dispatcher is the delivery surface the notifier needs.
type Dispatcher interface {
	DeliverToUser(ctx context.Context, userID int64, payload notify.Payload) error
	DeliverToRole(ctx context.Context, role string, payload notify.Payload) (notify.Report, error)
	DeliverToRoles(ctx context.Context, batch map[string]notify.Payload) (notify.Report, error)
}

// Notifier translates order and stock events into notifications. Every
// method is best-effort and returns nothing: a notification that cannot
// be delivered is logged and dropped, never allowed to fail the business
// transaction that triggered it.
type Notifier struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewNotifier constructs a Notifier.
func NewNotifier(dispatcher Dispatcher, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{dispatcher: dispatcher, logger: logger}
}

// OrderPlaced notifies the customer directly and fans out to the floor
// and the owner with one batched resolution.
func (n *Notifier) OrderPlaced(ctx context.Context, order Order, itemCount int) {
	if n == nil || n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.DeliverToUser(ctx, order.CustomerID, notify.ForCustomer{}.OrderPlaced(order.ID, order.Total)); err != nil {
		n.logger.Warn("customer order notification", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
	if _, err := n.dispatcher.DeliverToRoles(ctx, map[string]notify.Payload{
		rbac.RoleCashier: notify.ForCashier{}.OrderPlaced(order.ID, itemCount),
		rbac.RoleOwner:   notify.ForOwner{}.OrderPlaced(order.ID, order.Total),
	}); err != nil {
		n.logger.Warn("staff order notification", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
}

// OrderStatusChanged notifies the ordering customer.
func (n *Notifier) OrderStatusChanged(ctx context.Context, order Order) {
	if n == nil || n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.DeliverToUser(ctx, order.CustomerID, notify.ForCustomer{}.OrderStatusChanged(order.ID, order.Status)); err != nil {
		n.logger.Warn("status notification", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
}

// PaymentReceived notifies the customer and the owner.
func (n *Notifier) PaymentReceived(ctx context.Context, order Order, amount float64, method string) {
	if n == nil || n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.DeliverToUser(ctx, order.CustomerID, notify.ForCustomer{}.PaymentReceived(order.ID, amount, method)); err != nil {
		n.logger.Warn("payment notification", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
	if _, err := n.dispatcher.DeliverToRole(ctx, rbac.RoleOwner, notify.ForOwner{}.PaymentReceived(order.ID, amount, method)); err != nil {
		n.logger.Warn("owner payment notification", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
}

// PaymentFailed notifies the customer directly and both the owner and the
// administrators through one batched fan-out, each with its own payload.
func (n *Notifier) PaymentFailed(ctx context.Context, order Order, amount float64, method string) {
	if n == nil || n.dispatcher == nil {
		return
	}
	if err := n.dispatcher.DeliverToUser(ctx, order.CustomerID, notify.ForCustomer{}.PaymentFailed(order.ID, amount, method)); err != nil {
		n.logger.Warn("payment failure notification", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
	if _, err := n.dispatcher.DeliverToRoles(ctx, map[string]notify.Payload{
		rbac.RoleOwner:      notify.ForOwner{}.PaymentFailed(order.ID, amount, method),
		rbac.RoleSuperAdmin: notify.ForAdmin{}.PaymentFailed(order.ID, amount, method),
	}); err != nil {
		n.logger.Warn("payment failure fan-out", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
}

// StockAdjustmentFailed alerts the floor and the administrators that an
// order committed without its stock movement.
func (n *Notifier) StockAdjustmentFailed(ctx context.Context, order Order, item OrderItem) {
	if n == nil || n.dispatcher == nil {
		return
	}
	detail := fmt.Sprintf("stock for product #%d on order #%d was not decremented", item.ProductID, order.ID)
	if _, err := n.dispatcher.DeliverToRoles(ctx, map[string]notify.Payload{
		rbac.RoleCashier:    notify.ForCashier{}.OperationFailed("stock_adjustment", detail),
		rbac.RoleSuperAdmin: notify.ForAdmin{}.OperationFailed("stock_adjustment", detail),
	}); err != nil {
		n.logger.Warn("stock failure fan-out", slog.Int64("order_id", order.ID), slog.Any("error", err))
	}
}

// LowStock fans a stock warning out to the floor and the owner. Satisfies
// catalog.LowStockSink.
func (n *Notifier) LowStock(ctx context.Context, evt catalog.LowStockEvent) {
	if n == nil || n.dispatcher == nil {
		return
	}
	if _, err := n.dispatcher.DeliverToRoles(ctx, map[string]notify.Payload{
		rbac.RoleCashier: notify.ForCashier{}.LowStock(evt.ProductID, evt.Name, evt.Remaining),
		rbac.RoleOwner:   notify.ForOwner{}.LowStock(evt.ProductID, evt.Name, evt.Remaining),
	}); err != nil {
		n.logger.Warn("low stock fan-out", slog.Int64("product_id", evt.ProductID), slog.Any("error", err))
	}
}

var _ catalog.LowStockSink = (*Notifier)(nil)
