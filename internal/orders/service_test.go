package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tindahan/tindahan/internal/catalog"
	"github.com/tindahan/tindahan/internal/notify"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	orders      map[int64]*Order
	items       map[int64][]OrderItem
	nextOrderID int64

	txError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders:      make(map[int64]*Order),
		items:       make(map[int64][]OrderItem),
		nextOrderID: 1,
	}
}

type mockTxRepo struct {
	mock *mockRepository
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, &mockTxRepo{mock: m})
}

func (t *mockTxRepo) InsertOrder(ctx context.Context, order Order) (int64, error) {
	id := t.mock.nextOrderID
	t.mock.nextOrderID++
	order.ID = id
	t.mock.orders[id] = &order
	return id, nil
}

func (t *mockTxRepo) InsertItems(ctx context.Context, orderID int64, items []OrderItem) error {
	t.mock.items[orderID] = items
	return nil
}

func (m *mockRepository) GetOrder(ctx context.Context, id int64) (Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return *order, nil
}

func (m *mockRepository) GetItems(ctx context.Context, orderID int64) ([]OrderItem, error) {
	return m.items[orderID], nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id int64, status string) (Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	order.Status = status
	return *order, nil
}

type mockCatalog struct {
	products    map[int64]catalog.Product
	batchCalls  int
	adjustCalls []int64
	adjustErr   error
}

func (m *mockCatalog) GetProducts(ctx context.Context, ids []int64) ([]catalog.Product, error) {
	m.batchCalls++
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockCatalog) AdjustStock(ctx context.Context, id int64, delta int) (catalog.Product, error) {
	m.adjustCalls = append(m.adjustCalls, id)
	if m.adjustErr != nil {
		return catalog.Product{}, m.adjustErr
	}
	p := m.products[id]
	p.Stock += delta
	m.products[id] = p
	return p, nil
}

type recordingDispatcher struct {
	mu      sync.Mutex
	direct  map[int64][]notify.Payload
	roles   []map[string]notify.Payload
	singles []string
}

func newRecordingDispatcher() *recordingDispatcher {
	return &recordingDispatcher{direct: make(map[int64][]notify.Payload)}
}

func (d *recordingDispatcher) DeliverToUser(ctx context.Context, userID int64, payload notify.Payload) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.direct[userID] = append(d.direct[userID], payload)
	return nil
}

func (d *recordingDispatcher) DeliverToRole(ctx context.Context, role string, payload notify.Payload) (notify.Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.singles = append(d.singles, role)
	return notify.Report{}, nil
}

func (d *recordingDispatcher) DeliverToRoles(ctx context.Context, batch map[string]notify.Payload) (notify.Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.roles = append(d.roles, batch)
	return notify.Report{}, nil
}

func fixtureCatalog() *mockCatalog {
	return &mockCatalog{products: map[int64]catalog.Product{
		1: {ID: 1, Name: "Pandesal", Price: 5, Stock: 100, IsActive: true},
		2: {ID: 2, Name: "Sprite 12oz", Price: 35.5, Stock: 10, IsActive: true},
		3: {ID: 3, Name: "Discontinued", Price: 10, Stock: 5, IsActive: false},
	}}
}

func TestPlaceOrderDerivesTotalFromCatalog(t *testing.T) {
	repo := newMockRepository()
	cat := fixtureCatalog()
	dispatcher := newRecordingDispatcher()
	svc := NewService(repo, cat, NewNotifier(dispatcher, nil))

	order, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderRequest{
		PaymentMethod: "gcash",
		Items: []PlaceOrderItem{
			{ProductID: 1, Qty: 4},
			{ProductID: 2, Qty: 2},
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 4*5+2*35.5, order.Total, 1e-9, "total must come from catalog prices")
	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, 1, cat.batchCalls, "products must be resolved in one batched query")

	items := repo.items[order.ID]
	require.Len(t, items, 2)
	assert.Equal(t, 5.0, items[0].UnitPrice)
	assert.Equal(t, 35.5, items[1].UnitPrice)
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	repo := newMockRepository()
	cat := fixtureCatalog()
	svc := NewService(repo, cat, nil)

	_, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderRequest{
		PaymentMethod: "cash",
		Items:         []PlaceOrderItem{{ProductID: 2, Qty: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, cat.products[2].Stock)
}

func TestPlaceOrderNotifiesCustomerAndStaff(t *testing.T) {
	repo := newMockRepository()
	cat := fixtureCatalog()
	dispatcher := newRecordingDispatcher()
	svc := NewService(repo, cat, NewNotifier(dispatcher, nil))

	_, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderRequest{
		PaymentMethod: "cash",
		Items:         []PlaceOrderItem{{ProductID: 1, Qty: 1}},
	})
	require.NoError(t, err)

	require.Len(t, dispatcher.direct[7], 1, "customer gets a direct notification")
	require.Len(t, dispatcher.roles, 1, "staff fan-out uses one batched call")
	batch := dispatcher.roles[0]
	assert.Contains(t, batch, "cashier")
	assert.Contains(t, batch, "owner")
	assert.NotEqual(t, batch["cashier"], batch["owner"], "each audience gets its own payload")
}

func TestPlaceOrderStockFailureAlertsStaffButKeepsOrder(t *testing.T) {
	repo := newMockRepository()
	cat := fixtureCatalog()
	cat.adjustErr = errors.New("db down")
	dispatcher := newRecordingDispatcher()
	svc := NewService(repo, cat, NewNotifier(dispatcher, nil))

	order, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderRequest{
		PaymentMethod: "cash",
		Items:         []PlaceOrderItem{{ProductID: 1, Qty: 1}},
	})
	require.NoError(t, err, "a committed sale survives a failed stock movement")
	require.NotZero(t, order.ID)

	require.Len(t, dispatcher.roles, 2, "stock alert plus the regular staff fan-out")
	alert := dispatcher.roles[0]
	require.Contains(t, alert, "cashier")
	require.Contains(t, alert, "superadmin")
	assert.Equal(t, "stock_adjustment", alert["cashier"].Metadata["operation"])
}

func TestPlaceOrderRejectsInactiveProduct(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, fixtureCatalog(), nil)

	_, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderRequest{
		PaymentMethod: "cash",
		Items:         []PlaceOrderItem{{ProductID: 3, Qty: 1}},
	})
	require.ErrorIs(t, err, ErrEmptyOrder)
	assert.Empty(t, repo.orders)
}

func TestPlaceOrderRejectsUnknownProduct(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, fixtureCatalog(), nil)

	_, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderRequest{
		PaymentMethod: "cash",
		Items:         []PlaceOrderItem{{ProductID: 99, Qty: 1}},
	})
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestPlaceOrderTxFailureSkipsSideEffects(t *testing.T) {
	repo := newMockRepository()
	repo.txError = errors.New("deadlock")
	cat := fixtureCatalog()
	dispatcher := newRecordingDispatcher()
	svc := NewService(repo, cat, NewNotifier(dispatcher, nil))

	_, err := svc.PlaceOrder(context.Background(), 7, PlaceOrderRequest{
		PaymentMethod: "cash",
		Items:         []PlaceOrderItem{{ProductID: 1, Qty: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, cat.adjustCalls, "no stock movement without a committed order")
	assert.Empty(t, dispatcher.direct)
	assert.Empty(t, dispatcher.roles)
}

func TestUpdateStatusNotifiesCustomer(t *testing.T) {
	repo := newMockRepository()
	repo.orders[5] = &Order{ID: 5, CustomerID: 7, Status: StatusPending}
	dispatcher := newRecordingDispatcher()
	svc := NewService(repo, fixtureCatalog(), NewNotifier(dispatcher, nil))

	order, err := svc.UpdateStatus(context.Background(), 5, StatusReady)
	require.NoError(t, err)
	assert.Equal(t, StatusReady, order.Status)
	require.Len(t, dispatcher.direct[7], 1)
	assert.Contains(t, dispatcher.direct[7][0].Message, "ready")
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, fixtureCatalog(), nil)

	_, err := svc.UpdateStatus(context.Background(), 5, "exploded")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestRecordPaymentFailureFansOutToOwnerAndAdmins(t *testing.T) {
	repo := newMockRepository()
	repo.orders[9] = &Order{ID: 9, CustomerID: 7, Status: StatusPending}
	dispatcher := newRecordingDispatcher()
	svc := NewService(repo, fixtureCatalog(), NewNotifier(dispatcher, nil))

	order, err := svc.RecordPaymentResult(context.Background(), 9, false, 49.99, "gcash")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, order.Status, "failed payment leaves the order pending")

	require.Len(t, dispatcher.roles, 1, "owner and admins resolve in one batched call")
	batch := dispatcher.roles[0]
	require.Contains(t, batch, "owner")
	require.Contains(t, batch, "superadmin")
	assert.Equal(t, notify.PriorityCritical, batch["owner"].Priority)
	assert.Contains(t, batch["owner"].Message, "₱49.99")
	assert.Contains(t, batch["superadmin"].Message, "gcash")

	require.Len(t, dispatcher.direct[7], 1, "customer is told directly")
}

func TestRecordPaymentSuccessCompletesOrder(t *testing.T) {
	repo := newMockRepository()
	repo.orders[9] = &Order{ID: 9, CustomerID: 7, Status: StatusPending}
	dispatcher := newRecordingDispatcher()
	svc := NewService(repo, fixtureCatalog(), NewNotifier(dispatcher, nil))

	order, err := svc.RecordPaymentResult(context.Background(), 9, true, 49.99, "gcash")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, order.Status)
	assert.Contains(t, dispatcher.singles, "owner")
}
