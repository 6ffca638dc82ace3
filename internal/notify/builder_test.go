package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildersAreDeterministic(t *testing.T) {
	first := ForCustomer{}.OrderPlaced(42, 1299.5)
	second := ForCustomer{}.OrderPlaced(42, 1299.5)
	assert.Equal(t, first, second, "identical inputs must yield identical payloads")

	assert.Equal(t,
		ForAdmin{}.SecurityEvent("login_failed", "5 failed logins for kiosk account"),
		ForAdmin{}.SecurityEvent("login_failed", "5 failed logins for kiosk account"))
}

func TestBuildersCarryNoRecipient(t *testing.T) {
	payload := ForOwner{}.LowStock(3, "Sprite 12oz", 2)
	assert.NotContains(t, payload.Metadata, "user_id")
	assert.NotContains(t, payload.Metadata, "recipient")
}

func TestPriorityPolicy(t *testing.T) {
	assert.Equal(t, PriorityCritical, ForOwner{}.PaymentFailed(1, 49.99, "gcash").Priority)
	assert.Equal(t, PriorityCritical, ForAdmin{}.SecurityEvent("x", "y").Priority)
	assert.Equal(t, PriorityHigh, ForCustomer{}.PaymentFailed(1, 49.99, "gcash").Priority)
	assert.Equal(t, PriorityHigh, ForCashier{}.LowStock(1, "n", 1).Priority)
	assert.Equal(t, PriorityMedium, ForCustomer{}.OrderStatusChanged(1, "preparing").Priority)
	assert.Equal(t, PriorityLow, ForAdmin{}.CleanupCompleted(12).Priority)
}

func TestAmountFormatting(t *testing.T) {
	payload := ForCustomer{}.OrderPlaced(7, 1299.5)
	assert.Contains(t, payload.Message, "₱1,299.50")

	payload = ForOwner{}.PaymentFailed(55, 49.99, "gcash")
	assert.Contains(t, payload.Message, "₱49.99")
	assert.Contains(t, payload.Message, "gcash")
}

func TestOrderPayloadsReferenceTheOrder(t *testing.T) {
	for _, payload := range []Payload{
		ForCustomer{}.OrderPlaced(9, 10),
		ForCustomer{}.PaymentReceived(9, 10, "cash"),
		ForCashier{}.OrderPlaced(9, 2),
		ForOwner{}.PaymentFailed(9, 10, "card"),
		ForAdmin{}.PaymentFailed(9, 10, "card"),
	} {
		require.NotNil(t, payload.Entity)
		assert.Equal(t, "order", payload.Entity.Type)
		assert.Equal(t, int64(9), payload.Entity.ID)
		assert.Equal(t, "9", payload.Metadata["order_id"])
	}
}

func TestStockPayloadsReferenceTheProduct(t *testing.T) {
	for _, payload := range []Payload{
		ForCashier{}.LowStock(3, "Sprite 12oz", 2),
		ForOwner{}.LowStock(3, "Sprite 12oz", 2),
	} {
		require.NotNil(t, payload.Entity)
		assert.Equal(t, "product", payload.Entity.Type)
		assert.Equal(t, CategoryStock, payload.Category)
		assert.Equal(t, "2", payload.Metadata["remaining"])
	}
}
