package notify

import "time"

// Priority orders notifications for display and alerting.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Channel tags the delivery surface for a payload.
type Channel string

const (
	ChannelInApp Channel = "in_app"
)

// Category groups notifications by the subsystem that produced them.
const (
	CategoryOrder    = "order"
	CategoryPayment  = "payment"
	CategoryStock    = "stock"
	CategorySystem   = "system"
	CategorySecurity = "security"
)

// EntityRef points a notification at the record it concerns.
type EntityRef struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

// Payload is a fully formed notification without a recipient. Values are
// built once by the audience builders and shared across every recipient a
// dispatch resolves, so they must never be mutated after construction.
type Payload struct {
	Title    string
	Message  string
	Category string
	Entity   *EntityRef
	Priority Priority
	Metadata map[string]string
	Channel  Channel
}

// Record is a payload bound to one recipient, as persisted.
type Record struct {
	ID        int64
	UserID    int64
	Payload   Payload
	Read      bool
	CreatedAt time.Time
}
