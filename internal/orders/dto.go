package orders

// PlaceOrderRequest is the inbound order body. Item prices are absent on
// purpose: the service re-derives every price from the catalog.
type PlaceOrderRequest struct {
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=cash gcash card"`
	Items         []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
}

// PlaceOrderItem is one requested line.
type PlaceOrderItem struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Qty       int   `json:"qty" validate:"required,gt=0"`
}

// UpdateStatusRequest moves an order to a new status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentResultRequest records the outcome reported by the payment
// collaborator.
type PaymentResultRequest struct {
	Succeeded bool    `json:"succeeded"`
	Amount    float64 `json:"amount" validate:"gte=0"`
	Method    string  `json:"method" validate:"required"`
}
