package notify

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Audience builders construct payloads per recipient archetype. They are
// pure: given the same event facts they return identical payloads, they
// never resolve recipients, and they never touch the store. One event can
// therefore fan out to several audiences without repeating any lookup.
//
// The audience set is closed. Adding an event kind means adding a method
// to each builder that should receive it.
type (
	// ForCustomer builds payloads addressed to the ordering customer.
	ForCustomer struct{}
	// ForCashier builds payloads for point-of-sale staff.
	ForCashier struct{}
	// ForOwner builds payloads for the store owner.
	ForOwner struct{}
	// ForAdmin builds payloads for system administrators.
	ForAdmin struct{}
)

var peso = message.NewPrinter(language.English)

func pesoAmount(v float64) string {
	return peso.Sprintf("₱%v", number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func orderRef(orderID int64) *EntityRef {
	return &EntityRef{Type: "order", ID: orderID}
}

func productRef(productID int64) *EntityRef {
	return &EntityRef{Type: "product", ID: productID}
}

// OrderPlaced confirms the customer's own order.
func (ForCustomer) OrderPlaced(orderID int64, total float64) Payload {
	return Payload{
		Title:    "Order received",
		Message:  fmt.Sprintf("Your order #%d for %s has been received and is being prepared.", orderID, pesoAmount(total)),
		Category: CategoryOrder,
		Entity:   orderRef(orderID),
		Priority: PriorityMedium,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10)},
		Channel:  ChannelInApp,
	}
}

// OrderStatusChanged tells the customer their order moved to a new status.
func (ForCustomer) OrderStatusChanged(orderID int64, status string) Payload {
	return Payload{
		Title:    "Order update",
		Message:  fmt.Sprintf("Your order #%d is now %s.", orderID, status),
		Category: CategoryOrder,
		Entity:   orderRef(orderID),
		Priority: PriorityMedium,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10), "status": status},
		Channel:  ChannelInApp,
	}
}

// PaymentReceived confirms the customer's payment.
func (ForCustomer) PaymentReceived(orderID int64, amount float64, method string) Payload {
	return Payload{
		Title:    "Payment confirmed",
		Message:  fmt.Sprintf("We received your %s payment of %s for order #%d. Thank you!", method, pesoAmount(amount), orderID),
		Category: CategoryPayment,
		Entity:   orderRef(orderID),
		Priority: PriorityMedium,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10), "method": method},
		Channel:  ChannelInApp,
	}
}

// PaymentFailed warns the customer their payment did not go through.
func (ForCustomer) PaymentFailed(orderID int64, amount float64, method string) Payload {
	return Payload{
		Title:    "Payment failed",
		Message:  fmt.Sprintf("Your %s payment of %s for order #%d could not be processed. Please try again.", method, pesoAmount(amount), orderID),
		Category: CategoryPayment,
		Entity:   orderRef(orderID),
		Priority: PriorityHigh,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10), "method": method},
		Channel:  ChannelInApp,
	}
}

// OrderPlaced alerts the floor that a new order needs fulfilment.
func (ForCashier) OrderPlaced(orderID int64, itemCount int) Payload {
	return Payload{
		Title:    "New order to fulfil",
		Message:  fmt.Sprintf("Order #%d with %d item(s) is waiting to be prepared.", orderID, itemCount),
		Category: CategoryOrder,
		Entity:   orderRef(orderID),
		Priority: PriorityHigh,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10), "items": strconv.Itoa(itemCount)},
		Channel:  ChannelInApp,
	}
}

// LowStock warns the floor that a product is close to running out.
func (ForCashier) LowStock(productID int64, name string, remaining int) Payload {
	return Payload{
		Title:    "Low stock",
		Message:  fmt.Sprintf("%s is down to %d unit(s). Check with the owner before selling more.", name, remaining),
		Category: CategoryStock,
		Entity:   productRef(productID),
		Priority: PriorityHigh,
		Metadata: map[string]string{"product_id": strconv.FormatInt(productID, 10), "remaining": strconv.Itoa(remaining)},
		Channel:  ChannelInApp,
	}
}

// OperationFailed reports a failed till operation to the cashier.
func (ForCashier) OperationFailed(operation, detail string) Payload {
	return Payload{
		Title:    "Operation failed",
		Message:  fmt.Sprintf("%s did not complete: %s", operation, detail),
		Category: CategorySystem,
		Priority: PriorityHigh,
		Metadata: map[string]string{"operation": operation},
		Channel:  ChannelInApp,
	}
}

// OrderPlaced gives the owner a sale summary.
func (ForOwner) OrderPlaced(orderID int64, total float64) Payload {
	return Payload{
		Title:    "New sale",
		Message:  fmt.Sprintf("Order #%d came in for %s.", orderID, pesoAmount(total)),
		Category: CategoryOrder,
		Entity:   orderRef(orderID),
		Priority: PriorityMedium,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10)},
		Channel:  ChannelInApp,
	}
}

// PaymentReceived records revenue for the owner.
func (ForOwner) PaymentReceived(orderID int64, amount float64, method string) Payload {
	return Payload{
		Title:    "Payment received",
		Message:  fmt.Sprintf("%s collected via %s for order #%d.", pesoAmount(amount), method, orderID),
		Category: CategoryPayment,
		Entity:   orderRef(orderID),
		Priority: PriorityMedium,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10), "method": method},
		Channel:  ChannelInApp,
	}
}

// PaymentFailed flags lost revenue to the owner.
func (ForOwner) PaymentFailed(orderID int64, amount float64, method string) Payload {
	return Payload{
		Title:    "Payment failed",
		Message:  fmt.Sprintf("A %s payment of %s for order #%d failed. The customer may need assistance.", method, pesoAmount(amount), orderID),
		Category: CategoryPayment,
		Entity:   orderRef(orderID),
		Priority: PriorityCritical,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10), "method": method},
		Channel:  ChannelInApp,
	}
}

// LowStock asks the owner to restock.
func (ForOwner) LowStock(productID int64, name string, remaining int) Payload {
	return Payload{
		Title:    "Restock needed",
		Message:  fmt.Sprintf("%s has only %d unit(s) left.", name, remaining),
		Category: CategoryStock,
		Entity:   productRef(productID),
		Priority: PriorityHigh,
		Metadata: map[string]string{"product_id": strconv.FormatInt(productID, 10), "remaining": strconv.Itoa(remaining)},
		Channel:  ChannelInApp,
	}
}

// SystemEvent records a noteworthy platform event for administrators.
func (ForAdmin) SystemEvent(code, detail string) Payload {
	return Payload{
		Title:    "System event",
		Message:  detail,
		Category: CategorySystem,
		Priority: PriorityMedium,
		Metadata: map[string]string{"code": code},
		Channel:  ChannelInApp,
	}
}

// SecurityEvent flags suspicious activity for administrators.
func (ForAdmin) SecurityEvent(code, detail string) Payload {
	return Payload{
		Title:    "Security alert",
		Message:  detail,
		Category: CategorySecurity,
		Priority: PriorityCritical,
		Metadata: map[string]string{"code": code},
		Channel:  ChannelInApp,
	}
}

// OperationFailed reports a failed backend operation to administrators.
func (ForAdmin) OperationFailed(operation, detail string) Payload {
	return Payload{
		Title:    "Operation failed",
		Message:  fmt.Sprintf("%s failed: %s", operation, detail),
		Category: CategorySystem,
		Priority: PriorityHigh,
		Metadata: map[string]string{"operation": operation},
		Channel:  ChannelInApp,
	}
}

// PaymentFailed mirrors payment failures to administrators for follow-up.
func (ForAdmin) PaymentFailed(orderID int64, amount float64, method string) Payload {
	return Payload{
		Title:    "Payment failure",
		Message:  fmt.Sprintf("Order #%d: %s payment of %s failed.", orderID, method, pesoAmount(amount)),
		Category: CategoryPayment,
		Entity:   orderRef(orderID),
		Priority: PriorityHigh,
		Metadata: map[string]string{"order_id": strconv.FormatInt(orderID, 10), "method": method},
		Channel:  ChannelInApp,
	}
}

// CleanupCompleted summarises a retention sweep for administrators.
func (ForAdmin) CleanupCompleted(removed int64) Payload {
	return Payload{
		Title:    "Notification cleanup completed",
		Message:  fmt.Sprintf("Removed %d read notification(s) past the retention window.", removed),
		Category: CategorySystem,
		Priority: PriorityLow,
		Metadata: map[string]string{"removed": strconv.FormatInt(removed, 10)},
		Channel:  ChannelInApp,
	}
}
