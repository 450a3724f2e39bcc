package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// OrderStatus mirrors the OrderFlow order lifecycle.
type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderConfirmed  OrderStatus = "CONFIRMED"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderShipped    OrderStatus = "SHIPPED"
	OrderDelivered  OrderStatus = "DELIVERED"
	OrderCancelled  OrderStatus = "CANCELLED"
	OrderRefunded   OrderStatus = "REFUNDED"
)

// DefaultCancelReason is sent upstream when a cancellation carries no reason.
const DefaultCancelReason = "Cancelled by user"

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderRefunded},
}

// ParseOrderStatus validates a status name, ignoring case and surrounding space.
func ParseOrderStatus(v string) (OrderStatus, error) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !status.Valid() {
		return "", NewError(ErrCodeInvalid, fmt.Sprintf("unknown order status %q", v))
	}
	return status, nil
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// Invoiceable reports whether an invoice may be generated for an order in s:
// it must have been confirmed and not cancelled or refunded.
func (s OrderStatus) Invoiceable() bool {
	switch s {
	case OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// OrderItem is a single order line as returned by the API.
type OrderItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"productId,omitempty"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// Order is owned by the OrderFlow API. It has no soft-delete marker; cancelled
// orders stay in the collection with status CANCELLED.
type Order struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"orderNumber"`
	CustomerID    int64           `json:"customerId"`
	CustomerName  string          `json:"customerName,omitempty"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	OrderDate     Timestamp       `json:"orderDate"`
	Status        OrderStatus     `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Notes         string          `json:"notes,omitempty"`
	Items         []OrderItem     `json:"items"`
}

// CountsTowardRevenue excludes cancelled orders; every other status contributes.
func (o *Order) CountsTowardRevenue() bool {
	return o != nil && o.Status != OrderCancelled
}

// ItemCount sums the quantities across all lines.
func (o *Order) ItemCount() int {
	if o == nil {
		return 0
	}
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// UnreadableDates reports date fields the decoder had to drop.
func (o *Order) UnreadableDates() map[string]string {
	return UnreadableDates(DateField{Name: "orderDate", Value: o.OrderDate})
}
