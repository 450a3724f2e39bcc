package orderflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
)

type entityRef struct {
	ID int64 `json:"id"`
}

// orderRequest is the shape the OrderFlow API binds new orders from: nested
// customer and product references rather than flat ids.
type orderRequest struct {
	Customer  entityRef          `json:"customer"`
	OrderDate string             `json:"orderDate"`
	Status    domain.OrderStatus `json:"status"`
	Notes     string             `json:"notes,omitempty"`
	Items     []orderItemRequest `json:"items"`
}

type orderItemRequest struct {
	Product     entityRef       `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
}

func newOrderRequest(order *domain.Order) orderRequest {
	orderDate := order.OrderDate.Time
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}
	status := order.Status
	if status == "" {
		status = domain.OrderPending
	}

	req := orderRequest{
		Customer:  entityRef{ID: order.CustomerID},
		OrderDate: orderDate.Format(time.RFC3339),
		Status:    status,
		Notes:     order.Notes,
		Items:     make([]orderItemRequest, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		req.Items = append(req.Items, orderItemRequest{
			Product:     entityRef{ID: item.ProductID},
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
		})
	}
	return req
}

// paymentRequest leaves status and invoice out; upstream assigns both.
type paymentRequest struct {
	ReferenceNumber string          `json:"referenceNumber,omitempty"`
	Method          string          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
}
