package transport

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
)

type CustomerRequest struct {
	FirstName   string                 `json:"firstName" validate:"required"`
	LastName    string                 `json:"lastName" validate:"required"`
	Email       string                 `json:"email" validate:"required,email"`
	PhoneNumber string                 `json:"phoneNumber"`
	CompanyName string                 `json:"companyName"`
	Segment     domain.CustomerSegment `json:"segment" validate:"omitempty,oneof=REGULAR PREMIUM VIP"`
	Active      *bool                  `json:"active"`
}

// ToDomain builds a new customer. An omitted active flag means active.
func (r CustomerRequest) ToDomain() *domain.Customer {
	return r.ApplyTo(&domain.Customer{Active: true})
}

// ApplyTo copies the request onto current for an update. Omitted active and
// segment keep the values current already has.
func (r CustomerRequest) ApplyTo(current *domain.Customer) *domain.Customer {
	customer := *current
	customer.FirstName = strings.TrimSpace(r.FirstName)
	customer.LastName = strings.TrimSpace(r.LastName)
	customer.Email = strings.TrimSpace(r.Email)
	customer.PhoneNumber = r.PhoneNumber
	customer.CompanyName = r.CompanyName
	if r.Segment != "" {
		customer.Segment = r.Segment
	}
	if r.Active != nil {
		customer.Active = *r.Active
	}
	return &customer
}

type ProductRequest struct {
	SKU              string          `json:"sku" validate:"required"`
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	QuantityInStock  int             `json:"quantityInStock" validate:"gte=0"`
	ReservedQuantity int             `json:"reservedQuantity" validate:"gte=0"`
	MinStockLevel    *int            `json:"minStockLevel" validate:"omitempty,gte=0"`
	Active           *bool           `json:"active"`
}

// ToDomain builds a new product. An omitted active flag means active.
func (r ProductRequest) ToDomain() *domain.Product {
	return r.ApplyTo(&domain.Product{Active: true})
}

// ApplyTo copies the request onto current for an update. Omitted active and
// minStockLevel keep the values current already has.
func (r ProductRequest) ApplyTo(current *domain.Product) *domain.Product {
	product := *current
	product.SKU = strings.TrimSpace(r.SKU)
	product.Name = strings.TrimSpace(r.Name)
	product.Description = r.Description
	product.Price = r.Price
	product.CostPrice = r.CostPrice
	product.QuantityInStock = r.QuantityInStock
	product.ReservedQuantity = r.ReservedQuantity
	if r.MinStockLevel != nil {
		product.MinStockLevel = r.MinStockLevel
	}
	if r.Active != nil {
		product.Active = *r.Active
	}
	return &product
}

type OrderItemRequest struct {
	ProductID   int64           `json:"productId" validate:"gt=0"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// OrderRequest creates an order. OrderDate is optional and defaults to now upstream-side.
type OrderRequest struct {
	CustomerID int64              `json:"customerId" validate:"gt=0"`
	OrderDate  domain.Timestamp   `json:"orderDate"`
	Notes      string             `json:"notes"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r OrderRequest) ToDomain() *domain.Order {
	order := &domain.Order{
		CustomerID: r.CustomerID,
		OrderDate:  r.OrderDate,
		Notes:      r.Notes,
		Items:      make([]domain.OrderItem, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			ProductSKU:  item.ProductSKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return order
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// PaymentRequest processes a payment against an invoice.
type PaymentRequest struct {
	ReferenceNumber string          `json:"referenceNumber"`
	Method          string          `json:"method" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
}

func (r PaymentRequest) ToDomain() *domain.Payment {
	return &domain.Payment{
		ReferenceNumber: strings.TrimSpace(r.ReferenceNumber),
		Method:          strings.ToUpper(strings.TrimSpace(r.Method)),
		Amount:          r.Amount,
	}
}
