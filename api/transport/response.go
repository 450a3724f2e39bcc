package transport

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
)

// Envelope wraps every API response.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String is a best-effort JSON rendering for logs.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// StatsMeta describes the freshness of the stats payload.
type StatsMeta struct {
	SnapshotID string     `json:"snapshot_id,omitempty"`
	ComputedAt *time.Time `json:"computed_at,omitempty"`
	Stale      bool       `json:"stale"`
	LastError  string     `json:"last_error,omitempty"`
	FailedAt   *time.Time `json:"failed_at,omitempty"`
}

func NewStatsMeta(snapshot domain.Snapshot, stale bool, lastErr string, failedAt time.Time) StatsMeta {
	meta := StatsMeta{
		SnapshotID: snapshot.ID,
		Stale:      stale,
		LastError:  lastErr,
	}
	if !snapshot.IsZero() {
		computed := snapshot.ComputedAt.UTC()
		meta.ComputedAt = &computed
	}
	if !failedAt.IsZero() {
		failed := failedAt.UTC()
		meta.FailedAt = &failed
	}
	return meta
}

type PageMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// CustomerView adds the name list screens render.
type CustomerView struct {
	domain.Customer
	DisplayName string `json:"displayName"`
}

func NewCustomerView(customer domain.Customer) CustomerView {
	return CustomerView{Customer: customer, DisplayName: customer.DisplayName()}
}

func NewCustomerViews(customers []domain.Customer) []CustomerView {
	views := make([]CustomerView, 0, len(customers))
	for _, customer := range customers {
		views = append(views, NewCustomerView(customer))
	}
	return views
}

// ProductView adds the stock figures the inventory screen highlights.
type ProductView struct {
	domain.Product
	AvailableStock int  `json:"availableStock"`
	LowStock       bool `json:"lowStock"`
	BelowMinimum   bool `json:"belowMinimum"`
}

func NewProductView(product domain.Product) ProductView {
	return ProductView{
		Product:        product,
		AvailableStock: product.AvailableStock(),
		LowStock:       product.IsLowStock(),
		BelowMinimum:   product.BelowMinimum(),
	}
}

func NewProductViews(products []domain.Product) []ProductView {
	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, NewProductView(product))
	}
	return views
}

// OrderView adds the display date and line count the order screens render.
type OrderView struct {
	domain.Order
	OrderDateDisplay string `json:"orderDateDisplay"`
	ItemCount        int    `json:"itemCount"`
}

func NewOrderView(order domain.Order) OrderView {
	return OrderView{
		Order:            order,
		OrderDateDisplay: order.OrderDate.Display(),
		ItemCount:        order.ItemCount(),
	}
}

func NewOrderViews(orders []domain.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, NewOrderView(order))
	}
	return views
}

type InvoiceView struct {
	domain.Invoice
	Balance            decimal.Decimal `json:"balance"`
	Overdue            bool            `json:"overdue"`
	InvoiceDateDisplay string          `json:"invoiceDateDisplay"`
	DueDateDisplay     string          `json:"dueDateDisplay"`
}

// NewInvoiceView evaluates the overdue flag at now.
func NewInvoiceView(invoice domain.Invoice, now time.Time) InvoiceView {
	return InvoiceView{
		Invoice:            invoice,
		Balance:            invoice.Balance(),
		Overdue:            invoice.OverdueAt(now),
		InvoiceDateDisplay: invoice.InvoiceDate.Display(),
		DueDateDisplay:     invoice.DueDate.Display(),
	}
}

func NewInvoiceViews(invoices []domain.Invoice, now time.Time) []InvoiceView {
	views := make([]InvoiceView, 0, len(invoices))
	for _, invoice := range invoices {
		views = append(views, NewInvoiceView(invoice, now))
	}
	return views
}

type PaymentView struct {
	domain.Payment
	PaymentDateDisplay string `json:"paymentDateDisplay"`
}

func NewPaymentView(payment domain.Payment) PaymentView {
	return PaymentView{Payment: payment, PaymentDateDisplay: payment.PaymentDate.Display()}
}

func NewPaymentViews(payments []domain.Payment) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, payment := range payments {
		views = append(views, NewPaymentView(payment))
	}
	return views
}

// RefreshFailedMeta carries the still-published numbers when a refresh fails.
type RefreshFailedMeta struct {
	StatsMeta
	Previous domain.Stats `json:"previous"`
}
