package repository

import (
	"context"

	"github.com/fastygo/orderflow-dashboard/domain"
)

// InvoiceSource reads and mutates invoices owned by the OrderFlow API.
type InvoiceSource interface {
	GenerateInvoice(ctx context.Context, orderID int64) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error)
	GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID int64) (*domain.Invoice, error)
	ListCustomerInvoices(ctx context.Context, customerID int64) ([]domain.Invoice, error)
	ListOverdueInvoices(ctx context.Context) ([]domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (*domain.Invoice, error)
	MarkInvoicePaid(ctx context.Context, id int64) error
}

type PaymentSource interface {
	ProcessPayment(ctx context.Context, invoiceID int64, payment *domain.Payment) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	GetPaymentByReference(ctx context.Context, reference string) (*domain.Payment, error)
	ListInvoicePayments(ctx context.Context, invoiceID int64) ([]domain.Payment, error)
	ListPaymentsByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Payment, error)
}

// BillingSource is the invoice and payment surface plus the order lookup the
// billing rules need.
type BillingSource interface {
	InvoiceSource
	PaymentSource
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}
