package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fastygo/orderflow-dashboard/domain"
)

type fakeBilling struct {
	orders   map[int64]domain.Order
	invoices map[int64]domain.Invoice

	generateCalls int
	paidCalls     int
	processed     *domain.Payment
}

func newFakeBilling() *fakeBilling {
	return &fakeBilling{
		orders: map[int64]domain.Order{
			1: {ID: 1, OrderNumber: "ORD-1", Status: domain.OrderPending},
			2: {ID: 2, OrderNumber: "ORD-2", Status: domain.OrderShipped},
			3: {ID: 3, OrderNumber: "ORD-3", Status: domain.OrderCancelled},
		},
		invoices: map[int64]domain.Invoice{
			10: {ID: 10, InvoiceNumber: "INV-10", Status: domain.InvoiceSent,
				TotalAmount: decimal.NewFromInt(100), PaidAmount: decimal.NewFromInt(40)},
			11: {ID: 11, InvoiceNumber: "INV-11", Status: domain.InvoiceCancelled,
				TotalAmount: decimal.NewFromInt(80)},
		},
	}
}

func (f *fakeBilling) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &order, nil
}
func (f *fakeBilling) GenerateInvoice(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	f.generateCalls++
	return &domain.Invoice{ID: 99, InvoiceNumber: "INV-99", Order: domain.Ref{ID: orderID}, Status: domain.InvoiceDraft}, nil
}
func (f *fakeBilling) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	return &invoice, nil
}
func (f *fakeBilling) GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return nil, domain.ErrInvoiceNotFound
}
func (f *fakeBilling) GetInvoiceByOrder(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	return nil, domain.ErrInvoiceNotFound
}
func (f *fakeBilling) ListCustomerInvoices(ctx context.Context, customerID int64) ([]domain.Invoice, error) {
	return nil, nil
}
func (f *fakeBilling) ListOverdueInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return nil, nil
}
func (f *fakeBilling) UpdateInvoiceStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (*domain.Invoice, error) {
	invoice, err := f.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	invoice.Status = status
	return invoice, nil
}
func (f *fakeBilling) MarkInvoicePaid(ctx context.Context, id int64) error {
	f.paidCalls++
	return nil
}

func (f *fakeBilling) ProcessPayment(ctx context.Context, invoiceID int64, payment *domain.Payment) (*domain.Payment, error) {
	f.processed = payment
	copied := *payment
	copied.ID = 1
	copied.ReferenceNumber = "PAY-1"
	copied.Status = domain.PaymentCompleted
	return &copied, nil
}
func (f *fakeBilling) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}
func (f *fakeBilling) GetPaymentByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	return nil, domain.ErrPaymentNotFound
}
func (f *fakeBilling) ListInvoicePayments(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	return nil, nil
}
func (f *fakeBilling) ListPaymentsByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	return nil, nil
}
func (f *fakeBilling) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Payment, error) {
	return &domain.Payment{ID: id, Status: status}, nil
}

func TestGenerateInvoiceRequiresConfirmedOrder(t *testing.T) {
	tests := []struct {
		name    string
		orderID int64
		code    domain.ErrorCode
	}{
		{"pending", 1, domain.ErrCodeInvalid},
		{"cancelled", 3, domain.ErrCodeInvalid},
		{"missing", 42, domain.ErrCodeNotFound},
		{"zero id", 0, domain.ErrCodeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeBilling()
			_, err := New(source, nil).GenerateInvoice(context.Background(), tt.orderID)
			if !domain.IsDomainError(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if source.generateCalls != 0 {
				t.Fatalf("upstream must not be called")
			}
		})
	}

	source := newFakeBilling()
	invoice, err := New(source, nil).GenerateInvoice(context.Background(), 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if invoice.Order.ID != 2 || source.generateCalls != 1 {
		t.Fatalf("unexpected invoice %+v", invoice)
	}
}

func TestProcessPaymentChecksBalance(t *testing.T) {
	tests := []struct {
		name      string
		invoiceID int64
		payment   *domain.Payment
		code      domain.ErrorCode
	}{
		{"missing method", 10, &domain.Payment{Amount: decimal.NewFromInt(10)}, domain.ErrCodeInvalid},
		{"zero amount", 10, &domain.Payment{Method: "CASH"}, domain.ErrCodeInvalid},
		{"over balance", 10, &domain.Payment{Method: "CASH", Amount: decimal.NewFromInt(61)}, domain.ErrCodeInvalid},
		{"cancelled invoice", 11, &domain.Payment{Method: "CASH", Amount: decimal.NewFromInt(5)}, domain.ErrCodeConflict},
		{"missing invoice", 12, &domain.Payment{Method: "CASH", Amount: decimal.NewFromInt(5)}, domain.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newFakeBilling()
			_, err := New(source, nil).ProcessPayment(context.Background(), tt.invoiceID, tt.payment)
			if !domain.IsDomainError(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if source.processed != nil {
				t.Fatalf("upstream must not be called")
			}
		})
	}
}

func TestProcessPaymentForFullBalance(t *testing.T) {
	source := newFakeBilling()
	payment, err := New(source, nil).ProcessPayment(context.Background(), 10,
		&domain.Payment{Method: "CREDIT_CARD", Amount: decimal.NewFromInt(60)})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if payment.Status != domain.PaymentCompleted || source.processed == nil {
		t.Fatalf("unexpected payment %+v", payment)
	}
}

func TestMarkInvoicePaid(t *testing.T) {
	source := newFakeBilling()
	uc := New(source, nil)

	if err := uc.MarkInvoicePaid(context.Background(), 11); !domain.IsDomainError(err, domain.ErrCodeConflict) {
		t.Fatalf("expected CONFLICT for cancelled invoice, got %v", err)
	}
	if err := uc.MarkInvoicePaid(context.Background(), 13); !errors.Is(err, domain.ErrInvoiceNotFound) {
		t.Fatalf("expected ErrInvoiceNotFound, got %v", err)
	}
	if err := uc.MarkInvoicePaid(context.Background(), 10); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if source.paidCalls != 1 {
		t.Fatalf("paid calls = %d", source.paidCalls)
	}
}

func TestStatusUpdatesRejectUnknownValues(t *testing.T) {
	uc := New(newFakeBilling(), nil)

	if _, err := uc.UpdateInvoiceStatus(context.Background(), 10, "LOST"); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}
	if _, err := uc.UpdatePaymentStatus(context.Background(), 1, "MAYBE"); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}
	invoice, err := uc.UpdateInvoiceStatus(context.Background(), 10, domain.InvoiceOverdue)
	if err != nil || invoice.Status != domain.InvoiceOverdue {
		t.Fatalf("update invoice status: %+v %v", invoice, err)
	}
}

func TestLookupsRequireKeys(t *testing.T) {
	uc := New(newFakeBilling(), nil)
	if _, err := uc.GetInvoiceByNumber(context.Background(), "  "); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}
	if _, err := uc.GetPaymentByReference(context.Background(), ""); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}
	if _, err := uc.ListCustomerInvoices(context.Background(), 0); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected INVALID, got %v", err)
	}
}
