package billing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/logger"
	"github.com/fastygo/orderflow-dashboard/repository"
)

// UseCase proxies invoice and payment screens to the OrderFlow API and
// enforces the invoicing and payment rules before calling upstream.
type UseCase struct {
	source repository.BillingSource
	logger *zap.Logger
}

func New(source repository.BillingSource, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		source: source,
		logger: logger,
	}
}

// GenerateInvoice invoices a confirmed order. Orders still pending, or
// cancelled or refunded, are rejected locally.
func (uc *UseCase) GenerateInvoice(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	if orderID <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	order, err := uc.source.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Invoiceable() {
		return nil, domain.NewError(domain.ErrCodeInvalid,
			fmt.Sprintf("cannot invoice order %s in status %s", order.OrderNumber, order.Status))
	}

	invoice, err := uc.source.GenerateInvoice(ctx, orderID)
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("invoice generated",
		zap.Int64("order_id", orderID), zap.String("invoice_number", invoice.InvoiceNumber))
	return invoice, nil
}

func (uc *UseCase) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.GetInvoice(ctx, id)
}

func (uc *UseCase) GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "invoice number is required")
	}
	return uc.source.GetInvoiceByNumber(ctx, number)
}

func (uc *UseCase) GetInvoiceByOrder(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	if orderID <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.GetInvoiceByOrder(ctx, orderID)
}

func (uc *UseCase) ListCustomerInvoices(ctx context.Context, customerID int64) ([]domain.Invoice, error) {
	if customerID <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.ListCustomerInvoices(ctx, customerID)
}

func (uc *UseCase) ListOverdueInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return uc.source.ListOverdueInvoices(ctx)
}

func (uc *UseCase) UpdateInvoiceStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (*domain.Invoice, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	if _, err := domain.ParseInvoiceStatus(string(status)); err != nil {
		return nil, err
	}
	return uc.source.UpdateInvoiceStatus(ctx, id, status)
}

// MarkInvoicePaid settles the full balance. Cancelled invoices cannot be paid.
func (uc *UseCase) MarkInvoicePaid(ctx context.Context, id int64) error {
	invoice, err := uc.GetInvoice(ctx, id)
	if err != nil {
		return err
	}
	if invoice.Status == domain.InvoiceCancelled {
		return domain.NewError(domain.ErrCodeConflict,
			fmt.Sprintf("invoice %s is cancelled", invoice.InvoiceNumber))
	}
	if err := uc.source.MarkInvoicePaid(ctx, id); err != nil {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Info("invoice marked paid",
		zap.Int64("invoice_id", id), zap.String("amount", invoice.Balance().String()))
	return nil
}

// ProcessPayment checks the amount against the invoice balance before
// handing the payment to upstream.
func (uc *UseCase) ProcessPayment(ctx context.Context, invoiceID int64, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil || strings.TrimSpace(payment.Method) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "payment method is required")
	}
	invoice, err := uc.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := payment.CheckAgainst(invoice); err != nil {
		return nil, err
	}

	processed, err := uc.source.ProcessPayment(ctx, invoiceID, payment)
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("payment processed",
		zap.Int64("invoice_id", invoiceID),
		zap.String("reference", processed.ReferenceNumber),
		zap.String("amount", payment.Amount.String()))
	return processed, nil
}

func (uc *UseCase) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.GetPayment(ctx, id)
}

func (uc *UseCase) GetPaymentByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "payment reference is required")
	}
	return uc.source.GetPaymentByReference(ctx, reference)
}

func (uc *UseCase) ListInvoicePayments(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	if invoiceID <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	return uc.source.ListInvoicePayments(ctx, invoiceID)
}

func (uc *UseCase) ListPaymentsByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	if _, err := domain.ParsePaymentStatus(string(status)); err != nil {
		return nil, err
	}
	return uc.source.ListPaymentsByStatus(ctx, status)
}

func (uc *UseCase) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Payment, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidPayload
	}
	if _, err := domain.ParsePaymentStatus(string(status)); err != nil {
		return nil, err
	}
	return uc.source.UpdatePaymentStatus(ctx, id, status)
}
