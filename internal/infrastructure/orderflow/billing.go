package orderflow

import (
	"context"
	"net/url"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/repository"
)

const (
	invoicesPath = "/invoices"
	paymentsPath = "/payments"
)

func (c *Client) GenerateInvoice(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	path := invoicesPath + "/generate" + entityPath("/order", orderID)
	status, body, err := c.do(ctx, fasthttp.MethodPost, path, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := statusError(status, body, domain.ErrOrderNotFound); err != nil {
		return nil, err
	}
	return decodeEntity[domain.Invoice](ctx, c, path, body)
}

func (c *Client) GetInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	return fetchOne[domain.Invoice](ctx, c, entityPath(invoicesPath, id), domain.ErrInvoiceNotFound)
}

func (c *Client) GetInvoiceByNumber(ctx context.Context, number string) (*domain.Invoice, error) {
	return fetchOne[domain.Invoice](ctx, c, invoicesPath+"/number/"+escapeSegment(number), domain.ErrInvoiceNotFound)
}

func (c *Client) GetInvoiceByOrder(ctx context.Context, orderID int64) (*domain.Invoice, error) {
	return fetchOne[domain.Invoice](ctx, c, invoicesPath+entityPath("/order", orderID), domain.ErrInvoiceNotFound)
}

func (c *Client) ListCustomerInvoices(ctx context.Context, customerID int64) ([]domain.Invoice, error) {
	return fetchList[domain.Invoice](ctx, c, invoicesPath+entityPath("/customer", customerID))
}

func (c *Client) ListOverdueInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return fetchList[domain.Invoice](ctx, c, invoicesPath+"/overdue")
}

func (c *Client) UpdateInvoiceStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (*domain.Invoice, error) {
	return patchStatus[domain.Invoice](ctx, c, entityPath(invoicesPath, id)+"/status", string(status), domain.ErrInvoiceNotFound)
}

func (c *Client) MarkInvoicePaid(ctx context.Context, id int64) error {
	return c.expectOK(ctx, fasthttp.MethodPost, entityPath(invoicesPath, id)+"/mark-paid", nil, domain.ErrInvoiceNotFound)
}

func (c *Client) ProcessPayment(ctx context.Context, invoiceID int64, payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil {
		return nil, domain.ErrInvalidPayload
	}
	req := paymentRequest{
		ReferenceNumber: payment.ReferenceNumber,
		Method:          strings.ToUpper(strings.TrimSpace(payment.Method)),
		Amount:          payment.Amount,
	}
	path := paymentsPath + "/process" + entityPath("/invoice", invoiceID)
	return send[domain.Payment](ctx, c, fasthttp.MethodPost, path, req, domain.ErrInvoiceNotFound)
}

func (c *Client) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return fetchOne[domain.Payment](ctx, c, entityPath(paymentsPath, id), domain.ErrPaymentNotFound)
}

func (c *Client) GetPaymentByReference(ctx context.Context, reference string) (*domain.Payment, error) {
	return fetchOne[domain.Payment](ctx, c, paymentsPath+"/reference/"+escapeSegment(reference), domain.ErrPaymentNotFound)
}

func (c *Client) ListInvoicePayments(ctx context.Context, invoiceID int64) ([]domain.Payment, error) {
	return fetchList[domain.Payment](ctx, c, paymentsPath+entityPath("/invoice", invoiceID))
}

func (c *Client) ListPaymentsByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.Payment, error) {
	return fetchList[domain.Payment](ctx, c, paymentsPath+"/status/"+string(status))
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Payment, error) {
	return patchStatus[domain.Payment](ctx, c, entityPath(paymentsPath, id)+"/status", string(status), domain.ErrPaymentNotFound)
}

func patchStatus[T any](ctx context.Context, c *Client, path, status string, notFound error) (*T, error) {
	code, body, err := c.do(ctx, fasthttp.MethodPatch, path, map[string]string{"status": status}, nil)
	if err != nil {
		return nil, err
	}
	if err := statusError(code, body, notFound); err != nil {
		return nil, err
	}
	return decodeEntity[T](ctx, c, path, body)
}

func escapeSegment(v string) string {
	return url.PathEscape(strings.TrimSpace(v))
}

var _ repository.BillingSource = (*Client)(nil)
