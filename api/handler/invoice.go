package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/api/transport"
	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
	billingUC "github.com/fastygo/orderflow-dashboard/usecase/billing"
)

type InvoiceHandler struct {
	baseHandler
	uc  *billingUC.UseCase
	now func() time.Time
}

func NewInvoiceHandler(uc *billingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		now:         time.Now,
	}
}

// @Summary Generate invoice for order
// @Tags invoices
// @Router /api/v1/invoices/generate/order/{id} [post]
func (h *InvoiceHandler) Generate(ctx *fasthttp.RequestCtx) {
	orderID, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoice, err := h.uc.GenerateInvoice(stdCtx, orderID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewInvoiceView(*invoice, h.now()))
}

// @Summary Get invoice
// @Tags invoices
// @Router /api/v1/invoices/{id} [get]
func (h *InvoiceHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoice, err := h.uc.GetInvoice(stdCtx, id)
	h.respondInvoice(ctx, stdCtx, invoice, err)
}

// @Summary Get invoice by number
// @Tags invoices
// @Router /api/v1/invoices/number/{number} [get]
func (h *InvoiceHandler) GetByNumber(ctx *fasthttp.RequestCtx) {
	number, ok := h.pathString(ctx, "number")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoice, err := h.uc.GetInvoiceByNumber(stdCtx, number)
	h.respondInvoice(ctx, stdCtx, invoice, err)
}

// @Summary Get invoice for order
// @Tags invoices
// @Router /api/v1/invoices/order/{id} [get]
func (h *InvoiceHandler) GetByOrder(ctx *fasthttp.RequestCtx) {
	orderID, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoice, err := h.uc.GetInvoiceByOrder(stdCtx, orderID)
	h.respondInvoice(ctx, stdCtx, invoice, err)
}

// @Summary List customer invoices
// @Tags invoices
// @Router /api/v1/invoices/customer/{id} [get]
func (h *InvoiceHandler) ListByCustomer(ctx *fasthttp.RequestCtx) {
	customerID, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoices, err := h.uc.ListCustomerInvoices(stdCtx, customerID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewInvoiceViews(invoices, h.now()))
}

// @Summary List overdue invoices
// @Tags invoices
// @Router /api/v1/invoices/overdue [get]
func (h *InvoiceHandler) ListOverdue(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoices, err := h.uc.ListOverdueInvoices(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewInvoiceViews(invoices, h.now()))
}

// @Summary Update invoice status
// @Tags invoices
// @Router /api/v1/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.StatusUpdateRequest
	if !h.decodeBody(ctx, &req, false) {
		return
	}
	status, err := domain.ParseInvoiceStatus(req.Status)
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invoice, err := h.uc.UpdateInvoiceStatus(stdCtx, id, status)
	h.respondInvoice(ctx, stdCtx, invoice, err)
}

// @Summary Mark invoice paid
// @Tags invoices
// @Router /api/v1/invoices/{id}/mark-paid [post]
func (h *InvoiceHandler) MarkPaid(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.MarkInvoicePaid(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *InvoiceHandler) respondInvoice(ctx *fasthttp.RequestCtx, stdCtx context.Context, invoice *domain.Invoice, err error) {
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewInvoiceView(*invoice, h.now()))
}
