package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/api/transport"
	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
	billingUC "github.com/fastygo/orderflow-dashboard/usecase/billing"
)

type PaymentHandler struct {
	baseHandler
	uc *billingUC.UseCase
}

func NewPaymentHandler(uc *billingUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Process payment for invoice
// @Tags payments
// @Router /api/v1/payments/process/invoice/{id} [post]
func (h *PaymentHandler) Process(ctx *fasthttp.RequestCtx) {
	invoiceID, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.PaymentRequest
	if !h.decodeBody(ctx, &req, false) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payment, err := h.uc.ProcessPayment(stdCtx, invoiceID, req.ToDomain())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewPaymentView(*payment))
}

// @Summary Get payment
// @Tags payments
// @Router /api/v1/payments/{id} [get]
func (h *PaymentHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payment, err := h.uc.GetPayment(stdCtx, id)
	h.respondPayment(ctx, stdCtx, payment, err)
}

// @Summary Get payment by reference
// @Tags payments
// @Router /api/v1/payments/reference/{reference} [get]
func (h *PaymentHandler) GetByReference(ctx *fasthttp.RequestCtx) {
	reference, ok := h.pathString(ctx, "reference")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payment, err := h.uc.GetPaymentByReference(stdCtx, reference)
	h.respondPayment(ctx, stdCtx, payment, err)
}

// @Summary List invoice payments
// @Tags payments
// @Router /api/v1/payments/invoice/{id} [get]
func (h *PaymentHandler) ListByInvoice(ctx *fasthttp.RequestCtx) {
	invoiceID, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payments, err := h.uc.ListInvoicePayments(stdCtx, invoiceID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewPaymentViews(payments))
}

// @Summary List payments by status
// @Tags payments
// @Router /api/v1/payments/status/{status} [get]
func (h *PaymentHandler) ListByStatus(ctx *fasthttp.RequestCtx) {
	raw, ok := h.pathString(ctx, "status")
	if !ok {
		return
	}
	status, err := domain.ParsePaymentStatus(raw)
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payments, err := h.uc.ListPaymentsByStatus(stdCtx, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewPaymentViews(payments))
}

// @Summary Update payment status
// @Tags payments
// @Router /api/v1/payments/{id}/status [patch]
func (h *PaymentHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.StatusUpdateRequest
	if !h.decodeBody(ctx, &req, false) {
		return
	}
	status, err := domain.ParsePaymentStatus(req.Status)
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	payment, err := h.uc.UpdatePaymentStatus(stdCtx, id, status)
	h.respondPayment(ctx, stdCtx, payment, err)
}

func (h *PaymentHandler) respondPayment(ctx *fasthttp.RequestCtx, stdCtx context.Context, payment *domain.Payment, err error) {
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewPaymentView(*payment))
}
