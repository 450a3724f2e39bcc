package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/api/transport"
	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
	catalogUC "github.com/fastygo/orderflow-dashboard/usecase/catalog"
)

type CustomerHandler struct {
	baseHandler
	uc *catalogUC.UseCase
}

func NewCustomerHandler(uc *catalogUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List customers
// @Tags customers
// @Router /api/v1/customers [get]
func (h *CustomerHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	customers, err := h.uc.ListCustomers(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewCustomerViews(customers))
}

// @Summary Get customer
// @Tags customers
// @Router /api/v1/customers/{id} [get]
func (h *CustomerHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	customer, err := h.uc.GetCustomer(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewCustomerView(*customer))
}

// @Summary Create customer
// @Tags customers
// @Router /api/v1/customers [post]
func (h *CustomerHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.CustomerRequest
	if !h.decodeBody(ctx, &req, false) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateCustomer(stdCtx, req.ToDomain())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewCustomerView(*created))
}

// @Summary Update customer
// @Tags customers
// @Router /api/v1/customers/{id} [put]
func (h *CustomerHandler) Update(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.CustomerRequest
	if !h.decodeBody(ctx, &req, false) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	current, err := h.uc.GetCustomer(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	updated, err := h.uc.UpdateCustomer(stdCtx, req.ApplyTo(current))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewCustomerView(*updated))
}

// @Summary Delete customer
// @Tags customers
// @Router /api/v1/customers/{id} [delete]
func (h *CustomerHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteCustomer(stdCtx, id); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}
