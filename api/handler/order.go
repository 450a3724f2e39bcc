package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/api/transport"
	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
	catalogUC "github.com/fastygo/orderflow-dashboard/usecase/catalog"
)

type OrderHandler struct {
	baseHandler
	uc *catalogUC.UseCase
}

func NewOrderHandler(uc *catalogUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List orders
// @Tags orders
// @Router /api/v1/orders [get]
func (h *OrderHandler) List(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	orders, err := h.uc.ListOrders(stdCtx)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewOrderViews(orders))
}

// @Summary Get order
// @Tags orders
// @Router /api/v1/orders/{id} [get]
func (h *OrderHandler) Get(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	order, err := h.uc.GetOrder(stdCtx, id)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewOrderView(*order))
}

// @Summary Create order
// @Tags orders
// @Router /api/v1/orders [post]
func (h *OrderHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.OrderRequest
	if !h.decodeBody(ctx, &req, false) {
		return
	}
	if raw := req.OrderDate.Unreadable(); raw != "" {
		h.respondInvalid(ctx, "orderDate is not a valid date")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateOrder(stdCtx, req.ToDomain())
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, transport.NewOrderView(*created))
}

// @Summary Cancel order
// @Tags orders
// @Router /api/v1/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.CancelOrderRequest
	if !h.decodeBody(ctx, &req, true) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.CancelOrder(stdCtx, id, req.Reason); err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Update order status
// @Tags orders
// @Router /api/v1/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	id, ok := h.pathID(ctx)
	if !ok {
		return
	}
	var req transport.StatusUpdateRequest
	if !h.decodeBody(ctx, &req, false) {
		return
	}
	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		h.respondInvalid(ctx, err.Error())
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateOrderStatus(stdCtx, id, status)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewOrderView(*updated))
}
