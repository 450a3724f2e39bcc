package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/api/transport"
	"github.com/fastygo/orderflow-dashboard/domain"
	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
	"github.com/fastygo/orderflow-dashboard/repository"
	dashboardUC "github.com/fastygo/orderflow-dashboard/usecase/dashboard"
)

type DashboardHandler struct {
	baseHandler
	uc *dashboardUC.UseCase
}

func NewDashboardHandler(uc *dashboardUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Dashboard statistics
// @Tags dashboard
// @Router /api/v1/dashboard/stats [get]
func (h *DashboardHandler) GetStats(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state := h.uc.Stats(stdCtx)
	meta := transport.NewStatsMeta(state.Snapshot, state.Stale, state.LastError, state.FailedAt)
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(state.Snapshot.Stats, meta))
}

// @Summary Recompute dashboard statistics
// @Tags dashboard
// @Router /api/v1/dashboard/refresh [post]
func (h *DashboardHandler) Refresh(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snapshot, err := h.uc.Refresh(stdCtx)
	if err != nil {
		state := h.uc.State()
		status, code := mapError(err)
		if status < http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		meta := transport.RefreshFailedMeta{
			StatsMeta: transport.NewStatsMeta(state.Snapshot, state.Stale, state.LastError, state.FailedAt),
			Previous:  state.Snapshot.Stats,
		}
		h.respondJSON(ctx, status, transport.NewError(code, err.Error(), meta))
		return
	}
	meta := transport.NewStatsMeta(snapshot, false, "", time.Time{})
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(snapshot.Stats, meta))
}

// @Summary Snapshot history
// @Tags dashboard
// @Router /api/v1/dashboard/history [get]
func (h *DashboardHandler) GetHistory(ctx *fasthttp.RequestCtx) {
	filter := repository.SnapshotFilter{
		Limit:  parseInt(ctx.QueryArgs().Peek("limit"), 20),
		Offset: parseInt(ctx.QueryArgs().Peek("offset"), 0),
	}
	if filter.Limit <= 0 || filter.Offset < 0 {
		h.respondInvalid(ctx, "limit must be positive and offset must not be negative")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snapshots, err := h.uc.History(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if snapshots == nil {
		snapshots = []domain.Snapshot{}
	}
	meta := transport.PageMeta{Limit: filter.Limit, Offset: filter.Offset, Count: len(snapshots)}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(snapshots, meta))
}
