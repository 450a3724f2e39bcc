package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/orderflow-dashboard/api/transport"
	"github.com/fastygo/orderflow-dashboard/internal/infrastructure/monitor"
	"github.com/fastygo/orderflow-dashboard/pkg/httpcontext"
)

// StatusProvider is satisfied by *monitor.Monitor.
type StatusProvider interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusProvider
}

func NewHealthHandler(mon StatusProvider, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	services := map[string]interface{}{
		"upstream": status.Upstream,
	}
	if status.HistoryEnabled {
		services["postgresql"] = status.PostgreSQL
		services["buffer"] = map[string]interface{}{
			"online": status.Buffer,
			"size":   status.BufferSize,
		}
	}
	if status.CacheEnabled {
		services["redis"] = status.Redis
	}
	payload := map[string]interface{}{
		"timestamp":  time.Now().UTC(),
		"last_check": status.LastCheck,
		"services":   services,
	}

	if status.Healthy() {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}
