package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/habits/api/transport"
	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/internal/infrastructure/monitor"
	"github.com/fastygo/habits/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
	driver  string
}

func NewHealthHandler(mon *monitor.Monitor, driver string, adapter *httpcontext.Adapter, clock *domain.Clock, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, clock, logger),
		monitor:     mon,
		driver:      driver,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"storage":   h.driver,
		"day":       h.clock.Today(),
	}

	if h.monitor == nil {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}

	status := h.monitor.GetStatus()
	payload["services"] = status.Services
	payload["buffer"] = map[string]interface{}{
		"online": status.Buffer,
		"size":   status.BufferSize,
	}
	payload["last_check"] = status.LastCheck

	if status.Healthy() {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}
