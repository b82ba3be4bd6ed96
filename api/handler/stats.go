package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/pkg/httpcontext"
	adminUC "github.com/fastygo/habits/usecase/admin"
	dashboardUC "github.com/fastygo/habits/usecase/dashboard"
	insightsUC "github.com/fastygo/habits/usecase/insights"
	leaderboardUC "github.com/fastygo/habits/usecase/leaderboard"
)

// StatsHandler serves the derived read models.
type StatsHandler struct {
	baseHandler
	dashboard   *dashboardUC.UseCase
	insights    *insightsUC.UseCase
	leaderboard *leaderboardUC.UseCase
	admin       *adminUC.UseCase
}

func NewStatsHandler(
	dashboard *dashboardUC.UseCase,
	insights *insightsUC.UseCase,
	leaderboard *leaderboardUC.UseCase,
	admin *adminUC.UseCase,
	adapter *httpcontext.Adapter,
	clock *domain.Clock,
	logger *zap.Logger,
) *StatsHandler {
	return &StatsHandler{
		baseHandler: newBaseHandler(adapter, clock, logger),
		dashboard:   dashboard,
		insights:    insights,
		leaderboard: leaderboard,
		admin:       admin,
	}
}

// @Summary Dashboard snapshot for today
// @Tags stats
// @Router /api/v1/dashboard [get]
func (h *StatsHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	snap, err := h.dashboard.Snapshot(stdCtx, identity.UserID, h.clock.Today())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, snap)
}

// @Summary Trend, weekly pattern and category distribution
// @Tags stats
// @Router /api/v1/insights [get]
func (h *StatsHandler) Insights(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := h.insights.Insights(stdCtx, identity.UserID, h.clock.Today())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, out)
}

// @Summary Cross-user leaderboard
// @Tags stats
// @Router /api/v1/leaderboard [get]
func (h *StatsHandler) Leaderboard(ctx *fasthttp.RequestCtx) {
	if _, ok := h.identity(ctx); !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.leaderboard.Leaderboard(stdCtx, h.clock.Today())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}

// @Summary Admin analytics
// @Tags admin
// @Router /api/v1/admin/analytics [get]
func (h *StatsHandler) Analytics(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	out, err := h.admin.Analytics(stdCtx, identity, h.clock.Today())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, out)
}
