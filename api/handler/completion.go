package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/habits/api/transport"
	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/pkg/httpcontext"
	completionUC "github.com/fastygo/habits/usecase/completion"
)

type CompletionHandler struct {
	baseHandler
	uc *completionUC.UseCase
}

func NewCompletionHandler(uc *completionUC.UseCase, adapter *httpcontext.Adapter, clock *domain.Clock, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		baseHandler: newBaseHandler(adapter, clock, logger),
		uc:          uc,
	}
}

// @Summary Log a completion; repeating it for the same day reports already_logged
// @Tags completions
// @Router /api/v1/completions [post]
func (h *CompletionHandler) LogCompletion(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	var req transport.CompletionRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.LogCompletion(stdCtx, identity.UserID, req.TaskID, req.Day, h.clock.Today())
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if result.Reward != nil {
		h.log(stdCtx).Info("streak milestone reached",
			zap.String("user_id", identity.UserID),
			zap.String("task_id", result.Completion.TaskID),
			zap.Int("streak", result.CurrentStreak),
		)
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary Completion history of the caller
// @Tags completions
// @Param task_id query string false "task id"
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Router /api/v1/completions [get]
func (h *CompletionHandler) ListCompletions(ctx *fasthttp.RequestCtx) {
	identity, ok := h.identity(ctx)
	if !ok {
		return
	}

	from, ok := h.queryDay(ctx, "from")
	if !ok {
		return
	}
	to, ok := h.queryDay(ctx, "to")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.ListCompletions(stdCtx, identity.UserID, string(ctx.QueryArgs().Peek("task_id")), from, to)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if events == nil {
		events = []domain.Completion{}
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}
