package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/habits/api/transport"
	"github.com/fastygo/habits/domain"
	"github.com/fastygo/habits/pkg/httpcontext"
	"github.com/fastygo/habits/pkg/logger"
)

// Identity headers set by the JWT middleware.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUsername = "X-Username"
	HeaderUserRole = "X-User-Role"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	clock   *domain.Clock
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, clock *domain.Clock, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = domain.NewClock(nil)
	}
	return baseHandler{adapter: adapter, clock: clock, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// identity reads the verified caller. It writes a 401 and returns false when absent.
func (h baseHandler) identity(ctx *fasthttp.RequestCtx) (domain.Identity, bool) {
	id := domain.Identity{
		UserID:   string(ctx.Request.Header.Peek(HeaderUserID)),
		Username: string(ctx.Request.Header.Peek(HeaderUsername)),
		Role:     string(ctx.Request.Header.Peek(HeaderUserRole)),
	}
	if id.UserID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized, transport.NewError(string(domain.ErrCodeUnauthorized), "missing user id", nil))
		return domain.Identity{}, false
	}
	return id, true
}

func (h baseHandler) decode(ctx *fasthttp.RequestCtx, dst interface{}) bool {
	if err := json.Unmarshal(ctx.PostBody(), dst); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return false
	}
	return true
}

// queryDay parses an optional YYYY-MM-DD query argument.
func (h baseHandler) queryDay(ctx *fasthttp.RequestCtx, name string) (*domain.Day, bool) {
	raw := string(ctx.QueryArgs().Peek(name))
	if raw == "" {
		return nil, true
	}
	day, err := domain.ParseDay(raw)
	if err != nil {
		h.respondError(ctx, err)
		return nil, false
	}
	return &day, true
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.ByteString("path", ctx.Path()),
			zap.String("request_id", string(ctx.Response.Header.Peek(httpcontext.HeaderRequestID))),
			zap.Error(err),
		)
		h.respondJSON(ctx, status, transport.NewError(code, "internal error", nil))
		return
	}
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), nil))
}

func (h baseHandler) log(stdCtx context.Context) *zap.Logger {
	return logger.WithRequestID(stdCtx, h.logger)
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
