package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pellume/provisioner/domain"
	"github.com/pellume/provisioner/pkg/httpcontext"
	appLogger "github.com/pellume/provisioner/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

// requestLogger returns the handler logger enriched with the request ID the
// adapter stored in ctx, so a log line can be matched to the X-Request-ID
// header the caller received.
func (h baseHandler) requestLogger(ctx context.Context) *zap.Logger {
	return appLogger.WithRequestID(ctx, h.logger)
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload any) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := mapError(err)
	h.respondJSON(ctx, status, map[string]string{"error": err.Error()})
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeAuth):
		return http.StatusForbidden
	case domain.IsDomainError(err, domain.ErrCodeValidation):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeUnavailable):
		return http.StatusServiceUnavailable
	case domain.IsDomainError(err, domain.ErrCodePublish):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
