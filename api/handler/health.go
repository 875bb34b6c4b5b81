package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pellume/provisioner/internal/infrastructure/redisconn"
	"github.com/pellume/provisioner/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	conn *redisconn.Manager
}

func NewHealthHandler(conn *redisconn.Manager, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		conn:        conn,
	}
}

// Check reports the publisher connection's readiness.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	if h.conn.IsReady() {
		h.respondJSON(ctx, http.StatusOK, map[string]string{
			"status": "healthy",
			"redis":  "connected",
		})
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, map[string]string{
		"status": "unhealthy",
		"redis":  "disconnected",
	})
}
