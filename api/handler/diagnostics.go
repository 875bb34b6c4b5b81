package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pellume/provisioner/internal/config"
	"github.com/pellume/provisioner/pkg/httpcontext"
)

type DiagnosticsHandler struct {
	baseHandler
	cfg *config.Config
}

func NewDiagnosticsHandler(cfg *config.Config, adapter *httpcontext.Adapter, logger *zap.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		cfg:         cfg,
	}
}

// Report tells which critical settings are present. Values are never echoed.
func (h *DiagnosticsHandler) Report(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, map[string]any{
		"message": "Relatório de diagnóstico do servidor.",
		"variaveis": map[string]bool{
			"SECRET_KEY":              h.cfg.Auth.SecretKey != "",
			"REDIS_URL":               h.cfg.Redis.URL != "",
			"GOOGLE_CREDENTIALS_JSON": h.cfg.Google.CredentialsJSON != "",
		},
	})
}
