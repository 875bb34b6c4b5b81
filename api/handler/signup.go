package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pellume/provisioner/api/transport"
	"github.com/pellume/provisioner/domain"
	"github.com/pellume/provisioner/pkg/httpcontext"
	signupUC "github.com/pellume/provisioner/usecase/signup"
)

type SignupHandler struct {
	baseHandler
	uc *signupUC.UseCase
}

func NewSignupHandler(uc *signupUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SignupHandler {
	return &SignupHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Create accepts an account-creation request and answers as soon as the task
// is published. 202 means published, not provisioned.
func (h *SignupHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.SignupRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrMissingFields)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.Submit(stdCtx, req.Email, req.Nome); err != nil {
		h.requestLogger(stdCtx).Warn("signup request rejected", zap.Error(err))
		h.respondError(ctx, err)
		return
	}

	h.respondJSON(ctx, http.StatusAccepted, map[string]string{
		"message": "Conta recebida. Você receberá um e-mail com seus dados de acesso.",
	})
}
