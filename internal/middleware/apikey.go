package middleware

import (
	"crypto/subtle"
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pellume/provisioner/domain"
)

// APIKey rejects requests whose x-api-key header does not match the
// pre-shared secret. The check runs before any body parsing, so a bad key
// gets the same 403 regardless of payload validity.
func APIKey(secret string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			key := ctx.Request.Header.Peek("x-api-key")
			if secret == "" || subtle.ConstantTimeCompare(key, []byte(secret)) != 1 {
				logger.Warn("request rejected",
					zap.String("path", string(ctx.Path())),
					zap.Error(domain.ErrBadAPIKey))
				ctx.Response.Header.SetContentType("application/json")
				ctx.SetStatusCode(fasthttp.StatusForbidden)
				body, _ := json.Marshal(map[string]string{"error": domain.ErrBadAPIKey.Error()})
				ctx.SetBody(body)
				return
			}
			next(ctx)
		}
	}
}
