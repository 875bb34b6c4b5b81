package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/pellume/provisioner/api/handler"
)

type Handlers struct {
	Signup      *apiHandler.SignupHandler
	Health      *apiHandler.HealthHandler
	Diagnostics *apiHandler.DiagnosticsHandler
}

func New(handlers Handlers, apiKeyMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)
	r.GET("/diagnostico", handlers.Diagnostics.Report)

	r.POST("/criar-conta", apiKeyMiddleware(handlers.Signup.Create))

	return r
}
