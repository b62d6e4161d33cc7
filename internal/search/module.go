// Package search wires the client search bounded context: the Postgres or
// in-memory record store, the per-caller rate limiter and the HTTP handler.
package search

import (
	apphttp "clientregistry/internal/http"
	"clientregistry/internal/search/handler"
	"clientregistry/internal/search/ratelimit"
	"clientregistry/internal/search/repository"
	"clientregistry/internal/search/service"
	"clientregistry/platform/config"
	"clientregistry/platform/logger"
	"clientregistry/platform/validator"
)

type Module struct {
	handler *handler.Handler
	service *service.Service
	limiter *ratelimit.Limiter
}

// NewModule builds the module on any record store and limiter store.
func NewModule(store repository.Store, limiterStore ratelimit.Store, cfg config.RateLimitConfig, searchCfg config.SearchConfig, val *validator.Validator, log *logger.Logger) *Module {
	limiter := ratelimit.New(limiterStore, ratelimit.Policy{
		Window:    cfg.GetRateLimitWindow(),
		Max:       cfg.GetRateLimitMax(),
		Retention: cfg.GetRateLimitRetention(),
	})
	svc := service.New(store, limiter, log, service.WithFetchTimeout(searchCfg.GetSearchFetchTimeout()))
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc, limiter: limiter}
}

func (m *Module) Name() string {
	return "search"
}

// Service exposes the search pipeline to other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Limiter exposes the caller limiter so main can run its sweeper.
func (m *Module) Limiter() *ratelimit.Limiter {
	return m.limiter
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPreflight(ctx.V1.Group("/clients"))
	m.handler.RegisterRoutes(ctx.Protected.Group("/clients"))
}

var _ apphttp.Module = (*Module)(nil)
