// Package handlers wires the HTTP surface of the quoting API.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/propuesta-web/api/internal/platform/httpx"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers

	suggest RouteRegistrar
	quote   RouteRegistrar
	agent   RouteRegistrar
	pdf     RouteRegistrar
	quotes  RouteRegistrar

	agentMiddlewares []func(http.Handler) http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix  = "/api/v1"
	defaultTimeout    = 60 * time.Second
	errorNotFoundCode = "route_not_found"
)

// NewRouter constructs the chi router with shared middleware and the
// expected route groups.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers(nil)
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError(errorNotFoundCode, fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)

	r.Route(cfg.basePath, func(api chi.Router) {
		mount := func(path string, registrar RouteRegistrar, name string, groupMW []func(http.Handler) http.Handler) {
			api.Route(path, func(group chi.Router) {
				for _, mw := range groupMW {
					if mw != nil {
						group.Use(mw)
					}
				}
				if registrar != nil {
					registrar(group)
					return
				}
				registerNotImplemented(group, name)
			})
		}

		mount("/suggest", cfg.suggest, "suggest", nil)
		mount("/quote", cfg.quote, "quote", nil)
		mount("/agent", cfg.agent, "agent", cfg.agentMiddlewares)
		mount("/pdf", cfg.pdf, "pdf", nil)
		mount("/quotes", cfg.quotes, "quotes", nil)
	})

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for the probe endpoints.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithSuggestRoutes configures the registrar for suggestion endpoints.
func WithSuggestRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.suggest = reg
	}
}

// WithQuoteRoutes configures the registrar for quote-building endpoints.
func WithQuoteRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.quote = reg
	}
}

// WithAgentRoutes configures the registrar for the conversational agent.
func WithAgentRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.agent = reg
	}
}

// WithAgentMiddlewares configures middlewares applied to the /agent group.
func WithAgentMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.agentMiddlewares = append(cfg.agentMiddlewares, mw...)
	}
}

// WithPDFRoutes configures the registrar for proposal rendering endpoints.
func WithPDFRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.pdf = reg
	}
}

// WithQuoteArchiveRoutes configures the registrar for the quote archive.
func WithQuoteArchiveRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.quotes = reg
	}
}

func registerNotImplemented(r chi.Router, name string) {
	handler := func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("not_implemented", fmt.Sprintf("%s routes not implemented", name), http.StatusNotImplemented))
	}
	r.HandleFunc("/*", handler)
	r.HandleFunc("/", handler)
	r.NotFound(handler)
	r.MethodNotAllowed(handler)
}
