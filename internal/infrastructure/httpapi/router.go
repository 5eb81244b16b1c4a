package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mealguard-dev/mealguard/internal/application/dto"
)

// RouterConfig wires optional router collaborators.
type RouterConfig struct {
	// Validator authenticates bearer tokens. When nil, every request runs as
	// LocalPrincipal.
	Validator TokenValidator
	// LocalPrincipal is used when Validator is nil.
	LocalPrincipal dto.Principal
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter wires all public endpoints.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", h.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		if cfg.Validator != nil {
			r.Use(RequireAuth(cfg.Validator, logger))
		} else {
			r.Use(LocalPrincipal(cfg.LocalPrincipal))
		}

		r.Post("/evaluations", h.handleEvaluate)
		r.Get("/evaluations/{evaluationID}", h.handleGetEvaluation)
		r.Get("/residents/{residentID}/evaluations", h.handleResidentHistory)
		r.Get("/rules", h.handleRuleSetInfo)
		r.Post("/rules/reload", h.handleReload)
	})
	return r
}
