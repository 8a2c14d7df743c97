package middleware

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	applog "github.com/focuslog/corehub/internal/log"
)

// StackConfig configures the canonical ingress middleware stack, kept
// in one place so every route gets the same cross-cutting behavior.
type StackConfig struct {
	AllowedOrigins    []string
	RequestsPerMinute int
}

// Apply installs the canonical middleware stack on r.
func Apply(r chi.Router, cfg StackConfig) {
	r.Use(chimw.Recoverer)
	r.Use(CORS(cfg.AllowedOrigins))
	r.Use(SecurityHeaders)
	r.Use(Metrics())
	r.Use(applog.Middleware())
	r.Use(RateLimit(cfg.RequestsPerMinute))
}
