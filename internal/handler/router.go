package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// SubmitLimit, when set, wraps only the form post.
	SubmitLimit func(http.Handler) http.Handler
	// TrustProxy rewrites the remote address from forwarding headers.
	TrustProxy bool
	Logger     *slog.Logger
}

// NewRouter mounts the registration page, the validation endpoint and the
// health check.
func NewRouter(h *RegistrationHandler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(Logger(logger))

	r.Get("/health", HealthCheck)
	r.Post("/api/validate", ValidateField)

	r.Route("/{organization}/{event}/register", func(r chi.Router) {
		r.Get("/", h.Page)
		r.With(optional(opts.SubmitLimit)).Post("/", h.Submit)
	})

	return r
}

func optional(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
