package router

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options wires the optional parts of the router.
type Options struct {
	// Uploads serves locally stored images under /uploads and receives the
	// full request path. Nil when images live in object storage.
	Uploads http.Handler
	// ServeMetrics mounts /metrics on the main router.
	ServeMetrics bool
}

// New builds the HTTP router with the shared middleware chain applied.
func New(log *logger.Logger, m *metrics.MetricsManager, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Tracing())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics(m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.ServeMetrics && m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}
	if opts.Uploads != nil {
		r.Handle("/uploads/*", opts.Uploads)
	}
	return r
}
