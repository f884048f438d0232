package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/zatekoja/cafoodfinder/internal/api/handlers"
	"github.com/zatekoja/cafoodfinder/internal/api/middleware"
	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
)

// Options controls the optional parts of the HTTP surface
type Options struct {
	AllowedOrigins []string
	MetricsEnabled bool
}

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler *handlers.SearchHandler

	limiter *rate.Limiter
	metrics *observability.Metrics
	opts    Options
}

// NewRouter creates a new router. A nil limiter disables search rate limiting.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	limiter *rate.Limiter,
	metrics *observability.Metrics,
	opts Options,
) *Router {
	return &Router{
		mux:           http.NewServeMux(),
		searchHandler: searchHandler,
		limiter:       limiter,
		metrics:       metrics,
		opts:          opts,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.Handle("GET /api/categories", middleware.Compression(http.HandlerFunc(r.searchHandler.ListCategories)))

	// Search endpoints spend places API quota and share one limiter
	limited := func(h http.HandlerFunc) http.Handler {
		return middleware.RateLimitMiddleware(r.limiter)(middleware.Compression(h))
	}
	r.mux.Handle("GET /api/search", limited(r.searchHandler.Search))
	r.mux.Handle("GET /api/search/export", limited(r.searchHandler.Export))

	// promhttp negotiates its own compression
	if r.opts.MetricsEnabled {
		r.mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics, r.mux)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// CORS wraps everything so headers are set even on rejected requests
	handler = middleware.CORSMiddleware(r.opts.AllowedOrigins)(handler)

	return handler
}
