package middleware_test

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/zatekoja/cafoodfinder/internal/api/middleware"
	"github.com/zatekoja/cafoodfinder/internal/infrastructure/observability"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(body))
	})
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	handler := middleware.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_PropagatesID(t *testing.T) {
	var seen string
	handler := middleware.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = observability.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middleware.NewLimiter(0.001, 2)
	require.NotNil(t, limiter)
	handler := middleware.RateLimitMiddleware(limiter)(okHandler("ok"))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	assert.Nil(t, middleware.NewLimiter(0, 5))
	assert.Nil(t, middleware.NewLimiter(1, 0))

	handler := middleware.RateLimitMiddleware(nil)(okHandler("ok"))
	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := middleware.CORSMiddleware([]string{"http://localhost:3000"})(okHandler("ok"))

	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	handler := middleware.CORSMiddleware(nil)(okHandler("ok"))

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Less(t, w.Code, http.StatusBadRequest)
}

func TestLoggingMiddleware_PassesThroughStatus(t *testing.T) {
	handler := middleware.LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search?postal_code=X0X0X0", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "missing", w.Body.String())
}

func TestObservabilityMiddleware_NilMetrics(t *testing.T) {
	handler := middleware.ObservabilityMiddleware(nil, nil)(okHandler("ok"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestCompression(t *testing.T) {
	handler := middleware.Compression(okHandler("name,website\nPizza North,pizza.ca\n"))

	req := httptest.NewRequest(http.MethodGet, "/api/search/export", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Equal(t, "name,website\nPizza North,pizza.ca\n", string(body))
}

func TestCompression_NotAccepted(t *testing.T) {
	handler := middleware.Compression(okHandler("plain"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "plain", w.Body.String())
}

func TestObservabilityMiddleware_LabelsByRoutePattern(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	metrics, err := observability.InitMetrics(provider)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /health", okHandler("ok"))
	mux.Handle("GET /api/search/{kind}", okHandler("ok"))
	handler := middleware.ObservabilityMiddleware(metrics, mux)(mux)

	for _, path := range []string{"/health", "/api/search/export", "/api/search/csv", "/random-1", "/random-2"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "http.server.request.count" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				route, _ := dp.Attributes.Value(attribute.Key("http.route"))
				counts[route.AsString()] += dp.Value
			}
		}
	}

	assert.Equal(t, map[string]int64{
		"GET /health":            1,
		"GET /api/search/{kind}": 2,
		"unmatched":              2,
	}, counts)
}
