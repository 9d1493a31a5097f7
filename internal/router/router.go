package router

import (
	"net/http"
	"time"

	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/handler"
	"github.com/Tondeptrai23/E-Commerce-API-sub001/internal/logger"
	"github.com/google/uuid"
)

// Options configures the middleware chain.
type Options struct {
	AllowOrigin      string
	AllowCredentials bool
}

type route struct {
	method string
	path   string
	handle http.HandlerFunc
}

// New registers the API routes and wraps them in request id, access log and
// CORS middleware.
func New(resources *handler.ResourceHandler, categories *handler.CategoryHandler, opts Options) http.Handler {
	routes := []route{
		{http.MethodGet, "/api/v1/categories", categories.List},
		{http.MethodPost, "/api/v1/categories", categories.Create},
		{http.MethodGet, "/api/v1/categories/{categoryInfo}", categories.Get},
		{http.MethodPut, "/api/v1/categories/{categoryInfo}", categories.Update},
		{http.MethodDelete, "/api/v1/categories/{categoryInfo}", categories.Delete},
		{http.MethodGet, "/api/v1/categories/{categoryInfo}/ascendants", categories.Ascendants},
		{http.MethodGet, "/api/v1/categories/{categoryInfo}/descendants", categories.Descendants},
		{http.MethodGet, "/api/v1/{resource}", resources.List},
		{http.MethodGet, "/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}},
	}

	mux := http.NewServeMux()
	methods := make([]string, 0, len(routes))
	for _, rt := range routes {
		mux.HandleFunc(rt.method+" "+rt.path, rt.handle)
		methods = append(methods, rt.method)
	}

	cors := newCORSPolicy(opts.AllowOrigin, opts.AllowCredentials, methods)
	return cors.wrap(withRequestID(withLogging(mux)))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

const requestIDHeader = "X-Request-ID"

// withRequestID reuses a client supplied X-Request-ID or generates one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(handler.WithRequestID(r.Context(), id)))
	})
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"status":      sw.status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  handler.RequestID(r.Context()),
		}
		switch {
		case sw.status >= 500:
			logger.Error("response", fields)
		case sw.status >= 400:
			logger.Warn("response", fields)
		default:
			logger.Info("response", fields)
		}
	})
}
