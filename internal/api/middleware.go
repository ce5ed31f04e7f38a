package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/psantana5/textwrap/internal/auth"
	"github.com/psantana5/textwrap/internal/logging"
	"github.com/psantana5/textwrap/internal/ratelimit"
	"github.com/psantana5/textwrap/internal/tracing"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the ID assigned to the request, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestIDMiddleware keeps a client supplied X-Request-ID or assigns a new
// one, echoes it on the response and logs each request at debug level.
func RequestIDMiddleware(logger *logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

			logger.Debug("Request handled", map[string]interface{}{
				"request_id": id,
				"method":     r.Method,
				"path":       r.URL.Path,
				"duration":   time.Since(start).String(),
			})
		})
	}
}

// PublicPaths are served without an API key.
var PublicPaths = []string{"/health", "/metrics"}

// RouterOptions holds the optional middleware of NewRouter
type RouterOptions struct {
	Limiter   *ratelimit.Limiter
	// ClientKey identifies clients for the rate limit; nil keys by remote
	// address.
	ClientKey func(*http.Request) string
	Keys      *auth.KeySet
	Tracing   *tracing.Provider
}

// NewRouter builds the service router: tracing, request IDs and metrics,
// then the per-client rate limit and API key check when configured.
func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	if opts.Tracing != nil {
		r.Use(opts.Tracing.Middleware)
	}
	r.Use(RequestIDMiddleware(h.logger))
	r.Use(h.metrics.Middleware)
	if opts.Limiter != nil {
		clientKey := opts.ClientKey
		if clientKey == nil {
			clientKey = ratelimit.IPKeyFunc
		}
		r.Use(opts.Limiter.Middleware(clientKey))
	}
	if opts.Keys != nil && opts.Keys.Len() > 0 {
		r.Use(opts.Keys.Middleware(PublicPaths...))
	}
	h.RegisterRoutes(r)
	return r
}
