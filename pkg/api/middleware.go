package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/NishanthRao01/bankguard/pkg/observability"
)

// ctxKeyRequestID keys the request ID in a request context.
type ctxKeyRequestID struct{}

// RequestIDFromContext returns the request ID assigned by the server, or ""
// when the request did not pass through it.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

// requestID assigns each request a UUID, honoring an X-Request-ID header
// supplied by a proxy, and echoes it on the response.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger writes one line per request and feeds the server hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		duration := time.Since(start)

		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), duration)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", duration,
			"request_id", RequestIDFromContext(r.Context()),
			"remote", r.RemoteAddr)
	})
}

// recoverer converts handler panics into the JSON 500 shape.
// http.ErrAbortHandler is re-panicked so the net/http abort path keeps
// working.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.Error("handler panicked", "method", r.Method, "path", r.URL.Path, "panic", rec)
				observability.Server().OnError(r.Context(), r.Method, r.URL.Path, fmt.Errorf("panic: %v", rec))
				s.writeJSON(w, http.StatusInternalServerError, newErrorResponse("Server error: internal failure"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
