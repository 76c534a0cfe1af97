package middleware

import (
	"net/http"
	"time"

	"bookstore-api/pkg/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Logger middleware
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			status := rw.Status()
			if status == 0 {
				status = http.StatusOK
			}

			// label by route pattern so ids do not explode metric cardinality
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}

			metrics.IncRequest(r.Method, route, status)
			metrics.ObserveDuration(r.Method, route, duration.Seconds())

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", status),
				zap.Int("bytes", rw.BytesWritten()),
				zap.Duration("duration", duration),
				zap.String("ip", r.RemoteAddr),
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("user_agent", r.UserAgent()),
			)
		})
	}
}
