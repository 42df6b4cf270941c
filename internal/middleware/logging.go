package middleware

import (
	"net/http"
	"time"

	"fuelease-be/internal/logger"
	"fuelease-be/internal/metrics"
	"fuelease-be/internal/utils"

	"go.uber.org/zap"
)

// responseRecorder lets us capture HTTP status codes
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func newResponseRecorder(w http.ResponseWriter) *responseRecorder {
	return &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// LoggingMiddleware logs every HTTP request with the request-scoped logger.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := newResponseRecorder(w)
		next.ServeHTTP(rec, r)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote_ip", r.RemoteAddr),
		}
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			fields = append(fields, zap.Int64("user_id", userID))
		}

		log := logger.FromCtx(r.Context())
		if rec.statusCode >= http.StatusInternalServerError {
			log.Error("HTTP request", fields...)
			return
		}
		log.Info("HTTP request", fields...)
	})
}

// MetricsMiddleware must wrap the mux directly so that r.Pattern is visible
// after routing.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := newResponseRecorder(w)
			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTP(r.Method, route, rec.statusCode, time.Since(start))
		})
	}
}
