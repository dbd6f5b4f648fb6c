package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// LoggingMiddleware logs all HTTP requests. Successful requests log at INFO,
// 4xx at WARN, 5xx at ERROR.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		var logLevel slog.Level
		var logMessage string
		switch {
		case wrapped.statusCode >= 500:
			logLevel = slog.LevelError
			logMessage = "Request failed with error"
		case wrapped.statusCode >= 400:
			logLevel = slog.LevelWarn
			logMessage = "Request failed"
		default:
			logLevel = slog.LevelInfo
			logMessage = "Request completed"
		}

		slog.Log(r.Context(), logLevel, logMessage,
			"remote_ip", r.RemoteAddr,
			"user_agent", r.UserAgent(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration_ms", duration.Milliseconds(),
		)
	})
}
