package middleware

import (
	"net/http"
	"time"
)

type infoLogger interface {
	Info(msg string, args ...any)
}

// Remembers status and body size written by handler
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	n, err := r.ResponseWriter.Write(p)
	r.size += n
	return n, err
}

// AccessLog writes one Info line per request.
// Handlers log failures themselves, with the cause.
func AccessLog(l infoLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			l.Info(
				"HTTP request",
				"method", r.Method,
				"uri", r.RequestURI,
				"status", rec.status,
				"size", rec.size,
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}
