package middleware

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
)

// statusRecorder wraps http.ResponseWriter to capture the response status
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Logging emits one line per request with method, path, status and duration.
// Server-side failures log at warn so they stand out from draft traffic;
// oracle calls make some requests slow, so the duration is always included.
func Logging(logger arbor.ILogger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next(rec, r)

			if rec.status >= http.StatusInternalServerError {
				logger.Warn().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_addr", r.RemoteAddr).
					Int("status", rec.status).
					Dur("duration", time.Since(start)).
					Msg("HTTP request failed")
				return
			}

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("remote_addr", r.RemoteAddr).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		}
	}
}
