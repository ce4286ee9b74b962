package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/ternarybob/arbor"
)

// Recover is the last-resort error boundary: any panic escaping a handler
// is logged with full detail and surfaced as a generic internal failure
// without leaking internals to the caller.
func Recover(logger arbor.ILogger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Str("panic", fmt.Sprintf("%v", rec)).
						Str("path", r.URL.Path).
						Str("stack", string(debug.Stack())).
						Msg("Unhandled panic in request handler")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "internal server error (check logs)",
					})
				}
			}()

			next(w, r)
		}
	}
}
