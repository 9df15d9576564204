package middleware

import (
	"log/slog"
	"net/http"
)

// Recoverer catches panics from downstream handlers and converts them into
// the API's standard JSON 500 body. Chi ships a recoverer, but it writes a
// plain-text 500; our clients always parse {"error", "message"}.
//
// If the handler already started writing the response, the WriteHeader here
// is a no-op and the client sees a truncated body — nothing better can be
// done at that point.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						// The standard way to abort a response mid-flight.
						panic(rec)
					}
					logger.Error("panic recovered",
						slog.Any("error", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					)
					w.Header().Set("Content-Type", "application/json; charset=utf-8")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":"internal_server_error","message":"unexpected server error"}` + "\n"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
