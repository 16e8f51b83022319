package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/dinoventures/wallet-service/internal/handler"
	"github.com/dinoventures/wallet-service/internal/logging"
)

// Recovery converts panics into 500 responses. http.ErrAbortHandler is
// re-raised so aborted streams keep net/http's usual handling.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				log := logging.FromContext(r.Context())
				log.Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"error", err,
					"stack", string(debug.Stack()),
				)
				handler.RespondAppError(w, handler.ErrInternalError, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
