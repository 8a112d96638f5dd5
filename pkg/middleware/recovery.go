package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "cleanbook/pkg/errors"
	httputil "cleanbook/pkg/http"
	"cleanbook/pkg/logger"
)

// Recovery turns a handler panic into the standard INTERNAL_ERROR body.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Op("Recovery").Error("Panic recovered",
					"request_id", RequestIDFromContext(r.Context()),
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				err := apperrors.Internal("panic while serving request", fmt.Errorf("%v", rec))
				if writeErr := httputil.WriteError(w, err); writeErr != nil {
					log.Error("failed to write panic response", "error", writeErr)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
