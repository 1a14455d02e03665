package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	derrors "roomalchemy/pkg/domain-errors"
	"roomalchemy/pkg/platform/httputil"
)

// Recovery catches panics at the outermost boundary, logs the full stack
// locally, and returns a generic server_error to the caller.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic recovered",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", GetRequestID(ctx),
						"stack", string(debug.Stack()),
					)
					httputil.WriteError(w, derrors.New(derrors.CodeInternal, "unhandled failure"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
