package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"univote/pkg/requestcontext"
)

// RequireAdminToken guards administrative routes with a shared secret.
// Requests that pass are marked as admin in context.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("X-Admin-Token")
			// Constant-time comparison to prevent timing attacks.
			if expectedToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin token required"}`))
				return
			}

			ctx := requestcontext.WithAdmin(r.Context(), true)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
