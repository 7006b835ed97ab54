package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "univote/pkg/domain"
	"univote/pkg/requestcontext"
)

// SessionClaims is the identity the surrounding application vouches for.
// The voting core never authenticates users itself; it consumes a verified
// session token minted by the identity collaborator.
type SessionClaims struct {
	UserID  id.UserID
	IsVoter bool
	IsAdmin bool
}

// TokenValidator verifies a bearer token and extracts session claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// session identity (user ID, voter and admin capabilities) in context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeUnauthorized(w, "Missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithUserID(ctx, claims.UserID)
			ctx = requestcontext.WithVoter(ctx, claims.IsVoter)
			if claims.IsAdmin {
				ctx = requestcontext.WithAdmin(ctx, true)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
