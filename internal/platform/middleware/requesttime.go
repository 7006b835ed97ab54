package middleware

import (
	"net/http"
	"time"

	"univote/pkg/requestcontext"
)

// RequestTime captures "now" once at the start of the request. Every
// time-sensitive decision downstream (voting window, status derivation)
// reads this value, so a single request observes a single instant.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
