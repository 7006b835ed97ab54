package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"univote/pkg/requestcontext"
)

// RequestID assigns each request a UUID (or propagates X-Request-ID) and
// echoes it back in the response headers for traceability.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
