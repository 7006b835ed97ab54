// Package requestcontext provides HTTP-independent accessors for
// request-scoped values.
//
// Middleware sets these values; services read them without importing net/http.
// The request-scoped time is the single clock the voting core consults, so
// tests inject fixed timestamps with WithTime and every decision inside one
// request observes the same "now".
package requestcontext

import (
	"context"
	"time"

	id "univote/pkg/domain"
)

type (
	userIDKey      struct{}
	voterKey       struct{}
	adminKey       struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeyUserID      = userIDKey{}
	ContextKeyVoter       = voterKey{}
	ContextKeyAdmin       = adminKey{}
	ContextKeyClientIP    = clientIPKey{}
	ContextKeyUserAgent   = userAgentKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// UserID retrieves the authenticated user ID, or the zero value if unset.
func UserID(ctx context.Context) id.UserID {
	if userID, ok := ctx.Value(ContextKeyUserID).(id.UserID); ok {
		return userID
	}
	return id.UserID{}
}

// WithUserID injects an authenticated user ID.
func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

// IsVoter reports whether the session carries the voter capability.
func IsVoter(ctx context.Context) bool {
	voter, _ := ctx.Value(ContextKeyVoter).(bool)
	return voter
}

// WithVoter injects the voter capability flag.
func WithVoter(ctx context.Context, voter bool) context.Context {
	return context.WithValue(ctx, ContextKeyVoter, voter)
}

// IsAdmin reports whether the session carries the administrator capability.
func IsAdmin(ctx context.Context) bool {
	admin, _ := ctx.Value(ContextKeyAdmin).(bool)
	return admin
}

// WithAdmin injects the administrator capability flag.
func WithAdmin(ctx context.Context, admin bool) context.Context {
	return context.WithValue(ctx, ContextKeyAdmin, admin)
}

// ClientIP retrieves the client IP address, or "".
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ContextKeyClientIP).(string)
	return ip
}

// UserAgent retrieves the User-Agent header value, or "".
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(ContextKeyUserAgent).(string)
	return ua
}

// WithClientMetadata injects client IP and User-Agent. Used by middleware and
// by service tests that skip the HTTP stack.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	return context.WithValue(ctx, ContextKeyUserAgent, userAgent)
}

// RequestID retrieves the request ID, or "".
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(ContextKeyRequestID).(string)
	return requestID
}

// WithRequestID injects a request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time, falling back to time.Now for
// non-HTTP contexts (workers, CLI).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time. Tests use this to pin the voting-window
// and status checks to a fixed instant.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
