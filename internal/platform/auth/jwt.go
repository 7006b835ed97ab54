// Package auth validates session tokens minted by the surrounding
// application's identity service. Only HMAC-signed tokens are accepted.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"univote/internal/platform/middleware"
	id "univote/pkg/domain"
)

// JWTValidator verifies HS256 session tokens and maps their claims onto
// middleware.SessionClaims.
type JWTValidator struct {
	signingKey []byte
}

// NewJWTValidator creates a validator for the shared signing key.
func NewJWTValidator(signingKey string) *JWTValidator {
	return &JWTValidator{signingKey: []byte(signingKey)}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Voter bool `json:"voter"`
	Admin bool `json:"admin"`
}

// ValidateToken parses and verifies a session token.
func (v *JWTValidator) ValidateToken(tokenString string) (*middleware.SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := id.ParseUserID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject: %w", err)
	}

	return &middleware.SessionClaims{
		UserID:  userID,
		IsVoter: claims.Voter,
		IsAdmin: claims.Admin,
	}, nil
}

// MintToken signs a session token. Exposed for tests and local tooling; the
// production identity service owns token issuance.
func MintToken(signingKey string, userID id.UserID, voter, admin bool) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String()},
		Voter:            voter,
		Admin:            admin,
	})
	return token.SignedString([]byte(signingKey))
}
