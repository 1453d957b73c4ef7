// Package auth - jwt.go handles session token creation, signing, and
// verification using a shared secret injected at startup.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed identity embedded in a session token. The JSON field
// names are part of the wire contract with existing clients and must not change.
type Claims struct {
	Username  string `json:"username"`
	Email     string `json:"usermailid"`
	ProjectID int64  `json:"projectid"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies session tokens. The secret and validity
// window come from configuration; there is no package-level secret state, so
// two issuers with different secrets can coexist in tests.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates a TokenIssuer. ttl defaults to one hour when zero.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Generate creates a signed session token for an authenticated user.
func (ti *TokenIssuer) Generate(username, email string, projectID int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username:  username,
		Email:     email,
		ProjectID: projectID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "network-onboarding",
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Parse validates a session token's signature and expiry and returns its claims.
func (ti *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ti.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	return claims, nil
}
