package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of an issued session credential.
const DefaultTTL = 7 * 24 * time.Hour

// ErrBadToken covers tampered, expired and otherwise unusable credentials.
var ErrBadToken = errors.New("session token is invalid or expired")

// Claims carried inside a session credential.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// SessionContext is the verified identity extracted from a credential.
type SessionContext struct {
	UserID uint
	Role   string
}

// Issuer mints and validates self-contained session credentials.
// The signing secret is injected once at construction and never logged.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an issuer with the given signing secret and TTL.
// A non-positive TTL falls back to DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue mints a credential for the given user. expiresAt = issuedAt + TTL.
func (i *Issuer) Issue(userID uint, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Role: role,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Validate checks credential integrity and expiry. It does not touch any
// server-side state, so credentials stay valid across process restarts.
func (i *Issuer) Validate(raw string) (*SessionContext, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return nil, ErrBadToken
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return nil, ErrBadToken
	}

	return &SessionContext{UserID: uint(id), Role: claims.Role}, nil
}
