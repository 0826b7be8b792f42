// Package session implements signed cookie sessions. The payload travels to
// the client as an HMAC-signed token inside a single cookie; the value is an
// opaque blob to callers, and anything that fails signature or expiry checks
// decodes to an empty payload rather than an error, so a tampered cookie
// degrades to "anonymous" instead of a forged identity.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Payload is the session's key/value contents. It is request-scoped and
// never shared across concurrent requests.
type Payload map[string]string

// sessionClaims wraps the payload with standard signed-token claims so that
// issue time and expiry are covered by the signature.
type sessionClaims struct {
	Data Payload `json:"data"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session payloads. The signing secret is injected
// at construction and immutable for the process lifetime; rotating it
// invalidates every outstanding session.
type Codec struct {
	secret []byte
}

// NewCodec creates a codec with the given signing secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("session signing secret must not be empty")
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Encode signs the payload into a compact token valid for maxAge from now.
func (c *Codec) Encode(p Payload, maxAge time.Duration) (string, error) {
	if p == nil {
		p = Payload{}
	}
	now := time.Now()
	claims := sessionClaims{
		Data: p,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the token's signature and expiry and returns its payload.
// Any failure (empty input, malformed token, bad signature, expired, wrong
// signing method) yields an empty payload; decoding never fails loudly.
func (c *Codec) Decode(raw string) Payload {
	if raw == "" {
		return Payload{}
	}

	token, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return Payload{}
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || claims.Data == nil {
		return Payload{}
	}
	return claims.Data
}
