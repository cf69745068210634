package authdash

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCSRF is returned when a form token is missing, expired or
	// issued to another session
	ErrInvalidCSRF = errors.New("invalid form token")
)

// CSRF issues and checks form tokens. A token is an HS256 JWT whose subject
// is the browser session id.
type CSRF struct {
	SecretKey string
	Issuer    string
	Lifetime  time.Duration
}

// Issue creates a token for the session sid
func (c *CSRF) Issue(sid string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   sid,
		Issuer:    c.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.Lifetime)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign form token: %w", err)
	}
	return signed, nil
}

// Verify checks that tokenString was issued by us to session sid
func (c *CSRF) Verify(tokenString, sid string) error {
	if tokenString == "" || sid == "" {
		return ErrInvalidCSRF
	}
	_, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			return []byte(c.SecretKey), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.Issuer),
		jwt.WithSubject(sid),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCSRF, err)
	}
	return nil
}
