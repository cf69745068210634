package authdash

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestCSRF_IssueVerify(t *testing.T) {
	c := &CSRF{SecretKey: "k", Issuer: "authdash-Issuer", Lifetime: time.Hour}
	token, err := c.Issue("sid-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if err := c.Verify(token, "sid-1"); err != nil {
		t.Errorf("Verify() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
		sid   string
		c     *CSRF
	}{
		{"other session", token, "sid-2", c},
		{"empty token", "", "sid-1", c},
		{"empty session", token, "", c},
		{"other key", token, "sid-1", &CSRF{SecretKey: "x", Issuer: c.Issuer, Lifetime: time.Hour}},
		{"other issuer", token, "sid-1", &CSRF{SecretKey: "k", Issuer: "someone", Lifetime: time.Hour}},
		{"garbage", "not.a.jwt", "sid-1", c},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.c.Verify(tt.token, tt.sid); !errors.Is(err, ErrInvalidCSRF) {
				t.Errorf("Verify() = %v, want ErrInvalidCSRF", err)
			}
		})
	}
}

func TestCSRF_Expired(t *testing.T) {
	c := &CSRF{SecretKey: "k", Issuer: "i", Lifetime: -time.Minute}
	token, err := c.Issue("sid")
	if err != nil {
		t.Fatal(err)
	}
	err = c.Verify(token, "sid")
	if !errors.Is(err, ErrInvalidCSRF) || !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("Verify() = %v, want an expired token error", err)
	}
}

func TestCSRF_RejectsNoneAlgorithm(t *testing.T) {
	c := &CSRF{SecretKey: "k", Issuer: "i", Lifetime: time.Hour}
	claims := jwt.RegisteredClaims{Subject: "sid", Issuer: "i", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Verify(unsigned, "sid"); !errors.Is(err, ErrInvalidCSRF) {
		t.Errorf("Verify(alg=none) = %v", err)
	}
}
