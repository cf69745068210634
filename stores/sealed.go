package stores

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const sealedKeyInfo = "authdash session"

// ErrUnsealable is returned when stored data cannot be decrypted with the
// configured secret
var ErrUnsealable = errors.New("session data could not be decrypted")

// Sealed encrypts session data before it reaches the wrapped store
type Sealed struct {
	Store scs.Store
	aead  cipher.AEAD
}

// NewSealed wraps store, deriving the encryption key from secret
func NewSealed(store scs.Store, secret string) (*Sealed, error) {
	if secret == "" {
		return nil, errors.New("session secret is empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(sealedKeyInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive session key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create session cipher: %w", err)
	}
	return &Sealed{Store: store, aead: aead}, nil
}

func (s *Sealed) seal(token string, b []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(b)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	// the token is bound as associated data so rows cannot be swapped
	return s.aead.Seal(nonce, nonce, b, []byte(token)), nil
}

func (s *Sealed) open(token string, b []byte) ([]byte, error) {
	n := s.aead.NonceSize()
	if len(b) < n+s.aead.Overhead() {
		return nil, ErrUnsealable
	}
	out, err := s.aead.Open(nil, b[:n], b[n:], []byte(token))
	if err != nil {
		return nil, ErrUnsealable
	}
	return out, nil
}

func (s *Sealed) Find(token string) ([]byte, bool, error) {
	b, found, err := s.Store.Find(token)
	if err != nil || !found {
		return nil, found, err
	}
	plain, err := s.open(token, b)
	if err != nil {
		// sealed with another secret, start the session afresh
		return nil, false, nil
	}
	return plain, true, nil
}

func (s *Sealed) Commit(token string, b []byte, expiry time.Time) error {
	sealed, err := s.seal(token, b)
	if err != nil {
		return fmt.Errorf("failed to seal session: %w", err)
	}
	return s.Store.Commit(token, sealed, expiry)
}

func (s *Sealed) Delete(token string) error {
	return s.Store.Delete(token)
}
