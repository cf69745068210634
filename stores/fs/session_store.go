// Package fs keeps browser sessions as JSON files, one per session token.
// File names are hashes of the token so a directory listing reveals nothing
// usable.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

type sessionFile struct {
	Data   []byte    `json:"data"`
	Expiry time.Time `json:"expiry"`
}

// SessionStore implements scs.Store on the local filesystem
type SessionStore struct {
	StoragePath string
	mu          sync.RWMutex
}

func NewSessionStore(storagePath string) *SessionStore {
	return &SessionStore{StoragePath: storagePath}
}

func (s *SessionStore) dir() string {
	return filepath.Join(s.StoragePath, "sessions")
}

func (s *SessionStore) getSessionPath(token string) string {
	sum := sha256.Sum256([]byte(token))
	return filepath.Join(s.dir(), hex.EncodeToString(sum[:])+".json")
}

func readSessionFile(path string) (*sessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf sessionFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", filepath.Base(path), err)
	}
	return &sf, nil
}

// Find returns the data of an unexpired session
func (s *SessionStore) Find(token string) ([]byte, bool, error) {
	s.mu.RLock()
	sf, err := readSessionFile(s.getSessionPath(token))
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if time.Now().After(sf.Expiry) {
		_ = s.Delete(token)
		return nil, false, nil
	}
	return sf.Data, true, nil
}

// Commit writes the session, replacing any previous version
func (s *SessionStore) Commit(token string, b []byte, expiry time.Time) error {
	data, err := json.Marshal(sessionFile{Data: b, Expiry: expiry})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(s.dir(), 0700); err != nil {
		return err
	}
	return writeSessionFile(s.getSessionPath(token), data)
}

// Delete removes the session. Deleting a missing session is not an error.
func (s *SessionStore) Delete(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.getSessionPath(token))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Cleanup removes every expired session file and returns how many went
func (s *SessionStore) Cleanup(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	var removed int64
	now := time.Now()
	for _, entry := range entries {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir(), entry.Name())
		sf, err := readSessionFile(path)
		if err != nil || now.After(sf.Expiry) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
