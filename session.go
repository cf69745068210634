package authdash

import (
	"context"
	"encoding/gob"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/panyam/authdash/client"
)

// Session keys
const (
	sessionKeyID         = "sid"
	sessionKeyResolved   = "resolved"
	sessionKeyUser       = "user"
	sessionKeyBackground = "background"
	sessionKeyToasts     = "toasts"
)

func init() {
	gob.Register(client.User{})
	gob.Register([]Notification{})
}

// SessionState is what pages see of the session
type SessionState struct {
	User      *client.User
	IsLoading bool
}

// FetchUserFunc asks the API who the request belongs to
type FetchUserFunc func(w http.ResponseWriter, r *http.Request) (*client.User, error)

// SessionStore holds the authenticated user of each browser session.
//
// A session starts out loading and is resolved exactly once by FetchUser.
// A failed fetch resolves to "no user". After that, the user only changes
// through SetUser, UpdateUsername, ClearUser and Reset.
type SessionStore struct {
	Session   *scs.SessionManager
	FetchUser FetchUserFunc
	Logger    *slog.Logger
}

// NewSessionStore creates a store over sm
func NewSessionStore(sm *scs.SessionManager, fetch FetchUserFunc) *SessionStore {
	return &SessionStore{Session: sm, FetchUser: fetch, Logger: slog.Default()}
}

// ID returns the session's id, creating one on first use
func (s *SessionStore) ID(ctx context.Context) string {
	id := s.Session.GetString(ctx, sessionKeyID)
	if id == "" {
		id = uuid.NewString()
		s.Session.Put(ctx, sessionKeyID, id)
	}
	return id
}

// State returns the current session state
func (s *SessionStore) State(ctx context.Context) SessionState {
	return SessionState{
		User:      s.User(ctx),
		IsLoading: !s.Session.GetBool(ctx, sessionKeyResolved),
	}
}

// User returns the session user or nil
func (s *SessionStore) User(ctx context.Context) *client.User {
	u, ok := s.Session.Get(ctx, sessionKeyUser).(client.User)
	if !ok {
		return nil
	}
	return &u
}

// HasUser reports whether the request's session holds a user
func (s *SessionStore) HasUser(r *http.Request) bool {
	return s.User(r.Context()) != nil
}

// Resolve performs the one identity fetch of a session. It is a no-op once
// the session is resolved.
func (s *SessionStore) Resolve(w http.ResponseWriter, r *http.Request) SessionState {
	ctx := r.Context()
	if s.Session.GetBool(ctx, sessionKeyResolved) {
		return s.State(ctx)
	}

	s.ID(ctx)
	if s.FetchUser != nil {
		user, err := s.FetchUser(w, r)
		if err != nil {
			s.Logger.Warn("identity fetch failed, continuing without a user", "err", err)
		} else if user != nil {
			s.Session.Put(ctx, sessionKeyUser, *user)
		}
	}
	s.Session.Put(ctx, sessionKeyResolved, true)
	return s.State(ctx)
}

// Middleware resolves the session before handing the request on
func (s *SessionStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			s.Resolve(w, r)
			next.ServeHTTP(w, r)
		},
	)
}

// SetUser replaces the session user wholesale
func (s *SessionStore) SetUser(ctx context.Context, user *client.User) error {
	if user == nil {
		return s.ClearUser(ctx)
	}
	// new privilege level, new token
	if err := s.Session.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}
	s.Session.Put(ctx, sessionKeyUser, *user)
	s.Session.Put(ctx, sessionKeyResolved, true)
	return nil
}

// UpdateUsername renames the session user, if there is one
func (s *SessionStore) UpdateUsername(ctx context.Context, username string) {
	user := s.User(ctx)
	if user == nil {
		return
	}
	user.Username = username
	s.Session.Put(ctx, sessionKeyUser, *user)
}

// ClearUser forgets the session user. The session stays resolved.
func (s *SessionStore) ClearUser(ctx context.Context) error {
	s.Session.Remove(ctx, sessionKeyUser)
	s.Session.Put(ctx, sessionKeyResolved, true)
	if err := s.Session.RenewToken(ctx); err != nil {
		return fmt.Errorf("failed to renew session token: %w", err)
	}
	return nil
}

// Reset drops the whole session, as if the page had been left. The next
// request starts loading again.
func (s *SessionStore) Reset(ctx context.Context) error {
	if err := s.Session.Destroy(ctx); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// PageBackground records current as the session's page background and
// returns the background the page should start from
func (s *SessionStore) PageBackground(ctx context.Context, current string) string {
	prev := s.Session.GetString(ctx, sessionKeyBackground)
	s.Session.Put(ctx, sessionKeyBackground, current)
	if prev == "" {
		return current
	}
	return prev
}
