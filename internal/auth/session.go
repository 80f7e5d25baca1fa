package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/oox/furniture-console/internal/api"
	"github.com/oox/furniture-console/internal/credential"
	"github.com/oox/furniture-console/internal/model"
	"github.com/oox/furniture-console/internal/validate"
)

// ErrNoSession is returned by Restore when no usable token is stored.
var ErrNoSession = errors.New("no stored session")

// Backend is the subset of the API client used for authentication.
type Backend interface {
	Login(ctx context.Context, creds model.Credentials) (*api.LoginResponse, error)
	CurrentUser(ctx context.Context) (*model.User, error)
	SetToken(token string)
}

// Session holds the signed-in user and keeps the token in the keyring.
type Session struct {
	backend Backend
	creds   credential.Store
	logger  *slog.Logger

	mu   sync.RWMutex
	user *model.User
}

// NewSession wires a session. logger may be nil.
func NewSession(backend Backend, creds credential.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{backend: backend, creds: creds, logger: logger}
}

// User returns the signed-in user, or nil.
func (s *Session) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Role returns the signed-in user's role, or "".
func (s *Session) Role() model.Role {
	if u := s.User(); u != nil {
		return u.Role
	}
	return ""
}

// Can reports whether the signed-in user holds perm.
func (s *Session) Can(perm Permission) bool {
	return Can(s.Role(), perm)
}

// Login validates creds, signs in and stores the token.
func (s *Session) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}

	resp, err := s.backend.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	s.backend.SetToken(resp.Token)
	if err := s.creds.Set(credential.TokenKey, resp.Token); err != nil {
		// The session still works for this run.
		s.logger.Warn("storing session token", "error", err)
	}

	s.setUser(&resp.User)
	s.logger.Info("signed in", "user", resp.User.Username, "role", resp.User.Role)
	return &resp.User, nil
}

// Restore signs in with a stored token. A token the backend rejects is
// removed and ErrNoSession is returned.
func (s *Session) Restore(ctx context.Context) (*model.User, error) {
	token, err := credential.Token(s.creds)
	if errors.Is(err, credential.ErrNotFound) || (err == nil && token == "") {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("reading stored session: %w", err)
	}

	s.backend.SetToken(token)
	user, err := s.backend.CurrentUser(ctx)
	if api.IsAuthError(err) {
		s.backend.SetToken("")
		_ = s.creds.Delete(credential.TokenKey)
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	s.setUser(user)
	s.logger.Info("session restored", "user", user.Username, "role", user.Role)
	return user, nil
}

// Logout forgets the user and removes the stored token.
func (s *Session) Logout() error {
	s.backend.SetToken("")
	s.setUser(nil)
	if err := s.creds.Delete(credential.TokenKey); err != nil {
		return fmt.Errorf("removing stored session: %w", err)
	}
	return nil
}

func (s *Session) setUser(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}
