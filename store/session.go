package store

import (
	"context"
	"sync"

	"boardsync/domain"
)

// SessionGateway is the slice of the gateway the session store needs.
type SessionGateway interface {
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (domain.User, error)
}

// Session proxies authentication calls and caches the session user. The user
// is fetched once and reused for the lifetime of the session.
type Session struct {
	gw SessionGateway

	mu      sync.Mutex
	user    *domain.User
	fetched bool
}

// NewSession creates a session store backed by gw.
func NewSession(gw SessionGateway) *Session {
	return &Session{gw: gw}
}

// Login establishes a session and invalidates any cached user.
func (s *Session) Login(ctx context.Context, email, password string) error {
	if err := s.gw.Login(ctx, email, password); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = nil
	s.fetched = false
	s.mu.Unlock()
	return nil
}

// Register creates an account. It does not establish a session.
func (s *Session) Register(ctx context.Context, email, password string) error {
	return s.gw.Register(ctx, email, password)
}

// Logout ends the session and drops the cached user.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.gw.Logout(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.user = nil
	s.fetched = false
	s.mu.Unlock()
	return nil
}

// Me returns the session user, hitting the gateway only on the first call.
func (s *Session) Me(ctx context.Context) (domain.User, error) {
	s.mu.Lock()
	if s.fetched && s.user != nil {
		u := *s.user
		s.mu.Unlock()
		return u, nil
	}
	s.mu.Unlock()

	user, err := s.gw.Me(ctx)
	if err != nil {
		return domain.User{}, err
	}
	s.mu.Lock()
	s.user = &user
	s.fetched = true
	s.mu.Unlock()
	return user, nil
}
