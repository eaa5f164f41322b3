package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/yukikurage/task-review-api/internal/dto"
	apierrors "github.com/yukikurage/task-review-api/internal/errors"
	"go.uber.org/zap"
)

// Credentials identify an account at sign-in
type Credentials struct {
	Email    string
	Password string
}

// Session is the signed-in state: the bearer token and the profile it resolved to
type Session struct {
	Token string
	User  dto.UserDTO
}

// Backend is the part of the API the manager talks to
type Backend interface {
	SignIn(ctx context.Context, req dto.SignInRequest) (*dto.AuthResponse, error)
	FetchProfile(ctx context.Context, token string) (*dto.UserDTO, error)
}

// Manager owns the current session. It is safe for concurrent use.
type Manager struct {
	backend Backend
	logger  *zap.Logger

	mu        sync.RWMutex
	current   *Session
	observers []func()
}

// NewManager creates a Manager with no session
func NewManager(backend Backend, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		backend: backend,
		logger:  logger,
	}
}

// Login signs in, loads the profile with the new token and caches both.
// Any failure leaves no session behind.
func (m *Manager) Login(ctx context.Context, creds Credentials) (*Session, error) {
	email := strings.TrimSpace(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, apierrors.ErrInvalidCredentials
	}

	auth, err := m.backend.SignIn(ctx, dto.SignInRequest{Email: email, Password: creds.Password})
	if err != nil {
		if errors.Is(err, apierrors.ErrUnauthorized) {
			return nil, apierrors.ErrInvalidCredentials
		}
		return nil, err
	}

	profile, err := m.backend.FetchProfile(ctx, auth.Token)
	if err != nil {
		m.logger.Warn("profile fetch after sign-in failed", zap.String("email", email), zap.Error(err))
		m.clear(false)
		return nil, err
	}

	s := &Session{Token: auth.Token, User: *profile}
	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.logger.Info("signed in", zap.Uint64("user_id", profile.ID), zap.String("role", string(profile.Role)))
	return copySession(s), nil
}

// Logout drops the session. Calling it without a session is a no-op.
func (m *Manager) Logout() {
	if m.clear(true) {
		m.logger.Info("signed out")
	}
}

// Invalidate is the forced logout used when the server rejects the token
func (m *Manager) Invalidate() {
	if m.clear(true) {
		m.logger.Warn("session invalidated by server")
	}
}

// Token returns the cached bearer token, or "" when signed out
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.Token
}

// Current returns a copy of the session, or nil when signed out
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copySession(m.current)
}

// CurrentUser returns the cached profile, or nil when signed out
func (m *Manager) CurrentUser() *dto.UserDTO {
	s := m.Current()
	if s == nil || s.User.ID == 0 {
		return nil
	}
	return &s.User
}

// IsAdmin reports whether the signed-in user is an admin
func (m *Manager) IsAdmin() bool {
	user := m.CurrentUser()
	return user != nil && user.IsAdmin()
}

// IsWorker reports whether the signed-in user is a worker
func (m *Manager) IsWorker() bool {
	user := m.CurrentUser()
	return user != nil && user.IsWorker()
}

// RefreshProfile re-fetches the profile with the cached token. A rejected token
// logs the session out before the error is returned.
func (m *Manager) RefreshProfile(ctx context.Context) (*dto.UserDTO, error) {
	token := m.Token()
	if token == "" {
		return nil, apierrors.ErrUnauthorized
	}

	profile, err := m.backend.FetchProfile(ctx, token)
	if err != nil {
		if errors.Is(err, apierrors.ErrUnauthorized) {
			m.Invalidate()
		}
		return nil, err
	}

	m.mu.Lock()
	// A concurrent logout or re-login wins over this refresh.
	if m.current != nil && m.current.Token == token {
		m.current.User = *profile
	}
	m.mu.Unlock()

	user := *profile
	return &user, nil
}

// Restore seeds the session from a persisted token and validates it by
// refreshing the profile.
func (m *Manager) Restore(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apierrors.ErrUnauthorized
	}

	m.mu.Lock()
	m.current = &Session{Token: token}
	m.mu.Unlock()

	if _, err := m.RefreshProfile(ctx); err != nil {
		// The token may still be good; only a rejection counts as a logout.
		if !errors.Is(err, apierrors.ErrUnauthorized) {
			m.clear(false)
		}
		return nil, err
	}

	return m.Current(), nil
}

// OnLogout registers fn to run after every logout, forced or not
func (m *Manager) OnLogout(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// clear drops the session and reports whether there was one. Observers run
// outside the lock when notify is set.
func (m *Manager) clear(notify bool) bool {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	observers := append([]func(){}, m.observers...)
	m.mu.Unlock()

	if had && notify {
		for _, fn := range observers {
			fn()
		}
	}
	return had
}

func copySession(s *Session) *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
