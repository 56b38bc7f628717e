package session

import (
	"context"
	"errors"
	"time"
)

// Manager runs the session lifecycle for one scope.
type Manager struct {
	store    Store
	scope    string
	now      func() time.Time
	newToken func() string
}

func NewManager(store Store, scope string) *Manager {
	return &Manager{
		store:    store,
		scope:    scope,
		now:      func() time.Time { return time.Now().UTC() },
		newToken: NewToken,
	}
}

// Scope returns the tab scope this manager is bound to.
func (m *Manager) Scope() string {
	return m.scope
}

// CreateSession starts a fresh evaluation for companyID, replacing any prior
// session in the scope, and returns its token.
func (m *Manager) CreateSession(ctx context.Context, companyID string) (string, error) {
	token := m.newToken()
	s := &Session{
		Token:       token,
		CompanyID:   companyID,
		StartTime:   m.now(),
		Answers:     map[string]string{},
		CurrentStep: 0,
	}
	if err := m.store.Create(ctx, m.scope, s); err != nil {
		return "", err
	}
	return token, nil
}

// GetSession returns ErrNoSession when the scope has no complete session.
func (m *Manager) GetSession(ctx context.Context) (*Session, error) {
	if m.scope == "" {
		return nil, ErrNoSession
	}
	return m.store.Get(ctx, m.scope)
}

// ValidateSession reports whether the stored token equals token exactly.
func (m *Manager) ValidateSession(ctx context.Context, token string) bool {
	s, err := m.GetSession(ctx)
	if err != nil {
		return false
	}
	return s.Token == token
}

// UpdateAnswers replaces the whole answer map.
func (m *Manager) UpdateAnswers(ctx context.Context, answers map[string]string) error {
	if m.scope == "" {
		return ErrNoSession
	}
	return m.store.UpdateAnswers(ctx, m.scope, answers)
}

func (m *Manager) UpdateCurrentStep(ctx context.Context, step int) error {
	if m.scope == "" {
		return ErrNoSession
	}
	return m.store.UpdateCurrentStep(ctx, m.scope, step)
}

// ClearSession removes every session key of the scope.
func (m *Manager) ClearSession(ctx context.Context) error {
	if m.scope == "" {
		return nil
	}
	return m.store.Clear(ctx, m.scope)
}

// SessionDuration is the time elapsed since the session started, or zero
// without a session.
func (m *Manager) SessionDuration(ctx context.Context) time.Duration {
	s, err := m.GetSession(ctx)
	if err != nil {
		return 0
	}
	return m.now().Sub(s.StartTime)
}

// IsSessionExpired reports whether the session is older than timeout
// (DefaultTimeout when timeout <= 0). A missing session is not expired.
func (m *Manager) IsSessionExpired(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return m.SessionDuration(ctx) > timeout
}

// IsNoSession reports whether err means the scope has no usable session.
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoSession)
}
