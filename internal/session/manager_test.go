package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, store Store, scope string) (*Manager, *time.Time) {
	t.Helper()
	now := time.Date(2025, 5, 10, 14, 30, 0, 0, time.UTC)
	m := NewManager(store, scope)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManager_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	m, now := newTestManager(t, NewMemoryStore(), "tab-1")

	token, err := m.CreateSession(ctx, "company-1")
	require.NoError(t, err)
	assert.True(t, ValidToken(token))

	s, err := m.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, token, s.Token)
	assert.Equal(t, "company-1", s.CompanyID)
	assert.True(t, s.StartTime.Equal(*now))
	assert.Empty(t, s.Answers)
	assert.Equal(t, 0, s.CurrentStep)
}

func TestManager_CreateOverwritesPriorSession(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(), "tab-1")

	first, err := m.CreateSession(ctx, "company-1")
	require.NoError(t, err)
	require.NoError(t, m.UpdateAnswers(ctx, map[string]string{"q1": "old"}))
	require.NoError(t, m.UpdateCurrentStep(ctx, 3))

	second, err := m.CreateSession(ctx, "company-2")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	s, err := m.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "company-2", s.CompanyID)
	assert.Empty(t, s.Answers)
	assert.Equal(t, 0, s.CurrentStep)
}

func TestManager_ValidateSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m, _ := newTestManager(t, store, "tab-1")
	m.newToken = func() string { return "xyz789xyz789xyz789" }

	_, err := m.CreateSession(ctx, "company-1")
	require.NoError(t, err)

	assert.True(t, m.ValidateSession(ctx, "xyz789xyz789xyz789"))
	assert.False(t, m.ValidateSession(ctx, "abc123"))
	// one character off, either end
	assert.False(t, m.ValidateSession(ctx, "Xyz789xyz789xyz789"))
	assert.False(t, m.ValidateSession(ctx, "xyz789xyz789xyz78"))
	assert.False(t, m.ValidateSession(ctx, "xyz789xyz789xyz7899"))
	assert.False(t, m.ValidateSession(ctx, ""))
}

func TestManager_ValidateSession_NoSession(t *testing.T) {
	m, _ := newTestManager(t, NewMemoryStore(), "tab-1")
	assert.False(t, m.ValidateSession(context.Background(), "abc123abc123abc123"))

	unscoped, _ := newTestManager(t, NewMemoryStore(), "")
	assert.False(t, unscoped.ValidateSession(context.Background(), ""))
}

func TestManager_UpdatesReplaceWholeFields(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, NewMemoryStore(), "tab-1")
	_, err := m.CreateSession(ctx, "company-1")
	require.NoError(t, err)

	require.NoError(t, m.UpdateAnswers(ctx, map[string]string{"q1": "a", "q2": "b"}))
	require.NoError(t, m.UpdateAnswers(ctx, map[string]string{"q2": "c"}))
	require.NoError(t, m.UpdateCurrentStep(ctx, 4))

	s, err := m.GetSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q2": "c"}, s.Answers)
	assert.Equal(t, 4, s.CurrentStep)
}

func TestManager_UpdateWithoutSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m, _ := newTestManager(t, store, "tab-1")

	assert.ErrorIs(t, m.UpdateAnswers(ctx, map[string]string{"q1": "a"}), ErrNoSession)
	assert.ErrorIs(t, m.UpdateCurrentStep(ctx, 1), ErrNoSession)
	assert.Equal(t, 0, store.Len("tab-1"))
}

func TestManager_ClearSession(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m, _ := newTestManager(t, store, "tab-1")
	_, err := m.CreateSession(ctx, "company-1")
	require.NoError(t, err)
	require.Equal(t, len(Keys), store.Len("tab-1"))

	require.NoError(t, m.ClearSession(ctx))

	assert.Equal(t, 0, store.Len("tab-1"))
	_, err = m.GetSession(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_PartialSessionIsAbsent(t *testing.T) {
	for _, missing := range Keys {
		t.Run(missing, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			m, _ := newTestManager(t, store, "tab-1")
			token, err := m.CreateSession(ctx, "company-1")
			require.NoError(t, err)

			store.Delete("tab-1", missing)

			_, err = m.GetSession(ctx)
			assert.ErrorIs(t, err, ErrNoSession)
			assert.False(t, m.ValidateSession(ctx, token))
		})
	}
}

func TestManager_UnparsableSessionIsAbsent(t *testing.T) {
	cases := map[string]string{
		KeyStartTime:   "yesterday",
		KeyCurrentStep: "two",
		KeyAnswers:     "{not json",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			m, _ := newTestManager(t, store, "tab-1")
			_, err := m.CreateSession(ctx, "company-1")
			require.NoError(t, err)

			store.Set("tab-1", key, value)

			_, err = m.GetSession(ctx)
			assert.ErrorIs(t, err, ErrNoSession)
		})
	}
}

func TestManager_DurationAndExpiry(t *testing.T) {
	ctx := context.Background()
	m, now := newTestManager(t, NewMemoryStore(), "tab-1")

	assert.Equal(t, time.Duration(0), m.SessionDuration(ctx))
	assert.False(t, m.IsSessionExpired(ctx, 0))

	_, err := m.CreateSession(ctx, "company-1")
	require.NoError(t, err)

	*now = now.Add(30 * time.Minute)
	assert.Equal(t, 30*time.Minute, m.SessionDuration(ctx))
	assert.False(t, m.IsSessionExpired(ctx, 0))
	assert.True(t, m.IsSessionExpired(ctx, 10*time.Minute))

	*now = now.Add(31 * time.Minute)
	assert.True(t, m.IsSessionExpired(ctx, 0))
}

func TestManager_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a, _ := newTestManager(t, store, "tab-a")
	b, _ := newTestManager(t, store, "tab-b")

	tokenA, err := a.CreateSession(ctx, "company-1")
	require.NoError(t, err)

	assert.False(t, b.ValidateSession(ctx, tokenA))
	require.NoError(t, b.ClearSession(ctx))
	assert.True(t, a.ValidateSession(ctx, tokenA))
}

func TestValidToken(t *testing.T) {
	assert.True(t, ValidToken(NewToken()))
	assert.True(t, ValidToken("abcdefghijklmnop"))
	assert.True(t, ValidToken("V1StGXR8_Z5jdHi6B-myT"))
	assert.False(t, ValidToken("short"))
	assert.False(t, ValidToken("has spaces in the token"))
	assert.False(t, ValidToken("abcdefghijklmno/"))
}
