package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(testSecret, 30*time.Minute, zap.NewNop())
}

func TestIssueAndResolve(t *testing.T) {
	s := newTestStore(t)

	token, err := s.Issue(7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, ok := s.Resolve(token)
	require.True(t, ok)
	assert.Equal(t, 7, userID)
}

func TestResolveRejectsForgedToken(t *testing.T) {
	s := newTestStore(t)

	other := NewStore("different-secret", 30*time.Minute, zap.NewNop())
	forged, err := other.Issue(7)
	require.NoError(t, err)

	_, ok := s.Resolve(forged)
	assert.False(t, ok)

	_, ok = s.Resolve("not-a-token")
	assert.False(t, ok)
}

func TestSecondSigninInvalidatesFirst(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Issue(3)
	require.NoError(t, err)
	second, err := s.Issue(3)
	require.NoError(t, err)

	_, ok := s.Resolve(first)
	assert.False(t, ok)
	userID, ok := s.Resolve(second)
	require.True(t, ok)
	assert.Equal(t, 3, userID)
}

func TestRevoke(t *testing.T) {
	s := newTestStore(t)

	token, err := s.Issue(1)
	require.NoError(t, err)
	s.Revoke(token)

	_, ok := s.Resolve(token)
	assert.False(t, ok)
}

func TestSweepEvictsIdleTokens(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	s.now = func() time.Time { return now }

	idle, err := s.Issue(1)
	require.NoError(t, err)
	active, err := s.Issue(2)
	require.NoError(t, err)

	// The active session keeps getting touched; the idle one does not.
	now = now.Add(31 * time.Minute)
	s.Touch(active)
	s.sweep()

	_, ok := s.Resolve(idle)
	assert.False(t, ok)
	_, ok = s.Resolve(active)
	assert.True(t, ok)
}

func TestTouchExtendsLifetime(t *testing.T) {
	s := newTestStore(t)

	now := time.Now()
	s.now = func() time.Time { return now }

	token, err := s.Issue(1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		now = now.Add(20 * time.Minute)
		s.Touch(token)
		s.sweep()
		_, ok := s.Resolve(token)
		require.True(t, ok)
	}
}
