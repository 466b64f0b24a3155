package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-at-least-16-chars!!"

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestSessions(t *testing.T) (*Sessions, *clock) {
	t.Helper()
	tokens, err := NewTokenService(testSecret)
	require.NoError(t, err)
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := NewSessions(tokens, Credentials{Email: "admin@example.com", PasswordHash: hash}, time.Hour)
	s.now = c.Now
	return s, c
}

func TestNewTokenServiceRejectsShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	assert.Error(t, err)
}

func TestTokenValidate(t *testing.T) {
	ts, err := NewTokenService(testSecret)
	require.NoError(t, err)
	now := time.Now()

	token, err := ts.Generate("sid", "admin@example.com", now, time.Minute)
	require.NoError(t, err)

	c, err := ts.Validate(token, now)
	require.NoError(t, err)
	assert.Equal(t, "sid", c.ID)

	_, err = ts.Validate(token, now.Add(2*time.Minute))
	assert.True(t, errs.IsExpiredTokenError(err))

	_, err = ts.Validate(token+"x", now)
	assert.True(t, errs.IsInvalidTokenError(err))

	_, err = ts.Validate("", now)
	assert.True(t, errs.IsMissingTokenError(err))

	other, err := NewTokenService("another-secret-of-16+")
	require.NoError(t, err)
	_, err = other.Validate(token, now)
	assert.True(t, errs.IsInvalidTokenError(err))
}

func TestSignIn(t *testing.T) {
	s, _ := newTestSessions(t)
	ctx := context.Background()

	_, _, err := s.SignIn(ctx, "admin@example.com", "wrong")
	assert.True(t, errs.IsUnauthorized(err))

	_, _, err = s.SignIn(ctx, "someone@example.com", "correct horse")
	assert.True(t, errs.IsUnauthorized(err))

	session, token, err := s.SignIn(ctx, " Admin@Example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	resolved, err := s.Resolve(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, resolved.ID)
}

func TestSignOutRevokes(t *testing.T) {
	s, _ := newTestSessions(t)
	var got []SessionEvent
	s.Subscribe(func(e SessionEvent) { got = append(got, e) })

	session, token, err := s.SignIn(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	s.SignOut(token)
	s.SignOut(token)

	_, err = s.Resolve(token)
	assert.True(t, errs.IsRevokedSessionError(err))
	assert.Equal(t, []SessionEvent{
		{Kind: SignedIn, SessionID: session.ID},
		{Kind: SignedOut, SessionID: session.ID},
	}, got)
}

func TestResolveExpiredEmitsOnce(t *testing.T) {
	s, c := newTestSessions(t)
	var got []SessionEvent
	unsubscribe := s.Subscribe(func(e SessionEvent) { got = append(got, e) })
	defer unsubscribe()

	_, token, err := s.SignIn(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	c.now = c.now.Add(2 * time.Hour)
	for i := 0; i < 2; i++ {
		_, err = s.Resolve(token)
		assert.True(t, errs.IsExpiredTokenError(err))
	}
	require.Len(t, got, 2)
	assert.Equal(t, Expired, got[1].Kind)
}

func TestGuardUnauthenticatedRedirects(t *testing.T) {
	s, _ := newTestSessions(t)
	redirects := 0
	g := NewGuard(s, func() { redirects++ })
	defer g.Close()

	assert.Equal(t, Checking, g.State())
	assert.Equal(t, Unauthenticated, g.Check(""))
	assert.Equal(t, 1, redirects)

	_, token, err := s.SignIn(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, Unauthenticated, g.Check(token), "unauthenticated is final")
	assert.Equal(t, 1, redirects)
}

func TestGuardLeavesAuthenticatedOnSignOut(t *testing.T) {
	s, _ := newTestSessions(t)
	_, token, err := s.SignIn(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	redirects := 0
	g := NewGuard(s, func() { redirects++ })
	defer g.Close()
	require.Equal(t, Authenticated, g.Check(token))

	// another session's sign out does not affect this guard
	_, other, err := s.SignIn(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)
	s.SignOut(other)
	assert.Equal(t, Authenticated, g.State())

	s.SignOut(token)
	assert.Equal(t, Unauthenticated, g.State())
	assert.Equal(t, 1, redirects)
	_, ok := g.Session()
	assert.False(t, ok)
}

func TestGuardLeavesAuthenticatedOnExpiry(t *testing.T) {
	s, c := newTestSessions(t)
	_, token, err := s.SignIn(context.Background(), "admin@example.com", "correct horse")
	require.NoError(t, err)

	redirected := false
	g := NewGuard(s, func() { redirected = true })
	defer g.Close()
	require.Equal(t, Authenticated, g.Check(token))

	c.now = c.now.Add(2 * time.Hour)
	_, _ = s.Resolve(token)

	assert.Equal(t, Unauthenticated, g.State())
	assert.True(t, redirected)
}

func TestGuardStateString(t *testing.T) {
	assert.Equal(t, "checking", Checking.String())
	assert.Equal(t, "authenticated", Authenticated.String())
	assert.Equal(t, "unauthenticated", Unauthenticated.String())
}
