package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
	Expired   EventKind = "expired"
)

// SessionEvent reports a change in a session's lifetime.
type SessionEvent struct {
	Kind      EventKind
	SessionID string
}

type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Credentials identify the single admin account.
type Credentials struct {
	Email        string
	PasswordHash string
}

// Sessions issues and resolves admin session tokens. Signed out sessions stay
// revoked until their token would have expired anyway.
type Sessions struct {
	tokens *TokenService
	admin  Credentials
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger

	mu      sync.Mutex
	revoked map[string]time.Time
	expired map[string]bool
	nextSub int
	subs    map[int]func(SessionEvent)
}

func NewSessions(tokens *TokenService, admin Credentials, ttl time.Duration) *Sessions {
	return &Sessions{
		tokens:  tokens,
		admin:   admin,
		ttl:     ttl,
		now:     time.Now,
		logger:  log.With().Str("component", "sessions").Logger(),
		revoked: make(map[string]time.Time),
		expired: make(map[string]bool),
		subs:    make(map[int]func(SessionEvent)),
	}
}

// SignIn checks the admin credentials and starts a session.
func (s *Sessions) SignIn(ctx context.Context, email, password string) (Session, string, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, "", errs.NewTimeoutError("sign in")
	}
	if s.admin.PasswordHash == "" {
		return Session{}, "", errs.NewEnvironmentVariableError("ADMIN_PASSWORD_HASH")
	}

	ok, err := checkPassword(s.admin.PasswordHash, password)
	if err != nil {
		return Session{}, "", err
	}
	if !ok || !strings.EqualFold(strings.TrimSpace(email), s.admin.Email) {
		s.logger.Warn().Str("email", email).Msg("rejected sign in")
		return Session{}, "", errs.NewInvalidCredentialsError()
	}

	now := s.now()
	session := Session{
		ID:        uuid.NewString(),
		Email:     s.admin.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	token, err := s.tokens.Generate(session.ID, session.Email, now, s.ttl)
	if err != nil {
		return Session{}, "", err
	}

	s.emit(SessionEvent{Kind: SignedIn, SessionID: session.ID})
	return session, token, nil
}

// SignOut revokes the token's session. Signing out an invalid or already
// revoked token is not an error.
func (s *Sessions) SignOut(token string) {
	c, err := s.tokens.Validate(token, s.now())
	if c == nil || err != nil {
		return
	}

	s.mu.Lock()
	_, already := s.revoked[c.ID]
	s.revoked[c.ID] = c.ExpiresAt.Time
	s.pruneLocked()
	s.mu.Unlock()

	if !already {
		s.emit(SessionEvent{Kind: SignedOut, SessionID: c.ID})
	}
}

// Resolve returns the live session for token. The first time an expired
// session is seen an Expired event is emitted.
func (s *Sessions) Resolve(token string) (Session, error) {
	c, err := s.tokens.Validate(token, s.now())
	if errs.IsExpiredTokenError(err) && c != nil {
		s.mu.Lock()
		first := !s.expired[c.ID]
		s.expired[c.ID] = true
		s.mu.Unlock()
		if first {
			s.emit(SessionEvent{Kind: Expired, SessionID: c.ID})
		}
		return Session{}, err
	}
	if err != nil {
		return Session{}, err
	}

	s.mu.Lock()
	_, revoked := s.revoked[c.ID]
	s.mu.Unlock()
	if revoked {
		return Session{}, errs.NewRevokedSessionError()
	}

	return Session{
		ID:        c.ID,
		Email:     c.Subject,
		IssuedAt:  c.IssuedAt.Time,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Subscribe delivers session events to fn until unsubscribe is called.
func (s *Sessions) Subscribe(fn func(SessionEvent)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Sessions) emit(e SessionEvent) {
	s.mu.Lock()
	fns := make([]func(SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

func (s *Sessions) pruneLocked() {
	now := s.now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
}
