package auth

import "sync"

type GuardState int

const (
	Checking GuardState = iota
	Authenticated
	Unauthenticated
)

func (s GuardState) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return "checking"
}

// Guard decides whether the admin console may render. It starts in
// Checking, settles once on Check, and drops to Unauthenticated if its
// session is signed out or expires. Unauthenticated is final.
type Guard struct {
	sessions   *Sessions
	onRedirect func()

	mu          sync.Mutex
	state       GuardState
	session     Session
	unsubscribe func()
}

// NewGuard watches sessions; onRedirect runs once when the guard leaves
// Authenticated or settles Unauthenticated. It may be nil.
func NewGuard(sessions *Sessions, onRedirect func()) *Guard {
	g := &Guard{sessions: sessions, onRedirect: onRedirect}
	g.unsubscribe = sessions.Subscribe(g.handle)
	return g
}

// Check resolves token if the guard is still Checking and returns the state.
func (g *Guard) Check(token string) GuardState {
	g.mu.Lock()
	if g.state != Checking {
		defer g.mu.Unlock()
		return g.state
	}
	g.mu.Unlock()

	session, err := g.sessions.Resolve(token)

	g.mu.Lock()
	if g.state != Checking {
		defer g.mu.Unlock()
		return g.state
	}
	if err != nil {
		g.state = Unauthenticated
		g.mu.Unlock()
		g.redirect()
		return Unauthenticated
	}
	g.state = Authenticated
	g.session = session
	g.mu.Unlock()
	return Authenticated
}

func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session is the resolved session while Authenticated.
func (g *Guard) Session() (Session, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session, g.state == Authenticated
}

// Close stops watching session events.
func (g *Guard) Close() {
	g.unsubscribe()
}

func (g *Guard) handle(e SessionEvent) {
	if e.Kind == SignedIn {
		return
	}

	g.mu.Lock()
	if g.state != Authenticated || e.SessionID != g.session.ID {
		g.mu.Unlock()
		return
	}
	g.state = Unauthenticated
	g.session = Session{}
	g.mu.Unlock()
	g.redirect()
}

func (g *Guard) redirect() {
	if g.onRedirect != nil {
		g.onRedirect()
	}
}
