package forms

import "sync"

// Gate lets only one submission per key run at a time across requests.
type Gate struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func NewGate() *Gate {
	return &Gate{busy: make(map[string]struct{})}
}

// Acquire claims key. When ok is false another submission holds it.
func (g *Gate) Acquire(key string) (release func(), ok bool) {
	if g == nil || key == "" {
		return func() {}, true
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, held := g.busy[key]; held {
		return nil, false
	}
	g.busy[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.busy, key)
			g.mu.Unlock()
		})
	}, true
}
