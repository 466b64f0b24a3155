// Package events carries "entity changed" notifications from repositories to
// whoever holds derived state, such as the read cache.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Entity names one content table.
type Entity string

const (
	Profile       Entity = "profile"
	Project       Entity = "projects"
	ProjectMedia  Entity = "project_media"
	Skill         Entity = "skills"
	Experience    Entity = "experience"
	Certificate   Entity = "certificates"
	ContactMethod Entity = "contact_methods"
	Message       Entity = "messages"
)

// All lists every entity in admin tab order.
var All = []Entity{Profile, Project, ProjectMedia, Skill, Experience, Certificate, ContactMethod, Message}

type Op string

const (
	Created Op = "created"
	Updated Op = "updated"
	Deleted Op = "deleted"
)

// EntityChanged is published after a write has been committed.
type EntityChanged struct {
	Entity Entity
	Op     Op
	ID     uuid.UUID
}

type Handler func(EntityChanged)

// Bus delivers events synchronously, in subscription order, on the
// publishing goroutine. Handlers must not publish.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]Handler
	order    []int
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[int]Handler)}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = h
	b.order = append(b.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
			for i, v := range b.order {
				if v == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (b *Bus) Publish(e EntityChanged) {
	if b == nil {
		return
	}

	b.mu.RLock()
	hs := make([]Handler, 0, len(b.order))
	for _, id := range b.order {
		hs = append(hs, b.handlers[id])
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
}
