package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var got []string

	bus.Subscribe(func(e EntityChanged) { got = append(got, "a:"+string(e.Entity)) })
	bus.Subscribe(func(e EntityChanged) { got = append(got, "b:"+string(e.Op)) })

	bus.Publish(EntityChanged{Entity: Skill, Op: Created, ID: uuid.New()})

	assert.Equal(t, []string{"a:skills", "b:created"}, got)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	unsubscribe := bus.Subscribe(func(EntityChanged) { calls++ })

	bus.Publish(EntityChanged{Entity: Project, Op: Deleted})
	unsubscribe()
	unsubscribe()
	bus.Publish(EntityChanged{Entity: Project, Op: Deleted})

	assert.Equal(t, 1, calls)
}

func TestNilBusPublishIsNoop(t *testing.T) {
	var bus *Bus
	assert.NotPanics(t, func() { bus.Publish(EntityChanged{Entity: Message}) })
}
