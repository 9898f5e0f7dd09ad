package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFansOutAndStamps(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	first, unsubscribeFirst := bus.Subscribe()
	second, unsubscribeSecond := bus.Subscribe()
	defer unsubscribeSecond()

	bus.Publish(Event{Type: TypeClassroomCreated, Resource: "classroom/C101"})

	for _, ch := range []<-chan Event{first, second} {
		got := <-ch
		assert.Equal(t, TypeClassroomCreated, got.Type)
		assert.NotEmpty(t, got.ID)
		assert.False(t, got.Timestamp.IsZero())
	}

	unsubscribeFirst()
	unsubscribeFirst()
	_, open := <-first
	require.False(t, open)

	bus.Publish(Event{Type: TypeClassroomDeleted})
	assert.Equal(t, TypeClassroomDeleted, (<-second).Type)
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+5; i++ {
		bus.Publish(Event{Type: TypeStudentUpdated})
	}
	assert.Len(t, ch, subscriberBuffer)
}
