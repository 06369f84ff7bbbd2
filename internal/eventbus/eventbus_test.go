package eventbus

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assigned struct{ asset, incident string }

func TestBus_FanOut(t *testing.T) {
	bus := New()
	a, b := bus.Subscribe(), bus.Subscribe()

	bus.Publish(assigned{"truck-1", "fire"})

	for _, ch := range []<-chan Event{a, b} {
		ev, ok := (<-ch).(assigned)
		require.True(t, ok)
		assert.Equal(t, "truck-1", ev.asset)
	}

	bus.Unsubscribe(a)
	_, open := <-a
	assert.False(t, open)
	bus.Publish(assigned{"truck-2", "leak"})
	assert.Equal(t, assigned{"truck-2", "leak"}, <-b)
}

func TestBus_CloseIsFinal(t *testing.T) {
	bus := NewTyped[string](0)
	sub := bus.Subscribe()
	bus.Close()
	bus.Close()

	_, open := <-sub
	assert.False(t, open)
	_, open = <-bus.Subscribe()
	assert.False(t, open)
	assert.NotPanics(t, func() {
		bus.Publish("late")
		bus.Unsubscribe(sub)
	})
}

func TestBus_FullSubscriberDrops(t *testing.T) {
	bus := NewTyped[int](2)
	sub := bus.Subscribe()
	for i := 1; i <= 5; i++ {
		bus.Publish(i)
	}
	assert.Equal(t, uint64(3), bus.Dropped())
	assert.Equal(t, 1, <-sub)
	assert.Equal(t, 2, <-sub)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewTyped[int](100)
	sub := bus.Subscribe()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				bus.Publish(n)
			}
		}(i)
	}
	wg.Wait()
	assert.Len(t, sub, 100)
	assert.Zero(t, bus.Dropped())
}
