package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimersFireInOrder(t *testing.T) {
	w := NewWorld()
	var order []string
	w.Schedule(0, 0.3, "b", func(*World) { order = append(order, "b") })
	w.Schedule(0, 0.1, "a", func(*World) { order = append(order, "a") })
	w.Schedule(0, 0.3, "c", func(*World) { order = append(order, "c") })

	w.Advance(0.2)
	assert.Equal(t, 1, w.RunTimers())
	assert.Equal(t, []string{"a"}, order)

	w.Advance(0.2)
	assert.Equal(t, 2, w.RunTimers())
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestTimerDroppedWhenOwnerDestroyed(t *testing.T) {
	w := NewWorld()
	owner := w.CreateEntity()
	fired := false
	w.Schedule(owner, 0.5, "strike", func(*World) { fired = true })
	require.Equal(t, 1, w.PendingTimers(owner, "strike"))

	w.DestroyEntity(owner)
	// the slot is reused by a new entity; the old timer must not see it as its owner
	reused := w.CreateEntity()
	require.Equal(t, owner.ID(), reused.ID())

	w.Advance(1)
	assert.Equal(t, 0, w.RunTimers())
	assert.False(t, fired)
}

func TestCancelTimer(t *testing.T) {
	w := NewWorld()
	fired := false
	id := w.Schedule(0, 0.1, "x", func(*World) { fired = true })

	assert.True(t, w.CancelTimer(id))
	assert.False(t, w.CancelTimer(id))

	w.Advance(1)
	w.RunTimers()
	assert.False(t, fired)
}

func TestTimerScheduledFromCallback(t *testing.T) {
	w := NewWorld()
	count := 0
	w.Schedule(0, 0, "outer", func(w *World) {
		count++
		w.Schedule(0, 0, "inner", func(*World) { count++ })
		w.Schedule(0, 1, "later", func(*World) { count++ })
	})
	assert.Equal(t, 2, w.RunTimers())
	assert.Equal(t, 2, count)
}
