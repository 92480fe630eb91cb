package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdown_Tick(t *testing.T) {
	t.Run("Runs down to zero and expires exactly once", func(t *testing.T) {
		// Given: a running three minute countdown
		countdown := New(180)
		countdown.Resume()

		// When: it is ticked 180 times
		expirations := 0
		for range 180 {
			if countdown.Tick() {
				expirations++
			}
		}

		// Then: it sits at zero and expired once
		assert.Equal(t, 0, countdown.Remaining())
		assert.Equal(t, 1, expirations)
		assert.True(t, countdown.Expired())

		// And: further ticks neither go negative nor fire again
		for range 5 {
			assert.False(t, countdown.Tick())
		}
		assert.Equal(t, 0, countdown.Remaining())
	})

	t.Run("Does not elapse while paused", func(t *testing.T) {
		// Given: a paused countdown
		countdown := New(10)

		// When: it is ticked
		for range 5 {
			assert.False(t, countdown.Tick())
		}

		// Then: no time passed
		assert.Equal(t, 10, countdown.Remaining())
		assert.False(t, countdown.Running())
	})

	t.Run("One tick is one second", func(t *testing.T) {
		countdown := New(10)
		countdown.Resume()

		countdown.Tick()
		countdown.Tick()

		assert.Equal(t, 8, countdown.Remaining())
	})

	t.Run("Adjusted to zero expires on the next running tick", func(t *testing.T) {
		// Given: a running countdown pushed down to zero
		countdown := New(20)
		countdown.Resume()
		countdown.Adjust(-30)
		require.Equal(t, 0, countdown.Remaining())
		require.False(t, countdown.Expired())

		// When: it ticks
		expired := countdown.Tick()

		// Then: it reports expiry once
		assert.True(t, expired)
		assert.False(t, countdown.Tick())
	})
}

func TestCountdown_Adjust(t *testing.T) {
	t.Run("Never goes below zero", func(t *testing.T) {
		countdown := New(180)

		countdown.Adjust(-300)

		assert.Equal(t, 0, countdown.Remaining())
	})

	t.Run("Adds time", func(t *testing.T) {
		countdown := New(180)

		countdown.Adjust(30)

		assert.Equal(t, 210, countdown.Remaining())
	})

	t.Run("Adding time after expiry re-arms the countdown", func(t *testing.T) {
		// Given: an expired countdown
		countdown := New(1)
		countdown.Resume()
		require.True(t, countdown.Tick())

		// When: time is added back
		countdown.Adjust(2)

		// Then: it counts down and expires again
		assert.False(t, countdown.Expired())
		assert.False(t, countdown.Tick())
		assert.True(t, countdown.Tick())
	})
}

func TestCountdown_PauseResume(t *testing.T) {
	countdown := New(60)

	countdown.Pause()
	countdown.Pause()
	assert.False(t, countdown.Running())

	countdown.Resume()
	countdown.Resume()
	assert.True(t, countdown.Running())
	assert.Equal(t, 60, countdown.Remaining())
}

func TestRestore(t *testing.T) {
	countdown := Restore(42, true)

	assert.Equal(t, 42, countdown.Remaining())
	assert.True(t, countdown.Running())
	assert.Equal(t, 0, Restore(-3, false).Remaining())
}
