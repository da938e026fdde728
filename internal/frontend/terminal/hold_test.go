package terminal

import (
	"testing"
	"time"

	"github.com/retroenv/retrochip8/internal/driver"
	"github.com/retroenv/retrogolib/assert"
)

func TestHoldTracker(t *testing.T) {
	start := time.Unix(1000, 0)
	h := newHoldTracker(100 * time.Millisecond)

	assert.True(t, h.press(0x5, start))
	// auto repeat of a held key sends no new press
	assert.False(t, h.press(0x5, start.Add(50*time.Millisecond)))
	assert.True(t, h.press(0xA, start.Add(60*time.Millisecond)))

	assert.Len(t, h.expire(start.Add(120*time.Millisecond)), 0)

	events := h.expire(start.Add(150 * time.Millisecond))
	assert.Equal(t, []driver.KeyEvent{{Key: 0x5, Pressed: false}}, events)

	events = h.expire(start.Add(time.Second))
	assert.Equal(t, []driver.KeyEvent{{Key: 0xA, Pressed: false}}, events)

	// a released key is pressed again
	assert.True(t, h.press(0x5, start.Add(2*time.Second)))
}
