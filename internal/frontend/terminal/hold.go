package terminal

import (
	"time"

	"github.com/retroenv/retrochip8/internal/driver"
)

// DefaultHold is the time a key stays pressed after its last input byte.
const DefaultHold = 100 * time.Millisecond

// holdTracker emulates key releases. Terminals only report key presses and
// auto repeats, so a key is released once no repeat arrived for the hold
// duration.
type holdTracker struct {
	hold     time.Duration
	lastSeen map[uint8]time.Time
}

func newHoldTracker(hold time.Duration) *holdTracker {
	return &holdTracker{
		hold:     hold,
		lastSeen: make(map[uint8]time.Time),
	}
}

// press records input for a key. It returns true if the key was not pressed
// before and a press event has to be sent.
func (h *holdTracker) press(key uint8, now time.Time) bool {
	_, held := h.lastSeen[key]
	h.lastSeen[key] = now
	return !held
}

// expire returns the release events of all keys whose hold time elapsed.
func (h *holdTracker) expire(now time.Time) []driver.KeyEvent {
	var events []driver.KeyEvent
	for key := range uint8(16) {
		seen, held := h.lastSeen[key]
		if !held || now.Sub(seen) < h.hold {
			continue
		}
		delete(h.lastSeen, key)
		events = append(events, driver.KeyEvent{Key: key, Pressed: false})
	}
	return events
}
