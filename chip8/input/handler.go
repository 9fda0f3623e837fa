package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// DebounceDelay is the minimum time between two accepted Press/Release events
// of the same emulator action.
const DebounceDelay = 300 * time.Millisecond

// Handler manages input processing with debouncing for UI actions
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  DebounceDelay,
		now:            time.Now,
	}
}

// ProcessEvent processes an input event, applying debouncing for Press/Release events
// of emulator and debug actions. Keypad events always pass, programs poll the keys
// and expect to see every transition.
// Returns true if the event should be handled, false if it was debounced
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if action.GetInfo(evt.Action).Category == action.CategoryKeypad {
		return true
	}

	if evt.Type == event.Press || evt.Type == event.Release {
		now := h.now()
		if lastTime, exists := h.lastActionTime[evt.Action]; exists {
			if now.Sub(lastTime) < h.debounceDelay {
				return false
			}
		}
		h.lastActionTime[evt.Action] = now
	}

	return true
}
