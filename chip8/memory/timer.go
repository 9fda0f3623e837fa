package memory

// Timers holds the delay and sound timers.
// Both count down by one per Tick while non-zero.
type Timers struct {
	Delay byte
	Sound byte

	// BeepHandler is invoked once when the sound timer runs out,
	// i.e. on the tick that takes it from 1 to 0.
	BeepHandler func()
}

// Tick decays both timers by one step.
func (t *Timers) Tick() {
	if t.Delay > 0 {
		t.Delay--
	}

	if t.Sound > 0 {
		if t.Sound == 1 && t.BeepHandler != nil {
			t.BeepHandler()
		}
		t.Sound--
	}
}

// Reset clears both timers, keeping the beep handler.
func (t *Timers) Reset() {
	t.Delay = 0
	t.Sound = 0
}
