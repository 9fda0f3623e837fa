package audio

// Provider produces signed 16 bit mono samples for playback or recording.
type Provider interface {
	// GetSamples retrieves audio samples for playback
	GetSamples(count int) []int16
}

// Beeper is notified every time the sound timer runs out.
type Beeper interface {
	Beep()
}

// FrameEnder is implemented by sinks that consume audio in frame sized chunks.
type FrameEnder interface {
	EndFrame()
}

var (
	_ Provider = (*Buzzer)(nil)
	_ Beeper   = (*Buzzer)(nil)
	_ Beeper   = (*WavRecorder)(nil)
)
