package audio

import (
	"time"

	"github.com/valerio/go-chip8/chip8/display"
)

const (
	// SampleRate is the sample rate of the buzzer output
	SampleRate = display.AudioSampleRate
	// BitDepth is the size of a sample in bits
	BitDepth = 16
	// BeepDuration is how long the buzzer sounds for a single beep
	BeepDuration = 100 * time.Millisecond
	// framesPerSecond is the rate at which FrameEnder sinks are driven
	framesPerSecond = 60
	// SamplesPerFrame is the number of samples produced for one 60 Hz frame
	SamplesPerFrame = SampleRate / framesPerSecond
)
