package audio

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/valerio/go-chip8/chip8/display"
)

// Buzzer is the CHIP-8 sound output: a fixed pitch square wave that sounds for
// BeepDuration after every Beep. It is safe for concurrent use, so an audio
// callback may pull samples while the emulator loop triggers beeps.
type Buzzer struct {
	mu sync.Mutex

	sampleRate  int
	halfPeriod  int
	amplitude   int16
	toneSamples int

	remaining int
	phase     int
}

// NewBuzzer creates a buzzer producing samples at the given rate.
func NewBuzzer(sampleRate int) *Buzzer {
	halfPeriod := sampleRate / (2 * display.BeepFrequency)
	if halfPeriod < 1 {
		halfPeriod = 1
	}

	return &Buzzer{
		sampleRate:  sampleRate,
		halfPeriod:  halfPeriod,
		amplitude:   display.BeepAmplitude,
		toneSamples: int(int64(sampleRate) * int64(BeepDuration) / int64(time.Second)),
	}
}

// Beep starts (or restarts) a tone.
func (b *Buzzer) Beep() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.remaining = b.toneSamples
}

// Active reports whether a tone is still sounding.
func (b *Buzzer) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.remaining > 0
}

// GetSamples returns the next count samples, silence once the tone has finished.
func (b *Buzzer) GetSamples(count int) []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()

	samples := make([]int16, count)
	for i := range samples {
		if b.remaining == 0 {
			b.phase = 0
			continue
		}

		if (b.phase/b.halfPeriod)%2 == 0 {
			samples[i] = b.amplitude
		} else {
			samples[i] = -b.amplitude
		}
		b.phase++
		b.remaining--
	}

	return samples
}

// EncodeS16LE packs samples as little endian signed 16 bit PCM.
func EncodeS16LE(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
