package audio

import (
	"fmt"
	"log/slog"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavPCMFormat is the WAVE format tag for uncompressed PCM.
const wavPCMFormat = 1

// WavRecorder records the buzzer to a mono 16 bit PCM WAV file. Samples are kept in
// memory and the file is written on Close.
type WavRecorder struct {
	path   string
	buzzer *Buzzer
	data   []int
	frames int
}

// NewWavRecorder creates the output file up front, so a bad path fails before emulation starts.
func NewWavRecorder(path string) (*WavRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create WAV file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to create WAV file: %w", err)
	}

	slog.Info("Recording audio", "path", path, "sample_rate", SampleRate)

	return &WavRecorder{
		path:   path,
		buzzer: NewBuzzer(SampleRate),
	}, nil
}

// Beep starts a tone in the recording.
func (r *WavRecorder) Beep() {
	r.buzzer.Beep()
}

// EndFrame appends one 60 Hz frame of audio.
func (r *WavRecorder) EndFrame() {
	for _, s := range r.buzzer.GetSamples(SamplesPerFrame) {
		r.data = append(r.data, int(s))
	}
	r.frames++
}

// Frames returns the number of frames recorded so far.
func (r *WavRecorder) Frames() int {
	return r.frames
}

// Close encodes the recorded samples and writes the WAV file.
func (r *WavRecorder) Close() (rerr error) {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav: %w", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, BitDepth, 1, wavPCMFormat)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: SampleRate},
		Data:           r.data,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}

	slog.Info("Audio recording saved", "path", r.path, "frames", r.frames, "samples", len(r.data))
	return nil
}
