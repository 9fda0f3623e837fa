package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWavRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beep.wav")

	rec, err := NewWavRecorder(path)
	require.NoError(t, err)

	// 10 silent frames, a beep, 20 more frames
	for i := 0; i < 10; i++ {
		rec.EndFrame()
	}
	rec.Beep()
	for i := 0; i < 20; i++ {
		rec.EndFrame()
	}
	require.Equal(t, 30, rec.Frames())
	require.NoError(t, rec.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(SampleRate), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(BitDepth), dec.BitDepth)

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, 30*SamplesPerFrame)

	silent := buf.Data[:10*SamplesPerFrame]
	for _, s := range silent {
		require.Zero(t, s)
	}
	assert.NotZero(t, buf.Data[10*SamplesPerFrame])

	dur, err := dec.Duration()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dur.Seconds(), float64(time.Millisecond)/float64(time.Second))
}

func TestWavRecorder_BadPath(t *testing.T) {
	_, err := NewWavRecorder(filepath.Join(t.TempDir(), "missing", "out.wav"))
	assert.Error(t, err)
}
