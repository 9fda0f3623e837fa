//go:build sdl2

package sdl2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestSDL2Backend_EventFlow(t *testing.T) {
	b := New()

	err := b.Init(backend.BackendConfig{Title: "Test", Scale: 1})
	require.NoError(t, err)
	defer b.Cleanup()

	frame := video.NewFrameBuffer()
	frame.SetPixel(0, 0, true)

	// no events without actual SDL input
	events, err := b.Update(frame)
	require.NoError(t, err)
	assert.Empty(t, events)

	b.Beep()
	_, err = b.Update(frame)
	assert.NoError(t, err)

	// unchanged display, only input is polled
	_, err = b.Update(nil)
	assert.NoError(t, err)
	assert.Same(t, frame, b.currentFrame)
	assert.False(t, b.repaint)
}

func TestSDL2Backend_WindowExposeRepaints(t *testing.T) {
	b := New()
	b.handleEvent(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_EXPOSED})
	assert.True(t, b.repaint)
}

func TestKeyMappingMatchesDefaults(t *testing.T) {
	for key, act := range input.DefaultKeyMap {
		if len(key) != 1 {
			continue
		}
		sdlAct, ok := keyMapping[sdl.Keycode(key[0])]
		if !ok {
			continue
		}
		assert.Equal(t, act, sdlAct, "key %q", key)
	}

	for i := uint8(0); i < 16; i++ {
		found := false
		for _, act := range keyMapping {
			if act == action.ForKey(i) {
				found = true
			}
		}
		assert.True(t, found, "keypad key %X is mapped", i)
	}
}
