package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestTestPatternEmulator_Patterns(t *testing.T) {
	e := NewTestPatternEmulator()
	fb := e.GetCurrentFrame()

	require.Equal(t, "checkerboard", e.PatternName())
	assert.Equal(t, uint8(1), fb.GetPixel(0, 0))
	assert.Equal(t, uint8(0), fb.GetPixel(display.TestPatternTileSize, 0))

	e.HandleAction(action.EmulatorTestPatternCycle, true)
	require.Equal(t, "border", e.PatternName())
	assert.Equal(t, uint8(1), fb.GetPixel(0, 5))
	assert.Equal(t, uint8(1), fb.GetPixel(video.FramebufferWidth-1, video.FramebufferHeight-1))
	assert.Equal(t, uint8(0), fb.GetPixel(10, 10))

	e.HandleAction(action.EmulatorTestPatternCycle, false)
	assert.Equal(t, "border", e.PatternName(), "release does not cycle")

	e.CycleTestPattern()
	e.CycleTestPattern()
	e.CycleTestPattern()
	assert.Equal(t, "checkerboard", e.PatternName(), "cycling wraps around")
}

func TestTestPatternEmulator_Animation(t *testing.T) {
	e := NewTestPatternEmulator()
	e.CycleTestPattern()
	e.CycleTestPattern()
	require.Equal(t, "stripes", e.PatternName())

	before := video.NewFrameBuffer()
	before.CopyFrom(e.GetCurrentFrame())

	for i := 0; i < display.TestPatternAnimationFrames-1; i++ {
		require.NoError(t, e.RunUntilFrame())
	}
	assert.True(t, before.Equal(e.GetCurrentFrame()), "pattern holds between animation steps")

	require.NoError(t, e.RunUntilFrame())
	assert.False(t, before.Equal(e.GetCurrentFrame()), "stripes move")
	assert.Equal(t, uint64(display.TestPatternAnimationFrames), e.ExtractDebugData().Frames)
}

func TestTestPatternEmulator_AlwaysRedraws(t *testing.T) {
	e := NewTestPatternEmulator()
	assert.True(t, e.RedrawRequested())

	e.ClearRedrawFlag()
	require.NoError(t, e.RunUntilFrame())
	assert.True(t, e.RedrawRequested())
}
