package chip8

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// TestPatternEmulator displays test patterns without actual emulation
type TestPatternEmulator struct {
	frameBuffer      *video.FrameBuffer
	patternType      int
	animationCounter int
	limiter          timing.Limiter
}

func NewTestPatternEmulator() *TestPatternEmulator {
	e := &TestPatternEmulator{
		frameBuffer: video.NewFrameBuffer(),
		patternType: 0,
		limiter:     timing.NewNoOpLimiter(),
	}
	e.drawPattern(0)
	return e
}

func (e *TestPatternEmulator) RunUntilFrame() error {
	e.limiter.WaitForNextFrame()
	e.animationCounter++
	if e.animationCounter%display.TestPatternAnimationFrames == 0 {
		e.drawPattern(e.animationCounter / display.TestPatternAnimationFrames)
	}
	return nil
}

func (e *TestPatternEmulator) GetCurrentFrame() *video.FrameBuffer {
	return e.frameBuffer
}

func (e *TestPatternEmulator) HandleAction(act action.Action, pressed bool) {
	if act == action.EmulatorTestPatternCycle && pressed {
		e.CycleTestPattern()
	}
}

func (e *TestPatternEmulator) ExtractDebugData() *debug.MachineState {
	return &debug.MachineState{Frames: uint64(e.animationCounter)}
}

// PatternName returns the name of the pattern on screen.
func (e *TestPatternEmulator) PatternName() string {
	return display.TestPatternNames[e.patternType]
}

func (e *TestPatternEmulator) CycleTestPattern() {
	e.patternType = (e.patternType + 1) % display.TestPatternCount
	e.drawPattern(e.animationCounter / display.TestPatternAnimationFrames)
	slog.Info("Switched to test pattern", "pattern", e.PatternName())
}

// drawPattern renders the current pattern, step shifts the animated ones.
func (e *TestPatternEmulator) drawPattern(step int) {
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			var on bool
			switch e.patternType {
			case 0: // Checkerboard
				on = ((x/display.TestPatternTileSize)+(y/display.TestPatternTileSize))%2 == 0
			case 1: // Border, shows whether the edges of the screen are visible
				on = x == 0 || y == 0 || x == video.FramebufferWidth-1 || y == video.FramebufferHeight-1
			case 2: // Vertical stripes
				on = ((x+step*display.TestPatternStripeSpeed)/display.TestPatternStripeWidth)%2 == 0
			case 3: // Diagonal lines
				on = ((x+y+step*display.TestPatternDiagonalSpeed)/display.TestPatternTileSize)%2 == 0
			}
			e.frameBuffer.SetPixel(uint(x), uint(y), on)
		}
	}
}

func (e *TestPatternEmulator) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		e.limiter = timing.NewNoOpLimiter()
	} else {
		e.limiter = limiter
	}
}

// RedrawRequested is always true, patterns animate without tracking changes.
func (e *TestPatternEmulator) RedrawRequested() bool {
	return true
}

func (e *TestPatternEmulator) ClearRedrawFlag() {}
