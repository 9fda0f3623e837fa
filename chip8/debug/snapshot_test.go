package debug

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/video"
)

func testFrame() *video.FrameBuffer {
	fb := video.NewFrameBuffer()
	fb.SetPixel(0, 0, true)
	fb.SetPixel(63, 31, true)
	fb.SetPixel(10, 20, true)
	return fb
}

func TestSaveFramePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, SaveFramePNG(testFrame(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, video.FramebufferWidth, img.Bounds().Dx())
	assert.Equal(t, video.FramebufferHeight, img.Bounds().Dy())

	r, g, b, a := img.At(10, 20).RGBA()
	assert.Equal(t, []uint32{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}, []uint32{r, g, b, a})
	r, g, b, _ = img.At(11, 20).RGBA()
	assert.Equal(t, []uint32{0, 0, 0}, []uint32{r, g, b})
}

func TestSaveFramePNGToDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveFramePNGToDir(testFrame(), "pong_frame_10", dir))

	matches, err := filepath.Glob(filepath.Join(dir, "pong_frame_10_*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSaveFramePNG_BadPath(t *testing.T) {
	err := SaveFramePNG(testFrame(), filepath.Join(t.TempDir(), "missing", "frame.png"))
	assert.ErrorContains(t, err, "failed to create file")
}

func TestFrameText(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(FrameText(testFrame()), "\n"), "\n")
	require.Len(t, lines, video.FramebufferHeight)

	for _, line := range lines {
		assert.Equal(t, video.FramebufferWidth, len([]rune(line)))
	}
	assert.Equal(t, TextPixelOn, []rune(lines[0])[0])
	assert.Equal(t, TextPixelOff, []rune(lines[0])[1])
	assert.Equal(t, TextPixelOn, []rune(lines[20])[10])
	assert.Equal(t, TextPixelOn, []rune(lines[31])[63])
}

func TestSaveFrameText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.txt")
	state := &MachineState{Frames: 12, Instructions: 120}
	require.NoError(t, SaveFrameText(testFrame(), state, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# CHIP-8 Frame Snapshot\n# Frame: 12, Instructions: 120\n"))
	assert.Contains(t, text, "# Resolution: 64x32 pixels\n")
	assert.True(t, strings.HasSuffix(text, FrameText(testFrame())))
}

func TestMachineState_Lines(t *testing.T) {
	state := &MachineState{PC: 0x2A4, I: 0x050, SP: 2, State: StatePaused}
	state.V[0xF] = 0x01
	state.V[0x5] = 0xAB

	lines := state.Lines()

	assert.Equal(t, "Status: PAUSED", lines[0])
	assert.Equal(t, "PC: 0x2A4  I: 0x050", lines[1])
	assert.Contains(t, lines, "V4:00 V5:AB V6:00 V7:00")
	assert.Contains(t, lines, "VC:00 VD:00 VE:00 VF:01")
	assert.NotContains(t, strings.Join(lines, "\n"), "Unknown ops")

	state.UnknownOpcodes = 3
	assert.Equal(t, "Unknown ops: 3", state.Lines()[len(state.Lines())-1])
}
