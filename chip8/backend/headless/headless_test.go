package headless_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

type fixedState struct{}

func (fixedState) ExtractDebugData() *debug.MachineState {
	return &debug.MachineState{Frames: 42, Instructions: 420}
}

func TestHeadlessBackend(t *testing.T) {
	t.Run("normal operation", func(t *testing.T) {
		h := headless.New(3, headless.SnapshotConfig{})
		require.NoError(t, h.Init(backend.BackendConfig{Title: "Test"}))

		frame := video.NewFrameBuffer()

		for i := 0; i < 3; i++ {
			events, err := h.Update(frame)
			require.NoError(t, err)

			if i < 2 {
				assert.Empty(t, events)
			} else {
				require.Len(t, events, 1)
				assert.Equal(t, action.EmulatorQuit, events[0].Action)
				assert.Equal(t, event.Press, events[0].Type)
			}
		}

		assert.Equal(t, 3, h.Frames())
		assert.NoError(t, h.Cleanup())
	})

	t.Run("test pattern mode", func(t *testing.T) {
		h := headless.New(100, headless.SnapshotConfig{})
		require.NoError(t, h.Init(backend.BackendConfig{Title: "Test", TestPattern: true}))

		events, err := h.Update(video.NewFrameBuffer())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, action.EmulatorQuit, events[0].Action)
		assert.NoError(t, h.Cleanup())
	})

	t.Run("invalid snapshot interval", func(t *testing.T) {
		h := headless.New(1, headless.SnapshotConfig{Enabled: true})
		assert.Error(t, h.Init(backend.BackendConfig{}))
	})
}

func TestHeadlessBackend_Beeps(t *testing.T) {
	h := headless.New(1, headless.SnapshotConfig{})
	require.NoError(t, h.Init(backend.BackendConfig{}))

	h.Beep()
	h.Beep()

	assert.Equal(t, 2, h.Beeps())
}

func TestHeadlessBackend_Snapshots(t *testing.T) {
	dir := t.TempDir()
	h := headless.New(5, headless.SnapshotConfig{
		Enabled:   true,
		Interval:  2,
		Directory: dir,
		ROMName:   "maze",
		Text:      true,
	})
	require.NoError(t, h.Init(backend.BackendConfig{DebugProvider: fixedState{}}))

	frame := video.NewFrameBuffer()
	frame.SetPixel(1, 1, true)
	for i := 0; i < 5; i++ {
		_, err := h.Update(frame)
		require.NoError(t, err)
	}

	// frames 2 and 4 on schedule, frame 5 as the final one
	pngs, err := filepath.Glob(filepath.Join(dir, "maze_frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, pngs, 3)

	texts, err := filepath.Glob(filepath.Join(dir, "maze_frame_*.txt"))
	require.NoError(t, err)
	require.Len(t, texts, 3)

	data, err := os.ReadFile(filepath.Join(dir, "maze_frame_5.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Frame: 42, Instructions: 420")
	assert.True(t, strings.HasSuffix(string(data), debug.FrameText(frame)))
}

func TestHeadlessBackend_UnchangedFrames(t *testing.T) {
	dir := t.TempDir()
	h := headless.New(4, headless.SnapshotConfig{Enabled: true, Interval: 2, Directory: dir, ROMName: "spin"})
	require.NoError(t, h.Init(backend.BackendConfig{}))

	frame := video.NewFrameBuffer()
	frame.SetPixel(3, 3, true)

	// only the first frame carries a display, the rest are input polls
	frames := []*video.FrameBuffer{frame, nil, nil, nil}
	var events []backend.InputEvent
	for _, f := range frames {
		var err error
		events, err = h.Update(f)
		require.NoError(t, err)
	}

	require.Len(t, events, 1)
	assert.Equal(t, action.EmulatorQuit, events[0].Action)
	assert.Equal(t, 4, h.Frames())
	assert.Equal(t, 1, h.Paints())

	// frames 2 and 4 still capture the last painted display
	pngs, err := filepath.Glob(filepath.Join(dir, "spin_frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, pngs, 2)
}

func TestHeadlessBackend_NothingPaintedYet(t *testing.T) {
	dir := t.TempDir()
	h := headless.New(1, headless.SnapshotConfig{Enabled: true, Interval: 1, Directory: dir, ROMName: "blank"})
	require.NoError(t, h.Init(backend.BackendConfig{}))

	_, err := h.Update(nil)
	require.NoError(t, err)

	pngs, err := filepath.Glob(filepath.Join(dir, "*.png"))
	require.NoError(t, err)
	assert.Empty(t, pngs)
}

func TestCreateSnapshotConfig(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		cfg, err := headless.CreateSnapshotConfig(0, "", "roms/pong.ch8")
		require.NoError(t, err)
		assert.False(t, cfg.Enabled)
		assert.Empty(t, cfg.Directory)
	})

	t.Run("explicit directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "shots")
		cfg, err := headless.CreateSnapshotConfig(10, dir, "roms/pong.ch8")
		require.NoError(t, err)

		assert.True(t, cfg.Enabled)
		assert.Equal(t, 10, cfg.Interval)
		assert.Equal(t, dir, cfg.Directory)
		assert.Equal(t, "pong", cfg.ROMName)
		assert.DirExists(t, dir)
	})

	t.Run("temporary directory", func(t *testing.T) {
		cfg, err := headless.CreateSnapshotConfig(1, "", "ibm.ch8")
		require.NoError(t, err)
		t.Cleanup(func() { os.RemoveAll(cfg.Directory) })

		assert.DirExists(t, cfg.Directory)
		assert.Equal(t, "ibm", cfg.ROMName)
	})
}

func TestHeadlessImplementsBackend(t *testing.T) {
	var _ backend.Backend = (*headless.Backend)(nil)
}
