package backend

import (
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, log panels)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the provided frame and returns the input events collected
	// since the previous call. Keypad actions come with Press, Hold and Release
	// events, emulator actions usually only with Press.
	// A nil frame means the display has not changed since the last one passed in:
	// the backend keeps showing it and only polls input.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// ActionHandler is implemented by backends that react to emulator actions themselves,
// for example by saving a snapshot of the frame they last rendered.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// InputEvent is a single translated input, as returned from Backend.Update.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title       string
	Scale       int
	ShowLogs    bool             // Backends may ignore unsupported features
	TestPattern bool             // Frames come from the test pattern generator
	Callbacks   BackendCallbacks // Callbacks for backend communication

	// DebugProvider supplies register state for backends that show it. Optional.
	DebugProvider DebugProvider
}

// DebugProvider is implemented by emulators that expose their machine state.
type DebugProvider interface {
	ExtractDebugData() *debug.MachineState
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	// OnQuit is called when the backend requests shutdown (e.g., window close)
	OnQuit func()
}
