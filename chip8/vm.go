package chip8

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// DefaultCyclesPerFrame is the number of instructions executed per 60 Hz frame,
// about 600 instructions per second.
const DefaultCyclesPerFrame = 10

// ErrInvalidConfig is returned when a Config cannot be used to run a program.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the emulation settings.
type Config struct {
	// CyclesPerFrame is how many instructions RunUntilFrame executes. 0 means DefaultCyclesPerFrame.
	CyclesPerFrame int
	// RandSource seeds the random instruction. nil means a randomly seeded source.
	RandSource rand.Source
}

// DefaultConfig returns the settings used when nothing is overridden.
func DefaultConfig() Config {
	return Config{CyclesPerFrame: DefaultCyclesPerFrame}
}

func (c Config) withDefaults() (Config, error) {
	if c.CyclesPerFrame < 0 {
		return c, fmt.Errorf("%w: cycles per frame must not be negative, got %d", ErrInvalidConfig, c.CyclesPerFrame)
	}
	if c.CyclesPerFrame == 0 {
		c.CyclesPerFrame = DefaultCyclesPerFrame
	}
	return c, nil
}

// VM drives a Machine frame by frame for a host: it paces execution, forwards
// keypad input, fans out beeps and handles pause and reset.
type VM struct {
	machine *cpu.Machine
	program []byte
	config  Config
	limiter timing.Limiter

	beepers []audio.Beeper
	paused  bool
	frames  uint64
}

// New creates a VM with an empty program memory.
func New(cfg Config) (*VM, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}

	vm := &VM{
		machine: cpu.New(),
		config:  cfg,
		limiter: timing.NewNoOpLimiter(),
	}
	if cfg.RandSource != nil {
		vm.machine.SetRandSource(cfg.RandSource)
	}
	vm.machine.SetBeepHandler(vm.beep)

	return vm, nil
}

// NewWithProgram creates a VM and loads a program image into it.
func NewWithProgram(program []byte, cfg Config) (*VM, error) {
	vm, err := New(cfg)
	if err != nil {
		return nil, err
	}

	if err := vm.LoadProgram(program); err != nil {
		return nil, err
	}

	return vm, nil
}

// NewWithFile creates a new VM and loads the file specified into it.
func NewWithFile(path string, cfg Config) (*VM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	slog.Info("Loaded ROM", "path", path, "bytes", len(data))

	vm, err := NewWithProgram(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return vm, nil
}

// LoadProgram resets the machine and loads a new program image. On error the VM is unchanged.
func (v *VM) LoadProgram(program []byte) error {
	if err := v.machine.LoadProgram(program); err != nil {
		return err
	}

	v.program = append([]byte(nil), program...)
	v.Reset()
	return nil
}

// Reset restarts the loaded program from a power-on state. Pause state is kept.
func (v *VM) Reset() {
	v.machine.Reset()
	if len(v.program) > 0 {
		// already validated by LoadProgram
		_ = v.machine.LoadProgram(v.program)
	}
	v.frames = 0
	v.limiter.Reset()

	slog.Info("Machine reset", "program_bytes", len(v.program))
}

// RunUntilFrame waits for the frame limiter, then executes one frame worth of
// instructions. Nothing is executed while paused, the current frame stays on screen.
func (v *VM) RunUntilFrame() error {
	v.limiter.WaitForNextFrame()

	if v.paused {
		return nil
	}

	for i := 0; i < v.config.CyclesPerFrame; i++ {
		v.machine.Step()
	}
	v.frames++

	for _, b := range v.beepers {
		if f, ok := b.(audio.FrameEnder); ok {
			f.EndFrame()
		}
	}

	return nil
}

// GetCurrentFrame returns the display. It is updated in place by the next frame.
func (v *VM) GetCurrentFrame() *video.FrameBuffer {
	return v.machine.Framebuffer()
}

// HandleAction applies keypad input and the emulator actions the VM owns
// (pause and reset). Other actions are ignored.
func (v *VM) HandleAction(act action.Action, pressed bool) {
	if index, ok := action.KeyIndex(act); ok {
		v.machine.SetKey(index, pressed)
		return
	}

	if !pressed {
		return
	}

	switch act {
	case action.EmulatorPauseToggle:
		v.TogglePause()
	case action.EmulatorReset:
		v.Reset()
	}
}

// SetKey implements input.KeypadWriter.
func (v *VM) SetKey(index uint8, down bool) {
	v.machine.SetKey(index, down)
}

// TogglePause pauses or resumes execution.
func (v *VM) TogglePause() {
	v.paused = !v.paused
	if !v.paused {
		v.limiter.Reset()
	}
	slog.Info("Pause toggled", "paused", v.paused)
}

// IsPaused reports whether execution is paused.
func (v *VM) IsPaused() bool {
	return v.paused
}

// AddBeeper registers a sink for the buzzer. Sinks that also implement
// audio.FrameEnder are told when each frame ends.
func (v *VM) AddBeeper(b audio.Beeper) {
	v.beepers = append(v.beepers, b)
}

func (v *VM) beep() {
	slog.Debug("Beep", "frame", v.frames)
	for _, b := range v.beepers {
		b.Beep()
	}
}

// SetFrameLimiter sets the pacing of RunUntilFrame, nil disables it.
func (v *VM) SetFrameLimiter(limiter timing.Limiter) {
	if limiter == nil {
		v.limiter = timing.NewNoOpLimiter()
	} else {
		v.limiter = limiter
	}
}

// RedrawRequested reports whether the display changed since the last ClearRedrawFlag.
func (v *VM) RedrawRequested() bool {
	return v.machine.RedrawRequested()
}

// ClearRedrawFlag acknowledges the current frame.
func (v *VM) ClearRedrawFlag() {
	v.machine.ClearRedrawFlag()
}

// GetFrameCount returns the number of frames executed since the last reset.
func (v *VM) GetFrameCount() uint64 {
	return v.frames
}

// GetInstructionCount returns the number of instructions executed since the last reset.
func (v *VM) GetInstructionCount() uint64 {
	return v.machine.InstructionCount()
}

// Machine gives access to the interpreter, for tests and tooling.
func (v *VM) Machine() *cpu.Machine {
	return v.machine
}

// ExtractDebugData copies the machine registers.
func (v *VM) ExtractDebugData() *debug.MachineState {
	m := v.machine
	if m == nil {
		return nil
	}

	state := &debug.MachineState{
		I:              m.I(),
		PC:             m.PC(),
		SP:             m.SP(),
		DelayTimer:     m.DelayTimer(),
		SoundTimer:     m.SoundTimer(),
		Opcode:         m.CurrentOpcode(),
		Instructions:   m.InstructionCount(),
		UnknownOpcodes: m.UnknownOpcodes(),
		Frames:         v.frames,
	}
	for i := range state.V {
		state.V[i] = m.V(uint8(i))
	}
	if v.paused {
		state.State = debug.StatePaused
	}

	return state
}
