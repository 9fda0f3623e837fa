package cpu

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	// RegisterCount is the number of general purpose V registers.
	RegisterCount = 16
	// StackSize is the number of return addresses the call stack holds.
	StackSize = 16
	// flagRegister is VF, written by arithmetic, shift and draw instructions.
	flagRegister = 0xF
)

// Machine holds the whole interpreter state: CPU registers, memory, display,
// keypad and timers. All instructions operate on it directly.
type Machine struct {
	// registers
	v  [RegisterCount]uint8
	i  uint16
	pc uint16

	stack [StackSize]uint16
	sp    uint8

	mem    *memory.Memory
	fb     *video.FrameBuffer
	keypad *memory.Keypad
	timers memory.Timers

	// drawFlag is set whenever the frame buffer changes, the host clears it after painting.
	drawFlag bool

	// metadata
	currentOpcode  uint16
	instructions   uint64
	unknownOpcodes uint64

	rng *rand.Rand
}

// New returns a Machine in its power-on state: memory zeroed except for the font,
// PC at the program start and a pending redraw so the host paints a blank screen.
func New() *Machine {
	m := &Machine{
		mem:    memory.New(),
		fb:     video.NewFrameBuffer(),
		keypad: memory.NewKeypad(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	m.Reset()

	return m
}

// Reset returns the machine to its power-on state. Program memory is cleared as well,
// the beep handler and random source are kept.
func (m *Machine) Reset() {
	m.v = [RegisterCount]uint8{}
	m.i = 0
	m.pc = memory.ProgramStart
	m.stack = [StackSize]uint16{}
	m.sp = 0
	m.mem.Reset()
	m.fb.Clear()
	m.keypad.Reset()
	m.timers.Reset()
	m.drawFlag = true
	m.currentOpcode = 0
	m.instructions = 0
	m.unknownOpcodes = 0
}

// LoadProgram copies a program image into memory at the program start address.
// Returns an error wrapping memory.ErrProgramTooLarge if the image does not fit,
// in which case the machine is left untouched.
func (m *Machine) LoadProgram(data []byte) error {
	return m.mem.LoadProgram(data)
}

// Step executes a single instruction, then ticks the delay and sound timers once.
func (m *Machine) Step() {
	op := opcode(m.mem.ReadWord(m.pc))
	m.currentOpcode = uint16(op)

	instruction := Decode(uint16(op))
	handlers[instruction](m, op)
	m.instructions++

	m.timers.Tick()
}

// SetBeepHandler registers the callback invoked when the sound timer runs out.
func (m *Machine) SetBeepHandler(handler func()) {
	m.timers.BeepHandler = handler
}

// SetRandSource replaces the generator used by the random instruction.
func (m *Machine) SetRandSource(src rand.Source) {
	m.rng = rand.New(src)
}

// SetKey updates the state of one of the 16 hex keys.
func (m *Machine) SetKey(index uint8, down bool) {
	m.keypad.Set(memory.Key(index), down)
}

// Framebuffer returns the display. Callers must treat it as read-only.
func (m *Machine) Framebuffer() *video.FrameBuffer {
	return m.fb
}

// RedrawRequested reports whether the display changed since the last ClearRedrawFlag.
func (m *Machine) RedrawRequested() bool {
	return m.drawFlag
}

// ClearRedrawFlag acknowledges a redraw, called by the host after painting.
func (m *Machine) ClearRedrawFlag() {
	m.drawFlag = false
}

// advance moves the PC to the next instruction, wrapping at the end of memory.
func (m *Machine) advance() {
	m.pc = bit.Address(m.pc + 2)
}

// skipIf skips the next instruction when the condition holds, otherwise it just advances.
func (m *Machine) skipIf(condition bool) {
	if condition {
		m.pc = bit.Address(m.pc + 4)
		return
	}
	m.advance()
}

// setFlag writes 1 or 0 to VF.
func (m *Machine) setFlag(condition bool) {
	if condition {
		m.v[flagRegister] = 1
		return
	}
	m.v[flagRegister] = 0
}

// push stores a return address. Pushing onto a full stack wraps around
// and overwrites the oldest entry.
func (m *Machine) push(address uint16) {
	if m.sp >= StackSize {
		slog.Warn("Stack overflow, wrapping around", "pc", fmt.Sprintf("0x%03X", m.pc), "depth", m.sp)
		m.sp = 0
	}

	m.stack[m.sp] = address
	m.sp++
}

// pop returns the most recent return address. Popping an empty stack wraps around
// and returns the top entry.
func (m *Machine) pop() uint16 {
	if m.sp == 0 {
		slog.Warn("Stack underflow, wrapping around", "pc", fmt.Sprintf("0x%03X", m.pc))
		m.sp = StackSize
	}

	m.sp--
	return m.stack[m.sp]
}

// PC returns the address of the next instruction.
func (m *Machine) PC() uint16 { return m.pc }

// I returns the index register.
func (m *Machine) I() uint16 { return m.i }

// V returns register V0-VF, the index is masked to 4 bits.
func (m *Machine) V(index uint8) uint8 { return m.v[index&0x0F] }

// SP returns the number of return addresses on the stack.
func (m *Machine) SP() uint8 { return m.sp }

// DelayTimer returns the delay timer value.
func (m *Machine) DelayTimer() uint8 { return m.timers.Delay }

// SoundTimer returns the sound timer value, the buzzer sounds while it is non-zero.
func (m *Machine) SoundTimer() uint8 { return m.timers.Sound }

// CurrentOpcode returns the word executed by the last Step.
func (m *Machine) CurrentOpcode() uint16 { return m.currentOpcode }

// InstructionCount returns the number of Steps since the last reset.
func (m *Machine) InstructionCount() uint64 { return m.instructions }

// UnknownOpcodes returns how many words could not be decoded since the last reset.
func (m *Machine) UnknownOpcodes() uint64 { return m.unknownOpcodes }

// ReadMemory returns a copy of n bytes starting at address. Addresses wrap at
// the end of memory.
func (m *Machine) ReadMemory(address uint16, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.mem.Read(address + uint16(i))
	}
	return out
}
