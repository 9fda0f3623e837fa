package memory

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/bit"
)

const (
	// Size is the total addressable memory of the machine, 4KB.
	Size = 0x1000
	// ProgramStart is where program images are loaded and execution begins.
	// Everything below it is reserved for the interpreter and the font.
	ProgramStart uint16 = 0x200
	// MaxProgramSize is the largest image that fits between ProgramStart and the end of memory.
	MaxProgramSize = Size - int(ProgramStart)
)

// ErrProgramTooLarge is returned when a program image does not fit in program memory.
var ErrProgramTooLarge = errors.New("program too large")

// Memory is the flat 4KB address space of the machine.
// Every access is masked to 12 bits, so any address computed by an opcode stays in bounds.
type Memory struct {
	data [Size]byte
}

// New creates zeroed memory with the built-in font installed at FontStart.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes memory and reinstalls the font.
func (m *Memory) Reset() {
	m.data = [Size]byte{}
	copy(m.data[FontStart:], fontSet[:])
}

func (m *Memory) Read(address uint16) byte {
	return m.data[bit.Address(address)]
}

func (m *Memory) Write(address uint16, value byte) {
	m.data[bit.Address(address)] = value
}

// ReadWord returns the big endian 16 bit value at address and address+1.
func (m *Memory) ReadWord(address uint16) uint16 {
	return bit.Combine(m.Read(address), m.Read(address+1))
}

// LoadProgram copies a program image to ProgramStart.
// Images larger than MaxProgramSize are rejected before anything is written.
func (m *Memory) LoadProgram(data []byte) error {
	if len(data) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit in program memory", ErrProgramTooLarge, len(data), MaxProgramSize)
	}

	copy(m.data[ProgramStart:], data)
	slog.Debug("Program loaded", "bytes", len(data), "start", fmt.Sprintf("0x%03X", ProgramStart))

	return nil
}

// Slice returns a read-only view of the whole address space.
// Callers must not modify the returned slice.
func (m *Memory) Slice() []byte {
	return m.data[:]
}
