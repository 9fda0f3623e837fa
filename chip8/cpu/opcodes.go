package cpu

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8/bit"
	"github.com/valerio/go-chip8/chip8/memory"
)

// handler executes a decoded instruction against the machine, including its PC update.
type handler func(m *Machine, op opcode)

var handlers = [instructionCount]handler{
	InvalidInstruction:    unknown,
	ClearScreen:           opcode00E0,
	Return:                opcode00EE,
	Jump:                  opcode1NNN,
	Call:                  opcode2NNN,
	SkipEqualImmediate:    opcode3XNN,
	SkipNotEqualImmediate: opcode4XNN,
	SkipEqualRegister:     opcode5XY0,
	LoadImmediate:         opcode6XNN,
	AddImmediate:          opcode7XNN,
	LoadRegister:          opcode8XY0,
	Or:                    opcode8XY1,
	And:                   opcode8XY2,
	Xor:                   opcode8XY3,
	AddRegister:           opcode8XY4,
	SubRegister:           opcode8XY5,
	ShiftRight:            opcode8XY6,
	SubReverse:            opcode8XY7,
	ShiftLeft:             opcode8XYE,
	SkipNotEqualRegister:  opcode9XY0,
	LoadIndex:             opcodeANNN,
	JumpOffset:            opcodeBNNN,
	Random:                opcodeCXNN,
	Draw:                  opcodeDXYN,
	SkipKeyPressed:        opcodeEX9E,
	SkipKeyNotPressed:     opcodeEXA1,
	LoadDelay:             opcodeFX07,
	WaitKey:               opcodeFX0A,
	SetDelay:              opcodeFX15,
	SetSound:              opcodeFX18,
	AddIndex:              opcodeFX1E,
	LoadGlyph:             opcodeFX29,
	StoreBCD:              opcodeFX33,
	StoreRegisters:        opcodeFX55,
	LoadRegisters:         opcodeFX65,
}

// UnknownOpcodeError describes an instruction word that does not decode to any instruction.
type UnknownOpcodeError struct {
	Opcode uint16
	PC     uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("unknown opcode 0x%04X at 0x%03X", e.Opcode, e.PC)
}

// unknown reports the opcode and moves on, so a bad word never stalls execution.
func unknown(m *Machine, op opcode) {
	m.unknownOpcodes++
	slog.Warn("Unknown opcode", "error", &UnknownOpcodeError{Opcode: uint16(op), PC: m.pc})
	m.advance()
}

// CLS
// 00E0
func opcode00E0(m *Machine, _ opcode) {
	m.fb.Clear()
	m.drawFlag = true
	m.advance()
}

// RET
// 00EE
func opcode00EE(m *Machine, _ opcode) {
	m.pc = m.pop()
	m.advance()
}

// JP addr
// 1NNN
func opcode1NNN(m *Machine, op opcode) {
	m.pc = op.nnn()
}

// CALL addr
// 2NNN
func opcode2NNN(m *Machine, op opcode) {
	m.push(m.pc)
	m.pc = op.nnn()
}

// SE Vx, byte
// 3XNN
func opcode3XNN(m *Machine, op opcode) {
	m.skipIf(m.v[op.x()] == op.nn())
}

// SNE Vx, byte
// 4XNN
func opcode4XNN(m *Machine, op opcode) {
	m.skipIf(m.v[op.x()] != op.nn())
}

// SE Vx, Vy
// 5XY0
func opcode5XY0(m *Machine, op opcode) {
	m.skipIf(m.v[op.x()] == m.v[op.y()])
}

// LD Vx, byte
// 6XNN
func opcode6XNN(m *Machine, op opcode) {
	m.v[op.x()] = op.nn()
	m.advance()
}

// ADD Vx, byte
// 7XNN
// Wraps around without touching VF.
func opcode7XNN(m *Machine, op opcode) {
	m.v[op.x()] += op.nn()
	m.advance()
}

// LD Vx, Vy
// 8XY0
func opcode8XY0(m *Machine, op opcode) {
	m.v[op.x()] = m.v[op.y()]
	m.advance()
}

// OR Vx, Vy
// 8XY1
func opcode8XY1(m *Machine, op opcode) {
	m.v[op.x()] |= m.v[op.y()]
	m.advance()
}

// AND Vx, Vy
// 8XY2
func opcode8XY2(m *Machine, op opcode) {
	m.v[op.x()] &= m.v[op.y()]
	m.advance()
}

// XOR Vx, Vy
// 8XY3
func opcode8XY3(m *Machine, op opcode) {
	m.v[op.x()] ^= m.v[op.y()]
	m.advance()
}

// ADD Vx, Vy
// 8XY4
// VF = carry. The flag is written after the result so it survives when X is F.
func opcode8XY4(m *Machine, op opcode) {
	result, carry := bit.CheckedAdd(m.v[op.x()], m.v[op.y()])
	m.v[op.x()] = result
	m.setFlag(carry)
	m.advance()
}

// SUB Vx, Vy
// 8XY5
// VF = NOT borrow.
func opcode8XY5(m *Machine, op opcode) {
	result, borrow := bit.CheckedSub(m.v[op.x()], m.v[op.y()])
	m.v[op.x()] = result
	m.setFlag(!borrow)
	m.advance()
}

// SHR Vx
// 8XY6
// VF = least significant bit of Vx before the shift.
func opcode8XY6(m *Machine, op opcode) {
	vx := m.v[op.x()]
	m.v[op.x()] = vx >> 1
	m.v[flagRegister] = bit.GetBitValue(0, vx)
	m.advance()
}

// SUBN Vx, Vy
// 8XY7
// Vx = Vy - Vx, VF = NOT borrow.
func opcode8XY7(m *Machine, op opcode) {
	result, borrow := bit.CheckedSub(m.v[op.y()], m.v[op.x()])
	m.v[op.x()] = result
	m.setFlag(!borrow)
	m.advance()
}

// SHL Vx
// 8XYE
// VF = most significant bit of Vx before the shift.
func opcode8XYE(m *Machine, op opcode) {
	vx := m.v[op.x()]
	m.v[op.x()] = vx << 1
	m.v[flagRegister] = bit.GetBitValue(7, vx)
	m.advance()
}

// SNE Vx, Vy
// 9XY0
func opcode9XY0(m *Machine, op opcode) {
	m.skipIf(m.v[op.x()] != m.v[op.y()])
}

// LD I, addr
// ANNN
func opcodeANNN(m *Machine, op opcode) {
	m.i = op.nnn()
	m.advance()
}

// JP V0, addr
// BNNN
func opcodeBNNN(m *Machine, op opcode) {
	m.pc = bit.Address(op.nnn() + uint16(m.v[0]))
}

// RND Vx, byte
// CXNN
func opcodeCXNN(m *Machine, op opcode) {
	m.v[op.x()] = uint8(m.rng.Uint32()) & op.nn()
	m.advance()
}

// DRW Vx, Vy, nibble
// DXYN
// Sprite rows are read from memory at I, VF = collision.
func opcodeDXYN(m *Machine, op opcode) {
	var rows [15]byte
	height := op.n()
	for row := uint8(0); row < height; row++ {
		rows[row] = m.mem.Read(m.i + uint16(row))
	}

	collision := m.fb.DrawSprite(m.v[op.x()], m.v[op.y()], rows[:height])
	m.setFlag(collision)
	m.drawFlag = true
	m.advance()
}

// SKP Vx
// EX9E
func opcodeEX9E(m *Machine, op opcode) {
	m.skipIf(m.keypad.IsPressed(memory.Key(m.v[op.x()])))
}

// SKNP Vx
// EXA1
func opcodeEXA1(m *Machine, op opcode) {
	m.skipIf(!m.keypad.IsPressed(memory.Key(m.v[op.x()])))
}

// LD Vx, DT
// FX07
func opcodeFX07(m *Machine, op opcode) {
	m.v[op.x()] = m.timers.Delay
	m.advance()
}

// LD Vx, K
// FX0A
// Without a key down the PC stays put, so the instruction runs again on the next step.
func opcodeFX0A(m *Machine, op opcode) {
	key, ok := m.keypad.FirstPressed()
	if !ok {
		return
	}

	m.v[op.x()] = uint8(key)
	m.advance()
}

// LD DT, Vx
// FX15
func opcodeFX15(m *Machine, op opcode) {
	m.timers.Delay = m.v[op.x()]
	m.advance()
}

// LD ST, Vx
// FX18
func opcodeFX18(m *Machine, op opcode) {
	m.timers.Sound = m.v[op.x()]
	m.advance()
}

// ADD I, Vx
// FX1E
// VF = 1 when I leaves the 12 bit address range.
func opcodeFX1E(m *Machine, op opcode) {
	m.i += uint16(m.v[op.x()])
	m.setFlag(m.i > 0x0FFF)
	m.advance()
}

// LD F, Vx
// FX29
func opcodeFX29(m *Machine, op opcode) {
	m.i = memory.GlyphAddress(m.v[op.x()])
	m.advance()
}

// LD B, Vx
// FX33
func opcodeFX33(m *Machine, op opcode) {
	vx := m.v[op.x()]
	m.mem.Write(m.i, vx/100)
	m.mem.Write(m.i+1, (vx/10)%10)
	m.mem.Write(m.i+2, vx%10)
	m.advance()
}

// LD [I], Vx
// FX55
// I is left pointing past the last stored register.
func opcodeFX55(m *Machine, op opcode) {
	x := op.x()
	for r := uint8(0); r <= x; r++ {
		m.mem.Write(m.i+uint16(r), m.v[r])
	}
	m.i += uint16(x) + 1
	m.advance()
}

// LD Vx, [I]
// FX65
// I is left pointing past the last loaded byte.
func opcodeFX65(m *Machine, op opcode) {
	x := op.x()
	for r := uint8(0); r <= x; r++ {
		m.v[r] = m.mem.Read(m.i + uint16(r))
	}
	m.i += uint16(x) + 1
	m.advance()
}
