package cpu

import "github.com/valerio/go-chip8/chip8/bit"

// Decoding is a two stage table lookup. The top nibble selects an entry in primaryTable;
// families sharing a top nibble resolve the final instruction through a secondary table
// keyed by the low nibble (0x8) or the low byte (0x0, 0xE, 0xF).
// Entries left at their zero value decode to InvalidInstruction.

type decoder func(op opcode) Instruction

var primaryTable = [16]decoder{
	0x0: system,
	0x1: fixed(Jump),
	0x2: fixed(Call),
	0x3: fixed(SkipEqualImmediate),
	0x4: fixed(SkipNotEqualImmediate),
	0x5: lowNibble(&registerSkipTable),
	0x6: fixed(LoadImmediate),
	0x7: fixed(AddImmediate),
	0x8: lowNibble(&aluTable),
	0x9: lowNibble(&registerNotSkipTable),
	0xA: fixed(LoadIndex),
	0xB: fixed(JumpOffset),
	0xC: fixed(Random),
	0xD: fixed(Draw),
	0xE: lowByte(&keyTable),
	0xF: lowByte(&miscTable),
}

var systemTable = [256]Instruction{
	0xE0: ClearScreen,
	0xEE: Return,
}

var registerSkipTable = [16]Instruction{
	0x0: SkipEqualRegister,
}

var registerNotSkipTable = [16]Instruction{
	0x0: SkipNotEqualRegister,
}

var aluTable = [16]Instruction{
	0x0: LoadRegister,
	0x1: Or,
	0x2: And,
	0x3: Xor,
	0x4: AddRegister,
	0x5: SubRegister,
	0x6: ShiftRight,
	0x7: SubReverse,
	0xE: ShiftLeft,
}

var keyTable = [256]Instruction{
	0x9E: SkipKeyPressed,
	0xA1: SkipKeyNotPressed,
}

var miscTable = [256]Instruction{
	0x07: LoadDelay,
	0x0A: WaitKey,
	0x15: SetDelay,
	0x18: SetSound,
	0x1E: AddIndex,
	0x29: LoadGlyph,
	0x33: StoreBCD,
	0x55: StoreRegisters,
	0x65: LoadRegisters,
}

// system only accepts 00E0 and 00EE, machine code calls (0NNN) are not supported.
func system(op opcode) Instruction {
	if op.x() != 0 {
		return InvalidInstruction
	}
	return systemTable[op.nn()]
}

func fixed(instruction Instruction) decoder {
	return func(opcode) Instruction { return instruction }
}

func lowNibble(table *[16]Instruction) decoder {
	return func(op opcode) Instruction { return table[op.n()] }
}

func lowByte(table *[256]Instruction) decoder {
	return func(op opcode) Instruction { return table[op.nn()] }
}

// Decode returns the instruction encoded by a 16 bit opcode word.
// Unrecognized words decode to InvalidInstruction.
func Decode(word uint16) Instruction {
	return primaryTable[bit.Nibble(word, 3)](opcode(word))
}
