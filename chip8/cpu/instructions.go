package cpu

import "github.com/valerio/go-chip8/chip8/bit"

// Instruction identifies a decoded operation, independently of its operands.
type Instruction uint8

const (
	InvalidInstruction Instruction = iota

	ClearScreen           // 00E0
	Return                // 00EE
	Jump                  // 1NNN
	Call                  // 2NNN
	SkipEqualImmediate    // 3XNN
	SkipNotEqualImmediate // 4XNN
	SkipEqualRegister     // 5XY0
	LoadImmediate         // 6XNN
	AddImmediate          // 7XNN
	LoadRegister          // 8XY0
	Or                    // 8XY1
	And                   // 8XY2
	Xor                   // 8XY3
	AddRegister           // 8XY4
	SubRegister           // 8XY5
	ShiftRight            // 8XY6
	SubReverse            // 8XY7
	ShiftLeft             // 8XYE
	SkipNotEqualRegister  // 9XY0
	LoadIndex             // ANNN
	JumpOffset            // BNNN
	Random                // CXNN
	Draw                  // DXYN
	SkipKeyPressed        // EX9E
	SkipKeyNotPressed     // EXA1
	LoadDelay             // FX07
	WaitKey               // FX0A
	SetDelay              // FX15
	SetSound              // FX18
	AddIndex              // FX1E
	LoadGlyph             // FX29
	StoreBCD              // FX33
	StoreRegisters        // FX55
	LoadRegisters         // FX65

	instructionCount
)

var instructionNames = [instructionCount]string{
	InvalidInstruction:    "???",
	ClearScreen:           "CLS",
	Return:                "RET",
	Jump:                  "JP addr",
	Call:                  "CALL addr",
	SkipEqualImmediate:    "SE Vx,byte",
	SkipNotEqualImmediate: "SNE Vx,byte",
	SkipEqualRegister:     "SE Vx,Vy",
	LoadImmediate:         "LD Vx,byte",
	AddImmediate:          "ADD Vx,byte",
	LoadRegister:          "LD Vx,Vy",
	Or:                    "OR Vx,Vy",
	And:                   "AND Vx,Vy",
	Xor:                   "XOR Vx,Vy",
	AddRegister:           "ADD Vx,Vy",
	SubRegister:           "SUB Vx,Vy",
	ShiftRight:            "SHR Vx",
	SubReverse:            "SUBN Vx,Vy",
	ShiftLeft:             "SHL Vx",
	SkipNotEqualRegister:  "SNE Vx,Vy",
	LoadIndex:             "LD I,addr",
	JumpOffset:            "JP V0,addr",
	Random:                "RND Vx,byte",
	Draw:                  "DRW Vx,Vy,n",
	SkipKeyPressed:        "SKP Vx",
	SkipKeyNotPressed:     "SKNP Vx",
	LoadDelay:             "LD Vx,DT",
	WaitKey:               "LD Vx,K",
	SetDelay:              "LD DT,Vx",
	SetSound:              "LD ST,Vx",
	AddIndex:              "ADD I,Vx",
	LoadGlyph:             "LD F,Vx",
	StoreBCD:              "LD B,Vx",
	StoreRegisters:        "LD [I],Vx",
	LoadRegisters:         "LD Vx,[I]",
}

func (i Instruction) String() string {
	if i >= instructionCount {
		return instructionNames[InvalidInstruction]
	}
	return instructionNames[i]
}

// opcode is a raw 16 bit instruction word, with accessors for its operand fields.
type opcode uint16

// x returns the register index in bits 8-11.
func (op opcode) x() uint8 { return bit.Nibble(uint16(op), 2) }

// y returns the register index in bits 4-7.
func (op opcode) y() uint8 { return bit.Nibble(uint16(op), 1) }

// n returns the 4 bit immediate in bits 0-3.
func (op opcode) n() uint8 { return bit.Nibble(uint16(op), 0) }

// nn returns the 8 bit immediate in bits 0-7.
func (op opcode) nn() uint8 { return bit.Low(uint16(op)) }

// nnn returns the 12 bit address in bits 0-11.
func (op opcode) nnn() uint16 { return bit.Address(uint16(op)) }
