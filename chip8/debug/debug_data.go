package debug

import "fmt"

// RunState is the run state shown alongside the registers.
type RunState int

const (
	StateRunning RunState = iota
	StatePaused
)

func (s RunState) String() string {
	if s == StatePaused {
		return "PAUSED"
	}
	return "RUNNING"
}

// MachineState is a copy of the interpreter registers taken between frames,
// used by status panels and text snapshots.
type MachineState struct {
	V  [16]uint8
	I  uint16
	PC uint16
	SP uint8

	DelayTimer uint8
	SoundTimer uint8

	Opcode         uint16
	Instructions   uint64
	UnknownOpcodes uint64
	Frames         uint64

	State RunState
}

// Lines formats the state as short lines that fit a side panel.
func (s *MachineState) Lines() []string {
	lines := []string{
		fmt.Sprintf("Status: %s", s.State),
		fmt.Sprintf("PC: 0x%03X  I: 0x%03X", s.PC, s.I),
		fmt.Sprintf("SP: %-2d  OP: %04X", s.SP, s.Opcode),
		fmt.Sprintf("DT: %-3d  ST: %-3d", s.DelayTimer, s.SoundTimer),
	}

	for row := 0; row < 4; row++ {
		r := row * 4
		lines = append(lines, fmt.Sprintf("V%X:%02X V%X:%02X V%X:%02X V%X:%02X",
			r, s.V[r], r+1, s.V[r+1], r+2, s.V[r+2], r+3, s.V[r+3]))
	}

	lines = append(lines,
		fmt.Sprintf("Frames: %d", s.Frames),
		fmt.Sprintf("Instrs: %d", s.Instructions),
	)
	if s.UnknownOpcodes > 0 {
		lines = append(lines, fmt.Sprintf("Unknown ops: %d", s.UnknownOpcodes))
	}

	return lines
}
