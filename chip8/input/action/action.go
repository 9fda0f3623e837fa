package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Hex keypad, the value of each action is the key index
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorPauseToggle
	EmulatorReset
	EmulatorSnapshot
	EmulatorTestPatternCycle
	EmulatorQuit

	// Debug features
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by the component that reacts to them.
type Category int

const (
	CategoryKeypad Category = iota
	CategoryEmulator
	CategoryDebug
)

// Info describes an action for logs and help text.
type Info struct {
	Description string
	Category    Category
}

var emulatorInfo = map[Action]Info{
	EmulatorPauseToggle:      {"Pause/Resume", CategoryEmulator},
	EmulatorReset:            {"Reset", CategoryEmulator},
	EmulatorSnapshot:         {"Snapshot", CategoryEmulator},
	EmulatorTestPatternCycle: {"Cycle Test Pattern", CategoryEmulator},
	EmulatorQuit:             {"Quit", CategoryEmulator},
	DebugLogLevelIncrease:    {"Log Level Up", CategoryDebug},
	DebugLogLevelDecrease:    {"Log Level Down", CategoryDebug},
}

// GetInfo returns the description and category of an action.
func GetInfo(act Action) Info {
	if index, ok := KeyIndex(act); ok {
		return Info{Description: fmt.Sprintf("Key %X", index), Category: CategoryKeypad}
	}
	if info, ok := emulatorInfo[act]; ok {
		return info
	}
	return Info{Description: fmt.Sprintf("Unknown(%d)", int(act)), Category: CategoryEmulator}
}

// KeyIndex returns the hex keypad index of a keypad action.
func KeyIndex(act Action) (uint8, bool) {
	if act < Key0 || act > KeyF {
		return 0, false
	}
	return uint8(act - Key0), true
}

// ForKey returns the keypad action for a hex key index, masked to 4 bits.
func ForKey(index uint8) Action {
	return Key0 + Action(index&0x0F)
}

func (a Action) String() string {
	return GetInfo(a).Description
}
