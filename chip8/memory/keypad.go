package memory

import "github.com/valerio/go-chip8/chip8/bit"

// Key identifies one of the 16 hexadecimal keys, 0x0 to 0xF.
type Key uint8

const (
	Key0 Key = iota
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
)

// KeyCount is the number of keys on the keypad.
const KeyCount = 16

// Keypad holds the pressed state of the hex keypad, one bit per key.
type Keypad struct {
	state uint16
}

// NewKeypad creates a keypad with every key released.
func NewKeypad() *Keypad {
	return &Keypad{}
}

// Press marks a key as down. Only the low 4 bits of the key are used.
func (k *Keypad) Press(key Key) {
	k.state = bit.Set16(uint8(key)&0x0F, k.state)
}

// Release marks a key as up.
func (k *Keypad) Release(key Key) {
	k.state = bit.Reset16(uint8(key)&0x0F, k.state)
}

// Set updates a key to the given state.
func (k *Keypad) Set(key Key, down bool) {
	if down {
		k.Press(key)
		return
	}

	k.Release(key)
}

func (k *Keypad) IsPressed(key Key) bool {
	return bit.IsSet16(uint8(key)&0x0F, k.state)
}

// FirstPressed returns the lowest numbered key that is down, if any.
func (k *Keypad) FirstPressed() (Key, bool) {
	if k.state == 0 {
		return 0, false
	}

	for i := uint8(0); i < KeyCount; i++ {
		if bit.IsSet16(i, k.state) {
			return Key(i), true
		}
	}

	return 0, false
}

// Reset releases every key.
func (k *Keypad) Reset() {
	k.state = 0
}
