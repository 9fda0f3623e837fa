package render

// Half block characters used to pack two pixel rows into one terminal cell.
const (
	BlockEmpty = ' '
	BlockUpper = '▀'
	BlockLower = '▄'
	BlockFull  = '█'
)

// HalfBlock returns the character drawing a top and bottom pixel pair
// in the foreground color over the background.
func HalfBlock(top, bottom bool) rune {
	switch {
	case top && bottom:
		return BlockFull
	case top:
		return BlockUpper
	case bottom:
		return BlockLower
	default:
		return BlockEmpty
	}
}

// Truncate shortens s to at most width runes, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	runes := []rune(s)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
