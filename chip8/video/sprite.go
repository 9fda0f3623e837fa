package video

import "github.com/valerio/go-chip8/chip8/bit"

// SpriteWidth is the fixed width of every sprite row, one bit per pixel.
const SpriteWidth = 8

// DrawSprite XORs a sprite onto the frame buffer with its top-left corner at (x, y).
// Each byte of rows is one sprite row, most significant bit leftmost.
// Pixels past the right or bottom edge wrap around to the opposite side.
// Returns true if any lit pixel was turned off.
func (fb *FrameBuffer) DrawSprite(x, y uint8, rows []byte) (collision bool) {
	for row, line := range rows {
		for col := 0; col < SpriteWidth; col++ {
			if !bit.IsSet(uint8(SpriteWidth-1-col), line) {
				continue
			}

			if fb.Flip(uint(x)+uint(col), uint(y)+uint(row)) {
				collision = true
			}
		}
	}

	return collision
}
