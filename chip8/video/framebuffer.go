package video

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

// Color is an RGBA color used by renderers to paint framebuffer cells.
type Color uint32

const (
	// PixelOnColor is used for cells set to 1.
	PixelOnColor Color = 0xFFFFFFFF
	// PixelOffColor is used for cells set to 0.
	PixelOffColor Color = 0x000000FF
)

// FrameBuffer is the monochrome 64x32 display, one byte per pixel holding 0 or 1.
type FrameBuffer struct {
	buffer [FramebufferSize]uint8
}

// NewFrameBuffer creates a cleared frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// GetPixel returns the cell at (x, y). Coordinates wrap around the screen edges.
func (fb *FrameBuffer) GetPixel(x, y uint) uint8 {
	return fb.buffer[index(x, y)]
}

// SetPixel sets the cell at (x, y) to on or off. Coordinates wrap around the screen edges.
func (fb *FrameBuffer) SetPixel(x, y uint, on bool) {
	var v uint8
	if on {
		v = 1
	}
	fb.buffer[index(x, y)] = v
}

// Flip XORs the cell at (x, y) with 1 and reports whether it was set before,
// i.e. whether the flip turned a lit pixel off.
func (fb *FrameBuffer) Flip(x, y uint) (collision bool) {
	i := index(x, y)
	collision = fb.buffer[i] == 1
	fb.buffer[i] ^= 1
	return collision
}

// Clear turns every pixel off.
func (fb *FrameBuffer) Clear() {
	fb.buffer = [FramebufferSize]uint8{}
}

// ToSlice returns the cells in row-major order.
// The slice aliases the frame buffer, callers must treat it as read-only.
func (fb *FrameBuffer) ToSlice() []uint8 {
	return fb.buffer[:]
}

// CopyFrom overwrites this frame buffer with the content of another one.
func (fb *FrameBuffer) CopyFrom(other *FrameBuffer) {
	fb.buffer = other.buffer
}

// Equal reports whether two frame buffers hold the same pixels.
func (fb *FrameBuffer) Equal(other *FrameBuffer) bool {
	return fb.buffer == other.buffer
}

// ColorAt returns the render color of the cell at (x, y).
func (fb *FrameBuffer) ColorAt(x, y uint) Color {
	if fb.GetPixel(x, y) != 0 {
		return PixelOnColor
	}
	return PixelOffColor
}

func index(x, y uint) uint {
	return (y%FramebufferHeight)*FramebufferWidth + x%FramebufferWidth
}
