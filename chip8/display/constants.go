package display

// RGBABytesPerPixel is the stride of one pixel in the SDL streaming texture.
const RGBABytesPerPixel = 4

// DefaultPixelScale is the window size multiplier for one CHIP-8 pixel.
const DefaultPixelScale = 10

// Test pattern constants
const (
	// TestPatternCount is the number of available test patterns
	TestPatternCount = 4
	// TestPatternTileSize is the size of tiles for checkerboard and diagonal patterns
	TestPatternTileSize = 4
	// TestPatternStripeWidth is the width of stripes in the stripe pattern
	TestPatternStripeWidth = 2
	// TestPatternAnimationFrames is the number of frames between test pattern animations
	TestPatternAnimationFrames = 30
	// TestPatternStripeSpeed is the animation speed for stripe patterns
	TestPatternStripeSpeed = 1
	// TestPatternDiagonalSpeed is the animation speed for diagonal patterns
	TestPatternDiagonalSpeed = 2
)

// TestPatternNames lists the test patterns in cycling order.
var TestPatternNames = [TestPatternCount]string{"checkerboard", "border", "stripes", "diagonal"}

// Color mapping constants
const (
	// GrayscaleWhite is the RGB value for a lit pixel
	GrayscaleWhite = 255
	// GrayscaleBlack is the RGB value for an unlit pixel
	GrayscaleBlack = 0
	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)

// Buzzer tone constants
const (
	// BeepFrequency is the pitch of the buzzer square wave in Hz
	BeepFrequency = 440
	// AudioSampleRate is the sample rate used for the buzzer, both live and recorded
	AudioSampleRate = 44100
	// BeepAmplitude is the peak value of a 16 bit buzzer sample
	BeepAmplitude = 8000
)
