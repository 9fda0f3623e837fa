package debug

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/video"
)

// Characters used by text snapshots.
const (
	TextPixelOn  = '█'
	TextPixelOff = '·'
)

// TakeSnapshot handles the snapshot key for backends, saving a timestamped PNG in the
// working directory.
func TakeSnapshot(frame *video.FrameBuffer, baseName string) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if baseName == "" {
		baseName = "chip8_snapshot"
	}

	if err := SaveFramePNGToDir(frame, baseName, ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage converts a framebuffer to a 64x32 image.
func FrameImage(frame *video.FrameBuffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, video.FramebufferWidth, video.FramebufferHeight))
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			img.SetRGBA(x, y, pixelToRGBA(frame.GetPixel(uint(x), uint(y))))
		}
	}
	return img
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific directory.
// An empty directory means the current working directory.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	return SaveFramePNG(frame, filepath.Join(outputDir, filename))
}

// SaveFramePNG saves a framebuffer as a 64x32 PNG at path.
func SaveFramePNG(frame *video.FrameBuffer, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, FrameImage(frame)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	slog.Info("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", video.FramebufferWidth, video.FramebufferHeight), "format", "PNG")
	return nil
}

// SaveFrameText writes the framebuffer as text, one character per pixel, after a
// commented header describing the machine state. state may be nil.
func SaveFrameText(frame *video.FrameBuffer, state *MachineState, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	fmt.Fprintf(w, "# CHIP-8 Frame Snapshot\n")
	if state != nil {
		fmt.Fprintf(w, "# Frame: %d, Instructions: %d\n", state.Frames, state.Instructions)
	}
	fmt.Fprintf(w, "# Resolution: %dx%d pixels\n", video.FramebufferWidth, video.FramebufferHeight)
	fmt.Fprintf(w, "# Legend: %c=on %c=off\n", TextPixelOn, TextPixelOff)
	fmt.Fprintf(w, "#\n")
	w.WriteString(FrameText(frame))

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// FrameText renders the framebuffer as 32 lines of 64 characters.
func FrameText(frame *video.FrameBuffer) string {
	buf := make([]rune, 0, (video.FramebufferWidth+1)*video.FramebufferHeight)
	for y := 0; y < video.FramebufferHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			if frame.GetPixel(uint(x), uint(y)) != 0 {
				buf = append(buf, TextPixelOn)
			} else {
				buf = append(buf, TextPixelOff)
			}
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}

func pixelToRGBA(pixel uint8) color.RGBA {
	if pixel != 0 {
		return color.RGBA{display.GrayscaleWhite, display.GrayscaleWhite, display.GrayscaleWhite, display.FullAlpha}
	}
	return color.RGBA{display.GrayscaleBlack, display.GrayscaleBlack, display.GrayscaleBlack, display.FullAlpha}
}
