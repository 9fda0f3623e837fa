//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

// ErrUnavailable is returned by the stub backend in builds without the sdl2 tag.
var ErrUnavailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct{}

// New creates a stub SDL2 backend that returns an error
func New() *Backend {
	return &Backend{}
}

// Init returns ErrUnavailable
func (s *Backend) Init(config backend.BackendConfig) error {
	return ErrUnavailable
}

// Update returns ErrUnavailable
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, ErrUnavailable
}

// Beep does nothing
func (s *Backend) Beep() {}

// HandleAction does nothing
func (s *Backend) HandleAction(act action.Action) {}

// Cleanup does nothing
func (s *Backend) Cleanup() error {
	return nil
}
