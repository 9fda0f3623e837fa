//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// maxQueuedFrames bounds the audio queue, in frames worth of samples, so a beep
// is heard at most this many frames late.
const maxQueuedFrames = 3

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	pixels   []byte
	running  bool
	config   backend.BackendConfig

	audioDevice sdl.AudioDeviceID
	buzzer      *audio.Buzzer

	// last rendered frame, for snapshots
	currentFrame *video.FrameBuffer
	// repaint is set when the window needs the last frame presented again
	repaint bool

	events []backend.InputEvent
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferSize*display.RGBABytesPerPixel),
		buzzer: audio.NewBuzzer(audio.SampleRate),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.FramebufferHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	// sound is optional, run silent without an audio device
	if err := s.openAudio(); err != nil {
		slog.Warn("Audio unavailable, running without sound", "error", err)
	}

	s.running = true
	slog.Info("SDL2 backend initialized", "scale", scale, "test_pattern", config.TestPattern)

	return nil
}

func (s *Backend) openAudio() error {
	spec := &sdl.AudioSpec{
		Freq:     audio.SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 1,
		Samples:  uint16(audio.SamplesPerFrame),
	}

	var actual sdl.AudioSpec
	id, err := sdl.OpenAudioDevice("", false, spec, &actual, 0)
	if err != nil {
		return err
	}

	s.audioDevice = id
	sdl.PauseAudioDevice(id, false)
	slog.Debug("Audio device opened", "freq", actual.Freq, "samples", actual.Samples)

	return nil
}

// Update renders a frame, feeds the audio queue and returns the input collected since the last call
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if !s.running {
		return nil, nil
	}

	s.events = s.events[:0]
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		s.handleEvent(e)
	}

	if !s.running {
		return s.events, nil
	}

	if frame != nil {
		s.currentFrame = frame
		s.repaint = true
	}
	if s.repaint && s.currentFrame != nil {
		if err := s.renderFrame(s.currentFrame); err != nil {
			return s.events, err
		}
		s.repaint = false
	}
	s.queueAudio()

	return s.events, nil
}

// Beep implements audio.Beeper.
func (s *Backend) Beep() {
	s.buzzer.Beep()
}

// HandleAction implements backend.ActionHandler.
func (s *Backend) HandleAction(act action.Action) {
	if act == action.EmulatorSnapshot && s.currentFrame != nil {
		debug.TakeSnapshot(s.currentFrame, "chip8_snapshot")
	}
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audioDevice != 0 {
		sdl.ClearQueuedAudio(s.audioDevice)
		sdl.CloseAudioDevice(s.audioDevice)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(e sdl.Event) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.events = append(s.events, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
		if s.config.Callbacks.OnQuit != nil {
			s.config.Callbacks.OnQuit()
		}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_EXPOSED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			s.repaint = true
		}

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return
		}

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			// repeats only matter to keypad keys, which are already down
			if _, isKey := action.KeyIndex(act); isKey {
				s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Hold})
			}
		case e.Type == sdl.KEYDOWN:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Press})
		case e.Type == sdl.KEYUP:
			s.events = append(s.events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}
}

// keyMapping maps SDL2 keys to actions, mirroring input.DefaultKeyMap
var keyMapping = map[sdl.Keycode]action.Action{
	// Emulator controls
	sdl.K_ESCAPE:    action.EmulatorQuit,
	sdl.K_SPACE:     action.EmulatorPauseToggle,
	sdl.K_p:         action.EmulatorPauseToggle,
	sdl.K_BACKSPACE: action.EmulatorReset,
	sdl.K_F9:        action.EmulatorSnapshot,
	sdl.K_F12:       action.EmulatorTestPatternCycle,
	sdl.K_t:         action.EmulatorTestPatternCycle,
	sdl.K_EQUALS:    action.DebugLogLevelIncrease,
	sdl.K_PLUS:      action.DebugLogLevelIncrease,
	sdl.K_MINUS:     action.DebugLogLevelDecrease,

	// Hex keypad, laid out on the left side of a QWERTY keyboard
	sdl.K_1: action.Key1, sdl.K_2: action.Key2, sdl.K_3: action.Key3, sdl.K_4: action.KeyC,
	sdl.K_q: action.Key4, sdl.K_w: action.Key5, sdl.K_e: action.Key6, sdl.K_r: action.KeyD,
	sdl.K_a: action.Key7, sdl.K_s: action.Key8, sdl.K_d: action.Key9, sdl.K_f: action.KeyE,
	sdl.K_z: action.KeyA, sdl.K_x: action.Key0, sdl.K_c: action.KeyB, sdl.K_v: action.KeyF,
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	frameData := frame.ToSlice()

	for i, pixel := range frameData {
		r, g, b, a := pixelToRGBA(pixel)
		dst := i * display.RGBABytesPerPixel

		// ABGR byte order for little-endian RGBA8888
		s.pixels[dst] = a
		s.pixels[dst+1] = b
		s.pixels[dst+2] = g
		s.pixels[dst+3] = r
	}

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*display.RGBABytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	s.renderer.SetDrawColor(display.GrayscaleBlack, display.GrayscaleBlack, display.GrayscaleBlack, display.FullAlpha)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()

	return nil
}

// queueAudio tops up the device queue with one frame of buzzer output.
func (s *Backend) queueAudio() {
	if s.audioDevice == 0 {
		return
	}

	const frameBytes = audio.SamplesPerFrame * audio.BitDepth / 8
	if sdl.GetQueuedAudioSize(s.audioDevice) >= maxQueuedFrames*frameBytes {
		return
	}

	samples := s.buzzer.GetSamples(audio.SamplesPerFrame)
	if err := sdl.QueueAudio(s.audioDevice, audio.EncodeS16LE(samples)); err != nil {
		slog.Debug("Failed to queue audio", "error", err)
	}
}

func pixelToRGBA(pixel uint8) (r, g, b, a uint8) {
	if pixel != 0 {
		return display.GrayscaleWhite, display.GrayscaleWhite, display.GrayscaleWhite, display.FullAlpha
	}
	return display.GrayscaleBlack, display.GrayscaleBlack, display.GrayscaleBlack, display.FullAlpha
}
