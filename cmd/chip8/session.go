package main

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// session connects an emulator to a backend: frames go out, input comes back in.
type session struct {
	emu     chip8.Emulator
	backend backend.Backend
	handler *input.Handler
	manager *input.Manager
	running bool
}

func newSession(emu chip8.Emulator, b backend.Backend) *session {
	var keypad input.KeypadWriter
	if k, ok := emu.(input.KeypadWriter); ok {
		keypad = k
	}

	s := &session{
		emu:     emu,
		backend: b,
		handler: input.NewHandler(),
		manager: input.NewManager(keypad),
	}

	s.manager.On(action.EmulatorQuit, event.Press, s.stop)

	// actions owned by the emulator
	for _, act := range []action.Action{
		action.EmulatorPauseToggle,
		action.EmulatorReset,
		action.EmulatorTestPatternCycle,
	} {
		s.manager.On(act, event.Press, func() { s.emu.HandleAction(act, true) })
	}

	// actions owned by the backend
	if h, ok := b.(backend.ActionHandler); ok {
		for _, act := range []action.Action{
			action.EmulatorSnapshot,
			action.DebugLogLevelIncrease,
			action.DebugLogLevelDecrease,
		} {
			s.manager.On(act, event.Press, func() { h.HandleAction(act) })
		}
	}

	return s
}

func (s *session) stop() {
	slog.Info("Quit requested")
	s.running = false
}

// run initializes the backend and drives frames until a quit is requested.
func (s *session) run(config backend.BackendConfig) error {
	config.Callbacks.OnQuit = s.stop

	if err := s.backend.Init(config); err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		if err := s.backend.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	s.running = true
	for s.running {
		if err := s.step(); err != nil {
			return err
		}
	}

	return nil
}

// step runs one frame and dispatches the input collected while showing it.
func (s *session) step() error {
	if err := s.emu.RunUntilFrame(); err != nil {
		return fmt.Errorf("emulation failed: %w", err)
	}

	// input is polled every frame, the display is only sent when it changed
	var frame *video.FrameBuffer
	redraw := s.emu.RedrawRequested()
	if redraw {
		frame = s.emu.GetCurrentFrame()
	}

	events, err := s.backend.Update(frame)
	if err != nil {
		return fmt.Errorf("backend update failed: %w", err)
	}
	if redraw {
		s.emu.ClearRedrawFlag()
	}

	for _, evt := range events {
		if !s.handler.ProcessEvent(evt) {
			slog.Debug("Debounced input", "action", evt.Action, "type", evt.Type)
			continue
		}
		s.manager.Trigger(evt.Action, evt.Type)
	}

	return nil
}
