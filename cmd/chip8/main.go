package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/timing"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the emulator without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "cycles",
			Usage: "Instructions executed per 60 Hz frame",
			Value: chip8.DefaultCyclesPerFrame,
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Display backend: terminal or sdl2 (sdl2 requires building with -tags sdl2)",
			Value: "terminal",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame pacing: adaptive, ticker or none",
			Value: "adaptive",
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Display a test pattern instead of emulation (for debugging display)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.BoolFlag{
			Name:  "snapshot-text",
			Usage: "Also save text snapshots with the register state",
		},
		cli.StringFlag{
			Name:  "wav",
			Usage: "Record the buzzer to a WAV file",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "Seed for the random number instruction (0 = random)",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func runEmulator(c *cli.Context) error {
	headlessMode := c.Bool("headless")
	setupLogging(c.Bool("debug") || headlessMode)

	// headless runs as fast as possible
	limiter := timing.NewNoOpLimiter()
	if !headlessMode {
		var err error
		if limiter, err = timing.NewLimiter(c.String("limiter")); err != nil {
			return err
		}
	}
	if ticker, ok := limiter.(*timing.TickerLimiter); ok {
		defer ticker.Stop()
	}

	var (
		emu     chip8.Emulator
		vm      *chip8.VM
		romPath string
		err     error
	)

	if c.Bool("test-pattern") {
		slog.Info("Running in test pattern mode")
		emu = chip8.NewTestPatternEmulator()
	} else {
		romPath = c.String("rom")
		if romPath == "" {
			if c.NArg() == 0 {
				cli.ShowAppHelp(c)
				return errors.New("no ROM path provided")
			}
			romPath = c.Args().Get(0)
		}

		cfg := chip8.Config{CyclesPerFrame: c.Int("cycles")}
		if seed := c.Int64("seed"); seed != 0 {
			cfg.RandSource = rand.NewPCG(uint64(seed), uint64(seed))
		}

		vm, err = chip8.NewWithFile(romPath, cfg)
		if err != nil {
			return err
		}
		emu = vm
	}
	emu.SetFrameLimiter(limiter)

	b, err := createBackend(c, romPath)
	if err != nil {
		return err
	}

	if vm != nil {
		if beeper, ok := b.(audio.Beeper); ok {
			vm.AddBeeper(beeper)
		}

		if path := c.String("wav"); path != "" {
			recorder, err := audio.NewWavRecorder(path)
			if err != nil {
				return err
			}
			vm.AddBeeper(recorder)
			defer func() {
				if err := recorder.Close(); err != nil {
					slog.Error("Failed to write WAV file", "path", path, "error", err)
					return
				}
				slog.Info("Buzzer recording saved", "path", path, "frames", recorder.Frames())
			}()
		}
	}

	config := backend.BackendConfig{
		Title:         windowTitle(romPath),
		TestPattern:   c.Bool("test-pattern"),
		ShowLogs:      true,
		DebugProvider: emu,
	}

	return newSession(emu, b).run(config)
}

func createBackend(c *cli.Context, romPath string) (backend.Backend, error) {
	if c.Bool("headless") {
		frames := c.Int("frames")
		if frames <= 0 {
			return nil, errors.New("headless mode requires --frames option with a positive value")
		}

		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, err
		}
		snapshots.Text = c.Bool("snapshot-text")

		return headless.New(frames, snapshots), nil
	}

	switch name := c.String("backend"); name {
	case "terminal":
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, errors.New("terminal backend requires a TTY, use --headless or --backend sdl2")
		}
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q, expected terminal or sdl2", name)
	}
}

func setupLogging(debugEnabled bool) {
	level := slog.LevelInfo
	if debugEnabled {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

func windowTitle(romPath string) string {
	if romPath == "" {
		return "CHIP-8"
	}
	name := strings.TrimSuffix(filepath.Base(romPath), filepath.Ext(romPath))
	return "CHIP-8 - " + name
}
