package chip8

import (
	"testing"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
)

// benchProgram draws the "0" glyph diagonally across the screen forever,
// so every frame exercises the draw path and the redraw flag.
var benchProgram = program(
	0xA20A, // 0x200: LD I, 0x20A
	0xD015, // 0x202: DRW V0, V1, 5
	0x7001, // 0x204: ADD V0, 1
	0x7101, // 0x206: ADD V1, 1
	0x1202, // 0x208: JP 0x202
	0xF090, // 0x20A: sprite data
	0xF090,
	0xF000,
)

func BenchmarkEmulatorHeadless(b *testing.B) {
	testCases := []struct {
		name   string
		cycles int
		frames int
	}{
		{"draw_100", DefaultCyclesPerFrame, 100},
		{"draw_1000", DefaultCyclesPerFrame, 1000},
		{"draw_fast_1000", 100, 1000},
	}

	for _, tc := range testCases {
		b.Run(tc.name, func(b *testing.B) {
			vm, err := NewWithProgram(benchProgram, Config{CyclesPerFrame: tc.cycles})
			if err != nil {
				b.Fatalf("Failed to create emulator: %v", err)
			}

			// Use large frame count to avoid quit condition allocations
			hBackend := headless.New(tc.frames*(b.N+1), headless.SnapshotConfig{})
			if err := hBackend.Init(backend.BackendConfig{Title: "Benchmark"}); err != nil {
				b.Fatalf("Failed to initialize backend: %v", err)
			}
			defer hBackend.Cleanup()

			vm.SetFrameLimiter(nil)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				for frameCount := 0; frameCount < tc.frames; frameCount++ {
					if err := vm.RunUntilFrame(); err != nil {
						b.Fatalf("Frame failed: %v", err)
					}
					if _, err := hBackend.Update(vm.GetCurrentFrame()); err != nil {
						b.Fatalf("Backend update failed: %v", err)
					}
				}
			}
		})
	}
}

func BenchmarkMachineStep(b *testing.B) {
	vm, err := NewWithProgram(benchProgram, DefaultConfig())
	if err != nil {
		b.Fatalf("Failed to create emulator: %v", err)
	}
	m := vm.Machine()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		m.Step()
	}
}
