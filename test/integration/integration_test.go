package integration

import (
	"crypto/md5"
	"fmt"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/video"
)

// IntegrationTestCase is a hand-assembled program and the screen it must leave behind.
type IntegrationTestCase struct {
	Name      string
	Program   []uint16
	MaxFrames int
	// Expected is drawn from the top left corner, '#' is a lit pixel. Everything else must be off.
	Expected []string
	// Registers holds expected V register values after the run.
	Registers map[uint8]uint8
}

func GetIntegrationTests() []IntegrationTestCase {
	return []IntegrationTestCase{
		{
			Name: "font_digits",
			Program: []uint16{
				0x6000, // LD V0, 0
				0x6100, // LD V1, 0
				0x6200, // LD V2, 0
				0xF229, // LD F, V2
				0xD015, // DRW V0, V1, 5
				0x7005, // ADD V0, 5
				0x7201, // ADD V2, 1
				0x3204, // SE V2, 4
				0x1206, // JP 0x206
				0x1212, // JP 0x212
			},
			MaxFrames: 10,
			Expected: []string{
				"####...#..####.####",
				"#..#..##.....#....#",
				"#..#...#..####.####",
				"#..#...#..#.......#",
				"####..###.####.####",
			},
			Registers: map[uint8]uint8{0x0: 20, 0x2: 4, 0xF: 0},
		},
		{
			Name: "bcd_digits",
			Program: []uint16{
				0x6089, // LD V0, 137
				0xA300, // LD I, 0x300
				0xF033, // LD B, V0
				0xF265, // LD V2, [I]
				0x6300, // LD V3, 0
				0x6400, // LD V4, 0
				0xF029, // LD F, V0
				0xD345, // DRW V3, V4, 5
				0x7305, // ADD V3, 5
				0xF129, // LD F, V1
				0xD345, // DRW V3, V4, 5
				0x7305, // ADD V3, 5
				0xF229, // LD F, V2
				0xD345, // DRW V3, V4, 5
				0x121C, // JP 0x21C
			},
			MaxFrames: 5,
			Expected: []string{
				"..#..####.####",
				".##.....#....#",
				"..#..####...#.",
				"..#.....#..#..",
				".###.####..#..",
			},
			Registers: map[uint8]uint8{0x0: 1, 0x1: 3, 0x2: 7},
		},
		{
			Name: "draw_twice_erases",
			Program: []uint16{
				0xA20A, // LD I, 0x20A
				0xD011, // DRW V0, V0, 1
				0xD011, // DRW V0, V0, 1
				0x1206, // JP 0x206
				0x0000,
				0xFF00, // sprite
			},
			MaxFrames: 2,
			Expected:  nil,
			Registers: map[uint8]uint8{0xF: 1},
		},
		{
			Name: "clear_screen",
			Program: []uint16{
				0xA20A, // LD I, 0x20A
				0xD015, // DRW V0, V0, 5
				0x00E0, // CLS
				0x1206, // JP 0x206
				0x0000,
				0xFFFF, // sprite
				0xFFFF,
				0xFF00,
			},
			MaxFrames: 2,
			Expected:  nil,
		},
		{
			Name: "subroutine",
			Program: []uint16{
				0x2206, // CALL 0x206
				0x6A01, // LD VA, 1
				0x1204, // JP 0x204
				0x6B02, // LD VB, 2
				0x00EE, // RET
			},
			MaxFrames: 2,
			Registers: map[uint8]uint8{0xA: 1, 0xB: 2},
		},
		{
			Name: "delay_timer_loop",
			Program: []uint16{
				0x6005, // LD V0, 5
				0xF015, // LD DT, V0
				0xF107, // LD V1, DT
				0x3100, // SE V1, 0
				0x1204, // JP 0x204
				0x6A01, // LD VA, 1
				0x120C, // JP 0x20C
			},
			MaxFrames: 3,
			Registers: map[uint8]uint8{0x1: 0, 0xA: 1},
		},
	}
}

// frameFromArt builds the expected frame for art drawn at the origin.
func frameFromArt(art []string) *video.FrameBuffer {
	fb := video.NewFrameBuffer()
	for y, row := range art {
		for x, ch := range row {
			fb.SetPixel(uint(x), uint(y), ch == '#')
		}
	}
	return fb
}

func assemble(words []uint16) []byte {
	out := make([]byte, 0, len(words)*2)
	for _, w := range words {
		out = append(out, byte(w>>8), byte(w))
	}
	return out
}

func runIntegrationTest(t *testing.T, testCase IntegrationTestCase) {
	vm, err := chip8.NewWithProgram(assemble(testCase.Program), chip8.DefaultConfig())
	require.NoError(t, err)

	for i := 0; i < testCase.MaxFrames; i++ {
		require.NoError(t, vm.RunUntilFrame())
	}

	m := vm.Machine()
	assert.Equal(t, uint64(0), m.UnknownOpcodes(), "program only uses valid instructions")

	want := debug.FrameText(frameFromArt(testCase.Expected))
	got := debug.FrameText(vm.GetCurrentFrame())
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("%s: frame mismatch (-want +got):\n%s", testCase.Name, diff)
	}

	for reg, value := range testCase.Registers {
		assert.Equal(t, value, m.V(reg), "V%X", reg)
	}
}

func TestIntegration(t *testing.T) {
	for _, testCase := range GetIntegrationTests() {
		t.Run(testCase.Name, func(t *testing.T) {
			runIntegrationTest(t, testCase)
		})
	}
}

func TestIntegration_SpriteWraps(t *testing.T) {
	program := []uint16{
		0x603E, // LD V0, 62
		0x611F, // LD V1, 31
		0xA20C, // LD I, 0x20C
		0xD012, // DRW V0, V1, 2
		0x1208, // JP 0x208
		0x0000,
		0xFFFF, // sprite
	}

	vm, err := chip8.NewWithProgram(assemble(program), chip8.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, vm.RunUntilFrame())

	want := video.NewFrameBuffer()
	for _, y := range []uint{31, 0} {
		for x := uint(62); x < 70; x++ {
			want.SetPixel(x%video.FramebufferWidth, y, true)
		}
	}

	if diff := cmp.Diff(debug.FrameText(want), debug.FrameText(vm.GetCurrentFrame())); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, uint8(0), vm.Machine().V(0xF))
}

// randomSprites draws font glyphs at random positions forever.
var randomSprites = []uint16{
	0xC03F, // RND V0, 0x3F
	0xC11F, // RND V1, 0x1F
	0xC20F, // RND V2, 0x0F
	0xF229, // LD F, V2
	0xD015, // DRW V0, V1, 5
	0x1200, // JP 0x200
}

func frameHash(t *testing.T, seed uint64, frames int) string {
	t.Helper()

	vm, err := chip8.NewWithProgram(assemble(randomSprites), chip8.Config{RandSource: rand.NewPCG(seed, seed)})
	require.NoError(t, err)
	for i := 0; i < frames; i++ {
		require.NoError(t, vm.RunUntilFrame())
	}

	return fmt.Sprintf("%x", md5.Sum(vm.GetCurrentFrame().ToSlice()))
}

func TestIntegration_SeededRunsAreReproducible(t *testing.T) {
	first := frameHash(t, 42, 60)
	second := frameHash(t, 42, 60)
	other := frameHash(t, 7, 60)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestIntegration_KeypadWait(t *testing.T) {
	program := []uint16{
		0xF50A, // LD V5, K
		0xF529, // LD F, V5
		0xD005, // DRW V0, V0, 5
		0x1206, // JP 0x206
	}

	vm, err := chip8.NewWithProgram(assemble(program), chip8.DefaultConfig())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, vm.RunUntilFrame())
	}
	assert.Equal(t, uint16(0x200), vm.Machine().PC(), "blocked on the keypad")
	assert.Equal(t, uint64(30), vm.GetInstructionCount())

	vm.HandleAction(action.Key7, true)
	require.NoError(t, vm.RunUntilFrame())
	vm.HandleAction(action.Key7, false)

	assert.Equal(t, uint8(7), vm.Machine().V(5))
	want := frameFromArt([]string{
		"####",
		"...#",
		"..#.",
		".#..",
		".#..",
	})
	if diff := cmp.Diff(debug.FrameText(want), debug.FrameText(vm.GetCurrentFrame())); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestIntegration_HeadlessRun(t *testing.T) {
	dir := t.TempDir()

	vm, err := chip8.NewWithProgram(assemble(GetIntegrationTests()[0].Program), chip8.DefaultConfig())
	require.NoError(t, err)

	h := headless.New(20, headless.SnapshotConfig{Enabled: true, Interval: 20, Directory: dir, ROMName: "digits"})
	require.NoError(t, h.Init(backend.BackendConfig{Title: "Integration", DebugProvider: vm}))
	defer h.Cleanup()
	vm.AddBeeper(h)

	quit := false
	for frames := 0; !quit && frames < 100; frames++ {
		require.NoError(t, vm.RunUntilFrame())
		events, err := h.Update(vm.GetCurrentFrame())
		require.NoError(t, err)
		for _, evt := range events {
			quit = quit || evt.Action == action.EmulatorQuit
		}
	}

	require.True(t, quit, "headless backend stops after its frame budget")
	assert.Equal(t, 20, h.Frames())
	assert.Equal(t, 0, h.Beeps())

	matches, err := filepath.Glob(filepath.Join(dir, "digits_frame_20_*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	file, err := os.Open(matches[0])
	require.NoError(t, err)
	defer file.Close()

	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, video.FramebufferWidth, img.Bounds().Dx())
	assert.Equal(t, video.FramebufferHeight, img.Bounds().Dy())

	r, _, _, _ := img.At(0, 0).RGBA()
	assert.NotZero(t, r, "top left pixel of the 0 glyph is lit")
	r, _, _, _ = img.At(1, 1).RGBA()
	assert.Zero(t, r, "inside of the 0 glyph is dark")
	assert.True(t, strings.HasPrefix(filepath.Base(matches[0]), "digits_frame_20_"))
}
