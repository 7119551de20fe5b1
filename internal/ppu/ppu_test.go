package ppu

import (
	"testing"

	"nesgo/internal/memory"
)

// fakeCHR is an 8KB writable pattern-table bank, the memory.CHRBank
// tests fill with fixture tiles.
type fakeCHR struct {
	data [0x2000]uint8
}

func (f *fakeCHR) CHRRead(address uint16) uint8         { return f.data[address] }
func (f *fakeCHR) CHRWrite(address uint16, value uint8) { f.data[address] = value }

// newTestPPU returns a reset PPU bound to writable pattern tables and
// horizontal nametable arrangement, plus the VRAM for direct fixture
// setup and assertions.
func newTestPPU() (*PPU, *memory.VRAM, *fakeCHR) {
	chr := &fakeCHR{}
	vram := memory.NewVRAM(chr, memory.MirrorHorizontal)
	p := New()
	p.SetMemory(vram)
	p.Reset()
	p.ReadRegister(0x2002) // clear the power-up vblank bit, as startup code does
	return p, vram, chr
}

// setVRAMAddress drives the two-write $2006 sequence from a cleared
// toggle.
func setVRAMAddress(p *PPU, address uint16) {
	p.ReadRegister(0x2002) // clear the shared toggle
	p.WriteRegister(0x2006, uint8(address>>8))
	p.WriteRegister(0x2006, uint8(address))
}

// stepToScanline advances whole scanlines until the PPU reports the
// target, with a hard cap so a regression cannot hang the test.
func stepToScanline(t *testing.T, p *PPU, target int) {
	t.Helper()
	for i := 0; i < 2*262; i++ {
		if p.GetScanline() == target {
			return
		}
		p.StepScanline()
	}
	t.Fatalf("PPU never reached scanline %d", target)
}

// Scenario: the scroll and address ports share one write toggle that a
// status read clears, and only the second address write commits the
// temporary address into current.
func TestSharedWriteToggle(t *testing.T) {
	p, vram, _ := newTestPPU()

	p.ReadRegister(0x2002)
	p.WriteRegister(0x2006, 0x20)
	p.WriteRegister(0x2006, 0x00)

	// The committed address is observable through a $2007 write.
	p.WriteRegister(0x2007, 0xAB)
	if got := vram.Read(0x2000); got != 0xAB {
		t.Fatalf("VRAM[0x2000] = %#02x, want 0xab (address committed to 0x2000)", got)
	}

	// Clear the toggle again and perform only the first half of the
	// sequence: the high half of temp changes but nothing commits.
	p.ReadRegister(0x2002)
	p.WriteRegister(0x2006, 0x22)

	p.WriteRegister(0x2007, 0xCD)
	if got := vram.Read(0x2001); got != 0xCD {
		t.Errorf("VRAM[0x2001] = %#02x, want 0xcd (current address still past 0x2000)", got)
	}
	if got := vram.Read(0x2200); got != 0 {
		t.Errorf("VRAM[0x2200] = %#02x, want 0 (half-written address must not commit)", got)
	}
}

func TestScrollWriteConsumesSharedToggle(t *testing.T) {
	p, vram, _ := newTestPPU()

	// A first write to $2005 flips the toggle, so a following $2006
	// write lands in the second (low, committing) slot.
	p.ReadRegister(0x2002)
	p.WriteRegister(0x2005, 0x00)
	p.WriteRegister(0x2006, 0x05)

	p.WriteRegister(0x2007, 0x99)
	if got := vram.Read(0x0005); got != 0x99 {
		t.Errorf("VRAM[0x0005] = %#02x, want 0x99 ($2005 and $2006 share the toggle)", got)
	}
}

func TestVRAMDataReadIsBuffered(t *testing.T) {
	p, vram, _ := newTestPPU()
	vram.Write(0x2000, 0x11)
	vram.Write(0x2001, 0x22)

	setVRAMAddress(p, 0x2000)

	if got := p.ReadRegister(0x2007); got != 0x00 {
		t.Errorf("first read = %#02x, want 0x00 (stale buffer)", got)
	}
	if got := p.ReadRegister(0x2007); got != 0x11 {
		t.Errorf("second read = %#02x, want 0x11 (ring-delayed)", got)
	}
	if got := p.ReadRegister(0x2007); got != 0x22 {
		t.Errorf("third read = %#02x, want 0x22", got)
	}
}

func TestPaletteReadBypassesBuffer(t *testing.T) {
	p, vram, _ := newTestPPU()
	vram.Write(0x3F01, 0x2A)

	setVRAMAddress(p, 0x3F01)

	if got := p.ReadRegister(0x2007); got != 0x2A {
		t.Errorf("palette read = %#02x, want 0x2a on the same cycle", got)
	}
}

func TestVRAMAddressIncrementStep(t *testing.T) {
	p, vram, _ := newTestPPU()

	// Increment of 1 by default.
	setVRAMAddress(p, 0x2000)
	p.WriteRegister(0x2007, 0x01)
	p.WriteRegister(0x2007, 0x02)
	if vram.Read(0x2000) != 0x01 || vram.Read(0x2001) != 0x02 {
		t.Error("default VRAM increment is not 1")
	}

	// Control bit 2 selects an increment of 32.
	p.WriteRegister(0x2000, 0x04)
	setVRAMAddress(p, 0x2100)
	p.WriteRegister(0x2007, 0x03)
	p.WriteRegister(0x2007, 0x04)
	if vram.Read(0x2100) != 0x03 || vram.Read(0x2120) != 0x04 {
		t.Error("VRAM increment of 32 not applied")
	}
}

func TestOAMAddressDataAndAutoIncrement(t *testing.T) {
	p, _, _ := newTestPPU()

	p.WriteRegister(0x2003, 0x10)
	p.WriteRegister(0x2004, 0xAA) // auto-increments to 0x11
	p.WriteRegister(0x2004, 0xBB)

	p.WriteRegister(0x2003, 0x10)
	if got := p.ReadRegister(0x2004); got != 0xAA {
		t.Errorf("OAM[0x10] = %#02x, want 0xaa", got)
	}
	// Reads do not auto-increment.
	if got := p.ReadRegister(0x2004); got != 0xAA {
		t.Errorf("second read = %#02x, want 0xaa (no increment on read)", got)
	}

	p.WriteRegister(0x2003, 0x11)
	if got := p.ReadRegister(0x2004); got != 0xBB {
		t.Errorf("OAM[0x11] = %#02x, want 0xbb", got)
	}
}

func TestWriteOAMAddressesByIndex(t *testing.T) {
	p, _, _ := newTestPPU()
	p.WriteRegister(0x2003, 0x80) // pointer must be ignored by direct writes

	for i := 0; i < 256; i++ {
		p.WriteOAM(uint8(i), uint8(i))
	}

	p.WriteRegister(0x2003, 0x00)
	for i := 0; i < 4; i++ {
		p.WriteRegister(0x2003, uint8(i))
		if got := p.ReadRegister(0x2004); got != uint8(i) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x", i, got, i)
		}
	}
}

func TestVBlankFlagAndNMISignal(t *testing.T) {
	p, _, _ := newTestPPU()
	nmiCount := 0
	p.SetNMICallback(func() { nmiCount++ })
	p.WriteRegister(0x2000, 0x80) // NMI enable

	stepToScanline(t, p, 241)
	p.StepScanline() // sweep through cycle 1 of scanline 241

	if !p.IsVBlank() {
		t.Fatal("vblank flag not set on entering scanline 241")
	}
	if nmiCount != 1 {
		t.Fatalf("NMI fired %d times, want 1", nmiCount)
	}

	// The status read reports vblank and clears it.
	if status := p.ReadRegister(0x2002); status&0x80 == 0 {
		t.Error("status read did not report vblank")
	}
	if p.IsVBlank() {
		t.Error("status read did not clear vblank")
	}
}

func TestNMISuppressedWhenDisabled(t *testing.T) {
	p, _, _ := newTestPPU()
	nmiCount := 0
	p.SetNMICallback(func() { nmiCount++ })
	// NMI-enable stays clear.

	stepToScanline(t, p, 241)
	p.StepScanline()

	if !p.IsVBlank() {
		t.Fatal("vblank flag not set")
	}
	if nmiCount != 0 {
		t.Errorf("NMI fired %d times with enable clear, want 0", nmiCount)
	}
}

func TestEnablingNMIDuringVBlankFiresImmediately(t *testing.T) {
	p, _, _ := newTestPPU()
	nmiCount := 0
	p.SetNMICallback(func() { nmiCount++ })

	stepToScanline(t, p, 241)
	p.StepScanline()
	if nmiCount != 0 {
		t.Fatal("NMI fired before being enabled")
	}

	p.WriteRegister(0x2000, 0x80)
	if nmiCount != 1 {
		t.Errorf("NMI fired %d times after enabling mid-vblank, want 1", nmiCount)
	}
}

func TestPreRenderClearsVBlank(t *testing.T) {
	p, _, _ := newTestPPU()
	stepToScanline(t, p, 241)
	p.StepScanline()
	if !p.IsVBlank() {
		t.Fatal("vblank flag not set")
	}

	stepToScanline(t, p, -1)
	p.StepScanline() // sweep through cycle 1 of the pre-render line
	if p.IsVBlank() {
		t.Error("pre-render scanline did not clear vblank")
	}
}

func TestFrameCountAdvancesPerSweep(t *testing.T) {
	p, _, _ := newTestPPU()
	start := p.GetFrameCount()
	for i := 0; i < 262; i++ {
		p.StepScanline()
	}
	if got := p.GetFrameCount(); got != start+1 {
		t.Errorf("frame count = %d, want %d", got, start+1)
	}
}

// writeTile fills one 16-byte pattern-table tile with a uniform
// bitplane pair.
func writeTile(chr *fakeCHR, base uint16, tile uint8, low, high uint8) {
	addr := base + uint16(tile)*16
	for row := uint16(0); row < 8; row++ {
		chr.data[addr+row] = low
		chr.data[addr+row+8] = high
	}
}

// Scenario: a nametable entry pointing at a known tile produces the
// expected palette color across its eight pixels after one visible
// scanline tick.
func TestBackgroundTileFetch(t *testing.T) {
	p, vram, chr := newTestPPU()

	writeTile(chr, 0x0000, 1, 0xFF, 0x00) // color index 1 everywhere
	vram.Write(0x2000, 0x01)              // tile (0,0) -> tile 1
	vram.Write(0x3F01, 0x21)              // background palette 0, color 1

	p.WriteRegister(0x2001, 0x08) // enable background

	stepToScanline(t, p, 0)
	p.StepScanline() // render scanline 0

	want := NESColorToRGB(0x21)
	for x := 0; x < 8; x++ {
		if got := p.GetFrameBuffer()[x]; got != want {
			t.Fatalf("pixel %d = %#06x, want %#06x", x, got, want)
		}
	}
	// The neighboring tile is still the transparent background color.
	if got := p.GetFrameBuffer()[8]; got == want {
		t.Error("pixel 8 drew the fixture tile; nametable walk overran the tile")
	}
}

func TestBackgroundDisabledRendersNothing(t *testing.T) {
	p, vram, chr := newTestPPU()
	writeTile(chr, 0x0000, 1, 0xFF, 0x00)
	vram.Write(0x2000, 0x01)
	vram.Write(0x3F01, 0x21)
	// Mask stays zero: no rendering at all.

	stepToScanline(t, p, 0)
	p.StepScanline()

	if got := p.GetFrameBuffer()[0]; got != 0 {
		t.Errorf("pixel 0 = %#06x with rendering disabled, want 0", got)
	}
}

func TestSpriteRenderingWithFlips(t *testing.T) {
	p, vram, chr := newTestPPU()
	// Tile 2: only the leftmost pixel of each row is color 1.
	writeTile(chr, 0x0000, 2, 0x80, 0x00)
	vram.Write(0x3F11, 0x16) // sprite palette 0, color 1

	// Sprite 0 at (x=0, y=4): covers scanlines 5..12.
	p.WriteOAM(0, 4)    // y
	p.WriteOAM(1, 2)    // tile
	p.WriteOAM(2, 0x00) // attributes: no flip, front priority
	p.WriteOAM(3, 0)    // x
	p.WriteRegister(0x2001, 0x10) // sprites only

	stepToScanline(t, p, 5)
	p.StepScanline()

	want := NESColorToRGB(0x16)
	row := 5 * 256
	if got := p.GetFrameBuffer()[row]; got != want {
		t.Fatalf("sprite pixel (0,5) = %#06x, want %#06x", got, want)
	}
	if got := p.GetFrameBuffer()[row+7]; got == want {
		t.Fatal("pixel (7,5) drawn without horizontal flip")
	}

	// Same sprite with horizontal flip: the colored column moves to
	// x=7.
	p.Reset()
	p.SetMemory(vram)
	p.WriteOAM(0, 4)
	p.WriteOAM(1, 2)
	p.WriteOAM(2, 0x40) // horizontal flip
	p.WriteOAM(3, 0)
	p.WriteRegister(0x2001, 0x10)

	stepToScanline(t, p, 5)
	p.StepScanline()

	if got := p.GetFrameBuffer()[row+7]; got != want {
		t.Errorf("flipped sprite pixel (7,5) = %#06x, want %#06x", got, want)
	}
	if got := p.GetFrameBuffer()[row]; got == want {
		t.Error("pixel (0,5) still drawn after horizontal flip")
	}
}

func TestVerticalFlipSelectsBottomRow(t *testing.T) {
	p, vram, chr := newTestPPU()
	// Tile 3: only pattern row 0 is colored.
	addr := uint16(3) * 16
	chr.data[addr] = 0xFF
	vram.Write(0x3F11, 0x16)

	p.WriteOAM(0, 4)
	p.WriteOAM(1, 3)
	p.WriteOAM(2, 0x80) // vertical flip
	p.WriteOAM(3, 0)
	p.WriteRegister(0x2001, 0x10)

	// With vertical flip the colored row appears on the sprite's last
	// scanline (y+1+7 = 12) instead of its first.
	stepToScanline(t, p, 12)
	p.StepScanline()

	want := NESColorToRGB(0x16)
	if got := p.GetFrameBuffer()[12*256]; got != want {
		t.Errorf("pixel (0,12) = %#06x, want %#06x (flipped bottom row)", got, want)
	}
}

func TestSpriteOverflowFlag(t *testing.T) {
	p, _, _ := newTestPPU()
	// Nine sprites share scanline coverage starting at y=4.
	for n := uint8(0); n < 9; n++ {
		p.WriteOAM(n*4+0, 4)
		p.WriteOAM(n*4+1, 0)
		p.WriteOAM(n*4+2, 0)
		p.WriteOAM(n*4+3, n*8)
	}
	p.WriteRegister(0x2001, 0x10)

	// The power-up status has the overflow bit set; entering vertical
	// blank clears it, so assert against the following frame.
	stepToScanline(t, p, 241)
	p.StepScanline()
	p.ReadRegister(0x2002)
	stepToScanline(t, p, 5)
	p.StepScanline()

	if p.ReadRegister(0x2002)&0x20 == 0 {
		t.Error("sprite overflow flag not set with nine sprites on one scanline")
	}
}

func TestStatusReadClearsToggleMidSequence(t *testing.T) {
	p, vram, _ := newTestPPU()

	// Interrupt an address sequence with a status read; the next $2006
	// write must be treated as a first (high) write again.
	p.ReadRegister(0x2002)
	p.WriteRegister(0x2006, 0x21)
	p.ReadRegister(0x2002)        // clears the toggle mid-sequence
	p.WriteRegister(0x2006, 0x20) // high write again, no commit
	p.WriteRegister(0x2006, 0x40) // low write, commits 0x2040

	p.WriteRegister(0x2007, 0x77)
	if got := vram.Read(0x2040); got != 0x77 {
		t.Errorf("VRAM[0x2040] = %#02x, want 0x77", got)
	}
}

func TestResetRestoresPowerUpState(t *testing.T) {
	p, _, _ := newTestPPU()
	stepToScanline(t, p, 100)
	p.WriteRegister(0x2000, 0x80)
	p.WriteRegister(0x2001, 0x1E)

	p.Reset()

	if p.GetScanline() != -1 {
		t.Errorf("scanline = %d, want -1 after reset", p.GetScanline())
	}
	if p.GetFrameCount() != 0 {
		t.Errorf("frame count = %d, want 0", p.GetFrameCount())
	}
	if p.IsRenderingEnabled() {
		t.Error("rendering still enabled after reset")
	}
}
