package cartridge

import (
	"bytes"
	"testing"
)

func loadNROM(t *testing.T, prgBanks, chrBanks uint8) *Cartridge {
	t.Helper()
	cart, err := LoadFromReader(bytes.NewReader(buildINES(prgBanks, chrBanks, 0, 0, false)))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	return cart
}

func TestMapper000MirrorsSingleBankPRG(t *testing.T) {
	cart := loadNROM(t, 1, 1)
	cart.prgROM[0x0000] = 0xAA
	cart.prgROM[0x3FFF] = 0xBB

	if got := cart.ReadPRG(0x8000); got != 0xAA {
		t.Errorf("ReadPRG(0x8000) = %#x, want 0xAA", got)
	}
	if got := cart.ReadPRG(0xC000); got != 0xAA {
		t.Errorf("ReadPRG(0xC000) = %#x, want 0xAA (mirrored bank)", got)
	}
	if got := cart.ReadPRG(0xFFFF); got != 0xBB {
		t.Errorf("ReadPRG(0xFFFF) = %#x, want 0xBB", got)
	}
}

func TestMapper000DoesNotMirrorTwoBankPRG(t *testing.T) {
	cart := loadNROM(t, 2, 1)
	cart.prgROM[0x0000] = 0x11
	cart.prgROM[0x4000] = 0x22

	if got := cart.ReadPRG(0x8000); got != 0x11 {
		t.Errorf("ReadPRG(0x8000) = %#x, want 0x11", got)
	}
	if got := cart.ReadPRG(0xC000); got != 0x22 {
		t.Errorf("ReadPRG(0xC000) = %#x, want 0x22 (distinct bank)", got)
	}
}

func TestMapper000SRAMReadWrite(t *testing.T) {
	cart := loadNROM(t, 1, 1)
	cart.WritePRG(0x6100, 0x55)
	if got := cart.ReadPRG(0x6100); got != 0x55 {
		t.Errorf("SRAM round trip = %#x, want 0x55", got)
	}
}

func TestMapper000CHRROMIgnoresWrites(t *testing.T) {
	cart := loadNROM(t, 1, 1)
	// Non-zero CHR data in the image means hasCHRRAM is false.
	cart.chrROM[0] = 0x7E
	cart.hasCHRRAM = false

	cart.CHRWrite(0x0000, 0x01)
	if got := cart.CHRRead(0x0000); got != 0x7E {
		t.Errorf("CHR ROM write took effect: got %#x, want 0x7e unchanged", got)
	}
}
