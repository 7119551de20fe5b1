package cartridge

import (
	"bytes"
	"testing"
)

func TestLoadFromReaderRejectsBadMagic(t *testing.T) {
	data := buildINES(1, 1, 0, 0, false)
	data[0] = 'X'
	if _, err := LoadFromReader(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error for a bad magic number")
	}
}

func TestLoadFromReaderRejectsZeroPRG(t *testing.T) {
	data := buildINES(0, 1, 0, 0, false)
	if _, err := LoadFromReader(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error for zero PRG ROM size")
	}
}

func TestLoadFromReaderSkipsTrainer(t *testing.T) {
	data := buildINES(1, 1, 0x04, 0, true)
	cart, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if len(cart.prgROM) != 16384 {
		t.Fatalf("prgROM length = %d, want 16384", len(cart.prgROM))
	}
}

func TestLoadFromReaderMirroring(t *testing.T) {
	cases := []struct {
		name   string
		flags6 uint8
		want   MirrorMode
	}{
		{"horizontal", 0x00, MirrorHorizontal},
		{"vertical", 0x01, MirrorVertical},
		{"four screen", 0x08, MirrorFourScreen},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cart, err := LoadFromReader(bytes.NewReader(buildINES(1, 1, c.flags6, 0, false)))
			if err != nil {
				t.Fatalf("LoadFromReader: %v", err)
			}
			if got := cart.GetMirrorMode(); got != c.want {
				t.Errorf("mirror mode = %v, want %v", got, c.want)
			}
		})
	}
}

func TestLoadFromReaderZeroCHRBanksIsRAM(t *testing.T) {
	cart, err := LoadFromReader(bytes.NewReader(buildINES(1, 0, 0, 0, false)))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if !cart.hasCHRRAM {
		t.Fatal("expected CHR RAM when header declares zero CHR banks")
	}
	cart.CHRWrite(0x0010, 0x42)
	if got := cart.CHRRead(0x0010); got != 0x42 {
		t.Errorf("CHRRead after write = %#x, want 0x42", got)
	}
}

func TestLoadFromReaderMapperAlwaysResolvesToNROM(t *testing.T) {
	// Flags7 high nibble + flags6 high nibble select mapper 4, but this
	// core only ever wires up NROM.
	cart, err := LoadFromReader(bytes.NewReader(buildINES(1, 1, 0x40, 0x00, false)))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if _, ok := cart.mapper.(*Mapper000); !ok {
		t.Fatalf("mapper type = %T, want *Mapper000", cart.mapper)
	}
}
