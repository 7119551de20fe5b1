package cpu

import "testing"

// TestStatusByteRoundTrip: for every byte, restoring the flags from it
// and packing them again reproduces the same flag bits. The unused bit
// always reads as set, so it is masked from the comparison.
func TestStatusByteRoundTrip(t *testing.T) {
	cpu, _ := newTestCPU()
	for b := 0; b < 256; b++ {
		cpu.SetStatusByte(uint8(b))
		got := cpu.GetStatusByte()
		if got&^uint8(unusedMask) != uint8(b)&^uint8(unusedMask) {
			t.Fatalf("round trip of %#02x = %#02x", b, got)
		}
	}
}

// TestPHPPLPRoundTrip runs the same law through the stack instructions.
func TestPHPPLPRoundTrip(t *testing.T) {
	cpu, mem := newTestCPU()
	cpu.C, cpu.Z, cpu.N, cpu.V, cpu.D = true, false, true, true, false
	before := cpu.GetStatusByte()

	mem.SetBytes(0x8000, 0x08, 0x28) // PHP; PLP
	mustStep(t, cpu)
	mustStep(t, cpu)

	// PHP pushes with the break flag set, so compare modulo that bit.
	if got := cpu.GetStatusByte() &^ uint8(bFlagMask); got != before&^uint8(bFlagMask) {
		t.Errorf("status after PHP/PLP = %#02x, want %#02x", got, before)
	}
}

// TestADCSBCComplement: ADC(a, m, c) and SBC(a, 255-m, c) are the same
// operation, exhaustively over operands and carry-in.
func TestADCSBCComplement(t *testing.T) {
	run := func(opcode, a, m uint8, carry bool) (uint8, uint8) {
		cpu, mem := newTestCPU()
		cpu.A = a
		cpu.C = carry
		mem.SetBytes(0x8000, opcode, m)
		mustStep(t, cpu)
		return cpu.A, cpu.GetStatusByte()
	}

	for a := 0; a < 256; a++ {
		for m := 0; m < 256; m++ {
			for _, carry := range []bool{false, true} {
				addA, addP := run(0x69, uint8(a), uint8(m), carry)
				subA, subP := run(0xE9, uint8(a), uint8(255-m), carry)
				if addA != subA || addP != subP {
					t.Fatalf("ADC(%d,%d,%v) = (%#02x,%#02x), SBC complement = (%#02x,%#02x)",
						a, m, carry, addA, addP, subA, subP)
				}
			}
		}
	}
}

// TestDoubleASLMatchesWideShift: two ASLs equal one shift-left-by-2 in
// wider arithmetic truncated to 8 bits, with carry after the second
// shift equal to bit 6 of the original.
func TestDoubleASLMatchesWideShift(t *testing.T) {
	for v := 0; v < 256; v++ {
		cpu, mem := newTestCPU()
		cpu.A = uint8(v)
		mem.SetBytes(0x8000, 0x0A, 0x0A) // ASL A; ASL A
		mustStep(t, cpu)
		mustStep(t, cpu)

		want := uint8((v << 2) & 0xFF)
		if cpu.A != want {
			t.Fatalf("v=%#02x: A = %#02x, want %#02x", v, cpu.A, want)
		}
		if wantCarry := v&0x40 != 0; cpu.C != wantCarry {
			t.Fatalf("v=%#02x: carry = %v, want bit 6 = %v", v, cpu.C, wantCarry)
		}
	}
}

// TestRORThenROLRestores: rotating right then left through carry is the
// identity on both the byte and the carry, for every input pair.
func TestRORThenROLRestores(t *testing.T) {
	for v := 0; v < 256; v++ {
		for _, carry := range []bool{false, true} {
			cpu, mem := newTestCPU()
			cpu.A = uint8(v)
			cpu.C = carry
			mem.SetBytes(0x8000, 0x6A, 0x2A) // ROR A; ROL A
			mustStep(t, cpu)
			mustStep(t, cpu)

			if cpu.A != uint8(v) || cpu.C != carry {
				t.Fatalf("v=%#02x c=%v: got A=%#02x C=%v after ROR/ROL", v, carry, cpu.A, cpu.C)
			}
		}
	}
}

// TestSignZeroHelpers spot-checks the flag helpers through loads across
// the three interesting value classes.
func TestSignZeroHelpers(t *testing.T) {
	cases := []struct {
		value uint8
		z, n  bool
	}{
		{0x00, true, false},
		{0x01, false, false},
		{0x7F, false, false},
		{0x80, false, true},
		{0xFF, false, true},
	}
	for _, tc := range cases {
		cpu, mem := newTestCPU()
		mem.SetBytes(0x8000, 0xA9, tc.value)
		mustStep(t, cpu)
		if cpu.Z != tc.z || cpu.N != tc.n {
			t.Errorf("LDA #%#02x: Z=%v N=%v, want Z=%v N=%v", tc.value, cpu.Z, cpu.N, tc.z, tc.n)
		}
	}
}
