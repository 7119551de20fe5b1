// Package memory implements the flat byte-array storage shared by the
// bus, the MPU, and the PPU: CPU work RAM, sprite-attribute memory, and
// PPU video memory, each with its own mirroring rule.
package memory

// RAM is the CPU's 2 KiB work-RAM region, mirrored three times across
// 0x0000-0x1FFF. Every legal address maps; out-of-range access is a
// programmer error in the caller, not a runtime condition here.
type RAM struct {
	bytes [0x0800]uint8
}

// NewRAM returns a zeroed work-RAM region.
func NewRAM() *RAM {
	return &RAM{}
}

func (r *RAM) mirror(address uint16) uint16 {
	return address & 0x07FF
}

// Read returns the byte at address, applying the 0x0800 mirror.
func (r *RAM) Read(address uint16) uint8 {
	return r.bytes[r.mirror(address)]
}

// Write stores value at address, applying the 0x0800 mirror.
func (r *RAM) Write(address uint16, value uint8) {
	r.bytes[r.mirror(address)] = value
}

// DMASource copies 256 bytes starting at page<<8, for OAM DMA.
func (r *RAM) DMASource(page uint8) [256]uint8 {
	var out [256]uint8
	base := uint16(page) << 8
	for i := range out {
		out[i] = r.Read(base + uint16(i))
	}
	return out
}
