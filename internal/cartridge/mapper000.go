package cartridge

// Mapper000 is NROM: no bank switching. 16KB PRG ROM mirrors across the
// full 32KB CPU window; CHR is either fixed ROM or, when the header
// declared no CHR banks or the declared bank is all zero bytes, 8KB of
// RAM.
type Mapper000 struct {
	cart     *Cartridge
	prgBanks uint8
}

// NewMapper000 binds a decoder to cart's already-loaded PRG/CHR data.
func NewMapper000(cart *Cartridge) *Mapper000 {
	return &Mapper000{
		cart:     cart,
		prgBanks: uint8(len(cart.prgROM) / 0x4000),
	}
}

// ReadPRG maps 0x6000-0x7FFF to SRAM and 0x8000-0xFFFF to PRG ROM,
// mirroring a 16KB image across the full 32KB window.
func (m *Mapper000) ReadPRG(address uint16) uint8 {
	switch {
	case address >= 0x8000:
		if len(m.cart.prgROM) == 0 {
			return 0
		}
		offset := address - 0x8000
		if m.prgBanks == 1 {
			offset &= 0x3FFF
		}
		if int(offset) < len(m.cart.prgROM) {
			return m.cart.prgROM[offset]
		}
		return 0
	case address >= 0x6000:
		return m.cart.sram[address-0x6000]
	default:
		return 0
	}
}

// WritePRG accepts only SRAM writes; NROM has no mapper registers.
func (m *Mapper000) WritePRG(address uint16, value uint8) {
	if address >= 0x6000 && address < 0x8000 {
		m.cart.sram[address-0x6000] = value
	}
}

// CHRRead returns a pattern-table byte from the 8KB CHR window.
func (m *Mapper000) CHRRead(address uint16) uint8 {
	if address < 0x2000 && int(address) < len(m.cart.chrROM) {
		return m.cart.chrROM[address]
	}
	return 0
}

// CHRWrite only takes effect on CHR RAM (no CHR banks declared, or a
// declared bank that is all zero bytes); a CHR ROM board ignores it.
func (m *Mapper000) CHRWrite(address uint16, value uint8) {
	if address < 0x2000 && m.cart.hasCHRRAM && int(address) < len(m.cart.chrROM) {
		m.cart.chrROM[address] = value
	}
}
