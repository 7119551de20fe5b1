package memory

// SpriteEntry is the decoded form of one 4-byte OAM record.
type SpriteEntry struct {
	Y          uint8
	Tile       uint8
	Attributes uint8
	X          uint8
}

// OAM is the 256-byte sprite-attribute table: 64 entries of
// (y, tile, attributes, x). The DMA path and the $2004 port both address
// it as flat bytes; sprite evaluation addresses it by entry.
type OAM struct {
	bytes [256]uint8
}

// NewOAM returns a zeroed sprite table.
func NewOAM() *OAM {
	return &OAM{}
}

// Read returns the raw byte at a flat OAM address (0-255).
func (o *OAM) Read(address uint8) uint8 {
	return o.bytes[address]
}

// Write stores a raw byte at a flat OAM address, the DMA and $2004 path.
func (o *OAM) Write(address uint8, value uint8) {
	o.bytes[address] = value
}

// Entry decodes sprite n (0-63) into its four fields.
func (o *OAM) Entry(n uint8) SpriteEntry {
	base := uint16(n) * 4
	return SpriteEntry{
		Y:          o.bytes[base],
		Tile:       o.bytes[base+1],
		Attributes: o.bytes[base+2],
		X:          o.bytes[base+3],
	}
}

// Clear zeroes every byte, for power-up and reset.
func (o *OAM) Clear() {
	o.bytes = [256]uint8{}
}
