package cartridge

import "bytes"

// buildINES assembles a minimal iNES image in memory: header, optional
// trainer, PRG, then CHR. Tests use it instead of shipping .nes fixtures.
func buildINES(prgBanks, chrBanks uint8, flags6, flags7 uint8, trainer bool) []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1a")
	buf.WriteByte(prgBanks)
	buf.WriteByte(chrBanks)
	buf.WriteByte(flags6)
	buf.WriteByte(flags7)
	buf.Write(make([]byte, 8)) // PRG RAM size, TV system, padding

	if trainer {
		buf.Write(make([]byte, 512))
	}
	buf.Write(make([]byte, int(prgBanks)*16384))
	buf.Write(make([]byte, int(chrBanks)*8192))
	return buf.Bytes()
}
