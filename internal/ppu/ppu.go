// Package ppu implements the scanline-driven Picture Processing Unit: the
// eight CPU-visible register ports, the background/sprite pixel pipeline,
// and the vertical-blank/NMI handshake with the bus.
package ppu

import "nesgo/internal/memory"

// PPU is the NES 2C02. It owns its own video memory (through VRAM) and
// sprite-attribute table, and exposes the eight $2000-$2007 register
// ports the bus routes CPU reads/writes to.
type PPU struct {
	ppuCtrl   uint8
	ppuMask   uint8
	ppuStatus uint8
	oamAddr   uint8

	v uint16 // current VRAM address (15 bits used, 14 significant)
	t uint16 // temporary VRAM address / scroll latch
	x uint8  // fine X scroll (3 bits)
	w bool   // shared write toggle for $2005/$2006

	vram *memory.VRAM
	oam  memory.OAM

	scanline   int // -1 (pre-render) .. 260
	cycle      int // 0..340
	frameCount uint64
	oddFrame   bool
	readBuffer uint8

	secondaryOAM     [32]uint8
	spriteIndexes    [8]uint8
	spriteCount      uint8
	sprite0Hit       bool
	sprite0OnLine    bool
	spriteOverflow   bool
	lastEvalScanline int

	frameBuffer [256 * 240]uint32

	nmiCallback           func()
	frameCompleteCallback func()

	backgroundEnabled bool
	spritesEnabled    bool
	renderingEnabled  bool

	cycleCount uint64
}

// New returns a PPU parked at the pre-render scanline, as it is after
// power-up before the first Reset.
func New() *PPU {
	return &PPU{scanline: -1}
}

// Reset restores the power-up register and timing state and clears OAM
// and the frame buffer. VRAM contents are not touched.
func (p *PPU) Reset() {
	p.ppuCtrl = 0
	p.ppuMask = 0
	p.ppuStatus = 0xA0
	p.oamAddr = 0

	p.v, p.t, p.x, p.w = 0, 0, 0, false

	p.scanline = -1
	p.cycle = 0
	p.frameCount = 0
	p.oddFrame = false
	p.readBuffer = 0

	p.spriteCount = 0
	p.sprite0Hit = false
	p.spriteOverflow = false
	p.lastEvalScanline = -999

	p.backgroundEnabled = false
	p.spritesEnabled = false
	p.renderingEnabled = false
	p.cycleCount = 0

	p.oam.Clear()
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
}

// SetMemory binds the PPU to a cartridge's pattern tables and nametable
// arrangement. Called once at cartridge load.
func (p *PPU) SetMemory(vram *memory.VRAM) {
	p.vram = vram
}

// SetNMICallback registers the bus's NMI-forwarding hook, called at the
// moment vertical blank starts if NMI generation is enabled.
func (p *PPU) SetNMICallback(callback func()) {
	p.nmiCallback = callback
}

// SetFrameCompleteCallback registers the scheduler's post-scanline-260
// hook.
func (p *PPU) SetFrameCompleteCallback(callback func()) {
	p.frameCompleteCallback = callback
}

// ReadRegister services a CPU read of a $2000-$2007 port (already
// reduced to its canonical address by the bus's mirror rule).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		status := p.ppuStatus
		p.ppuStatus &= 0x7F // clear VBL (bit 7); sprite-0 hit stays latched
		p.w = false
		return status
	case 0x2004:
		return p.oam.Read(p.oamAddr)
	case 0x2007:
		return p.readPPUData()
	default: // 2000/2001/2003/2005/2006 are write-only: open bus
		return p.ppuStatus & 0x1F
	}
}

// WriteRegister services a CPU write to a $2000-$2007 port.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x2000:
		p.ppuCtrl = value
		p.t = (p.t & 0xF3FF) | ((uint16(value) & 0x03) << 10)
		p.updateRenderingFlags()
		p.checkNMI()
	case 0x2001:
		p.ppuMask = value
		p.updateRenderingFlags()
	case 0x2002:
		// read-only
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam.Write(p.oamAddr, value)
		p.oamAddr++
	case 0x2005:
		p.writeScroll(value)
	case 0x2006:
		p.writeAddr(value)
	case 0x2007:
		p.writePPUData(value)
	}
}

// WriteOAM stores a byte at a flat OAM index directly, bypassing the
// $2004 port and its address pointer. OAM DMA does not use it; the bus
// copies through $2004.
func (p *PPU) WriteOAM(address uint8, value uint8) {
	p.oam.Write(address, value)
}

// Sprite decodes OAM entry n (0-63) into its four fields, the
// structured view DMA verification and debuggers use.
func (p *PPU) Sprite(n uint8) memory.SpriteEntry {
	return p.oam.Entry(n)
}

// StepScanline advances a full scanline's worth of PPU cycles (341),
// the granularity the frame scheduler drives: one call per scheduler
// slice rather than per individual PPU cycle.
func (p *PPU) StepScanline() {
	startScanline := p.scanline
	for p.scanline == startScanline {
		p.Step()
	}
}

func (p *PPU) Step() {
	p.cycleCount++
	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameCount++
			p.oddFrame = !p.oddFrame
			if p.frameCompleteCallback != nil {
				p.frameCompleteCallback()
			}
		}
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.ppuStatus |= 0x80
		p.ppuStatus &= 0xDF // bit 5 (overflow) clears at vblank start
		p.spriteOverflow = false
		if p.ppuCtrl&0x80 != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	}

	if p.scanline == -1 && p.cycle == 1 {
		p.ppuStatus &= 0x3F // vblank (bit 7) and sprite-0 hit (bit 6) clear on pre-render
		p.sprite0Hit = false
	}

	if p.scanline == 0 && p.cycle == 0 && p.renderingEnabled {
		p.v = p.t
	}

	if p.scanline >= -1 && p.scanline < 240 {
		p.renderCycle()
	}
}

func (p *PPU) renderCycle() {
	if p.spritesEnabled && p.scanline >= 0 && p.scanline < 240 && p.cycle == 1 {
		if p.lastEvalScanline != p.scanline {
			p.evaluateSprites()
		}
	}

	// Sprite-0 hit detection starts one cycle ahead of the leftmost pixel.
	if p.scanline < 0 || p.scanline >= 240 || p.cycle < 2 || p.cycle > 257 {
		return
	}
	if p.vram == nil || (!p.backgroundEnabled && !p.spritesEnabled) {
		return
	}

	pixelX := p.cycle - 2
	pixelY := p.scanline

	background := pixel{transparent: true}
	if p.backgroundEnabled {
		background = p.renderBackgroundPixel(pixelX, pixelY)
	}

	sprite := pixel{transparent: true}
	if p.spritesEnabled {
		sprite = p.renderSpritePixel(pixelX, pixelY)
	}

	p.frameBuffer[pixelY*256+pixelX] = p.composite(background, sprite)
}

// pixel is one candidate color for the output buffer, from either the
// background pipeline or a sprite.
type pixel struct {
	colorIndex  uint8
	paletteIdx  uint8
	rgb         uint32
	spriteSlot  int8
	priority    bool // true = behind background
	transparent bool
}

// evaluateSprites runs the classic 64-entry scan once per visible
// scanline, keeping at most 8 matches in secondary OAM and setting the
// overflow flag once a ninth is found.
func (p *PPU) evaluateSprites() {
	p.lastEvalScanline = p.scanline
	p.spriteOverflow = false
	p.sprite0OnLine = false

	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
	for i := range p.spriteIndexes {
		p.spriteIndexes[i] = 0xFF
	}

	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}

	found := 0
	for n := uint8(0); n < 64; n++ {
		entry := p.oam.Entry(n)
		y := int(entry.Y)
		if p.scanline < y+1 || p.scanline >= y+1+height {
			continue
		}
		if found < 8 {
			idx := found * 4
			p.secondaryOAM[idx] = entry.Y
			p.secondaryOAM[idx+1] = entry.Tile
			p.secondaryOAM[idx+2] = entry.Attributes
			p.secondaryOAM[idx+3] = entry.X
			p.spriteIndexes[found] = n
			if n == 0 {
				p.sprite0OnLine = true
			}
			found++
		} else {
			p.spriteOverflow = true
			p.ppuStatus |= 0x20
			break
		}
	}
	p.spriteCount = uint8(found)
}

// renderBackgroundPixel computes one background pixel from the scroll
// fields latched in t (coarse X/Y, nametable select, fine Y) plus the
// fine-X latch. It does not read v, and rendering never advances v.
func (p *PPU) renderBackgroundPixel(pixelX, pixelY int) pixel {
	scrollX := int(p.t&0x001F)<<3 + int(p.x)
	scrollY := int((p.t>>5)&0x001F)<<3 + int((p.t>>12)&0x0007)
	nametable := int((p.t >> 10) & 0x0003)

	worldX := pixelX + scrollX
	worldY := pixelY + scrollY

	if worldX < 0 {
		nametable ^= 1
		worldX += 256
	} else if worldX >= 256 {
		nametable ^= 1
		worldX -= 256
	}
	if worldY < 0 {
		nametable ^= 2
		worldY += 240
	} else if worldY >= 240 {
		nametable ^= 2
		worldY -= 240
	}

	tileX, tileY := worldX>>3, worldY>>3
	pixelInTileX, pixelInTileY := worldX&7, worldY&7
	if tileX < 0 || tileX >= 32 || tileY < 0 || tileY >= 30 {
		return pixel{transparent: true}
	}

	nametableAddr := 0x2000 | (uint16(nametable&3) << 10) | uint16(tileY*32+tileX)
	tileID := p.vram.Read(nametableAddr)

	attrAddr := 0x23C0 | (uint16(nametable&3) << 10) | uint16((tileY>>2)*8+(tileX>>2))
	attrByte := p.vram.Read(attrAddr)
	block := ((tileX & 3) >> 1) + ((tileY&3)>>1)*2
	paletteIdx := (attrByte >> (uint(block) << 1)) & 0x03

	patternBase := uint16(0x0000)
	if p.ppuCtrl&0x10 != 0 {
		patternBase = 0x1000
	}
	patternAddr := patternBase + uint16(tileID)*16 + uint16(pixelInTileY)
	low := p.vram.Read(patternAddr)
	high := p.vram.Read(patternAddr + 8)

	shift := 7 - pixelInTileX
	colorIndex := ((high >> shift) & 1 << 1) | ((low >> shift) & 1)

	paletteAddr := uint16(0x3F00)
	if colorIndex != 0 {
		paletteAddr = 0x3F00 + uint16(paletteIdx)*4 + uint16(colorIndex)
	}
	nesColor := p.vram.Read(paletteAddr)

	return pixel{
		colorIndex:  colorIndex,
		paletteIdx:  paletteIdx,
		rgb:         NESColorToRGB(nesColor),
		spriteSlot:  -1,
		transparent: colorIndex == 0,
	}
}

// renderSpritePixel returns the first (highest-priority) non-transparent
// sprite covering this pixel from the scanline's secondary OAM.
func (p *PPU) renderSpritePixel(pixelX, pixelY int) pixel {
	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}

	for i := 0; i < int(p.spriteCount); i++ {
		idx := i * 4
		y := int(p.secondaryOAM[idx])
		tile := p.secondaryOAM[idx+1]
		attrs := p.secondaryOAM[idx+2]
		x := int(p.secondaryOAM[idx+3])

		if pixelX < x || pixelX >= x+8 || pixelY < y+1 || pixelY >= y+1+height {
			continue
		}
		px, py := pixelX-x, pixelY-(y+1)
		if attrs&0x40 != 0 {
			px = 7 - px
		}
		if attrs&0x80 != 0 {
			py = height - 1 - py
		}

		colorIndex := p.spritePatternColor(tile, px, py, attrs)
		if colorIndex == 0 {
			continue
		}

		if p.isSprite0(i) && !p.sprite0Hit {
			p.checkSprite0Hit(pixelX, pixelY, colorIndex)
		}

		paletteIdx := attrs & 0x03
		paletteAddr := 0x3F10 + uint16(paletteIdx)*4 + uint16(colorIndex)
		nesColor := p.vram.Read(paletteAddr)

		return pixel{
			colorIndex: colorIndex,
			paletteIdx: paletteIdx,
			rgb:        NESColorToRGB(nesColor),
			spriteSlot: int8(i),
			priority:   attrs&0x20 != 0,
		}
	}
	return pixel{transparent: true, spriteSlot: -1}
}

func (p *PPU) spritePatternColor(tile uint8, px, py int, attrs uint8) uint8 {
	var base uint16
	if p.ppuCtrl&0x20 == 0 { // 8x8
		if p.ppuCtrl&0x08 != 0 {
			base = 0x1000
		}
	} else { // 8x16: tile bit 0 selects the pattern table
		if tile&0x01 != 0 {
			base = 0x1000
		}
		tile &= 0xFE
		if py >= 8 {
			tile++
			py -= 8
		}
	}

	addr := base + uint16(tile)*16 + uint16(py)
	low := p.vram.Read(addr)
	high := p.vram.Read(addr + 8)
	shift := 7 - px
	return ((high >> shift) & 1 << 1) | ((low >> shift) & 1)
}

func (p *PPU) isSprite0(secondaryIndex int) bool {
	return secondaryIndex < int(p.spriteCount) && p.spriteIndexes[secondaryIndex] == 0
}

// checkSprite0Hit implements the documented exceptions: no hit in the
// masked leftmost 8 pixels, none past x=254, none with either layer
// disabled, and the flag latches until the next pre-render clear.
func (p *PPU) checkSprite0Hit(pixelX, pixelY int, spriteColorIndex uint8) {
	if p.sprite0Hit || !p.backgroundEnabled || !p.spritesEnabled {
		return
	}
	if pixelX >= 255 {
		return
	}
	if pixelX < 8 && (p.ppuMask&0x02 == 0 || p.ppuMask&0x04 == 0) {
		return
	}
	background := p.renderBackgroundPixel(pixelX, pixelY)
	if !background.transparent && spriteColorIndex != 0 {
		p.sprite0Hit = true
		p.ppuStatus |= 0x40
	}
}

func (p *PPU) composite(background, sprite pixel) uint32 {
	if sprite.transparent {
		if background.transparent {
			return NESColorToRGB(p.vram.Read(0x3F00))
		}
		return background.rgb
	}
	if background.transparent {
		return sprite.rgb
	}
	if sprite.priority && p.backgroundEnabled {
		return background.rgb
	}
	return sprite.rgb
}

func (p *PPU) updateRenderingFlags() {
	p.backgroundEnabled = p.ppuMask&0x08 != 0
	p.spritesEnabled = p.ppuMask&0x10 != 0
	p.renderingEnabled = p.backgroundEnabled || p.spritesEnabled
}

func (p *PPU) checkNMI() {
	if p.ppuCtrl&0x80 != 0 && p.ppuStatus&0x80 != 0 && p.nmiCallback != nil {
		p.nmiCallback()
	}
}

// writeScroll handles the two-write $2005 sequence: coarse-X/fine-X on
// the first write, coarse-Y/fine-Y on the second.
func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.t = (p.t & 0xFFE0) | (uint16(value) >> 3)
		p.x = value & 0x07
	} else {
		p.t = (p.t & 0x8FFF) | ((uint16(value) & 0x07) << 12)
		p.t = (p.t & 0xFC1F) | ((uint16(value) & 0xF8) << 2)
	}
	p.w = !p.w
}

// writeAddr handles the two-write $2006 sequence, sharing the toggle
// with writeScroll: only the second write commits t into v.
func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t & 0x80FF) | ((uint16(value) & 0x3F) << 8)
	} else {
		p.t = (p.t & 0xFF00) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

// readPPUData implements the ring-delayed $2007 read: palette reads
// bypass the buffer, everything else returns the previous buffer and
// refills it from the just-read address.
func (p *PPU) readPPUData() uint8 {
	var data uint8
	if p.vram == nil {
		data = 0
	} else if p.v >= 0x3F00 {
		data = p.vram.Read(p.v)
		p.readBuffer = p.vram.Read(p.v & 0x2FFF)
	} else {
		data = p.readBuffer
		p.readBuffer = p.vram.Read(p.v)
	}
	p.advanceVRAMAddress()
	return data
}

func (p *PPU) writePPUData(value uint8) {
	if p.vram != nil {
		p.vram.Write(p.v, value)
	}
	p.advanceVRAMAddress()
}

func (p *PPU) advanceVRAMAddress() {
	if p.ppuCtrl&0x04 != 0 {
		p.v += 32
	} else {
		p.v++
	}
	p.v &= 0x3FFF
}

// GetFrameBuffer returns the 256x240 RGB pixel buffer as it stands right
// now; the host surface layer owns deciding when to present it.
func (p *PPU) GetFrameBuffer() [256 * 240]uint32 {
	return p.frameBuffer
}

// GetFrameCount returns the number of frames completed since Reset.
func (p *PPU) GetFrameCount() uint64 {
	return p.frameCount
}

// SetFrameCount overwrites the completed-frame count that
// GetFrameCount reports.
func (p *PPU) SetFrameCount(count uint64) {
	p.frameCount = count
}

// GetScanline returns the current scanline (-1..260).
func (p *PPU) GetScanline() int {
	return p.scanline
}

// GetCycle returns the current PPU cycle within the scanline (0..340).
func (p *PPU) GetCycle() int {
	return p.cycle
}

// IsRenderingEnabled reports whether background or sprite rendering is on.
func (p *PPU) IsRenderingEnabled() bool {
	return p.renderingEnabled
}

// IsVBlank reports the live state of the vertical-blank status bit.
func (p *PPU) IsVBlank() bool {
	return p.ppuStatus&0x80 != 0
}

// GetCycleCount returns the running total of PPU cycles since Reset.
func (p *PPU) GetCycleCount() uint64 {
	return p.cycleCount
}

// nesColorPalette is the 64-entry NTSC 2C02 palette, ARGB with full alpha.
var nesColorPalette = [64]uint32{
	0xFF666666, 0xFF002A88, 0xFF1412A7, 0xFF3B00A4, 0xFF5C007E, 0xFF6E0040, 0xFF6C0600, 0xFF561D00,
	0xFF333500, 0xFF0B4800, 0xFF005200, 0xFF004F08, 0xFF00404D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFADADAD, 0xFF155FD9, 0xFF4240FF, 0xFF7527FE, 0xFFA01ACC, 0xFFB71E7B, 0xFFB53120, 0xFF994E00,
	0xFF6B6D00, 0xFF388700, 0xFF0C9300, 0xFF008F32, 0xFF007C8D, 0xFF000000, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFF64B0FF, 0xFF9290FF, 0xFFC676FF, 0xFFF36AFF, 0xFFFE6ECC, 0xFFFE8170, 0xFFEA9E22,
	0xFFBCBE00, 0xFF88D800, 0xFF5CE430, 0xFF45E082, 0xFF48CDDE, 0xFF4F4F4F, 0xFF000000, 0xFF000000,
	0xFFFFFEFF, 0xFFC0DFFF, 0xFFD3D2FF, 0xFFE8C8FF, 0xFFFBC2FF, 0xFFFEC4EA, 0xFFFECCC5, 0xFFF7D8A5,
	0xFFE4E594, 0xFFCFF29B, 0xFFBEFBB3, 0xFFB8F8D8, 0xFFB8F8F8, 0xFF000000, 0xFF000000, 0xFF000000,
}

// NESColorToRGB converts a 6-bit NES palette index to a 24-bit RGB color.
func NESColorToRGB(colorIndex uint8) uint32 {
	if colorIndex >= 64 {
		return 0
	}
	return nesColorPalette[colorIndex] & 0x00FFFFFF
}

// SetFrameBufferForTesting overwrites the pixel buffer directly, for
// fixture setup in tests that assert composition without driving a full
// scanline sweep.
func (p *PPU) SetFrameBufferForTesting(buffer [256 * 240]uint32) {
	p.frameBuffer = buffer
}
