// Package bus implements the address-decoding glue between the MPU, the
// PPU, CPU RAM, and the cartridge: the single read/write entry point the
// MPU's MemoryInterface calls through, OAM DMA, and NMI forwarding.
package bus

import (
	"nesgo/internal/cartridge"
	"nesgo/internal/cpu"
	"nesgo/internal/memory"
	"nesgo/internal/ppu"
)

// Bus owns the CPU's view of the 16-bit address space and wires the MPU
// and PPU together. It satisfies cpu.MemoryInterface.
type Bus struct {
	CPU *cpu.CPU
	PPU *ppu.PPU
	RAM *memory.RAM

	cart *cartridge.Cartridge

	dmaInProgress bool
}

// New wires a fresh CPU and PPU to a fresh work-RAM region. LoadCartridge
// must be called before Reset to get a runnable system.
func New() *Bus {
	b := &Bus{
		PPU: ppu.New(),
		RAM: memory.NewRAM(),
	}
	b.CPU = cpu.New(b)
	b.PPU.SetNMICallback(b.nmi)
	return b
}

// LoadCartridge binds a parsed cartridge to both the CPU-visible PRG
// space and the PPU's pattern tables/nametable arrangement.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	vram := memory.NewVRAM(cart, toVRAMMirror(cart.GetMirrorMode()))
	b.PPU.SetMemory(vram)
}

func toVRAMMirror(m cartridge.MirrorMode) memory.MirrorMode {
	switch m {
	case cartridge.MirrorVertical:
		return memory.MirrorVertical
	case cartridge.MirrorSingleScreen0:
		return memory.MirrorSingleScreen0
	case cartridge.MirrorSingleScreen1:
		return memory.MirrorSingleScreen1
	case cartridge.MirrorFourScreen:
		return memory.MirrorFourScreen
	default:
		return memory.MirrorHorizontal
	}
}

// Reset restores CPU and PPU power-up state. The cartridge (and its
// reset/NMI vectors) must already be loaded.
func (b *Bus) Reset() {
	b.PPU.Reset()
	b.CPU.Reset()
	b.dmaInProgress = false
}

// mirrorPPU reduces a $2008-$3FFF address to its canonical $2000-$2007
// port, per the 8-byte PPU register mirror.
func mirrorPPU(address uint16) uint16 {
	return 0x2000 + (address & 0x0007)
}

// Read services an MPU read: the 2 KiB RAM mirror below $2000, the PPU
// port mirror from $2000 to $3FFF, and cartridge space from $6000 up.
// $4000-$5FFF reads as 0.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.RAM.Read(address)
	case address < 0x4000:
		return b.PPU.ReadRegister(mirrorPPU(address))
	case address >= 0x6000:
		if b.cart != nil {
			return b.cart.ReadPRG(address)
		}
		return 0
	default:
		return 0
	}
}

// Write services an MPU write, with the OAM-DMA port as a special case:
// a write to $4014 copies the named CPU page into OAM synchronously.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.RAM.Write(address, value)
	case address < 0x4000:
		b.PPU.WriteRegister(mirrorPPU(address), value)
	case address == 0x4014:
		b.oamDMA(value)
	case address >= 0x6000:
		if b.cart != nil {
			b.cart.WritePRG(address, value)
		}
	}
}

// oamDMA copies the 256 bytes of CPU page `value` into OAM in order,
// through the PPU's OAM data port ($2004), exactly as a real DMA
// controller would.
func (b *Bus) oamDMA(page uint8) {
	b.dmaInProgress = true
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		b.PPU.WriteRegister(0x2004, b.Read(base+i))
	}
	b.dmaInProgress = false
}

// IsDMAInProgress reports whether an OAM DMA copy is currently running.
// DMA is synchronous in this model, so this is only ever observed by a
// caller inspecting bus state from within the write that triggered it.
func (b *Bus) IsDMAInProgress() bool {
	return b.dmaInProgress
}

// nmi is the PPU's upward signal, forwarded to the MPU's interrupt
// entry point at the next instruction boundary.
func (b *Bus) nmi() {
	b.CPU.TriggerNMI()
}

// StepPPU advances the PPU by one full scanline; the frame scheduler
// calls this once per alternation slice.
func (b *Bus) StepPPU() {
	b.PPU.StepScanline()
}
