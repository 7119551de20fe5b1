// Package app implements the frame scheduler: the cooperative loop that
// alternates MPU instructions with PPU scanline ticks and hands
// completed frames to a display backend.
package app

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"nesgo/internal/bus"
	"nesgo/internal/cartridge"
	"nesgo/internal/cpu"
	"nesgo/internal/display"
)

// instructionsPerScanline approximates the NTSC ratio of CPU instructions
// to PPU scanlines closely enough for the coarse, non-cycle-exact
// scheduling this core targets (real hardware runs 3 PPU cycles per CPU
// cycle, 341 PPU cycles per scanline; an "instruction" here stands in
// for a CPU time slice rather than a literal one-opcode step).
const instructionsPerScanline = 113

// scanlinesPerFrame is the full NTSC sweep: 240 visible, 1 post-render,
// 20 vblank, 1 pre-render.
const scanlinesPerFrame = 262

// Scheduler owns the bus (and through it, the MPU and PPU) and drives
// the fixed alternation described for the concurrency model: a slice of
// MPU instructions, then one PPU tick, repeated for a full frame.
type Scheduler struct {
	Bus    *bus.Bus
	Window display.Window

	// Trace logs one line per executed instruction, the CLI's -t flag.
	Trace bool

	quit    atomic.Bool
	stepped uint64
}

// New wires a fresh Bus to the given display window. LoadROM must be
// called before Run/RunFrame produce meaningful output.
func New(window display.Window) *Scheduler {
	return &Scheduler{Bus: bus.New(), Window: window}
}

// LoadROM parses path as an iNES image and resets the system with it
// loaded.
func (s *Scheduler) LoadROM(path string) error {
	cart, err := cartridge.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("app: loading cartridge: %w", err)
	}
	s.Bus.LoadCartridge(cart)
	s.Reset()
	return nil
}

// Reset restores power-up CPU/PPU state.
func (s *Scheduler) Reset() {
	s.Bus.Reset()
	s.quit.Store(false)
}

// StepInstruction executes exactly one MPU instruction, for -s
// single-step mode and for tests that assert against a specific
// instruction boundary. The RTI sentinel is absorbed here: it unwinds
// the interrupt nesting and the outer budget simply resumes. Anything
// else (end-of-execution, a corrupt dispatch table) comes back as a
// fault.
func (s *Scheduler) StepInstruction() error {
	c := s.Bus.CPU
	if s.Trace {
		log.Printf("%04X  %-3s A:%02X X:%02X Y:%02X P:%02X SP:%02X",
			c.PC, cpu.OpcodeName(s.Bus.Read(c.PC)), c.A, c.X, c.Y, c.GetStatusByte(), c.SP)
	}
	s.stepped++
	err := c.Step()
	if err == nil || errors.Is(err, cpu.ErrReturnFromInterrupt) {
		return nil
	}
	return err
}

// RunFrame sweeps one full 262-scanline frame: instructionsPerScanline
// MPU instructions, then one PPU scanline tick, repeated, then a
// present through the display window.
func (s *Scheduler) RunFrame() error {
	for i := 0; i < scanlinesPerFrame; i++ {
		for j := 0; j < instructionsPerScanline; j++ {
			if err := s.StepInstruction(); err != nil {
				return fmt.Errorf("app: scanline %d: %w", i, err)
			}
		}
		s.Bus.StepPPU()
	}

	if s.Window != nil {
		if err := s.Window.RenderFrame(s.Bus.PPU.GetFrameBuffer()); err != nil {
			return fmt.Errorf("app: presenting frame: %w", err)
		}
	}
	return nil
}

// Run drives frames until Quit is called or the window reports it
// should close.
func (s *Scheduler) Run(frames int) error {
	for i := 0; (frames <= 0 || i < frames) && !s.quit.Load(); i++ {
		if err := s.RunFrame(); err != nil {
			return err
		}
		if s.Window != nil && s.Window.ShouldClose() {
			return nil
		}
	}
	return nil
}

// Quit requests the scheduler exit at the next frame boundary; safe to
// call from a signal handler goroutine.
func (s *Scheduler) Quit() {
	s.quit.Store(true)
}

// Dump renders the fault-reporting snapshot: status, program counter,
// registers, and a hex/ASCII dump of the first kilobyte of RAM.
func (s *Scheduler) Dump() string {
	c := s.Bus.CPU
	var b strings.Builder
	fmt.Fprintf(&b, "P=%02X PC=%04X A=%02X X=%02X Y=%02X SP=%02X scanline=%d frame=%d steps=%d\n",
		c.GetStatusByte(), c.PC, c.A, c.X, c.Y, c.SP,
		s.Bus.PPU.GetScanline(), s.Bus.PPU.GetFrameCount(), s.stepped)
	b.WriteString("RAM (first 1024 bytes):\n")
	for row := 0; row < 64; row++ {
		fmt.Fprintf(&b, "%04X: ", row*16)
		ascii := make([]byte, 16)
		for col := 0; col < 16; col++ {
			v := s.Bus.RAM.Read(uint16(row*16 + col))
			fmt.Fprintf(&b, "%02X ", v)
			if v >= 0x20 && v < 0x7F {
				ascii[col] = v
			} else {
				ascii[col] = '.'
			}
		}
		fmt.Fprintf(&b, " %s\n", ascii)
	}
	return b.String()
}
