// Package cpu implements the 6502-family MPU interpreter: the 256-entry
// opcode dispatch table, the addressing-mode machinery, and the
// reset/NMI entry points the bus and frame scheduler drive.
package cpu

import (
	"errors"
	"fmt"
)

// AddressingMode selects how an instruction's operand bytes are turned
// into a fetched value and/or an effective address.
type AddressingMode int

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect         // (zp,X)
	IndirectIndexed         // (zp),Y
	AbsoluteIndexedIndirect // (abs,X)
)

const (
	// Stack lives in fixed page 1.
	stackBase = 0x0100
	// Status register bit positions, MSB to LSB.
	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01
	// Interrupt vectors.
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// The error kinds of the execution engine. None is meant to be caught
// and retried; ErrReturnFromInterrupt is a control-flow sentinel for
// the frame scheduler, not a fault.
var (
	ErrEndOfExecution        = errors.New("cpu: end of execution")
	ErrIllegalAddressingMode = errors.New("cpu: illegal addressing mode")
	ErrReturnFromInterrupt   = errors.New("cpu: return from interrupt")
)

// handlerFunc is one entry point of the dispatch table: an operation
// applied to the CPU under a concrete addressing mode.
type handlerFunc func(*CPU, AddressingMode) error

// Instruction is one slot of the 256-entry dispatch table.
type Instruction struct {
	Name    string
	Mode    AddressingMode
	handler handlerFunc
}

// instructions is the fixed dispatch table, constructed once. Unmapped
// entries are nil and terminate execution when fetched.
var instructions = buildInstructionTable()

// OpcodeName returns the mnemonic the dispatch table maps opcode to, or
// "???" for an unmapped entry. The CLI's trace mode uses it.
func OpcodeName(opcode uint8) string {
	if ins := instructions[opcode]; ins != nil {
		return ins.Name
	}
	return "???"
}

// MemoryInterface is the CPU's view of the bus: every operand byte and
// effective-address access goes through it.
type MemoryInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU is the MPU: three 8-bit general registers, the page-1 stack
// pointer, the 16-bit program counter, and the seven stored status flags
// kept unpacked as booleans (packed only when pushed to the stack).
type CPU struct {
	A  uint8  // Accumulator
	X  uint8  // X register
	Y  uint8  // Y register
	SP uint8  // Stack pointer, index into page 1
	PC uint16 // Program counter

	C bool // Carry
	Z bool // Zero
	I bool // Interrupt disable
	D bool // Decimal mode (ignored by this variant)
	B bool // Break
	V bool // Overflow
	N bool // Sign

	memory MemoryInterface

	nmiPending bool
}

// New returns a CPU wired to memory, parked before its first Reset.
func New(memory MemoryInterface) *CPU {
	return &CPU{
		memory: memory,
		SP:     0xFD,
	}
}

// Reset seeds PC from the reset vector and clears the general
// registers. Flags and the stack are left untouched.
func (cpu *CPU) Reset() {
	cpu.A = 0
	cpu.X = 0
	cpu.Y = 0
	low := uint16(cpu.memory.Read(resetVector))
	high := uint16(cpu.memory.Read(resetVector + 1))
	cpu.PC = (high << 8) | low
}

// TriggerNMI latches a pending non-maskable interrupt; the CPU vectors
// at the next instruction boundary, never mid-instruction.
func (cpu *CPU) TriggerNMI() {
	cpu.nmiPending = true
}

// serviceNMI pushes PC high then low, then the packed status, and
// vectors through 0xFFFA/B.
func (cpu *CPU) serviceNMI() {
	cpu.pushWord(cpu.PC)
	cpu.push(cpu.GetStatusByte())
	cpu.I = true
	low := uint16(cpu.memory.Read(nmiVector))
	high := uint16(cpu.memory.Read(nmiVector + 1))
	cpu.PC = (high << 8) | low
}

// Step executes one instruction at PC. A pending NMI consumes the step
// instead: the CPU pushes return state and vectors, and the handler's
// first instruction runs on the following step. An unmapped opcode returns
// ErrEndOfExecution; RTI completes normally and then returns the
// ErrReturnFromInterrupt sentinel so the scheduler can unwind.
func (cpu *CPU) Step() error {
	if cpu.nmiPending {
		cpu.nmiPending = false
		cpu.serviceNMI()
		return nil
	}

	opcode := cpu.memory.Read(cpu.PC)
	ins := instructions[opcode]
	if ins == nil {
		return fmt.Errorf("%w: opcode %#02x at %#04x", ErrEndOfExecution, opcode, cpu.PC)
	}
	cpu.PC++
	return ins.handler(cpu, ins.Mode)
}

// operand is an addressing mode's result: a fetched byte, an effective
// address, both available lazily, or neither, depending on the mode.
type operand struct {
	value      uint8
	address    uint16
	hasValue   bool
	hasAddress bool
}

// resolve consumes the operand bytes for mode, advancing PC past them,
// and returns the fetched byte and/or effective address. PC already
// points past the opcode byte.
func (cpu *CPU) resolve(mode AddressingMode) operand {
	switch mode {
	case Implied:
		return operand{}

	case Accumulator:
		return operand{value: cpu.A, hasValue: true}

	case Immediate:
		value := cpu.memory.Read(cpu.PC)
		cpu.PC++
		return operand{value: value, hasValue: true}

	case ZeroPage:
		address := uint16(cpu.memory.Read(cpu.PC))
		cpu.PC++
		return operand{address: address, hasAddress: true}

	case ZeroPageX:
		base := cpu.memory.Read(cpu.PC)
		cpu.PC++
		return operand{address: uint16(base + cpu.X), hasAddress: true}

	case ZeroPageY:
		base := cpu.memory.Read(cpu.PC)
		cpu.PC++
		return operand{address: uint16(base + cpu.Y), hasAddress: true}

	case Relative:
		// The displacement byte is consumed whether or not the branch
		// is taken; the effective address is PC-after-operand plus the
		// signed displacement.
		offset := int8(cpu.memory.Read(cpu.PC))
		cpu.PC++
		return operand{address: cpu.PC + uint16(int16(offset)), hasAddress: true}

	case Absolute:
		address := cpu.readWordAt(cpu.PC)
		cpu.PC += 2
		return operand{address: address, hasAddress: true}

	case AbsoluteX:
		base := cpu.readWordAt(cpu.PC)
		cpu.PC += 2
		return operand{address: base + uint16(cpu.X), hasAddress: true}

	case AbsoluteY:
		base := cpu.readWordAt(cpu.PC)
		cpu.PC += 2
		return operand{address: base + uint16(cpu.Y), hasAddress: true}

	case Indirect:
		ptr := cpu.readWordAt(cpu.PC)
		cpu.PC += 2
		return operand{address: cpu.readWordBugged(ptr), hasAddress: true}

	case IndexedIndirect: // (zp,X)
		base := cpu.memory.Read(cpu.PC)
		cpu.PC++
		ptr := base + cpu.X
		low := uint16(cpu.memory.Read(uint16(ptr)))
		high := uint16(cpu.memory.Read(uint16(ptr + 1))) // wraps within zero page
		return operand{address: (high << 8) | low, hasAddress: true}

	case IndirectIndexed: // (zp),Y
		ptr := cpu.memory.Read(cpu.PC)
		cpu.PC++
		low := uint16(cpu.memory.Read(uint16(ptr)))
		high := uint16(cpu.memory.Read(uint16(ptr + 1))) // wraps within zero page
		return operand{address: (high<<8 | low) + uint16(cpu.Y), hasAddress: true}

	case AbsoluteIndexedIndirect: // (abs,X)
		base := cpu.readWordAt(cpu.PC)
		cpu.PC += 2
		return operand{address: cpu.readWordAt(base + uint16(cpu.X)), hasAddress: true}

	default:
		return operand{}
	}
}

func (cpu *CPU) readWordAt(address uint16) uint16 {
	low := uint16(cpu.memory.Read(address))
	high := uint16(cpu.memory.Read(address + 1))
	return (high << 8) | low
}

// readWordBugged reproduces the JMP-indirect page-boundary quirk: a
// pointer ending in 0xFF fetches its high byte from the start of the
// same page rather than the next one.
func (cpu *CPU) readWordBugged(ptr uint16) uint16 {
	low := uint16(cpu.memory.Read(ptr))
	var high uint16
	if ptr&0x00FF == 0x00FF {
		high = uint16(cpu.memory.Read(ptr & 0xFF00))
	} else {
		high = uint16(cpu.memory.Read(ptr + 1))
	}
	return (high << 8) | low
}

// fetch returns the operand byte: the fetched value for immediate and
// accumulator modes, a bus read at the effective address otherwise.
func (cpu *CPU) fetch(name string, op operand) (uint8, error) {
	switch {
	case op.hasValue:
		return op.value, nil
	case op.hasAddress:
		return cpu.memory.Read(op.address), nil
	default:
		return 0, fmt.Errorf("%w: %s has no operand to fetch", ErrIllegalAddressingMode, name)
	}
}

// requireAddress returns the effective address for store and jump
// targets, which value-only modes cannot provide.
func (cpu *CPU) requireAddress(name string, op operand) (uint16, error) {
	if !op.hasAddress {
		return 0, fmt.Errorf("%w: %s requires an effective address", ErrIllegalAddressingMode, name)
	}
	return op.address, nil
}

// Stack operations: push decrements after writing, pop increments
// before reading, both wrapping within page 1.
func (cpu *CPU) push(value uint8) {
	cpu.memory.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.memory.Read(stackBase + uint16(cpu.SP))
}

func (cpu *CPU) pushWord(value uint16) {
	cpu.push(uint8(value >> 8))
	cpu.push(uint8(value))
}

func (cpu *CPU) popWord() uint16 {
	low := uint16(cpu.pop())
	high := uint16(cpu.pop())
	return (high << 8) | low
}

// setZN drives the sign and zero flags from a result byte.
func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&nFlagMask != 0
}

// GetStatusByte packs the flags into their fixed bit positions; the
// unused bit reads as set.
func (cpu *CPU) GetStatusByte() uint8 {
	var status uint8 = unusedMask
	if cpu.N {
		status |= nFlagMask
	}
	if cpu.V {
		status |= vFlagMask
	}
	if cpu.B {
		status |= bFlagMask
	}
	if cpu.D {
		status |= dFlagMask
	}
	if cpu.I {
		status |= iFlagMask
	}
	if cpu.Z {
		status |= zFlagMask
	}
	if cpu.C {
		status |= cFlagMask
	}
	return status
}

// SetStatusByte restores every flag from its bit position, the pull
// half of the PHP/PLP round trip.
func (cpu *CPU) SetStatusByte(status uint8) {
	cpu.N = status&nFlagMask != 0
	cpu.V = status&vFlagMask != 0
	cpu.B = status&bFlagMask != 0
	cpu.D = status&dFlagMask != 0
	cpu.I = status&iFlagMask != 0
	cpu.Z = status&zFlagMask != 0
	cpu.C = status&cFlagMask != 0
}

// Load/store.

func (cpu *CPU) lda(mode AddressingMode) error {
	value, err := cpu.fetch("LDA", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.A = value
	cpu.setZN(cpu.A)
	return nil
}

func (cpu *CPU) ldx(mode AddressingMode) error {
	value, err := cpu.fetch("LDX", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.X = value
	cpu.setZN(cpu.X)
	return nil
}

func (cpu *CPU) ldy(mode AddressingMode) error {
	value, err := cpu.fetch("LDY", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.Y = value
	cpu.setZN(cpu.Y)
	return nil
}

func (cpu *CPU) sta(mode AddressingMode) error {
	address, err := cpu.requireAddress("STA", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.memory.Write(address, cpu.A)
	return nil
}

func (cpu *CPU) stx(mode AddressingMode) error {
	address, err := cpu.requireAddress("STX", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.memory.Write(address, cpu.X)
	return nil
}

func (cpu *CPU) sty(mode AddressingMode) error {
	address, err := cpu.requireAddress("STY", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.memory.Write(address, cpu.Y)
	return nil
}

// Transfers. All but TXS update sign/zero on the destination.

func (cpu *CPU) tax(AddressingMode) error {
	cpu.X = cpu.A
	cpu.setZN(cpu.X)
	return nil
}

func (cpu *CPU) tay(AddressingMode) error {
	cpu.Y = cpu.A
	cpu.setZN(cpu.Y)
	return nil
}

func (cpu *CPU) txa(AddressingMode) error {
	cpu.A = cpu.X
	cpu.setZN(cpu.A)
	return nil
}

func (cpu *CPU) tya(AddressingMode) error {
	cpu.A = cpu.Y
	cpu.setZN(cpu.A)
	return nil
}

func (cpu *CPU) tsx(AddressingMode) error {
	cpu.X = cpu.SP
	cpu.setZN(cpu.X)
	return nil
}

func (cpu *CPU) txs(AddressingMode) error {
	cpu.SP = cpu.X
	return nil
}

// Arithmetic. The intermediate is computed 16 bits wide; carry observes
// bit 8 and overflow follows the (A^R) & (M^R) & 0x80 rule. SBC treats
// the operand as its bitwise complement and reuses the add rule, so
// carry set means no borrow occurred. Decimal mode is ignored.

func (cpu *CPU) addWithCarry(value uint8) {
	carry := uint16(0)
	if cpu.C {
		carry = 1
	}
	result := uint16(cpu.A) + uint16(value) + carry
	r := uint8(result)
	cpu.V = (cpu.A^r)&(value^r)&0x80 != 0
	cpu.C = result > 0xFF
	cpu.A = r
	cpu.setZN(cpu.A)
}

func (cpu *CPU) adc(mode AddressingMode) error {
	value, err := cpu.fetch("ADC", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.addWithCarry(value)
	return nil
}

func (cpu *CPU) sbc(mode AddressingMode) error {
	value, err := cpu.fetch("SBC", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.addWithCarry(value ^ 0xFF)
	return nil
}

// Logical.

func (cpu *CPU) and(mode AddressingMode) error {
	value, err := cpu.fetch("AND", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.A &= value
	cpu.setZN(cpu.A)
	return nil
}

func (cpu *CPU) ora(mode AddressingMode) error {
	value, err := cpu.fetch("ORA", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.A |= value
	cpu.setZN(cpu.A)
	return nil
}

func (cpu *CPU) eor(mode AddressingMode) error {
	value, err := cpu.fetch("EOR", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.A ^= value
	cpu.setZN(cpu.A)
	return nil
}

// Shifts and rotates operate on A in accumulator mode and on memory
// otherwise; writeShifted routes the result back accordingly.

func (cpu *CPU) writeShifted(op operand, value uint8) {
	if op.hasAddress {
		cpu.memory.Write(op.address, value)
	} else {
		cpu.A = value
	}
	cpu.setZN(value)
}

func (cpu *CPU) asl(mode AddressingMode) error {
	op := cpu.resolve(mode)
	value, err := cpu.fetch("ASL", op)
	if err != nil {
		return err
	}
	cpu.C = value&0x80 != 0
	cpu.writeShifted(op, value<<1)
	return nil
}

func (cpu *CPU) lsr(mode AddressingMode) error {
	op := cpu.resolve(mode)
	value, err := cpu.fetch("LSR", op)
	if err != nil {
		return err
	}
	cpu.C = value&0x01 != 0
	cpu.writeShifted(op, value>>1)
	return nil
}

func (cpu *CPU) rol(mode AddressingMode) error {
	op := cpu.resolve(mode)
	value, err := cpu.fetch("ROL", op)
	if err != nil {
		return err
	}
	oldCarry := cpu.C
	cpu.C = value&0x80 != 0
	value <<= 1
	if oldCarry {
		value |= 0x01
	}
	cpu.writeShifted(op, value)
	return nil
}

func (cpu *CPU) ror(mode AddressingMode) error {
	op := cpu.resolve(mode)
	value, err := cpu.fetch("ROR", op)
	if err != nil {
		return err
	}
	oldCarry := cpu.C
	cpu.C = value&0x01 != 0
	value >>= 1
	if oldCarry {
		value |= 0x80
	}
	cpu.writeShifted(op, value)
	return nil
}

// Increment/decrement.

func (cpu *CPU) inc(mode AddressingMode) error {
	address, err := cpu.requireAddress("INC", cpu.resolve(mode))
	if err != nil {
		return err
	}
	value := cpu.memory.Read(address) + 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return nil
}

func (cpu *CPU) dec(mode AddressingMode) error {
	address, err := cpu.requireAddress("DEC", cpu.resolve(mode))
	if err != nil {
		return err
	}
	value := cpu.memory.Read(address) - 1
	cpu.memory.Write(address, value)
	cpu.setZN(value)
	return nil
}

func (cpu *CPU) inx(AddressingMode) error {
	cpu.X++
	cpu.setZN(cpu.X)
	return nil
}

func (cpu *CPU) iny(AddressingMode) error {
	cpu.Y++
	cpu.setZN(cpu.Y)
	return nil
}

func (cpu *CPU) dex(AddressingMode) error {
	cpu.X--
	cpu.setZN(cpu.X)
	return nil
}

func (cpu *CPU) dey(AddressingMode) error {
	cpu.Y--
	cpu.setZN(cpu.Y)
	return nil
}

// Compares: subtract without storing; carry means register >= operand.

func (cpu *CPU) compare(register, value uint8) {
	cpu.C = register >= value
	cpu.setZN(register - value)
}

func (cpu *CPU) cmp(mode AddressingMode) error {
	value, err := cpu.fetch("CMP", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.compare(cpu.A, value)
	return nil
}

func (cpu *CPU) cpx(mode AddressingMode) error {
	value, err := cpu.fetch("CPX", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.compare(cpu.X, value)
	return nil
}

func (cpu *CPU) cpy(mode AddressingMode) error {
	value, err := cpu.fetch("CPY", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.compare(cpu.Y, value)
	return nil
}

// Branches. The displacement byte is consumed by resolve even when the
// condition fails; only the taken path moves PC.

func (cpu *CPU) branch(name string, mode AddressingMode, taken bool) error {
	address, err := cpu.requireAddress(name, cpu.resolve(mode))
	if err != nil {
		return err
	}
	if taken {
		cpu.PC = address
	}
	return nil
}

func (cpu *CPU) bcc(mode AddressingMode) error { return cpu.branch("BCC", mode, !cpu.C) }
func (cpu *CPU) bcs(mode AddressingMode) error { return cpu.branch("BCS", mode, cpu.C) }
func (cpu *CPU) bne(mode AddressingMode) error { return cpu.branch("BNE", mode, !cpu.Z) }
func (cpu *CPU) beq(mode AddressingMode) error { return cpu.branch("BEQ", mode, cpu.Z) }
func (cpu *CPU) bpl(mode AddressingMode) error { return cpu.branch("BPL", mode, !cpu.N) }
func (cpu *CPU) bmi(mode AddressingMode) error { return cpu.branch("BMI", mode, cpu.N) }
func (cpu *CPU) bvc(mode AddressingMode) error { return cpu.branch("BVC", mode, !cpu.V) }
func (cpu *CPU) bvs(mode AddressingMode) error { return cpu.branch("BVS", mode, cpu.V) }

// bit sets zero from A & M, overflow from bit 6 of M, sign from bit 7.
func (cpu *CPU) bit(mode AddressingMode) error {
	value, err := cpu.fetch("BIT", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.N = value&nFlagMask != 0
	cpu.V = value&vFlagMask != 0
	cpu.Z = cpu.A&value == 0
	return nil
}

// Jumps and subroutines.

func (cpu *CPU) jmp(mode AddressingMode) error {
	address, err := cpu.requireAddress("JMP", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.PC = address
	return nil
}

func (cpu *CPU) jsr(mode AddressingMode) error {
	address, err := cpu.requireAddress("JSR", cpu.resolve(mode))
	if err != nil {
		return err
	}
	cpu.pushWord(cpu.PC - 1)
	cpu.PC = address
	return nil
}

func (cpu *CPU) rts(AddressingMode) error {
	cpu.PC = cpu.popWord() + 1
	return nil
}

// brk pushes the address two past the opcode, then the status with the
// break flag set, and vectors through 0xFFFE/F.
func (cpu *CPU) brk(AddressingMode) error {
	cpu.pushWord(cpu.PC + 1)
	cpu.push(cpu.GetStatusByte() | bFlagMask)
	cpu.I = true
	low := uint16(cpu.memory.Read(irqVector))
	high := uint16(cpu.memory.Read(irqVector + 1))
	cpu.PC = (high << 8) | low
	return nil
}

// rti pops status, then PC low, then PC high, and signals the frame
// scheduler to unwind via the sentinel.
func (cpu *CPU) rti(AddressingMode) error {
	cpu.SetStatusByte(cpu.pop())
	cpu.PC = cpu.popWord()
	return ErrReturnFromInterrupt
}

// Stack instructions. PHP stores the packed byte directly, break flag
// set; PLP restores every flag from its bit position.

func (cpu *CPU) pha(AddressingMode) error {
	cpu.push(cpu.A)
	return nil
}

func (cpu *CPU) pla(AddressingMode) error {
	cpu.A = cpu.pop()
	cpu.setZN(cpu.A)
	return nil
}

func (cpu *CPU) php(AddressingMode) error {
	cpu.push(cpu.GetStatusByte() | bFlagMask)
	return nil
}

func (cpu *CPU) plp(AddressingMode) error {
	cpu.SetStatusByte(cpu.pop())
	return nil
}

// Flag instructions.

func (cpu *CPU) clc(AddressingMode) error { cpu.C = false; return nil }
func (cpu *CPU) sec(AddressingMode) error { cpu.C = true; return nil }
func (cpu *CPU) cli(AddressingMode) error { cpu.I = false; return nil }
func (cpu *CPU) sei(AddressingMode) error { cpu.I = true; return nil }
func (cpu *CPU) clv(AddressingMode) error { cpu.V = false; return nil }
func (cpu *CPU) cld(AddressingMode) error { cpu.D = false; return nil }
func (cpu *CPU) sed(AddressingMode) error { cpu.D = true; return nil }

func (cpu *CPU) nop(AddressingMode) error { return nil }

// buildInstructionTable lays out the 256-entry dispatch table. Only the
// documented opcodes are mapped; everything else stays nil and
// terminates execution when fetched.
func buildInstructionTable() [256]*Instruction {
	var table [256]*Instruction
	set := func(opcode uint8, name string, mode AddressingMode, handler handlerFunc) {
		table[opcode] = &Instruction{Name: name, Mode: mode, handler: handler}
	}

	// Load
	set(0xA9, "LDA", Immediate, (*CPU).lda)
	set(0xA5, "LDA", ZeroPage, (*CPU).lda)
	set(0xB5, "LDA", ZeroPageX, (*CPU).lda)
	set(0xAD, "LDA", Absolute, (*CPU).lda)
	set(0xBD, "LDA", AbsoluteX, (*CPU).lda)
	set(0xB9, "LDA", AbsoluteY, (*CPU).lda)
	set(0xA1, "LDA", IndexedIndirect, (*CPU).lda)
	set(0xB1, "LDA", IndirectIndexed, (*CPU).lda)

	set(0xA2, "LDX", Immediate, (*CPU).ldx)
	set(0xA6, "LDX", ZeroPage, (*CPU).ldx)
	set(0xB6, "LDX", ZeroPageY, (*CPU).ldx)
	set(0xAE, "LDX", Absolute, (*CPU).ldx)
	set(0xBE, "LDX", AbsoluteY, (*CPU).ldx)

	set(0xA0, "LDY", Immediate, (*CPU).ldy)
	set(0xA4, "LDY", ZeroPage, (*CPU).ldy)
	set(0xB4, "LDY", ZeroPageX, (*CPU).ldy)
	set(0xAC, "LDY", Absolute, (*CPU).ldy)
	set(0xBC, "LDY", AbsoluteX, (*CPU).ldy)

	// Store
	set(0x85, "STA", ZeroPage, (*CPU).sta)
	set(0x95, "STA", ZeroPageX, (*CPU).sta)
	set(0x8D, "STA", Absolute, (*CPU).sta)
	set(0x9D, "STA", AbsoluteX, (*CPU).sta)
	set(0x99, "STA", AbsoluteY, (*CPU).sta)
	set(0x81, "STA", IndexedIndirect, (*CPU).sta)
	set(0x91, "STA", IndirectIndexed, (*CPU).sta)

	set(0x86, "STX", ZeroPage, (*CPU).stx)
	set(0x96, "STX", ZeroPageY, (*CPU).stx)
	set(0x8E, "STX", Absolute, (*CPU).stx)

	set(0x84, "STY", ZeroPage, (*CPU).sty)
	set(0x94, "STY", ZeroPageX, (*CPU).sty)
	set(0x8C, "STY", Absolute, (*CPU).sty)

	// Transfer
	set(0xAA, "TAX", Implied, (*CPU).tax)
	set(0xA8, "TAY", Implied, (*CPU).tay)
	set(0x8A, "TXA", Implied, (*CPU).txa)
	set(0x98, "TYA", Implied, (*CPU).tya)
	set(0xBA, "TSX", Implied, (*CPU).tsx)
	set(0x9A, "TXS", Implied, (*CPU).txs)

	// Arithmetic
	set(0x69, "ADC", Immediate, (*CPU).adc)
	set(0x65, "ADC", ZeroPage, (*CPU).adc)
	set(0x75, "ADC", ZeroPageX, (*CPU).adc)
	set(0x6D, "ADC", Absolute, (*CPU).adc)
	set(0x7D, "ADC", AbsoluteX, (*CPU).adc)
	set(0x79, "ADC", AbsoluteY, (*CPU).adc)
	set(0x61, "ADC", IndexedIndirect, (*CPU).adc)
	set(0x71, "ADC", IndirectIndexed, (*CPU).adc)

	set(0xE9, "SBC", Immediate, (*CPU).sbc)
	set(0xE5, "SBC", ZeroPage, (*CPU).sbc)
	set(0xF5, "SBC", ZeroPageX, (*CPU).sbc)
	set(0xED, "SBC", Absolute, (*CPU).sbc)
	set(0xFD, "SBC", AbsoluteX, (*CPU).sbc)
	set(0xF9, "SBC", AbsoluteY, (*CPU).sbc)
	set(0xE1, "SBC", IndexedIndirect, (*CPU).sbc)
	set(0xF1, "SBC", IndirectIndexed, (*CPU).sbc)

	// Logical
	set(0x29, "AND", Immediate, (*CPU).and)
	set(0x25, "AND", ZeroPage, (*CPU).and)
	set(0x35, "AND", ZeroPageX, (*CPU).and)
	set(0x2D, "AND", Absolute, (*CPU).and)
	set(0x3D, "AND", AbsoluteX, (*CPU).and)
	set(0x39, "AND", AbsoluteY, (*CPU).and)
	set(0x21, "AND", IndexedIndirect, (*CPU).and)
	set(0x31, "AND", IndirectIndexed, (*CPU).and)

	set(0x09, "ORA", Immediate, (*CPU).ora)
	set(0x05, "ORA", ZeroPage, (*CPU).ora)
	set(0x15, "ORA", ZeroPageX, (*CPU).ora)
	set(0x0D, "ORA", Absolute, (*CPU).ora)
	set(0x1D, "ORA", AbsoluteX, (*CPU).ora)
	set(0x19, "ORA", AbsoluteY, (*CPU).ora)
	set(0x01, "ORA", IndexedIndirect, (*CPU).ora)
	set(0x11, "ORA", IndirectIndexed, (*CPU).ora)

	set(0x49, "EOR", Immediate, (*CPU).eor)
	set(0x45, "EOR", ZeroPage, (*CPU).eor)
	set(0x55, "EOR", ZeroPageX, (*CPU).eor)
	set(0x4D, "EOR", Absolute, (*CPU).eor)
	set(0x5D, "EOR", AbsoluteX, (*CPU).eor)
	set(0x59, "EOR", AbsoluteY, (*CPU).eor)
	set(0x41, "EOR", IndexedIndirect, (*CPU).eor)
	set(0x51, "EOR", IndirectIndexed, (*CPU).eor)

	// Shift/rotate
	set(0x0A, "ASL", Accumulator, (*CPU).asl)
	set(0x06, "ASL", ZeroPage, (*CPU).asl)
	set(0x16, "ASL", ZeroPageX, (*CPU).asl)
	set(0x0E, "ASL", Absolute, (*CPU).asl)
	set(0x1E, "ASL", AbsoluteX, (*CPU).asl)

	set(0x4A, "LSR", Accumulator, (*CPU).lsr)
	set(0x46, "LSR", ZeroPage, (*CPU).lsr)
	set(0x56, "LSR", ZeroPageX, (*CPU).lsr)
	set(0x4E, "LSR", Absolute, (*CPU).lsr)
	set(0x5E, "LSR", AbsoluteX, (*CPU).lsr)

	set(0x2A, "ROL", Accumulator, (*CPU).rol)
	set(0x26, "ROL", ZeroPage, (*CPU).rol)
	set(0x36, "ROL", ZeroPageX, (*CPU).rol)
	set(0x2E, "ROL", Absolute, (*CPU).rol)
	set(0x3E, "ROL", AbsoluteX, (*CPU).rol)

	set(0x6A, "ROR", Accumulator, (*CPU).ror)
	set(0x66, "ROR", ZeroPage, (*CPU).ror)
	set(0x76, "ROR", ZeroPageX, (*CPU).ror)
	set(0x6E, "ROR", Absolute, (*CPU).ror)
	set(0x7E, "ROR", AbsoluteX, (*CPU).ror)

	// Increment/decrement
	set(0xE6, "INC", ZeroPage, (*CPU).inc)
	set(0xF6, "INC", ZeroPageX, (*CPU).inc)
	set(0xEE, "INC", Absolute, (*CPU).inc)
	set(0xFE, "INC", AbsoluteX, (*CPU).inc)

	set(0xC6, "DEC", ZeroPage, (*CPU).dec)
	set(0xD6, "DEC", ZeroPageX, (*CPU).dec)
	set(0xCE, "DEC", Absolute, (*CPU).dec)
	set(0xDE, "DEC", AbsoluteX, (*CPU).dec)

	set(0xE8, "INX", Implied, (*CPU).inx)
	set(0xC8, "INY", Implied, (*CPU).iny)
	set(0xCA, "DEX", Implied, (*CPU).dex)
	set(0x88, "DEY", Implied, (*CPU).dey)

	// Compare
	set(0xC9, "CMP", Immediate, (*CPU).cmp)
	set(0xC5, "CMP", ZeroPage, (*CPU).cmp)
	set(0xD5, "CMP", ZeroPageX, (*CPU).cmp)
	set(0xCD, "CMP", Absolute, (*CPU).cmp)
	set(0xDD, "CMP", AbsoluteX, (*CPU).cmp)
	set(0xD9, "CMP", AbsoluteY, (*CPU).cmp)
	set(0xC1, "CMP", IndexedIndirect, (*CPU).cmp)
	set(0xD1, "CMP", IndirectIndexed, (*CPU).cmp)

	set(0xE0, "CPX", Immediate, (*CPU).cpx)
	set(0xE4, "CPX", ZeroPage, (*CPU).cpx)
	set(0xEC, "CPX", Absolute, (*CPU).cpx)

	set(0xC0, "CPY", Immediate, (*CPU).cpy)
	set(0xC4, "CPY", ZeroPage, (*CPU).cpy)
	set(0xCC, "CPY", Absolute, (*CPU).cpy)

	// Branches
	set(0x90, "BCC", Relative, (*CPU).bcc)
	set(0xB0, "BCS", Relative, (*CPU).bcs)
	set(0xD0, "BNE", Relative, (*CPU).bne)
	set(0xF0, "BEQ", Relative, (*CPU).beq)
	set(0x10, "BPL", Relative, (*CPU).bpl)
	set(0x30, "BMI", Relative, (*CPU).bmi)
	set(0x50, "BVC", Relative, (*CPU).bvc)
	set(0x70, "BVS", Relative, (*CPU).bvs)

	// Jumps and subroutines
	set(0x4C, "JMP", Absolute, (*CPU).jmp)
	set(0x6C, "JMP", Indirect, (*CPU).jmp)
	set(0x20, "JSR", Absolute, (*CPU).jsr)
	set(0x60, "RTS", Implied, (*CPU).rts)
	set(0x00, "BRK", Implied, (*CPU).brk)
	set(0x40, "RTI", Implied, (*CPU).rti)

	// Stack
	set(0x48, "PHA", Implied, (*CPU).pha)
	set(0x68, "PLA", Implied, (*CPU).pla)
	set(0x08, "PHP", Implied, (*CPU).php)
	set(0x28, "PLP", Implied, (*CPU).plp)

	// Misc
	set(0x24, "BIT", ZeroPage, (*CPU).bit)
	set(0x2C, "BIT", Absolute, (*CPU).bit)

	set(0x18, "CLC", Implied, (*CPU).clc)
	set(0x38, "SEC", Implied, (*CPU).sec)
	set(0x58, "CLI", Implied, (*CPU).cli)
	set(0x78, "SEI", Implied, (*CPU).sei)
	set(0xB8, "CLV", Implied, (*CPU).clv)
	set(0xD8, "CLD", Implied, (*CPU).cld)
	set(0xF8, "SED", Implied, (*CPU).sed)

	set(0xEA, "NOP", Implied, (*CPU).nop)

	return table
}
