// Package cpu implements the 6502-family CPU core: registers, the 13
// addressing modes, the legal and de-facto-standard illegal opcode set,
// and interrupt sequencing.
package cpu

import "fmt"

const (
	nFlagMask  = 0x80
	vFlagMask  = 0x40
	unusedMask = 0x20
	bFlagMask  = 0x10
	dFlagMask  = 0x08
	iFlagMask  = 0x04
	zFlagMask  = 0x02
	cFlagMask  = 0x01

	stackBase   = 0x0100
	nmiVector   = 0xFFFA
	resetVector = 0xFFFC
	irqVector   = 0xFFFE
)

// Bus is the address space a CPU is wired to.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPUFault reports an opcode this core declines to emulate (the rarely
// used illegal opcodes section 7 of the design allows treating as fatal).
type CPUFault struct {
	PC     uint16
	Opcode uint8
}

func (f *CPUFault) Error() string {
	return fmt.Sprintf("cpu: unimplemented opcode $%02X at $%04X", f.Opcode, f.PC)
}

// CPU is the 6502-family core. Registers are kept as separate fields
// rather than a packed struct so hot paths avoid bit-twiddling on every
// access; GetStatusByte/SetStatusByte pack and unpack the status register
// only at the PHP/PLP/BRK/IRQ/NMI boundaries that need the byte form.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16

	C, Z, I, D, B, V, N bool

	bus    Bus
	cycles uint64

	// pendingNMI is the edge latched by RaiseNMI; Step consumes it at
	// entry rather than after the in-flight instruction, matching the
	// no-delay interrupt model this core targets.
	pendingNMI bool
}

// New constructs a CPU wired to bus. Call Reset before Step.
func New(bus Bus) *CPU {
	return &CPU{bus: bus, SP: 0xFD}
}

// Cycles returns the running cycle counter (wraps at 2^64).
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// State is the snapshot-able half of a CPU: every field but the bus wiring.
type State struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Status  uint8
	Cycles  uint64

	PendingNMI bool
}

// Save captures the current register/flag/cycle state.
func (cpu *CPU) Save() State {
	return State{
		A: cpu.A, X: cpu.X, Y: cpu.Y, SP: cpu.SP, PC: cpu.PC,
		Status: cpu.statusByte(), Cycles: cpu.cycles, PendingNMI: cpu.pendingNMI,
	}
}

// Load restores a previously saved state. The bus wiring is untouched.
func (cpu *CPU) Load(s State) {
	cpu.A, cpu.X, cpu.Y, cpu.SP, cpu.PC = s.A, s.X, s.Y, s.SP, s.PC
	cpu.SetStatusByte(s.Status)
	cpu.cycles = s.Cycles
	cpu.pendingNMI = s.PendingNMI
}

// RaiseNMI latches a pending NMI edge, consumed at the top of the next Step.
func (cpu *CPU) RaiseNMI() { cpu.pendingNMI = true }

// Reset performs the 6502 power-up/reset sequence: registers cleared,
// I and the unused status bit set, PC loaded from the reset vector.
func (cpu *CPU) Reset() {
	cpu.A, cpu.X, cpu.Y = 0, 0, 0
	cpu.SP = 0xFD
	cpu.C, cpu.Z, cpu.D, cpu.V, cpu.N = false, false, false, false, false
	cpu.I = true
	cpu.B = false

	low := uint16(cpu.bus.Read(resetVector))
	high := uint16(cpu.bus.Read(resetVector + 1))
	cpu.PC = (high << 8) | low
	cpu.cycles += 7

	// Silence the APU stub per the reset contract.
	for addr := uint16(0x4000); addr <= 0x4013; addr++ {
		cpu.bus.Write(addr, 0x00)
	}
	cpu.bus.Write(0x4015, 0x00)
	cpu.bus.Write(0x4017, 0x40)
}

// Step executes one instruction (or one interrupt sequence) and returns
// the number of CPU cycles it took. A pending NMI edge is consumed before
// any instruction decode.
func (cpu *CPU) Step() (uint64, error) {
	if cpu.pendingNMI {
		cpu.pendingNMI = false
		cpu.serviceInterrupt(nmiVector, false)
		cpu.cycles += 7
		return 7, nil
	}

	opcode := cpu.bus.Read(cpu.PC)
	entry := &opcodeTable[opcode]
	if entry.fault {
		return 0, &CPUFault{PC: cpu.PC, Opcode: opcode}
	}

	address, pageCrossed := cpu.decode(entry.mode)
	extra := cpu.dispatch(opcode, address, pageCrossed)

	total := uint64(entry.cycles)
	if pageCrossed && entry.pagePenalty {
		total++
	}
	total += uint64(extra)
	cpu.cycles += total
	return total, nil
}

func (cpu *CPU) serviceInterrupt(vector uint16, brk bool) {
	cpu.pushWord(cpu.PC)
	status := cpu.statusByte() &^ bFlagMask
	status |= unusedMask
	if brk {
		status |= bFlagMask
	}
	cpu.push(status)
	cpu.I = true
	low := uint16(cpu.bus.Read(vector))
	high := uint16(cpu.bus.Read(vector + 1))
	cpu.PC = (high << 8) | low
}

func (cpu *CPU) push(value uint8) {
	cpu.bus.Write(stackBase+uint16(cpu.SP), value)
	cpu.SP--
}

func (cpu *CPU) pop() uint8 {
	cpu.SP++
	return cpu.bus.Read(stackBase + uint16(cpu.SP))
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

func (cpu *CPU) setZN(value uint8) {
	cpu.Z = value == 0
	cpu.N = value&nFlagMask != 0
}

// statusByte packs the flags into the canonical 8-bit status register.
func (cpu *CPU) statusByte() uint8 {
	var s uint8
	if cpu.N {
		s |= nFlagMask
	}
	if cpu.V {
		s |= vFlagMask
	}
	s |= unusedMask
	if cpu.B {
		s |= bFlagMask
	}
	if cpu.D {
		s |= dFlagMask
	}
	if cpu.I {
		s |= iFlagMask
	}
	if cpu.Z {
		s |= zFlagMask
	}
	if cpu.C {
		s |= cFlagMask
	}
	return s
}

// GetStatusByte returns the packed status register (public for snapshotting).
func (cpu *CPU) GetStatusByte() uint8 { return cpu.statusByte() }

// SetStatusByte unpacks status into the individual flags.
func (cpu *CPU) SetStatusByte(status uint8) {
	cpu.N = status&nFlagMask != 0
	cpu.V = status&vFlagMask != 0
	cpu.B = status&bFlagMask != 0
	cpu.D = status&dFlagMask != 0
	cpu.I = status&iFlagMask != 0
	cpu.Z = status&zFlagMask != 0
	cpu.C = status&cFlagMask != 0
}
