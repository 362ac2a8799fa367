// Package console wires a CPU, PPU, APU, controller pair and cartridge into
// the frame-stepped driver a host loop talks to: button updates, one
// frame's worth of emulation, and snapshot/restore/rewind.
package console

import (
	"nesqrt/internal/apu"
	"nesqrt/internal/bus"
	"nesqrt/internal/cartridge"
	"nesqrt/internal/cpu"
	"nesqrt/internal/input"
	"nesqrt/internal/ppu"
)

// Console owns one emulated machine. Every component pointer is fixed for
// the Console's lifetime; Restore overwrites their contents in place so
// nothing holding a reference to a component (callbacks, the Bus's view of
// the PPU) is ever invalidated by a snapshot round-trip.
type Console struct {
	cpu   *cpu.CPU
	bus   *bus.Bus
	ppu   *ppu.PPU
	apu   *apu.APU
	input *input.InputState
	cart  *cartridge.Cartridge

	tape        *tape
	lastButtons uint8
}

// New constructs a Console around cart and resets it to power-up state.
func New(cart *cartridge.Cartridge) *Console {
	p := ppu.New()
	a := apu.New()
	in := input.NewInputState()
	b := bus.New(p, a, in, cart)
	p.SetCartridge(cart)

	core := cpu.New(b)
	b.SetCycleParityOracle(func() bool { return core.Cycles()%2 == 1 })
	p.SetNMICallback(core.RaiseNMI)

	c := &Console{cpu: core, bus: b, ppu: p, apu: a, input: in, cart: cart}
	c.Reset()
	c.tape = newTape(c.Snapshot(), func(s State, buttons uint8) State {
		c.Restore(s, nil, nil)
		c.UpdateButtons(buttons)
		c.stepFrame()
		return c.Snapshot()
	})
	return c
}

// Reset performs the power-up/reset sequence on every component.
func (c *Console) Reset() {
	c.apu.Reset()
	c.input.Reset()
	c.ppu.Reset()
	c.cpu.Reset()
	c.lastButtons = 0
}

// UpdateButtons replaces the first controller's live button mask. Per the
// controller's own latching rule this only takes effect in the emulated
// machine on the next strobe.
func (c *Console) UpdateButtons(mask uint8) {
	c.lastButtons = mask
	c.input.Controller1.SetButtons(mask)
}

// NextFrame runs the CPU/PPU lockstep until one full frame has been
// produced, records the result onto the rewind tape, and returns the
// published screen. It returns the CPU's error unchanged if an opcode this
// core declines to emulate is hit mid-frame.
func (c *Console) NextFrame() (*ppu.Screen, error) {
	screen, err := c.stepFrame()
	if err != nil {
		return nil, err
	}
	c.tape.pushBack(c.Snapshot(), c.lastButtons)
	return screen, nil
}

// stepFrame is the raw CPU/PPU lockstep with no rewind bookkeeping, shared
// by NextFrame and the tape's internal re-simulation step so replaying
// history never itself grows the tape.
func (c *Console) stepFrame() (*ppu.Screen, error) {
	startFrame := c.ppu.FrameCount()
	for c.ppu.FrameCount() == startFrame {
		cpuCycles, err := c.cpu.Step()
		if err != nil {
			return nil, err
		}
		cpuCycles += c.bus.TakeDMACycles()
		for i := uint64(0); i < cpuCycles*3; i++ {
			c.ppu.Step()
		}
	}
	return c.ppu.Screen(), nil
}

// Snapshot captures a complete, independent copy of the current machine
// state.
func (c *Console) Snapshot() State {
	return State{
		CPU:     c.cpu.Save(),
		Bus:     c.bus.Clone(),
		PPU:     c.ppu.Clone(),
		APU:     c.apu.Clone(),
		Input:   c.input.Clone(),
		Cart:    c.cart.Clone(),
		Buttons: c.lastButtons,
	}
}

// Restore replaces every component's content with s's. cpuAddresses and
// ppuAddresses name CPU-bus and PPU-bus addresses to freeze across the
// swap: each is read before the restore and written back after, letting a
// caller carry forward live state (for example an audio buffer position)
// that the snapshot predates.
func (c *Console) Restore(s State, cpuAddresses []uint16, ppuAddresses []uint16) {
	preservedCPU := make(map[uint16]uint8, len(cpuAddresses))
	for _, addr := range cpuAddresses {
		preservedCPU[addr] = c.bus.Read(addr)
	}
	preservedPPU := make(map[uint16]uint8, len(ppuAddresses))
	for _, addr := range ppuAddresses {
		preservedPPU[addr] = c.ppu.ReadVRAM(addr)
	}

	c.cpu.Load(s.CPU)
	*c.bus = *s.Bus
	*c.ppu = *s.PPU
	*c.apu = *s.APU
	*c.input = *s.Input
	*c.cart = *s.Cart
	c.bus.LoadCartridge(c.cart)
	c.lastButtons = s.Buttons

	for addr, value := range preservedCPU {
		c.bus.Write(addr, value)
	}
	for addr, value := range preservedPPU {
		c.ppu.WriteVRAM(addr, value)
	}
}

// Screen returns the most recently published frame without advancing
// emulation, for a host's render loop to redraw between NextFrame calls.
func (c *Console) Screen() *ppu.Screen { return c.ppu.Screen() }

// OverridePC forces the program counter to pc, bypassing the reset vector.
// Exists for test harnesses that need to start execution at a fixed address
// (for example a nestest-style automated trace) rather than wherever the
// cartridge's own reset vector points.
func (c *Console) OverridePC(pc uint16) { c.cpu.PC = pc }

// Rewind pops the most recently recorded frame off the rewind tape and
// restores it, returning the screen for that point in history. It reports
// false once the tape has nothing left to rewind to.
func (c *Console) Rewind() (*ppu.Screen, bool) {
	f, ok := c.tape.popBack()
	if !ok {
		return nil, false
	}
	c.Restore(f.state, nil, nil)
	return c.ppu.Screen(), true
}
