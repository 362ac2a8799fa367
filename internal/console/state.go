package console

import (
	"nesqrt/internal/apu"
	"nesqrt/internal/bus"
	"nesqrt/internal/cartridge"
	"nesqrt/internal/cpu"
	"nesqrt/internal/input"
	"nesqrt/internal/ppu"
)

// State is a complete copy of a Console's machine state: every component's
// content, copied out of the live Console. The Bus copy keeps the Bus's
// wiring (its PPU, APU and controller pointers and its cycle-parity
// callback) pointing at the live components; its RAM and pending DMA cycles
// are its own. It is the unit Snapshot/Restore and the rewind tape operate on.
type State struct {
	CPU   cpu.State
	Bus   *bus.Bus
	PPU   *ppu.PPU
	APU   *apu.APU
	Input *input.InputState
	Cart  *cartridge.Cartridge

	Buttons uint8
}
