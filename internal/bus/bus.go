// Package bus implements the CPU-visible address decoder: 2 KiB of mirrored
// work RAM, the PPU register window, the APU stub, OAM DMA, the controller
// ports, and the cartridge's mapper.
package bus

import (
	"nesqrt/internal/apu"
	"nesqrt/internal/cartridge"
	"nesqrt/internal/input"
	"nesqrt/internal/ppu"
)

// Bus wires the CPU to every other component over the $0000-$FFFF map.
type Bus struct {
	ram   [0x800]uint8
	ppu   *ppu.PPU
	apu   *apu.APU
	input *input.InputState
	cart  *cartridge.Cartridge

	// cycleParity reports whether the CPU's running cycle count is odd,
	// used only to compute the 513/514-cycle OAM DMA cost; wired by
	// Console after both CPU and Bus exist.
	cycleParity     func() bool
	pendingDMACycles uint64
}

// New constructs a Bus. cart may be nil only transiently during startup;
// LoadCartridge must be called before any CPU step.
func New(p *ppu.PPU, a *apu.APU, in *input.InputState, cart *cartridge.Cartridge) *Bus {
	return &Bus{ppu: p, apu: a, input: in, cart: cart}
}

// SetCycleParityOracle wires the callback used to decide OAM DMA's odd-cycle
// cost penalty.
func (b *Bus) SetCycleParityOracle(oracle func() bool) { b.cycleParity = oracle }

// LoadCartridge swaps in a freshly loaded cartridge.
func (b *Bus) LoadCartridge(cart *cartridge.Cartridge) {
	b.cart = cart
	b.ppu.SetCartridge(cart)
}

// TakeDMACycles returns and clears the CPU-stall cycles OAM DMA accrued
// since the last call, for the Console's step loop to fold into the cycle
// count it uses to drive the PPU.
func (b *Bus) TakeDMACycles() uint64 {
	cycles := b.pendingDMACycles
	b.pendingDMACycles = 0
	return cycles
}

// Read decodes a CPU read per the address map in spec section 4.1.
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return b.ram[address&0x07FF]
	case address < 0x4000:
		return b.ppu.ReadRegister(address)
	case address == 0x4016, address == 0x4017:
		return b.input.Read(address)
	case address < 0x4018:
		return b.apu.ReadRegister(address)
	case address < 0x4020:
		return 0 // disabled test mode
	default:
		return b.cart.ReadPRG(address)
	}
}

// Write decodes a CPU write per the address map in spec section 4.1.
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		b.ram[address&0x07FF] = value
	case address < 0x4000:
		b.ppu.WriteRegister(address, value)
	case address == 0x4014:
		b.triggerOAMDMA(value)
	case address == 0x4016:
		b.input.Write(address, value)
	case address < 0x4018:
		b.apu.WriteRegister(address, value)
	case address < 0x4020:
		// disabled test mode, writes ignored
	default:
		b.cart.WritePRG(address, value)
	}
}

// triggerOAMDMA copies a 256-byte CPU page into OAM. The source page is
// read via the internal-RAM fast path or the mapper's read_page capability
// when available, falling back to a plain byte-at-a-time bus read.
func (b *Bus) triggerOAMDMA(page uint8) {
	if data, ok := b.ramPage(page); ok {
		b.copyPageToOAM(data)
	} else if data, ok := b.cart.ReadPage(page); ok {
		b.copyPageToOAM(data)
	} else {
		base := uint16(page) << 8
		for i := 0; i < 256; i++ {
			b.ppu.WriteOAMByte(b.Read(base + uint16(i)))
		}
	}

	cycles := uint64(513)
	if b.cycleParity != nil && b.cycleParity() {
		cycles = 514
	}
	b.pendingDMACycles += cycles
}

func (b *Bus) copyPageToOAM(data [256]uint8) {
	for _, value := range data {
		b.ppu.WriteOAMByte(value)
	}
}

func (b *Bus) ramPage(page uint8) ([256]uint8, bool) {
	var data [256]uint8
	if page >= 0x20 {
		return data, false
	}
	base := uint16(page&0x07) << 8
	for i := range data {
		data[i] = b.ram[(base+uint16(i))&0x07FF]
	}
	return data, true
}

// Clone returns an independent copy for snapshotting; the cartridge must be
// re-wired by the caller from its own clone, same as PPU.Clone.
func (b *Bus) Clone() *Bus {
	clone := *b
	clone.cart = nil
	return &clone
}
