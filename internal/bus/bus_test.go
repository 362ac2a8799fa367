package bus

import (
	"bytes"
	"testing"

	"nesqrt/internal/apu"
	"nesqrt/internal/cartridge"
	"nesqrt/internal/input"
	"nesqrt/internal/ppu"
)

func newTestCart(t *testing.T) *cartridge.Cartridge {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.Write([]byte{1, 0, 0x00, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}) // 1x16KiB PRG, CHR-RAM, mapper 0
	buf.Write(make([]byte, 16384))
	cart, err := cartridge.LoadFromReader(&buf)
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	return cart
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	cart := newTestCart(t)
	b := New(ppu.New(), apu.New(), input.NewInputState(), cart)
	b.ppu.SetCartridge(cart)
	return b
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0000, 0x55)
	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		if got := b.Read(mirror); got != 0x55 {
			t.Fatalf("Read($%04X) = $%02X, want $55 (mirrors $0000)", mirror, got)
		}
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x200B, 0x10) // OAMADDR through the first mirror of $2003
	b.Write(0x2004, 0x5A) // OAMDATA at $10, OAMADDR advances to $11
	b.Write(0x3FFB, 0x10) // OAMADDR again through the last mirror
	if got := b.Read(0x200C); got != 0x5A {
		t.Fatalf("Read($200C) = $%02X, want $5A (OAMDATA reached through its mirror)", got)
	}
}

func TestControllerRouting(t *testing.T) {
	b := newTestBus(t)
	b.input.Controller1.SetButtons(uint8(input.ButtonA))
	b.Write(0x4016, 1)
	b.Write(0x4016, 0)
	if got := b.Read(0x4016) & 1; got != 1 {
		t.Fatalf("Read($4016) low bit = %d, want 1", got)
	}
}

func TestDisabledTestModeReadsZero(t *testing.T) {
	b := newTestBus(t)
	if got := b.Read(0x4018); got != 0 {
		t.Fatalf("Read($4018) = $%02X, want $00", got)
	}
}

func TestCartridgeRouting(t *testing.T) {
	b := newTestBus(t)
	b.cart.WritePRG(0x6000, 0x42) // SRAM, always writable on NROM
	if got := b.Read(0x6000); got != 0x42 {
		t.Fatalf("Read($6000) = $%02X, want $42", got)
	}
}

func TestOAMDMAFromRAMCostsFiveThirteenCycles(t *testing.T) {
	b := newTestBus(t)
	b.cycleParity = func() bool { return false }
	for i := 0; i < 256; i++ {
		b.ram[i] = uint8(i)
	}
	b.Write(0x4014, 0x00) // page 0, entirely within internal RAM
	if got := b.TakeDMACycles(); got != 513 {
		t.Fatalf("DMA cycles = %d, want 513 on an even cycle count", got)
	}
	if b.ppu.ReadRegister(0x2004) != 0 {
		// OAMADDR left at 0 after a full 256-byte sweep wraps back to where it started.
		t.Fatalf("OAMDATA after DMA = $%02X, want $00 (first byte written)", b.ppu.ReadRegister(0x2004))
	}
}

func TestOAMDMAOddCycleCostsFiveFourteen(t *testing.T) {
	b := newTestBus(t)
	b.cycleParity = func() bool { return true }
	b.Write(0x4014, 0x00)
	if got := b.TakeDMACycles(); got != 514 {
		t.Fatalf("DMA cycles = %d, want 514 on an odd cycle count", got)
	}
}

func TestOAMDMAFallsBackToCartridgeForROMPages(t *testing.T) {
	b := newTestBus(t)
	b.cart.WritePRG(0x8000, 0) // no-op on NROM: PRG-ROM is not writable
	b.Write(0x4014, 0x80)      // page $80 -> CPU address $8000, backed by PRG-ROM
	if got := b.TakeDMACycles(); got != 513 {
		t.Fatalf("DMA cycles = %d, want 513", got)
	}
}

func TestCloneSharesNoMutableRAMState(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0000, 0x11)
	clone := b.Clone()
	clone.Write(0x0000, 0x22)

	if got := b.Read(0x0000); got != 0x11 {
		t.Fatalf("original RAM mutated by clone: got $%02X, want $11", got)
	}
	if clone.cart != nil {
		t.Fatal("Clone should null out cart; caller re-wires it")
	}
}
