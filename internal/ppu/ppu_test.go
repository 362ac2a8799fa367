package ppu

import (
	"bytes"
	"testing"

	"nesqrt/internal/cartridge"
)

func newTestCart(t *testing.T, flags6 uint8) *cartridge.Cartridge {
	t.Helper()
	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.Write([]byte{1, 0, flags6, 0x00, 0, 0, 0, 0, 0, 0, 0, 0}) // 1x16KiB PRG, CHR-RAM
	buf.Write(make([]byte, 16384))
	cart, err := cartridge.LoadFromReader(&buf)
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	return cart
}

func newTestPPU(t *testing.T, flags6 uint8) *PPU {
	p := New()
	p.SetCartridge(newTestCart(t, flags6))
	return p
}

func TestPPUSTATUSReadClearsVBlankAndW(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.status |= statusVBlank
	p.w = true

	got := p.ReadRegister(0x2002)
	if got&statusVBlank == 0 {
		t.Fatal("the read itself should return the set VBL bit")
	}
	if p.status&statusVBlank != 0 {
		t.Fatal("VBL should be cleared by reading PPUSTATUS")
	}
	if p.w {
		t.Fatal("w latch should be cleared by reading PPUSTATUS")
	}
}

func TestScrollLatchSequence(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.WriteRegister(0x2005, 0x7D) // first write: coarse X / fine X
	if !p.w {
		t.Fatal("w should be set after the first PPUSCROLL write")
	}
	p.WriteRegister(0x2005, 0x5E) // second write: coarse Y / fine Y
	if p.w {
		t.Fatal("w should be cleared after the second PPUSCROLL write")
	}
	if got := p.t & 0x001F; got != 0x0F {
		t.Fatalf("t coarse X = %d, want 15 (0x7D >> 3)", got)
	}
}

func TestVBlankSetsStatusAndFiresNMI(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.ctrl = ctrlEnableNMI
	fired := false
	p.SetNMICallback(func() { fired = true })

	p.scanline, p.dot = vblankStartLine, 1
	p.Step()

	if !p.InVBlank() {
		t.Fatal("status VBL bit should be set at (241,1)")
	}
	if !fired {
		t.Fatal("NMI callback should fire when control.enable_nmi is set")
	}
}

func TestPreRenderLineClearsStatusFlags(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.status = statusVBlank | statusSprite0Hit | statusOverflow
	p.scanline, p.dot = preRenderLine, 1
	p.Step()
	if p.status != 0 {
		t.Fatalf("status = $%02X after (261,1), want $00", p.status)
	}
}

func TestOddFrameDotSkipOnlyWhenRenderingEnabled(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.mask = 0 // rendering disabled
	p.oddFrame = true
	p.scanline, p.dot = preRenderLine, dotsPerScanline-2
	p.Step()
	if p.scanline != preRenderLine || p.dot != dotsPerScanline-1 {
		t.Fatalf("scanline/dot = %d/%d, want %d/%d (no skip while rendering disabled)", p.scanline, p.dot, preRenderLine, dotsPerScanline-1)
	}

	p.mask = maskShowBg
	p.oddFrame = true
	p.scanline, p.dot = preRenderLine, dotsPerScanline-2
	p.Step()
	if p.scanline != 0 || p.dot != 0 {
		t.Fatalf("scanline/dot = %d/%d, want 0/0 (odd frame should skip the last dot)", p.scanline, p.dot)
	}
}

func TestHorizontalMirroring(t *testing.T) {
	p := newTestPPU(t, 0x00) // flags6 bit 0 clear = horizontal
	p.writeVRAM(0x2000, 0x11)
	if got := p.readVRAM(0x2400); got != 0x11 {
		t.Fatalf("$2400 under horizontal mirroring = $%02X, want $11 (shares $2000's page)", got)
	}
	if got := p.readVRAM(0x2800); got == 0x11 {
		t.Fatal("$2800 should be a distinct page under horizontal mirroring")
	}
}

func TestVerticalMirroring(t *testing.T) {
	p := newTestPPU(t, 0x01) // bit 0 set = vertical
	p.writeVRAM(0x2000, 0x22)
	if got := p.readVRAM(0x2800); got != 0x22 {
		t.Fatalf("$2800 under vertical mirroring = $%02X, want $22 (shares $2000's page)", got)
	}
}

func TestPaletteBackdropMirror(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.writeVRAM(0x3F00, 0x0F)
	if got := p.readVRAM(0x3F10); got != 0x0F {
		t.Fatalf("$3F10 = $%02X, want $0F (sprite backdrop mirrors $3F00)", got)
	}
	p.writeVRAM(0x3F01, 0x2A)
	if got := p.readVRAM(0x3F01); got != 0x2A {
		t.Fatalf("$3F01 = $%02X, want $2A", got)
	}
}

func TestOAMDMAWriteAutoIncrements(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.oamAddr = 0xFE
	p.WriteOAMByte(0xAA)
	p.WriteOAMByte(0xBB)
	if p.oam[0xFE] != 0xAA || p.oam[0xFF] != 0xBB {
		t.Fatal("WriteOAMByte should land at the current OAMADDR and advance it")
	}
	if p.oamAddr != 0 {
		t.Fatalf("oamAddr = %d, want 0 (wraps after $FF)", p.oamAddr)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := newTestPPU(t, 0x01)
	p.writeVRAM(0x2000, 0x33)
	clone := p.Clone()
	clone.SetCartridge(p.cart) // clone shares cart intentionally for this check
	clone.writeVRAM(0x2000, 0x99)

	if got := p.readVRAM(0x2000); got != 0x33 {
		t.Fatalf("original nametable RAM mutated by clone: got $%02X, want $33", got)
	}
}
