// Package ppu implements the NES Picture Processing Unit: a per-dot
// background/sprite fetch pipeline, the canonical v/t/x/w scroll-register
// model, and the CPU-visible $2000-$2007 register file.
package ppu

import "nesqrt/internal/cartridge"

const (
	dotsPerScanline    = 341
	scanlinesPerFrame  = 262
	visibleScanlines   = 240
	postRenderScanline = 240
	vblankStartLine    = 241
	preRenderLine      = 261

	statusVBlank     = 0x80
	statusSprite0Hit = 0x40
	statusOverflow   = 0x20

	ctrlNametableMask = 0x03
	ctrlIncrement32   = 0x04
	ctrlSpritePattern = 0x08
	ctrlBgPattern     = 0x10
	ctrlTallSprites   = 0x20
	ctrlEnableNMI     = 0x80

	maskGreyscale      = 0x01
	maskShowBgLeft     = 0x02
	maskShowSpriteLeft = 0x04
	maskShowBg         = 0x08
	maskShowSprites    = 0x10
)

// Screen is one published frame: 240 rows of 256 six-bit palette indices.
type Screen struct {
	Pixels [240][256]uint8
}

// Clone returns an independent copy.
func (s *Screen) Clone() *Screen {
	cp := *s
	return &cp
}

// spriteUnit holds the per-scanline state the sprite pipeline carries from
// evaluation (dot 257) through fetch (dot 320) into the pixel multiplexer.
type spriteUnit struct {
	patternLow  uint8
	patternHigh uint8
	attributes  uint8
	x           uint8
	oamIndex    uint8 // original OAM slot, used for the sprite-zero check
}

// PPU is the 2C02-style picture processor.
type PPU struct {
	ctrl    uint8
	mask    uint8
	status  uint8
	oamAddr uint8

	v uint16
	t uint16
	x uint8
	w bool

	oam          [256]uint8
	paletteRAM   [32]uint8
	nametableRAM [2048]uint8
	readBuffer   uint8

	cart *cartridge.Cartridge

	scanline   int
	dot        int
	frameCount uint64
	oddFrame   bool

	nmiCallback           func()
	frameCompleteCallback func()

	// Background fetch pipeline.
	nextTileID      uint8
	nextAttribute   uint8
	nextPatternLow  uint8
	nextPatternHigh uint8
	bgPatternLow    uint16
	bgPatternHigh   uint16
	bgAttribLow     uint16
	bgAttribHigh    uint16

	// Sprite pipeline.
	secondaryOAM [8]spriteUnit
	spriteCount  int

	screen Screen
}

// New creates a PPU with rendering disabled and the pre-render scanline active.
func New() *PPU {
	p := &PPU{}
	p.Reset()
	return p
}

// SetCartridge wires the cartridge used for pattern-table ($0000-$1FFF)
// access and nametable mirroring mode.
func (p *PPU) SetCartridge(cart *cartridge.Cartridge) { p.cart = cart }

// SetNMICallback installs the edge-triggered NMI handler, called once at
// (scanline 241, dot 1) when control.enable_nmi is set.
func (p *PPU) SetNMICallback(callback func()) { p.nmiCallback = callback }

// SetFrameCompleteCallback installs the handler invoked once per frame, right
// after the pre-render scanline wraps back to scanline 0.
func (p *PPU) SetFrameCompleteCallback(callback func()) { p.frameCompleteCallback = callback }

// Reset restores power-up state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status, p.oamAddr = 0, 0, 0, 0
	p.v, p.t, p.x, p.w = 0, 0, 0, false
	p.readBuffer = 0
	p.scanline, p.dot = preRenderLine, 0
	p.frameCount, p.oddFrame = 0, false
	for i := range p.oam {
		p.oam[i] = 0
	}
	p.screen = Screen{}
}

// Scanline and Dot expose raw timing position for diagnostics and tests.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Dot() int      { return p.dot }
func (p *PPU) FrameCount() uint64 { return p.frameCount }

// InVBlank reports the CPU-visible VBL status bit.
func (p *PPU) InVBlank() bool { return p.status&statusVBlank != 0 }

// Screen returns an independent copy of the most recently completed frame.
func (p *PPU) Screen() *Screen { return p.screen.Clone() }

func (p *PPU) renderingEnabled() bool { return p.mask&(maskShowBg|maskShowSprites) != 0 }

// ReadRegister services a CPU read of $2000-$3FFF; the register is chosen by
// the address's low three bits, so every mirror of $2000-$2007 lands here.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address & 7 {
	case 2: // PPUSTATUS
		value := p.status
		p.status &^= statusVBlank
		p.w = false
		return value
	case 4: // OAMDATA
		return p.oam[p.oamAddr]
	case 7: // PPUDATA
		return p.readData()
	default: // write-only registers read back as open bus; 0 is an acceptable stand-in
		return 0
	}
}

// WriteRegister services a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address & 7 {
	case 0: // PPUCTRL
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&ctrlNametableMask) << 10)
	case 1: // PPUMASK
		p.mask = value
	case 3: // OAMADDR
		p.oamAddr = value
	case 4: // OAMDATA
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 5: // PPUSCROLL
		p.writeScroll(value)
	case 6: // PPUADDR
		p.writeAddr(value)
	case 7: // PPUDATA
		p.writeData(value)
	}
}

// WriteOAMByte is the OAM DMA entry point: one CPU page byte per call,
// routed through OAMDATA semantics so OAMADDR auto-increments exactly as a
// CPU-driven $2004 write sequence would.
func (p *PPU) WriteOAMByte(value uint8) {
	p.oam[p.oamAddr] = value
	p.oamAddr++
}

// Clone returns an independent copy for snapshotting. The caller must call
// SetCartridge on the result with the correspondingly cloned cartridge;
// cart is not deep-copied here to avoid cloning cartridge state twice.
func (p *PPU) Clone() *PPU {
	clone := *p
	clone.cart = nil
	return &clone
}
