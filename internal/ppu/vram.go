package ppu

import "nesqrt/internal/cartridge"

// horizontalMap, verticalMap and fourScreenMap select which 1 KiB nametable
// quadrant backs each of the four $2000/$2400/$2800/$2C00 windows. Single
// screen modes alias all four quadrants onto one page the source treats
// identically regardless of which half is named.
var horizontalMap = [4]uint16{0, 0, 1, 1}
var verticalMap = [4]uint16{0, 1, 0, 1}
var fourScreenMap = [4]uint16{0, 1, 2, 3}

// nametableIndex resolves a $2000-$2FFF PPU address to an offset into the
// 2 KiB internal nametable RAM according to the cartridge's mirroring mode.
func (p *PPU) nametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	quadrant := (address >> 10) & 0x03
	offset := address & 0x03FF

	var page uint16
	switch p.cart.MirrorMode() {
	case cartridge.MirrorVertical:
		page = verticalMap[quadrant]
	case cartridge.MirrorSingleScreen0, cartridge.MirrorSingleScreen1:
		page = 0
	case cartridge.MirrorFourScreen:
		page = fourScreenMap[quadrant]
	default: // MirrorHorizontal
		page = horizontalMap[quadrant]
	}
	return page*0x400 + offset
}

// readVRAM resolves an address on the 14-bit PPU bus ($0000-$3FFF) to
// pattern tables, nametable RAM, or palette RAM.
func (p *PPU) readVRAM(address uint16) uint8 {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		return p.cart.ReadCHR(address)
	case address < 0x3F00:
		return p.nametableRAM[p.nametableIndex(address&0x2FFF)]
	default:
		return p.readPalette(address)
	}
}

func (p *PPU) writeVRAM(address uint16, value uint8) {
	address &= 0x3FFF
	switch {
	case address < 0x2000:
		p.cart.WriteCHR(address, value)
	case address < 0x3F00:
		p.nametableRAM[p.nametableIndex(address&0x2FFF)] = value
	default:
		p.writePalette(address, value)
	}
}

// paletteIndex applies the backdrop-color mirror: the four sprite backdrop
// slots alias their background counterparts.
func paletteIndex(address uint16) uint16 {
	index := (address - 0x3F00) & 0x1F
	if index&0x13 == 0x10 {
		index &^= 0x10
	}
	return index
}

func (p *PPU) readPalette(address uint16) uint8 {
	return p.paletteRAM[paletteIndex(address)]
}

func (p *PPU) writePalette(address uint16, value uint8) {
	p.paletteRAM[paletteIndex(address)] = value & 0x3F
}

// ReadVRAM and WriteVRAM expose the 14-bit PPU bus to callers outside the
// package, used by the console driver's snapshot-restore preserve lists.
func (p *PPU) ReadVRAM(address uint16) uint8         { return p.readVRAM(address) }
func (p *PPU) WriteVRAM(address uint16, value uint8) { p.writeVRAM(address, value) }
