package ppu

// Step advances the PPU by exactly one dot: background/sprite pipeline work
// for the current (scanline, dot), vblank/NMI edge handling, then timing
// advance (including the odd-frame dot skip).
func (p *PPU) Step() {
	p.renderStep()

	if p.scanline == vblankStartLine && p.dot == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlEnableNMI != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	}
	if p.scanline == preRenderLine && p.dot == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusOverflow
	}

	p.advance()
}

func (p *PPU) advance() {
	p.dot++
	if p.scanline == preRenderLine && p.dot == dotsPerScanline-1 && p.oddFrame && p.renderingEnabled() {
		p.dot = dotsPerScanline
	}
	if p.dot >= dotsPerScanline {
		p.dot -= dotsPerScanline
		p.scanline++
		if p.scanline >= scanlinesPerFrame {
			p.scanline = 0
			p.frameCount++
			p.oddFrame = !p.oddFrame
			if p.frameCompleteCallback != nil {
				p.frameCompleteCallback()
			}
		}
	}
}

func (p *PPU) renderStep() {
	visible := p.scanline < visibleScanlines
	pre := p.scanline == preRenderLine
	fetchWindow := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)

	if visible && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel(p.dot - 1)
	}
	if !p.renderingEnabled() {
		return
	}
	if (visible || pre) && fetchWindow {
		p.shiftBackground()
		switch p.dot % 8 {
		case 1:
			p.fetchNametableByte()
		case 3:
			p.fetchAttributeByte()
		case 5:
			p.fetchPatternLow()
		case 7:
			p.fetchPatternHigh()
		case 0:
			p.loadBackgroundShifters()
			p.incrementX()
		}
	}
	if (visible || pre) && p.dot == 256 {
		p.incrementY()
	}
	if visible && p.dot == 257 {
		p.copyX()
		p.evaluateSprites()
	} else if pre && p.dot == 257 {
		p.copyX()
	}
	if pre && p.dot >= 280 && p.dot <= 304 {
		p.copyY()
	}
	if visible && p.dot == 320 {
		p.fetchSpritePatterns()
	}
}

func (p *PPU) shiftBackground() {
	p.bgPatternLow <<= 1
	p.bgPatternHigh <<= 1
	p.bgAttribLow <<= 1
	p.bgAttribHigh <<= 1
}

func (p *PPU) loadBackgroundShifters() {
	p.bgPatternLow = (p.bgPatternLow &^ 0x00FF) | uint16(p.nextPatternLow)
	p.bgPatternHigh = (p.bgPatternHigh &^ 0x00FF) | uint16(p.nextPatternHigh)

	var lowFill, highFill uint16
	if p.nextAttribute&0x01 != 0 {
		lowFill = 0x00FF
	}
	if p.nextAttribute&0x02 != 0 {
		highFill = 0x00FF
	}
	p.bgAttribLow = (p.bgAttribLow &^ 0x00FF) | lowFill
	p.bgAttribHigh = (p.bgAttribHigh &^ 0x00FF) | highFill
}

func (p *PPU) fetchNametableByte() {
	address := 0x2000 | (p.v & 0x0FFF)
	p.nextTileID = p.readVRAM(address)
}

// fetchAttributeByte reads the 2-bit palette select for the tile's 16x16
// quadrant out of the 64-byte attribute table tail of each nametable.
func (p *PPU) fetchAttributeByte() {
	address := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	byteValue := p.readVRAM(address)
	shift := ((p.v >> 4) & 0x04) | (p.v & 0x02)
	p.nextAttribute = (byteValue >> shift) & 0x03
}

func (p *PPU) fetchPatternLow() {
	var table uint16
	if p.ctrl&ctrlBgPattern != 0 {
		table = 0x1000
	}
	address := table + uint16(p.nextTileID)*16 + p.fineY()
	p.nextPatternLow = p.readVRAM(address)
}

func (p *PPU) fetchPatternHigh() {
	var table uint16
	if p.ctrl&ctrlBgPattern != 0 {
		table = 0x1000
	}
	address := table + uint16(p.nextTileID)*16 + p.fineY()
	p.nextPatternHigh = p.readVRAM(address + 8)
}

// evaluateSprites scans primary OAM for up to 8 sprites intersecting the
// upcoming scanline, setting the overflow flag when a 9th would qualify.
func (p *PPU) evaluateSprites() {
	height := 8
	if p.ctrl&ctrlTallSprites != 0 {
		height = 16
	}

	matched := 0
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		if p.scanline < y || p.scanline >= y+height {
			continue
		}
		if matched < 8 {
			unit := &p.secondaryOAM[matched]
			unit.oamIndex = uint8(i)
			unit.x = p.oam[i*4+3]
			unit.attributes = p.oam[i*4+2]
		} else {
			p.status |= statusOverflow
		}
		matched++
	}
	if matched > 8 {
		matched = 8
	}
	p.spriteCount = matched
	for i := matched; i < 8; i++ {
		p.secondaryOAM[i] = spriteUnit{}
	}
}

// fetchSpritePatterns fills in the pattern bytes for each sprite the prior
// evaluation pass selected, honoring vertical flip and 8x16 tile splitting.
func (p *PPU) fetchSpritePatterns() {
	height := 8
	if p.ctrl&ctrlTallSprites != 0 {
		height = 16
	}
	for i := 0; i < p.spriteCount; i++ {
		unit := &p.secondaryOAM[i]
		y := int(p.oam[unit.oamIndex*4])
		tile := p.oam[unit.oamIndex*4+1]
		row := p.scanline - y
		if unit.attributes&0x80 != 0 {
			row = height - 1 - row
		}

		var table uint16
		var patternIndex uint8
		fineRow := row
		if height == 16 {
			table = uint16(tile&0x01) * 0x1000
			patternIndex = tile &^ 0x01
			if row >= 8 {
				patternIndex++
				fineRow = row - 8
			}
		} else {
			if p.ctrl&ctrlSpritePattern != 0 {
				table = 0x1000
			}
			patternIndex = tile
		}

		address := table + uint16(patternIndex)*16 + uint16(fineRow)
		unit.patternLow = p.readVRAM(address)
		unit.patternHigh = p.readVRAM(address + 8)
	}
}

func (p *PPU) backgroundPixel(x int) (pixel uint8, palette uint8) {
	if p.mask&maskShowBg == 0 {
		return 0, 0
	}
	if x < 8 && p.mask&maskShowBgLeft == 0 {
		return 0, 0
	}
	bit := uint16(0x8000) >> p.x
	var low, high, palLow, palHigh uint8
	if p.bgPatternLow&bit != 0 {
		low = 1
	}
	if p.bgPatternHigh&bit != 0 {
		high = 1
	}
	if p.bgAttribLow&bit != 0 {
		palLow = 1
	}
	if p.bgAttribHigh&bit != 0 {
		palHigh = 1
	}
	return high<<1 | low, palHigh<<1 | palLow
}

// spritePixel returns the color/palette of the highest-priority opaque
// sprite at column x, plus whether it draws in front of the background and
// which secondary-OAM slot it came from (-1 if none).
func (p *PPU) spritePixel(x int) (pixel uint8, palette uint8, front bool, slot int) {
	if p.mask&maskShowSprites == 0 {
		return 0, 0, false, -1
	}
	if x < 8 && p.mask&maskShowSpriteLeft == 0 {
		return 0, 0, false, -1
	}
	for i := 0; i < p.spriteCount; i++ {
		unit := &p.secondaryOAM[i]
		offset := x - int(unit.x)
		if offset < 0 || offset > 7 {
			continue
		}
		bitIndex := 7 - offset
		if unit.attributes&0x40 != 0 { // horizontal flip
			bitIndex = offset
		}
		low := (unit.patternLow >> uint(bitIndex)) & 1
		high := (unit.patternHigh >> uint(bitIndex)) & 1
		value := high<<1 | low
		if value == 0 {
			continue
		}
		return value, unit.attributes & 0x03, unit.attributes&0x20 == 0, i
	}
	return 0, 0, false, -1
}

// renderPixel composites the background and sprite multiplexers into a
// single palette index, applying the priority table and sprite-zero-hit
// detection from spec section 4.4.
func (p *PPU) renderPixel(x int) {
	bgPixel, bgPalette := p.backgroundPixel(x)
	spPixel, spPalette, spFront, spSlot := p.spritePixel(x)

	var colorIndex uint8
	switch {
	case bgPixel == 0 && spPixel == 0:
		colorIndex = p.readPalette(0x3F00)
	case bgPixel == 0:
		colorIndex = p.readPalette(0x3F10 + uint16(spPalette)*4 + uint16(spPixel))
	case spPixel == 0:
		colorIndex = p.readPalette(0x3F00 + uint16(bgPalette)*4 + uint16(bgPixel))
	default:
		if spSlot == 0 && p.secondaryOAM[0].oamIndex == 0 {
			p.status |= statusSprite0Hit
		}
		if spFront {
			colorIndex = p.readPalette(0x3F10 + uint16(spPalette)*4 + uint16(spPixel))
		} else {
			colorIndex = p.readPalette(0x3F00 + uint16(bgPalette)*4 + uint16(bgPixel))
		}
	}
	p.screen.Pixels[p.scanline][x] = colorIndex & 0x3F
}
