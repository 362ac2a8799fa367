package cpu

// opcodeEntry is a precomputed dispatch record: addressing mode, base
// cycle count (the non-page-crossed count for read instructions, the
// fixed worst case for stores/RMW), whether a page cross adds one cycle,
// and whether the opcode is a rarely used illegal instruction this core
// treats as fatal per policy (see DESIGN.md).
type opcodeEntry struct {
	mode        AddressingMode
	cycles      uint8
	pagePenalty bool
	fault       bool
}

var opcodeTable [256]opcodeEntry

// set is a small table-building helper; mirrors the teacher's
// one-line-per-opcode table population style but as a slice literal
// grouped by instruction family instead of sequential field assignment.
func set(opcode uint8, mode AddressingMode, cycles uint8, pagePenalty bool) {
	opcodeTable[opcode] = opcodeEntry{mode: mode, cycles: cycles, pagePenalty: pagePenalty}
}

func fault(opcode uint8) {
	opcodeTable[opcode] = opcodeEntry{fault: true}
}

func init() {
	// LDA/LDX/LDY
	set(0xA9, Immediate, 2, false)
	set(0xA5, ZeroPage, 3, false)
	set(0xB5, ZeroPageX, 4, false)
	set(0xAD, Absolute, 4, false)
	set(0xBD, AbsoluteX, 4, true)
	set(0xB9, AbsoluteY, 4, true)
	set(0xA1, IndexedIndirect, 6, false)
	set(0xB1, IndirectIndexed, 5, true)

	set(0xA2, Immediate, 2, false)
	set(0xA6, ZeroPage, 3, false)
	set(0xB6, ZeroPageY, 4, false)
	set(0xAE, Absolute, 4, false)
	set(0xBE, AbsoluteY, 4, true)

	set(0xA0, Immediate, 2, false)
	set(0xA4, ZeroPage, 3, false)
	set(0xB4, ZeroPageX, 4, false)
	set(0xAC, Absolute, 4, false)
	set(0xBC, AbsoluteX, 4, true)

	// STA/STX/STY (worst-case cycle count; indexed forms never get a
	// further page-cross penalty)
	set(0x85, ZeroPage, 3, false)
	set(0x95, ZeroPageX, 4, false)
	set(0x8D, Absolute, 4, false)
	set(0x9D, AbsoluteX, 5, false)
	set(0x99, AbsoluteY, 5, false)
	set(0x81, IndexedIndirect, 6, false)
	set(0x91, IndirectIndexed, 6, false)

	set(0x86, ZeroPage, 3, false)
	set(0x96, ZeroPageY, 4, false)
	set(0x8E, Absolute, 4, false)

	set(0x84, ZeroPage, 3, false)
	set(0x94, ZeroPageX, 4, false)
	set(0x8C, Absolute, 4, false)

	// ADC/SBC
	set(0x69, Immediate, 2, false)
	set(0x65, ZeroPage, 3, false)
	set(0x75, ZeroPageX, 4, false)
	set(0x6D, Absolute, 4, false)
	set(0x7D, AbsoluteX, 4, true)
	set(0x79, AbsoluteY, 4, true)
	set(0x61, IndexedIndirect, 6, false)
	set(0x71, IndirectIndexed, 5, true)

	set(0xE9, Immediate, 2, false)
	set(0xEB, Immediate, 2, false) // unofficial SBC
	set(0xE5, ZeroPage, 3, false)
	set(0xF5, ZeroPageX, 4, false)
	set(0xED, Absolute, 4, false)
	set(0xFD, AbsoluteX, 4, true)
	set(0xF9, AbsoluteY, 4, true)
	set(0xE1, IndexedIndirect, 6, false)
	set(0xF1, IndirectIndexed, 5, true)

	// AND/ORA/EOR
	for _, g := range []struct {
		imm, zp, zpx, abs, absx, absy, indx, indy uint8
	}{
		{0x29, 0x25, 0x35, 0x2D, 0x3D, 0x39, 0x21, 0x31},
		{0x09, 0x05, 0x15, 0x0D, 0x1D, 0x19, 0x01, 0x11},
		{0x49, 0x45, 0x55, 0x4D, 0x5D, 0x59, 0x41, 0x51},
	} {
		set(g.imm, Immediate, 2, false)
		set(g.zp, ZeroPage, 3, false)
		set(g.zpx, ZeroPageX, 4, false)
		set(g.abs, Absolute, 4, false)
		set(g.absx, AbsoluteX, 4, true)
		set(g.absy, AbsoluteY, 4, true)
		set(g.indx, IndexedIndirect, 6, false)
		set(g.indy, IndirectIndexed, 5, true)
	}

	// ASL/LSR/ROL/ROR
	for _, g := range []struct {
		acc, zp, zpx, abs, absx uint8
	}{
		{0x0A, 0x06, 0x16, 0x0E, 0x1E},
		{0x4A, 0x46, 0x56, 0x4E, 0x5E},
		{0x2A, 0x26, 0x36, 0x2E, 0x3E},
		{0x6A, 0x66, 0x76, 0x6E, 0x7E},
	} {
		set(g.acc, Accumulator, 2, false)
		set(g.zp, ZeroPage, 5, false)
		set(g.zpx, ZeroPageX, 6, false)
		set(g.abs, Absolute, 6, false)
		set(g.absx, AbsoluteX, 7, false)
	}

	// CMP/CPX/CPY
	set(0xC9, Immediate, 2, false)
	set(0xC5, ZeroPage, 3, false)
	set(0xD5, ZeroPageX, 4, false)
	set(0xCD, Absolute, 4, false)
	set(0xDD, AbsoluteX, 4, true)
	set(0xD9, AbsoluteY, 4, true)
	set(0xC1, IndexedIndirect, 6, false)
	set(0xD1, IndirectIndexed, 5, true)

	set(0xE0, Immediate, 2, false)
	set(0xE4, ZeroPage, 3, false)
	set(0xEC, Absolute, 4, false)

	set(0xC0, Immediate, 2, false)
	set(0xC4, ZeroPage, 3, false)
	set(0xCC, Absolute, 4, false)

	// INC/DEC
	set(0xE6, ZeroPage, 5, false)
	set(0xF6, ZeroPageX, 6, false)
	set(0xEE, Absolute, 6, false)
	set(0xFE, AbsoluteX, 7, false)

	set(0xC6, ZeroPage, 5, false)
	set(0xD6, ZeroPageX, 6, false)
	set(0xCE, Absolute, 6, false)
	set(0xDE, AbsoluteX, 7, false)

	// register increment/decrement, transfers, stack, flags (all Implied, 2 cycles)
	for _, op := range []uint8{
		0xE8, 0xCA, 0xC8, 0x88, // INX DEX INY DEY
		0xAA, 0x8A, 0xA8, 0x98, 0xBA, 0x9A, // TAX TXA TAY TYA TSX TXS
		0x18, 0x38, 0x58, 0x78, 0xB8, 0xD8, 0xF8, // CLC SEC CLI SEI CLV CLD SED
		0xEA, // NOP
	} {
		set(op, Implied, 2, false)
	}
	set(0x48, Implied, 3, false) // PHA
	set(0x08, Implied, 3, false) // PHP
	set(0x68, Implied, 4, false) // PLA
	set(0x28, Implied, 4, false) // PLP

	// control flow
	set(0x4C, Absolute, 3, false)
	set(0x6C, Indirect, 5, false)
	set(0x20, Absolute, 6, false)
	set(0x60, Implied, 6, false)
	set(0x40, Implied, 6, false)
	set(0x00, Implied, 7, false)

	// branches: base cost 2, +1 taken / +2 taken-and-crossed handled in dispatch
	for _, op := range []uint8{0x90, 0xB0, 0xD0, 0xF0, 0x10, 0x30, 0x50, 0x70} {
		set(op, Relative, 2, false)
	}

	set(0x24, ZeroPage, 3, false)
	set(0x2C, Absolute, 4, false)

	// unofficial NOPs
	for _, op := range []uint8{0x1A, 0x3A, 0x5A, 0x7A, 0xDA, 0xFA} {
		set(op, Implied, 2, false)
	}
	for _, op := range []uint8{0x80, 0x82, 0x89, 0xC2, 0xE2} {
		set(op, Immediate, 2, false)
	}
	for _, op := range []uint8{0x04, 0x44, 0x64} {
		set(op, ZeroPage, 3, false)
	}
	for _, op := range []uint8{0x14, 0x34, 0x54, 0x74, 0xD4, 0xF4} {
		set(op, ZeroPageX, 4, false)
	}
	set(0x0C, Absolute, 4, false)
	for _, op := range []uint8{0x1C, 0x3C, 0x5C, 0x7C, 0xDC, 0xFC} {
		set(op, AbsoluteX, 4, true)
	}

	// de-facto-standard illegal opcodes: LAX, SAX, DCP, ISB, SLO, RLA, SRE, RRA
	set(0xA3, IndexedIndirect, 6, false)
	set(0xA7, ZeroPage, 3, false)
	set(0xAF, Absolute, 4, false)
	set(0xB3, IndirectIndexed, 5, true)
	set(0xB7, ZeroPageY, 4, false)
	set(0xBF, AbsoluteY, 4, true)

	set(0x83, IndexedIndirect, 6, false)
	set(0x87, ZeroPage, 3, false)
	set(0x8F, Absolute, 4, false)
	set(0x97, ZeroPageY, 4, false)

	for _, g := range []struct {
		zp, zpx, abs, absx, absy, indx, indy uint8
	}{
		{0xC7, 0xD7, 0xCF, 0xDF, 0xDB, 0xC3, 0xD3}, // DCP
		{0xE7, 0xF7, 0xEF, 0xFF, 0xFB, 0xE3, 0xF3}, // ISB
		{0x07, 0x17, 0x0F, 0x1F, 0x1B, 0x03, 0x13}, // SLO
		{0x27, 0x37, 0x2F, 0x3F, 0x3B, 0x23, 0x33}, // RLA
		{0x47, 0x57, 0x4F, 0x5F, 0x5B, 0x43, 0x53}, // SRE
		{0x67, 0x77, 0x6F, 0x7F, 0x7B, 0x63, 0x73}, // RRA
	} {
		set(g.zp, ZeroPage, 5, false)
		set(g.zpx, ZeroPageX, 6, false)
		set(g.abs, Absolute, 6, false)
		set(g.absx, AbsoluteX, 7, false)
		set(g.absy, AbsoluteY, 7, false)
		set(g.indx, IndexedIndirect, 8, false)
		set(g.indy, IndirectIndexed, 8, false)
	}

	// rarely used illegal opcodes: fatal per policy
	for _, op := range []uint8{
		0x0B, 0x2B, // ANC
		0x4B,       // ALR
		0x6B,       // ARR
		0x8B,       // XAA
		0xCB,       // AXS/SBX
		0x93, 0x9F, // AHX/SHA
		0x9B,       // TAS/SHS
		0x9C,       // SHY
		0x9E,       // SHX
		0xBB,       // LAS
		0x02, 0x12, 0x22, 0x32, 0x42, 0x52, 0x62, 0x72, 0x92, 0xB2, 0xD2, 0xF2, // STP/JAM
	} {
		fault(op)
	}
}
