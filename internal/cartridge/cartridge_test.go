package cartridge

import (
	"bytes"
	"testing"
)

func buildINES(prgBanks, chrBanks uint8, flags6, flags7 uint8) []byte {
	var buf bytes.Buffer
	buf.WriteString("NES\x1A")
	buf.Write([]byte{prgBanks, chrBanks, flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0})
	buf.Write(make([]byte, int(prgBanks)*16384))
	buf.Write(make([]byte, int(chrBanks)*8192))
	return buf.Bytes()
}

func TestLoadFromReaderRejectsBadMagic(t *testing.T) {
	_, err := LoadFromReader(bytes.NewReader([]byte("XXXXXXXXXXXXXXXX")))
	if err == nil {
		t.Fatal("expected an error for a non-iNES file")
	}
}

func TestLoadFromReaderRejectsTrainer(t *testing.T) {
	data := buildINES(1, 1, 0x04, 0x00) // trainer bit set
	_, err := LoadFromReader(bytes.NewReader(data))
	if err != ErrTrainerPresent {
		t.Fatalf("err = %v, want ErrTrainerPresent", err)
	}
}

func TestLoadFromReaderNROMMirroring(t *testing.T) {
	data := buildINES(1, 1, 0x01, 0x00) // vertical mirroring, mapper 0
	cart, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cart.mapperID != 0 {
		t.Fatalf("mapperID = %d, want 0", cart.mapperID)
	}
	if cart.MirrorMode() != MirrorVertical {
		t.Fatalf("MirrorMode = %v, want MirrorVertical", cart.MirrorMode())
	}
}

func TestLoadFromReaderRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(1, 1, 0xF0, 0x00) // mapper nibble = 15
	_, err := LoadFromReader(bytes.NewReader(data))
	if err == nil {
		t.Fatal("expected an error for an unsupported mapper ID")
	}
}

func TestNROMBankMirrorFor16KiB(t *testing.T) {
	data := buildINES(1, 0, 0x00, 0x00) // 16 KiB PRG, CHR-RAM
	cart, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	cart.prg[0] = 0xAB
	if got := cart.ReadPRG(0x8000); got != 0xAB {
		t.Fatalf("ReadPRG($8000) = $%02X, want $AB", got)
	}
	if got := cart.ReadPRG(0xC000); got != 0xAB {
		t.Fatalf("ReadPRG($C000) = $%02X, want $AB (16 KiB image mirrors into the upper half)", got)
	}
}

func TestUxROMBankSwitch(t *testing.T) {
	data := buildINES(4, 0, 0x20, 0x00) // mapper 2, 4x16KiB PRG banks
	cart, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	cart.prg[0*16384] = 0x11
	cart.prg[2*16384] = 0x33
	cart.prg[3*16384] = 0xFF // last bank, fixed at $C000

	cart.WritePRG(0x8000, 2)
	if got := cart.ReadPRG(0x8000); got != 0x33 {
		t.Fatalf("ReadPRG($8000) after switching to bank 2 = $%02X, want $33", got)
	}
	if got := cart.ReadPRG(0xC000); got != 0xFF {
		t.Fatalf("ReadPRG($C000) = $%02X, want $FF (always the last bank)", got)
	}
}

func TestCartridgeCloneIsIndependent(t *testing.T) {
	data := buildINES(1, 0, 0x00, 0x00)
	cart, _ := LoadFromReader(bytes.NewReader(data))
	cart.WriteCHR(0x0000, 0x42)

	clone := cart.Clone()
	clone.WriteCHR(0x0000, 0x99)

	if got := cart.ReadCHR(0x0000); got != 0x42 {
		t.Fatalf("original CHR-RAM mutated by clone: got $%02X, want $42", got)
	}
	if got := clone.ReadCHR(0x0000); got != 0x99 {
		t.Fatalf("clone CHR-RAM = $%02X, want $99", got)
	}
}

func TestReadPageForOAMDMA(t *testing.T) {
	data := buildINES(1, 0, 0x00, 0x00)
	cart, _ := LoadFromReader(bytes.NewReader(data))

	if _, ok := cart.ReadPage(0x00); ok {
		t.Fatal("ReadPage($00) should report !ok: address space below cartridge SRAM")
	}
	cart.prg[0] = 0x7A
	page, ok := cart.ReadPage(0x80)
	if !ok {
		t.Fatal("ReadPage($80) should report ok: backed by PRG-ROM")
	}
	if page[0] != 0x7A {
		t.Fatalf("page[0] = $%02X, want $7A", page[0])
	}
}
