package input

import "testing"

func TestShiftOutOrderIsAButtonFirst(t *testing.T) {
	c := New()
	c.SetButtons(uint8(ButtonA | ButtonStart))
	c.Write(1) // strobe high
	c.Write(0) // falling edge latches the snapshot

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("bit %d = %d, want %d", i, got, w)
		}
	}
}

func TestReadPastEighthBitReturnsZero(t *testing.T) {
	c := New()
	c.SetButtons(0xFF)
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	if got := c.Read(); got != 0 {
		t.Fatalf("9th read = %d, want 0", got)
	}
}

func TestStrobeHighAlwaysReturnsLiveBitZero(t *testing.T) {
	c := New()
	c.Write(1) // strobe held high
	c.SetButtons(uint8(ButtonA))
	if got := c.Read(); got != 1 {
		t.Fatalf("Read while strobed with A held = %d, want 1", got)
	}
	c.SetButtons(0)
	if got := c.Read(); got != 0 {
		t.Fatalf("Read while strobed with nothing held = %d, want 0", got)
	}
}

func TestSetButtonsDoesNotAffectInFlightShift(t *testing.T) {
	c := New()
	c.SetButtons(uint8(ButtonA))
	c.Write(1)
	c.Write(0) // snapshot = A only

	c.SetButtons(0xFF) // live mask changes mid-shift-out
	if got := c.Read(); got != 1 {
		t.Fatalf("first bit = %d, want 1 (A, from the frozen snapshot)", got)
	}
	if got := c.Read(); got != 0 {
		t.Fatalf("second bit = %d, want 0 (B was not held at strobe time)", got)
	}
}

func TestInputStatePort2OpenBusBit(t *testing.T) {
	is := NewInputState()
	is.Write(0x4016, 1)
	is.Write(0x4016, 0)
	if got := is.Read(0x4017); got&0x40 == 0 {
		t.Fatalf("$4017 read = $%02X, want bit 6 set", got)
	}
}

func TestInputStateStrobeSharedByBothPorts(t *testing.T) {
	is := NewInputState()
	is.Controller1.SetButtons(uint8(ButtonA))
	is.Controller2.SetButtons(uint8(ButtonB))
	is.Write(0x4016, 1)
	is.Write(0x4016, 0)

	if got := is.Read(0x4016) & 1; got != 1 {
		t.Fatalf("controller 1 first bit = %d, want 1", got)
	}
	if got := is.Read(0x4017) & 1; got != 0 {
		t.Fatalf("controller 2 first bit = %d, want 0", got)
	}
}

func TestResetClearsButtonsAndShiftState(t *testing.T) {
	c := New()
	c.SetButtons(0xFF)
	c.Write(1)
	c.Write(0)
	c.Read()
	c.Reset()

	if c.IsPressed(ButtonA) {
		t.Fatal("buttons should be cleared after Reset")
	}
	if got := c.Read(); got != 0 {
		t.Fatalf("Read after Reset = %d, want 0 (nothing latched)", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := New()
	c.SetButtons(uint8(ButtonA))
	c.Write(1)
	c.Write(0)

	clone := c.Clone()
	clone.Read()
	clone.SetButtons(0)

	if !c.IsPressed(ButtonA) {
		t.Fatal("original controller mutated by clone's SetButtons")
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("original shift position advanced by clone's Read: got %d, want 1", got)
	}
}
