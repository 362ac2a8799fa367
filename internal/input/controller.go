// Package input implements the standard NES controller: an 8-bit
// shift-register gamepad latched by a strobe line.
package input

import "log"

// Button identifies one gamepad button by its bit position in the
// 8-bit mask (A=0, B=1, Select=2, Start=3, Up=4, Down=5, Left=6, Right=7).
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller is one standard NES gamepad.
type Controller struct {
	buttons        uint8
	shiftRegister  uint8
	strobe         bool
	buttonSnapshot uint8
	bitPosition    uint8

	debugEnabled bool
}

// New creates a Controller with no buttons pressed.
func New() *Controller {
	return &Controller{}
}

// SetButtons replaces the live button mask. Per spec section 4.5 this is
// latched into the shift register only on the next strobe transition.
func (c *Controller) SetButtons(mask uint8) {
	if c.debugEnabled {
		log.Printf("controller: buttons 0x%02X -> 0x%02X", c.buttons, mask)
	}
	c.buttons = mask
}

// IsPressed reports whether button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles a CPU write to $4016: bit 0 is the strobe line. While
// strobe is high the shift register is continuously reloaded from the
// live button mask; the falling edge freezes the snapshot to be shifted
// out by subsequent reads.
func (c *Controller) Write(value uint8) {
	wasHigh := c.strobe
	c.strobe = value&1 != 0
	if c.strobe || wasHigh {
		c.buttonSnapshot = c.buttons
		c.shiftRegister = c.buttons
		c.bitPosition = 0
	}
}

// Read shifts out one bit. While strobe is high it keeps returning bit 0
// of the live mask; once eight bits have been shifted out it returns 0.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.buttonSnapshot = c.buttons
		return c.buttonSnapshot & 1
	}
	if c.bitPosition >= 8 {
		return 0
	}
	bit := c.shiftRegister & 1
	c.shiftRegister >>= 1
	c.bitPosition++
	return bit
}

// Reset clears all controller state.
func (c *Controller) Reset() {
	*c = Controller{debugEnabled: c.debugEnabled}
}

// EnableDebug toggles button-change logging.
func (c *Controller) EnableDebug(enable bool) { c.debugEnabled = enable }

// Clone returns an independent copy for snapshotting.
func (c *Controller) Clone() *Controller {
	clone := *c
	return &clone
}

// InputState wires the two controller ports to CPU addresses $4016/$4017.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates two idle controllers.
func NewInputState() *InputState {
	return &InputState{Controller1: New(), Controller2: New()}
}

// Reset clears both controllers.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// EnableDebug toggles logging on both controllers.
func (is *InputState) EnableDebug(enable bool) {
	is.Controller1.EnableDebug(enable)
	is.Controller2.EnableDebug(enable)
}

// Read routes $4016/$4017 reads to the matching controller. $4017 sets
// bit 6, matching the open-bus behavior real hardware exhibits for the
// (here stubbed) second port.
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read()
	case 0x4017:
		return is.Controller2.Read() | 0x40
	default:
		return 0
	}
}

// Write routes $4016 writes; the strobe line is shared by both ports.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		is.Controller1.Write(value)
		is.Controller2.Write(value)
	}
}

// Clone returns an independent copy for snapshotting.
func (is *InputState) Clone() *InputState {
	return &InputState{Controller1: is.Controller1.Clone(), Controller2: is.Controller2.Clone()}
}
