package emucore

// GamepadControl identifies one logical control on a Vircon32 gamepad.
// The console addresses controls by position, so values must not change.
type GamepadControl int

const (
	GamepadLeft GamepadControl = iota
	GamepadRight
	GamepadUp
	GamepadDown
	GamepadButtonStart
	GamepadButtonA
	GamepadButtonB
	GamepadButtonX
	GamepadButtonY
	GamepadButtonL
	GamepadButtonR
)

// GamepadControlCount is the number of controls on every gamepad.
const GamepadControlCount = 11

var controlNames = [GamepadControlCount]string{
	"Left", "Right", "Up", "Down", "Start", "A", "B", "X", "Y", "L", "R",
}

// String returns the label printed on the gamepad for c.
func (c GamepadControl) String() string {
	if c < 0 || int(c) >= GamepadControlCount {
		return "Unknown"
	}
	return controlNames[c]
}
