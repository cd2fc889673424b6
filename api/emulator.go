package emucore

import "io"

// Console is the contract the libretro adapter drives. Implementations wrap
// a cycle-stepped Vircon32 console; the adapter never touches console state
// except through these methods.
type Console interface {
	// SetCallbacks wires the console's video and log output to the adapter.
	SetCallbacks(cb Callbacks)

	// LoadBiosFile loads the firmware from a file on disk.
	LoadBiosFile(path string) error

	// LoadBiosData loads the firmware from an in-memory image.
	LoadBiosData(r io.Reader) error

	// UnloadBios releases the loaded firmware. Safe when none is loaded.
	UnloadBios()

	// LoadCartridge loads the cartridge at path.
	LoadCartridge(path string) error

	// UnloadCartridge releases the loaded cartridge. Safe when none is loaded.
	UnloadCartridge()

	// CreateMemoryCard writes a new empty memory card file at path.
	CreateMemoryCard(path string) error

	// LoadMemoryCard attaches the memory card file at path.
	LoadMemoryCard(path string) error

	// UnloadMemoryCard detaches the memory card. Safe when none is attached.
	UnloadMemoryCard()

	// SetCurrentDate sets the console clock date. Day is zero-based within the year.
	SetCurrentDate(year, dayOfYear int)

	// SetCurrentTime sets the console clock time of day.
	SetCurrentTime(hours, minutes, seconds int)

	// IsPowerOn reports whether the console is powered.
	IsPowerOn() bool

	// SetPower switches the console on or off.
	SetPower(on bool)

	// Reset performs a soft reset.
	Reset()

	// RunNextFrame advances emulation by exactly one frame. When interactive
	// is false the call never blocks waiting for user input.
	RunNextFrame(interactive bool)

	// GetFrameSoundOutput fills buf with one frame of interleaved stereo
	// samples (SamplesPerFrame frames, 2*SamplesPerFrame values).
	GetFrameSoundOutput(buf []int16)

	// HasGamepad reports whether a gamepad is connected on port.
	HasGamepad(port int) bool

	// SetGamepadConnection connects or disconnects the gamepad on port.
	SetGamepadConnection(port int, connected bool)

	// SetGamepadControl sets the pressed state of one control on port.
	SetGamepadControl(port int, control GamepadControl, pressed bool)
}

// Callbacks is the set of console outputs routed through the adapter.
type Callbacks struct {
	// Renderer receives the console's draw operations.
	Renderer Renderer

	// LogLine receives informational lines from the console.
	LogLine func(line string)

	// Fault receives unrecoverable console runtime errors.
	Fault func(err error)
}
