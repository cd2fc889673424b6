package libretro

import (
	"testing"

	emucore "github.com/user-none/v32retro/api"
)

// TestJoypadConstants verifies libretro button ID constants
func TestJoypadConstants(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"JoypadB", JoypadB, 0},
		{"JoypadY", JoypadY, 1},
		{"JoypadSelect", JoypadSelect, 2},
		{"JoypadStart", JoypadStart, 3},
		{"JoypadUp", JoypadUp, 4},
		{"JoypadDown", JoypadDown, 5},
		{"JoypadLeft", JoypadLeft, 6},
		{"JoypadRight", JoypadRight, 7},
		{"JoypadA", JoypadA, 8},
		{"JoypadX", JoypadX, 9},
		{"JoypadL", JoypadL, 10},
		{"JoypadR", JoypadR, 11},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

// TestSampleGamepads_Order verifies controls are forwarded in console order
func TestSampleGamepads_Order(t *testing.T) {
	console := newFakeConsole()
	env := newFakeEnv()

	sampleGamepads(console, env)

	want := []emucore.GamepadControl{
		emucore.GamepadLeft, emucore.GamepadRight, emucore.GamepadUp, emucore.GamepadDown,
		emucore.GamepadButtonStart, emucore.GamepadButtonA, emucore.GamepadButtonB,
		emucore.GamepadButtonX, emucore.GamepadButtonY, emucore.GamepadButtonL, emucore.GamepadButtonR,
	}
	if len(console.controlOrder) != len(want) {
		t.Fatalf("sampled %d controls, want %d", len(console.controlOrder), len(want))
	}
	for i := range want {
		if console.controlOrder[i] != want[i] {
			t.Errorf("control[%d] = %v, want %v", i, console.controlOrder[i], want[i])
		}
	}
}

// TestSampleGamepads_Mapping verifies host IDs map to the right console control
func TestSampleGamepads_Mapping(t *testing.T) {
	console := newFakeConsole()
	console.gamepads[2] = true
	env := newFakeEnv()
	env.pressed[[2]uint{0, JoypadA}] = true
	env.pressed[[2]uint{2, JoypadLeft}] = true
	env.pressed[[2]uint{1, JoypadStart}] = true // port 1 has no gamepad

	sampleGamepads(console, env)

	if !console.controls[0][emucore.GamepadButtonA] {
		t.Error("port 0 A not pressed")
	}
	if console.controls[0][emucore.GamepadButtonB] {
		t.Error("port 0 B pressed")
	}
	if !console.controls[2][emucore.GamepadLeft] {
		t.Error("port 2 Left not pressed")
	}
	if console.controls[1][emucore.GamepadButtonStart] {
		t.Error("disconnected port 1 was sampled")
	}
}

// TestInputDescriptors verifies 4 ports x 11 controls are declared
func TestInputDescriptors(t *testing.T) {
	desc := inputDescriptors()
	if len(desc) != emucore.GamepadPorts*emucore.GamepadControlCount {
		t.Fatalf("len = %d, want %d", len(desc), emucore.GamepadPorts*emucore.GamepadControlCount)
	}
	if desc[0].Description != "Left" || desc[0].ID != JoypadLeft || desc[0].Port != 0 {
		t.Errorf("desc[0] = %+v", desc[0])
	}
	last := desc[len(desc)-1]
	if last.Port != 3 || last.ID != JoypadR || last.Description != "R" {
		t.Errorf("last = %+v", last)
	}
	for _, d := range desc {
		if d.Device != DeviceJoypad {
			t.Errorf("descriptor %+v is not a joypad", d)
		}
	}
}

// TestControllerInfo verifies identical single-type ports
func TestControllerInfo(t *testing.T) {
	info := controllerInfo()
	if len(info) != emucore.GamepadPorts {
		t.Fatalf("ports = %d, want %d", len(info), emucore.GamepadPorts)
	}
	for i, p := range info {
		if len(p.Types) != 1 || p.Types[0].ID != DeviceJoypad || p.Types[0].Desc != controllerName {
			t.Errorf("port %d = %+v", i, p)
		}
	}
}
