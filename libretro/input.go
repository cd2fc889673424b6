package libretro

import emucore "github.com/user-none/v32retro/api"

// padControl binds a console gamepad control to a libretro joypad ID.
type padControl struct {
	control emucore.GamepadControl
	retroID uint
}

// padSampleOrder is the order controls are read and forwarded to the
// console every frame.
var padSampleOrder = [emucore.GamepadControlCount]padControl{
	{emucore.GamepadLeft, JoypadLeft},
	{emucore.GamepadRight, JoypadRight},
	{emucore.GamepadUp, JoypadUp},
	{emucore.GamepadDown, JoypadDown},
	{emucore.GamepadButtonStart, JoypadStart},
	{emucore.GamepadButtonA, JoypadA},
	{emucore.GamepadButtonB, JoypadB},
	{emucore.GamepadButtonX, JoypadX},
	{emucore.GamepadButtonY, JoypadY},
	{emucore.GamepadButtonL, JoypadL},
	{emucore.GamepadButtonR, JoypadR},
}

// padDescriptorOrder is the order controls are listed to the host.
var padDescriptorOrder = [emucore.GamepadControlCount]padControl{
	{emucore.GamepadLeft, JoypadLeft},
	{emucore.GamepadUp, JoypadUp},
	{emucore.GamepadDown, JoypadDown},
	{emucore.GamepadRight, JoypadRight},
	{emucore.GamepadButtonStart, JoypadStart},
	{emucore.GamepadButtonA, JoypadA},
	{emucore.GamepadButtonB, JoypadB},
	{emucore.GamepadButtonX, JoypadX},
	{emucore.GamepadButtonY, JoypadY},
	{emucore.GamepadButtonL, JoypadL},
	{emucore.GamepadButtonR, JoypadR},
}

// controllerName is the single device type offered on every port.
const controllerName = "Vircon32 Gamepad"

// inputDescriptors lists every control of every port.
func inputDescriptors() []InputDescriptor {
	desc := make([]InputDescriptor, 0, emucore.GamepadPorts*emucore.GamepadControlCount)
	for port := uint(0); port < emucore.GamepadPorts; port++ {
		for _, pc := range padDescriptorOrder {
			desc = append(desc, InputDescriptor{
				Port:        port,
				Device:      DeviceJoypad,
				ID:          pc.retroID,
				Description: pc.control.String(),
			})
		}
	}
	return desc
}

// controllerInfo declares the identical port topology.
func controllerInfo() []ControllerInfo {
	info := make([]ControllerInfo, emucore.GamepadPorts)
	for i := range info {
		info[i] = ControllerInfo{Types: []ControllerDescription{{Desc: controllerName, ID: DeviceJoypad}}}
	}
	return info
}

// sampleGamepads forwards the host's input state for every connected port.
func sampleGamepads(console emucore.Console, input InputStater) {
	for port := 0; port < emucore.GamepadPorts; port++ {
		if !console.HasGamepad(port) {
			continue
		}
		for _, pc := range padSampleOrder {
			pressed := input.InputState(uint(port), DeviceJoypad, 0, pc.retroID) != 0
			console.SetGamepadControl(port, pc.control, pressed)
		}
	}
}
