package libretro

import (
	"errors"
	"io"
	"os"
	"strings"
	"time"

	emucore "github.com/user-none/v32retro/api"
)

// fakeConsole records every call made by the adapter
type fakeConsole struct {
	calls []string

	biosFileErr  error
	biosDataErr  error
	cartErr      error
	createErr    error
	loadCardErr  error
	biosData     []byte
	cartPath     string
	cardPath     string
	callbacks    emucore.Callbacks
	powered      bool
	gamepads     [emucore.GamepadPorts]bool
	controls     [emucore.GamepadPorts][emucore.GamepadControlCount]bool
	controlOrder []emucore.GamepadControl
	year, yday   int
	hh, mm, ss   int
	frames       int
	onLoadBios   func()
}

func newFakeConsole() *fakeConsole {
	fc := &fakeConsole{}
	fc.gamepads[0] = true
	return fc
}

func (f *fakeConsole) record(s string) { f.calls = append(f.calls, s) }

func (f *fakeConsole) count(s string) int {
	n := 0
	for _, c := range f.calls {
		if c == s {
			n++
		}
	}
	return n
}

func (f *fakeConsole) SetCallbacks(cb emucore.Callbacks) {
	f.record("SetCallbacks")
	f.callbacks = cb
}

func (f *fakeConsole) LoadBiosFile(path string) error {
	f.record("LoadBiosFile")
	if f.onLoadBios != nil {
		f.onLoadBios()
	}
	return f.biosFileErr
}

func (f *fakeConsole) LoadBiosData(r io.Reader) error {
	f.record("LoadBiosData")
	f.biosData, _ = io.ReadAll(r)
	return f.biosDataErr
}

func (f *fakeConsole) UnloadBios() { f.record("UnloadBios") }

func (f *fakeConsole) LoadCartridge(path string) error {
	f.record("LoadCartridge")
	f.cartPath = path
	return f.cartErr
}

func (f *fakeConsole) UnloadCartridge() { f.record("UnloadCartridge") }

func (f *fakeConsole) CreateMemoryCard(path string) error {
	f.record("CreateMemoryCard")
	if f.createErr != nil {
		return f.createErr
	}
	return os.WriteFile(path, make([]byte, 16), 0644)
}

func (f *fakeConsole) LoadMemoryCard(path string) error {
	f.record("LoadMemoryCard")
	if f.loadCardErr != nil {
		return f.loadCardErr
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	f.cardPath = path
	return nil
}

func (f *fakeConsole) UnloadMemoryCard() { f.record("UnloadMemoryCard") }

func (f *fakeConsole) SetCurrentDate(year, dayOfYear int) {
	f.year, f.yday = year, dayOfYear
}

func (f *fakeConsole) SetCurrentTime(h, m, s int) {
	f.hh, f.mm, f.ss = h, m, s
}

func (f *fakeConsole) IsPowerOn() bool { return f.powered }

func (f *fakeConsole) SetPower(on bool) {
	f.record("SetPower")
	f.powered = on
}

func (f *fakeConsole) Reset() { f.record("Reset") }

func (f *fakeConsole) RunNextFrame(interactive bool) {
	f.record("RunNextFrame")
	f.frames++
}

func (f *fakeConsole) GetFrameSoundOutput(buf []int16) {
	for i := range buf {
		buf[i] = int16(i)
	}
}

func (f *fakeConsole) HasGamepad(port int) bool { return f.gamepads[port] }

func (f *fakeConsole) SetGamepadConnection(port int, connected bool) {
	f.gamepads[port] = connected
}

func (f *fakeConsole) SetGamepadControl(port int, control emucore.GamepadControl, pressed bool) {
	f.controls[port][control] = pressed
	if port == 0 {
		f.controlOrder = append(f.controlOrder, control)
	}
}

// fakeVideo records rendering backend calls
type fakeVideo struct {
	calls      []string
	resolveErr error
	initErr    error
}

func (v *fakeVideo) record(s string) { v.calls = append(v.calls, s) }

func (v *fakeVideo) count(s string) int {
	n := 0
	for _, c := range v.calls {
		if c == s {
			n++
		}
	}
	return n
}

func (v *fakeVideo) ClearScreen(emucore.Color)            {}
func (v *fakeVideo) DrawQuad(emucore.Quad)                {}
func (v *fakeVideo) SetMultiplyColor(emucore.Color)       {}
func (v *fakeVideo) SetBlendingMode(emucore.BlendingMode) {}
func (v *fakeVideo) SelectTexture(int)                    {}
func (v *fakeVideo) LoadTexture(int, []byte)              {}
func (v *fakeVideo) UnloadCartridgeTextures()             {}
func (v *fakeVideo) UnloadBiosTexture()                   {}

func (v *fakeVideo) ResolveSymbols(emucore.ProcAddressFunc) error {
	v.record("ResolveSymbols")
	return v.resolveErr
}

func (v *fakeVideo) InitRendering() error {
	v.record("InitRendering")
	return v.initErr
}

func (v *fakeVideo) BeginFrame()      { v.record("BeginFrame") }
func (v *fakeVideo) RenderQuadQueue() { v.record("RenderQuadQueue") }
func (v *fakeVideo) Destroy()         { v.record("Destroy") }

// fakeEnv is a scriptable host environment and sink set
type fakeEnv struct {
	systemDir string
	saveDir   string
	variables map[string]string
	updated   bool

	rejectPixelFormat bool
	rejectHWRender    bool
	noTelemetry       bool

	hw          *HWRenderCallback
	statusCb    AudioBufferStatusFunc
	statusCalls int
	declared    []Variable
	descriptors []InputDescriptor
	controllers []ControllerInfo
	logLines    []string

	polls        int
	videoFrames  []Frame
	audioBatches []int
	pressed      map[[2]uint]bool
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{variables: map[string]string{}, pressed: map[[2]uint]bool{}}
}

func (e *fakeEnv) SetSupportNoGame(bool) bool { return true }

func (e *fakeEnv) SetInputDescriptors(d []InputDescriptor) bool {
	e.descriptors = d
	return true
}

func (e *fakeEnv) SetControllerInfo(i []ControllerInfo) bool {
	e.controllers = i
	return true
}

func (e *fakeEnv) SetVariables(v []Variable) bool {
	e.declared = v
	return true
}

func (e *fakeEnv) GetVariable(key string) (string, bool) {
	v, ok := e.variables[key]
	return v, ok
}

func (e *fakeEnv) GetVariableUpdate() (bool, bool) {
	u := e.updated
	e.updated = false
	return u, true
}

func (e *fakeEnv) GetLogInterface() (LogFunc, bool) {
	return func(level LogLevel, msg string) { e.logLines = append(e.logLines, msg) }, true
}

func (e *fakeEnv) SetPixelFormat(PixelFormat) bool { return !e.rejectPixelFormat }

func (e *fakeEnv) SetHWRender(cb *HWRenderCallback) bool {
	if e.rejectHWRender {
		return false
	}
	cb.GetProcAddress = func(string) uintptr { return 1 }
	e.hw = cb
	return true
}

func (e *fakeEnv) SetAudioBufferStatusCallback(cb AudioBufferStatusFunc) bool {
	e.statusCalls++
	if e.noTelemetry {
		return false
	}
	e.statusCb = cb
	return true
}

func (e *fakeEnv) GetSystemDirectory() (string, bool) { return e.systemDir, e.systemDir != "" }
func (e *fakeEnv) GetSaveDirectory() (string, bool)   { return e.saveDir, true }

func (e *fakeEnv) VideoRefresh(f Frame) { e.videoFrames = append(e.videoFrames, f) }

func (e *fakeEnv) AudioSampleBatch(samples []int16, frames int) int {
	e.audioBatches = append(e.audioBatches, frames)
	return frames
}

func (e *fakeEnv) InputPoll() { e.polls++ }

func (e *fakeEnv) InputState(port, device, index, id uint) int16 {
	if e.pressed[[2]uint{port, id}] {
		return 1
	}
	return 0
}

func (e *fakeEnv) hasLog(substr string) bool {
	for _, l := range e.logLines {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// testClock is a fixed wall clock
var testClock = time.Date(2024, time.March, 5, 13, 45, 30, 0, time.Local)

// newTestCore wires a core to fresh fakes
func newTestCore(env *fakeEnv) (*Core, *fakeConsole, *fakeVideo) {
	console := newFakeConsole()
	video := &fakeVideo{}
	cfg := DefaultConfig()
	cfg.EmbeddedBios = []byte("embedded-bios")
	cfg.Now = func() time.Time { return testClock }
	cfg.LogOutput = io.Discard
	core := NewCore(console, video, cfg)
	core.SetEnvironment(env)
	core.SetVideoRefresh(env)
	core.SetAudioSampleBatch(env)
	core.SetInputPoll(env)
	core.SetInputState(env)
	return core, console, video
}

var errBoom = errors.New("boom")
