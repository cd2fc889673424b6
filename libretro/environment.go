package libretro

import emucore "github.com/user-none/v32retro/api"

// APIVersion is the libretro API version implemented by Core.
const APIVersion = 1

// Device types.
const (
	DeviceNone   = 0
	DeviceJoypad = 1
)

// Libretro joypad button IDs.
const (
	JoypadB      = 0
	JoypadY      = 1
	JoypadSelect = 2
	JoypadStart  = 3
	JoypadUp     = 4
	JoypadDown   = 5
	JoypadLeft   = 6
	JoypadRight  = 7
	JoypadA      = 8
	JoypadX      = 9
	JoypadL      = 10
	JoypadR      = 11
)

// PixelFormat is the framebuffer format negotiated with the host.
type PixelFormat int

const (
	PixelFormat0RGB1555 PixelFormat = iota
	PixelFormatXRGB8888
	PixelFormatRGB565
)

// HWContextType is the kind of GPU context requested from the host.
type HWContextType int

const (
	HWContextNone HWContextType = iota
	HWContextOpenGL
	HWContextOpenGLES2
	HWContextOpenGLCore
	HWContextOpenGLES3
)

// HWRenderCallback is the GPU context negotiation record. The core fills the
// requested capabilities and its lifecycle callbacks; the host fills
// GetProcAddress and GetCurrentFramebuffer when it accepts the request.
type HWRenderCallback struct {
	ContextType      HWContextType
	VersionMajor     uint
	VersionMinor     uint
	Depth            bool
	Stencil          bool
	BottomLeftOrigin bool

	// ContextReset is called by the host once the context is usable,
	// and again after the host recreates it.
	ContextReset func()

	// ContextDestroy is called by the host before the context goes away.
	ContextDestroy func()

	GetProcAddress        emucore.ProcAddressFunc
	GetCurrentFramebuffer func() uintptr
}

// InputDescriptor names one control on one port for the host's remapping UI.
type InputDescriptor struct {
	Port        uint
	Device      uint
	Index       uint
	ID          uint
	Description string
}

// ControllerDescription is one device type that can be plugged into a port.
type ControllerDescription struct {
	Desc string
	ID   uint
}

// ControllerInfo lists the device types a port accepts.
type ControllerInfo struct {
	Types []ControllerDescription
}

// Variable declares a core option as "Label; value1|value2".
type Variable struct {
	Key   string
	Value string
}

// LogLevel is the host log severity.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
)

// LogFunc writes one line to the host log.
type LogFunc func(level LogLevel, msg string)

// AudioBufferStatusFunc receives audio buffer telemetry from the host.
// Occupancy is a percentage of the host's audio buffer.
type AudioBufferStatusFunc func(active bool, occupancy uint, underrunLikely bool)

// Environment is the host's environment interface. Every method returns
// whether the host supports and accepted the request.
type Environment interface {
	SetSupportNoGame(supported bool) bool
	SetInputDescriptors(desc []InputDescriptor) bool
	SetControllerInfo(info []ControllerInfo) bool
	SetVariables(vars []Variable) bool
	GetVariable(key string) (string, bool)
	GetVariableUpdate() (updated bool, ok bool)
	GetLogInterface() (LogFunc, bool)
	SetPixelFormat(format PixelFormat) bool
	SetHWRender(cb *HWRenderCallback) bool

	// SetAudioBufferStatusCallback registers cb; a nil cb unregisters.
	SetAudioBufferStatusCallback(cb AudioBufferStatusFunc) bool

	GetSystemDirectory() (string, bool)
	GetSaveDirectory() (string, bool)
}

// Frame is one video frame handed to the host. When HW is set the frame was
// rendered into the host's GPU framebuffer and Data is nil.
type Frame struct {
	HW     bool
	Data   []byte
	Width  int
	Height int
	Pitch  int
}

// VideoSink receives rendered frames.
type VideoSink interface {
	VideoRefresh(frame Frame)
}

// AudioSink receives interleaved stereo samples. frames counts stereo pairs.
type AudioSink interface {
	AudioSampleBatch(samples []int16, frames int) int
}

// InputPoller asks the host to latch input state for this frame.
type InputPoller interface {
	InputPoll()
}

// InputStater reports the state of one control.
type InputStater interface {
	InputState(port, device, index, id uint) int16
}

// GameInfo describes the content the host asks the core to load.
type GameInfo struct {
	Path string
	Data []byte
	Meta string
}

// SystemInfo is the static description returned to the host.
type SystemInfo struct {
	LibraryName     string
	LibraryVersion  string
	ValidExtensions string
	NeedFullPath    bool
	BlockExtract    bool
}

// GameGeometry describes the output picture.
type GameGeometry struct {
	BaseWidth   uint
	BaseHeight  uint
	MaxWidth    uint
	MaxHeight   uint
	AspectRatio float32
}

// SystemTiming describes output rates.
type SystemTiming struct {
	FPS        float64
	SampleRate float64
}

// SystemAVInfo is the audio/video description returned to the host.
type SystemAVInfo struct {
	Geometry GameGeometry
	Timing   SystemTiming
}

type nopSinks struct{}

func (nopSinks) VideoRefresh(Frame)                    {}
func (nopSinks) AudioSampleBatch(_ []int16, n int) int { return n }
func (nopSinks) InputPoll()                            {}
func (nopSinks) InputState(_, _, _, _ uint) int16      { return 0 }
