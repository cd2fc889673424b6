package emucore

// Fixed Vircon32 hardware parameters.
const (
	ScreenWidth     = 640
	ScreenHeight    = 360
	FramesPerSecond = 60
	SampleRate      = 44100
	GamepadPorts    = 4

	// SamplesPerFrame is the number of stereo sample frames the SPU
	// produces per video frame.
	SamplesPerFrame = SampleRate / FramesPerSecond
)

// CoreOptionType identifies the kind of core option.
type CoreOptionType int

const (
	CoreOptionBool CoreOptionType = iota
	CoreOptionSelect
)

// CoreOption describes a configurable core setting exposed to the host.
type CoreOption struct {
	Key         string
	Label       string
	Description string
	Type        CoreOptionType
	Default     string
	Values      []string // Options for Select type
}

// SystemInfo describes the console for the host.
type SystemInfo struct {
	CoreName         string
	CoreVersion      string
	ConsoleName      string
	Extensions       []string
	NeedFullPath     bool
	ScreenWidth      int
	ScreenHeight     int
	PixelAspectRatio float64
	Region           Region
	Timing           Timing
	Players          int
	CoreOptions      []CoreOption
	BiosFileName     string
}

// FrameskipOptionKey is the host variable controlling automatic frame skip.
const FrameskipOptionKey = "enable_frameskip"

// Frameskip option values.
const (
	FrameskipDisabled = "Disabled"
	FrameskipEnabled  = "Enabled"
)

// Vircon32 returns the system description of the Vircon32 console.
func Vircon32() SystemInfo {
	return SystemInfo{
		CoreName:    "Vircon32",
		CoreVersion: "2024.04.14",
		ConsoleName: "Vircon32",
		// Hosts may match extensions case sensitively.
		Extensions:       []string{"v32", "V32"},
		NeedFullPath:     true, // cartridges can be too large to hold in memory
		ScreenWidth:      ScreenWidth,
		ScreenHeight:     ScreenHeight,
		PixelAspectRatio: 1.0,
		Region:           RegionNTSC,
		Timing:           Timing{FPS: FramesPerSecond, SampleRate: SampleRate},
		Players:          GamepadPorts,
		CoreOptions: []CoreOption{
			{
				Key:         FrameskipOptionKey,
				Label:       "Automatic frame skip",
				Description: "Skip rendering when the audio buffer is about to underrun",
				Type:        CoreOptionSelect,
				Default:     FrameskipDisabled,
				Values:      []string{FrameskipDisabled, FrameskipEnabled},
			},
		},
		BiosFileName: "Vircon32Bios.v32",
	}
}

// FindOption returns the declared option with key, if any.
func (s SystemInfo) FindOption(key string) (CoreOption, bool) {
	for _, opt := range s.CoreOptions {
		if opt.Key == key {
			return opt, true
		}
	}
	return CoreOption{}, false
}

// DisplayAspectRatio returns the display aspect ratio of a width x height
// picture made of pixels with the given pixel aspect ratio.
func DisplayAspectRatio(width, height int, par float64) float64 {
	if height == 0 {
		return 0
	}
	return float64(width) / float64(height) * par
}
