// Package libretro adapts a Vircon32 console to a libretro host. The host
// owns the main loop, the audio/video sinks and the input sources; Core is
// driven entirely by synchronous calls from the host thread.
package libretro

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	emucore "github.com/user-none/v32retro/api"
)

// Config holds construction settings for a Core.
type Config struct {
	// EmbeddedBios is the firmware used when the host system directory
	// has no firmware file. No image ships with this package: the binary
	// building the core sets it, usually from a //go:embed variable. When
	// empty, the firmware step fails with ErrNoEmbeddedBios unless the
	// system directory holds the firmware file.
	EmbeddedBios []byte

	ContextType  HWContextType
	VersionMajor uint
	VersionMinor uint

	// Now supplies the wall clock copied into the console.
	Now func() time.Time

	LogLevel zerolog.Level

	// LogOutput receives log lines until the host provides a log interface.
	LogOutput io.Writer

	// TempDir is where archived cartridges are extracted ("" = os.TempDir()).
	TempDir string
}

// DefaultConfig requests an OpenGL 3.0 core context. It carries no
// embedded firmware.
func DefaultConfig() Config {
	return Config{
		ContextType:  HWContextOpenGLCore,
		VersionMajor: 3,
		VersionMinor: 0,
		Now:          defaultNow,
		LogLevel:     zerolog.DebugLevel,
		LogOutput:    os.Stderr,
	}
}

// Core is one libretro core instance bound to a console and a rendering
// backend. The console and backend are shared collaborators; Core never
// takes ownership of them.
type Core struct {
	cfg     Config
	info    emucore.SystemInfo
	console emucore.Console
	video   emucore.VideoBackend
	env     Environment

	logw *hostLogWriter
	log  zerolog.Logger

	sched   *scheduler
	options *configSync
	life    *lifecycle
}

// NewCore creates a core driving console and video.
func NewCore(console emucore.Console, video emucore.VideoBackend, cfg Config) *Core {
	if cfg.Now == nil {
		cfg.Now = defaultNow
	}

	c := &Core{
		cfg:     cfg,
		info:    emucore.Vircon32(),
		console: console,
		video:   video,
		logw:    &hostLogWriter{fallback: cfg.LogOutput},
	}
	c.log = newLogger(c.logw, cfg.LogLevel)
	c.sched = newScheduler(console, video)
	c.options = &configSync{info: c.info, sched: c.sched, log: c.log}
	c.life = &lifecycle{
		console: console,
		video:   video,
		info:    c.info,
		cfg:     &c.cfg,
		log:     c.log,
	}
	return c
}

// Logger returns the core logger.
func (c *Core) Logger() zerolog.Logger {
	return c.log
}

// SetEnvironment receives the host environment and declares the core's
// capabilities: no-game support, controllers, and options.
func (c *Core) SetEnvironment(env Environment) {
	c.env = env
	c.options.env = env
	c.life.env = env

	// the core can run the BIOS alone, so the host must not unload it
	env.SetSupportNoGame(true)

	env.SetInputDescriptors(inputDescriptors())
	env.SetControllerInfo(controllerInfo())
	env.SetVariables(c.options.variables())

	if fn, ok := env.GetLogInterface(); ok && fn != nil {
		c.logw.fn = fn
	}
}

// SetVideoRefresh sets the host video sink.
func (c *Core) SetVideoRefresh(sink VideoSink) {
	c.sched.videoSink = sink
}

// SetAudioSampleBatch sets the host audio sink.
func (c *Core) SetAudioSampleBatch(sink AudioSink) {
	c.sched.audioSink = sink
}

// SetInputPoll sets the host input poller.
func (c *Core) SetInputPoll(p InputPoller) {
	c.sched.inputPoll = p
}

// SetInputState sets the host input state source.
func (c *Core) SetInputState(s InputStater) {
	c.sched.inputState = s
}

// Init is called once after the core is loaded.
func (c *Core) Init() {
	c.log.Info().Msg("Received signal: Init")
}

// Deinit is called once before the core is unloaded.
func (c *Core) Deinit() {
	c.log.Info().Msg("Received signal: Deinit")
	c.life.removeExtracted()
}

// APIVersion returns the libretro API version.
func (c *Core) APIVersion() uint {
	return APIVersion
}

// SystemInfo describes the core to the host.
func (c *Core) SystemInfo() SystemInfo {
	return SystemInfo{
		LibraryName:     c.info.CoreName,
		LibraryVersion:  c.info.CoreVersion,
		ValidExtensions: strings.Join(c.info.Extensions, "|"),
		NeedFullPath:    c.info.NeedFullPath,
	}
}

// SystemAVInfo describes the fixed output format.
func (c *Core) SystemAVInfo() SystemAVInfo {
	return SystemAVInfo{
		Geometry: GameGeometry{
			BaseWidth:  uint(c.info.ScreenWidth),
			BaseHeight: uint(c.info.ScreenHeight),
			MaxWidth:   uint(c.info.ScreenWidth),
			MaxHeight:  uint(c.info.ScreenHeight),
			AspectRatio: float32(emucore.DisplayAspectRatio(
				c.info.ScreenWidth, c.info.ScreenHeight, c.info.PixelAspectRatio)),
		},
		Timing: SystemTiming{
			FPS:        float64(c.info.Timing.FPS),
			SampleRate: float64(c.info.Timing.SampleRate),
		},
	}
}

// SetControllerPortDevice connects or disconnects the gamepad on port.
func (c *Core) SetControllerPortDevice(port, device uint) {
	if port >= emucore.GamepadPorts {
		return
	}
	c.console.SetGamepadConnection(int(port), device == DeviceJoypad)
}

// Reset performs a console soft reset.
func (c *Core) Reset() {
	c.log.Info().Msg("Received signal: Reset")
	c.console.Reset()
}

// Run advances the core by one host frame.
func (c *Core) Run() {
	if c.env != nil {
		if updated, ok := c.env.GetVariableUpdate(); ok && updated {
			c.options.sync()
		}
	}
	c.sched.tick()
}

// LoadGame prepares the core for game, or for running the BIOS alone when
// game is nil or has no path. Resources are loaded later, once the host
// reports the GPU context ready.
func (c *Core) LoadGame(game *GameInfo) bool {
	c.log.Info().Msg("Received signal: Load game")
	if c.env == nil {
		c.log.Error().Msg("Load game called before the environment was set")
		return false
	}

	// pacing must be settled before gameplay begins
	c.options.sync()

	if !c.env.SetPixelFormat(PixelFormatXRGB8888) {
		c.log.Error().Msg("XRGB8888 is not supported")
		return false
	}

	var cartridge string
	if game != nil && game.Path != "" {
		cartridge = game.Path
		c.log.Info().Str("path", cartridge).Msg("Core loaded with game")
	} else {
		c.log.Info().Msg("Core loaded with no game")
	}

	saveDir, _ := c.env.GetSaveDirectory()
	if err := c.life.begin(cartridge, saveDir); err != nil {
		c.log.Error().Err(err).Msg("Failed to load game")
		return false
	}
	return true
}

// UnloadGame releases the cartridge and memory card of the loaded game.
func (c *Core) UnloadGame() {
	c.log.Info().Msg("Received signal: Unload game")
	c.life.releaseGame()
}

// GetRegion reports the console region; Vircon32 is NTSC-timed at 60 fps.
func (c *Core) GetRegion() uint {
	return uint(c.info.Region)
}

// ContextState returns the GPU context lifecycle state.
func (c *Core) ContextState() ContextState {
	return c.life.state
}

// Resources returns a copy of the resource bookkeeping.
func (c *Core) Resources() ResourceSet {
	return c.life.res
}

// Telemetry returns the last audio buffer status received from the host.
func (c *Core) Telemetry() AudioTelemetry {
	return c.sched.telemetry
}

// Policy returns the pacing policy in effect.
func (c *Core) Policy() PacingPolicy {
	return c.sched.policy
}

// SkipNextFrame reports whether the next Run will skip rendering.
func (c *Core) SkipNextFrame() bool {
	return c.sched.shouldSkip()
}
