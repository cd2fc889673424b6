// Package frontend is a minimal in-process libretro host. It drives a
// libretro.Core without a real frontend, which makes it useful for tools
// and for exercising the core end to end.
package frontend

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/user-none/v32retro/libretro"
	"github.com/user-none/v32retro/options"
)

// DefaultAudioCapacity holds about 100ms of 44.1kHz stereo 16-bit audio.
const DefaultAudioCapacity = 17640

// DefaultUnderrunThreshold is the buffer occupancy (percent) below which an
// underrun is reported as likely.
const DefaultUnderrunThreshold = 25

// ErrNoAudioDevice is returned by StartAudio when the build has no audio output.
var ErrNoAudioDevice = errors.New("no audio device available")

// AudioOpener starts playback of src and returns a handle that stops it.
type AudioOpener func(src io.Reader, volume float64) (io.Closer, error)

// openAudioDevice is the platform audio output, set by the build.
var openAudioDevice AudioOpener = func(io.Reader, float64) (io.Closer, error) {
	return nil, ErrNoAudioDevice
}

// Config configures a Host.
type Config struct {
	SystemDir string
	SaveDir   string

	// Options are the initial option values.
	Options options.Values

	// Telemetry reports whether the host accepts an audio buffer status callback.
	Telemetry bool

	AudioCapacity     int
	UnderrunThreshold int

	// OpenAudio replaces the system audio output used by StartAudio.
	OpenAudio AudioOpener

	Logger zerolog.Logger
}

// Counters tracks the traffic a core produced.
type Counters struct {
	InputPolls   int
	VideoFrames  int
	AudioBatches int
	AudioFrames  int
}

// Host implements libretro.Environment and every sink a core needs.
type Host struct {
	mu  sync.Mutex
	log zerolog.Logger

	systemDir string
	saveDir   string

	values   options.Values
	updated  bool
	declared []libretro.Variable

	descriptors []libretro.InputDescriptor
	controllers []libretro.ControllerInfo
	pixelFormat libretro.PixelFormat
	noGame      bool

	hw       *libretro.HWRenderCallback
	gpuReady bool

	telemetry bool
	statusCb  libretro.AudioBufferStatusFunc
	threshold int

	audio     *AudioRingBuffer
	audioCap  int
	openAudio AudioOpener
	device    io.Closer
	pressed   map[[2]uint]bool
	counters  Counters
	lastSeen  libretro.Frame
}

var _ libretro.Environment = (*Host)(nil)

// NewHost creates a host from cfg.
func NewHost(cfg Config) *Host {
	if cfg.AudioCapacity <= 0 {
		cfg.AudioCapacity = DefaultAudioCapacity
	}
	if cfg.UnderrunThreshold <= 0 {
		cfg.UnderrunThreshold = DefaultUnderrunThreshold
	}
	if cfg.OpenAudio == nil {
		cfg.OpenAudio = openAudioDevice
	}
	values := options.Values{}
	for k, v := range cfg.Options {
		values[k] = v
	}
	return &Host{
		log:       cfg.Logger,
		systemDir: cfg.SystemDir,
		saveDir:   cfg.SaveDir,
		values:    values,
		telemetry: cfg.Telemetry,
		threshold: cfg.UnderrunThreshold,
		audio:     NewAudioRingBuffer(cfg.AudioCapacity),
		audioCap:  cfg.AudioCapacity,
		openAudio: cfg.OpenAudio,
		pressed:   map[[2]uint]bool{},
	}
}

// LoadOptionsFile merges values from an options file and flags an update.
func (h *Host) LoadOptionsFile(path string) error {
	values, err := options.Load(path)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for k, v := range values {
		h.values[k] = v
	}
	h.updated = true
	h.log.Debug().Str("path", path).Int("count", len(values)).Msg("Loaded options file")
	return nil
}

// SetOption changes one option value. The core sees it on its next update check.
func (h *Host) SetOption(key, value string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.values[key] = value
	h.updated = true
}

// SetTelemetrySupported switches audio buffer status support on or off.
// Turning it off drops any registered callback.
func (h *Host) SetTelemetrySupported(supported bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.telemetry = supported
	if !supported {
		h.statusCb = nil
	}
}

// TelemetryRegistered reports whether the core has a status callback registered.
func (h *Host) TelemetryRegistered() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.statusCb != nil
}

// PushAudioStatus sends an audio buffer status to the core. It returns
// false when no callback is registered.
func (h *Host) PushAudioStatus(active bool, occupancy uint, underrunLikely bool) bool {
	h.mu.Lock()
	cb := h.statusCb
	h.mu.Unlock()

	if cb == nil {
		return false
	}
	cb(active, occupancy, underrunLikely)
	return true
}

// ReportAudioStatus derives the status from the audio ring and pushes it.
// Audio is only reported active while a device is draining the ring.
func (h *Host) ReportAudioStatus() bool {
	h.mu.Lock()
	rb := h.audio
	active := h.device != nil
	h.mu.Unlock()

	occupancy := uint(rb.Buffered() * 100 / rb.Capacity())
	return h.PushAudioStatus(active, occupancy, occupancy < uint(h.threshold))
}

// Audio returns the ring the audio sink writes into. An audio device reads
// from it.
func (h *Host) Audio() *AudioRingBuffer {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.audio
}

// StartAudio starts playing the audio ring. Calling it while audio is
// running does nothing. Volume is clamped to [0, 2].
func (h *Host) StartAudio(volume float64) error {
	if volume < 0 {
		volume = 0
	} else if volume > 2.0 {
		volume = 2.0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.device != nil {
		return nil
	}
	dev, err := h.openAudio(h.audio, volume)
	if err != nil {
		return err
	}
	h.device = dev
	h.log.Debug().Float64("volume", volume).Msg("Audio started")
	return nil
}

// StopAudio stops playback and drops queued audio. The sink keeps
// accepting samples into a fresh ring.
func (h *Host) StopAudio() error {
	h.mu.Lock()
	dev := h.device
	rb := h.audio
	h.device = nil
	h.audio = NewAudioRingBuffer(h.audioCap)
	h.mu.Unlock()

	if dev == nil {
		return nil
	}
	// wake a device blocked on an empty ring
	rb.Close()
	return dev.Close()
}

// AudioRunning reports whether an audio device is playing the ring.
func (h *Host) AudioRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.device != nil
}

// Press sets the state of one joypad button on port.
func (h *Host) Press(port, id uint, pressed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pressed[[2]uint{port, id}] = pressed
}

// ContextReset tells the core its GPU context is ready.
func (h *Host) ContextReset() error {
	h.mu.Lock()
	hw := h.hw
	h.mu.Unlock()

	if hw == nil || hw.ContextReset == nil {
		return fmt.Errorf("no hardware render callback registered")
	}
	hw.ContextReset()

	h.mu.Lock()
	h.gpuReady = true
	h.mu.Unlock()
	return nil
}

// ContextDestroy tells the core its GPU context is going away.
func (h *Host) ContextDestroy() {
	h.mu.Lock()
	hw := h.hw
	ready := h.gpuReady
	h.gpuReady = false
	h.mu.Unlock()

	if hw == nil || hw.ContextDestroy == nil || !ready {
		return
	}
	hw.ContextDestroy()
}

// Counters returns a snapshot of the traffic counters.
func (h *Host) Counters() Counters {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counters
}

// Declared returns the options the core declared.
func (h *Host) Declared() []libretro.Variable {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]libretro.Variable(nil), h.declared...)
}

// Descriptors returns the input descriptors the core declared.
func (h *Host) Descriptors() []libretro.InputDescriptor {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]libretro.InputDescriptor(nil), h.descriptors...)
}

// Controllers returns the controller types the core declared per port.
func (h *Host) Controllers() []libretro.ControllerInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]libretro.ControllerInfo(nil), h.controllers...)
}

// SupportsNoGame reports whether the core can run without content.
func (h *Host) SupportsNoGame() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.noGame
}

// PixelFormat returns the pixel format the core selected.
func (h *Host) PixelFormat() libretro.PixelFormat {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pixelFormat
}

// LastFrame returns the most recent frame the core presented.
func (h *Host) LastFrame() libretro.Frame {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastSeen
}

// Environment

func (h *Host) SetSupportNoGame(supported bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.noGame = supported
	return true
}

func (h *Host) SetInputDescriptors(d []libretro.InputDescriptor) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.descriptors = append([]libretro.InputDescriptor(nil), d...)
	return true
}

func (h *Host) SetControllerInfo(info []libretro.ControllerInfo) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controllers = append([]libretro.ControllerInfo(nil), info...)
	return true
}

func (h *Host) SetVariables(vars []libretro.Variable) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.declared = append([]libretro.Variable(nil), vars...)
	for _, v := range vars {
		h.log.Debug().Str("key", v.Key).Str("definition", v.Value).Msg("Core option declared")
	}
	return true
}

func (h *Host) GetVariable(key string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.values[key]
	return v, ok
}

func (h *Host) GetVariableUpdate() (bool, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	updated := h.updated
	h.updated = false
	return updated, true
}

func (h *Host) GetLogInterface() (libretro.LogFunc, bool) {
	return h.coreLog, true
}

func (h *Host) coreLog(level libretro.LogLevel, msg string) {
	msg = strings.TrimRight(msg, "\n")
	var ev *zerolog.Event
	switch level {
	case libretro.LogDebug:
		ev = h.log.Debug()
	case libretro.LogWarn:
		ev = h.log.Warn()
	case libretro.LogError:
		ev = h.log.Error()
	default:
		ev = h.log.Info()
	}
	ev.Str("source", "core").Msg(msg)
}

func (h *Host) SetPixelFormat(format libretro.PixelFormat) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pixelFormat = format
	return true
}

func (h *Host) SetHWRender(cb *libretro.HWRenderCallback) bool {
	if cb == nil {
		return false
	}
	cb.GetProcAddress = func(string) uintptr { return 0 }
	cb.GetCurrentFramebuffer = func() uintptr { return 0 }

	h.mu.Lock()
	defer h.mu.Unlock()
	h.hw = cb
	h.gpuReady = false
	return true
}

func (h *Host) SetAudioBufferStatusCallback(cb libretro.AudioBufferStatusFunc) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.telemetry {
		return false
	}
	h.statusCb = cb
	return true
}

func (h *Host) GetSystemDirectory() (string, bool) {
	return h.systemDir, h.systemDir != ""
}

func (h *Host) GetSaveDirectory() (string, bool) {
	return h.saveDir, h.saveDir != ""
}

// Sinks

func (h *Host) VideoRefresh(f libretro.Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counters.VideoFrames++
	h.lastSeen = f
}

// AudioSampleBatch queues interleaved stereo samples as little-endian bytes.
func (h *Host) AudioSampleBatch(samples []int16, frames int) int {
	n := frames * 2
	if n < 0 {
		n = 0
	}
	if n > len(samples) {
		n = len(samples)
	}
	buf := make([]byte, 0, n*2)
	for _, s := range samples[:n] {
		buf = append(buf, byte(s), byte(s>>8))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.audio.Write(buf)
	h.counters.AudioBatches++
	h.counters.AudioFrames += n / 2
	return n / 2
}

func (h *Host) InputPoll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.counters.InputPolls++
}

func (h *Host) InputState(port, device, index, id uint) int16 {
	if device != libretro.DeviceJoypad {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pressed[[2]uint{port, id}] {
		return 1
	}
	return 0
}
