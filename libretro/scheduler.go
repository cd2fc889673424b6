package libretro

import emucore "github.com/user-none/v32retro/api"

// AudioTelemetry is the last audio buffer status reported by the host.
type AudioTelemetry struct {
	Active         bool
	Occupancy      uint
	UnderrunLikely bool
}

// PacingPolicy holds the frame pacing settings applied by the scheduler.
type PacingPolicy struct {
	FrameskipEnabled bool
}

// scheduler runs one console frame per host tick, skipping the video half
// of the frame when the host reports an imminent audio underrun.
type scheduler struct {
	console emucore.Console
	video   emucore.VideoBackend

	videoSink  VideoSink
	audioSink  AudioSink
	inputPoll  InputPoller
	inputState InputStater

	telemetry AudioTelemetry
	policy    PacingPolicy

	audioBuf []int16
}

func newScheduler(console emucore.Console, video emucore.VideoBackend) *scheduler {
	return &scheduler{
		console:    console,
		video:      video,
		videoSink:  nopSinks{},
		audioSink:  nopSinks{},
		inputPoll:  nopSinks{},
		inputState: nopSinks{},
		audioBuf:   make([]int16, emucore.SamplesPerFrame*2),
	}
}

// audioStatus is registered with the host as the telemetry callback.
// Occupancy is recorded but does not take part in the skip decision.
func (s *scheduler) audioStatus(active bool, occupancy uint, underrunLikely bool) {
	s.telemetry = AudioTelemetry{
		Active:         active,
		Occupancy:      occupancy,
		UnderrunLikely: underrunLikely,
	}
}

// setFrameskip applies the policy. Disabling also drops any pending
// underrun report so the next tick renders.
func (s *scheduler) setFrameskip(enabled bool) {
	s.policy.FrameskipEnabled = enabled
	if !enabled {
		s.telemetry.UnderrunLikely = false
	}
}

// shouldSkip reports whether the next tick produces audio only.
func (s *scheduler) shouldSkip() bool {
	return s.policy.FrameskipEnabled && s.telemetry.Active && s.telemetry.UnderrunLikely
}

// tick runs exactly one console frame.
func (s *scheduler) tick() {
	if s.shouldSkip() {
		s.console.RunNextFrame(false)
		s.emitAudio()
		return
	}

	s.inputPoll.InputPoll()
	sampleGamepads(s.console, s.inputState)

	if !s.console.IsPowerOn() {
		s.console.SetPower(true)
	}

	s.video.BeginFrame()
	s.console.RunNextFrame(false)

	// queued quads only reach the framebuffer here
	s.video.RenderQuadQueue()

	s.videoSink.VideoRefresh(Frame{
		HW:     true,
		Width:  emucore.ScreenWidth,
		Height: emucore.ScreenHeight,
	})
	s.emitAudio()
}

// emitAudio sends one frame's worth of samples to the host.
func (s *scheduler) emitAudio() {
	s.console.GetFrameSoundOutput(s.audioBuf)
	s.audioSink.AudioSampleBatch(s.audioBuf, emucore.SamplesPerFrame)
}
