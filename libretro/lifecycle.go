package libretro

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	emucore "github.com/user-none/v32retro/api"
	"github.com/user-none/v32retro/romloader"
	"github.com/user-none/v32retro/storage"
)

// ContextState is the GPU context lifecycle state.
type ContextState int

const (
	ContextUninitialized ContextState = iota
	ContextAcquiring
	ContextActive
	ContextDestroyed
)

// String returns the state name.
func (s ContextState) String() string {
	switch s {
	case ContextUninitialized:
		return "uninitialized"
	case ContextAcquiring:
		return "acquiring"
	case ContextActive:
		return "active"
	case ContextDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// ErrHWContextRejected is returned when the host refuses the GPU context request.
var ErrHWContextRejected = errors.New("HW context could not be initialized")

// ErrNoEmbeddedBios is returned when no firmware file exists and the core
// was built without an embedded image.
var ErrNoEmbeddedBios = errors.New("no embedded bios image")

// ResourceSet is the bookkeeping for resources tied to the loaded game.
// The console owns the decoded data; only paths and load state live here.
type ResourceSet struct {
	BiosLoaded         bool
	BiosSource         string // file path, or "embedded"
	CartridgePath      string // as given by the host; empty when running without a game
	CartridgeLoaded    bool
	MemoryCardPath     string
	MemoryCardAttached bool

	biosAttempted      bool
	cartridgeAttempted bool
	extractDir         string
}

// lifecycle owns the GPU context state machine and resource acquisition.
type lifecycle struct {
	env     Environment
	console emucore.Console
	video   emucore.VideoBackend
	info    emucore.SystemInfo
	cfg     *Config
	log     zerolog.Logger

	state       ContextState
	res         ResourceSet
	hw          HWRenderCallback
	rendererSet bool

	// cycle counts acquisitions; a nested reset during a step bumps it
	cycle uint64
}

// begin records the game and asks the host for a GPU context. On rejection
// the game is forgotten and the state returns to Uninitialized, so late
// context signals for the rejected load are ignored.
func (l *lifecycle) begin(cartridgePath, saveDir string) error {
	if l.state == ContextAcquiring || l.state == ContextActive {
		l.teardown()
		l.state = ContextDestroyed
	}
	l.releaseGame()

	l.res = ResourceSet{}
	if cartridgePath != "" {
		l.res.CartridgePath = cartridgePath
		l.res.MemoryCardPath = storage.MemoryCardPath(saveDir, cartridgePath)
	}

	l.hw = HWRenderCallback{
		ContextType:      l.cfg.ContextType,
		VersionMajor:     l.cfg.VersionMajor,
		VersionMinor:     l.cfg.VersionMinor,
		Depth:            false,
		Stencil:          false,
		BottomLeftOrigin: true,
		ContextReset:     l.contextReady,
		ContextDestroy:   l.contextLost,
	}
	if l.env == nil || !l.env.SetHWRender(&l.hw) {
		l.res = ResourceSet{}
		l.state = ContextUninitialized
		return ErrHWContextRejected
	}

	l.state = ContextAcquiring
	return nil
}

// contextReady runs when the host reports a usable GPU context.
func (l *lifecycle) contextReady() {
	l.log.Info().Msg("Received signal: Reset context")

	switch l.state {
	case ContextUninitialized:
		l.log.Warn().Msg("Context reset before a game was loaded, ignoring")
		return
	case ContextActive:
		l.teardown()
	}
	l.state = ContextAcquiring
	l.cycle++
	cycle := l.cycle

	if l.hw.GetProcAddress != nil {
		if err := l.video.ResolveSymbols(l.hw.GetProcAddress); err != nil {
			l.log.Error().Err(err).Msg("Failed to resolve GPU symbols")
		}
	} else {
		l.log.Warn().Msg("Host provided no GPU symbol resolver")
	}

	l.rendererSet = true
	if err := l.video.InitRendering(); err != nil {
		l.log.Error().Err(err).Msg("Failed to initialize rendering")
	}

	l.console.SetCallbacks(emucore.Callbacks{
		Renderer: l.video,
		LogLine:  func(line string) { l.log.Info().Msg(line) },
		Fault:    func(err error) { l.log.Error().Err(err).Msg("Console fault") },
	})

	now := l.cfg.Now()
	l.console.SetCurrentDate(now.Year(), now.YearDay()-1)
	l.console.SetCurrentTime(now.Hour(), now.Minute(), now.Second())

	// each step is contained; a context loss during a step stops the rest
	steps := []func() StepResult{l.loadBios, l.loadCartridge, l.attachMemoryCard}
	for _, step := range steps {
		l.report(step())
		if l.cycle != cycle {
			// a destroy and reset ran during the step and that cycle owns the
			// state; if it was destroyed too, release what this step loaded
			if l.state != ContextActive {
				l.teardown()
			}
			return
		}
		if l.state != ContextAcquiring {
			// release whatever the interrupted step managed to load
			l.teardown()
			return
		}
	}

	l.state = ContextActive
}

// contextLost runs when the host is about to destroy the GPU context.
func (l *lifecycle) contextLost() {
	l.log.Info().Msg("Received signal: Destroy context")

	switch l.state {
	case ContextUninitialized, ContextDestroyed:
		return
	}
	l.teardown()
	l.state = ContextDestroyed
}

// teardown releases everything acquired in the current context cycle.
// Flags are cleared as resources go, so repeated calls release nothing twice.
func (l *lifecycle) teardown() {
	if l.res.cartridgeAttempted {
		l.console.UnloadCartridge()
		l.res.cartridgeAttempted = false
		l.res.CartridgeLoaded = false
	}
	if l.res.biosAttempted {
		l.console.UnloadBios()
		l.res.biosAttempted = false
		l.res.BiosLoaded = false
		l.res.BiosSource = ""
	}
	if l.rendererSet {
		l.video.Destroy()
		l.rendererSet = false
	}
}

// releaseGame drops the resources bound to the current game.
func (l *lifecycle) releaseGame() {
	if l.res.cartridgeAttempted {
		l.console.UnloadCartridge()
		l.res.cartridgeAttempted = false
		l.res.CartridgeLoaded = false
	}
	if l.res.MemoryCardAttached {
		l.console.UnloadMemoryCard()
		l.res.MemoryCardAttached = false
	}
	l.removeExtracted()
	l.res.CartridgePath = ""
	l.res.MemoryCardPath = ""
}

func (l *lifecycle) removeExtracted() {
	if l.res.extractDir == "" {
		return
	}
	if err := storage.RemoveAll(l.res.extractDir); err != nil {
		l.log.Warn().Err(err).Str("path", l.res.extractDir).Msg("Failed to remove extracted cartridge")
	}
	l.res.extractDir = ""
}

// StepOutcome is the result kind of one acquisition step.
type StepOutcome int

const (
	StepLoaded StepOutcome = iota
	StepFallbackUsed
	StepCreated
	StepSkipped
	StepFailed
)

// String returns the outcome name.
func (o StepOutcome) String() string {
	switch o {
	case StepLoaded:
		return "loaded"
	case StepFallbackUsed:
		return "fallback"
	case StepCreated:
		return "created"
	case StepSkipped:
		return "skipped"
	case StepFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// StepResult describes what one acquisition step did.
type StepResult struct {
	Resource string
	Outcome  StepOutcome
	Path     string
	Err      error
}

func (l *lifecycle) report(r StepResult) {
	switch r.Outcome {
	case StepFailed:
		l.log.Error().Err(r.Err).Str("resource", r.Resource).Str("path", r.Path).Msg("Resource load failed")
	case StepSkipped:
		l.log.Debug().Str("resource", r.Resource).Msg("Resource skipped")
	default:
		l.log.Info().Str("resource", r.Resource).Str("path", r.Path).Stringer("outcome", r.Outcome).Msg("Resource ready")
	}
}

// loadBios prefers a firmware file in the host system directory and falls
// back to the embedded image when there is none. A firmware that fails to
// parse is not retried from the other source.
func (l *lifecycle) loadBios() StepResult {
	if dir, ok := l.env.GetSystemDirectory(); ok && dir != "" {
		path := storage.NormalizeSeparators(dir) + storage.Separator + l.info.BiosFileName
		if storage.FileExists(path) {
			err := l.console.LoadBiosFile(path)
			l.res.biosAttempted = true
			if err != nil {
				return StepResult{Resource: "bios", Outcome: StepFailed, Path: path, Err: err}
			}
			l.res.BiosLoaded = true
			l.res.BiosSource = path
			return StepResult{Resource: "bios", Outcome: StepLoaded, Path: path}
		}
	}

	l.log.Info().Msg("Loading embedded bios")
	if len(l.cfg.EmbeddedBios) == 0 {
		return StepResult{Resource: "bios", Outcome: StepFailed, Path: "embedded", Err: ErrNoEmbeddedBios}
	}
	err := l.console.LoadBiosData(bytes.NewReader(l.cfg.EmbeddedBios))
	l.res.biosAttempted = true
	if err != nil {
		return StepResult{Resource: "bios", Outcome: StepFailed, Path: "embedded", Err: err}
	}
	l.res.BiosLoaded = true
	l.res.BiosSource = "embedded"
	return StepResult{Resource: "bios", Outcome: StepFallbackUsed, Path: "embedded"}
}

// loadCartridge loads the game's cartridge, extracting it first when the
// host handed over an archive.
func (l *lifecycle) loadCartridge() StepResult {
	path := l.res.CartridgePath
	if path == "" {
		return StepResult{Resource: "cartridge", Outcome: StepSkipped}
	}
	loadPath, err := l.cartridgeFile(path)
	if err != nil {
		return StepResult{Resource: "cartridge", Outcome: StepFailed, Path: path, Err: err}
	}
	err = l.console.LoadCartridge(loadPath)
	l.res.cartridgeAttempted = true
	if err != nil {
		return StepResult{Resource: "cartridge", Outcome: StepFailed, Path: loadPath, Err: err}
	}
	l.res.CartridgeLoaded = true
	return StepResult{Resource: "cartridge", Outcome: StepLoaded, Path: loadPath}
}

// cartridgeFile returns a path the console can load for the host path.
func (l *lifecycle) cartridgeFile(path string) (string, error) {
	format, err := romloader.Detect(path, l.info.Extensions)
	if err != nil || !format.IsArchive() {
		// let the console report unreadable files itself
		return path, nil
	}

	if l.res.extractDir == "" {
		dir, err := os.MkdirTemp(l.cfg.TempDir, "v32retro-")
		if err != nil {
			return "", fmt.Errorf("failed to create extraction directory: %w", err)
		}
		l.res.extractDir = dir
	}
	out, _, err := romloader.Extract(path, l.info.Extensions, l.res.extractDir)
	if err != nil {
		return "", fmt.Errorf("failed to extract cartridge from %s archive: %w", format, err)
	}
	l.log.Info().Str("archive", path).Str("path", out).Msg("Extracted cartridge")
	return out, nil
}

// attachMemoryCard attaches the game's memory card, creating an empty one
// first when none exists. An existing card is never recreated.
func (l *lifecycle) attachMemoryCard() StepResult {
	path := l.res.MemoryCardPath
	if path == "" || l.res.MemoryCardAttached {
		return StepResult{Resource: "memory card", Outcome: StepSkipped, Path: path}
	}

	outcome := StepLoaded
	if !storage.FileExists(path) {
		if err := storage.EnsureParentDir(path); err != nil {
			return StepResult{Resource: "memory card", Outcome: StepFailed, Path: path, Err: err}
		}
		if err := l.console.CreateMemoryCard(path); err != nil {
			return StepResult{Resource: "memory card", Outcome: StepFailed, Path: path, Err: err}
		}
		outcome = StepCreated
	}

	if err := l.console.LoadMemoryCard(path); err != nil {
		return StepResult{Resource: "memory card", Outcome: StepFailed, Path: path, Err: err}
	}
	l.res.MemoryCardAttached = true
	return StepResult{Resource: "memory card", Outcome: outcome, Path: path}
}

// defaultNow is the clock used when Config.Now is unset.
func defaultNow() time.Time {
	return time.Now()
}
