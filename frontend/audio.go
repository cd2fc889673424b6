//go:build !headless

package frontend

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	emucore "github.com/user-none/v32retro/api"
)

// otoBufferBytes is ~50ms of 44.1kHz stereo 16-bit audio.
const otoBufferBytes = 8820

// oto allows one context per process
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext() (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   emucore.SampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-ready
	})
	return otoCtx, otoInitErr
}

// otoDevice plays the host audio ring through the system audio output.
type otoDevice struct {
	player *oto.Player
}

func openOtoDevice(src io.Reader, volume float64) (io.Closer, error) {
	ctx, err := ensureOtoContext()
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	player := ctx.NewPlayer(src)
	// keep oto's own buffer small so the ring level tracks what is queued
	player.SetBufferSize(otoBufferBytes)
	// set before Play to avoid a pop when muted
	player.SetVolume(volume)
	player.Play()
	return &otoDevice{player: player}, nil
}

func (d *otoDevice) Close() error {
	return d.player.Close()
}

func init() {
	openAudioDevice = openOtoDevice
}
