//go:build headless

package frontend

import "io"

func openHeadlessDevice(io.Reader, float64) (io.Closer, error) {
	return nil, ErrNoAudioDevice
}

func init() {
	openAudioDevice = openHeadlessDevice
}
