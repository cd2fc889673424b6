package libretro

import (
	"bytes"
	"io"

	"github.com/rs/zerolog"
)

// hostLogWriter renders zerolog events as plain lines and forwards them to
// the host log interface. Until the host provides one, lines go to fallback.
type hostLogWriter struct {
	fn       LogFunc
	fallback io.Writer
}

var _ zerolog.LevelWriter = (*hostLogWriter)(nil)

func newLogger(w *hostLogWriter, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level)
}

// Write satisfies io.Writer for events without a level.
func (w *hostLogWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel formats one JSON event and hands it to the host.
func (w *hostLogWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	var line bytes.Buffer
	cw := zerolog.ConsoleWriter{
		Out:          &line,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName},
	}
	if _, err := cw.Write(p); err != nil {
		return 0, err
	}

	if w.fn != nil {
		w.fn(hostLevel(level), line.String())
		return len(p), nil
	}
	if w.fallback != nil {
		if _, err := w.fallback.Write(line.Bytes()); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}

func hostLevel(level zerolog.Level) LogLevel {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return LogDebug
	case zerolog.WarnLevel:
		return LogWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return LogError
	default:
		return LogInfo
	}
}
