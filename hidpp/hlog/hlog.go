// Package hlog adapts the library's logging surface to zerolog.
//
// It mirrors the shape of VIIPER's internal/log.RawLogger: an injectable,
// directional packet logger on top of a leveled structured logger, with a
// nil-writer no-op mode instead of a package-level global.
package hlog

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is the logging surface consumed by the dispatcher, memory and
// profile/setting packages. It is always safe for concurrent use.
type Logger struct {
	z zerolog.Logger
}

// New wraps an existing zerolog.Logger.
func New(z zerolog.Logger) Logger {
	return Logger{z: z}
}

// NewWriter builds a Logger writing to w at the given level.
func NewWriter(w io.Writer, level zerolog.Level) Logger {
	return Logger{z: zerolog.New(w).Level(level).With().Timestamp().Logger()}
}

// Nop returns a Logger that discards everything, the equivalent of
// NewRaw(nil) in the teacher's RawLogger.
func Nop() Logger {
	return Logger{z: zerolog.Nop()}
}

func (l Logger) Debug(msg string, fields map[string]any) {
	l.z.Debug().Fields(fields).Msg(msg)
}

func (l Logger) Warn(msg string, fields map[string]any) {
	l.z.Warn().Fields(fields).Msg(msg)
}

func (l Logger) Error(msg string, err error, fields map[string]any) {
	l.z.Error().Err(err).Fields(fields).Msg(msg)
}

// Raw logs one directional wire-level packet. in=true means device->host,
// in=false means host->device, matching RawLogger.Log's convention.
func (l Logger) Raw(in bool, data []byte) {
	if len(data) == 0 {
		return
	}
	dir := "host->dev"
	if in {
		dir = "dev->host"
	}
	l.z.Trace().Hex("data", data).Int("len", len(data)).Msg(dir)
}
