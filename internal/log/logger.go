// Package log provides a global logger with configurable logging level. Nothing is logged by
// default so that command output stays clean; the CLI raises the level when asked to debug.

package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelNone    Level = iota // Disables logging.
	LevelError                // Logs anomalies that are not expected to occur during normal use.
	LevelWarning              // Logs anomalies that are expected to occur occasionally, such as an unreachable backend.
	LevelInfo                 // Logs major events.
	LevelDebug                // Logs per-device results, conflicts and radio IO.
)

var (
	globalLogLevel Level
	logMutex       sync.Mutex

	output     io.Writer = os.Stderr
	structured bool
	logger     = newLogger(output, structured)
)

func newLogger(w io.Writer, jsonOutput bool) zerolog.Logger {
	if !jsonOutput {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func SetLevel(level Level) {
	logMutex.Lock()
	defer logMutex.Unlock()
	globalLogLevel = level
}

// SetOutput redirects log messages to w.
func SetOutput(w io.Writer) {
	logMutex.Lock()
	defer logMutex.Unlock()
	output = w
	logger = newLogger(output, structured)
}

// SetJSON switches between one JSON object per message and human-readable lines.
func SetJSON(enabled bool) {
	logMutex.Lock()
	defer logMutex.Unlock()
	structured = enabled
	logger = newLogger(output, structured)
}

func current(level Level) (zerolog.Logger, bool) {
	logMutex.Lock()
	defer logMutex.Unlock()
	return logger, level <= globalLogLevel
}

func log(level Level, format string, a ...interface{}) {
	l, enabled := current(level)
	if !enabled {
		return
	}
	var event *zerolog.Event
	switch level {
	case LevelDebug:
		event = l.Debug()
	case LevelInfo:
		event = l.Info()
	case LevelWarning:
		event = l.Warn()
	default:
		event = l.Error()
	}
	event.Msgf(format, a...)
}

func Debug(format string, a ...interface{}) {
	log(LevelDebug, format, a...)
}
func Info(format string, a ...interface{}) {
	log(LevelInfo, format, a...)
}
func Warning(format string, a ...interface{}) {
	log(LevelWarning, format, a...)
}
func Error(format string, a ...interface{}) {
	log(LevelError, format, a...)
}
