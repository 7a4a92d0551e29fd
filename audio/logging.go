package audio

import (
	"io"
	"strings"

	"github.com/pion/logging"
)

// Logger scopes
const (
	ScopeEngine = "engine"
	ScopeArcade = "arcade"
	ScopeFlow   = "flow"
	ScopeSynth  = "synth"
)

// ParseLogLevel maps a config level name to a pion level, unknown names map to warn
func ParseLogLevel(level string) (logging.LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "disabled", "off", "none":
		return logging.LogLevelDisabled, true
	case "error":
		return logging.LogLevelError, true
	case "warn", "warning", "":
		return logging.LogLevelWarn, true
	case "info":
		return logging.LogLevelInfo, true
	case "debug":
		return logging.LogLevelDebug, true
	case "trace":
		return logging.LogLevelTrace, true
	}
	return logging.LogLevelWarn, false
}

// NewLoggerFactory builds a leveled logger factory writing to w
// A nil writer discards everything, which is what a full-screen console needs
func NewLoggerFactory(level string, w io.Writer) logging.LoggerFactory {
	lvl, _ := ParseLogLevel(level)
	if w == nil {
		w = io.Discard
	}
	return &logging.DefaultLoggerFactory{
		Writer:          w,
		DefaultLogLevel: lvl,
		ScopeLevels:     make(map[string]logging.LogLevel),
	}
}
