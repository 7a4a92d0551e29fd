package core

import "strings"

// Mode selects the music generation strategy
type Mode uint8

const (
	ModeArcade Mode = iota // Fixed-tempo step sequencer
	ModeFlow               // Slow chord bed with generative notes
	ModeCount
)

func (m Mode) String() string {
	names := [...]string{"arcade", "flow"}
	if int(m) < len(names) {
		return names[m]
	}
	return "unknown"
}

// ParseMode resolves a config or flag value, case-insensitive
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "arcade", "":
		return ModeArcade, true
	case "flow":
		return ModeFlow, true
	}
	return ModeArcade, false
}

// Next cycles to the following mode
func (m Mode) Next() Mode {
	return (m + 1) % ModeCount
}
