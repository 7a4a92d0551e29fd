package core

// VoiceKind identifies the musical role of a scheduled voice
type VoiceKind int

const (
	VoiceKick VoiceKind = iota
	VoiceSnare
	VoiceHat
	VoiceBass
	VoiceTick
	VoiceArp
	VoicePad
	VoiceLead
	VoiceStab
	VoiceGlitch
	VoiceSwell
	VoiceOrgan
	VoiceBell
	VoiceChoir
	VoiceAmbient
	VoicePulse
	VoiceUI
	VoiceChime
	VoiceTone // Generic primitive with no musical role
	VoiceKindCount
)

func (k VoiceKind) String() string {
	names := [...]string{
		"kick", "snare", "hat", "bass", "tick", "arp", "pad", "lead", "stab",
		"glitch", "swell", "organ", "bell", "choir", "ambient", "pulse", "ui",
		"chime", "tone",
	}
	if int(k) >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// IsDrum returns true for percussion voices
func (k VoiceKind) IsDrum() bool {
	return k <= VoiceHat
}

// IsSustained returns true for voices that stay open until released
func (k VoiceKind) IsSustained() bool {
	return k == VoiceAmbient || k == VoicePulse
}
