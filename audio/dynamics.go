package audio

import "github.com/lixenwraith/quizsynth/parameter"

// Crossfade maps a streak onto [0, 1] across a window
// Below From it is 0, at To and beyond it is exactly 1, linear in between
func Crossfade(streak int, w parameter.StreakWindow) float64 {
	if w.To <= w.From {
		if float64(streak) >= w.To {
			return 1
		}
		return 0
	}
	x := (float64(streak) - w.From) / (w.To - w.From)
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}

// ArpLevel is the arpeggio volume at a streak
func ArpLevel(streak int) float64 {
	return parameter.ArpVolume * Crossfade(streak, parameter.ArpWindow)
}

// PadLevel is the arcade pad peak at a streak
func PadLevel(streak int) float64 {
	return parameter.PadVolume * Crossfade(streak, parameter.PadWindow)
}

// LeadLevel is the lead line volume at a streak
func LeadLevel(streak int) float64 {
	return parameter.LeadVolume * Crossfade(streak, parameter.LeadWindow)
}
