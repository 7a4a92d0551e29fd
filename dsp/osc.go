package dsp

import "math"

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveTriangle
)

func (w WaveType) String() string {
	names := [...]string{"sine", "square", "sawtooth", "triangle"}
	if int(w) >= 0 && int(w) < len(names) {
		return names[w]
	}
	return "unknown"
}

// Sample returns the waveform value at phase in [0, 1)
func (w WaveType) Sample(phase float64) float64 {
	switch w {
	case WaveSquare:
		if phase < 0.5 {
			return 1.0
		}
		return -1.0
	case WaveSaw:
		return 2.0 * (phase - 0.5)
	case WaveTriangle:
		return 1.0 - 4.0*math.Abs(phase-0.5)
	default:
		return math.Sin(2 * math.Pi * phase)
	}
}

// LFO is a free-running sine modulator evaluated on the audio clock
type LFO struct {
	Rate  float64 // Hz
	Depth float64
	Phase float64 // cycles, [0, 1)
}

// Value returns the bipolar offset in [-Depth, Depth] at t
func (l *LFO) Value(t float64) float64 {
	return l.Depth * math.Sin(2*math.Pi*(l.Rate*t+l.Phase))
}

// Gate returns a tremolo multiplier in [1-Depth, 1] at t
func (l *LFO) Gate(t float64) float64 {
	s := math.Sin(2 * math.Pi * (l.Rate*t + l.Phase))
	return 1 - l.Depth*0.5*(1-s)
}

// DetuneRatio converts cents to a frequency multiplier
func DetuneRatio(cents float64) float64 {
	if cents == 0 {
		return 1
	}
	return math.Pow(2, cents/1200)
}
