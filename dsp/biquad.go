package dsp

import "math"

// FilterType selects the biquad response
type FilterType int

const (
	Lowpass FilterType = iota
	Highpass
	Bandpass
)

func (f FilterType) String() string {
	names := [...]string{"lowpass", "highpass", "bandpass"}
	if int(f) >= 0 && int(f) < len(names) {
		return names[f]
	}
	return "unknown"
}

// minCutoff keeps coefficients finite at the bottom of the range
const minCutoff = 10.0

// Biquad is an RBJ cookbook filter with independent state per stereo channel
// Bandpass uses the constant 0dB peak form
type Biquad struct {
	kind   FilterType
	rate   float64
	cutoff float64
	q      float64

	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     [2]float64
}

// NewBiquad creates a filter at the given sample rate
func NewBiquad(kind FilterType, rate, cutoff, q float64) *Biquad {
	b := &Biquad{kind: kind, rate: rate}
	b.SetParams(cutoff, q)
	return b
}

// SetParams recomputes coefficients, skipping unchanged values
func (b *Biquad) SetParams(cutoff, q float64) {
	nyquist := b.rate * 0.49
	if cutoff < minCutoff {
		cutoff = minCutoff
	} else if cutoff > nyquist {
		cutoff = nyquist
	}
	if q <= 0 {
		q = 0.0001
	}
	if cutoff == b.cutoff && q == b.q {
		return
	}
	b.cutoff, b.q = cutoff, q

	w0 := 2 * math.Pi * cutoff / b.rate
	cosw, sinw := math.Cos(w0), math.Sin(w0)
	alpha := sinw / (2 * q)

	var b0, b1, b2 float64
	switch b.kind {
	case Highpass:
		b0 = (1 + cosw) / 2
		b1 = -(1 + cosw)
		b2 = (1 + cosw) / 2
	case Bandpass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
	default:
		b0 = (1 - cosw) / 2
		b1 = 1 - cosw
		b2 = (1 - cosw) / 2
	}
	a0 := 1 + alpha
	b.b0, b.b1, b.b2 = b0/a0, b1/a0, b2/a0
	b.a1 = -2 * cosw / a0
	b.a2 = (1 - alpha) / a0
}

// Cutoff returns the effective cutoff after clamping
func (b *Biquad) Cutoff() float64 {
	return b.cutoff
}

// Process filters one sample on channel ch (0 or 1)
func (b *Biquad) Process(ch int, x float64) float64 {
	y := b.b0*x + b.b1*b.x1[ch] + b.b2*b.x2[ch] - b.a1*b.y1[ch] - b.a2*b.y2[ch]
	b.x2[ch], b.x1[ch] = b.x1[ch], x
	b.y2[ch], b.y1[ch] = b.y1[ch], y
	return y
}

// Reset clears filter memory
func (b *Biquad) Reset() {
	b.x1, b.x2, b.y1, b.y2 = [2]float64{}, [2]float64{}, [2]float64{}, [2]float64{}
}
