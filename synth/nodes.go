package synth

import (
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/quizsynth/dsp"
	"github.com/lixenwraith/quizsynth/parameter"
)

// timebase maps a node's stream position onto the audio clock
// Every node in one voice shares the voice start, so automation lines up
type timebase struct {
	t0   float64
	rate float64
	pos  int64
}

func (tb *timebase) at(i int) float64 {
	return tb.t0 + float64(tb.pos+int64(i))/tb.rate
}

// Oscillator generates a periodic wave with automated frequency
// Setting ModIndex turns it into a 2-operator FM pair: a sine modulator at
// ModRatio times the carrier deviates the carrier frequency by ModIndex Hz
type Oscillator struct {
	timebase
	Wave     dsp.WaveType
	Freq     *dsp.Param
	Detune   float64 // cents
	ModRatio float64
	ModIndex *dsp.Param

	phase    float64
	modPhase float64
}

// NewOscillator creates an oscillator starting at t
func NewOscillator(ctx *Context, t float64, wave dsp.WaveType, freq *dsp.Param) *Oscillator {
	return &Oscillator{
		timebase: timebase{t0: t, rate: ctx.rate},
		Wave:     wave,
		Freq:     freq,
	}
}

func (o *Oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	detune := dsp.DetuneRatio(o.Detune)
	for i := range samples {
		t := o.at(i)
		f := o.Freq.ValueAt(t) * detune
		if o.ModIndex != nil {
			m := math.Sin(2 * math.Pi * o.modPhase)
			o.modPhase += f * o.ModRatio / o.rate
			o.modPhase -= math.Floor(o.modPhase)
			f += o.ModIndex.ValueAt(t) * m
		}

		v := o.Wave.Sample(o.phase)
		samples[i][0] = v
		samples[i][1] = v

		o.phase += f / o.rate
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
	}
	o.pos += int64(len(samples))
	return len(samples), true
}

func (o *Oscillator) Err() error { return nil }

// Filter runs a source through a biquad whose cutoff follows a param plus an optional LFO
type Filter struct {
	timebase
	Source beep.Streamer
	Cutoff *dsp.Param
	LFO    *dsp.LFO
	Q      float64

	biquad *dsp.Biquad
}

// NewFilter creates a filter node starting at t
func NewFilter(ctx *Context, t float64, src beep.Streamer, kind dsp.FilterType, cutoff *dsp.Param, q float64) *Filter {
	return &Filter{
		timebase: timebase{t0: t, rate: ctx.rate},
		Source:   src,
		Cutoff:   cutoff,
		Q:        q,
		biquad:   dsp.NewBiquad(kind, ctx.rate, cutoff.ValueAt(t), q),
	}
}

func (f *Filter) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = f.Source.Stream(samples)
	for i := 0; i < n; i++ {
		if i%parameter.ParamUpdateInterval == 0 {
			t := f.at(i)
			cut := f.Cutoff.ValueAt(t)
			if f.LFO != nil {
				cut += f.LFO.Value(t)
			}
			f.biquad.SetParams(cut, f.Q)
		}
		samples[i][0] = f.biquad.Process(0, samples[i][0])
		samples[i][1] = f.biquad.Process(1, samples[i][1])
	}
	f.pos += int64(n)
	return n, ok
}

func (f *Filter) Err() error { return f.Source.Err() }

// Amp applies an automated gain, optionally gated by a tremolo LFO
type Amp struct {
	timebase
	Source  beep.Streamer
	Gain    *dsp.Param
	Tremolo *dsp.LFO
}

// NewAmp creates a gain node starting at t
func NewAmp(ctx *Context, t float64, src beep.Streamer, gain *dsp.Param) *Amp {
	return &Amp{
		timebase: timebase{t0: t, rate: ctx.rate},
		Source:   src,
		Gain:     gain,
	}
}

func (a *Amp) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = a.Source.Stream(samples)
	for i := 0; i < n; i++ {
		t := a.at(i)
		g := a.Gain.ValueAt(t)
		if a.Tremolo != nil {
			g *= a.Tremolo.Gate(t)
		}
		samples[i][0] *= g
		samples[i][1] *= g
	}
	a.pos += int64(n)
	return n, ok
}

func (a *Amp) Err() error { return a.Source.Err() }

// Shaper maps a source through a waveshaping curve
type Shaper struct {
	Source beep.Streamer
	Curve  *dsp.Curve
}

func (s *Shaper) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = s.Source.Stream(samples)
	for i := 0; i < n; i++ {
		samples[i][0] = s.Curve.Shape(samples[i][0])
		samples[i][1] = s.Curve.Shape(samples[i][1])
	}
	return n, ok
}

func (s *Shaper) Err() error { return s.Source.Err() }
