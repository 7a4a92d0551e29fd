package synth

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/dsp"
	"github.com/lixenwraith/quizsynth/parameter"
)

// ToneSpec describes one enveloped oscillator note
type ToneSpec struct {
	Kind     core.VoiceKind // reported to taps, VoiceTone when unsure
	Start    float64
	Freq     float64
	Duration float64
	Peak     float64
	Wave     dsp.WaveType
	Filter   dsp.FilterType
	Cutoff   float64 // 0 skips the filter
	Q        float64 // 0 uses a Butterworth Q
	Detune   float64 // cents
	Glitch   bool    // highpass at 8kHz, peak divided by 50
	Shaped   bool    // route through the quantize curve
	Sends    []Send  // empty sends to master
}

// PercEnvelope rises linearly to peak over the attack then decays
// exponentially to the floor at start+duration
func PercEnvelope(start, duration, peak float64) *dsp.Param {
	g := dsp.NewParam(0)
	g.SetValueAtTime(0, start)
	g.LinearRampToValueAtTime(peak, start+parameter.ToneAttack)
	g.ExponentialRampToValueAtTime(parameter.ToneFloor, start+duration)
	return g
}

// Tone schedules an oscillator through an optional filter and a percussive envelope
func Tone(ctx *Context, spec ToneSpec) {
	if ctx == nil {
		return
	}
	if spec.Duration <= 0 || spec.Freq <= 0 {
		ctx.log.Debugf("tone dropped: freq %.2f duration %.3f", spec.Freq, spec.Duration)
		return
	}
	if spec.Glitch {
		spec.Filter = dsp.Highpass
		spec.Cutoff = parameter.GlitchCutoff
		spec.Peak /= parameter.GlitchDivisor
	}
	if spec.Peak <= 0 {
		return
	}

	t := spec.Start
	osc := NewOscillator(ctx, t, spec.Wave, dsp.NewParam(spec.Freq))
	osc.Detune = spec.Detune

	var src beep.Streamer = osc
	if spec.Cutoff > 0 {
		q := spec.Q
		if q <= 0 {
			q = parameter.DefaultQ
		}
		src = NewFilter(ctx, t, src, spec.Filter, dsp.NewParam(spec.Cutoff), q)
	}
	if spec.Shaped {
		src = &Shaper{Source: src, Curve: ctx.curve}
	}
	src = NewAmp(ctx, t, src, PercEnvelope(t, spec.Duration, spec.Peak))

	ctx.Schedule(&Voice{
		Kind:   spec.Kind,
		Freq:   spec.Freq,
		Peak:   spec.Peak,
		Start:  t,
		Stop:   t + spec.Duration + parameter.ToneTail,
		Source: src,
		Sends:  spec.Sends,
	})
}

// Kick schedules a sine sweeping down from 150Hz with a matching decay
func Kick(ctx *Context, t float64) {
	if ctx == nil {
		return
	}
	freq := dsp.NewParam(parameter.KickFreq)
	freq.SetValueAtTime(parameter.KickFreq, t)
	freq.ExponentialRampToValueAtTime(parameter.KickFreqFloor, t+parameter.KickDecay)

	gain := dsp.NewParam(1)
	gain.SetValueAtTime(1, t)
	gain.ExponentialRampToValueAtTime(parameter.KickGainFloor, t+parameter.KickDecay)

	osc := NewOscillator(ctx, t, dsp.WaveSine, freq)
	ctx.Schedule(&Voice{
		Kind:   core.VoiceKick,
		Freq:   parameter.KickFreq,
		Peak:   1,
		Start:  t,
		Stop:   t + parameter.KickDecay,
		Source: NewAmp(ctx, t, osc, gain),
	})
}

// Snare schedules a fast-decaying 150Hz triangle
func Snare(ctx *Context, t float64) {
	if ctx == nil {
		return
	}
	gain := dsp.NewParam(parameter.SnareGain)
	gain.SetValueAtTime(parameter.SnareGain, t)
	gain.ExponentialRampToValueAtTime(parameter.KickGainFloor, t+parameter.SnareDecay)

	osc := NewOscillator(ctx, t, dsp.WaveTriangle, dsp.NewParam(parameter.SnareFreq))
	ctx.Schedule(&Voice{
		Kind:   core.VoiceSnare,
		Freq:   parameter.SnareFreq,
		Peak:   parameter.SnareGain,
		Start:  t,
		Stop:   t + parameter.SnareStopTime,
		Source: NewAmp(ctx, t, osc, gain),
	})
}

// HatGain returns the hi-hat level at a density
func HatGain(density int) float64 {
	return parameter.HatBaseGain + float64(density)*parameter.HatDensityGain
}

// Hat schedules the shared noise burst through a highpass, louder at higher density
func Hat(ctx *Context, t float64, density int) {
	if ctx == nil {
		return
	}
	peak := HatGain(density)
	gain := dsp.NewParam(peak)
	gain.SetValueAtTime(peak, t)
	gain.ExponentialRampToValueAtTime(parameter.ToneFloor, t+parameter.HatDecay)

	hp := NewFilter(ctx, t, ctx.NoiseStreamer(), dsp.Highpass, dsp.NewParam(parameter.HatCutoff), parameter.DefaultQ)
	ctx.Schedule(&Voice{
		Kind:   core.VoiceHat,
		Peak:   peak,
		Start:  t,
		Stop:   t + parameter.HatNoiseLength,
		Source: NewAmp(ctx, t, hp, gain),
	})
}

// HarmonicStack schedules sawtooth partials at ratios of root under one
// opening lowpass and one slow swell envelope
func HarmonicStack(ctx *Context, t, root, duration float64, ratios []float64) {
	if ctx == nil {
		return
	}
	if duration <= 0 || root <= 0 || len(ratios) == 0 {
		ctx.log.Debugf("stack dropped: root %.2f duration %.3f partials %d", root, duration, len(ratios))
		return
	}
	partials := make([]beep.Streamer, 0, len(ratios))
	for _, r := range ratios {
		partials = append(partials, NewOscillator(ctx, t, dsp.WaveSaw, dsp.NewParam(root*r)))
	}

	cutoff := dsp.NewParam(parameter.StackCutoffStart)
	cutoff.SetValueAtTime(parameter.StackCutoffStart, t)
	cutoff.LinearRampToValueAtTime(parameter.StackCutoffEnd, t+duration)

	gain := dsp.NewParam(0)
	gain.SetValueAtTime(0, t)
	gain.LinearRampToValueAtTime(parameter.StackPeak, t+parameter.StackAttack)
	gain.LinearRampToValueAtTime(0, t+duration+parameter.StackRelease)

	lp := NewFilter(ctx, t, beep.Mix(partials...), dsp.Lowpass, cutoff, parameter.DefaultQ)
	ctx.Schedule(&Voice{
		Kind:   core.VoiceSwell,
		Freq:   root,
		Peak:   parameter.StackPeak,
		Start:  t,
		Stop:   t + duration + parameter.StackTail,
		Source: NewAmp(ctx, t, lp, gain),
	})
}

// organHarmonics is the number of partials in an organ note
const organHarmonics = 4

// Organ schedules harmonics 1..4 alternating square and sawtooth at 1/h
// amplitude under one percussive envelope
func Organ(ctx *Context, t, freq, duration, peak float64) {
	if ctx == nil {
		return
	}
	if duration <= 0 || freq <= 0 || peak <= 0 {
		ctx.log.Debugf("organ dropped: freq %.2f duration %.3f", freq, duration)
		return
	}
	partials := make([]beep.Streamer, 0, organHarmonics)
	for h := 1; h <= organHarmonics; h++ {
		wave := dsp.WaveSquare
		if h%2 == 0 {
			wave = dsp.WaveSaw
		}
		osc := NewOscillator(ctx, t, wave, dsp.NewParam(freq*float64(h)))
		partials = append(partials, NewAmp(ctx, t, osc, dsp.NewParam(1/float64(h))))
	}

	ctx.Schedule(&Voice{
		Kind:   core.VoiceOrgan,
		Freq:   freq,
		Peak:   peak,
		Start:  t,
		Stop:   t + duration + parameter.ToneTail,
		Source: NewAmp(ctx, t, beep.Mix(partials...), PercEnvelope(t, duration, peak)),
	})
}
