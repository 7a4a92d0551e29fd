package audio

import (
	"math"
	"math/rand"

	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/dsp"
	"github.com/lixenwraith/quizsynth/parameter"
	"github.com/lixenwraith/quizsynth/synth"
)

// Library builds musical events from synth primitives and routes them to the buses
// A library over a nil context drops every call
type Library struct {
	ctx *synth.Context
	rng *rand.Rand
}

// NewLibrary creates a voice library on ctx
func NewLibrary(ctx *synth.Context, rng *rand.Rand) *Library {
	return &Library{ctx: ctx, rng: rng}
}

func (l *Library) ready() bool {
	return l != nil && l.ctx != nil
}

// Kick plays a kick drum at t
func (l *Library) Kick(t float64) {
	if l.ready() {
		synth.Kick(l.ctx, t)
	}
}

// Snare plays a snare at t
func (l *Library) Snare(t float64) {
	if l.ready() {
		synth.Snare(l.ctx, t)
	}
}

// Hat plays a hi-hat at t, louder at higher density
func (l *Library) Hat(t float64, density int) {
	if l.ready() {
		synth.Hat(l.ctx, t, density)
	}
}

// Bass plays a short filtered sawtooth at the root
func (l *Library) Bass(t, root float64) {
	if !l.ready() {
		return
	}
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceBass,
		Start:    t,
		Freq:     root,
		Duration: parameter.BassDuration,
		Peak:     parameter.BassVolume,
		Wave:     dsp.WaveSaw,
		Filter:   dsp.Lowpass,
		Cutoff:   parameter.BassCutoff,
	})
}

// HarmonicTick plays a triangle a fifth above the root
func (l *Library) HarmonicTick(t, root float64) {
	if !l.ready() {
		return
	}
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceTick,
		Start:    t,
		Freq:     root * parameter.TickRatio,
		Duration: parameter.TickDuration,
		Peak:     parameter.TickVolume,
		Wave:     dsp.WaveTriangle,
		Filter:   dsp.Lowpass,
		Cutoff:   parameter.TickCutoff,
	})
}

// Arp plays the arpeggio note for step n, crossfaded in by streak
func (l *Library) Arp(t float64, n int64, root float64, streak int) {
	vol := ArpLevel(streak)
	if !l.ready() || vol <= 0 {
		return
	}
	seq := parameter.ArpSequence
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceArp,
		Start:    t,
		Freq:     root * seq[(n/2)%int64(len(seq))],
		Duration: parameter.ArpDuration,
		Peak:     vol,
		Wave:     dsp.WaveSquare,
		Filter:   dsp.Lowpass,
		Cutoff:   parameter.ArpCutoff,
	})
}

// Lead plays the solo note for step n, crossfaded in by streak
func (l *Library) Lead(t float64, n int64, root float64, streak int) {
	vol := LeadLevel(streak)
	if !l.ready() || vol <= 0 {
		return
	}
	seq := parameter.LeadSequence
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceLead,
		Start:    t,
		Freq:     root * seq[(n/2)%int64(len(seq))],
		Duration: parameter.LeadDuration,
		Peak:     vol,
		Wave:     dsp.WaveSaw,
		Filter:   dsp.Lowpass,
		Cutoff:   parameter.LeadCutoff,
	})
}

// Pad plays a slow triangle swell with an opening lowpass
func (l *Library) Pad(t, freq, duration, peak, detune float64) {
	if !l.ready() || peak <= 0 || duration <= 0 {
		return
	}
	ctx := l.ctx
	osc := synth.NewOscillator(ctx, t, dsp.WaveTriangle, dsp.NewParam(freq))
	osc.Detune = detune

	cutoff := dsp.NewParam(parameter.PadCutoffStart)
	cutoff.SetValueAtTime(parameter.PadCutoffStart, t)
	cutoff.LinearRampToValueAtTime(parameter.PadCutoffEnd, t+duration/2)

	gain := dsp.NewParam(0)
	gain.SetValueAtTime(0, t)
	gain.LinearRampToValueAtTime(peak, t+parameter.PadAttack)
	gain.LinearRampToValueAtTime(0, t+duration)

	lp := synth.NewFilter(ctx, t, osc, dsp.Lowpass, cutoff, parameter.DefaultQ)
	ctx.Schedule(&synth.Voice{
		Kind:   core.VoicePad,
		Freq:   freq,
		Peak:   peak,
		Start:  t,
		Stop:   t + duration,
		Source: synth.NewAmp(ctx, t, lp, gain),
	})
}

// ArcadePads plays the two detuned pad layers over a phrase root
func (l *Library) ArcadePads(t, root float64, streak int) {
	peak := PadLevel(streak)
	l.Pad(t, root*parameter.PadLowRatio, parameter.PadDuration, peak, parameter.PadLowDetune)
	l.Pad(t, root*parameter.PadHighRatio, parameter.PadDuration, peak, parameter.PadHighDetune)
}

// Stab plays a short filtered chord hit
func (l *Library) Stab(t, freq float64) {
	if !l.ready() {
		return
	}
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceStab,
		Start:    t,
		Freq:     freq,
		Duration: parameter.StabDuration,
		Peak:     parameter.StabVolume,
		Wave:     dsp.WaveSaw,
		Filter:   dsp.Lowpass,
		Cutoff:   parameter.StabCutoff,
	})
}

// Glitch plays a random high blip through the quantize curve
func (l *Library) Glitch(t float64) {
	if !l.ready() {
		return
	}
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceGlitch,
		Start:    t,
		Freq:     parameter.GlitchMinFreq + l.rng.Float64()*parameter.GlitchFreqSpan,
		Duration: parameter.GlitchDuration,
		Peak:     parameter.GlitchVolume,
		Wave:     dsp.WaveSine,
		Glitch:   true,
		Shaped:   true,
	})
}

// Swell plays the cinematic harmonic stack over the root
func (l *Library) Swell(t, root float64) {
	if l.ready() {
		synth.HarmonicStack(l.ctx, t, root, parameter.StackDuration, parameter.StackRatios)
	}
}

// Organ plays a two-octave-up organ chord tone
func (l *Library) Organ(t, root float64) {
	if l.ready() {
		synth.Organ(l.ctx, t, root*parameter.OrganRatio, parameter.OrganDuration, parameter.OrganVolume)
	}
}

// Bell plays a 2-operator FM bell, fed to the delay
func (l *Library) Bell(t, freq float64) {
	if !l.ready() {
		return
	}
	ctx := l.ctx
	index := dsp.NewParam(parameter.BellIndexStart)
	index.SetValueAtTime(parameter.BellIndexStart, t)
	index.ExponentialRampToValueAtTime(parameter.BellIndexEnd, t+parameter.BellIndexDecay)

	osc := synth.NewOscillator(ctx, t, dsp.WaveSine, dsp.NewParam(freq))
	osc.ModRatio = parameter.BellModRatio
	osc.ModIndex = index

	gain := dsp.NewParam(0)
	gain.SetValueAtTime(0, t)
	gain.LinearRampToValueAtTime(parameter.BellPeak, t+parameter.BellAttack)
	gain.ExponentialRampToValueAtTime(parameter.ToneFloor, t+parameter.BellDecay)

	ctx.Schedule(&synth.Voice{
		Kind:   core.VoiceBell,
		Freq:   freq,
		Peak:   parameter.BellPeak,
		Start:  t,
		Stop:   t + parameter.BellStop,
		Source: synth.NewAmp(ctx, t, osc, gain),
		Sends: []synth.Send{
			{Bus: ctx.Master(), Level: 1},
			{Bus: ctx.Delay(), Level: parameter.BellDelaySend},
		},
	})
}

// Choir plays a bandpassed sawtooth echo into the reverb
func (l *Library) Choir(t, freq float64) {
	if !l.ready() {
		return
	}
	ctx := l.ctx
	osc := synth.NewOscillator(ctx, t, dsp.WaveSaw, dsp.NewParam(freq))
	bp := synth.NewFilter(ctx, t, osc, dsp.Bandpass, dsp.NewParam(freq), parameter.ChoirQ)

	gain := dsp.NewParam(0)
	gain.SetValueAtTime(0, t)
	gain.LinearRampToValueAtTime(parameter.ChoirPeak, t+parameter.ChoirAttack)
	gain.LinearRampToValueAtTime(0, t+parameter.ChoirRelease)

	ctx.Schedule(&synth.Voice{
		Kind:   core.VoiceChoir,
		Freq:   freq,
		Peak:   parameter.ChoirPeak,
		Start:  t,
		Stop:   t + parameter.ChoirRelease + 0.1,
		Source: synth.NewAmp(ctx, t, bp, gain),
		Sends:  []synth.Send{{Bus: ctx.Reverb(), Level: 1}},
	})
}

// AmbientLayer starts an open-ended drone on freq that fades in over fade seconds
// With pulse set it adds a tremolo-gated voice two octaves up
func (l *Library) AmbientLayer(t, freq, fade float64, pulse bool) *synth.Layer {
	if !l.ready() {
		return nil
	}
	ctx := l.ctx
	layer := synth.NewLayer(ctx)

	osc := synth.NewOscillator(ctx, t, dsp.WaveSaw, dsp.NewParam(freq))
	osc.Detune = (l.rng.Float64()*2 - 1) * parameter.AmbientDetune

	lp := synth.NewFilter(ctx, t, osc, dsp.Lowpass, dsp.NewParam(parameter.AmbientCutoff), parameter.DefaultQ)
	lp.LFO = &dsp.LFO{
		Rate:  parameter.AmbientLFOMin + l.rng.Float64()*parameter.AmbientLFOSpan,
		Depth: parameter.AmbientLFODepth,
		Phase: l.rng.Float64(),
	}
	pan := &effects.Pan{Streamer: lp, Pan: (l.rng.Float64()*2 - 1) * parameter.AmbientPan}

	gain := fadeIn(t, fade, parameter.AmbientLevel)
	layer.Play(&synth.Voice{
		Kind:   core.VoiceAmbient,
		Freq:   freq,
		Peak:   parameter.AmbientLevel,
		Start:  t,
		Stop:   math.Inf(1),
		Source: synth.NewAmp(ctx, t, pan, gain),
		Sends:  []synth.Send{{Bus: ctx.FlowBus(), Level: 1}},
	}, gain)

	if pulse {
		hi := freq * parameter.PulseRatio
		pg := fadeIn(t, fade, parameter.PulseLevel)
		amp := synth.NewAmp(ctx, t, synth.NewOscillator(ctx, t, dsp.WaveSine, dsp.NewParam(hi)), pg)
		amp.Tremolo = &dsp.LFO{Rate: parameter.PulseRate, Depth: 1}
		layer.Play(&synth.Voice{
			Kind:   core.VoicePulse,
			Freq:   hi,
			Peak:   parameter.PulseLevel,
			Start:  t,
			Stop:   math.Inf(1),
			Source: amp,
			Sends: []synth.Send{
				{Bus: ctx.FlowBus(), Level: 1},
				{Bus: ctx.Delay(), Level: parameter.PulseDelaySend},
			},
		}, pg)
	}
	return layer
}

func fadeIn(t, fade, level float64) *dsp.Param {
	g := dsp.NewParam(0)
	g.SetValueAtTime(0, t)
	g.LinearRampToValueAtTime(level, t+fade)
	return g
}

// Interaction plays a one-shot UI sound at t
func (l *Library) Interaction(kind core.Interaction, t float64) {
	if !l.ready() {
		return
	}
	switch kind {
	case core.InteractionHover:
		l.uiTone(t, parameter.NoteFreq(parameter.MIDINote(parameter.NoteA, 5)), parameter.HoverDuration, parameter.HoverVolume, dsp.WaveSine, 0)
	case core.InteractionClick:
		l.uiTone(t, parameter.NoteFreq(parameter.MIDINote(parameter.NoteB, 5)), parameter.ClickNote1Duration, parameter.ClickVolume, dsp.WaveSquare, 0)
		l.uiTone(t+parameter.ClickNote1Duration, parameter.NoteFreq(parameter.MIDINote(parameter.NoteE, 6)), parameter.ClickNote2Duration, parameter.ClickVolume, dsp.WaveSquare, 0)
	case core.InteractionWrong:
		l.uiTone(t, parameter.NoteFreq(parameter.MIDINote(parameter.NoteA, 2)), parameter.WrongDuration, parameter.WrongVolume, dsp.WaveSaw, parameter.WrongCutoff)
	}
}

func (l *Library) uiTone(t, freq, duration, vol float64, wave dsp.WaveType, cutoff float64) {
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceUI,
		Start:    t,
		Freq:     freq,
		Duration: duration,
		Peak:     vol,
		Wave:     wave,
		Filter:   dsp.Lowpass,
		Cutoff:   cutoff,
	})
}

// Chime plays a plain two-partial chime, the generative note outside flow
func (l *Library) Chime(t float64) {
	if !l.ready() {
		return
	}
	f := parameter.NoteFreq(parameter.MIDINote(parameter.NoteA, 5))
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceChime,
		Start:    t,
		Freq:     f,
		Duration: parameter.ChimeFundamentalLength,
		Peak:     parameter.ChimeFundamentalVolume,
		Wave:     dsp.WaveSine,
	})
	synth.Tone(l.ctx, synth.ToneSpec{
		Kind:     core.VoiceChime,
		Start:    t,
		Freq:     f * 2,
		Duration: parameter.ChimeOvertoneLength,
		Peak:     parameter.ChimeOvertoneVolume,
		Wave:     dsp.WaveSine,
	})
}
