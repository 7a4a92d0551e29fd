package synth

import (
	"math/rand"

	"github.com/lixenwraith/quizsynth/dsp"
	"github.com/lixenwraith/quizsynth/parameter"
)

// DelayNetwork is two delay lines in series sharing a damped feedback path
// The first line feeds the left channel, the second the right
type DelayNetwork struct {
	a, b     *dsp.DelayLine
	damp     *dsp.Biquad
	feedback float64
	lastB    float64
}

// NewDelayNetwork builds the 0.6s into 0.9s network at sampleRate
func NewDelayNetwork(sampleRate int) *DelayNetwork {
	rate := float64(sampleRate)
	return &DelayNetwork{
		a:        dsp.NewDelayLine(int(parameter.DelayTimeA * rate)),
		b:        dsp.NewDelayLine(int(parameter.DelayTimeB * rate)),
		damp:     dsp.NewBiquad(dsp.Lowpass, rate, parameter.DelayDampCutoff, parameter.DefaultQ),
		feedback: parameter.DelayFeedback,
	}
}

// Process replaces buf with the wet delay output
func (d *DelayNetwork) Process(buf [][2]float64) {
	for i := range buf {
		x := (buf[i][0] + buf[i][1]) * 0.5
		fb := d.damp.Process(0, d.lastB) * d.feedback
		outA := d.a.Tick(x + fb)
		outB := d.b.Tick(outA)
		d.lastB = outB
		buf[i][0] = outA
		buf[i][1] = outB
	}
}

// Reset clears the lines and the feedback filter
func (d *DelayNetwork) Reset() {
	d.a.Reset()
	d.b.Reset()
	d.damp.Reset()
	d.lastB = 0
}

// Reverb convolves each channel with a synthetic decaying-noise impulse response
// Convolution is skipped once the tail of the last input has fully drained
type Reverb struct {
	conv    [2]*dsp.Convolver
	tail    int // frames after the last non-silent input that still produce output
	silence int
}

// NewReverb generates the impulse response and its convolvers
func NewReverb(sampleRate int, rng *rand.Rand) *Reverb {
	ir := dsp.ImpulseResponse(sampleRate, parameter.ReverbLength, parameter.ReverbDecay, parameter.AudioChannels, rng)
	r := &Reverb{}
	for ch := range r.conv {
		r.conv[ch] = dsp.NewConvolver(ir[ch], parameter.ReverbPartition)
	}
	r.tail = len(ir[0]) + 2*parameter.ReverbPartition
	r.silence = r.tail
	return r
}

// Idle reports whether the reverb is skipping convolution
func (r *Reverb) Idle() bool {
	return r.silence >= r.tail
}

// Process replaces buf with the wet reverb output
func (r *Reverb) Process(buf [][2]float64) {
	quiet := true
	for i := range buf {
		if buf[i][0] != 0 || buf[i][1] != 0 {
			quiet = false
			break
		}
	}
	if quiet {
		if r.Idle() {
			return
		}
		r.silence += len(buf)
		if r.Idle() {
			r.conv[0].Reset()
			r.conv[1].Reset()
			clear(buf)
			return
		}
	} else {
		r.silence = 0
	}

	for i := range buf {
		buf[i][0] = r.conv[0].Process(buf[i][0])
		buf[i][1] = r.conv[1].Process(buf[i][1])
	}
}
