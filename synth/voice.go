package synth

import (
	"github.com/gopxl/beep"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/dsp"
)

// Send routes a voice into a bus at a level
type Send struct {
	Bus   *Bus
	Level float64
}

// Voice is one ephemeral sound event: a streamer chain with a start, a stop
// and the buses it feeds. The context drops it after Stop or once the chain drains.
type Voice struct {
	Kind   core.VoiceKind
	Freq   float64 // nominal pitch, reported to taps
	Peak   float64 // nominal peak gain, reported to taps
	Start  float64
	Stop   float64 // math.Inf(1) stays open until released
	Source beep.Streamer
	Sends  []Send

	startFrame int64
	stopFrame  int64
	played     int64
}

// Layer groups sustained voices that fade and stop together
type Layer struct {
	ctx      *Context
	voices   []*Voice
	gains    []*dsp.Param
	released bool
}

// NewLayer creates an empty layer on ctx
func NewLayer(ctx *Context) *Layer {
	return &Layer{ctx: ctx}
}

// Play schedules v and registers the gain param Release will fade
func (l *Layer) Play(v *Voice, gain *dsp.Param) {
	if l == nil || l.ctx == nil || l.released {
		return
	}
	l.ctx.Schedule(v)
	l.voices = append(l.voices, v)
	l.gains = append(l.gains, gain)
}

// Release ramps every gain from its value at `at` to zero over fade seconds
// and ends each voice when the ramp completes
func (l *Layer) Release(at, fade float64) {
	if l == nil || l.ctx == nil || l.released {
		return
	}
	l.released = true
	l.ctx.Do(func() {
		for i, g := range l.gains {
			g.HoldAt(at)
			g.LinearRampToValueAtTime(0, at+fade)
			l.ctx.setStop(l.voices[i], at+fade)
		}
	})
}

// Released reports whether Release has been called
func (l *Layer) Released() bool {
	return l.released
}

// Len returns the number of voices in the layer
func (l *Layer) Len() int {
	return len(l.voices)
}
