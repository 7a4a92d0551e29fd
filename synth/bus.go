package synth

import (
	"github.com/lixenwraith/quizsynth/dsp"
	"github.com/lixenwraith/quizsynth/parameter"
)

// Processor transforms one bus block in place
type Processor interface {
	Process(buf [][2]float64)
}

// Bus is a shared mixing destination with an optional processor and an
// automated output gain; voices send into it, it feeds exactly one destination
type Bus struct {
	name string
	gain *dsp.Param
	proc Processor
	dest *Bus
	buf  [][2]float64
	n    int
}

func newBus(name string, gain float64, proc Processor, dest *Bus) *Bus {
	return &Bus{
		name: name,
		gain: dsp.NewParam(gain),
		proc: proc,
		dest: dest,
		buf:  make([][2]float64, parameter.RenderBlockFrames),
	}
}

// Name returns the bus identifier
func (b *Bus) Name() string {
	return b.name
}

// Gain returns the output gain param, mutate only inside Context.Do
func (b *Bus) Gain() *dsp.Param {
	return b.gain
}

func (b *Bus) reset(n int) {
	b.n = n
	clear(b.buf[:n])
}

func (b *Bus) process(start int64, rate float64) {
	buf := b.buf[:b.n]
	if b.proc != nil {
		b.proc.Process(buf)
	}

	if g, ok := b.gain.Static(); ok {
		if g == 1 {
			return
		}
		for i := range buf {
			buf[i][0] *= g
			buf[i][1] *= g
		}
		return
	}
	for i := range buf {
		g := b.gain.ValueAt(float64(start+int64(i)) / rate)
		buf[i][0] *= g
		buf[i][1] *= g
	}
}

func (b *Bus) mixInto(dst *Bus) {
	for i := 0; i < b.n; i++ {
		dst.buf[i][0] += b.buf[i][0]
		dst.buf[i][1] += b.buf[i][1]
	}
}
