package audio

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/lixenwraith/quizsynth/parameter"
	"github.com/lixenwraith/quizsynth/synth"
)

// FlowTiming holds the flow bus and chord constants
type FlowTiming struct {
	ChordInterval time.Duration
	FadeIn        time.Duration
	Release       time.Duration
}

// DefaultFlowTiming changes chords every 10s and releases over 2s
func DefaultFlowTiming() FlowTiming {
	return FlowTiming{
		ChordInterval: parameter.FlowChordInterval,
		FadeIn:        parameter.FlowFadeIn,
		Release:       parameter.FlowRelease,
	}
}

// FlowEngine runs the ambient chord bed and the generative bell notes
type FlowEngine struct {
	lib    *Library
	ctx    *synth.Context
	timer  Timer
	lock   sync.Locker
	log    logging.LeveledLogger
	rng    *rand.Rand
	timing FlowTiming

	streak     int
	running    bool
	run        uint64
	cancel     func()
	chordIndex int
	layers     []*synth.Layer
	changes    int64
	notes      int64
}

// NewFlowEngine creates a stopped flow engine
func NewFlowEngine(lib *Library, ctx *synth.Context, timer Timer, lock sync.Locker, log logging.LeveledLogger, rng *rand.Rand, timing FlowTiming) *FlowEngine {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &FlowEngine{
		lib:    lib,
		ctx:    ctx,
		timer:  timer,
		lock:   lock,
		log:    log,
		rng:    rng,
		timing: timing,
	}
}

// SetStreak affects the next chord's pulse layer and the next note's harmony
func (f *FlowEngine) SetStreak(streak int) {
	f.streak = max(streak, 0)
}

// Start fades the flow bus in, renders the first chord and arms the chord timer
// caller holds the lock
func (f *FlowEngine) Start() {
	if f.running || f.ctx == nil {
		return
	}
	f.running = true
	f.run++
	f.chordIndex = 0

	now := f.ctx.CurrentTime()
	bus := f.ctx.FlowBus().Gain()
	f.ctx.Do(func() {
		bus.HoldAt(now)
		bus.LinearRampToValueAtTime(parameter.FlowBusLevel, now+f.timing.FadeIn.Seconds())
	})
	f.renderChord()

	run := f.run
	f.cancel = f.timer.Every(f.timing.ChordInterval, func() {
		f.lock.Lock()
		defer f.lock.Unlock()
		if !f.running || f.run != run {
			return
		}
		f.chordIndex = (f.chordIndex + 1) % len(parameter.FlowChords)
		f.renderChord()
	})
	f.log.Debugf("flow started at %.3f", now)
}

// Stop fades the flow bus out, releases the sounding layers and cancels the timer
func (f *FlowEngine) Stop() {
	if !f.running {
		return
	}
	f.running = false
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	now := f.ctx.CurrentTime()
	fade := f.timing.Release.Seconds()
	bus := f.ctx.FlowBus().Gain()
	f.ctx.Do(func() {
		bus.HoldAt(now)
		bus.LinearRampToValueAtTime(0, now+fade)
	})
	f.releaseLayers(now, fade)
	f.log.Debugf("flow stopped at chord %d", f.chordIndex)
}

// renderChord crossfades from the sounding layers to the current chord
func (f *FlowEngine) renderChord() {
	now := f.ctx.CurrentTime()
	fade := f.timing.Release.Seconds()
	f.releaseLayers(now, fade)

	chord := parameter.FlowChords[f.chordIndex]
	pulse := f.streak > parameter.FlowPulseStreak
	for _, root := range chord.Roots {
		if layer := f.lib.AmbientLayer(now, root, fade, pulse); layer != nil {
			f.layers = append(f.layers, layer)
		}
	}
	f.changes++
	f.log.Tracef("flow chord %s at %.3f, pulse %v", chord.Name, now, pulse)
}

func (f *FlowEngine) releaseLayers(at, fade float64) {
	for _, layer := range f.layers {
		layer.Release(at, fade)
	}
	f.layers = f.layers[:0]
}

// PlayNote plays a bell from the current chord's scale with its choir echo
// Above the harmony streak a second echo lands two scale degrees up
func (f *FlowEngine) PlayNote() {
	if f.ctx == nil {
		return
	}
	scale := parameter.FlowChords[f.chordIndex].Scale
	i := f.rng.Intn(len(scale))
	freq := scale[i]
	now := f.ctx.CurrentTime()

	f.lib.Bell(now, freq)
	f.lib.Choir(now+parameter.FlowEchoDelay, freq)

	if f.streak > parameter.FlowHarmonyStreak {
		j := i + parameter.FlowHarmonyDegrees
		harmony := scale[j%len(scale)]
		if j >= len(scale) {
			harmony *= 2
		}
		f.lib.Choir(now+parameter.FlowHarmonyDelay, harmony)
	}
	f.notes++
}

// Running reports whether the chord timer is armed
func (f *FlowEngine) Running() bool {
	return f.running
}

// ChordIndex returns the index into parameter.FlowChords of the sounding chord
func (f *FlowEngine) ChordIndex() int {
	return f.chordIndex
}

// ChordName returns the name of the sounding chord
func (f *FlowEngine) ChordName() string {
	return parameter.FlowChords[f.chordIndex].Name
}

// Layers returns the number of unreleased ambient layers
func (f *FlowEngine) Layers() int {
	return len(f.layers)
}

// Changes returns the lifetime count of rendered chords
func (f *FlowEngine) Changes() int64 {
	return f.changes
}

// Notes returns the lifetime count of played bells
func (f *FlowEngine) Notes() int64 {
	return f.notes
}
