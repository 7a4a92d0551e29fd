package audio

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/lixenwraith/quizsynth/parameter"
)

// arcadeLayer is one density-gated row of the step pattern
type arcadeLayer struct {
	name       string
	minDensity int
	fire       func(s *ArcadeScheduler, t float64, n int64, root float64)
}

// arcadeLayers is sorted by minDensity; dispatch stops at the first row above the density
var arcadeLayers = []arcadeLayer{
	{"kick", 1, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%4 == 0 {
			s.lib.Kick(t)
		}
	}},
	{"snare", 2, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if step := n % parameter.StepsPerBar; step == 4 || step == 12 {
			s.lib.Snare(t)
		}
	}},
	{"tick", 3, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%4 == 0 {
			s.lib.HarmonicTick(t, root)
		}
	}},
	{"bass", 4, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%4 >= 2 {
			s.lib.Bass(t, root)
		}
	}},
	{"arp", 5, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%2 == 0 {
			s.lib.Arp(t, n, root, s.streak)
		}
	}},
	{"pads", 6, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%parameter.PhraseSteps == 0 {
			s.lib.ArcadePads(t, root, s.streak)
		}
	}},
	{"hats", 7, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%2 == 0 {
			s.lib.Hat(t, s.density)
		}
	}},
	{"lead", 8, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		s.lib.Lead(t, n, root, s.streak)
	}},
	{"stabs", 9, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%parameter.PhraseSteps == 0 {
			s.lib.Stab(t, root*2)
			s.lib.Stab(t, root*3)
		}
	}},
	{"glitch", 10, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if s.rng.Float64() < parameter.GlitchChance {
			s.lib.Glitch(t)
		}
	}},
	{"swell", 11, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%parameter.SectionSteps == 0 {
			s.lib.Swell(t, root)
		}
	}},
	{"organ", 12, func(s *ArcadeScheduler, t float64, n int64, root float64) {
		if n%parameter.PhraseSteps == parameter.PhraseSteps/2 {
			s.lib.Organ(t, root)
		}
	}},
}

// ArcadeRoot returns the bass root for step n, alternating every phrase
func ArcadeRoot(n int64) float64 {
	return parameter.ArcadeRoots[(n/parameter.PhraseSteps)%2]
}

// ArcadeTiming holds the look-ahead constants
type ArcadeTiming struct {
	Interval    time.Duration // poll period
	Window      time.Duration // how far past now a tick schedules
	StartOffset time.Duration // delay of the first step after Start
}

// DefaultArcadeTiming polls every 25ms with a 100ms window
func DefaultArcadeTiming() ArcadeTiming {
	return ArcadeTiming{
		Interval:    parameter.LookaheadInterval,
		Window:      parameter.LookaheadWindow,
		StartOffset: parameter.LookaheadStartOffset,
	}
}

// ArcadeScheduler is the look-ahead step sequencer
// A coarse timer polls; each poll schedules every step due before now+window
// against the audio clock, so timer jitter never reaches the output
type ArcadeScheduler struct {
	lib    *Library
	clock  func() float64
	timer  Timer
	lock   sync.Locker
	log    logging.LeveledLogger
	rng    *rand.Rand
	timing ArcadeTiming

	tempo   float64
	density int
	streak  int

	running       bool
	run           uint64
	cancel        func()
	nextEventTime float64
	stepCounter   int64
	lastDispatch  float64
	dispatched    int64
}

// NewArcadeScheduler creates a stopped scheduler
// lock serializes timer callbacks with the caller's control calls
func NewArcadeScheduler(lib *Library, clock func() float64, timer Timer, lock sync.Locker, log logging.LeveledLogger, rng *rand.Rand, timing ArcadeTiming) *ArcadeScheduler {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	return &ArcadeScheduler{
		lib:     lib,
		clock:   clock,
		timer:   timer,
		lock:    lock,
		log:     log,
		rng:     rng,
		timing:  timing,
		tempo:   parameter.DefaultBPM,
		density: parameter.DefaultDensity,
	}
}

// SetTempo changes the step length from the next step on
func (s *ArcadeScheduler) SetTempo(bpm float64) {
	s.tempo = clampFloat(bpm, parameter.MinBPM, parameter.MaxBPM)
}

// SetDensity changes which layers the next dispatched step includes
func (s *ArcadeScheduler) SetDensity(level int) {
	s.density = clampInt(level, parameter.MinDensity, parameter.MaxDensity)
}

// SetStreak feeds the crossfaded layers
func (s *ArcadeScheduler) SetStreak(streak int) {
	s.streak = max(streak, 0)
}

// Start resets the step counter, places the first step just ahead of now
// and arms the poll timer; caller holds the lock
func (s *ArcadeScheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.run++
	s.stepCounter = 0
	s.nextEventTime = s.clock() + s.timing.StartOffset.Seconds()
	s.lastDispatch = 0

	run := s.run
	s.cancel = s.timer.Every(s.timing.Interval, func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		if !s.running || s.run != run {
			return
		}
		s.Tick()
	})
	s.log.Debugf("arcade started at %.3f, %.0f bpm, density %d", s.nextEventTime, s.tempo, s.density)
	s.Tick()
}

// Stop cancels the poll timer; scheduled voices finish on their own
func (s *ArcadeScheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.log.Debugf("arcade stopped at step %d", s.stepCounter)
}

// Tick schedules every step due before now+window in increasing time order
// Steps that already fell behind the clock are skipped, never played late
func (s *ArcadeScheduler) Tick() {
	if !s.running {
		return
	}
	now := s.clock()
	horizon := now + s.timing.Window.Seconds()
	for s.nextEventTime < horizon {
		if s.nextEventTime >= now {
			s.dispatch(s.nextEventTime, s.stepCounter)
		} else {
			s.log.Tracef("arcade step %d skipped, %.3fs late", s.stepCounter, now-s.nextEventTime)
		}
		s.nextEventTime += parameter.StepDuration(s.tempo)
		s.stepCounter++
	}
}

func (s *ArcadeScheduler) dispatch(t float64, n int64) {
	root := ArcadeRoot(n)
	for i := range arcadeLayers {
		layer := &arcadeLayers[i]
		if s.density < layer.minDensity {
			break
		}
		layer.fire(s, t, n, root)
	}
	s.lastDispatch = t
	s.dispatched++
}

// Running reports whether the poll timer is armed
func (s *ArcadeScheduler) Running() bool {
	return s.running
}

// Step returns the step counter
func (s *ArcadeScheduler) Step() int64 {
	return s.stepCounter
}

// NextEventTime returns the audio time of the next undispatched step
func (s *ArcadeScheduler) NextEventTime() float64 {
	return s.nextEventTime
}

// Dispatched returns the lifetime count of dispatched steps
func (s *ArcadeScheduler) Dispatched() int64 {
	return s.dispatched
}

// LayerNames lists the layers active at a density, in dispatch order
func LayerNames(density int) []string {
	var names []string
	for _, layer := range arcadeLayers {
		if density < layer.minDensity {
			break
		}
		names = append(names, layer.name)
	}
	return names
}
