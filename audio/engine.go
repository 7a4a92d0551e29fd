package audio

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/parameter"
	"github.com/lixenwraith/quizsynth/status"
	"github.com/lixenwraith/quizsynth/synth"
)

// Option customizes an Engine at construction
type Option func(*Engine)

// WithTimer replaces the wall-clock timer, tests and offline renders pass a ManualTimer
func WithTimer(t Timer) Option {
	return func(e *Engine) { e.timer = t }
}

// WithBackend attaches b instead of resolving the configured backend by name
func WithBackend(b synth.Backend) Option {
	return func(e *Engine) { e.backend = b }
}

// WithTap observes every scheduled voice
func WithTap(tap synth.Tap) Option {
	return func(e *Engine) { e.tap = tap }
}

// WithLoggerFactory replaces the stderr logger factory
func WithLoggerFactory(f logging.LoggerFactory) Option {
	return func(e *Engine) { e.logs = f }
}

// WithRegistry publishes engine metrics into r
func WithRegistry(r *status.Registry) Option {
	return func(e *Engine) { e.reg = r }
}

// Engine is the control surface of the music system
// Every method is safe for concurrent use; synthesis calls before Init are dropped
type Engine struct {
	mu sync.Mutex // control timeline, shared with the mode timers

	cfg     *Config
	timer   Timer
	backend synth.Backend
	tap     synth.Tap
	logs    logging.LoggerFactory
	log     logging.LeveledLogger
	reg     *status.Registry

	ctx    *synth.Context
	lib    *Library
	arcade *ArcadeScheduler
	flow   *FlowEngine

	backendName string
	mode        core.Mode
	playing     bool
	closed      bool
	density     int
	streak      int
	tempo       float64
	volume      float64
	muted       bool
}

// NewEngine creates an uninitialized engine; a nil cfg uses DefaultConfig
func NewEngine(cfg *Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	e := &Engine{
		cfg:     cfg,
		mode:    cfg.ParsedMode(),
		density: clampInt(cfg.Density, parameter.MinDensity, parameter.MaxDensity),
		tempo:   clampFloat(cfg.Tempo, parameter.MinBPM, parameter.MaxBPM),
		volume:  clampFloat(cfg.MasterVolume, 0, 1),
		muted:   !cfg.Enabled,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.timer == nil {
		e.timer = WallTimer{}
	}
	if e.logs == nil {
		e.logs = NewLoggerFactory(cfg.Log.Level, os.Stderr)
	}
	e.log = e.logs.NewLogger(ScopeEngine)
	return e
}

// Init builds the audio context and opens the backend, once
// A backend that fails to open degrades to the null backend with a warning
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx != nil {
		return nil
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ctx, err := synth.NewContext(synth.ContextConfig{
		SampleRate: e.cfg.SampleRate,
		Seed:       seed,
		Logger:     e.logs.NewLogger(ScopeSynth),
		Tap:        e.tap,
	})
	if err != nil {
		return fmt.Errorf("create audio context: %w", err)
	}

	name, err := e.attach(ctx)
	if err != nil {
		ctx.Close()
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	lib := NewLibrary(ctx, rng)
	e.ctx = ctx
	e.lib = lib
	e.backendName = name
	e.arcade = NewArcadeScheduler(lib, ctx.CurrentTime, e.timer, &e.mu, e.logs.NewLogger(ScopeArcade), rng, ArcadeTiming{
		Interval:    ms(e.cfg.Lookahead.IntervalMS),
		Window:      ms(e.cfg.Lookahead.WindowMS),
		StartOffset: ms(e.cfg.Lookahead.StartOffsetMS),
	})
	e.flow = NewFlowEngine(lib, ctx, e.timer, &e.mu, e.logs.NewLogger(ScopeFlow), rng, FlowTiming{
		ChordInterval: ms(e.cfg.Flow.ChordIntervalMS),
		FadeIn:        ms(e.cfg.Flow.FadeInMS),
		Release:       ms(e.cfg.Flow.ReleaseMS),
	})
	e.pushParams()
	e.setMaster(e.masterTarget(), 0)

	e.log.Infof("audio engine ready: %s backend, %d Hz, seed %d", name, e.cfg.SampleRate, seed)
	e.publish()
	return nil
}

// attach opens the injected or configured backend, falling back to null
func (e *Engine) attach(ctx *synth.Context) (string, error) {
	if e.backend != nil {
		err := ctx.Attach(e.backend)
		if err == nil {
			return e.backend.Name(), nil
		}
		e.log.Warnf("%v", err)
	} else {
		names := []string{e.cfg.Backend}
		if e.cfg.Backend == "auto" {
			names = AutoBackendOrder
		}
		for _, name := range names {
			b, err := synth.NewBackend(name, e.cfg.Buffer())
			if err != nil {
				e.log.Debugf("backend %s not available: %v", name, err)
				continue
			}
			if err := ctx.Attach(b); err != nil {
				e.log.Warnf("%v", err)
				continue
			}
			return name, nil
		}
	}

	e.log.Warn("no audio output, continuing on the null backend")
	null := synth.NewNullBackend(e.cfg.Buffer())
	if err := ctx.Attach(null); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return null.Name(), nil
}

// pushParams copies the control values into the mode engines
func (e *Engine) pushParams() {
	e.arcade.SetTempo(e.tempo)
	e.arcade.SetDensity(e.density)
	e.arcade.SetStreak(e.streak)
	e.flow.SetStreak(e.streak)
}

// Start begins the current mode, resuming a suspended context first
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil || e.closed || e.playing {
		return
	}
	if err := e.ctx.Resume(); err != nil {
		e.log.Warnf("resume: %v", err)
		return
	}
	e.playing = true
	e.startMode()
	e.publish()
}

// Stop cancels the mode timers; voices already scheduled finish on their own
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing {
		return
	}
	e.stopMode()
	e.playing = false
	e.publish()
}

func (e *Engine) startMode() {
	switch e.mode {
	case core.ModeArcade:
		e.arcade.Start()
	case core.ModeFlow:
		e.flow.Start()
	}
}

func (e *Engine) stopMode() {
	switch e.mode {
	case core.ModeArcade:
		e.arcade.Stop()
	case core.ModeFlow:
		e.flow.Stop()
	}
}

// SetMode switches generation strategy, restarting playback in the new mode
// Setting the current mode does nothing
func (e *Engine) SetMode(m core.Mode) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if m == e.mode || m >= core.ModeCount {
		return
	}
	wasPlaying := e.playing
	if wasPlaying {
		e.stopMode()
	}
	e.mode = m
	if wasPlaying {
		e.startMode()
	}
	e.log.Debugf("mode %s", m)
	e.publish()
}

// SetDensity sets the arcade layer count, clamped to [1, 12]
func (e *Engine) SetDensity(level int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.density = clampInt(level, parameter.MinDensity, parameter.MaxDensity)
	if e.arcade != nil {
		e.arcade.SetDensity(e.density)
	}
	e.publish()
}

// SetStreak feeds the crossfades; with auto density the stage table also sets density
func (e *Engine) SetStreak(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.streak = max(n, 0)
	if e.cfg.AutoDensity {
		e.density = parameter.DensityForStreak(e.streak)
	}
	if e.arcade != nil {
		e.pushParams()
	}
	e.publish()
}

// SetTempo sets the arcade BPM, clamped to [60, 200]
func (e *Engine) SetTempo(bpm float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.tempo = clampFloat(bpm, parameter.MinBPM, parameter.MaxBPM)
	if e.arcade != nil {
		e.arcade.SetTempo(e.tempo)
	}
	e.publish()
}

// SetMasterVolume glides the master gain to v over 100ms
func (e *Engine) SetMasterVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = clampFloat(v, 0, 1)
	e.setMaster(e.masterTarget(), parameter.MasterRampTime)
	e.publish()
}

// SetMuted ramps the master to silence or back to the volume
func (e *Engine) SetMuted(muted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.muted = muted
	e.setMaster(e.masterTarget(), parameter.MasterRampTime)
	e.publish()
}

// ToggleMute flips mute and reports whether sound is now audible
func (e *Engine) ToggleMute() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.muted = !e.muted
	e.setMaster(e.masterTarget(), parameter.MasterRampTime)
	e.publish()
	return !e.muted
}

func (e *Engine) masterTarget() float64 {
	if e.muted {
		return 0
	}
	return e.volume
}

// setMaster holds the master gain at now and ramps to v over ramp seconds
func (e *Engine) setMaster(v, ramp float64) {
	if e.ctx == nil {
		return
	}
	now := e.ctx.CurrentTime()
	gain := e.ctx.Master().Gain()
	e.ctx.Do(func() {
		gain.HoldAt(now)
		if ramp > 0 {
			gain.LinearRampToValueAtTime(v, now+ramp)
		} else {
			gain.SetValueAtTime(v, now)
		}
	})
}

// PlayInteraction plays a UI sound now, in any mode
func (e *Engine) PlayInteraction(kind core.Interaction) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return
	}
	e.lib.Interaction(kind, e.ctx.CurrentTime())
}

// PlayFlowNote plays a generative bell in flow mode, or the chime otherwise
func (e *Engine) PlayFlowNote() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return
	}
	if e.mode == core.ModeFlow && e.playing {
		e.flow.PlayNote()
		return
	}
	e.lib.Chime(e.ctx.CurrentTime())
}

// Suspend freezes the audio clock; timers keep firing but schedule nothing new
func (e *Engine) Suspend() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return ErrNotInitialized
	}
	err := e.ctx.Suspend()
	e.publish()
	return err
}

// Resume restarts a suspended clock
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx == nil {
		return ErrNotInitialized
	}
	err := e.ctx.Resume()
	e.publish()
	return err
}

// Close stops playback and releases the backend
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	if e.playing {
		e.stopMode()
		e.playing = false
	}
	e.closed = true
	if e.ctx == nil {
		return nil
	}
	err := e.ctx.Close()
	e.publish()
	e.log.Info("audio engine closed")
	return err
}

// Context returns the audio context, nil before Init
func (e *Engine) Context() *synth.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx
}

// Snapshot is a point-in-time view of the engine
type Snapshot struct {
	Initialized     bool
	Playing         bool
	Muted           bool
	Mode            core.Mode
	Density         int
	Streak          int
	Tempo           float64
	Volume          float64
	Backend         string
	State           string
	Clock           float64
	ActiveVoices    int64
	ScheduledVoices int64
	ArcadeStep      int64
	NextEventTime   float64
	Chord           string
	FlowLayers      int
}

// Snapshot returns the current engine state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() Snapshot {
	s := Snapshot{
		Initialized: e.ctx != nil,
		Playing:     e.playing,
		Muted:       e.muted,
		Mode:        e.mode,
		Density:     e.density,
		Streak:      e.streak,
		Tempo:       e.tempo,
		Volume:      e.volume,
		Backend:     e.backendName,
		State:       "uninitialized",
	}
	if e.ctx == nil {
		return s
	}
	s.State = e.ctx.State().String()
	s.Clock = e.ctx.CurrentTime()
	s.ActiveVoices = e.ctx.ActiveVoices()
	s.ScheduledVoices = e.ctx.ScheduledVoices()
	s.ArcadeStep = e.arcade.Step()
	s.NextEventTime = e.arcade.NextEventTime()
	s.Chord = e.flow.ChordName()
	s.FlowLayers = e.flow.Layers()
	return s
}

// Publish writes the current state into the registry
func (e *Engine) Publish() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.publish()
}

func (e *Engine) publish() {
	if e.reg == nil {
		return
	}
	s := e.snapshot()
	r := e.reg
	r.Bools.Get("playing").Store(s.Playing)
	r.Bools.Get("muted").Store(s.Muted)
	r.Strings.Get("mode").Store(s.Mode.String())
	r.Strings.Get("state").Store(s.State)
	r.Strings.Get("backend").Store(s.Backend)
	r.Strings.Get("flow.chord").Store(s.Chord)
	r.Ints.Get("density").Store(int64(s.Density))
	r.Ints.Get("streak").Store(int64(s.Streak))
	r.Ints.Get("voices.active").Store(s.ActiveVoices)
	r.Ints.Get("voices.scheduled").Store(s.ScheduledVoices)
	r.Ints.Get("arcade.step").Store(s.ArcadeStep)
	r.Floats.Get("volume").Set(s.Volume)
	r.Floats.Get("tempo").Set(s.Tempo)
	r.Floats.Get("clock").Set(s.Clock)
}
