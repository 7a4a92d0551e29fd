package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/pion/logging"

	"github.com/lixenwraith/quizsynth/dsp"
	"github.com/lixenwraith/quizsynth/parameter"
)

// State is the audio context lifecycle
type State int32

const (
	StateRunning State = iota
	StateSuspended
	StateClosed
)

func (s State) String() string {
	names := [...]string{"running", "suspended", "closed"}
	if int(s) >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// ContextConfig configures a new audio context
type ContextConfig struct {
	SampleRate int
	Seed       int64                 // impulse response and noise burst
	Logger     logging.LeveledLogger // nil uses a pion default scoped "synth"
	Tap        Tap                   // observes every scheduled voice
}

// Context owns the live signal graph and the audio clock
// The clock is the count of rendered frames; it only advances while running
// and a backend (or a manual caller) pulls Stream
type Context struct {
	mu      sync.Mutex // graph lock: voices, bus params, render
	sr      beep.SampleRate
	rate    float64
	frame   atomic.Int64
	state   atomic.Int32
	log     logging.LeveledLogger
	tap     Tap
	backend Backend

	voices []*Voice
	buses  []*Bus // render order, sources before destinations
	master *Bus
	delay  *Bus
	reverb *Bus
	flow   *Bus

	noise   *beep.Buffer
	curve   *dsp.Curve
	scratch [][2]float64

	active    atomic.Int64
	scheduled atomic.Int64
}

// NewContext builds the master, delay, reverb and flow buses, the noise
// burst and the quantize curve; none of them are ever rebuilt
func NewContext(cfg ContextConfig) (*Context, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, cfg.SampleRate)
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewDefaultLoggerFactory().NewLogger("synth")
	}

	c := &Context{
		sr:      beep.SampleRate(cfg.SampleRate),
		rate:    float64(cfg.SampleRate),
		log:     log,
		tap:     cfg.Tap,
		scratch: make([][2]float64, parameter.RenderBlockFrames),
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	c.master = newBus("master", parameter.DefaultMasterVolume, nil, nil)
	c.delay = newBus("delay", 1, NewDelayNetwork(cfg.SampleRate), c.master)
	c.reverb = newBus("reverb", parameter.ReverbBlend, NewReverb(cfg.SampleRate, rng), c.master)
	c.flow = newBus("flow", 0, nil, c.master)
	c.buses = []*Bus{c.flow, c.reverb, c.delay, c.master}

	c.noise = newNoiseBuffer(c.sr, parameter.HatNoiseLength, rng)
	c.curve = dsp.QuantizeCurve(parameter.CurveSamples, parameter.CurveSteps)

	log.Debugf("context ready: %d Hz, %d buses", cfg.SampleRate, len(c.buses))
	return c, nil
}

// newNoiseBuffer renders a white-noise burst into a beep buffer
func newNoiseBuffer(sr beep.SampleRate, seconds float64, rng *rand.Rand) *beep.Buffer {
	n := int(seconds * float64(sr))
	data := dsp.WhiteNoise(n, rng)
	pos := 0
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(data) {
			return 0, false
		}
		k := copy2(samples, data[pos:])
		pos += k
		return k, true
	})
	buf := beep.NewBuffer(beep.Format{
		SampleRate:  sr,
		NumChannels: parameter.AudioChannels,
		Precision:   3,
	})
	buf.Append(src)
	return buf
}

func copy2(dst [][2]float64, src []float64) int {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] = [2]float64{src[i], src[i]}
	}
	return n
}

// Attach opens a backend that will pull this context
func (c *Context) Attach(b Backend) error {
	if State(c.state.Load()) == StateClosed {
		return ErrContextClosed
	}
	if c.backend != nil {
		return ErrBackendAttached
	}
	if err := b.Open(c.sr, c); err != nil {
		return fmt.Errorf("open %s backend: %w", b.Name(), err)
	}
	c.backend = b
	c.log.Infof("backend %s attached", b.Name())
	return nil
}

// Backend returns the attached backend, nil when pulled manually
func (c *Context) Backend() Backend {
	return c.backend
}

// SampleRate returns the context rate
func (c *Context) SampleRate() beep.SampleRate {
	return c.sr
}

// Rate returns the sample rate as float for clock math
func (c *Context) Rate() float64 {
	return c.rate
}

// CurrentTime returns the audio clock in seconds
func (c *Context) CurrentTime() float64 {
	return float64(c.frame.Load()) / c.rate
}

// State returns the lifecycle state
func (c *Context) State() State {
	return State(c.state.Load())
}

// Suspend freezes the clock and renders silence
func (c *Context) Suspend() error {
	if c.state.CompareAndSwap(int32(StateRunning), int32(StateSuspended)) {
		c.log.Debug("context suspended")
		return nil
	}
	if State(c.state.Load()) == StateClosed {
		return ErrContextClosed
	}
	return nil
}

// Resume restarts a suspended clock
func (c *Context) Resume() error {
	if c.state.CompareAndSwap(int32(StateSuspended), int32(StateRunning)) {
		c.log.Debug("context resumed")
		return nil
	}
	if State(c.state.Load()) == StateClosed {
		return ErrContextClosed
	}
	return nil
}

// Close detaches the backend and drops every voice
func (c *Context) Close() error {
	if State(c.state.Swap(int32(StateClosed))) == StateClosed {
		return nil
	}
	var err error
	if c.backend != nil {
		err = c.backend.Close()
	}
	c.mu.Lock()
	c.voices = nil
	c.mu.Unlock()
	c.active.Store(0)
	return err
}

// Master, Delay, Reverb and FlowBus are the long-lived destinations
func (c *Context) Master() *Bus { return c.master }
func (c *Context) Delay() *Bus { return c.delay }
func (c *Context) Reverb() *Bus { return c.reverb }
func (c *Context) FlowBus() *Bus { return c.flow }

// Curve returns the shared quantize waveshaper
func (c *Context) Curve() *dsp.Curve {
	return c.curve
}

// NoiseStreamer returns a fresh reader over the noise burst
func (c *Context) NoiseStreamer() beep.Streamer {
	return c.noise.Streamer(0, c.noise.Len())
}

// ActiveVoices returns the count of voices held by the graph
func (c *Context) ActiveVoices() int64 {
	return c.active.Load()
}

// ScheduledVoices returns the lifetime count of scheduled voices
func (c *Context) ScheduledVoices() int64 {
	return c.scheduled.Load()
}

// Logger exposes the context logger to primitives
func (c *Context) Logger() logging.LeveledLogger {
	return c.log
}

// Do runs fn under the graph lock, serialized with rendering
func (c *Context) Do(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
}

// Schedule hands a voice to the graph; a start time already in the past plays immediately
func (c *Context) Schedule(v *Voice) {
	if c == nil || v == nil || v.Source == nil {
		return
	}
	if State(c.state.Load()) == StateClosed {
		return
	}
	if len(v.Sends) == 0 {
		v.Sends = []Send{{Bus: c.master, Level: 1}}
	}
	v.startFrame = c.frameOf(v.Start)
	v.stopFrame = c.frameOf(v.Stop)

	c.mu.Lock()
	c.voices = append(c.voices, v)
	c.mu.Unlock()

	c.active.Add(1)
	c.scheduled.Add(1)
	if c.tap != nil {
		c.tap(Event{Kind: v.Kind, Time: v.Start, Stop: v.Stop, Freq: v.Freq, Volume: v.Peak})
	}
}

// setStop moves a voice's end, caller holds the graph lock
func (c *Context) setStop(v *Voice, t float64) {
	v.Stop = t
	v.stopFrame = c.frameOf(t)
}

func (c *Context) frameOf(t float64) int64 {
	if math.IsInf(t, 1) || t*c.rate >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Round(t * c.rate))
}

// Stream renders the graph, implementing beep.Streamer
func (c *Context) Stream(samples [][2]float64) (n int, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if State(c.state.Load()) != StateRunning {
		clear(samples)
		return len(samples), true
	}
	for len(samples) > 0 {
		k := min(len(samples), parameter.RenderBlockFrames)
		c.render(samples[:k])
		samples = samples[k:]
		n += k
	}
	return n, true
}

// Err implements beep.Streamer
func (c *Context) Err() error {
	return nil
}

func (c *Context) render(out [][2]float64) {
	n := len(out)
	start := c.frame.Load()

	for _, b := range c.buses {
		b.reset(n)
	}

	live := c.voices[:0]
	for _, v := range c.voices {
		if c.renderVoice(v, start, n) {
			live = append(live, v)
		} else {
			c.active.Add(-1)
		}
	}
	for i := len(live); i < len(c.voices); i++ {
		c.voices[i] = nil
	}
	c.voices = live

	for _, b := range c.buses {
		b.process(start, c.rate)
		if b.dest != nil {
			b.mixInto(b.dest)
			continue
		}
		for i := range out {
			out[i][0] = softLimit(b.buf[i][0])
			out[i][1] = softLimit(b.buf[i][1])
		}
	}

	c.frame.Add(int64(n))
}

// renderVoice adds a voice's block into its sends, false once it is finished
func (c *Context) renderVoice(v *Voice, start int64, n int) bool {
	end := start + int64(n)
	if v.startFrame >= end {
		return true
	}
	length := v.stopFrame - v.startFrame
	if v.stopFrame == math.MaxInt64 {
		length = math.MaxInt64
	}
	left := length - v.played
	if left <= 0 {
		return false
	}

	off := 0
	if v.startFrame > start {
		off = int(v.startFrame - start)
	}
	k := n - off
	if int64(k) > left {
		k = int(left)
	}

	buf := c.scratch[:k]
	got, ok := v.Source.Stream(buf)
	v.played += int64(got)

	for _, s := range v.Sends {
		dst := s.Bus.buf[off : off+got]
		for i := range dst {
			dst[i][0] += buf[i][0] * s.Level
			dst[i][1] += buf[i][1] * s.Level
		}
	}
	return ok && v.played < length
}

// softLimit compresses peaks above the threshold then hard clips
func softLimit(v float64) float64 {
	const thr = parameter.LimiterThreshold
	if v > thr {
		v = thr + (1-thr)*(1.0-1.0/(1.0+(v-thr)*parameter.LimiterKnee))
	} else if v < -thr {
		v = -thr - (1-thr)*(1.0-1.0/(1.0+(-v-thr)*parameter.LimiterKnee))
	}
	if v > 1.0 {
		v = 1.0
	} else if v < -1.0 {
		v = -1.0
	}
	return v
}
