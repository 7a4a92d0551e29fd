package audio

import (
	"io"
	"testing"
	"time"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/synth"
)

const testRate = 22050

// rig is an engine driven entirely by a manual backend and a manual timer
type rig struct {
	e       *Engine
	backend *synth.ManualBackend
	timer   *ManualTimer
	rec     *synth.Recorder
}

// newRig builds an initialized engine; mutate adjusts the config before Init
func newRig(t *testing.T, mutate func(*Config), opts ...Option) *rig {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SampleRate = testRate
	cfg.Seed = 1
	cfg.AutoDensity = false
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	r := &rig{
		backend: synth.NewManualBackend(),
		timer:   NewManualTimer(),
		rec:     synth.NewRecorder(),
	}
	opts = append([]Option{
		WithBackend(r.backend),
		WithTimer(r.timer),
		WithTap(r.rec.Tap()),
		WithLoggerFactory(NewLoggerFactory("disabled", io.Discard)),
	}, opts...)
	r.e = NewEngine(cfg, opts...)
	if err := r.e.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { r.e.Close() })
	return r
}

// advance moves audio and control time forward together in lookahead-sized steps
func (r *rig) advance(d time.Duration) {
	const step = 25 * time.Millisecond
	for elapsed := time.Duration(0); elapsed < d; elapsed += step {
		r.backend.Advance(step)
		r.timer.Advance(step)
	}
}

// kindsExcept returns the recorded kinds outside the given set
func (r *rig) kindsExcept(allowed ...core.VoiceKind) []core.VoiceKind {
	var out []core.VoiceKind
	for kind := range r.rec.Summary() {
		found := false
		for _, a := range allowed {
			if kind == a {
				found = true
				break
			}
		}
		if !found {
			out = append(out, kind)
		}
	}
	return out
}
