package audio

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/parameter"
)

func flowRig(t *testing.T) *rig {
	t.Helper()
	return newRig(t, func(c *Config) { c.Mode = "flow" })
}

// TestFlowChordCycle verifies one chord advance per interval, wrapping after four
func TestFlowChordCycle(t *testing.T) {
	r := flowRig(t)
	r.e.Start()

	if got := r.e.flow.ChordIndex(); got != 0 {
		t.Fatalf("initial chord = %d", got)
	}
	for _, want := range []int{1, 2, 3, 0} {
		r.advance(9900 * time.Millisecond)
		if got := r.e.flow.ChordIndex(); got != (want+3)%4 {
			t.Fatalf("chord changed early: %d", got)
		}
		r.advance(100 * time.Millisecond)
		if got := r.e.flow.ChordIndex(); got != want {
			t.Fatalf("chord = %d, want %d", got, want)
		}
		if r.e.flow.Layers() != len(parameter.FlowChords[want].Roots) {
			t.Errorf("layers = %d after change", r.e.flow.Layers())
		}
	}
	if got := r.rec.Count(core.VoiceAmbient); got != 5*4 {
		t.Errorf("ambient voices = %d, want 20", got)
	}
}

// TestFlowBusFade verifies the flow bus fades in on Start and out on Stop
func TestFlowBusFade(t *testing.T) {
	r := flowRig(t)
	r.e.Start()

	gain := r.e.Context().FlowBus().Gain()
	if v := gain.ValueAt(parameter.FlowFadeIn.Seconds()); math.Abs(v-parameter.FlowBusLevel) > 1e-9 {
		t.Errorf("flow bus after fade in = %v", v)
	}

	r.advance(5 * time.Second)
	r.e.Stop()
	now := r.e.Context().CurrentTime()
	if v := gain.ValueAt(now); math.Abs(v-parameter.FlowBusLevel) > 1e-9 {
		t.Errorf("flow bus at stop = %v, want held level", v)
	}
	if v := gain.ValueAt(now + parameter.FlowRelease.Seconds()); math.Abs(v) > 1e-9 {
		t.Errorf("flow bus after release = %v", v)
	}
	if r.timer.Pending() != 0 || r.e.flow.Layers() != 0 {
		t.Error("Stop left the chord timer or layers behind")
	}
}

// TestFlowNoteEchoes verifies the choir echoes follow the streak
func TestFlowNoteEchoes(t *testing.T) {
	tests := []struct {
		streak int
		choirs int
	}{
		{0, 1},
		{30, 1},
		{40, 2},
	}
	for _, tt := range tests {
		r := flowRig(t)
		r.e.SetStreak(tt.streak)
		r.e.Start()
		r.advance(time.Second)
		r.rec.Reset()

		now := r.e.Context().CurrentTime()
		r.e.PlayFlowNote()

		if got := r.rec.Count(core.VoiceBell); got != 1 {
			t.Errorf("streak %d: bells = %d", tt.streak, got)
		}
		choirs := r.rec.Filter(core.VoiceChoir)
		if len(choirs) != tt.choirs {
			t.Errorf("streak %d: choirs = %d, want %d", tt.streak, len(choirs), tt.choirs)
			continue
		}
		if math.Abs(choirs[0].Time-(now+parameter.FlowEchoDelay)) > 1e-9 {
			t.Errorf("echo at %v, want %v", choirs[0].Time, now+parameter.FlowEchoDelay)
		}
		if tt.choirs == 2 && math.Abs(choirs[1].Time-(now+parameter.FlowHarmonyDelay)) > 1e-9 {
			t.Errorf("harmony at %v, want %v", choirs[1].Time, now+parameter.FlowHarmonyDelay)
		}
	}
}

// TestFlowNoteFromScale verifies bells pick from the sounding chord's scale
func TestFlowNoteFromScale(t *testing.T) {
	r := flowRig(t)
	r.e.Start()
	scale := parameter.FlowChords[0].Scale
	for i := 0; i < 20; i++ {
		r.e.PlayFlowNote()
	}
	for _, ev := range r.rec.Filter(core.VoiceBell) {
		found := false
		for _, f := range scale {
			if ev.Freq == f {
				found = true
			}
		}
		if !found {
			t.Fatalf("bell at %v Hz outside the scale", ev.Freq)
		}
	}
}

// TestFlowPulseLayer verifies the pulse voice joins each root above the pulse streak
func TestFlowPulseLayer(t *testing.T) {
	r := flowRig(t)
	r.e.SetStreak(parameter.FlowPulseStreak + 1)
	r.e.Start()
	if got := r.rec.Count(core.VoicePulse); got != 4 {
		t.Errorf("pulse voices = %d, want 4", got)
	}

	r2 := flowRig(t)
	r2.e.Start()
	if got := r2.rec.Count(core.VoicePulse); got != 0 {
		t.Errorf("pulse voices at streak 0 = %d", got)
	}
}
