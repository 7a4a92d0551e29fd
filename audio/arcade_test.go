package audio

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/parameter"
)

// TestArcadeKickOnly verifies density 1 at 128 BPM plays only quarter-note kicks
func TestArcadeKickOnly(t *testing.T) {
	r := newRig(t, func(c *Config) {
		c.Tempo = 128
		c.Density = 1
	})
	r.e.Start()
	r.advance(4 * time.Second)

	if extra := r.kindsExcept(core.VoiceKick); len(extra) != 0 {
		t.Fatalf("unexpected voice kinds at density 1: %v", extra)
	}

	var kicks []float64
	for _, ev := range r.rec.Filter(core.VoiceKick) {
		if ev.Time < 4.0 {
			kicks = append(kicks, ev.Time)
		}
	}
	if len(kicks) != 9 {
		t.Fatalf("got %d kicks in 4s, want 9: %v", len(kicks), kicks)
	}
	if math.Abs(kicks[0]-0.05) > 1e-9 {
		t.Errorf("first kick at %v, want 0.05", kicks[0])
	}
	for i := 1; i < len(kicks); i++ {
		if gap := kicks[i] - kicks[i-1]; math.Abs(gap-0.46875) > 1e-9 {
			t.Errorf("kick gap %d = %v, want 0.46875", i, gap)
		}
	}
}

// TestArcadeMonotonic verifies event times never decrease and the schedule only moves forward
func TestArcadeMonotonic(t *testing.T) {
	r := newRig(t, func(c *Config) { c.Density = 12 })
	r.e.SetStreak(60)
	r.e.Start()

	prevNext := r.e.arcade.NextEventTime()
	for i := 0; i < 15; i++ {
		r.advance(200 * time.Millisecond)
		next := r.e.arcade.NextEventTime()
		if next <= prevNext {
			t.Fatalf("nextEventTime %v did not advance past %v", next, prevNext)
		}
		prevNext = next
	}

	events := r.rec.Events()
	if len(events) == 0 {
		t.Fatal("no events recorded")
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatalf("event %d at %v precedes event %d at %v", i, events[i].Time, i-1, events[i-1].Time)
		}
	}
}

// TestArcadeDensityChangeKeepsVoices verifies lowering density leaves sounding voices alone
func TestArcadeDensityChangeKeepsVoices(t *testing.T) {
	r := newRig(t, func(c *Config) { c.Density = 12 })
	r.e.SetStreak(60)
	r.e.Start()
	r.advance(time.Second)

	before := r.e.Context().ActiveVoices()
	if before == 0 {
		t.Fatal("no voices sounding at density 12")
	}
	r.e.SetDensity(1)
	if after := r.e.Context().ActiveVoices(); after != before {
		t.Errorf("SetDensity changed active voices %d -> %d", before, after)
	}

	r.rec.Reset()
	r.advance(time.Second)
	if extra := r.kindsExcept(core.VoiceKick); len(extra) != 0 {
		t.Errorf("density 1 dispatched %v", extra)
	}
	// Pads from the first phrase run for 4s
	if r.e.Context().ActiveVoices() == 0 {
		t.Error("long voices were cut by the density change")
	}
}

// TestArcadeArpVolume verifies the arpeggio sits halfway through its crossfade at streak 25
func TestArcadeArpVolume(t *testing.T) {
	r := newRig(t, func(c *Config) { c.Density = 5 })
	r.e.SetStreak(25)
	r.e.Start()
	r.advance(time.Second)

	arps := r.rec.Filter(core.VoiceArp)
	if len(arps) == 0 {
		t.Fatal("no arpeggio notes at density 5")
	}
	for _, ev := range arps {
		if math.Abs(ev.Volume-0.025) > 1e-12 {
			t.Fatalf("arp volume = %v, want 0.025", ev.Volume)
		}
	}
}

// TestArcadeSkipsStaleSteps verifies a stalled timer never schedules into the past
func TestArcadeSkipsStaleSteps(t *testing.T) {
	r := newRig(t, func(c *Config) { c.Density = 4 })
	r.e.Start()
	r.advance(200 * time.Millisecond)

	r.backend.Advance(time.Second)
	clock := r.e.Context().CurrentTime()
	r.rec.Reset()
	r.timer.Advance(25 * time.Millisecond)

	for _, ev := range r.rec.Events() {
		if ev.Time < clock {
			t.Fatalf("%s scheduled at %v behind clock %v", ev.Kind, ev.Time, clock)
		}
	}
	if r.e.arcade.NextEventTime() < clock {
		t.Error("schedule did not catch up with the clock")
	}
}

// TestArcadeStop verifies Stop cancels the timer without touching voices
func TestArcadeStop(t *testing.T) {
	r := newRig(t, func(c *Config) { c.Density = 6 })
	r.e.SetStreak(35)
	r.e.Start()
	r.advance(500 * time.Millisecond)

	active := r.e.Context().ActiveVoices()
	r.e.Stop()
	if r.e.arcade.Running() || r.timer.Pending() != 0 {
		t.Fatal("timer still armed after Stop")
	}
	if got := r.e.Context().ActiveVoices(); got != active {
		t.Errorf("Stop changed active voices %d -> %d", active, got)
	}

	n := r.rec.Len()
	r.advance(time.Second)
	if r.rec.Len() != n {
		t.Error("events scheduled after Stop")
	}
	r.e.Stop()
}

// TestLayerNames verifies the density gate adds one layer per level in order
func TestLayerNames(t *testing.T) {
	if got := LayerNames(1); !slices.Equal(got, []string{"kick"}) {
		t.Errorf("density 1 = %v", got)
	}
	if got := LayerNames(4); !slices.Equal(got, []string{"kick", "snare", "tick", "bass"}) {
		t.Errorf("density 4 = %v", got)
	}
	if got := LayerNames(parameter.MaxDensity); len(got) != 12 || got[11] != "organ" {
		t.Errorf("density 12 = %v", got)
	}
}

// TestArcadeRoot verifies the root alternates every phrase
func TestArcadeRoot(t *testing.T) {
	tests := []struct {
		step int64
		want float64
	}{
		{0, 41.20},
		{31, 41.20},
		{32, 49.00},
		{64, 41.20},
	}
	for _, tt := range tests {
		if got := ArcadeRoot(tt.step); got != tt.want {
			t.Errorf("ArcadeRoot(%d) = %v, want %v", tt.step, got, tt.want)
		}
	}
}

// TestCrossfade verifies the curve is monotonic and exactly 1 from the window end
func TestCrossfade(t *testing.T) {
	w := parameter.StreakWindow{From: 20, To: 30}
	prev := -1.0
	for s := 0; s <= 50; s++ {
		v := Crossfade(s, w)
		if v < prev {
			t.Fatalf("Crossfade(%d) = %v below previous %v", s, v, prev)
		}
		if v < 0 || v > 1 {
			t.Fatalf("Crossfade(%d) = %v out of range", s, v)
		}
		prev = v
	}
	if Crossfade(19, w) != 0 || Crossfade(30, w) != 1 || Crossfade(99, w) != 1 {
		t.Error("window edges wrong")
	}
	if Crossfade(25, w) != 0.5 {
		t.Errorf("midpoint = %v", Crossfade(25, w))
	}
	if ArpLevel(25) != 0.025 {
		t.Errorf("ArpLevel(25) = %v", ArpLevel(25))
	}
	if PadLevel(20) != 0 || LeadLevel(45) != parameter.LeadVolume {
		t.Error("pad or lead window misplaced")
	}
}
