package dsp

import (
	"math"
	"testing"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// TestParamInitialValue verifies the initial value holds with no events
func TestParamInitialValue(t *testing.T) {
	p := NewParam(0.7)
	if v := p.ValueAt(12.5); v != 0.7 {
		t.Errorf("Expected 0.7, got %f", v)
	}
	if v, ok := p.Static(); !ok || v != 0.7 {
		t.Errorf("Expected static 0.7, got %f (static=%v)", v, ok)
	}
}

// TestParamLinearRamp verifies linear interpolation between events
func TestParamLinearRamp(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0, 1.0)
	p.LinearRampToValueAtTime(1.0, 2.0)

	tests := []struct {
		at   float64
		want float64
	}{
		{0.5, 0},
		{1.0, 0},
		{1.25, 0.25},
		{1.5, 0.5},
		{2.0, 1.0},
		{5.0, 1.0},
	}
	for _, tt := range tests {
		if v := p.ValueAt(tt.at); !near(v, tt.want, 1e-12) {
			t.Errorf("ValueAt(%v) = %f, want %f", tt.at, v, tt.want)
		}
	}
}

// TestParamExponentialRamp verifies geometric interpolation
func TestParamExponentialRamp(t *testing.T) {
	p := NewParam(1)
	p.SetValueAtTime(1, 0)
	p.ExponentialRampToValueAtTime(0.01, 1)

	if v := p.ValueAt(0.5); !near(v, 0.1, 1e-9) {
		t.Errorf("Expected midpoint 0.1, got %f", v)
	}
	if v := p.ValueAt(1); !near(v, 0.01, 1e-12) {
		t.Errorf("Expected 0.01 at end, got %f", v)
	}

	// Monotonic decay across the ramp
	prev := p.ValueAt(0)
	for i := 1; i <= 100; i++ {
		v := p.ValueAt(float64(i) / 100)
		if v > prev {
			t.Fatalf("Exponential decay rose at step %d: %f > %f", i, v, prev)
		}
		prev = v
	}
}

// TestParamExponentialFromZeroHolds verifies a ramp from zero holds until its end time
func TestParamExponentialFromZeroHolds(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0, 0)
	p.ExponentialRampToValueAtTime(1, 1)

	if v := p.ValueAt(0.9); v != 0 {
		t.Errorf("Expected hold at 0, got %f", v)
	}
	if v := p.ValueAt(1); v != 1 {
		t.Errorf("Expected 1 at ramp end, got %f", v)
	}
}

// TestParamEnvelopeShape verifies the attack then decay envelope used by tones
func TestParamEnvelopeShape(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0, 10)
	p.LinearRampToValueAtTime(0.5, 10.02)
	p.ExponentialRampToValueAtTime(0.001, 10.5)

	if v := p.ValueAt(10.01); !near(v, 0.25, 1e-9) {
		t.Errorf("Expected half attack 0.25, got %f", v)
	}
	if v := p.ValueAt(10.02); !near(v, 0.5, 1e-12) {
		t.Errorf("Expected peak 0.5, got %f", v)
	}
	if v := p.ValueAt(10.5); !near(v, 0.001, 1e-12) {
		t.Errorf("Expected floor 0.001, got %f", v)
	}
}

// TestParamOutOfOrderInsert verifies events sort by time regardless of call order
func TestParamOutOfOrderInsert(t *testing.T) {
	p := NewParam(0)
	p.LinearRampToValueAtTime(1, 2)
	p.SetValueAtTime(0, 1)

	if v := p.ValueAt(1.5); !near(v, 0.5, 1e-12) {
		t.Errorf("Expected 0.5, got %f", v)
	}
}

// TestParamBackwardsEvaluation verifies the cursor rescans when time moves back
func TestParamBackwardsEvaluation(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(1, 1)
	p.SetValueAtTime(2, 2)

	if v := p.ValueAt(3); v != 2 {
		t.Fatalf("Expected 2, got %f", v)
	}
	if v := p.ValueAt(1.5); v != 1 {
		t.Errorf("Expected 1 after rewind, got %f", v)
	}
	if v := p.ValueAt(0.5); v != 0 {
		t.Errorf("Expected initial 0 after rewind, got %f", v)
	}
}

// TestParamHoldAt verifies cancel-and-hold used by smoothed volume changes
func TestParamHoldAt(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(0, 0)
	p.LinearRampToValueAtTime(1, 4)

	held := p.HoldAt(2)
	if !near(held, 0.5, 1e-12) {
		t.Fatalf("Expected held value 0.5, got %f", held)
	}
	p.LinearRampToValueAtTime(0, 3)

	if v := p.ValueAt(2.5); !near(v, 0.25, 1e-12) {
		t.Errorf("Expected 0.25 on the new ramp, got %f", v)
	}
	if v := p.ValueAt(10); v != 0 {
		t.Errorf("Expected old ramp cancelled, got %f", v)
	}
}

// TestParamCancelScheduledValues verifies events at or after t are dropped
func TestParamCancelScheduledValues(t *testing.T) {
	p := NewParam(0)
	p.SetValueAtTime(1, 1)
	p.SetValueAtTime(2, 2)
	p.SetValueAtTime(3, 3)
	p.CancelScheduledValues(2)

	if p.Len() != 1 {
		t.Fatalf("Expected 1 event, got %d", p.Len())
	}
	if v := p.ValueAt(5); v != 1 {
		t.Errorf("Expected 1, got %f", v)
	}
}
