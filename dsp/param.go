package dsp

import "math"

type eventKind uint8

const (
	eventSet eventKind = iota
	eventLinear
	eventExponential
)

type paramEvent struct {
	kind  eventKind
	time  float64
	value float64
}

// Param is an automation timeline evaluated against the audio clock
// Events are kept sorted by time; ramps interpolate from the preceding event
// Not safe for concurrent use, owners serialize through the graph lock
type Param struct {
	initial float64
	events  []paramEvent
	cursor  int // index of first event after the last evaluated time
}

// NewParam creates a param holding v until the first event
func NewParam(v float64) *Param {
	return &Param{initial: v}
}

// SetValueAtTime steps to v at t
func (p *Param) SetValueAtTime(v, t float64) {
	p.insert(paramEvent{kind: eventSet, time: t, value: v})
}

// LinearRampToValueAtTime ramps linearly from the previous event to v, arriving at t
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.insert(paramEvent{kind: eventLinear, time: t, value: v})
}

// ExponentialRampToValueAtTime ramps geometrically from the previous event to v, arriving at t
// A ramp touching zero or crossing sign holds the previous value until t
func (p *Param) ExponentialRampToValueAtTime(v, t float64) {
	p.insert(paramEvent{kind: eventExponential, time: t, value: v})
}

// CancelScheduledValues drops every event at or after t
func (p *Param) CancelScheduledValues(t float64) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time >= t {
		i--
	}
	p.events = p.events[:i]
	p.cursor = 0
}

// HoldAt freezes the param at its value at t and returns that value
// History before t collapses into the initial value, so long-lived params
// that are re-automated many times stay small
func (p *Param) HoldAt(t float64) float64 {
	v := p.ValueAt(t)
	p.events = p.events[:0]
	p.cursor = 0
	p.initial = v
	p.SetValueAtTime(v, t)
	return v
}

// Static reports the constant value when no automation is scheduled
func (p *Param) Static() (float64, bool) {
	if len(p.events) == 0 {
		return p.initial, true
	}
	return 0, false
}

// Len returns the number of scheduled events
func (p *Param) Len() int {
	return len(p.events)
}

// ValueAt evaluates the timeline at t
// Monotonic t is amortized O(1); stepping backwards rescans
func (p *Param) ValueAt(t float64) float64 {
	n := len(p.events)
	if n == 0 {
		return p.initial
	}

	i := p.cursor
	if i > n {
		i = n
	}
	if i > 0 && p.events[i-1].time > t {
		i = 0
	}
	for i < n && p.events[i].time <= t {
		i++
	}
	p.cursor = i

	prevTime, prevValue := 0.0, p.initial
	if i > 0 {
		prevTime, prevValue = p.events[i-1].time, p.events[i-1].value
	}
	if i == n {
		return prevValue
	}

	next := p.events[i]
	span := next.time - prevTime
	if span <= 0 {
		return prevValue
	}
	frac := (t - prevTime) / span
	if frac < 0 {
		frac = 0
	}

	switch next.kind {
	case eventLinear:
		return prevValue + (next.value-prevValue)*frac
	case eventExponential:
		if prevValue == 0 || next.value == 0 || (prevValue < 0) != (next.value < 0) {
			return prevValue
		}
		return prevValue * math.Pow(next.value/prevValue, frac)
	default:
		return prevValue
	}
}

// insert keeps events ordered by time, equal times keep call order
func (p *Param) insert(e paramEvent) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time > e.time {
		i--
	}
	p.events = append(p.events, paramEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
	p.cursor = 0
}
