package synth

import (
	"sync"

	"github.com/lixenwraith/quizsynth/core"
)

// Event describes one scheduled voice
type Event struct {
	Kind   core.VoiceKind
	Time   float64
	Stop   float64
	Freq   float64
	Volume float64
}

// Tap observes scheduled voices, called on the scheduling goroutine
type Tap func(Event)

// Recorder collects events from a tap
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Tap returns the recording callback
func (r *Recorder) Tap() Tap {
	return r.Record
}

// Record appends an event
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Filter returns events of one kind in record order
func (r *Recorder) Filter(kind core.VoiceKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many events of kind were recorded
func (r *Recorder) Count(kind core.VoiceKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Summary counts events per kind
func (r *Recorder) Summary() map[core.VoiceKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[core.VoiceKind]int)
	for _, e := range r.events {
		out[e.Kind]++
	}
	return out
}

// Len returns the total number of events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// Reset drops all events
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
