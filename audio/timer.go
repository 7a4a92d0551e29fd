package audio

import (
	"sort"
	"sync"
	"time"

	"github.com/lixenwraith/quizsynth/core"
)

// Timer runs recurring callbacks for the arcade poll and the flow chord change
type Timer interface {
	// Every calls fn each d until the returned cancel func is called
	Every(d time.Duration, fn func()) (cancel func())
}

// WallTimer fires on real time, one goroutine per registration
type WallTimer struct{}

// Every implements Timer with a time.Ticker
// Cancel does not wait for a running callback, callbacks guard themselves
func (WallTimer) Every(d time.Duration, fn func()) func() {
	stop := make(chan struct{})
	var once sync.Once

	core.Go(func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	})

	return func() {
		once.Do(func() { close(stop) })
	}
}

// manualEntry is one registration on a ManualTimer
type manualEntry struct {
	id       int
	interval time.Duration
	next     time.Duration
	fn       func()
}

// ManualTimer fires only when advanced, for tests and offline rendering
type ManualTimer struct {
	mu      sync.Mutex
	now     time.Duration
	nextID  int
	entries map[int]*manualEntry
}

// NewManualTimer creates a timer at time zero
func NewManualTimer() *ManualTimer {
	return &ManualTimer{entries: make(map[int]*manualEntry)}
}

// Every implements Timer
func (m *ManualTimer) Every(d time.Duration, fn func()) func() {
	if d <= 0 {
		d = time.Millisecond
	}
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.entries[id] = &manualEntry{id: id, interval: d, next: m.now + d, fn: fn}
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
	}
}

// Now returns the elapsed manual time
func (m *ManualTimer) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of live registrations
func (m *ManualTimer) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Advance moves time forward by d, firing due callbacks in time order
// Callbacks run without the timer lock and may cancel or register entries
func (m *ManualTimer) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		e := m.nextDue(target)
		if e == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = e.next
		e.next += e.interval
		fn := e.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest entry due by target, lowest id first on ties
func (m *ManualTimer) nextDue(target time.Duration) *manualEntry {
	due := make([]*manualEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.next <= target {
			due = append(due, e)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].next != due[j].next {
			return due[i].next < due[j].next
		}
		return due[i].id < due[j].id
	})
	return due[0]
}
