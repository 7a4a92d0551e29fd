package synth

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/quizsynth/core"
)

// Backend pulls rendered audio from a context and delivers it somewhere
type Backend interface {
	Name() string
	Open(rate beep.SampleRate, src beep.Streamer) error
	Close() error
}

// BackendFactory builds a backend for a device buffer length
type BackendFactory func(buffer time.Duration) Backend

var (
	backendsMu sync.RWMutex
	backends   = map[string]BackendFactory{}
)

func init() {
	RegisterBackend("null", func(buffer time.Duration) Backend { return NewNullBackend(buffer) })
	RegisterBackend("pipe", func(buffer time.Duration) Backend { return NewPipeBackend(buffer) })
}

// RegisterBackend makes a backend available by name, device packages call it from init
func RegisterBackend(name string, factory BackendFactory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// NewBackend builds a registered backend
func NewBackend(name string, buffer time.Duration) (Backend, error) {
	backendsMu.RLock()
	factory, ok := backends[name]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	return factory(buffer), nil
}

// BackendNames lists registered backends, sorted
func BackendNames() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pump pulls one buffer per tick from src and hands it to write until stop closes
// or write fails
func pump(src beep.Streamer, frames int, interval time.Duration, stop <-chan struct{}, write func([][2]float64) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	buf := make([][2]float64, frames)
	for {
		select {
		case <-stop:
			return nil
		case <-ticker.C:
			n, _ := src.Stream(buf)
			if err := write(buf[:n]); err != nil {
				return err
			}
		}
	}
}

// NullBackend keeps the clock moving in real time and discards the output
type NullBackend struct {
	buffer  time.Duration
	stop    chan struct{}
	done    chan struct{}
	running atomic.Bool
}

// NewNullBackend creates a discarding backend pulling every buffer interval
func NewNullBackend(buffer time.Duration) *NullBackend {
	return &NullBackend{buffer: buffer}
}

func (b *NullBackend) Name() string { return "null" }

func (b *NullBackend) Open(rate beep.SampleRate, src beep.Streamer) error {
	if !b.running.CompareAndSwap(false, true) {
		return nil
	}
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	core.Go(func() {
		defer close(b.done)
		pump(src, rate.N(b.buffer), b.buffer, b.stop, func([][2]float64) error { return nil })
	})
	return nil
}

func (b *NullBackend) Close() error {
	if !b.running.CompareAndSwap(true, false) {
		return nil
	}
	close(b.stop)
	<-b.done
	return nil
}

// ManualBackend renders only when advanced, for tests and offline rendering
type ManualBackend struct {
	rate   beep.SampleRate
	src    beep.Streamer
	frames atomic.Int64
	buf    [][2]float64
}

// NewManualBackend creates an idle manual backend
func NewManualBackend() *ManualBackend {
	return &ManualBackend{}
}

func (b *ManualBackend) Name() string { return "manual" }

func (b *ManualBackend) Open(rate beep.SampleRate, src beep.Streamer) error {
	b.rate = rate
	b.src = src
	return nil
}

func (b *ManualBackend) Close() error {
	b.src = nil
	return nil
}

// Advance renders d worth of frames and discards them
func (b *ManualBackend) Advance(d time.Duration) {
	if b.src == nil {
		return
	}
	n := b.rate.N(d)
	if cap(b.buf) < n {
		b.buf = make([][2]float64, n)
	}
	b.Stream(b.buf[:n])
}

// Stream pulls the attached source, letting an encoder drive the clock
func (b *ManualBackend) Stream(samples [][2]float64) (n int, ok bool) {
	if b.src == nil {
		return 0, false
	}
	n, ok = b.src.Stream(samples)
	b.frames.Add(int64(n))
	return n, ok
}

func (b *ManualBackend) Err() error { return nil }

// Frames returns the total rendered frame count
func (b *ManualBackend) Frames() int64 {
	return b.frames.Load()
}
