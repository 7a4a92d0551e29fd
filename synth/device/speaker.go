// Package device registers hardware output backends with synth. It pulls in
// cgo audio libraries, so only binaries that play to a device import it.
package device

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/quizsynth/synth"
)

func init() {
	synth.RegisterBackend("speaker", func(buffer time.Duration) synth.Backend { return NewSpeakerBackend(buffer) })
	synth.RegisterBackend("portaudio", func(buffer time.Duration) synth.Backend { return NewPortAudioBackend(buffer) })
}

// SpeakerBackend plays through beep's default device output
type SpeakerBackend struct {
	buffer time.Duration
	open   atomic.Bool
}

// NewSpeakerBackend creates a speaker backend with the given device buffer
func NewSpeakerBackend(buffer time.Duration) *SpeakerBackend {
	return &SpeakerBackend{buffer: buffer}
}

func (b *SpeakerBackend) Name() string { return "speaker" }

func (b *SpeakerBackend) Open(rate beep.SampleRate, src beep.Streamer) error {
	if !b.open.CompareAndSwap(false, true) {
		return nil
	}
	if err := speaker.Init(rate, rate.N(b.buffer)); err != nil {
		b.open.Store(false)
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(src)
	return nil
}

func (b *SpeakerBackend) Close() error {
	if !b.open.CompareAndSwap(true, false) {
		return nil
	}
	speaker.Clear()
	speaker.Close()
	return nil
}
