package device

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"
)

// PortAudioBackend plays through the PortAudio default output stream
type PortAudioBackend struct {
	buffer time.Duration
	stream *portaudio.Stream

	mu  sync.Mutex
	buf [][2]float64
}

// NewPortAudioBackend creates a PortAudio backend with the given device buffer
func NewPortAudioBackend(buffer time.Duration) *PortAudioBackend {
	return &PortAudioBackend{buffer: buffer}
}

func (b *PortAudioBackend) Name() string { return "portaudio" }

func (b *PortAudioBackend) Open(rate beep.SampleRate, src beep.Streamer) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream != nil {
		return nil
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}

	frames := rate.N(b.buffer)
	b.buf = make([][2]float64, frames)
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(rate), frames, func(out []float32) {
		n := len(out) / 2
		if cap(b.buf) < n {
			b.buf = make([][2]float64, n)
		}
		buf := b.buf[:n]
		got, _ := src.Stream(buf)
		for i := 0; i < n; i++ {
			if i < got {
				out[2*i] = float32(buf[i][0])
				out[2*i+1] = float32(buf[i][1])
			} else {
				out[2*i], out[2*i+1] = 0, 0
			}
		}
	})
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("portaudio open: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("portaudio start: %w", err)
	}
	b.stream = stream
	return nil
}

func (b *PortAudioBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stream == nil {
		return nil
	}
	err := b.stream.Stop()
	b.stream.Close()
	b.stream = nil
	portaudio.Terminate()
	return err
}
