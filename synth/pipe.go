package synth

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/quizsynth/core"
)

// PlayerConfig describes a CLI player accepting raw s16le stereo on stdin
type PlayerConfig struct {
	Name string
	Path string
	Args []string
}

// DetectPlayer searches for a CLI player
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay > OSS
func DetectPlayer(rate int, buffer time.Duration) (*PlayerConfig, error) {
	r := strconv.Itoa(rate)
	ms := strconv.Itoa(int(buffer / time.Millisecond))

	// PulseAudio/PipeWire
	if path, err := exec.LookPath("pacat"); err == nil {
		return &PlayerConfig{
			Name: "pacat",
			Path: path,
			Args: []string{
				"--raw",
				"--format=s16le",
				"--rate=" + r,
				"--channels=2",
				"--latency-msec=" + ms,
				"--playback",
			},
		}, nil
	}

	// PipeWire native
	if path, err := exec.LookPath("pw-cat"); err == nil {
		return &PlayerConfig{
			Name: "pw-cat",
			Path: path,
			Args: []string{
				"--playback",
				"--format=s16",
				"--rate=" + r,
				"--channels=2",
				"--latency=" + ms + "ms",
				"-",
			},
		}, nil
	}

	// ALSA
	if path, err := exec.LookPath("aplay"); err == nil {
		return &PlayerConfig{
			Name: "aplay",
			Path: path,
			Args: []string{"-t", "raw", "-f", "S16_LE", "-r", r, "-c", "2", "-q"},
		}, nil
	}

	// SoX
	if path, err := exec.LookPath("play"); err == nil {
		return &PlayerConfig{
			Name: "sox",
			Path: path,
			Args: []string{"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", r, "-", "-d", "-q"},
		}, nil
	}

	// FFplay
	if path, err := exec.LookPath("ffplay"); err == nil {
		return &PlayerConfig{
			Name: "ffplay",
			Path: path,
			Args: []string{
				"-nodisp",
				"-autoexit",
				"-f", "s16le",
				"-ac", "2",
				"-ar", r,
				"-probesize", "32",
				"-analyzeduration", "0",
				"-i", "pipe:0",
				"-loglevel", "quiet",
			},
		}, nil
	}

	// FreeBSD OSS, direct device write
	if runtime.GOOS == "freebsd" {
		if _, err := os.Stat("/dev/dsp"); err == nil {
			return &PlayerConfig{Name: "oss", Path: "/dev/dsp"}, nil
		}
	}

	return nil, ErrNoPipeBackend
}

// PipeBackend streams s16le frames into a system player process
type PipeBackend struct {
	buffer time.Duration
	player *PlayerConfig
	cmd    *exec.Cmd
	out    io.WriteCloser

	stop    chan struct{}
	running atomic.Bool
	failed  atomic.Bool
	wg      sync.WaitGroup
}

// NewPipeBackend creates a pipe backend, the player is detected on Open
func NewPipeBackend(buffer time.Duration) *PipeBackend {
	return &PipeBackend{buffer: buffer}
}

func (b *PipeBackend) Name() string {
	if b.player != nil {
		return "pipe:" + b.player.Name
	}
	return "pipe"
}

func (b *PipeBackend) Open(rate beep.SampleRate, src beep.Streamer) error {
	if b.running.Load() {
		return nil
	}
	player, err := DetectPlayer(int(rate), b.buffer)
	if err != nil {
		return err
	}
	b.player = player

	if player.Args == nil {
		f, err := os.OpenFile(player.Path, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("open %s: %w", player.Path, err)
		}
		b.out = f
	} else {
		cmd := exec.Command(player.Path, player.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return fmt.Errorf("%s stdin: %w", player.Name, err)
		}
		if err := cmd.Start(); err != nil {
			stdin.Close()
			return fmt.Errorf("start %s: %w", player.Name, err)
		}
		b.cmd = cmd
		b.out = stdin

		b.wg.Add(1)
		core.Go(b.monitorProcess)
	}

	b.stop = make(chan struct{})
	b.running.Store(true)

	bytes := make([]byte, rate.N(b.buffer)*4)
	b.wg.Add(1)
	core.Go(func() {
		defer b.wg.Done()
		err := pump(src, rate.N(b.buffer), b.buffer, b.stop, func(frames [][2]float64) error {
			n := framesToBytes(frames, bytes)
			if _, err := b.out.Write(bytes[:n]); err != nil {
				return fmt.Errorf("%w: %v", ErrPipeClosed, err)
			}
			return nil
		})
		if err != nil {
			b.failed.Store(true)
		}
	})
	return nil
}

// monitorProcess watches for player exit
func (b *PipeBackend) monitorProcess() {
	defer b.wg.Done()
	if err := b.cmd.Wait(); err != nil && b.running.Load() {
		b.failed.Store(true)
	}
}

// Failed reports whether the player died or the pipe broke
func (b *PipeBackend) Failed() bool {
	return b.failed.Load()
}

func (b *PipeBackend) Close() error {
	if !b.running.CompareAndSwap(true, false) {
		return nil
	}
	close(b.stop)
	if b.out != nil {
		b.out.Close()
	}
	if b.cmd != nil && b.cmd.Process != nil {
		b.cmd.Process.Kill()
	}
	b.wg.Wait()
	return nil
}

// framesToBytes converts stereo frames to interleaved int16 LE bytes
// Frames are already limited by the master bus, this only hard clips
func framesToBytes(in [][2]float64, out []byte) int {
	idx := 0
	for _, f := range in {
		for ch := 0; ch < 2; ch++ {
			v := f[ch]
			if v > 1.0 {
				v = 1.0
			} else if v < -1.0 {
				v = -1.0
			}
			binary.LittleEndian.PutUint16(out[idx:], uint16(int16(v*32767)))
			idx += 2
		}
	}
	return idx
}
