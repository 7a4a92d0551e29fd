package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/parameter"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "QUIZSYNTH_"

// KnownBackends are the accepted backend names; "auto" tries them in device order
var KnownBackends = []string{"auto", "speaker", "portaudio", "pipe", "null"}

// AutoBackendOrder is the fallback chain for "auto"
var AutoBackendOrder = []string{"speaker", "portaudio", "pipe", "null"}

// LookaheadConfig tunes the arcade scheduler
type LookaheadConfig struct {
	IntervalMS    int `yaml:"interval_ms"`
	WindowMS      int `yaml:"window_ms"`
	StartOffsetMS int `yaml:"start_offset_ms"`
}

// FlowConfig tunes the flow engine
type FlowConfig struct {
	ChordIntervalMS int `yaml:"chord_interval_ms"`
	FadeInMS        int `yaml:"fade_in_ms"`
	ReleaseMS       int `yaml:"release_ms"`
}

// LogConfig selects the log level
type LogConfig struct {
	Level string `yaml:"level"`
}

// Config holds audio engine settings
type Config struct {
	Enabled      bool            `yaml:"enabled"`
	Backend      string          `yaml:"backend"`
	SampleRate   int             `yaml:"sample_rate"`
	BufferMS     int             `yaml:"buffer_ms"`
	MasterVolume float64         `yaml:"master_volume"`
	Tempo        float64         `yaml:"tempo"`
	Mode         string          `yaml:"mode"`
	Density      int             `yaml:"density"`
	AutoDensity  bool            `yaml:"auto_density"`
	Seed         int64           `yaml:"seed"` // 0 seeds from the clock
	Lookahead    LookaheadConfig `yaml:"lookahead"`
	Flow         FlowConfig      `yaml:"flow"`
	Log          LogConfig       `yaml:"log"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		Backend:      "auto",
		SampleRate:   parameter.AudioSampleRate,
		BufferMS:     int(parameter.AudioBufferDuration / time.Millisecond),
		MasterVolume: parameter.DefaultMasterVolume,
		Tempo:        parameter.DefaultBPM,
		Mode:         core.ModeArcade.String(),
		Density:      parameter.DefaultDensity,
		AutoDensity:  true,
		Lookahead: LookaheadConfig{
			IntervalMS:    int(parameter.LookaheadInterval / time.Millisecond),
			WindowMS:      int(parameter.LookaheadWindow / time.Millisecond),
			StartOffsetMS: int(parameter.LookaheadStartOffset / time.Millisecond),
		},
		Flow: FlowConfig{
			ChordIntervalMS: int(parameter.FlowChordInterval / time.Millisecond),
			FadeInMS:        int(parameter.FlowFadeIn / time.Millisecond),
			ReleaseMS:       int(parameter.FlowRelease / time.Millisecond),
		},
		Log: LogConfig{Level: "warn"},
	}
}

// LoadConfig layers the YAML file at path and QUIZSYNTH_* env vars over the defaults
// An empty path or a missing file leaves the defaults in place
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML, creating parent directories
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from the environment, ignoring unparsable values
func (c *Config) applyEnv() {
	if enabled := os.Getenv(EnvPrefix + "ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			c.Enabled = val
		}
	}

	if backend := os.Getenv(EnvPrefix + "BACKEND"); backend != "" {
		c.Backend = backend
	}

	if sampleRate := os.Getenv(EnvPrefix + "SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			c.SampleRate = val
		}
	}

	// Master volume is 0-100 converted to 0.0-1.0
	if volume := os.Getenv(EnvPrefix + "MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			c.MasterVolume = float64(val) / 100.0
		}
	}

	if tempo := os.Getenv(EnvPrefix + "TEMPO"); tempo != "" {
		if val, err := strconv.ParseFloat(tempo, 64); err == nil {
			c.Tempo = val
		}
	}

	if mode := os.Getenv(EnvPrefix + "MODE"); mode != "" {
		c.Mode = mode
	}

	if level := os.Getenv(EnvPrefix + "LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}

	if seed := os.Getenv(EnvPrefix + "SEED"); seed != "" {
		if val, err := strconv.ParseInt(seed, 10, 64); err == nil {
			c.Seed = val
		}
	}
}

// Validate clamps numeric fields into range and rejects unknown names
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = "auto"
	}
	if !slices.Contains(KnownBackends, c.Backend) {
		return fmt.Errorf("%w: backend %q, want one of %s", ErrInvalidConfig, c.Backend, strings.Join(KnownBackends, ", "))
	}

	mode, ok := core.ParseMode(c.Mode)
	if !ok {
		return fmt.Errorf("%w: mode %q", ErrInvalidConfig, c.Mode)
	}
	c.Mode = mode.String()

	if _, ok := ParseLogLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}

	if c.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	}

	c.MasterVolume = clampFloat(c.MasterVolume, 0, 1)
	c.Tempo = clampFloat(c.Tempo, parameter.MinBPM, parameter.MaxBPM)
	c.Density = clampInt(c.Density, parameter.MinDensity, parameter.MaxDensity)

	if c.BufferMS <= 0 {
		c.BufferMS = int(parameter.AudioBufferDuration / time.Millisecond)
	}
	if c.Lookahead.IntervalMS <= 0 {
		c.Lookahead.IntervalMS = int(parameter.LookaheadInterval / time.Millisecond)
	}
	// The window has to cover at least one poll or steps fall between ticks
	if c.Lookahead.WindowMS < c.Lookahead.IntervalMS {
		c.Lookahead.WindowMS = c.Lookahead.IntervalMS * 4
	}
	if c.Lookahead.StartOffsetMS < 0 {
		c.Lookahead.StartOffsetMS = 0
	}
	if c.Flow.ChordIntervalMS <= 0 {
		c.Flow.ChordIntervalMS = int(parameter.FlowChordInterval / time.Millisecond)
	}
	if c.Flow.FadeInMS < 0 {
		c.Flow.FadeInMS = 0
	}
	if c.Flow.ReleaseMS <= 0 {
		c.Flow.ReleaseMS = int(parameter.FlowRelease / time.Millisecond)
	}
	return nil
}

// ParsedMode returns the validated mode
func (c *Config) ParsedMode() core.Mode {
	m, _ := core.ParseMode(c.Mode)
	return m
}

// Buffer returns the device buffer length
func (c *Config) Buffer() time.Duration {
	return time.Duration(c.BufferMS) * time.Millisecond
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	} else if v > hi {
		return hi
	}
	return v
}
