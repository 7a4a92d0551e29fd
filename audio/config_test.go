package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/parameter"
)

// TestDefaultConfig verifies the built-in settings are valid and unchanged by Validate
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if !cfg.Enabled || cfg.Backend != "auto" || cfg.Mode != "arcade" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.SampleRate != parameter.AudioSampleRate {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
	if cfg.Lookahead.IntervalMS != 25 || cfg.Lookahead.WindowMS != 100 || cfg.Lookahead.StartOffsetMS != 50 {
		t.Errorf("lookahead = %+v", cfg.Lookahead)
	}
	if cfg.Flow.ChordIntervalMS != 10000 || cfg.Flow.FadeInMS != 4000 || cfg.Flow.ReleaseMS != 2000 {
		t.Errorf("flow = %+v", cfg.Flow)
	}
	if cfg.ParsedMode() != core.ModeArcade {
		t.Errorf("ParsedMode = %v", cfg.ParsedMode())
	}
}

// TestLoadConfigMissingFile verifies a missing file yields defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Tempo != parameter.DefaultBPM {
		t.Errorf("Tempo = %v, want default", cfg.Tempo)
	}
}

// TestLoadConfigYAML verifies file values overlay the defaults
func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizsynth.yaml")
	data := []byte(`
backend: "null"
tempo: 140
mode: flow
density: 6
lookahead:
  window_ms: 150
flow:
  chord_interval_ms: 5000
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Backend != "null" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
	if cfg.Tempo != 140 || cfg.Density != 6 {
		t.Errorf("Tempo/Density = %v/%d", cfg.Tempo, cfg.Density)
	}
	if cfg.ParsedMode() != core.ModeFlow {
		t.Errorf("mode = %q", cfg.Mode)
	}
	if cfg.Lookahead.WindowMS != 150 || cfg.Lookahead.IntervalMS != 25 {
		t.Errorf("lookahead = %+v", cfg.Lookahead)
	}
	if cfg.Flow.ChordIntervalMS != 5000 || cfg.Flow.ReleaseMS != 2000 {
		t.Errorf("flow = %+v", cfg.Flow)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

// TestLoadConfigBadYAML verifies parse errors are returned
func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("tempo: [fast"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

// TestLoadConfigEnv verifies QUIZSYNTH_* variables override the file
func TestLoadConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizsynth.yaml")
	if err := os.WriteFile(path, []byte("tempo: 100\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUIZSYNTH_TEMPO", "150")
	t.Setenv("QUIZSYNTH_MASTER_VOLUME", "25")
	t.Setenv("QUIZSYNTH_MODE", "FLOW")
	t.Setenv("QUIZSYNTH_ENABLED", "false")
	t.Setenv("QUIZSYNTH_SEED", "42")
	t.Setenv("QUIZSYNTH_SAMPLE_RATE", "garbage")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Tempo != 150 {
		t.Errorf("Tempo = %v, want 150", cfg.Tempo)
	}
	if cfg.MasterVolume != 0.25 {
		t.Errorf("MasterVolume = %v, want 0.25", cfg.MasterVolume)
	}
	if cfg.Mode != "flow" {
		t.Errorf("Mode = %q, want normalized flow", cfg.Mode)
	}
	if cfg.Enabled {
		t.Error("Enabled should be false")
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d", cfg.Seed)
	}
	if cfg.SampleRate != parameter.AudioSampleRate {
		t.Errorf("unparsable sample rate changed the value to %d", cfg.SampleRate)
	}
}

// TestValidateRejects verifies unknown names and bad rates wrap ErrInvalidConfig
func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "jack" }},
		{"mode", func(c *Config) { c.Mode = "zen" }},
		{"log level", func(c *Config) { c.Log.Level = "loud" }},
		{"sample rate", func(c *Config) { c.SampleRate = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("err = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

// TestValidateClamps verifies numeric fields are forced into range
func TestValidateClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MasterVolume = 3
	cfg.Tempo = 20
	cfg.Density = 40
	cfg.BufferMS = 0
	cfg.Lookahead.IntervalMS = 30
	cfg.Lookahead.WindowMS = 10
	cfg.Backend = " Speaker "

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.MasterVolume != 1 || cfg.Tempo != parameter.MinBPM || cfg.Density != parameter.MaxDensity {
		t.Errorf("clamped = %v %v %d", cfg.MasterVolume, cfg.Tempo, cfg.Density)
	}
	if cfg.BufferMS <= 0 {
		t.Error("buffer not defaulted")
	}
	if cfg.Lookahead.WindowMS < cfg.Lookahead.IntervalMS {
		t.Errorf("window %d shorter than interval %d", cfg.Lookahead.WindowMS, cfg.Lookahead.IntervalMS)
	}
	if cfg.Backend != "speaker" {
		t.Errorf("Backend = %q", cfg.Backend)
	}
}

// TestSaveConfig verifies a saved config loads back
func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quizsynth.yaml")
	cfg := DefaultConfig()
	cfg.Tempo = 90
	cfg.Mode = "flow"
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Tempo != 90 || loaded.Mode != "flow" {
		t.Errorf("loaded = %+v", loaded)
	}
}

// TestParseLogLevel verifies accepted names
func TestParseLogLevel(t *testing.T) {
	for _, name := range []string{"", "off", "error", "WARN", "info", "debug", "trace"} {
		if _, ok := ParseLogLevel(name); !ok {
			t.Errorf("%q rejected", name)
		}
	}
	if _, ok := ParseLogLevel("verbose"); ok {
		t.Error("verbose accepted")
	}
}
