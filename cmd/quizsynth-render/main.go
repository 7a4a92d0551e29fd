package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/quizsynth/audio"
	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/parameter"
	"github.com/lixenwraith/quizsynth/synth"
)

var (
	outFlag      = flag.String("out", "quizsynth.wav", "output WAV file")
	secondsFlag  = flag.Float64("seconds", 30, "length to render")
	modeFlag     = flag.String("mode", "", "arcade or flow, overrides the config")
	streakFlag   = flag.Int("streak", 0, "answer streak")
	densityFlag  = flag.Int("density", 0, "arcade density 1-12, 0 derives it from the streak")
	noteFlag     = flag.Duration("note-every", 4*time.Second, "flow note interval, 0 disables")
	configFlag   = flag.String("config", "", "config file path")
	logLevelFlag = flag.String("log", "", "log level, overrides the config")
)

// lockstep advances the control timer to the audio position before each slice renders,
// so an offline render schedules exactly as a live engine would
type lockstep struct {
	backend *synth.ManualBackend
	timer   *audio.ManualTimer
	rate    beep.SampleRate
	slice   int
	frames  int
}

func (l *lockstep) Stream(samples [][2]float64) (int, bool) {
	done := 0
	for done < len(samples) {
		n := min(l.slice, len(samples)-done)
		target := l.rate.D(l.frames + n)
		if d := target - l.timer.Now(); d > 0 {
			l.timer.Advance(d)
		}
		got, ok := l.backend.Stream(samples[done : done+n])
		done += got
		l.frames += got
		if !ok || got == 0 {
			return done, done > 0
		}
	}
	return done, true
}

func (l *lockstep) Err() error { return nil }

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quizsynth-render: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := audio.LoadConfig(*configFlag)
	if err != nil {
		return err
	}
	if *modeFlag != "" {
		cfg.Mode = *modeFlag
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}
	cfg.AutoDensity = *densityFlag == 0
	if *densityFlag != 0 {
		cfg.Density = *densityFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if *secondsFlag <= 0 {
		return fmt.Errorf("seconds must be positive, got %v", *secondsFlag)
	}

	backend := synth.NewManualBackend()
	timer := audio.NewManualTimer()
	rec := synth.NewRecorder()
	engine := audio.NewEngine(cfg,
		audio.WithBackend(backend),
		audio.WithTimer(timer),
		audio.WithTap(rec.Tap()),
		audio.WithLoggerFactory(audio.NewLoggerFactory(cfg.Log.Level, os.Stderr)),
	)
	if err := engine.Init(); err != nil {
		return err
	}
	defer engine.Close()

	engine.SetStreak(*streakFlag)
	if !cfg.AutoDensity {
		engine.SetDensity(cfg.Density)
	}
	engine.Start()
	if *noteFlag > 0 && cfg.ParsedMode() == core.ModeFlow {
		cancel := timer.Every(*noteFlag, engine.PlayFlowNote)
		defer cancel()
	}

	f, err := os.Create(*outFlag)
	if err != nil {
		return fmt.Errorf("create %s: %w", *outFlag, err)
	}
	defer f.Close()

	rate := beep.SampleRate(cfg.SampleRate)
	src := &lockstep{
		backend: backend,
		timer:   timer,
		rate:    rate,
		slice:   rate.N(parameter.LookaheadInterval),
	}
	total := rate.N(time.Duration(*secondsFlag * float64(time.Second)))
	format := beep.Format{
		SampleRate:  rate,
		NumChannels: parameter.AudioChannels,
		Precision:   parameter.AudioPrecision,
	}
	if err := wav.Encode(f, beep.Take(total, src), format); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}

	summary := rec.Summary()
	kinds := make([]core.VoiceKind, 0, len(summary))
	for k := range summary {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	fmt.Fprintf(os.Stderr, "wrote %s: %.1fs %s, %d voices\n", *outFlag, rate.D(total).Seconds(), cfg.Mode, rec.Len())
	for _, k := range kinds {
		fmt.Fprintf(os.Stderr, "  %-8s %d\n", k, summary[k])
	}
	return nil
}
