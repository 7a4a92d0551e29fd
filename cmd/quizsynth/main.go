package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/quizsynth/audio"
	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/status"
	_ "github.com/lixenwraith/quizsynth/synth/device"
)

var (
	configFlag  = flag.String("config", "quizsynth.yaml", "config file path")
	debugFlag   = flag.Bool("debug", false, "write debug logs to logs/quizsynth.log")
	backendFlag = flag.String("backend", "", "audio backend: auto, speaker, portaudio, pipe, null")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	cfg, err := audio.LoadConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}
	if *debugFlag {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	core.SetCrashHook(screen.Fini)
	defer screen.Fini()

	reg := status.NewRegistry()
	engine := audio.NewEngine(cfg,
		audio.WithLoggerFactory(audio.NewLoggerFactory(cfg.Log.Level, log.Writer())),
		audio.WithRegistry(reg),
	)
	defer engine.Close()

	NewConsole(screen, engine, reg).Run()
}
