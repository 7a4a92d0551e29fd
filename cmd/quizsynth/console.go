package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/quizsynth/audio"
	"github.com/lixenwraith/quizsynth/core"
	"github.com/lixenwraith/quizsynth/status"
)

const (
	frameInterval = 50 * time.Millisecond
	volumeStep    = 0.05
	messageTTL    = 3 * time.Second
)

var helpLines = []string{
	"space start/stop   m mode   +/- density   ]/[ streak   }/{ streak x5",
	"up/down volume   x mute   h hover   c click   w wrong   n note",
	"p pause   q quit",
}

var (
	styleTitle = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleLabel = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleValue = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleOn    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleOff   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleHelp  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Console drives an engine from the keyboard and renders its state
type Console struct {
	screen tcell.Screen
	engine *audio.Engine
	reg    *status.Registry

	message   string
	messageAt time.Time
}

// NewConsole creates a console over an initialized screen
func NewConsole(screen tcell.Screen, engine *audio.Engine, reg *status.Registry) *Console {
	return &Console{screen: screen, engine: engine, reg: reg}
}

func (c *Console) notify(format string, args ...any) {
	c.message = fmt.Sprintf(format, args...)
	c.messageAt = time.Now()
}

// Run processes input and redraws until quit
func (c *Console) Run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := c.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	c.notify("press any key to enable audio")
	c.draw()
	for {
		select {
		case ev := <-events:
			if !c.handleEvent(ev) {
				return
			}
			c.draw()
		case <-ticker.C:
			c.engine.Publish()
			c.draw()
		}
	}
}

// handleEvent applies one input event, returning false to quit
func (c *Console) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.screen.Sync()
		return true
	case *tcell.EventKey:
		return c.handleKey(ev)
	}
	return true
}

func (c *Console) handleKey(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
		return false
	}

	snap := c.engine.Snapshot()
	// The first key stands in for the user gesture that unlocks audio output
	if !snap.Initialized {
		if err := c.engine.Init(); err != nil {
			c.notify("audio init failed: %v", err)
			return true
		}
		snap = c.engine.Snapshot()
		c.notify("audio on %s backend", snap.Backend)
	}

	switch ev.Key() {
	case tcell.KeyUp:
		c.engine.SetMasterVolume(snap.Volume + volumeStep)
		return true
	case tcell.KeyDown:
		c.engine.SetMasterVolume(snap.Volume - volumeStep)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	switch ev.Rune() {
	case ' ':
		if snap.Playing {
			c.engine.Stop()
		} else {
			c.engine.Start()
		}
	case 'm':
		next := snap.Mode.Next()
		c.engine.SetMode(next)
		c.notify("mode %s", next)
	case '+', '=':
		c.engine.SetDensity(snap.Density + 1)
	case '-', '_':
		c.engine.SetDensity(snap.Density - 1)
	case ']':
		c.engine.SetStreak(snap.Streak + 1)
	case '[':
		c.engine.SetStreak(snap.Streak - 1)
	case '}':
		c.engine.SetStreak(snap.Streak + 5)
	case '{':
		c.engine.SetStreak(snap.Streak - 5)
	case 'x':
		if c.engine.ToggleMute() {
			c.notify("unmuted")
		} else {
			c.notify("muted")
		}
	case 'h':
		c.engine.PlayInteraction(core.InteractionHover)
	case 'c':
		c.engine.PlayInteraction(core.InteractionClick)
	case 'w':
		c.engine.PlayInteraction(core.InteractionWrong)
	case 'n':
		c.engine.PlayFlowNote()
	case 'p':
		var err error
		if snap.State == "suspended" {
			err = c.engine.Resume()
		} else {
			err = c.engine.Suspend()
		}
		if err != nil {
			c.notify("%v", err)
		}
	}
	return true
}

func (c *Console) draw() {
	c.screen.Clear()
	snap := c.engine.Snapshot()

	y := 0
	c.text(0, y, styleTitle, "quizsynth")
	y += 2

	playing, playStyle := "stopped", styleOff
	if snap.Playing {
		playing, playStyle = "playing", styleOn
	}
	c.field(0, y, "state", fmt.Sprintf("%s / %s", snap.State, snap.Backend), styleValue)
	c.field(40, y, "transport", playing, playStyle)
	y++
	c.field(0, y, "mode", snap.Mode.String(), styleValue)
	c.field(40, y, "chord", snap.Chord, styleValue)
	y++
	c.field(0, y, "density", fmt.Sprintf("%d  %v", snap.Density, audio.LayerNames(snap.Density)), styleValue)
	y++
	c.field(0, y, "streak", fmt.Sprintf("%d", snap.Streak), styleValue)
	c.field(40, y, "tempo", fmt.Sprintf("%.0f bpm", snap.Tempo), styleValue)
	y++
	volStyle := styleValue
	if snap.Muted {
		volStyle = styleOff
	}
	c.field(0, y, "volume", fmt.Sprintf("%.2f", snap.Volume), volStyle)
	c.field(40, y, "clock", fmt.Sprintf("%.2fs", snap.Clock), styleValue)
	y++
	c.field(0, y, "voices", fmt.Sprintf("%d active / %d total", snap.ActiveVoices, snap.ScheduledVoices), styleValue)
	y += 2

	c.text(0, y, styleTitle, "metrics")
	y++
	for _, m := range c.reg.Lines() {
		c.field(2, y, m.Key, m.Value, styleValue)
		y++
	}
	y++

	for _, line := range helpLines {
		c.text(0, y, styleHelp, line)
		y++
	}
	if c.message != "" && time.Since(c.messageAt) < messageTTL {
		c.text(0, y+1, styleValue, c.message)
	}
	c.screen.Show()
}

func (c *Console) field(x, y int, label, value string, style tcell.Style) {
	c.text(x, y, styleLabel, label)
	c.text(x+12, y, style, value)
}

func (c *Console) text(x, y int, style tcell.Style, s string) {
	w, h := c.screen.Size()
	if y >= h {
		return
	}
	for _, r := range s {
		if x >= w {
			return
		}
		c.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
