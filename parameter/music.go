package parameter

import (
	"math"
	"time"
)

// Tempo and Timing
const (
	DefaultBPM   = 128
	MinBPM       = 60
	MaxBPM       = 200
	StepsPerBeat = 4 // 16th notes
	StepsPerBar  = 16
	PhraseSteps  = 32 // pads, stabs, root change
	SectionSteps = 64 // cinematic stack
)

// StepDuration returns one sixteenth note in seconds at the given tempo
func StepDuration(bpm float64) float64 {
	return 60.0 / bpm / StepsPerBeat
}

// Density gate
const (
	MinDensity     = 1
	MaxDensity     = 12
	DefaultDensity = 1
)

// Arcade roots alternate every phrase
var ArcadeRoots = [2]float64{41.20, 49.00}

// Arcade note sequences, multiples of the current root
var (
	ArpSequence  = [4]float64{4, 6, 8, 5}
	LeadSequence = [8]float64{8, 12, 10, 15, 8, 6, 12, 16}
	StackRatios  = []float64{1, 1.5, 2}
)

// StreakWindow is the streak range over which a layer crossfades from silent to full
type StreakWindow struct {
	From float64
	To   float64
}

// Crossfade windows
var (
	ArpWindow  = StreakWindow{From: 20, To: 30}
	PadWindow  = StreakWindow{From: 25, To: 35}
	LeadWindow = StreakWindow{From: 35, To: 45}
)

// Arcade layer voicing
const (
	BassDuration = 0.15
	BassVolume   = 0.5
	BassCutoff   = 600.0

	TickRatio    = 1.5
	TickDuration = 0.2
	TickVolume   = 0.1
	TickCutoff   = 1000.0

	ArpDuration = 0.1
	ArpVolume   = 0.05
	ArpCutoff   = 2000.0

	PadDuration    = 4.0
	PadAttack      = 1.5
	PadVolume      = 0.15
	PadCutoffStart = 200.0
	PadCutoffEnd   = 800.0
	PadLowRatio    = 4.0
	PadHighRatio   = 6.0
	PadLowDetune   = -5.0
	PadHighDetune  = 5.0

	LeadDuration = 0.12
	LeadVolume   = 0.1
	LeadCutoff   = 4000.0

	StabDuration = 0.08
	StabVolume   = 0.15
	StabCutoff   = 800.0

	GlitchChance   = 0.1
	GlitchMinFreq  = 200.0
	GlitchFreqSpan = 4000.0
	GlitchDuration = 0.1
	GlitchVolume   = 0.05

	StackDuration = 8.0

	OrganRatio    = 4.0
	OrganDuration = 2.0
	OrganVolume   = 0.06
)

// DensityStage maps a minimum streak to an arcade density level
type DensityStage struct {
	MinStreak int
	Density   int
}

// DensityStages is sorted by descending MinStreak
var DensityStages = []DensityStage{
	{60, 12},
	{50, 11},
	{45, 10},
	{40, 9},
	{35, 8},
	{30, 7},
	{25, 6},
	{20, 5},
	{15, 4},
	{10, 3},
	{5, 2},
}

// DensityForStreak returns the density of the first stage the streak reaches
func DensityForStreak(streak int) int {
	for _, s := range DensityStages {
		if streak >= s.MinStreak {
			return s.Density
		}
	}
	return MinDensity
}

// Flow mode
const (
	FlowBusLevel      = 0.5
	FlowFadeIn        = 4 * time.Second
	FlowChordInterval = 10 * time.Second
	FlowRelease       = 2 * time.Second

	FlowEchoDelay      = 2.5 // seconds after the bell
	FlowHarmonyDelay   = 3.0
	FlowHarmonyStreak  = 30 // extra echo above this streak
	FlowPulseStreak    = 50 // pulse layer above this streak
	FlowHarmonyDegrees = 2
)

// FM bell
const (
	BellModRatio    = 2.0
	BellIndexStart  = 250.0
	BellIndexEnd    = 0.01
	BellIndexDecay  = 1.2
	BellPeak        = 0.15
	BellAttack      = 0.01
	BellDecay       = 2.5
	BellStop        = 3.0
	BellDelaySend   = 0.3
	ChoirQ          = 4.0
	ChoirPeak       = 0.06
	ChoirAttack     = 1.0
	ChoirRelease    = 3.0
	AmbientCutoff   = 600.0
	AmbientLFODepth = 200.0
	AmbientLFOMin   = 0.07
	AmbientLFOSpan  = 0.06
	AmbientDetune   = 8.0 // cents, either direction
	AmbientPan      = 0.5
	AmbientLevel    = 0.04
	PulseRatio      = 4.0
	PulseLevel      = 0.02
	PulseRate       = 6.0
	PulseDelaySend  = 0.2
)

// Note names (semitone offset within octave)
const (
	NoteC  = 0
	NoteCs = 1
	NoteD  = 2
	NoteDs = 3
	NoteE  = 4
	NoteF  = 5
	NoteFs = 6
	NoteG  = 7
	NoteGs = 8
	NoteA  = 9
	NoteAs = 10
	NoteB  = 11
)

// MIDINote computes MIDI note number from note + octave
func MIDINote(note, octave int) int {
	return (octave+1)*12 + note // C-1 = 0, C4 = 60
}

// NoteFreq returns frequency in Hz for a MIDI note, A4 = 440Hz
func NoteFreq(midi int) float64 {
	return 440.0 * math.Pow(2, float64(midi-69)/12.0)
}

// FlowChord is one step of the Flow progression
type FlowChord struct {
	Name  string
	Roots [4]float64
	Scale [5]float64
}

// FlowChords cycles Cmaj9, Am9, Fmaj9, G6
var FlowChords = [4]FlowChord{
	{
		Name:  "Cmaj9",
		Roots: [4]float64{130.81, 164.81, 196.00, 246.94},
		Scale: [5]float64{523.25, 587.33, 659.25, 783.99, 880.00},
	},
	{
		Name:  "Am9",
		Roots: [4]float64{110.00, 130.81, 164.81, 196.00},
		Scale: [5]float64{440.00, 523.25, 587.33, 659.25, 783.99},
	},
	{
		Name:  "Fmaj9",
		Roots: [4]float64{87.31, 130.81, 174.61, 220.00},
		Scale: [5]float64{349.23, 392.00, 440.00, 523.25, 587.33},
	},
	{
		Name:  "G6",
		Roots: [4]float64{98.00, 146.83, 196.00, 246.94},
		Scale: [5]float64{392.00, 440.00, 493.88, 587.33, 659.25},
	},
}
