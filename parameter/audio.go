package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
	AudioChannels   = 2
	AudioPrecision  = 2 // bytes per sample for encoded output
)

// Audio Engine Timing
const (
	// AudioBufferDuration sizes the device buffer and the null backend pull rate
	AudioBufferDuration = 50 * time.Millisecond

	// RenderBlockFrames caps one internal render pass
	RenderBlockFrames = 1024

	// ParamUpdateInterval is how many frames a filter holds its coefficients
	ParamUpdateInterval = 16
)

// Look-ahead scheduler
const (
	LookaheadInterval    = 25 * time.Millisecond
	LookaheadWindow      = 100 * time.Millisecond
	LookaheadStartOffset = 50 * time.Millisecond
)

// Master bus
const (
	DefaultMasterVolume = 0.5
	MasterRampTime      = 0.1 // seconds, volume changes glide over this
	LimiterThreshold    = 0.8
	LimiterKnee         = 5.0
)

// Tone envelope
const (
	ToneAttack    = 0.02  // seconds, linear
	ToneFloor     = 0.001 // exponential decay target
	ToneTail      = 0.5   // seconds past duration before the voice stops
	GlitchCutoff  = 8000.0
	GlitchDivisor = 50.0
)

// Percussion
const (
	KickFreq      = 150.0
	KickFreqFloor = 0.01
	KickGainFloor = 0.01
	KickDecay     = 0.5

	SnareFreq     = 150.0
	SnareGain     = 0.4
	SnareDecay    = 0.2
	SnareStopTime = 0.5

	HatNoiseLength = 0.1
	HatCutoff      = 8000.0
	HatBaseGain    = 0.01
	HatDensityGain = 0.002
	HatDecay       = 0.05
)

// Harmonic stack
const (
	StackCutoffStart = 200.0
	StackCutoffEnd   = 600.0
	StackPeak        = 0.05
	StackAttack      = 2.0
	StackRelease     = 1.0
	StackTail        = 2.0
)

// Quantize waveshaper
const (
	CurveSamples = 44100
	CurveSteps   = 8
)

// Delay network
const (
	DelayTimeA      = 0.6
	DelayTimeB      = 0.9
	DelayFeedback   = 0.5
	DelayDampCutoff = 1500.0
)

// Reverb bus
const (
	ReverbLength = 3.0 // seconds of impulse response
	ReverbDecay  = 2.0
	ReverbBlend  = 0.4
	// ReverbPartition is the convolver block size, one block of latency
	ReverbPartition = 1024
)

// Filter defaults
const (
	DefaultQ  = 0.7071
	BandpassQ = 1.0
)

// UI interaction sounds
const (
	HoverDuration = 0.05
	HoverVolume   = 0.03

	ClickNote1Duration = 0.08
	ClickNote2Duration = 0.28
	ClickVolume        = 0.05

	WrongCutoff   = 600.0
	WrongDuration = 0.3
	WrongVolume   = 0.12

	ChimeFundamentalLength = 0.6
	ChimeOvertoneLength    = 0.2
	ChimeFundamentalVolume = 0.08
	ChimeOvertoneVolume    = 0.03
)
