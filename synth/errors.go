package synth

import "errors"

// Sentinel errors
var (
	ErrContextClosed     = errors.New("audio context closed")
	ErrUnknownBackend    = errors.New("unknown audio backend")
	ErrBackendAttached   = errors.New("audio backend already attached")
	ErrNoPipeBackend     = errors.New("no compatible pipe player found")
	ErrPipeClosed        = errors.New("audio pipe closed")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)
