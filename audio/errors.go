package audio

import "errors"

// Sentinel errors
var (
	ErrInvalidConfig      = errors.New("invalid audio config")
	ErrBackendUnavailable = errors.New("audio backend unavailable")
	ErrNotInitialized     = errors.New("audio engine not initialized")
)
