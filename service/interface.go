package service

// Service is the lifecycle contract for long-lived subsystems owned by a host
//
// Lifecycle:
//  1. Construction
//  2. Init(args...) - configuration from flags or config files
//  3. Start() - begin operation
//  4. Stop() - halt and release resources, idempotent
type Service interface {
	// Name returns the unique identifier for this service
	Name() string

	// Dependencies returns names of services that must Init first
	Dependencies() []string

	// Init configures the service from optional args
	Init(args ...any) error

	// Start begins service operation
	Start() error

	// Stop halts service operation and releases resources
	Stop() error
}
