package audio

import (
	"sync/atomic"

	"github.com/lixenwraith/quizsynth/service"
)

var _ service.Service = (*Service)(nil)

// Service wraps Engine as a service.Service for a host application
// A failed Init leaves the service disabled rather than failing the host
type Service struct {
	cfg      *Config
	opts     []Option
	engine   *Engine
	disabled atomic.Bool
}

// NewService creates an audio service; Init builds the engine
func NewService(cfg *Config, opts ...Option) *Service {
	return &Service{cfg: cfg, opts: opts}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "audio"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: bool - start muted
func (s *Service) Init(args ...any) error {
	s.engine = NewEngine(s.cfg, s.opts...)
	if len(args) > 0 {
		if muted, ok := args[0].(bool); ok {
			s.engine.SetMuted(muted)
		}
	}
	if err := s.engine.Init(); err != nil {
		s.engine.log.Warnf("audio disabled: %v", err)
		s.disabled.Store(true)
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	if s.disabled.Load() || s.engine == nil {
		return nil
	}
	s.engine.Start()
	return nil
}

// Stop implements service.Service, closing the engine
func (s *Service) Stop() error {
	if s.engine == nil {
		return nil
	}
	return s.engine.Close()
}

// IsDisabled reports whether Init failed
func (s *Service) IsDisabled() bool {
	return s.disabled.Load()
}

// Engine returns the engine, nil while disabled
func (s *Service) Engine() *Engine {
	if s.disabled.Load() {
		return nil
	}
	return s.engine
}
