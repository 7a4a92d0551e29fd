package status

import "sync/atomic"

// MaxStringLen bounds stored labels, longer values are cut
const MaxStringLen = 24

// AtomicString is a lock-free label such as the current mode or chord name
// The zero value holds ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store replaces the label
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

// Load returns the label
func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
