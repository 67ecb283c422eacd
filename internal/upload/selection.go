package upload

import "sync"

// Selection is the single pending-file slot. A failed selection attempt
// never disturbs a previously accepted file.
type Selection struct {
	mu      sync.Mutex
	file    File
	present bool
}

// Select validates f and, if it passes, replaces the pending file
func (s *Selection) Select(f File) error {
	if err := Validate(f); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = f
	s.present = true
	return nil
}

// Current returns the pending file, if any
func (s *Selection) Current() (File, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file, s.present
}

// Clear empties the slot
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.file = File{}
	s.present = false
}

// clearIf empties the slot only if it still holds f
func (s *Selection) clearIf(f File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.present && s.file == f {
		s.file = File{}
		s.present = false
	}
}
