package draft

import "sync"

// Store owns the current Draft of one editing session. Each operation computes
// a whole new Draft and swaps it in, so Snapshot never observes a half-applied edit.
type Store struct {
	mu      sync.RWMutex
	current Draft
}

// NewStore returns a store holding d.
func NewStore(d Draft) *Store {
	return &Store{current: d}
}

// Snapshot returns the current draft.
func (s *Store) Snapshot() Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Apply runs op on the current draft and stores its result. On error the
// current draft is kept.
func (s *Store) Apply(op func(Draft) (Draft, error)) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := op(s.current)
	if err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

// SetField replaces one scalar field.
func (s *Store) SetField(f Field, v Value) (Draft, error) {
	return s.Apply(func(d Draft) (Draft, error) { return d.WithField(f, v) })
}

// SetMode sets the event mode.
func (s *Store) SetMode(m Mode) (Draft, error) {
	return s.Apply(func(d Draft) (Draft, error) { return d.WithMode(m) })
}
