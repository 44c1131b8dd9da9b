// Package state holds the client-side state containers. Each container is
// owned by one service and handed to readers through constructors.
package state

import "sync"

// Store guards one value of T. Readers get copies; writers go through Update
// so subscribers see every change.
type Store[T any] struct {
	mu   sync.RWMutex
	v    T
	subs []func(T)
}

func New[T any](initial T) *Store[T] {
	return &Store[T]{v: initial}
}

func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v
}

// Update applies fn under the write lock and returns the new value.
// Subscribers run after the lock is released.
func (s *Store[T]) Update(fn func(*T)) T {
	s.mu.Lock()
	fn(&s.v)
	v := s.v
	subs := s.subs
	s.mu.Unlock()

	for _, f := range subs {
		f(v)
	}
	return v
}

func (s *Store[T]) Set(v T) {
	s.Update(func(cur *T) { *cur = v })
}

// Subscribe registers fn to run after every Update.
func (s *Store[T]) Subscribe(fn func(T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}
