// Package store holds the client-side caches of server data.
//
// Every store is a passive holder: it never calls the backend itself.
// Whoever orchestrates a fetch drives it through its actions, and
// consumers read snapshots or subscribe to changes.
//
// Concurrent refreshes are not serialized. If two fetches for the same store
// race, the store ends up with whichever response was committed last, not
// whichever request was issued last. The loading flag is a single boolean
// shared by overlapping fetches: the first one to finish clears it while the
// others may still be in flight.
package store

import (
	"sync"
)

// State is a point-in-time view of a store. Data is nil when nothing is
// cached; Error is empty when no failure is recorded.
type State[T any] struct {
	Data    *T
	Loading bool
	Error   string
}

// HasData reports whether a value is cached.
func (s State[T]) HasData() bool { return s.Data != nil }

// Store is a thread-safe holder for one cached resource plus its
// loading and error flags.
type Store[T any] struct {
	mu      sync.RWMutex
	data    *T
	loading bool
	errMsg  string
	clone   func(T) T

	subs    map[uint64]func(State[T])
	nextSub uint64
}

// New creates an empty store. clone copies values on the way in and out so
// callers never share memory with the cache; nil means plain assignment.
func New[T any](clone func(T) T) *Store[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &Store[T]{
		clone: clone,
		subs:  make(map[uint64]func(State[T])),
	}
}

// Set replaces the cached value wholesale and clears any recorded error.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	c := s.clone(v)
	s.data = &c
	s.errMsg = ""
	s.unlockAndNotify()
}

// SetError records a failure. The cached value, if any, stays visible.
func (s *Store[T]) SetError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.unlockAndNotify()
}

// SetLoading toggles the in-flight flag. It is independent of data and error.
func (s *Store[T]) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.unlockAndNotify()
}

// Clear drops the cached value and error. Loading is left untouched, so a
// fetch still in flight may repopulate the store afterwards.
func (s *Store[T]) Clear() {
	s.mu.Lock()
	s.data = nil
	s.errMsg = ""
	s.unlockAndNotify()
}

// Has reports whether a value is cached.
func (s *Store[T]) Has() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data != nil
}

// Snapshot returns a copy of the current state.
func (s *Store[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every action.
// Callbacks run synchronously on the goroutine that performed the action,
// outside the store's lock. The returned func removes the subscription.
func (s *Store[T]) Subscribe(fn func(State[T])) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// snapshotLocked MUST be called while holding s.mu.
func (s *Store[T]) snapshotLocked() State[T] {
	st := State[T]{Loading: s.loading, Error: s.errMsg}
	if s.data != nil {
		c := s.clone(*s.data)
		st.Data = &c
	}
	return st
}

// unlockAndNotify releases s.mu, which the caller holds for writing, and
// fans the new state out to subscribers.
func (s *Store[T]) unlockAndNotify() {
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	st := s.snapshotLocked()
	fns := make([]func(State[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
