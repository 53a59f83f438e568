// Package resource tracks GPU-style resources that must be released exactly once.
//
// A [Handle] wraps a value with an atomic reference count. Every owner calls
// [Handle.Retain] when it starts sharing the value and [Handle.Release] when it
// is done; the free function runs when the count reaches zero. Handles created
// through an [Arena] report their release to it, so the owner of the arena can
// audit teardown order and detect leaks.
package resource

import (
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrReleased is returned when a handle is retained or released after it was freed.
var ErrReleased = errors.New("resource: handle already released")

// Handle is a reference-counted owner of a value of type T.
type Handle[T any] struct {
	name  string
	value T
	refs  atomic.Int32
	freed atomic.Bool
	free  func(T)
	arena *Arena
}

// NewHandle returns a handle with one reference. free may be nil.
func NewHandle[T any](name string, v T, free func(T)) *Handle[T] {
	h := &Handle[T]{name: name, value: v, free: free}
	h.refs.Store(1)
	return h
}

// Track creates a handle registered with the arena.
func Track[T any](a *Arena, name string, v T, free func(T)) *Handle[T] {
	h := NewHandle(name, v, free)
	if a != nil {
		h.arena = a
		a.add(name)
	}
	return h
}

func (h *Handle[T]) Name() string { return h.name }

// Get returns the wrapped value. It stays valid until the last reference is released.
func (h *Handle[T]) Get() T { return h.value }

// Refs returns the current reference count.
func (h *Handle[T]) Refs() int { return int(h.refs.Load()) }

// Freed reports whether the free function has run.
func (h *Handle[T]) Freed() bool { return h.freed.Load() }

// Retain adds a reference and returns the handle for chaining.
func (h *Handle[T]) Retain() (*Handle[T], error) {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return nil, ErrReleased
		}
		if h.refs.CompareAndSwap(n, n+1) {
			return h, nil
		}
	}
}

// Release drops one reference. It returns true when this call freed the value.
func (h *Handle[T]) Release() (bool, error) {
	for {
		n := h.refs.Load()
		if n <= 0 {
			return false, ErrReleased
		}
		if !h.refs.CompareAndSwap(n, n-1) {
			continue
		}
		if n > 1 {
			return false, nil
		}
		h.freed.Store(true)
		if h.free != nil {
			h.free(h.value)
		}
		if h.arena != nil {
			h.arena.released(h.name)
		}
		return true, nil
	}
}

// Arena records the lifetime of the handles tracked against it.
type Arena struct {
	mu     sync.Mutex
	live   map[string]int
	freed  []string
	logger *slog.Logger
}

func NewArena(logger *slog.Logger) *Arena {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Arena{live: make(map[string]int), logger: logger}
}

func (a *Arena) add(name string) {
	a.mu.Lock()
	a.live[name]++
	a.mu.Unlock()
}

func (a *Arena) released(name string) {
	a.mu.Lock()
	a.live[name]--
	if a.live[name] <= 0 {
		delete(a.live, name)
	}
	a.freed = append(a.freed, name)
	a.mu.Unlock()
	a.logger.Debug("resource released", "name", name)
}

// Released returns the names of freed handles in release order.
func (a *Arena) Released() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.freed))
	copy(out, a.freed)
	return out
}

// Live returns the number of tracked handles not yet freed.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, c := range a.live {
		n += c
	}
	return n
}
