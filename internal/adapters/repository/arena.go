// Package repository provides the append-only player store backing the
// rating engine.
//
// The store is an arena: a growable slice plus opaque handles. Handles stay
// valid for the lifetime of the arena because elements are never removed or
// compacted. Mutation happens through a handle, never through a reference
// the caller holds across calls.
package repository

import (
	"fmt"

	"github.com/okian/senet/pkg/metrics"
)

// Handle is an opaque reference to an element stored in an Arena. Handles
// are only ever issued by Push and never invalidate.
type Handle struct {
	index int
}

// Arena is an append-only indexed store. The zero value is not usable; use
// NewArena.
type Arena[T any] struct {
	items []T
}

// Option applies a configuration option to an Arena.
type Option[T any] func(*Arena[T])

// WithCapacity pre-allocates room for n elements.
func WithCapacity[T any](n int) Option[T] {
	return func(a *Arena[T]) {
		if n > 0 {
			a.items = make([]T, 0, n)
		}
	}
}

// NewArena creates an empty arena.
func NewArena[T any](opts ...Option[T]) *Arena[T] {
	a := &Arena[T]{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Push appends value and returns its handle. Handles are dense: the n-th
// Push returns the handle with ordinal n.
func (a *Arena[T]) Push(value T) Handle {
	h := Handle{index: len(a.items)}
	a.items = append(a.items, value)
	metrics.UpdateManagedPlayers(len(a.items))
	return h
}

// Get returns a pointer to the element behind h, valid until the next Push.
// Returns ErrUnknownHandle if h was not issued by this arena.
func (a *Arena[T]) Get(h Handle) (*T, error) {
	if h.index < 0 || h.index >= len(a.items) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h.index)
	}
	return &a.items[h.index], nil
}

// Len returns the number of stored elements.
func (a *Arena[T]) Len() int {
	return len(a.items)
}

// Handles returns a handle for every stored element, in insertion order.
func (a *Arena[T]) Handles() []Handle {
	handles := make([]Handle, len(a.items))
	for i := range a.items {
		handles[i] = Handle{index: i}
	}
	return handles
}

// Each calls fn for every stored element in insertion order. The pointer is
// valid for the duration of the call.
func (a *Arena[T]) Each(fn func(Handle, *T)) {
	for i := range a.items {
		fn(Handle{index: i}, &a.items[i])
	}
}
