// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"iter"
	"slices"
)

// ResourceTracker counts references to shared resources.
// Resources are iterated in the order they were first
// tracked.
// The zero value is an empty tracker ready for use.
type ResourceTracker[T comparable] struct {
	counts map[T]int
	order  []T
}

// AddRef adds a reference to r.
// It returns true if r was not tracked before the call.
// The zero value of T is never tracked.
func (t *ResourceTracker[T]) AddRef(r T) bool {
	var zero T
	if r == zero {
		return false
	}
	if t.counts == nil {
		t.counts = make(map[T]int)
	}
	n := t.counts[r]
	t.counts[r] = n + 1
	if n == 0 {
		t.order = append(t.order, r)
		return true
	}
	return false
}

// Release removes a reference to r.
// It returns true if this was the last reference, in
// which case r is no longer tracked.
// Releasing an untracked resource is a programming
// error and causes a panic.
func (t *ResourceTracker[T]) Release(r T) bool {
	var zero T
	if r == zero {
		return false
	}
	n, ok := t.counts[r]
	if !ok {
		panic(prefix + "release of untracked resource")
	}
	if n > 1 {
		t.counts[r] = n - 1
		return false
	}
	delete(t.counts, r)
	i := slices.Index(t.order, r)
	t.order = slices.Delete(t.order, i, i+1)
	return true
}

// Len returns the number of tracked resources.
func (t *ResourceTracker[_]) Len() int { return len(t.order) }

// Contains reports whether r is tracked.
func (t *ResourceTracker[T]) Contains(r T) bool {
	_, ok := t.counts[r]
	return ok
}

// Count returns the number of references to r.
func (t *ResourceTracker[T]) Count(r T) int { return t.counts[r] }

// All returns an iterator over the tracked resources.
// t must not be modified during iteration.
func (t *ResourceTracker[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, r := range t.order {
			if !yield(r) {
				return
			}
		}
	}
}
