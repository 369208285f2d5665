// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package slot implements a table of reusable slots
// addressed by generation-checked indices.
package slot

// Table stores values of type T in reusable slots.
// Each slot carries a generation that is incremented
// when the slot is freed, so that indices obtained
// before a Remove can be told apart from new ones.
// Generations are never zero.
// The zero value is an empty table ready for use.
type Table[T any] struct {
	used vec
	gen  []uint32
	data []T
	n    int
}

// Len returns the number of occupied slots.
func (t *Table[_]) Len() int { return t.n }

// Cap returns the number of slots, occupied or not.
func (t *Table[_]) Cap() int { return len(t.data) }

// Reserve grows the table so that at least n slots exist.
func (t *Table[T]) Reserve(n int) {
	if n <= t.Cap() {
		return
	}
	nplus := (n - t.Cap() + nbit - 1) / nbit
	t.used.grow(nplus)
	for range nplus * nbit {
		t.gen = append(t.gen, 1)
	}
	t.data = append(t.data, make([]T, nplus*nbit)...)
}

// Insert stores v in a free slot, growing the table
// if none is available.
// It returns the slot index and its current generation.
func (t *Table[T]) Insert(v T) (index int, gen uint32) {
	index, ok := t.used.search()
	if !ok {
		t.Reserve(max(t.Cap()*2, nbit))
		index, _ = t.used.search()
	}
	t.used.set(index)
	t.data[index] = v
	t.n++
	return index, t.gen[index]
}

// Valid reports whether index/gen refer to an
// occupied slot.
func (t *Table[_]) Valid(index int, gen uint32) bool {
	return t.used.isSet(index) && t.gen[index] == gen
}

// Get returns a pointer to the value stored in the
// given slot, or nil if index/gen are not valid.
// The pointer is invalidated by the next Insert.
func (t *Table[T]) Get(index int, gen uint32) *T {
	if !t.Valid(index, gen) {
		return nil
	}
	return &t.data[index]
}

// Remove frees the given slot and returns the value
// it held.
// It returns false if index/gen are not valid.
func (t *Table[T]) Remove(index int, gen uint32) (v T, ok bool) {
	if !t.Valid(index, gen) {
		return
	}
	v = t.data[index]
	var zero T
	t.data[index] = zero
	t.used.unset(index)
	if t.gen[index]++; t.gen[index] == 0 {
		t.gen[index] = 1
	}
	t.n--
	return v, true
}

