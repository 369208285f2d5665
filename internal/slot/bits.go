// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package slot

import "math/bits"

const nbit = 64

// vec is a growable bit vector that tracks which
// slots of a Table are in use.
type vec struct {
	s   []uint64
	rem int
}

// len returns the number of bits in the vector.
func (v *vec) len() int { return len(v.s) * nbit }

// grow appends nplus words of unset bits.
// It returns the value of v.len prior to growing.
func (v *vec) grow(nplus int) (index int) {
	index = v.len()
	if nplus > 0 {
		v.rem += nplus * nbit
		v.s = append(v.s, make([]uint64, nplus)...)
	}
	return
}

func (v *vec) set(index int) {
	i := index / nbit
	b := uint64(1) << (index & (nbit - 1))
	if v.s[i]&b == 0 {
		v.s[i] |= b
		v.rem--
	}
}

func (v *vec) unset(index int) {
	i := index / nbit
	b := uint64(1) << (index & (nbit - 1))
	if v.s[i]&b != 0 {
		v.s[i] &^= b
		v.rem++
	}
}

func (v *vec) isSet(index int) bool {
	if index < 0 || index >= v.len() {
		return false
	}
	return v.s[index/nbit]&(uint64(1)<<(index&(nbit-1))) != 0
}

// search locates the lowest unset bit.
// It fails only when v.rem is zero.
func (v *vec) search() (index int, ok bool) {
	if v.rem == 0 {
		return
	}
	for i, x := range v.s {
		if x == ^uint64(0) {
			continue
		}
		return i*nbit + bits.TrailingZeros64(^x), true
	}
	return
}
