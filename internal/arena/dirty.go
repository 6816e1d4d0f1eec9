// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import "math/bits"

// DirtySet tracks which logical indices need a rebuild this tick.
//
// Membership is a bitmap with one bit per index packed into uint64 words
// (64 indices per word); the indices themselves are also kept in insertion
// order so that a kernel can be scheduled over them directly.
//
// DirtySet is not safe for concurrent mutation. It is filled during the
// sequential resolve phase; kernels only read the Indices snapshot.
type DirtySet struct {
	words   []uint64
	indices []int
}

// NewDirtySet creates a set sized for indices in [0, capacity).
// The set grows on demand if larger indices are added.
func NewDirtySet(capacity int) *DirtySet {
	if capacity < 0 {
		capacity = 0
	}
	return &DirtySet{
		words:   make([]uint64, (capacity+63)/64),
		indices: make([]int, 0, min(capacity, 64)),
	}
}

// Add inserts index and reports whether it was newly added.
// Negative indices are ignored.
func (d *DirtySet) Add(index int) bool {
	if index < 0 {
		return false
	}
	wordIdx := index / 64
	if wordIdx >= len(d.words) {
		d.words = append(d.words, make([]uint64, wordIdx+1-len(d.words))...)
	}
	bit := uint64(1) << (index & 63)
	if d.words[wordIdx]&bit != 0 {
		return false
	}
	d.words[wordIdx] |= bit
	d.indices = append(d.indices, index)
	return true
}

// Contains reports whether index is in the set.
func (d *DirtySet) Contains(index int) bool {
	if index < 0 || index/64 >= len(d.words) {
		return false
	}
	return d.words[index/64]&(1<<(index&63)) != 0
}

// Indices returns the members in insertion order. The returned slice is
// owned by the set and stays valid until the next Clear.
func (d *DirtySet) Indices() []int {
	return d.indices
}

// Len returns the number of members.
func (d *DirtySet) Len() int {
	return len(d.indices)
}

// count returns the number of set bits in the bitmap. It always equals Len.
func (d *DirtySet) count() int {
	n := 0
	for _, w := range d.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Clear removes all members, keeping the allocated storage.
func (d *DirtySet) Clear() {
	for _, index := range d.indices {
		d.words[index/64] = 0
	}
	d.indices = d.indices[:0]
}
