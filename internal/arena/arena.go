// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package arena implements the packed structure-of-arrays storage behind the
// HUD batches.
//
// An Arena owns three parallel backing stores: transform records (one per
// item), quad records (a fixed stride of quads per item) and vertices (four
// per quad). The stores are divided into fixed-capacity slices, one per item
// size class. Slices address their records by logical index, so the same
// index selects an item's transform, its quad range and its vertex range.
//
// Space is reserved with RequestSpace and allocated by Seal. Records are
// appended at the slice's high-water mark and removed with an O(1) swap of
// the last live record into the freed slot.
//
// An Arena is not safe for concurrent mutation. Kernels may read and write
// the disjoint record ranges of distinct items concurrently, but Add,
// RemoveSwapBack and Seal must only run while no kernel is in flight.
package arena

import "fmt"

// Arena is the growable backing storage shared by all slices.
type Arena struct {
	transforms []TransformRecord
	quads      []QuadRecord
	vertices   []Vertex

	// slices lists every sealed slice in request order.
	slices []*Slice

	// pending holds slices requested since the last Seal.
	pending      []*Slice
	pendingItems int
	pendingQuads int

	growths int
}

// New creates an empty arena. Request space and Seal before use.
func New() *Arena {
	return &Arena{}
}

// RequestSpace reserves a slice of capacity items, each owning quadCapacity
// quads. The slice becomes usable after the next Seal.
//
// Panics if capacity or quadCapacity is not positive.
func (a *Arena) RequestSpace(capacity, quadCapacity int) *Slice {
	if capacity <= 0 || quadCapacity <= 0 {
		panic(fmt.Sprintf("arena: invalid space request %d x %d", capacity, quadCapacity))
	}

	s := &Slice{
		arena:      a,
		offset:     len(a.transforms) + a.pendingItems,
		quadOffset: len(a.quads) + a.pendingQuads,
		capacity:   capacity,
		stride:     quadCapacity,
	}
	a.pending = append(a.pending, s)
	a.pendingItems += capacity
	a.pendingQuads += capacity * quadCapacity
	return s
}

// Seal allocates (or grows) the backing stores for every pending request and
// finalizes the pending slices. Each store is reallocated at most once per
// call. Existing records keep their offsets and contents.
//
// Seal is a no-op when nothing is pending.
func (a *Arena) Seal() {
	if len(a.pending) == 0 {
		return
	}

	a.transforms = growTo(a.transforms, len(a.transforms)+a.pendingItems)
	a.quads = growTo(a.quads, len(a.quads)+a.pendingQuads)
	a.vertices = growTo(a.vertices, len(a.vertices)+a.pendingQuads*4)

	for _, s := range a.pending {
		s.sealed = true
	}
	a.slices = append(a.slices, a.pending...)
	a.pending = a.pending[:0]
	a.pendingItems = 0
	a.pendingQuads = 0
	a.growths++
}

// growTo returns a slice of length n holding the contents of s. A single
// allocation is made when the capacity of s is insufficient.
func growTo[T any](s []T, n int) []T {
	if n <= cap(s) {
		return s[:n]
	}
	grown := make([]T, n)
	copy(grown, s)
	return grown
}

// Sealed reports whether no space request is waiting for Seal.
func (a *Arena) Sealed() bool {
	return len(a.pending) == 0
}

// TransformLen returns the number of transform records allocated.
func (a *Arena) TransformLen() int {
	return len(a.transforms)
}

// QuadLen returns the number of quad records allocated.
func (a *Arena) QuadLen() int {
	return len(a.quads)
}

// VertexLen returns the number of vertices allocated.
func (a *Arena) VertexLen() int {
	return len(a.vertices)
}
