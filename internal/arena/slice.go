// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import "fmt"

// Slice is a fixed-capacity view of the arena dedicated to one item size
// class. Logical index i selects transform record i, quad records
// [i*stride, (i+1)*stride) and vertices [i*stride*4, (i+1)*stride*4).
type Slice struct {
	arena *Arena

	offset     int // first transform record
	quadOffset int // first quad record
	capacity   int // items
	stride     int // quads per item
	used       int // live items, the high-water mark

	sealed bool
}

// Add appends one logical record at the high-water mark and returns its
// index. The record's Index and QuadBase are initialized; all other fields
// are left as they were.
//
// Panics if the slice is not sealed or is exhausted. Callers check
// IsExhausted first and report overflow themselves.
func (s *Slice) Add() int {
	if !s.sealed {
		panic("arena: Add on unsealed slice")
	}
	if s.IsExhausted() {
		panic(fmt.Sprintf("arena: slice exhausted (capacity %d)", s.capacity))
	}

	index := s.used
	s.used++

	t := s.Transform(index)
	t.Index = int32(index)
	t.QuadBase = int32(index * s.stride)
	return index
}

// RemoveSwapBack frees index by moving the last live record (transform,
// quad range and vertex range) into its storage, then patches the moved
// record's self-index. Returns the index the moved record came from, which
// equals index when the removed record was the last one.
//
// The cost is bounded by the quad stride, not by the slice size.
func (s *Slice) RemoveSwapBack(index int) (movedFrom int) {
	if index < 0 || index >= s.used {
		panic(fmt.Sprintf("arena: remove index %d out of range [0, %d)", index, s.used))
	}

	last := s.used - 1
	if index != last {
		a := s.arena
		a.transforms[s.offset+index] = a.transforms[s.offset+last]
		copy(s.Quads(index), s.Quads(last))
		copy(s.Vertices(index), s.Vertices(last))

		moved := s.Transform(index)
		moved.Index = int32(index)
		moved.QuadBase = int32(index * s.stride)
	}
	s.used--
	return last
}

// IsExhausted reports whether no further record can be added.
func (s *Slice) IsExhausted() bool {
	return s.used >= s.capacity
}

// Used returns the number of live records.
func (s *Slice) Used() int {
	return s.used
}

// Capacity returns the maximum number of live records.
func (s *Slice) Capacity() int {
	return s.capacity
}

// QuadStride returns the number of quads reserved per record.
func (s *Slice) QuadStride() int {
	return s.stride
}

// Offset returns the slice's first transform record in the arena.
func (s *Slice) Offset() int {
	return s.offset
}

// QuadOffset returns the slice's first quad record in the arena.
func (s *Slice) QuadOffset() int {
	return s.quadOffset
}

// Sealed reports whether the backing storage for this slice exists.
func (s *Slice) Sealed() bool {
	return s.sealed
}

// Transform returns the transform record at index.
func (s *Slice) Transform(index int) *TransformRecord {
	return &s.arena.transforms[s.offset+index]
}

// Quads returns the quad records owned by index, stride long.
func (s *Slice) Quads(index int) []QuadRecord {
	start := s.quadOffset + index*s.stride
	return s.arena.quads[start : start+s.stride : start+s.stride]
}

// Vertices returns the vertices owned by index, four per quad.
func (s *Slice) Vertices(index int) []Vertex {
	n := s.stride * 4
	start := s.quadOffset*4 + index*n
	return s.arena.vertices[start : start+n : start+n]
}
