// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import (
	"image/color"
	"math/rand"
	"testing"
)

// newSealedSlice returns a sealed slice with the given capacity and stride.
func newSealedSlice(t *testing.T, capacity, stride int) (*Arena, *Slice) {
	t.Helper()
	a := New()
	s := a.RequestSpace(capacity, stride)
	a.Seal()
	return a, s
}

// stamp writes recognizable data into every record owned by index.
func stamp(s *Slice, index int, tag float32) {
	tr := s.Transform(index)
	tr.Spacing = tag
	tr.Position = V3(tag, tag+1, 0)
	for q := range s.Quads(index) {
		s.Quads(index)[q] = QuadRecord{Size: V2(tag, float32(q)), Color: color.RGBA{R: uint8(tag), A: 255}}
	}
	for v := range s.Vertices(index) {
		s.Vertices(index)[v].Position = V3(tag, float32(v), 0)
	}
}

// checkSelfIndex verifies the self-index invariant for every live record.
func checkSelfIndex(t *testing.T, s *Slice) {
	t.Helper()
	for i := 0; i < s.Used(); i++ {
		tr := s.Transform(i)
		if int(tr.Index) != i {
			t.Fatalf("record %d stores self-index %d", i, tr.Index)
		}
		if int(tr.QuadBase) != i*s.QuadStride() {
			t.Fatalf("record %d stores quad base %d, want %d", i, tr.QuadBase, i*s.QuadStride())
		}
	}
}

// =============================================================================
// Space requests and sealing
// =============================================================================

func TestArena_RequestSpaceOffsets(t *testing.T) {
	a := New()
	small := a.RequestSpace(10, 1)
	large := a.RequestSpace(4, 16)

	if a.Sealed() {
		t.Fatal("arena reports sealed with pending requests")
	}
	a.Seal()

	if small.Offset() != 0 || small.QuadOffset() != 0 {
		t.Errorf("small offsets = (%d, %d), want (0, 0)", small.Offset(), small.QuadOffset())
	}
	if large.Offset() != 10 || large.QuadOffset() != 10 {
		t.Errorf("large offsets = (%d, %d), want (10, 10)", large.Offset(), large.QuadOffset())
	}
	if got, want := a.TransformLen(), 14; got != want {
		t.Errorf("TransformLen() = %d, want %d", got, want)
	}
	if got, want := a.QuadLen(), 10+4*16; got != want {
		t.Errorf("QuadLen() = %d, want %d", got, want)
	}
	if got, want := a.VertexLen(), (10+4*16)*4; got != want {
		t.Errorf("VertexLen() = %d, want %d", got, want)
	}
	if a.growths != 1 {
		t.Errorf("growths = %d, want 1", a.growths)
	}
	if len(a.slices) != 2 {
		t.Errorf("len(slices) = %d, want 2", len(a.slices))
	}
}

func TestArena_SealWithoutPendingIsNoop(t *testing.T) {
	a, _ := newSealedSlice(t, 4, 1)
	a.Seal()
	if a.growths != 1 {
		t.Errorf("growths = %d, want 1", a.growths)
	}
}

func TestArena_GrowthPreservesRecords(t *testing.T) {
	a, s := newSealedSlice(t, 4, 2)
	for i := 0; i < 3; i++ {
		s.Add()
		stamp(s, i, float32(i+1))
	}

	extra := a.RequestSpace(8, 16)
	a.Seal()

	if extra.Offset() != 4 || extra.QuadOffset() != 8 {
		t.Errorf("grown slice offsets = (%d, %d), want (4, 8)", extra.Offset(), extra.QuadOffset())
	}
	for i := 0; i < 3; i++ {
		tag := float32(i + 1)
		if got := s.Transform(i).Spacing; got != tag {
			t.Errorf("record %d spacing = %v after growth, want %v", i, got, tag)
		}
		if got := s.Quads(i)[1].Size.X; got != tag {
			t.Errorf("record %d quad size = %v after growth, want %v", i, got, tag)
		}
		if got := s.Vertices(i)[7].Position.X; got != tag {
			t.Errorf("record %d vertex = %v after growth, want %v", i, got, tag)
		}
	}
	checkSelfIndex(t, s)
}

func TestArena_InvalidRequestPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("RequestSpace(0, 1) did not panic")
		}
	}()
	New().RequestSpace(0, 1)
}

// =============================================================================
// Slice add / remove
// =============================================================================

func TestSlice_AddUntilExhausted(t *testing.T) {
	_, s := newSealedSlice(t, 3, 1)
	for i := 0; i < 3; i++ {
		if s.IsExhausted() {
			t.Fatalf("slice exhausted after %d adds", i)
		}
		if got := s.Add(); got != i {
			t.Errorf("Add() = %d, want %d", got, i)
		}
	}
	if !s.IsExhausted() {
		t.Error("slice not exhausted at capacity")
	}

	defer func() {
		if recover() == nil {
			t.Error("Add on exhausted slice did not panic")
		}
	}()
	s.Add()
}

func TestSlice_AddUnsealedPanics(t *testing.T) {
	s := New().RequestSpace(2, 1)
	defer func() {
		if recover() == nil {
			t.Error("Add on unsealed slice did not panic")
		}
	}()
	s.Add()
}

func TestSlice_RemoveSwapBackMovesLast(t *testing.T) {
	_, s := newSealedSlice(t, 8, 4)
	for i := 0; i < 5; i++ {
		s.Add()
		stamp(s, i, float32(10*(i+1)))
	}

	movedFrom := s.RemoveSwapBack(1)
	if movedFrom != 4 {
		t.Errorf("RemoveSwapBack(1) moved from %d, want 4", movedFrom)
	}
	if s.Used() != 4 {
		t.Errorf("Used() = %d, want 4", s.Used())
	}
	if got := s.Transform(1).Spacing; got != 50 {
		t.Errorf("slot 1 spacing = %v, want 50 (moved record)", got)
	}
	if got := s.Quads(1)[3].Size.X; got != 50 {
		t.Errorf("slot 1 quad = %v, want 50", got)
	}
	if got := s.Vertices(1)[15].Position.X; got != 50 {
		t.Errorf("slot 1 vertex = %v, want 50", got)
	}
	checkSelfIndex(t, s)
}

func TestSlice_RemoveLast(t *testing.T) {
	_, s := newSealedSlice(t, 4, 1)
	s.Add()
	s.Add()
	if movedFrom := s.RemoveSwapBack(1); movedFrom != 1 {
		t.Errorf("RemoveSwapBack(last) moved from %d, want 1", movedFrom)
	}
	if s.Used() != 1 {
		t.Errorf("Used() = %d, want 1", s.Used())
	}
}

func TestSlice_RemoveOutOfRangePanics(t *testing.T) {
	_, s := newSealedSlice(t, 4, 1)
	s.Add()
	defer func() {
		if recover() == nil {
			t.Error("RemoveSwapBack(1) with one live record did not panic")
		}
	}()
	s.RemoveSwapBack(1)
}

// TestSlice_RemovePreservesOthers checks that swap-back removal leaves every
// other live record bit-for-bit intact apart from the moved self-index.
func TestSlice_RemovePreservesOthers(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	_, s := newSealedSlice(t, 64, 3)

	// tags tracks which record lives in which slot.
	var tags []float32
	next := float32(1)
	for step := 0; step < 500; step++ {
		if s.Used() == 0 || (!s.IsExhausted() && rng.Intn(3) != 0) {
			i := s.Add()
			stamp(s, i, next)
			tags = append(tags, next)
			next++
			continue
		}
		victim := rng.Intn(s.Used())
		last := len(tags) - 1
		s.RemoveSwapBack(victim)
		tags[victim] = tags[last]
		tags = tags[:last]

		if s.Used() != len(tags) {
			t.Fatalf("step %d: Used() = %d, want %d", step, s.Used(), len(tags))
		}
		for i, tag := range tags {
			if got := s.Transform(i).Spacing; got != tag {
				t.Fatalf("step %d: slot %d spacing = %v, want %v", step, i, got, tag)
			}
			for q, quad := range s.Quads(i) {
				if quad.Size.X != tag || quad.Size.Y != float32(q) {
					t.Fatalf("step %d: slot %d quad %d = %+v, want tag %v", step, i, q, quad.Size, tag)
				}
			}
			for v, vert := range s.Vertices(i) {
				if vert.Position.X != tag || vert.Position.Y != float32(v) {
					t.Fatalf("step %d: slot %d vertex %d = %+v, want tag %v", step, i, v, vert.Position, tag)
				}
			}
		}
		checkSelfIndex(t, s)
	}
}

func TestSlice_RegionsAreDisjoint(t *testing.T) {
	a := New()
	small := a.RequestSpace(2, 1)
	large := a.RequestSpace(2, 16)
	a.Seal()

	small.Add()
	large.Add()
	stamp(small, 0, 1)
	stamp(large, 0, 2)

	if got := small.Vertices(0)[0].Position.X; got != 1 {
		t.Errorf("small vertex overwritten: %v", got)
	}
	if got := len(large.Vertices(1)); got != 16*4 {
		t.Errorf("len(Vertices) = %d, want %d", got, 16*4)
	}
	if got := len(large.Quads(1)); got != 16 {
		t.Errorf("len(Quads) = %d, want 16", got)
	}
}
