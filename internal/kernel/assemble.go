// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package kernel

import (
	"image/color"

	"github.com/gogpu/hud/internal/arena"
)

// quadIndices is the triangle pattern emitted for every quad.
var quadIndices = [6]uint32{0, 1, 2, 2, 3, 0}

// ItemRef locates one live, active item gathered for assembly.
type ItemRef struct {
	Slice        *arena.Slice
	Index        int
	QuadCapacity int
}

// GroupJob describes the assembly of one group.
type GroupJob struct {
	GroupID uint64

	// First and Count select the group's items in the shared ItemRef list.
	First, Count int

	// Offset is the group's first quad in the shared Output.
	Offset int

	// Filled is the number of quads written, set by Assemble.
	Filled int
}

// Output is the shared scratch region all group jobs of a pass write into.
// Quad q owns vertices [4q, 4q+4) and indices [6q, 6q+6).
type Output struct {
	Positions []arena.Vec3
	UV0       []arena.Vec2
	UV1       []arena.Vec2
	Colors    []color.RGBA
	Indices   []uint32
}

// Reserve makes room for quads quads, reusing the existing storage when it
// is large enough. Contents are not preserved.
func (o *Output) Reserve(quads int) {
	nv, ni := quads*4, quads*6
	if cap(o.Positions) < nv {
		o.Positions = make([]arena.Vec3, nv)
		o.UV0 = make([]arena.Vec2, nv)
		o.UV1 = make([]arena.Vec2, nv)
		o.Colors = make([]color.RGBA, nv)
		o.Indices = make([]uint32, ni)
		return
	}
	o.Positions = o.Positions[:nv]
	o.UV0 = o.UV0[:nv]
	o.UV1 = o.UV1[:nv]
	o.Colors = o.Colors[:nv]
	o.Indices = o.Indices[:ni]
}

// Quads returns the number of quads the output can hold.
func (o *Output) Quads() int {
	return len(o.Positions) / 4
}

// Assemble copies the vertices of the job's items into the job's region of
// out and emits indices relative to the start of that region. At most
// maxQuads quads are written, whatever the items report.
func Assemble(refs []ItemRef, job *GroupJob, out *Output, maxQuads int) {
	filled := 0
	vbase := job.Offset * 4
	ibase := job.Offset * 6

	for _, ref := range refs[job.First : job.First+job.Count] {
		if filled >= maxQuads {
			break
		}
		rec := ref.Slice.Transform(ref.Index)
		n := min(int(rec.ValidQuads), ref.QuadCapacity, maxQuads-filled)
		if n <= 0 {
			continue
		}

		src := ref.Slice.Vertices(ref.Index)[:n*4]
		dst := vbase + filled*4
		for i := range src {
			out.Positions[dst+i] = src[i].Position
			out.UV0[dst+i] = src[i].UV0
			out.UV1[dst+i] = src[i].UV1
			out.Colors[dst+i] = src[i].Color
		}

		for q := range n {
			first := uint32((filled + q) * 4)
			idx := out.Indices[ibase+(filled+q)*6:]
			for k, off := range quadIndices {
				idx[k] = first + off
			}
		}
		filled += n
	}
	job.Filled = filled
}
