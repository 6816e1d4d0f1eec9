// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"image/color"

	"github.com/gogpu/hud/internal/kernel"
)

// Mesh is the drawable output of one group: index-aligned vertex streams
// and a triangle list.
//
// The backing arrays keep their size across uploads: every vertex array
// has Capacity()*4 entries and Indices has Capacity()*6. Sinks must draw
// only Positions[:Vertices()] (and the same range of UV0, UV1 and Colors)
// with Indices[:IndexCount()]; those ranges are length-matched to
// QuadCount. Indices past IndexCount() are zero, so drawing the full
// arrays by mistake yields degenerate triangles rather than stale quads.
type Mesh struct {
	Positions []Vec3
	UV0       []Vec2
	UV1       []Vec2
	Colors    []color.RGBA
	Indices   []uint32

	QuadCount int
}

// Capacity returns the number of quads the mesh can hold.
func (m *Mesh) Capacity() int {
	return len(m.Positions) / 4
}

// Vertices returns the number of used vertices.
func (m *Mesh) Vertices() int {
	return m.QuadCount * 4
}

// IndexCount returns the number of used indices.
func (m *Mesh) IndexCount() int {
	return m.QuadCount * 6
}

// grow ensures room for quads quads. Capacity never shrinks.
func (m *Mesh) grow(quads int) {
	if quads <= m.Capacity() {
		return
	}
	nv := quads * 4
	m.Positions = append(make([]Vec3, 0, nv), m.Positions...)[:nv]
	m.UV0 = append(make([]Vec2, 0, nv), m.UV0...)[:nv]
	m.UV1 = append(make([]Vec2, 0, nv), m.UV1...)[:nv]
	m.Colors = append(make([]color.RGBA, 0, nv), m.Colors...)[:nv]
	m.Indices = append(make([]uint32, 0, quads*6), m.Indices...)[:quads*6]
}

// fill copies quads quads starting at quad offset from the scratch output
// and zeroes the remaining indices.
func (m *Mesh) fill(out *kernel.Output, offset, quads int) {
	v0, v1 := offset*4, (offset+quads)*4
	copy(m.Positions, out.Positions[v0:v1])
	copy(m.UV0, out.UV0[v0:v1])
	copy(m.UV1, out.UV1[v0:v1])
	copy(m.Colors, out.Colors[v0:v1])

	n := copy(m.Indices, out.Indices[offset*6:(offset+quads)*6])
	clear(m.Indices[n:])
	m.QuadCount = quads
}

// meshPool recycles the meshes of deactivated groups.
type meshPool struct {
	free  []*Mesh
	limit int
}

func (p *meshPool) get() *Mesh {
	if n := len(p.free); n > 0 {
		m := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		return m
	}
	return &Mesh{}
}

func (p *meshPool) put(m *Mesh) {
	m.QuadCount = 0
	clear(m.Indices)
	if len(p.free) < p.limit {
		p.free = append(p.free, m)
	}
}
