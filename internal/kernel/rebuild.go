// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package kernel contains the two data-parallel passes of the HUD pipeline:
// Rebuild recomputes the vertices of one dirty item, Assemble gathers the
// vertices of one group into a contiguous mesh region.
//
// Both kernels are pure functions over disjoint arena ranges. They never
// fail; an out-of-range index is a caller bug and panics on the bounds
// check.
package kernel

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/hud/internal/arena"
)

// RebuildParams holds the per-pass constants of the rebuild kernel.
type RebuildParams struct {
	// FontPadding is the SDF padding around each glyph in atlas pixels.
	FontPadding float32

	// AtlasWidth and AtlasHeight are the font atlas dimensions in pixels.
	AtlasWidth, AtlasHeight int

	// UnitScale converts item units into mesh units. It is applied on top of
	// the item's local and global scale.
	UnitScale float32
}

// Rebuild recomputes the vertex range of the record at index according to
// its dirty flags and then clears them.
//
// DirtyTransform recomputes positions and the UV1 hint channel: quads are
// laid out left to right from the item position and the row is recentered
// on it. DirtyQuad recomputes UV0 and colors. Quads past ValidQuads are not
// touched.
func Rebuild(s *arena.Slice, index int, p *RebuildParams) {
	rec := s.Transform(index)
	if rec.Dirty == arena.DirtyNone {
		return
	}

	quads := s.Quads(index)
	verts := s.Vertices(index)
	n := min(int(rec.ValidQuads), len(quads))

	progress := float32(1)
	if !rec.IsText {
		progress = math32.Max(0, math32.Min(1, rec.Progress.Float32()))
	}

	if rec.Dirty.Has(arena.DirtyTransform) {
		layout(rec, quads[:n], verts[:n*4], p, progress)
	}
	if rec.Dirty.Has(arena.DirtyQuad) {
		texture(rec.IsText, quads[:n], verts[:n*4], p, progress)
	}
	rec.Dirty = arena.DirtyNone
}

// layout places the quads and recenters the row around the item position.
func layout(rec *arena.TransformRecord, quads []arena.QuadRecord, verts []arena.Vertex, p *RebuildParams, progress float32) {
	k := rec.GlobalScale * p.UnitScale
	sx, sy := rec.Scale.X*k, rec.Scale.Y*k
	pad := p.FontPadding

	hint := arena.V2(0, sy)
	if rec.IsText {
		hint.X = 1
	}

	start := rec.Position.X
	cursor := start
	y := rec.Position.Y

	for i := range quads {
		q := &quads[i]
		v := verts[i*4 : i*4+4 : i*4+4]

		var left, right, fill, top, bottom float32
		if rec.IsText {
			// Params: glyph width, glyph height, bearing x, bearing y.
			left = cursor + (q.Params.Z-pad)*sx
			top = y + (q.Params.W+pad)*sy
			bottom = top - (q.Params.Y+2*pad)*sy
			right = left + (q.Params.X+2*pad)*sx
			fill = right
		} else {
			halfW, halfH := q.Size.X/2, q.Size.Y/2
			left = cursor
			right = cursor + 2*halfW*sx
			fill = left + (right-left)*progress
			top = y + halfH*sy
			bottom = y - halfH*sy
		}
		cursor = right + rec.Spacing

		v[0].Position = arena.V3(left, bottom, 0)
		v[1].Position = arena.V3(left, top, 0)
		v[2].Position = arena.V3(fill, top, 0)
		v[3].Position = arena.V3(fill, bottom, 0)
		for j := range v {
			v[j].UV1 = hint
		}
	}

	if len(quads) == 0 {
		return
	}
	half := (cursor - start - rec.Spacing) / 2
	for i := range verts {
		verts[i].Position.X -= half
	}
}

// texture writes UV0 and vertex colors for every quad.
func texture(isText bool, quads []arena.QuadRecord, verts []arena.Vertex, p *RebuildParams, progress float32) {
	pad := p.FontPadding
	aw, ah := float32(max(p.AtlasWidth, 1)), float32(max(p.AtlasHeight, 1))

	for i := range quads {
		q := &quads[i]
		v := verts[i*4 : i*4+4 : i*4+4]
		r := q.UV

		var xmin, xmax, ymin, ymax float32
		if isText {
			xmin = (r.X - pad) / aw
			xmax = (r.X + pad + r.Z) / aw
			ymin = (r.Y - pad) / ah
			ymax = (r.Y + pad + r.W) / ah
		} else {
			xmin, xmax = r.X, r.X+r.Z
			ymin, ymax = r.Y, r.Y+r.W
		}
		xfill := xmin + (xmax-xmin)*progress

		v[0].UV0 = arena.V2(xmin, ymin)
		v[1].UV0 = arena.V2(xmin, ymax)
		v[2].UV0 = arena.V2(xfill, ymax)
		v[3].UV0 = arena.V2(xfill, ymin)
		for j := range v {
			v[j].Color = q.Color
		}
	}
}
