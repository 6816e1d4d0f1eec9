// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package arena

import (
	"image/color"

	"github.com/x448/float16"
)

// DirtyFlag marks which vertex attributes of an item must be recomputed by
// the next rebuild pass.
type DirtyFlag uint8

const (
	// DirtyNone means the vertex output is up to date.
	DirtyNone DirtyFlag = 0

	// DirtyTransform requests recomputation of positions and the SDF hint channel.
	DirtyTransform DirtyFlag = 1 << 0

	// DirtyQuad requests recomputation of texture coordinates and colors.
	DirtyQuad DirtyFlag = 1 << 1

	// DirtyAll combines every dirty bit.
	DirtyAll = DirtyTransform | DirtyQuad
)

// Has reports whether all bits of mask are set.
func (f DirtyFlag) Has(mask DirtyFlag) bool {
	return f&mask == mask
}

// String returns a readable representation of the flag set.
func (f DirtyFlag) String() string {
	switch f {
	case DirtyNone:
		return "None"
	case DirtyTransform:
		return "Transform"
	case DirtyQuad:
		return "Quad"
	case DirtyAll:
		return "Transform|Quad"
	default:
		return "Unknown"
	}
}

// TransformRecord is the per-item record of the transform region.
// Index always equals the logical slot the record lives in.
type TransformRecord struct {
	IsText bool
	Active bool
	Dirty  DirtyFlag

	// Index is the record's own logical slot, patched by swap-back removal.
	Index int32

	// QuadBase is the slice-relative index of the item's first quad record.
	QuadBase int32

	// ValidQuads is the number of quads the kernels process for this item.
	ValidQuads int32

	Spacing     float32
	GlobalScale float32
	Position    Vec3
	Scale       Vec3

	// Progress is the horizontal fill fraction in [0, 1].
	Progress float16.Float16
}

// QuadRecord holds the per-quad inputs of the rebuild kernel.
type QuadRecord struct {
	Size Vec2

	// UV is the source rectangle (x, y, width, height). Normalized for
	// sprites, atlas pixels for glyphs.
	UV Vec4

	// Params carries glyph shape metrics for text quads.
	Params Vec4

	Color color.RGBA
}

// Vertex is one output vertex. Four consecutive vertices form a quad in
// left-bottom, left-top, right-top, right-bottom order.
type Vertex struct {
	Position Vec3
	UV0      Vec2
	UV1      Vec2
	Color    color.RGBA
}
