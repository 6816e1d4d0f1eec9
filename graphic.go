// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import "image/color"

// MaxTextQuads is the glyph capacity of a text item.
const MaxTextQuads = 16

// Kind selects the variant of a Graphic.
type Kind uint8

const (
	// KindSprite is a single textured quad, optionally clipped by Progress.
	KindSprite Kind = iota

	// KindText is a row of up to MaxTextQuads glyph quads.
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSprite:
		return "sprite"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// SizeClass selects the batch, and so the arena slice, an item lives in.
type SizeClass uint8

const (
	// SizeSmall items own one quad.
	SizeSmall SizeClass = iota

	// SizeLarge items own MaxTextQuads quads.
	SizeLarge

	sizeClassCount
)

// String returns the size class name.
func (c SizeClass) String() string {
	switch c {
	case SizeSmall:
		return "small"
	case SizeLarge:
		return "large"
	default:
		return "unknown"
	}
}

// QuadCapacity returns the number of quads reserved per item of the class.
func (c SizeClass) QuadCapacity() int {
	if c == SizeLarge {
		return MaxTextQuads
	}
	return 1
}

// Graphic describes one drawable item: a sprite or a text block.
//
// Callers mutate the exported fields and then notify the Manager with
// RebuildGraphic so the change reaches the arena on the next Tick. The
// Manager only reads the fields during Tick, on the control goroutine.
type Graphic struct {
	LocalPosition Vec3
	LocalScale    Vec3
	GlobalScale   float32

	// Spacing is the horizontal gap inserted after every quad.
	Spacing float32

	// UVRects holds per-quad source rectangles (x, y, width, height):
	// normalized for sprites, font atlas pixels for glyphs.
	UVRects []Vec4

	// GlyphParams holds per-quad glyph metrics (width, height, bearing x,
	// bearing y) in pixels. Unused by sprites.
	GlyphParams []Vec4

	// Sizes holds per-quad sizes. Only sprites use them.
	Sizes []Vec2

	Color color.RGBA

	// ValidQuads is the number of leading quads that are drawn.
	ValidQuads int

	// Progress is the horizontal fill fraction of a sprite in [0, 1].
	Progress float32

	kind   Kind
	slot   int
	batch  int
	group  *Group
	owner  *Manager
	active bool
	hidden bool
}

func newGraphic(kind Kind) *Graphic {
	n := kind.class().QuadCapacity()
	g := &Graphic{
		LocalScale:  V3(1, 1, 1),
		GlobalScale: 1,
		UVRects:     make([]Vec4, n),
		GlyphParams: make([]Vec4, n),
		Sizes:       make([]Vec2, n),
		Color:       color.RGBA{R: 255, G: 255, B: 255, A: 255},
		ValidQuads:  n,
		Progress:    1,
		kind:        kind,
		slot:        -1,
		batch:       -1,
	}
	for i := range g.Sizes {
		g.Sizes[i] = V2(1, 1)
	}
	return g
}

// NewSprite returns an unattached single-quad sprite item.
func NewSprite() *Graphic {
	return newGraphic(KindSprite)
}

// NewText returns an unattached text item with MaxTextQuads glyph slots.
func NewText() *Graphic {
	return newGraphic(KindText)
}

func (k Kind) class() SizeClass {
	if k == KindText {
		return SizeLarge
	}
	return SizeSmall
}

// Kind returns the item variant.
func (g *Graphic) Kind() Kind { return g.kind }

// Class returns the size class of the item.
func (g *Graphic) Class() SizeClass { return g.kind.class() }

// Capacity returns the number of quads the item can hold.
func (g *Graphic) Capacity() int { return g.kind.class().QuadCapacity() }

// Slot returns the arena index of the item, or -1 when unattached.
func (g *Graphic) Slot() int { return g.slot }

// Attached reports whether the item holds an arena record.
func (g *Graphic) Attached() bool { return g.slot >= 0 }

// Active reports whether the item is attached and visible as of the last
// Tick.
func (g *Graphic) Active() bool { return g.slot >= 0 && g.active }

// Group returns the group the item belongs to, or nil.
func (g *Graphic) Group() *Group { return g.group }

// validQuads returns ValidQuads clamped to [0, Capacity()].
func (g *Graphic) validQuads() int {
	return max(0, min(g.ValidQuads, g.Capacity()))
}
