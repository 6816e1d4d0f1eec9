// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package preview rasterizes HUD group meshes on the CPU. It is a
// hud.MeshSink for tests, tooling and headless debugging; it draws every
// quad as an axis-aligned rectangle, the only shape the rebuild kernel
// produces.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"maps"
	"slices"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/gogpu/hud"
)

// ErrInvalidSize is returned for a non-positive canvas size or scale.
var ErrInvalidSize = errors.New("preview: invalid size")

// Options configures a Renderer.
type Options struct {
	// Width and Height are the canvas size in pixels.
	Width, Height int

	// Scale converts mesh units into pixels. Mesh origin maps to the
	// canvas center, y up.
	Scale float32

	// Background fills the canvas before each Render.
	Background color.Color

	// Sprites is the sprite atlas texture. Without it sprites are drawn as
	// flat rectangles in their vertex color.
	Sprites image.Image

	// Font is the glyph coverage atlas. Without it glyphs are drawn as
	// flat rectangles.
	Font image.Image
}

// Renderer keeps a copy of every uploaded group mesh and draws them on
// demand, in group id order.
type Renderer struct {
	opts   Options
	img    *image.RGBA
	ras    *vector.Rasterizer
	meshes map[uint64]*hud.Mesh

	// mask is a view of maskBuf, which only grows.
	mask    *image.Alpha
	maskBuf *image.Alpha
}

// New creates a Renderer.
func New(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Scale <= 0 {
		return nil, fmt.Errorf("%w: %dx%d scale %v", ErrInvalidSize, opts.Width, opts.Height, opts.Scale)
	}
	if opts.Background == nil {
		opts.Background = color.Transparent
	}
	return &Renderer{
		opts:   opts,
		img:    image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		ras:    vector.NewRasterizer(opts.Width, opts.Height),
		meshes: make(map[uint64]*hud.Mesh),
	}, nil
}

// UploadMesh implements hud.MeshSink. It copies the used part of m.
func (r *Renderer) UploadMesh(g *hud.Group, m *hud.Mesh) error {
	nv, ni := m.Vertices(), m.IndexCount()
	r.meshes[g.ID()] = &hud.Mesh{
		Positions: slices.Clone(m.Positions[:nv]),
		UV0:       slices.Clone(m.UV0[:nv]),
		UV1:       slices.Clone(m.UV1[:nv]),
		Colors:    slices.Clone(m.Colors[:nv]),
		Indices:   slices.Clone(m.Indices[:ni]),
		QuadCount: m.QuadCount,
	}
	return nil
}

// ReleaseMesh implements hud.MeshReleaser.
func (r *Renderer) ReleaseMesh(g *hud.Group) {
	delete(r.meshes, g.ID())
}

// Len returns the number of groups held.
func (r *Renderer) Len() int { return len(r.meshes) }

// Quads returns the total number of quads held.
func (r *Renderer) Quads() int {
	n := 0
	for _, m := range r.meshes {
		n += m.QuadCount
	}
	return n
}

// Render draws every held mesh and returns the canvas. The image is reused
// by the next Render.
func (r *Renderer) Render() *image.RGBA {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.opts.Background), image.Point{}, draw.Src)
	for _, id := range slices.Sorted(maps.Keys(r.meshes)) {
		m := r.meshes[id]
		for q := range m.QuadCount {
			r.drawQuad(m, q*4)
		}
	}
	return r.img
}

// WritePNG renders and encodes the canvas as PNG.
func (r *Renderer) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.Render()); err != nil {
		return fmt.Errorf("preview: encode png: %w", err)
	}
	return nil
}

// toPixel maps a mesh position to canvas coordinates.
func (r *Renderer) toPixel(p hud.Vec3) (float32, float32) {
	cx, cy := float32(r.opts.Width)/2, float32(r.opts.Height)/2
	return cx + p.X*r.opts.Scale, cy - p.Y*r.opts.Scale
}

// drawQuad draws the quad whose first vertex is v. Vertices are
// bottom-left, top-left, top-right, bottom-right.
func (r *Renderer) drawQuad(m *hud.Mesh, v int) {
	col := m.Colors[v]
	if col.A == 0 {
		return
	}

	x0, y0 := r.toPixel(m.Positions[v+1])
	x1, y1 := r.toPixel(m.Positions[v+3])
	dst := image.Rect(int(x0+0.5), int(y0+0.5), int(x1+0.5), int(y1+0.5)).Canon()
	if dst.Empty() || !dst.Overlaps(r.img.Bounds()) {
		return
	}

	atlas := r.opts.Sprites
	if m.UV1[v].X > 0.5 {
		atlas = r.opts.Font
	}
	if atlas == nil {
		r.fill(m, v, col)
		return
	}

	src := texelRect(atlas.Bounds(), m.UV0[v+1], m.UV0[v+3])
	if src.Empty() {
		return
	}
	if atlas == r.opts.Font {
		// Glyph coverage masks the vertex color.
		r.scaleMask(dst.Size(), atlas, src)
		draw.DrawMask(r.img, dst, image.NewUniform(col), image.Point{}, r.mask, image.Point{}, draw.Over)
		return
	}
	// Sprite texels are drawn untinted.
	xdraw.BiLinear.Scale(r.img, dst, atlas, src, xdraw.Over, nil)
}

// fill rasterizes the quad outline in a flat color.
func (r *Renderer) fill(m *hud.Mesh, v int, col color.RGBA) {
	r.ras.Reset(r.opts.Width, r.opts.Height)
	x, y := r.toPixel(m.Positions[v])
	r.ras.MoveTo(x, y)
	for i := 1; i < 4; i++ {
		x, y = r.toPixel(m.Positions[v+i])
		r.ras.LineTo(x, y)
	}
	r.ras.ClosePath()
	r.ras.Draw(r.img, r.img.Bounds(), image.NewUniform(col), image.Point{})
}

// scaleMask resamples src of atlas into the reusable mask at size.
func (r *Renderer) scaleMask(size image.Point, atlas image.Image, src image.Rectangle) {
	bounds := image.Rectangle{Max: size}
	if r.maskBuf == nil || !bounds.In(r.maskBuf.Bounds()) {
		r.maskBuf = image.NewAlpha(bounds.Union(r.bufBounds()))
	}
	r.mask = r.maskBuf.SubImage(bounds).(*image.Alpha)
	xdraw.BiLinear.Scale(r.mask, bounds, atlas, src, xdraw.Src, nil)
}

func (r *Renderer) bufBounds() image.Rectangle {
	if r.maskBuf == nil {
		return image.Rectangle{}
	}
	return r.maskBuf.Bounds()
}

// texelRect converts the UVs of the top-left and bottom-right vertices into
// an image rectangle. v grows upward while image rows grow downward.
func texelRect(b image.Rectangle, topLeft, bottomRight hud.Vec2) image.Rectangle {
	w, h := float32(b.Dx()), float32(b.Dy())
	return image.Rect(
		b.Min.X+int(topLeft.X*w+0.5),
		b.Max.Y-int(topLeft.Y*h+0.5),
		b.Min.X+int(bottomRight.X*w+0.5),
		b.Max.Y-int(bottomRight.Y*h+0.5),
	).Canon()
}
