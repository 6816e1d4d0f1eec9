// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/hud"
)

// GlyphShape holds the metrics of one glyph in pixels at the atlas font
// size. BearingY is the distance from the baseline up to the glyph top.
type GlyphShape struct {
	Width, Height      float32
	BearingX, BearingY float32
	Advance            float32
}

// MetricsSource resolves runes to glyph metrics.
type MetricsSource interface {
	Shape(r rune) (GlyphShape, bool)
}

// GlyphDrawer is implemented by metrics sources that can also rasterize
// glyph coverage. The glyph is drawn with its top-left corner at (x, y).
type GlyphDrawer interface {
	DrawGlyph(dst draw.Image, x, y int, r rune) bool
}

// SFNTMetrics reads glyph metrics from a TrueType or OpenType font with
// golang.org/x/image/font/sfnt.
type SFNTMetrics struct {
	font *opentype.Font
	ppem fixed.Int26_6
	buf  sfnt.Buffer
	face font.Face
}

// NewSFNTMetrics parses data and measures glyphs at size pixels per em.
func NewSFNTMetrics(data []byte, size float64) (*SFNTMetrics, error) {
	if size <= 0 {
		return nil, &AtlasConfigError{Field: "Size", Reason: "must be positive"}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("asset: failed to parse font: %w", err)
	}
	return &SFNTMetrics{font: f, ppem: fixed.Int26_6(size * 64)}, nil
}

// Shape implements MetricsSource.
func (m *SFNTMetrics) Shape(r rune) (GlyphShape, bool) {
	idx, err := m.font.GlyphIndex(&m.buf, r)
	if err != nil || idx == 0 {
		return GlyphShape{}, false
	}
	bounds, advance, err := m.font.GlyphBounds(&m.buf, idx, m.ppem, font.HintingFull)
	if err != nil {
		return GlyphShape{}, false
	}

	// sfnt bounds are y-down with the origin on the baseline.
	return GlyphShape{
		Width:    fixedToFloat32(bounds.Max.X - bounds.Min.X),
		Height:   fixedToFloat32(bounds.Max.Y - bounds.Min.Y),
		BearingX: fixedToFloat32(bounds.Min.X),
		BearingY: fixedToFloat32(-bounds.Min.Y),
		Advance:  fixedToFloat32(advance),
	}, true
}

// DrawGlyph implements GlyphDrawer.
func (m *SFNTMetrics) DrawGlyph(dst draw.Image, x, y int, r rune) bool {
	if m.face == nil {
		face, err := opentype.NewFace(m.font, &opentype.FaceOptions{
			Size:    float64(m.ppem) / 64,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return false
		}
		m.face = face
	}

	dr, mask, maskp, _, ok := m.face.Glyph(fixed.Point26_6{}, r)
	if !ok || dr.Empty() {
		return ok
	}
	// Move the glyph box so its top-left corner lands on (x, y).
	target := dr.Sub(dr.Min).Add(image.Pt(x, y))
	draw.DrawMask(dst, target, image.White, image.Point{}, mask, maskp, draw.Over)
	return true
}

func fixedToFloat32(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

// FontAtlasConfig configures a FontAtlas.
type FontAtlasConfig struct {
	// Width and Height are the atlas texture size in pixels.
	Width, Height int

	// Padding is the SDF spread around every glyph in pixels. It must
	// match the FontPadding of the Manager configuration.
	Padding int

	// Gap is the extra empty space between packed cells.
	Gap int
}

// DefaultFontAtlasConfig returns a 1024x1024 atlas with 4 pixel padding.
func DefaultFontAtlasConfig() FontAtlasConfig {
	return FontAtlasConfig{Width: 1024, Height: 1024, Padding: 4, Gap: 1}
}

// Validate checks the configuration.
func (c FontAtlasConfig) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return &AtlasConfigError{Field: "Size", Reason: "must be positive"}
	}
	if c.Padding < 0 {
		return &AtlasConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Gap < 0 {
		return &AtlasConfigError{Field: "Gap", Reason: "must be non-negative"}
	}
	if 2*c.Padding >= min(c.Width, c.Height) {
		return &AtlasConfigError{Field: "Padding", Reason: "leaves no room for glyphs"}
	}
	return nil
}

// Glyph is the atlas entry of one rune.
type Glyph struct {
	Rune  rune
	Shape GlyphShape

	// X and Y locate the top-left corner of the glyph core, padding
	// excluded, in atlas image pixels.
	X, Y int

	// Rect is the glyph core in texel coordinates (x, y, width, height)
	// with y measured from the bottom edge, as the texture is sampled.
	Rect hud.Vec4
}

// UV returns the texel rectangle of the glyph core, as stored in
// Graphic.UVRects.
func (g Glyph) UV() hud.Vec4 {
	return g.Rect
}

// Params returns (width, height, bearing x, bearing y), as stored in
// Graphic.GlyphParams.
func (g Glyph) Params() hud.Vec4 {
	s := g.Shape
	return hud.V4(s.Width, s.Height, s.BearingX, s.BearingY)
}

// FontAtlas packs the glyphs of one font into an atlas on first use.
// It is not safe for concurrent use.
type FontAtlas struct {
	cfg    FontAtlasConfig
	src    MetricsSource
	packer *shelfPacker
	glyphs map[rune]Glyph
	image  *image.Alpha
	log    *slog.Logger
}

// NewFontAtlas creates an empty atlas over src. When src implements
// GlyphDrawer the atlas also keeps a coverage image, see Image.
func NewFontAtlas(src MetricsSource, cfg FontAtlasConfig) (*FontAtlas, error) {
	if src == nil {
		return nil, &AtlasConfigError{Field: "Source", Reason: "is nil"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	a := &FontAtlas{
		cfg:    cfg,
		src:    src,
		packer: newShelfPacker(cfg.Width, cfg.Height, cfg.Gap),
		glyphs: make(map[rune]Glyph),
		log:    hud.Logger(),
	}
	if _, ok := src.(GlyphDrawer); ok {
		a.image = image.NewAlpha(image.Rect(0, 0, cfg.Width, cfg.Height))
	}
	return a, nil
}

// Glyph returns the entry of r, packing it on first use. Runes the font
// cannot map yield ErrGlyphNotFound; a full atlas yields ErrAtlasFull. Both
// come with a zero Glyph.
func (a *FontAtlas) Glyph(r rune) (Glyph, error) {
	if g, ok := a.glyphs[r]; ok {
		return g, nil
	}

	shape, ok := a.src.Shape(r)
	if !ok {
		return Glyph{}, fmt.Errorf("%w: %q", ErrGlyphNotFound, r)
	}
	if shape.Width <= 0 || shape.Height <= 0 {
		// Blank glyphs keep their advance as layout width and take no
		// atlas space.
		shape.Width, shape.Height = shape.Advance, 0
		g := Glyph{Rune: r, Shape: shape}
		a.glyphs[r] = g
		return g, nil
	}

	pad := a.cfg.Padding
	w := int(shape.Width+0.999) + 2*pad
	h := int(shape.Height+0.999) + 2*pad
	x, y, ok := a.packer.pack(w, h)
	if !ok {
		a.log.Warn("asset: font atlas full", "rune", string(r), "glyphs", len(a.glyphs))
		return Glyph{}, fmt.Errorf("%w: %q", ErrAtlasFull, r)
	}

	g := Glyph{Rune: r, Shape: shape, X: x + pad, Y: y + pad}
	g.Rect = hud.V4(
		float32(g.X),
		float32(a.cfg.Height-g.Y)-shape.Height,
		shape.Width,
		shape.Height,
	)
	if d, ok := a.src.(GlyphDrawer); ok {
		d.DrawGlyph(a.image, g.X, g.Y, r)
	}
	a.glyphs[r] = g
	return g, nil
}

// AddRunes packs every rune of s and returns the first error met. Packing
// continues past missing glyphs.
func (a *FontAtlas) AddRunes(s string) error {
	var first error
	for _, r := range s {
		if _, err := a.Glyph(r); err != nil && first == nil {
			first = err
		}
	}
	a.log.Debug("asset: font atlas packed",
		"glyphs", len(a.glyphs),
		"utilization", a.packer.utilization())
	return first
}

// Len returns the number of packed glyphs.
func (a *FontAtlas) Len() int { return len(a.glyphs) }

// Width returns the atlas width in pixels.
func (a *FontAtlas) Width() int { return a.cfg.Width }

// Height returns the atlas height in pixels.
func (a *FontAtlas) Height() int { return a.cfg.Height }

// Padding returns the SDF padding in pixels.
func (a *FontAtlas) Padding() int { return a.cfg.Padding }

// Utilization returns the packed fraction of the atlas area.
func (a *FontAtlas) Utilization() float64 { return a.packer.utilization() }

// Image returns the coverage image, or nil when the source cannot draw.
func (a *FontAtlas) Image() *image.Alpha { return a.image }
