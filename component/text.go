// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package component

import (
	"image/color"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/hud"
	"github.com/gogpu/hud/asset"
)

// Text draws a single row of up to hud.MaxTextQuads glyphs. Glyphs are
// placed left to right with no shaping.
type Text struct {
	single
	font    *asset.FontAtlas
	content string
}

// NewText creates an empty text block using glyphs of font.
func NewText(m *hud.Manager, font *asset.FontAtlas) *Text {
	t := &Text{single: single{m: m, g: hud.NewText()}, font: font}
	t.g.ValidQuads = 0
	return t
}

// Content returns the normalized content.
func (t *Text) Content() string { return t.content }

// SetContent replaces the text. The string is NFC-normalized and cut to
// hud.MaxTextQuads runes. Runes the font lacks are drawn as empty quads and
// reported through the returned error.
func (t *Text) SetContent(s string) error {
	s = norm.NFC.String(s)
	if s == t.content {
		return nil
	}
	t.content = s
	return t.fill()
}

// Refresh re-reads every glyph from the font atlas.
func (t *Text) Refresh() error {
	return t.fill()
}

func (t *Text) fill() error {
	var lookupErr error
	n := 0
	for _, r := range t.content {
		if n == hud.MaxTextQuads {
			hud.Logger().Debug("component: text truncated",
				"content", t.content, "max", hud.MaxTextQuads)
			break
		}
		glyph, err := t.font.Glyph(r)
		if err != nil && lookupErr == nil {
			lookupErr = err
		}
		t.g.UVRects[n] = glyph.UV()
		t.g.GlyphParams[n] = glyph.Params()
		t.g.Sizes[n] = hud.V2(glyph.Shape.Advance, 0)
		n++
	}
	t.g.ValidQuads = n

	if err := t.m.RebuildGraphic(t.g, hud.DirtyAll); err != nil {
		return err
	}
	return lookupErr
}

// Color returns the glyph color.
func (t *Text) Color() color.RGBA { return t.g.Color }

// SetColor sets the glyph color.
func (t *Text) SetColor(c color.RGBA) error {
	t.g.Color = c
	return t.m.RebuildGraphic(t.g, hud.DirtyQuad)
}

// FontSize returns the font size multiplier.
func (t *Text) FontSize() float32 { return t.g.GlobalScale }

// SetFontSize sets the font size multiplier applied on top of the local
// scale.
func (t *Text) SetFontSize(size float32) error {
	if t.g.GlobalScale == size {
		return nil
	}
	t.g.GlobalScale = size
	return t.m.RebuildGraphic(t.g, hud.DirtyTransform)
}

// SetSpacing sets the extra gap after every glyph.
func (t *Text) SetSpacing(spacing float32) error {
	t.g.Spacing = spacing
	return t.m.RebuildGraphic(t.g, hud.DirtyTransform)
}
