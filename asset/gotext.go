// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
)

// GoTextMetrics reads glyph metrics with github.com/go-text/typesetting.
// It accepts the same fonts as SFNTMetrics and serves fonts whose tables
// sfnt does not handle.
type GoTextMetrics struct {
	face  *font.Face
	scale float32
}

// NewGoTextMetrics parses data and measures glyphs at size pixels per em.
func NewGoTextMetrics(data []byte, size float32) (*GoTextMetrics, error) {
	if size <= 0 {
		return nil, &AtlasConfigError{Field: "Size", Reason: "must be positive"}
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("asset: failed to parse font: %w", err)
	}
	return &GoTextMetrics{face: face, scale: size / float32(face.Upem())}, nil
}

// Shape implements MetricsSource.
func (m *GoTextMetrics) Shape(r rune) (GlyphShape, bool) {
	gid, ok := m.face.NominalGlyph(r)
	if !ok {
		return GlyphShape{}, false
	}
	ext, ok := m.face.GlyphExtents(gid)
	if !ok {
		return GlyphShape{}, false
	}

	// Extents are y-up: YBearing is the top, Height is negative.
	s := m.scale
	return GlyphShape{
		Width:    ext.Width * s,
		Height:   -ext.Height * s,
		BearingX: ext.XBearing * s,
		BearingY: ext.YBearing * s,
		Advance:  m.face.HorizontalAdvance(gid) * s,
	}, true
}
