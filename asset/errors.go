// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package asset

import "errors"

var (
	// ErrUnknownSprite is returned when no sprite is registered for an id.
	ErrUnknownSprite = errors.New("asset: unknown sprite")

	// ErrGlyphNotFound is returned when the font has no glyph for a rune.
	ErrGlyphNotFound = errors.New("asset: glyph not found")

	// ErrAtlasFull is returned when a glyph does not fit in the atlas.
	ErrAtlasFull = errors.New("asset: atlas full")
)

// AtlasConfigError represents a configuration validation error.
type AtlasConfigError struct {
	Field  string
	Reason string
}

func (e *AtlasConfigError) Error() string {
	return "asset: invalid atlas config." + e.Field + ": " + e.Reason
}
