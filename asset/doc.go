// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package asset provides the lookup tables the HUD items are filled from:
// sprite rectangles keyed by the CRC32 of their asset path, and font glyph
// metrics packed into a glyph atlas.
//
// Lookups that fail return an error together with a zero value, so a
// caller may still build an item that simply draws nothing.
package asset
