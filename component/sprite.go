// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package component

import (
	"github.com/gogpu/hud"
	"github.com/gogpu/hud/asset"
)

// Sprite draws one rectangle of the sprite atlas.
type Sprite struct {
	single
	atlas *asset.SpriteAtlas
	id    asset.SpriteID
	path  string
	frame asset.SpriteFrame
}

// NewSprite creates a sprite reading its frames from atlas.
func NewSprite(m *hud.Manager, atlas *asset.SpriteAtlas) *Sprite {
	return &Sprite{single: single{m: m, g: hud.NewSprite()}, atlas: atlas}
}

// Path returns the current sprite path.
func (s *Sprite) Path() string { return s.path }

// SetPath switches the sprite to the atlas frame of path. An unknown path
// leaves a zero rectangle in place and returns asset.ErrUnknownSprite; the
// item still draws, just with no texture area.
func (s *Sprite) SetPath(path string) error {
	id := asset.HashPath(path)
	if s.path != "" && id == s.id {
		return nil
	}
	s.id, s.path = id, path

	frame, lookupErr := s.atlas.Lookup(id)
	s.frame = frame
	s.g.UVRects[0] = frame.UV
	if err := s.m.RebuildGraphic(s.g, hud.DirtyQuad); err != nil {
		return err
	}
	return lookupErr
}

// NativeSize sizes the sprite to the pixel size of its atlas frame.
func (s *Sprite) NativeSize() error {
	s.g.Sizes[0] = s.frame.Size()
	return s.m.RebuildGraphic(s.g, hud.DirtyAll)
}

// SetSize sets the sprite size in item units.
func (s *Sprite) SetSize(size hud.Vec2) error {
	s.g.Sizes[0] = size
	return s.m.RebuildGraphic(s.g, hud.DirtyAll)
}
