// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package component

import (
	"errors"

	"github.com/gogpu/hud"
	"github.com/gogpu/hud/asset"
)

// ProgressBar is a background sprite with a fill sprite drawn over it. The
// fill is clipped horizontally by the bar value.
type ProgressBar struct {
	m          *hud.Manager
	background *Sprite
	fill       *Sprite
}

// NewProgressBar creates a full bar with both sprites reading from atlas.
func NewProgressBar(m *hud.Manager, atlas *asset.SpriteAtlas) *ProgressBar {
	return &ProgressBar{
		m:          m,
		background: NewSprite(m, atlas),
		fill:       NewSprite(m, atlas),
	}
}

// Background returns the background sprite.
func (p *ProgressBar) Background() *Sprite { return p.background }

// Fill returns the fill sprite.
func (p *ProgressBar) Fill() *Sprite { return p.fill }

// Graphics implements Component. The background comes first so the fill is
// drawn over it.
func (p *ProgressBar) Graphics() []*hud.Graphic {
	return []*hud.Graphic{p.background.g, p.fill.g}
}

// SetSprites sets both sprite paths and sizes both sprites natively.
func (p *ProgressBar) SetSprites(background, fill string) error {
	return errors.Join(
		p.background.SetPath(background),
		p.fill.SetPath(fill),
		p.background.NativeSize(),
		p.fill.NativeSize(),
	)
}

// SetPosition centers both sprites on pos.
func (p *ProgressBar) SetPosition(pos hud.Vec3) error {
	return errors.Join(p.background.SetPosition(pos), p.fill.SetPosition(pos))
}

// Value returns the fill fraction.
func (p *ProgressBar) Value() float32 { return p.fill.g.Progress }

// SetValue sets the fill fraction. Values outside [0, 1] are clamped when
// the vertices are rebuilt.
func (p *ProgressBar) SetValue(v float32) error {
	if p.fill.g.Progress == v {
		return nil
	}
	p.fill.g.Progress = v
	return p.m.RebuildGraphic(p.fill.g, hud.DirtyAll)
}
