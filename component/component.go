// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package component

import (
	"errors"

	"github.com/gogpu/hud"
)

// Component contributes items to an Element.
type Component interface {
	Graphics() []*hud.Graphic
}

// single is the shared part of the components built on one item.
type single struct {
	m *hud.Manager
	g *hud.Graphic
}

// Graphic returns the underlying item.
func (s *single) Graphic() *hud.Graphic { return s.g }

// Graphics implements Component.
func (s *single) Graphics() []*hud.Graphic { return []*hud.Graphic{s.g} }

// SetPosition moves the item center to p.
func (s *single) SetPosition(p hud.Vec3) error {
	s.g.LocalPosition = p
	return s.m.RebuildGraphic(s.g, hud.DirtyTransform)
}

// SetScale sets the local scale of the item.
func (s *single) SetScale(scale hud.Vec3) error {
	s.g.LocalScale = scale
	return s.m.RebuildGraphic(s.g, hud.DirtyTransform)
}

// rebuildAll asks for a full rebuild of every item of c.
func rebuildAll(m *hud.Manager, c Component) error {
	var errs []error
	for _, g := range c.Graphics() {
		if err := m.RebuildGraphic(g, hud.DirtyAll); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
