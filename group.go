// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"slices"
	"sync/atomic"
)

var nextGroupID atomic.Uint64

// Group is an ordered set of items drawn through one mesh.
//
// A group holds a mesh only while it is active (see Manager.ActivateGroup).
// Items are attached and detached by the component layer; every change
// schedules the group for mesh reassembly on the next Tick.
type Group struct {
	id       uint64
	manager  *Manager
	items    []*Graphic
	maxQuads int
	mesh     *Mesh
	queued   bool
}

// ID returns the process-unique group id.
func (g *Group) ID() uint64 { return g.id }

// Items returns the attached items in attach order. The slice is owned by
// the group.
func (g *Group) Items() []*Graphic { return g.items }

// MaxQuads returns the largest quad capacity the group ever needed.
func (g *Group) MaxQuads() int { return g.maxQuads }

// Mesh returns the leased mesh, or nil while the group is inactive.
func (g *Group) Mesh() *Mesh { return g.mesh }

// Manager returns the manager that created the group.
func (g *Group) Manager() *Manager { return g.manager }

// Attach appends items to the group, moving them out of any other group.
func (g *Group) Attach(items ...*Graphic) {
	for _, it := range items {
		if it == nil || it.group == g {
			continue
		}
		if it.group != nil {
			it.group.Detach(it)
		}
		it.group = g
		g.items = append(g.items, it)
	}

	total := 0
	for _, it := range g.items {
		total += it.Capacity()
	}
	g.maxQuads = max(g.maxQuads, total)
	g.ForceRebuild()
}

// Detach removes items from the group. Items of other groups are ignored.
func (g *Group) Detach(items ...*Graphic) {
	for _, it := range items {
		if it == nil || it.group != g {
			continue
		}
		if i := slices.Index(g.items, it); i >= 0 {
			g.items = slices.Delete(g.items, i, i+1)
		}
		it.group = nil
	}
	g.ForceRebuild()
}

// ForceRebuild schedules the group for mesh reassembly on the next Tick.
func (g *Group) ForceRebuild() {
	if g.manager != nil {
		g.manager.RegisterGroupForRebuild(g)
	}
}
