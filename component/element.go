// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package component

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/hud"
)

// ErrDestroyed is returned by operations on a destroyed Element.
var ErrDestroyed = errors.New("component: element destroyed")

// Element is a named set of components drawn through one group mesh.
type Element struct {
	m       *hud.Manager
	group   *hud.Group
	names   []string
	comps   []Component
	enabled bool
	dead    bool
}

// NewElement creates an empty, disabled element.
func NewElement(m *hud.Manager) *Element {
	return &Element{m: m, group: m.NewGroup()}
}

// Group returns the group the element draws through.
func (e *Element) Group() *hud.Group { return e.group }

// Enabled reports whether the element is visible.
func (e *Element) Enabled() bool { return e.enabled }

// Add attaches c under name and queues its items for insertion. Items of a
// disabled element are added hidden.
func (e *Element) Add(name string, c Component) error {
	if e.dead {
		return ErrDestroyed
	}
	if slices.Contains(e.names, name) {
		return fmt.Errorf("component: duplicate name %q", name)
	}
	e.names = append(e.names, name)
	e.comps = append(e.comps, c)

	gs := c.Graphics()
	e.group.Attach(gs...)
	var errs []error
	for _, g := range gs {
		errs = append(errs,
			e.m.SetGraphicActive(g, e.enabled),
			e.m.AddGraphic(g))
	}
	return errors.Join(errs...)
}

// Lookup returns the component registered under name, or nil.
func (e *Element) Lookup(name string) Component {
	if i := slices.Index(e.names, name); i >= 0 {
		return e.comps[i]
	}
	return nil
}

// Find returns the component registered under name if it has type T.
func Find[T Component](e *Element, name string) (T, bool) {
	c, ok := e.Lookup(name).(T)
	return c, ok
}

// Enable leases the group mesh and shows every item.
func (e *Element) Enable() error {
	if e.dead {
		return ErrDestroyed
	}
	if e.enabled {
		return nil
	}
	e.enabled = true
	return errors.Join(e.m.ActivateGroup(e.group), e.setActive(true))
}

// Disable hides every item and returns the group mesh.
func (e *Element) Disable() error {
	if e.dead {
		return ErrDestroyed
	}
	if !e.enabled {
		return nil
	}
	e.enabled = false
	return errors.Join(e.setActive(false), e.m.DeactivateGroup(e.group))
}

func (e *Element) setActive(active bool) error {
	var errs []error
	for _, g := range e.group.Items() {
		errs = append(errs, e.m.SetGraphicActive(g, active))
	}
	return errors.Join(errs...)
}

// RebuildAll asks for a full rebuild of every item of the element.
func (e *Element) RebuildAll() error {
	if e.dead {
		return ErrDestroyed
	}
	var errs []error
	for _, c := range e.comps {
		errs = append(errs, rebuildAll(e.m, c))
	}
	return errors.Join(errs...)
}

// Destroy removes every item from the manager and returns the group mesh.
// The element cannot be used afterwards.
func (e *Element) Destroy() error {
	if e.dead {
		return ErrDestroyed
	}
	e.dead = true
	e.enabled = false

	errs := []error{e.m.DeactivateGroup(e.group)}
	items := slices.Clone(e.group.Items())
	for _, g := range items {
		errs = append(errs, e.m.RemoveGraphic(g))
	}
	e.group.Detach(items...)
	e.names, e.comps = nil, nil
	return errors.Join(errs...)
}
