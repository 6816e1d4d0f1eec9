// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import "github.com/gogpu/hud/internal/arena"

// Vector types shared with the arena records.
type (
	Vec2 = arena.Vec2
	Vec3 = arena.Vec3
	Vec4 = arena.Vec4
)

// V2 is a convenience function to create a Vec2.
func V2(x, y float32) Vec2 { return arena.V2(x, y) }

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float32) Vec3 { return arena.V3(x, y, z) }

// V4 is a convenience function to create a Vec4.
func V4(x, y, z, w float32) Vec4 { return arena.V4(x, y, z, w) }

// DirtyFlag selects which vertex attributes of an item must be recomputed.
type DirtyFlag = arena.DirtyFlag

// Dirty flags accepted by Manager.RebuildGraphic.
const (
	DirtyNone      = arena.DirtyNone
	DirtyTransform = arena.DirtyTransform
	DirtyQuad      = arena.DirtyQuad
	DirtyAll       = arena.DirtyAll
)
