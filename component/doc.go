// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package component builds HUD elements out of hud items: sprites, text
// blocks and progress bars, gathered under an Element that owns one group.
//
// Components fill their items from the asset lookup tables and notify the
// Manager of every change; the vertices follow on the next Tick.
//
//	e := component.NewElement(m)
//	hp := component.NewProgressBar(m, sprites)
//	_ = hp.SetSprites("ui/bar_bg.png", "ui/bar_fill.png")
//	_ = e.Add("hp", hp)
//	_ = e.Enable()
//
//	hp.SetValue(0.4)
package component
