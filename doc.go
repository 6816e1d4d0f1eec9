// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hud batches large numbers of on-screen overlay elements (sprites,
// progress bars and short text labels) into per-group triangle meshes.
//
// Items are plain records (Graphic) stored in a packed arena, one slice per
// size class. Mutations are queued as operations and applied once per
// frame by Manager.Tick, which then recomputes the vertices of the dirty
// items in parallel and, once that finished, reassembles the meshes of the
// groups whose content changed.
//
// # Usage
//
//	m, err := hud.New(hud.DefaultConfig(), hud.WithMeshSink(sink))
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	grp := m.NewGroup()
//	_ = m.ActivateGroup(grp)
//
//	hp := hud.NewSprite()
//	hp.UVRects[0] = hud.V4(0, 0, 0.25, 0.25)
//	hp.Sizes[0] = hud.V2(100, 12)
//	grp.Attach(hp)
//	_ = m.AddGraphic(hp)
//
//	for frame := range frames {
//	    hp.Progress = frame.Health
//	    _ = m.RebuildGraphic(hp, hud.DirtyAll)
//	    if err := m.Tick(); err != nil {
//	        log.Print(err)
//	    }
//	}
//
// # Pipelining
//
// Tick delivers the meshes assembled during the previous Tick before it
// applies new operations, so a change becomes visible to the MeshSink one
// frame later. Flush delivers the pending result immediately.
//
// # Concurrency
//
// Manager, Batch, Group and Graphic belong to the goroutine calling Tick.
// Only the rebuild and collection kernels run on the worker pool, and they
// never overlap with an arena mutation.
//
// # Logging
//
// hud logs through log/slog and is silent by default; see SetLogger.
package hud
