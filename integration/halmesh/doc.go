// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halmesh uploads HUD group meshes into wgpu HAL buffers.
//
// Sink implements hud.MeshSink and hud.MeshReleaser. Every group gets one
// vertex buffer per shader stream and a uint32 index buffer:
//
//	hud mesh (CPU) -> Sink.UploadMesh -> HAL buffers -> draw with shader.VertexLayouts
//
// Buffers are sized to the mesh capacity and only ever grow, so a group
// whose item count oscillates does not reallocate every frame. They are
// destroyed when the group returns its mesh or the Sink is closed.
//
// # Usage
//
//	sink, err := halmesh.New(device, queue)
//	if err != nil {
//	    return err
//	}
//	defer sink.Close()
//
//	m, err := hud.New(hud.DefaultConfig(), hud.WithMeshSink(sink))
//
// # Thread Safety
//
// Sink is NOT safe for concurrent use. The Manager calls it from the
// goroutine that runs Tick.
package halmesh
