// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"log/slog"

	"github.com/gogpu/gpucontext"
)

// Option configures a Manager during creation.
//
// Example:
//
//	m, err := hud.New(hud.DefaultConfig(),
//	    hud.WithMeshSink(renderer),
//	    hud.WithLogger(slog.Default()))
type Option func(*managerOptions)

type managerOptions struct {
	sink     MeshSink
	logger   *slog.Logger
	platform gpucontext.PlatformProvider
}

// WithMeshSink sets the receiver of reassembled group meshes. Without a
// sink the meshes are still filled and can be read from Group.Mesh.
func WithMeshSink(s MeshSink) Option {
	return func(o *managerOptions) {
		o.sink = s
	}
}

// WithLogger overrides the package logger for one manager.
func WithLogger(l *slog.Logger) Option {
	return func(o *managerOptions) {
		o.logger = l
	}
}

// WithPlatform supplies the host platform. Its FontScale multiplies the
// global scale of every text item when the item's transform is written.
func WithPlatform(p gpucontext.PlatformProvider) Option {
	return func(o *managerOptions) {
		o.platform = p
	}
}
