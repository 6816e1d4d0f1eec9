// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader holds the WGSL program that draws HUD meshes and the
// vertex and index layouts matching hud.Mesh.
//
// A mesh is bound as four vertex buffers, one per stream, in the order of
// the Stream constants, with a uint32 index buffer.
package shader

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed hud.wgsl
var source string

// Entry points of the HUD program.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// Stream identifies one vertex buffer of a mesh.
type Stream int

// Vertex streams, in binding slot order.
const (
	StreamPosition Stream = iota
	StreamUV0
	StreamUV1
	StreamColor

	StreamCount
)

// String returns the stream name.
func (s Stream) String() string {
	switch s {
	case StreamPosition:
		return "position"
	case StreamUV0:
		return "uv0"
	case StreamUV1:
		return "uv1"
	case StreamColor:
		return "color"
	default:
		return "unknown"
	}
}

// Stride returns the byte size of one vertex of the stream.
func (s Stream) Stride() uint64 {
	switch s {
	case StreamPosition:
		return 12
	case StreamUV0, StreamUV1:
		return 8
	case StreamColor:
		return 4
	default:
		return 0
	}
}

// IndexFormat is the index format of hud.Mesh.Indices.
const IndexFormat = gputypes.IndexFormatUint32

// IndexSize is the byte size of one index.
const IndexSize = 4

// UniformSize is the byte size of the uniform block: a column-major
// view-projection matrix and the SDF sharpness, padded to 16 bytes.
const UniformSize = 80

// Source returns the WGSL source.
func Source() string { return source }

// VertexLayouts returns one buffer layout per stream.
func VertexLayouts() []gputypes.VertexBufferLayout {
	formats := [StreamCount]gputypes.VertexFormat{
		StreamPosition: gputypes.VertexFormatFloat32x3,
		StreamUV0:      gputypes.VertexFormatFloat32x2,
		StreamUV1:      gputypes.VertexFormatFloat32x2,
		StreamColor:    gputypes.VertexFormatUnorm8x4,
	}
	layouts := make([]gputypes.VertexBufferLayout, StreamCount)
	for s, f := range formats {
		layouts[s] = gputypes.VertexBufferLayout{
			ArrayStride: Stream(s).Stride(),
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: f, Offset: 0, ShaderLocation: uint32(s)},
			},
		}
	}
	return layouts
}

// CompileSPIRV compiles the HUD program to SPIR-V words.
func CompileSPIRV() ([]uint32, error) {
	b, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to compile hud.wgsl: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("shader: SPIR-V size %d is not word aligned", len(b))
	}

	// SPIR-V words are little-endian.
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words, nil
}

// CreateModule compiles the program and creates a shader module on device.
func CreateModule(device hal.Device, label string) (hal.ShaderModule, error) {
	words, err := CompileSPIRV()
	if err != nil {
		return nil, err
	}
	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: words},
	})
}
