// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package halmesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/hud"
	"github.com/gogpu/hud/shader"
)

var (
	// ErrSinkClosed is returned when uploading through a closed Sink.
	ErrSinkClosed = errors.New("halmesh: sink is closed")

	// ErrNilDevice is returned when a nil device or queue is passed.
	ErrNilDevice = errors.New("halmesh: nil device or queue")
)

// Buffers are the GPU buffers of one group.
type Buffers struct {
	// Streams holds one vertex buffer per shader.Stream.
	Streams [shader.StreamCount]hal.Buffer
	Index   hal.Buffer

	// QuadCapacity is the number of quads the buffers can hold.
	QuadCapacity int

	// IndexCount is the number of indices of the last upload.
	IndexCount int

	// Uploads counts the uploads of the group, across reallocations.
	Uploads int
}

// Sink keeps group meshes in HAL buffers.
type Sink struct {
	device hal.Device
	queue  hal.Queue
	groups map[uint64]*Buffers
	buf    []byte
	log    *slog.Logger
	closed bool
}

// New creates a Sink writing through queue into buffers created on device.
func New(device hal.Device, queue hal.Queue) (*Sink, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Sink{
		device: device,
		queue:  queue,
		groups: make(map[uint64]*Buffers),
		log:    hud.Logger(),
	}, nil
}

// UploadMesh implements hud.MeshSink.
func (s *Sink) UploadMesh(g *hud.Group, m *hud.Mesh) error {
	if s.closed {
		return ErrSinkClosed
	}

	b := s.groups[g.ID()]
	if b == nil || b.QuadCapacity < m.Capacity() {
		nb, err := s.allocate(g.ID(), max(m.Capacity(), 1))
		if err != nil {
			return err
		}
		if b != nil {
			nb.Uploads = b.Uploads
			s.destroy(b)
		}
		b = nb
		s.groups[g.ID()] = b
	}

	nv := m.Vertices()
	s.write(b.Streams[shader.StreamPosition], nv, func(dst []byte, i int) []byte {
		p := m.Positions[i]
		return appendFloats(dst, p.X, p.Y, p.Z)
	})
	s.write(b.Streams[shader.StreamUV0], nv, func(dst []byte, i int) []byte {
		return appendFloats(dst, m.UV0[i].X, m.UV0[i].Y)
	})
	s.write(b.Streams[shader.StreamUV1], nv, func(dst []byte, i int) []byte {
		return appendFloats(dst, m.UV1[i].X, m.UV1[i].Y)
	})
	s.write(b.Streams[shader.StreamColor], nv, func(dst []byte, i int) []byte {
		c := m.Colors[i]
		return append(dst, c.R, c.G, c.B, c.A)
	})
	s.write(b.Index, m.IndexCount(), func(dst []byte, i int) []byte {
		return binary.LittleEndian.AppendUint32(dst, m.Indices[i])
	})

	b.IndexCount = m.IndexCount()
	b.Uploads++
	return nil
}

// ReleaseMesh implements hud.MeshReleaser.
func (s *Sink) ReleaseMesh(g *hud.Group) {
	if b, ok := s.groups[g.ID()]; ok {
		s.destroy(b)
		delete(s.groups, g.ID())
	}
}

// Buffers returns the buffers of the group with id.
func (s *Sink) Buffers(id uint64) (*Buffers, bool) {
	b, ok := s.groups[id]
	return b, ok
}

// Len returns the number of groups holding buffers.
func (s *Sink) Len() int { return len(s.groups) }

// Close destroys every buffer. Close is idempotent.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for id, b := range s.groups {
		s.destroy(b)
		delete(s.groups, id)
	}
	return nil
}

// allocate creates buffers for quads quads. On failure nothing is leaked.
func (s *Sink) allocate(id uint64, quads int) (*Buffers, error) {
	b := &Buffers{QuadCapacity: quads}
	for st := range shader.StreamCount {
		buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
			Label: fmt.Sprintf("hud_group_%d_%s", id, st),
			Size:  uint64(quads*4) * st.Stride(),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			s.destroy(b)
			return nil, fmt.Errorf("halmesh: create %s buffer: %w", st, err)
		}
		b.Streams[st] = buf
	}

	buf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: fmt.Sprintf("hud_group_%d_index", id),
		Size:  uint64(quads * 6 * shader.IndexSize),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		s.destroy(b)
		return nil, fmt.Errorf("halmesh: create index buffer: %w", err)
	}
	b.Index = buf

	s.log.Debug("halmesh: buffers allocated", "group", id, "quads", quads)
	return b, nil
}

func (s *Sink) destroy(b *Buffers) {
	for i, buf := range b.Streams {
		if buf != nil {
			s.device.DestroyBuffer(buf)
			b.Streams[i] = nil
		}
	}
	if b.Index != nil {
		s.device.DestroyBuffer(b.Index)
		b.Index = nil
	}
}

// write encodes n elements with enc and writes them at the start of dst.
func (s *Sink) write(dst hal.Buffer, n int, enc func([]byte, int) []byte) {
	if n == 0 {
		return
	}
	s.buf = s.buf[:0]
	for i := range n {
		s.buf = enc(s.buf, i)
	}
	s.queue.WriteBuffer(dst, 0, s.buf)
}

func appendFloats(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}
