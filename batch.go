// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"github.com/gogpu/gpucontext"
	"github.com/x448/float16"

	"github.com/gogpu/hud/internal/arena"
	"github.com/gogpu/hud/internal/kernel"
	"github.com/gogpu/hud/internal/parallel"
)

// Batch owns the arena slice of one size class. It coalesces the operations
// queued between ticks, applies them to the arena during Resolve and
// schedules the rebuild kernel over the records they dirtied.
//
// A Batch is only touched from the control goroutine, and never while a
// kernel reading its slice is in flight.
type Batch struct {
	class SizeClass
	slice *arena.Slice

	pending map[*Graphic]Operation
	dirty   *arena.DirtySet

	// items maps a live slot to the item stored there.
	items []*Graphic

	// work is the dirty index snapshot read by the in-flight rebuild.
	work      []int
	lastDirty int

	platform gpucontext.PlatformProvider
}

func newBatch(class SizeClass, slice *arena.Slice, platform gpucontext.PlatformProvider) *Batch {
	return &Batch{
		class:    class,
		slice:    slice,
		pending:  make(map[*Graphic]Operation),
		dirty:    arena.NewDirtySet(slice.Capacity()),
		items:    make([]*Graphic, slice.Capacity()),
		platform: platform,
	}
}

// PushOperation queues op for g, merging it with the operations already
// pending for the same item.
func (b *Batch) PushOperation(g *Graphic, op Operation) {
	b.pending[g] = b.pending[g].merge(op)
}

// Resolve drains the pending operations into the arena. touch is called for
// the group of every item whose mesh contribution changed. The returned
// errors are overflow reports for adds that could not be served.
func (b *Batch) Resolve(touch func(*Group)) []error {
	var errs []error
	for g, op := range b.pending {
		changed, err := b.apply(g, op)
		if err != nil {
			errs = append(errs, err)
		}
		if changed && g.group != nil {
			touch(g.group)
		}
		if g.slot < 0 {
			g.batch = -1
		}
	}
	clear(b.pending)
	return errs
}

// apply executes the coalesced operation of one item and reports whether
// the item's mesh contribution changed.
func (b *Batch) apply(g *Graphic, op Operation) (bool, error) {
	switch {
	case op&OpRemove != 0:
		if g.slot < 0 {
			return false, nil
		}
		b.detach(g)
		return true, nil

	case op&OpAdd != 0:
		if g.slot < 0 {
			if b.slice.IsExhausted() {
				return false, &OverflowError{Class: b.class, Capacity: b.slice.Capacity()}
			}
			g.slot = b.slice.Add()
			b.items[g.slot] = g
		}
		rec := b.slice.Transform(g.slot)
		b.writeTransform(g, rec)
		b.writeQuads(g, rec)
		rec.Dirty = arena.DirtyAll
		b.setActive(g, rec)
		b.dirty.Add(g.slot)
		return true, nil
	}

	if g.slot < 0 {
		return false, nil
	}

	rec := b.slice.Transform(g.slot)
	changed := false
	if op&OpTransformChanged != 0 {
		b.writeTransform(g, rec)
		rec.Dirty |= arena.DirtyTransform
		changed = true
	}
	if op&OpVertexPropertyChanged != 0 {
		b.writeQuads(g, rec)
		rec.Dirty |= arena.DirtyQuad
		changed = true
	}
	if changed {
		b.dirty.Add(g.slot)
	}
	if op&(OpActive|OpDeActive) != 0 && rec.Active != !g.hidden {
		b.setActive(g, rec)
		changed = true
	}
	return changed, nil
}

// detach removes g from the slice and patches the item moved into its slot.
func (b *Batch) detach(g *Graphic) {
	slot := g.slot
	movedFrom := b.slice.RemoveSwapBack(slot)
	if movedFrom != slot {
		moved := b.items[movedFrom]
		b.items[slot] = moved
		moved.slot = slot
		if b.dirty.Contains(movedFrom) {
			b.dirty.Add(slot)
		}
	}
	b.items[movedFrom] = nil

	g.slot = -1
	g.batch = -1
	g.active = false
}

func (b *Batch) setActive(g *Graphic, rec *arena.TransformRecord) {
	rec.Active = !g.hidden
	g.active = rec.Active
}

// writeTransform copies the layout inputs of g into its transform record.
func (b *Batch) writeTransform(g *Graphic, rec *arena.TransformRecord) {
	rec.IsText = g.kind == KindText
	rec.ValidQuads = int32(g.validQuads())
	rec.Position = g.LocalPosition
	rec.Scale = g.LocalScale
	rec.Spacing = g.Spacing
	rec.GlobalScale = g.GlobalScale
	if rec.IsText && b.platform != nil {
		rec.GlobalScale *= b.platform.FontScale()
	}
	rec.Progress = float16.Fromfloat32(g.Progress)
}

// writeQuads copies the per-quad inputs of g into its quad records.
func (b *Batch) writeQuads(g *Graphic, rec *arena.TransformRecord) {
	rec.ValidQuads = int32(g.validQuads())
	quads := b.slice.Quads(g.slot)
	for i := range quads {
		q := &quads[i]
		q.Color = g.Color
		q.UV = at(g.UVRects, i)
		q.Params = at(g.GlyphParams, i)
		q.Size = at(g.Sizes, i)
	}
}

// at returns s[i], or the zero value when s is too short.
func at[T any](s []T, i int) T {
	if i < len(s) {
		return s[i]
	}
	var zero T
	return zero
}

// ScheduleRebuild starts the rebuild kernel over the records dirtied since
// the last call and clears the dirty set. It returns nil when nothing is
// dirty.
func (b *Batch) ScheduleRebuild(pool *parallel.WorkerPool, params *kernel.RebuildParams, batchSize int) *parallel.Task {
	used := b.slice.Used()
	b.work = b.work[:0]
	for _, i := range b.dirty.Indices() {
		if i < used {
			b.work = append(b.work, i)
		}
	}
	b.dirty.Clear()
	b.lastDirty = len(b.work)
	if len(b.work) == 0 {
		return nil
	}

	work, slice := b.work, b.slice
	return pool.ParallelFor(len(work), batchSize, func(i int) {
		kernel.Rebuild(slice, work[i], params)
	})
}

// Class returns the size class served by the batch.
func (b *Batch) Class() SizeClass { return b.class }

// Used returns the number of attached items.
func (b *Batch) Used() int { return b.slice.Used() }

// Capacity returns the maximum number of attached items.
func (b *Batch) Capacity() int { return b.slice.Capacity() }

// Pending returns the number of items with queued operations.
func (b *Batch) Pending() int { return len(b.pending) }

// DirtyCount returns the number of records marked dirty and not yet
// scheduled.
func (b *Batch) DirtyCount() int { return b.dirty.Len() }

// LastRebuildCount returns the number of records the last ScheduleRebuild
// dispatched.
func (b *Batch) LastRebuildCount() int { return b.lastDirty }

// item returns the item stored at slot.
func (b *Batch) item(slot int) *Graphic { return b.items[slot] }
