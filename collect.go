// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"errors"
	"fmt"

	"github.com/gogpu/hud/internal/kernel"
	"github.com/gogpu/hud/internal/parallel"
)

// MeshSink receives group meshes once their reassembly finished. The mesh
// stays owned by the group; a sink that keeps the data must copy it.
type MeshSink interface {
	UploadMesh(g *Group, m *Mesh) error
}

// MeshReleaser is implemented by sinks that hold per-group resources. The
// Manager calls ReleaseMesh when the group returns its mesh.
type MeshReleaser interface {
	ReleaseMesh(g *Group)
}

// MeshSinkFunc adapts a function to MeshSink.
type MeshSinkFunc func(g *Group, m *Mesh) error

// UploadMesh calls f(g, m).
func (f MeshSinkFunc) UploadMesh(g *Group, m *Mesh) error {
	return f(g, m)
}

// collection is one pass of the mesh collection kernel: the gathered item
// references, one job per group and the shared scratch output.
type collection struct {
	refs   []kernel.ItemRef
	jobs   []kernel.GroupJob
	groups []*Group
	out    kernel.Output

	maxQuads int
	task     *parallel.Task
}

// reset empties the pass, keeping the allocated storage.
func (c *collection) reset() {
	c.refs = c.refs[:0]
	c.jobs = c.jobs[:0]
	clear(c.groups)
	c.groups = c.groups[:0]
	c.maxQuads = 0
	c.task = nil
}

// gather records, for every visible group, where the vertices of its live
// and active items are. It reads the control-side item state only.
func (c *collection) gather(groups []*Group, batches []*Batch) {
	for _, grp := range groups {
		if grp.mesh == nil {
			continue
		}
		job := kernel.GroupJob{GroupID: grp.id, First: len(c.refs)}
		for _, it := range grp.items {
			if it.slot < 0 || !it.active || it.batch < 0 {
				continue
			}
			b := batches[it.batch]
			c.refs = append(c.refs, kernel.ItemRef{
				Slice:        b.slice,
				Index:        it.slot,
				QuadCapacity: it.Capacity(),
			})
		}
		job.Count = len(c.refs) - job.First
		c.jobs = append(c.jobs, job)
		c.groups = append(c.groups, grp)
		c.maxQuads = max(c.maxQuads, grp.maxQuads)
	}

	for i := range c.jobs {
		c.jobs[i].Offset = i * c.maxQuads
	}
	c.out.Reserve(len(c.jobs) * c.maxQuads)
}

// schedule starts the assembly kernel, one work item per group, after deps.
// Without groups the returned task only tracks deps.
func (c *collection) schedule(pool *parallel.WorkerPool, deps []*parallel.Task) {
	if len(c.jobs) == 0 {
		c.task = parallel.Combine(deps...)
		return
	}
	refs, jobs, out, maxQuads := c.refs, c.jobs, &c.out, c.maxQuads
	c.task = pool.ParallelFor(len(jobs), 1, func(i int) {
		kernel.Assemble(refs, &jobs[i], out, maxQuads)
	}, deps...)
}

// finish waits for the pass and hands every still visible group its mesh.
// It returns the number of quads delivered and the sink errors.
func (c *collection) finish(sink MeshSink) (int, error) {
	c.task.Wait()

	var errs []error
	quads := 0
	for i, job := range c.jobs {
		grp := c.groups[i]
		m := grp.mesh
		if m == nil {
			continue
		}
		m.grow(max(grp.maxQuads, job.Filled))
		m.fill(&c.out, job.Offset, job.Filled)
		quads += job.Filled

		if sink == nil {
			continue
		}
		if err := sink.UploadMesh(grp, m); err != nil {
			errs = append(errs, fmt.Errorf("hud: upload group %d: %w", grp.id, err))
		}
	}
	c.reset()
	return quads, errors.Join(errs...)
}
