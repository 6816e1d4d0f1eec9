// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"errors"
	"log/slog"

	"github.com/gogpu/hud/internal/arena"
	"github.com/gogpu/hud/internal/kernel"
	"github.com/gogpu/hud/internal/parallel"
)

// State is the phase of the Manager's frame state machine.
type State uint8

const (
	// StateIdle means no kernel is in flight.
	StateIdle State = iota

	// StateRebuildScheduled means rebuild kernels are in flight but no
	// collection was needed.
	StateRebuildScheduled

	// StateCollectionScheduled means a collection pass is in flight; its
	// result is applied at the start of the next Tick or by Flush.
	StateCollectionScheduled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRebuildScheduled:
		return "RebuildScheduled"
	case StateCollectionScheduled:
		return "CollectionScheduled"
	default:
		return "Unknown"
	}
}

// Stats holds counters of the most recent Tick.
type Stats struct {
	// Frames is the number of completed Tick calls.
	Frames uint64

	// DirtyItems is the number of records sent to the rebuild kernel.
	DirtyItems int

	// RebuildTasks is the number of batches that scheduled a rebuild.
	RebuildTasks int

	// GroupsGathered is the number of groups sent to the collection kernel.
	GroupsGathered int

	// QuadsEmitted is the number of quads delivered by the collection
	// applied at the start of the Tick.
	QuadsEmitted int

	// Overflows is the number of adds rejected for lack of capacity.
	Overflows int

	// QueuedWork is the number of kernel work items still waiting in the
	// pool queues when Tick returned.
	QueuedWork int
}

// Manager owns the arena, one batch per size class and the kernels, and
// drives the per-frame pipeline:
//
//  1. wait for the previous collection and deliver its meshes
//  2. resolve every batch and schedule rebuild kernels
//  3. gather the groups flagged for reassembly
//  4. schedule collection after all rebuilds of the tick
//  5. clear the reassembly set
//
// Meshes therefore reach the sink one Tick after the change that produced
// them. A Manager is not safe for concurrent use; only the kernels run on
// other goroutines.
type Manager struct {
	cfg  Config
	log  *slog.Logger
	sink MeshSink

	pool    *parallel.WorkerPool
	arena   *arena.Arena
	batches []*Batch
	params  kernel.RebuildParams

	dirtyGroups []*Group
	collect     collection
	meshes      meshPool

	state  State
	stats  Stats
	closed bool
}

// New validates cfg and creates a Manager with its arena sealed and its
// worker pool running. Call Close to stop the workers.
func New(cfg Config, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o managerOptions
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}

	m := &Manager{
		cfg:   cfg,
		log:   log,
		sink:  o.sink,
		arena: arena.New(),
		params: kernel.RebuildParams{
			FontPadding: cfg.FontPadding,
			AtlasWidth:  cfg.FontAtlasWidth,
			AtlasHeight: cfg.FontAtlasHeight,
			UnitScale:   cfg.UnitScale,
		},
		meshes: meshPool{limit: cfg.MeshPoolSize},
	}

	capacities := [sizeClassCount]int{
		SizeSmall: cfg.SpriteCapacity,
		SizeLarge: cfg.TextCapacity,
	}
	parts := make([]*arena.Slice, sizeClassCount)
	for class, n := range capacities {
		parts[class] = m.arena.RequestSpace(n, SizeClass(class).QuadCapacity())
	}
	m.arena.Seal()
	for class, s := range parts {
		m.batches = append(m.batches, newBatch(SizeClass(class), s, o.platform))
	}

	m.pool = parallel.NewWorkerPool(cfg.Workers)

	log.Debug("hud: arena sealed",
		"transforms", m.arena.TransformLen(),
		"quads", m.arena.QuadLen(),
		"vertices", m.arena.VertexLen())
	log.Info("hud: manager started",
		"sprites", cfg.SpriteCapacity,
		"texts", cfg.TextCapacity,
		"workers", m.pool.Workers())
	return m, nil
}

// Close waits for the in-flight collection, delivers its meshes and stops
// the worker pool. Further calls return ErrClosed.
func (m *Manager) Close() error {
	if m.closed {
		return ErrClosed
	}
	err := m.Flush()
	m.pool.Close()
	m.closed = true
	m.log.Info("hud: manager closed", "frames", m.stats.Frames)
	return err
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() Config { return m.cfg }

// State returns the pipeline phase.
func (m *Manager) State() State { return m.state }

// Stats returns the counters of the most recent Tick.
func (m *Manager) Stats() Stats { return m.stats }

// Batch returns the batch serving class.
func (m *Manager) Batch(class SizeClass) *Batch { return m.batches[class] }

// NewGroup creates an empty, inactive group.
func (m *Manager) NewGroup() *Group {
	return &Group{id: nextGroupID.Add(1), manager: m}
}

func (m *Manager) check(g *Graphic) error {
	if m.closed {
		return ErrClosed
	}
	if g == nil {
		return ErrNilGraphic
	}
	if g.owner != nil && g.owner != m {
		return ErrForeignGraphic
	}
	return nil
}

func (m *Manager) push(g *Graphic, op Operation) {
	g.owner = m
	g.batch = int(g.Class())
	m.batches[g.batch].PushOperation(g, op)
}

// AddGraphic queues g for attachment. The add is applied on the next Tick,
// which reports an OverflowError if the batch is full at that point.
func (m *Manager) AddGraphic(g *Graphic) error {
	if err := m.check(g); err != nil {
		return err
	}
	m.push(g, OpAdd)
	return nil
}

// RemoveGraphic queues g for detachment. Removing an item that was never
// added is a no-op.
func (m *Manager) RemoveGraphic(g *Graphic) error {
	if err := m.check(g); err != nil {
		return err
	}
	if g.batch < 0 {
		return nil
	}
	m.push(g, OpRemove)
	return nil
}

// SetGraphicActive shows or hides g. The setting is remembered for items
// that are not attached yet.
func (m *Manager) SetGraphicActive(g *Graphic, active bool) error {
	if err := m.check(g); err != nil {
		return err
	}
	g.hidden = !active
	if g.batch < 0 {
		return nil
	}
	if active {
		m.push(g, OpActive)
	} else {
		m.push(g, OpDeActive)
	}
	return nil
}

// RebuildGraphic notifies the manager that fields of g changed.
//
// DirtyTransform copies position, scale, spacing and progress and moves the
// vertices. DirtyQuad copies the per-quad rectangles, metrics, sizes and
// color and refreshes texture coordinates and colors. Sizes, glyph metrics
// and progress feed both passes, so changes to them need DirtyAll.
// Notifications for unattached items are ignored.
func (m *Manager) RebuildGraphic(g *Graphic, flag DirtyFlag) error {
	if err := m.check(g); err != nil {
		return err
	}
	if g.batch < 0 {
		return nil
	}
	var op Operation
	if flag.Has(DirtyTransform) {
		op |= OpTransformChanged
	}
	if flag.Has(DirtyQuad) {
		op |= OpVertexPropertyChanged
	}
	if op != OpNone {
		m.push(g, op)
	}
	return nil
}

// ActivateGroup leases a mesh to grp and schedules its reassembly.
func (m *Manager) ActivateGroup(grp *Group) error {
	if m.closed {
		return ErrClosed
	}
	if grp == nil {
		return ErrNilGroup
	}
	if grp.mesh == nil {
		grp.mesh = m.meshes.get()
	}
	m.RegisterGroupForRebuild(grp)
	return nil
}

// DeactivateGroup returns the mesh of grp to the pool. A collection still
// in flight for the group is discarded when it completes.
func (m *Manager) DeactivateGroup(grp *Group) error {
	if m.closed {
		return ErrClosed
	}
	if grp == nil {
		return ErrNilGroup
	}
	if grp.mesh == nil {
		return nil
	}
	m.meshes.put(grp.mesh)
	grp.mesh = nil
	if r, ok := m.sink.(MeshReleaser); ok {
		r.ReleaseMesh(grp)
	}
	return nil
}

// RegisterGroupForRebuild flags grp for mesh reassembly on the next Tick.
func (m *Manager) RegisterGroupForRebuild(grp *Group) {
	if grp == nil || grp.queued {
		return
	}
	grp.queued = true
	m.dirtyGroups = append(m.dirtyGroups, grp)
}

// Tick runs one frame of the pipeline. The returned error joins the
// overflow reports of this tick and the sink failures of the delivered
// collection; the pipeline itself always advances.
func (m *Manager) Tick() error {
	if m.closed {
		return ErrClosed
	}

	var errs []error
	quads, err := m.collect.finish(m.sink)
	if err != nil {
		m.log.Warn("hud: mesh upload failed", "err", err)
		errs = append(errs, err)
	}
	m.state = StateIdle

	stats := Stats{Frames: m.stats.Frames + 1, QuadsEmitted: quads}
	var rebuilds []*parallel.Task
	for _, b := range m.batches {
		for _, err := range b.Resolve(m.RegisterGroupForRebuild) {
			var oe *OverflowError
			if errors.As(err, &oe) {
				stats.Overflows++
			}
			errs = append(errs, err)
		}
		if t := b.ScheduleRebuild(m.pool, &m.params, m.cfg.RebuildBatchSize); t != nil {
			rebuilds = append(rebuilds, t)
			stats.DirtyItems += b.LastRebuildCount()
			m.state = StateRebuildScheduled
		}
	}
	stats.RebuildTasks = len(rebuilds)

	m.collect.gather(m.dirtyGroups, m.batches)
	m.collect.schedule(m.pool, rebuilds)
	stats.GroupsGathered = len(m.collect.jobs)
	stats.QueuedWork = m.pool.QueuedWork()
	if stats.GroupsGathered > 0 {
		m.state = StateCollectionScheduled
	}

	for i, grp := range m.dirtyGroups {
		grp.queued = false
		m.dirtyGroups[i] = nil
	}
	m.dirtyGroups = m.dirtyGroups[:0]

	if stats.Overflows > 0 {
		m.log.Warn("hud: arena overflow", "rejected", stats.Overflows)
	}
	m.log.Debug("hud: tick",
		"frame", stats.Frames,
		"dirty", stats.DirtyItems,
		"groups", stats.GroupsGathered,
		"quads", stats.QuadsEmitted,
		"queued", stats.QueuedWork)
	m.stats = stats
	return errors.Join(errs...)
}

// Flush waits for in-flight kernels and delivers the pending collection
// without starting new work.
func (m *Manager) Flush() error {
	if m.closed {
		return ErrClosed
	}
	quads, err := m.collect.finish(m.sink)
	m.stats.QuadsEmitted += quads
	m.state = StateIdle
	if err != nil {
		m.log.Warn("hud: mesh upload failed", "err", err)
	}
	return err
}
