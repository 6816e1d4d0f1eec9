// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import "strings"

// Operation is the accumulator of intents queued for one item between two
// ticks.
type Operation uint8

const (
	// OpTransformChanged requests a rewrite of the transform record.
	OpTransformChanged Operation = 1 << iota

	// OpVertexPropertyChanged requests a rewrite of the quad records.
	OpVertexPropertyChanged

	// OpAdd attaches the item to its batch.
	OpAdd

	// OpRemove detaches the item from its batch.
	OpRemove

	// OpActive makes the item visible.
	OpActive

	// OpDeActive hides the item.
	OpDeActive

	// OpNone is the empty accumulator.
	OpNone Operation = 0
)

// merge folds an arriving operation into the accumulator. An arriving Add
// strips a pending Remove and an arriving Remove strips a pending Add; the
// Active/DeActive pair behaves the same way. Change notifications are
// OR-ed in.
func (o Operation) merge(op Operation) Operation {
	if op&OpAdd != 0 {
		o &^= OpRemove
	}
	if op&OpRemove != 0 {
		o &^= OpAdd
	}
	if op&OpActive != 0 {
		o &^= OpDeActive
	}
	if op&OpDeActive != 0 {
		o &^= OpActive
	}
	return o | op
}

// Has reports whether all bits of mask are set.
func (o Operation) Has(mask Operation) bool {
	return o&mask == mask
}

var operationNames = []struct {
	op   Operation
	name string
}{
	{OpTransformChanged, "TransformChanged"},
	{OpVertexPropertyChanged, "VertexPropertyChanged"},
	{OpAdd, "Add"},
	{OpRemove, "Remove"},
	{OpActive, "Active"},
	{OpDeActive, "DeActive"},
}

// String returns the set flags joined by '|', or "None".
func (o Operation) String() string {
	if o == OpNone {
		return "None"
	}
	var parts []string
	for _, n := range operationNames {
		if o&n.op != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
