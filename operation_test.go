// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import "testing"

func TestOperation_Merge(t *testing.T) {
	tests := []struct {
		name string
		ops  []Operation
		want Operation
	}{
		{"add then remove", []Operation{OpAdd, OpRemove}, OpRemove},
		{"remove then add", []Operation{OpRemove, OpAdd}, OpAdd},
		{"active then deactive", []Operation{OpActive, OpDeActive}, OpDeActive},
		{"deactive then active", []Operation{OpDeActive, OpActive}, OpActive},
		{"changes accumulate", []Operation{OpTransformChanged, OpVertexPropertyChanged, OpTransformChanged},
			OpTransformChanged | OpVertexPropertyChanged},
		{"changes survive add/remove", []Operation{OpTransformChanged, OpAdd, OpRemove},
			OpTransformChanged | OpRemove},
		{"pairs independent", []Operation{OpAdd, OpDeActive, OpActive}, OpAdd | OpActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acc Operation
			for _, op := range tt.ops {
				acc = acc.merge(op)
			}
			if acc != tt.want {
				t.Errorf("merged = %v, want %v", acc, tt.want)
			}
		})
	}
}

func TestOperation_String(t *testing.T) {
	if got := OpNone.String(); got != "None" {
		t.Errorf("OpNone.String() = %q", got)
	}
	if got := (OpAdd | OpTransformChanged).String(); got != "TransformChanged|Add" {
		t.Errorf("String() = %q, want TransformChanged|Add", got)
	}
	if !(OpAdd | OpActive).Has(OpActive) || OpAdd.Has(OpRemove) {
		t.Error("Has reports wrong membership")
	}
}
