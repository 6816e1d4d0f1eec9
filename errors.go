// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hud

import (
	"errors"
	"fmt"
)

var (
	// ErrArenaExhausted is wrapped by OverflowError when a batch slice has
	// no free record left.
	ErrArenaExhausted = errors.New("hud: arena slice exhausted")

	// ErrClosed is returned by operations on a closed Manager.
	ErrClosed = errors.New("hud: manager closed")

	// ErrNilGraphic is returned when a nil *Graphic is passed to the Manager.
	ErrNilGraphic = errors.New("hud: nil graphic")

	// ErrNilGroup is returned when a nil *Group is passed to the Manager.
	ErrNilGroup = errors.New("hud: nil group")

	// ErrForeignGraphic is returned when a graphic is routed to a manager
	// other than the one it is attached to.
	ErrForeignGraphic = errors.New("hud: graphic belongs to another manager")
)

// OverflowError reports an add that could not be served because the batch
// for the item's size class is full. The item stays unattached.
type OverflowError struct {
	Class    SizeClass
	Capacity int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("hud: %s batch full (capacity %d)", e.Class, e.Capacity)
}

// Unwrap returns ErrArenaExhausted.
func (e *OverflowError) Unwrap() error {
	return ErrArenaExhausted
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "hud: invalid config." + e.Field + ": " + e.Reason
}
