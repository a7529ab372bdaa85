// Copyright 2014 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import "errors"

// ErrNodeNotExisting is returned whenever a Slot addresses an empty or
// out-of-range cell. Every arena error collapses to this one, per
// spec.md §4.1: the caller never observes a partial edit.
var ErrNodeNotExisting = errors.New("graph: node id not existing")

// ErrTypTransitionNotAllowed is returned when the type refiner would move
// a node's lattice type down instead of up. Reaching this means the
// idealizer or refiner catalogue has a bug; it should be unreachable in
// a correct build.
var ErrTypTransitionNotAllowed = errors.New("graph: type transition not allowed")

// ErrVariableRedefinition is returned by Graph.Define when name is
// already bound at the current (topmost) lexical level.
type ErrVariableRedefinition struct{ Name string }

func (e *ErrVariableRedefinition) Error() string {
	return "graph: variable redefined: " + e.Name
}

// ErrVariableUndefined is returned by Graph.Redefine/Undefine (and by the
// parser for an unbound name) when name is not bound at any visible
// lexical level. Graph.Lookup reports a miss through its bool result.
type ErrVariableUndefined struct{ Name string }

func (e *ErrVariableUndefined) Error() string {
	return "graph: variable undefined: " + e.Name
}

// ErrInvariantViolation is returned by CheckInvariants when a node's
// input/output edge lists fail to agree with each other.
type ErrInvariantViolation struct{ Detail string }

func (e *ErrInvariantViolation) Error() string {
	return "graph: invariant violated: " + e.Detail
}
