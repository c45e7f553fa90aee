// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import "github.com/pkg/errors"

// Sentinel error kinds. Callers can test for a specific kind with
// errors.Cause(err) == ErrXxx, since every wrapping call site in this
// package uses errors.Wrap/errors.Wrapf to add context without losing the
// underlying sentinel.
var (
	// ErrInvalidDimensions is returned when a Chip or Plan is constructed
	// with a grid too small for the netlist's atom and pin counts.
	ErrInvalidDimensions = errors.New("invalid chip dimensions")

	// ErrUnplaced is returned when querying the coordinate of an atom that
	// has no entry in the placement mapping.
	ErrUnplaced = errors.New("atom not placed")

	// ErrAlreadyConnected is returned by Netlist.Connect when the input
	// port already has a fanin.
	ErrAlreadyConnected = errors.New("input port already connected")

	// ErrCapacityExceeded is returned by Netlist.Connect when the output
	// port has no remaining fanout capacity.
	ErrCapacityExceeded = errors.New("output port fanout capacity exceeded")

	// ErrNoFreeSlot is returned by Legalize when the entire same-parity
	// slot ladder for an atom is occupied. Unreachable given the capacity
	// checks performed at construction time, but still surfaced rather
	// than panicking.
	ErrNoFreeSlot = errors.New("no free slot available during legalization")

	// ErrIOFailure is returned when a metric sink stream cannot be written
	// or flushed, or when DumpNetlist cannot encode to its writer.
	ErrIOFailure = errors.New("metric sink flush failed")
)
