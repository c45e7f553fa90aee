// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import "math/rand"

// RandomNetlistOptions configures RandomNetlist.
type RandomNetlistOptions struct {
	NumIPins, NumOPins, NumLUTs, NumFFs int
	NumInputs, NumOutputs               int
	// FanoutCap bounds each output port's fanout count. Callers sizing a
	// netlist for the quadratic/iterative placers should leave this
	// effectively unbounded (e.g. 10000000).
	FanoutCap int
	// ConnectProb is the independent probability that any given input
	// port gets wired to a random driver. Zero defaults to 0.25.
	ConnectProb float64
	// Phases, when > 0, tags every LUT and FF with a pipeline-stage label
	// drawn uniformly from [0, Phases). The labels are carried on the
	// Netlist and written by DumpNetlist; the quadratic placer does not
	// read them.
	Phases int
	Seed   int64
}

// RandomNetlist builds a Netlist of the requested shape and wires it up
// pseudo-randomly: every OPin's input port, and every LUT/FF input port,
// independently has probability ConnectProb of being connected to a
// randomly chosen driver output port (a LUT/FF output port, or an IPin's
// output port; see randomDriver for the draw). Connections that would exceed a driver's fanout
// capacity are silently skipped, since capacity violations are a normal,
// expected outcome of random wiring rather than a structural error.
func RandomNetlist(opts RandomNetlistOptions) *Netlist {
	connectProb := opts.ConnectProb
	if connectProb == 0 {
		connectProb = 0.25
	}

	n := NewNetlist(opts.NumIPins, opts.NumOPins, opts.NumLUTs, opts.NumFFs, opts.NumInputs, opts.NumOutputs, opts.FanoutCap)
	rng := rand.New(rand.NewSource(opts.Seed))

	numAtoms := opts.NumLUTs + opts.NumFFs
	numDrivers := opts.NumOutputs + opts.NumIPins

	// randomDriver draws a LUT/FF uniformly, then a slot uniformly from
	// [0, NumOutputs+NumIPins): a slot below NumOutputs selects that output
	// port of the drawn atom, any other slot selects the matching IPin's
	// output port. Each IPin is therefore picked with probability
	// 1/(NumOutputs+NumIPins), far more often than any single LUT/FF port.
	randomDriver := func() OutputRef {
		atomIdx := rng.Intn(numAtoms)
		var owner AtomRef
		if atomIdx < opts.NumLUTs {
			owner = AtomRef{LUT, atomIdx}
		} else {
			owner = AtomRef{FF, atomIdx - opts.NumLUTs}
		}

		portIdx := rng.Intn(numDrivers)
		if portIdx < opts.NumOutputs {
			return OutputRef{owner, portIdx}
		}
		return OutputRef{AtomRef{IPin, portIdx - opts.NumOutputs}, 0}
	}

	connect := func(in InputRef) {
		if rng.Float64() >= connectProb {
			return
		}
		_ = n.Connect(randomDriver(), in)
	}

	for i := 0; i < opts.NumOPins; i++ {
		connect(InputRef{AtomRef{OPin, i}, 0})
	}
	for i := 0; i < opts.NumLUTs; i++ {
		for p := 0; p < opts.NumInputs; p++ {
			connect(InputRef{AtomRef{LUT, i}, p})
		}
	}
	for i := 0; i < opts.NumFFs; i++ {
		for p := 0; p < opts.NumInputs; p++ {
			connect(InputRef{AtomRef{FF, i}, p})
		}
	}

	if opts.Phases > 0 {
		for i := 0; i < opts.NumLUTs; i++ {
			n.SetPhase(AtomRef{LUT, i}, rng.Intn(opts.Phases))
		}
		for i := 0; i < opts.NumFFs; i++ {
			n.SetPhase(AtomRef{FF, i}, rng.Intn(opts.Phases))
		}
	}

	return n
}
