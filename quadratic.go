// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import (
	"github.com/db47h/fpgaplace/internal/solve"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// avgIPinFanout returns the average number of connections fanning out of
// an IPin's single output port, truncated to an integer before being
// widened back to float64 for use as an anchor-term multiplier.
func avgIPinFanout(n *Netlist) float64 {
	if n.NumIPins() == 0 {
		return 0
	}
	var sum int64
	for i := 0; i < n.NumIPins(); i++ {
		sum += int64(len(n.Fanouts(n.OutputPort(AtomRef{IPin, i}, 0))))
	}
	return float64(sum / int64(n.NumIPins()))
}

// pinCoord resolves atom's coordinate (border-fixed for I/O pins, solved
// or initial for movable atoms) and clamps it component-wise into bound.
func pinCoord(p *Plan, atom AtomRef, bound Bound) Point {
	pt := p.getCoord(atom)
	pt.X = clamp(pt.X, bound.X0, bound.X1)
	pt.Y = clamp(pt.Y, bound.Y0, bound.Y1)
	return pt
}

// buildPartitionSystem assembles the symmetric system A x = b (one b per
// axis) for one partition: every atom in the partition is a row;
// an edge to another in-partition atom contributes an edge-weighted
// Laplacian entry (+invWeight on the diagonal, -invWeight off-diagonal);
// an edge to an out-of-partition atom instead anchors the row with the
// damped weight w = invWeight*pinWeightFactor (scaled again by
// avgIPinFanout when the anchor is an OPin), adding w to the diagonal and
// w*coord to the right-hand side.
func buildPartitionSystem(plan *Plan, partition []AtomRef, bound Bound, pinWeightFactor, avgIPinFanout float64) (*mat.SymDense, *mat.VecDense, *mat.VecDense) {
	n := len(partition)
	index := make(map[AtomRef]int, n)
	for i, a := range partition {
		index[a] = i
	}

	dense := mat.NewDense(n, n, nil)
	bx := mat.NewVecDense(n, nil)
	by := mat.NewVecDense(n, nil)

	registerTarget := func(x int, self AtomRef, invWeight float64, target AtomRef) {
		if target == self {
			return
		}
		if y, ok := index[target]; ok {
			dense.Set(x, x, dense.At(x, x)+invWeight)
			dense.Set(x, y, dense.At(x, y)-invWeight)
			return
		}
		// the anchor's damped weight goes on both the diagonal and the RHS,
		// so damping weakens the pull without moving its target point.
		coord := pinCoord(plan, target, bound)
		w := invWeight * pinWeightFactor
		if target.Kind == OPin {
			w *= avgIPinFanout
		}
		dense.Set(x, x, dense.At(x, x)+w)
		bx.SetVec(x, bx.AtVec(x)+w*coord.X)
		by.SetVec(x, by.AtVec(x)+w*coord.Y)
	}

	for x, atom := range partition {
		for i := 0; i < plan.netlist.NumInputs(atom); i++ {
			in := plan.netlist.InputPort(atom, i)
			out, ok := plan.netlist.Fanin(in)
			if !ok {
				continue
			}
			invWeight := 1.0 / float64(len(plan.netlist.Fanouts(out)))
			registerTarget(x, atom, invWeight, out.Atom)
		}
		for i := 0; i < plan.netlist.NumOutputs(atom); i++ {
			out := plan.netlist.OutputPort(atom, i)
			fanouts := plan.netlist.Fanouts(out)
			if len(fanouts) == 0 {
				continue
			}
			invWeight := 1.0 / float64(len(fanouts))
			for _, in := range fanouts {
				registerTarget(x, atom, invWeight, in.Atom)
			}
		}
	}

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, dense.At(i, j))
		}
	}
	return sym, bx, by
}

// QuadraticPlacement builds a fresh Plan over an (width x height) netlist n
// and runs numIter rounds of recursive bi-partitioning (alternating AxisX
// and AxisY, per method) followed by an independent linear solve of each
// partition. expectedPhases scales every anchor contributed by an
// out-of-partition neighbor by 1/expectedPhases (deeper pipelines couple
// partitions more loosely), with OPin anchors additionally scaled by the
// netlist's average IPin fanout. A snapshot of the Plan is emitted to sink
// after every round.
func QuadraticPlacement(width, height int, n *Netlist, numIter int, method Method, expectedPhases int, sink *MetricSink, opts ...PlanOption) (*Plan, error) {
	if expectedPhases <= 0 {
		return nil, errors.Errorf("placer: expectedPhases must be positive, got %d", expectedPhases)
	}

	plan, err := NewPlan(width, height, n, opts...)
	if err != nil {
		return nil, err
	}

	pinWeightFactor := 1.0 / float64(expectedPhases)
	avgFanout := avgIPinFanout(n)

	axis := AxisX
	for i := 0; i < numIter; i++ {
		if i > 0 {
			if err := plan.RecursivePartition(axis, method); err != nil {
				return nil, err
			}
			if axis == AxisX {
				axis = AxisY
			} else {
				axis = AxisX
			}
		}

		for idx, partition := range plan.Partitions() {
			if len(partition) == 0 {
				continue
			}
			bound := plan.Bounds()[idx]
			sym, bx, by := buildPartitionSystem(plan, partition, bound, pinWeightFactor, avgFanout)

			factor := solve.Factorize(sym)
			solX, err := factor.Solve(bx)
			if err != nil {
				return nil, errors.Wrap(err, "placer: quadratic placement")
			}
			solY, err := factor.Solve(by)
			if err != nil {
				return nil, errors.Wrap(err, "placer: quadratic placement")
			}

			coords := make([]Point, len(partition))
			for j := range partition {
				coords[j] = Point{X: solX.AtVec(j), Y: solY.AtVec(j)}
			}
			if err := plan.AssignCoords(idx, coords, bound); err != nil {
				return nil, err
			}
		}

		if err := sink.writeSnapshot(i, width, height, plan); err != nil {
			return nil, err
		}
	}

	if err := sink.Flush(); err != nil {
		return nil, err
	}
	return plan, nil
}
