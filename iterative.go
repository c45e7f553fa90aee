// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import (
	"math"
	"math/rand"
)

// pickMovableAtom picks a movable atom: a fair coin chooses between LUT
// and FF regardless of the relative population of the two kinds, then an
// atom of the chosen kind is picked uniformly. Falls back to whichever
// kind is non-empty if one of them has no atoms at all.
func pickMovableAtom(n *Netlist, rng *rand.Rand) AtomRef {
	hasLUT, hasFF := n.NumLUTs() > 0, n.NumFFs() > 0
	useLUT := hasLUT
	switch {
	case hasLUT && hasFF:
		useLUT = rng.Intn(2) == 0
	case hasFF:
		useLUT = false
	}
	if useLUT {
		return AtomRef{LUT, rng.Intn(n.NumLUTs())}
	}
	return AtomRef{FF, rng.Intn(n.NumFFs())}
}

// RandomPlacement refines chip in place for numIter iterations of
// randomized hill-climbing descent: each iteration swaps a
// uniformly-picked movable atom to a uniformly-picked target slot and
// undoes the move if it made bbox worse. The PRNG is seeded from seed so
// that repeated calls with identical inputs produce identical placements.
// Snapshots are emitted to sink at the start and end of the run, one
// iter-stream line per step.
func RandomPlacement(chip *Chip, numIter int, seed int64, sink *MetricSink) error {
	rng := rand.New(rand.NewSource(seed))
	maxTarget := chip.width * chip.height / 2

	if err := sink.writeSnapshot(0, chip.width, chip.height, chip); err != nil {
		return err
	}

	for i := 0; i < numIter; i++ {
		prevBbox := chip.bbox
		if err := sink.writeIter(prevBbox); err != nil {
			return err
		}

		atom := pickMovableAtom(chip.netlist, rng)
		target := rng.Intn(maxTarget)
		prevIdx := chip.Swap(atom, target)

		if chip.Bbox() > prevBbox {
			chip.Swap(atom, prevIdx)
		}
	}

	if err := sink.writeSnapshot(numIter, chip.width, chip.height, chip); err != nil {
		return err
	}
	return sink.Flush()
}

// SimulatedAnnealing refines chip in place over `outer` temperature steps
// of `inner*numMovableAtoms` moves each. Temperature starts at hot
// and is multiplied by cooling after each outer step. Improving or
// cost-neutral moves are always accepted; a worsening move of magnitude
// delta = new-prev > 0 is accepted iff U < exp(-delta/T) for U uniform on
// [0,1) — with hot == 0 this rejects every worsening move, degenerating to
// RandomPlacement.
func SimulatedAnnealing(chip *Chip, outer, inner int, hot, cooling float64, seed int64, sink *MetricSink) error {
	rng := rand.New(rand.NewSource(seed))
	maxTarget := chip.width * chip.height / 2
	numMovable := chip.netlist.NumLUTs() + chip.netlist.NumFFs()

	if err := sink.writeSnapshot(0, chip.width, chip.height, chip); err != nil {
		return err
	}

	temperature := hot
	step := 0
	for o := 0; o < outer; o++ {
		for j := 0; j < inner*numMovable; j++ {
			prevBbox := chip.bbox
			if err := sink.writeIter(prevBbox); err != nil {
				return err
			}

			atom := pickMovableAtom(chip.netlist, rng)
			target := rng.Intn(maxTarget)
			prevIdx := chip.Swap(atom, target)

			delta := chip.Bbox() - prevBbox
			if delta > 0 {
				accept := temperature > 0 && rng.Float64() < math.Exp(-float64(delta)/temperature)
				if !accept {
					chip.Swap(atom, prevIdx)
				}
			}
			step++
		}
		temperature *= cooling
	}

	if err := sink.writeSnapshot(step, chip.width, chip.height, chip); err != nil {
		return err
	}
	return sink.Flush()
}
