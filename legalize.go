// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Legalize snaps a continuous Plan onto a discrete Chip of the same
// dimensions: each movable atom's solved coordinate is rounded to the
// nearest integer and clamped into the grid (x into [0, height-2], y into
// [0, width-2]),
// nudged onto a slot of the right parity for its kind, and then walked two
// slots at a time, first toward the origin and then away from it, until a
// free slot is found. Atoms are processed in netlist order (LUTs then FFs)
// so two runs over the same Plan produce the same Chip. It fails with
// ErrNoFreeSlot if an atom's ladder search is exhausted in both directions
// without finding a free slot.
func Legalize(p *Plan, opts ...ChipOption) (*Chip, error) {
	c := newEmptyChip(p.width, p.height, p.netlist, opts)
	maxIdx := c.width * c.height

	occupied := func(idx int) bool {
		return idx >= 0 && idx < maxIdx && c.slots[idx].occupied
	}

	place := func(atom AtomRef) error {
		pt := p.getCoord(atom)
		x := clampIdx(round(pt.X), int64(c.height)-2)
		y := clampIdx(round(pt.Y), int64(c.width)-2)

		idx := int(x)*c.width + int(y)
		if (atom.Kind == LUT && idx%2 == 1) || (atom.Kind == FF && idx%2 == 0) {
			idx++
		}

		curr := idx
		for occupied(curr) && curr-2 >= 0 {
			curr -= 2
		}
		if occupied(curr) {
			curr = idx
		}
		for occupied(curr) && curr+2 < maxIdx {
			curr += 2
		}

		if occupied(curr) {
			return errors.Wrapf(ErrNoFreeSlot, "%v", atom)
		}
		c.place(atom, curr)
		return nil
	}

	for i := 0; i < c.netlist.NumLUTs(); i++ {
		if err := place(AtomRef{LUT, i}); err != nil {
			return nil, err
		}
	}
	for i := 0; i < c.netlist.NumFFs(); i++ {
		if err := place(AtomRef{FF, i}); err != nil {
			return nil, err
		}
	}

	c.recomputeBbox()
	c.log.Debug("plan legalized", zap.Int64("bbox", c.bbox))
	return c, nil
}

func clampIdx(v, maxV int64) int64 {
	if v < 0 {
		return 0
	}
	if v > maxV {
		return maxV
	}
	return v
}
