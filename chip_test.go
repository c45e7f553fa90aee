// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer_test

import (
	"math"
	"testing"

	placer "github.com/db47h/fpgaplace"
)

func smallNetlist(t *testing.T) *placer.Netlist {
	t.Helper()
	n := placer.NewNetlist(2, 2, 6, 6, 2, 2, 4)
	connect := func(lhs, rhs placer.AtomRef) {
		t.Helper()
		if err := n.Connect(n.OutputPort(lhs, 0), n.InputPort(rhs, 0)); err != nil {
			t.Fatalf("Connect(%v, %v) = %v", lhs, rhs, err)
		}
	}
	connect(n.IPinAtom(0), n.LUT(0))
	connect(n.LUT(0), n.LUT(1))
	connect(n.LUT(1), n.FF(0))
	connect(n.FF(0), n.OPinAtom(0))
	connect(n.IPinAtom(1), n.FF(1))
	connect(n.FF(1), n.LUT(2))
	return n
}

// CoordOf must agree with the slot table of the initial placement: mapping
// each LUT's coordinate back to a slot index yields slot 2i for LUT i.
func TestChip_coordBijection(t *testing.T) {
	n := smallNetlist(t)
	c, err := placer.NewChip(4, 4, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}
	for i := 0; i < n.NumLUTs(); i++ {
		a := n.LUT(i)
		pt, err := c.CoordOf(a)
		if err != nil {
			t.Fatalf("CoordOf(%v) = %v", a, err)
		}
		slot := int(pt.X)*c.Width() + int(pt.Y)
		if slot != i*2 {
			t.Errorf("LUT %d at slot %d, want %d", i, slot, i*2)
		}
	}
}

// groundTruthBbox recomputes total HPWL from scratch via the public API
// only (CoordOf plus the net-enumeration accessors), independent of
// whatever incremental bookkeeping Swap performs internally.
func groundTruthBbox(t *testing.T, c *placer.Chip) int64 {
	t.Helper()
	n := c.Netlist()
	coord := func(a placer.AtomRef) placer.Point {
		p, err := c.CoordOf(a)
		if err != nil {
			t.Fatalf("CoordOf(%v) = %v", a, err)
		}
		return p
	}

	var total float64
	addNetsOf := func(a placer.AtomRef) {
		for i := 0; i < n.NumOutputs(a); i++ {
			out := n.OutputPort(a, i)
			fanouts := n.Fanouts(out)
			if len(fanouts) == 0 {
				continue
			}
			src := coord(a)
			minX, maxX := src.X, src.X
			minY, maxY := src.Y, src.Y
			for _, in := range fanouts {
				p := coord(in.Atom)
				minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
				minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			}
			total += (maxX - minX) + (maxY - minY)
		}
	}
	for i := 0; i < n.NumIPins(); i++ {
		addNetsOf(n.IPinAtom(i))
	}
	for i := 0; i < n.NumLUTs(); i++ {
		addNetsOf(n.LUT(i))
	}
	for i := 0; i < n.NumFFs(); i++ {
		addNetsOf(n.FF(i))
	}
	return int64(math.Round(total))
}

// Bbox must equal the ground-truth total HPWL after any sequence of swaps.
func TestChip_bboxMatchesGroundTruth(t *testing.T) {
	n := smallNetlist(t)
	c, err := placer.NewChip(6, 6, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}

	moves := []struct {
		atom   placer.AtomRef
		target int
	}{
		{n.LUT(0), 5},
		{n.FF(0), 2},
		{n.LUT(2), 0},
		{n.FF(1), 7},
	}
	for _, m := range moves {
		c.Swap(m.atom, m.target)
		if got, want := c.Bbox(), groundTruthBbox(t, c); got != want {
			t.Fatalf("after Swap(%v, %d): Bbox() = %d, want ground-truth %d", m.atom, m.target, got, want)
		}
	}

	if got, want := c.Bbox(), groundTruthBbox(t, c); got != want {
		t.Fatalf("Bbox() = %d, want ground-truth %d", got, want)
	}
}

// Swap(a, k) followed by Swap(a, prev) must restore the exact Chip state.
func TestChip_swapIsReversible(t *testing.T) {
	n := smallNetlist(t)
	c, err := placer.NewChip(6, 6, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}

	before := c.Clone()
	atom := n.LUT(1)
	prevIdx := c.Swap(atom, 4)
	c.Swap(atom, prevIdx)

	if c.Bbox() != before.Bbox() {
		t.Fatalf("Bbox() after round-trip swap = %d, want %d", c.Bbox(), before.Bbox())
	}
	for i := 0; i < n.NumLUTs(); i++ {
		a := n.LUT(i)
		got, _ := c.CoordOf(a)
		want, _ := before.CoordOf(a)
		if got != want {
			t.Errorf("LUT %d coord = %v, want %v", i, got, want)
		}
	}
}

func TestChip_invalidDimensions(t *testing.T) {
	n := placer.NewNetlist(10, 10, 100, 100, 2, 2, 4)
	if _, err := placer.NewChip(2, 2, n); err == nil {
		t.Fatal("NewChip() with an undersized grid should fail")
	}
}

func TestChip_swapPanicsOnNonMovableAtom(t *testing.T) {
	n := placer.NewNetlist(0, 0, 1, 0, 0, 0, 0)
	c, err := placer.NewChip(2, 2, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Swap() with a non-movable atom should panic")
		}
	}()
	c.Swap(n.IPinAtom(0), 0)
}
