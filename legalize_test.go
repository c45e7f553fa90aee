// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer_test

import (
	"testing"

	placer "github.com/db47h/fpgaplace"
)

// Legalize must resolve every atom to a distinct, correctly-paritied slot
// even when every atom starts from the exact same continuous coordinate,
// exercising the ladder-search collision resolution.
func TestLegalize_resolvesCollisions(t *testing.T) {
	n := placer.NewNetlist(1, 1, 6, 6, 1, 1, 1)
	p, err := placer.NewPlan(8, 8, n)
	if err != nil {
		t.Fatalf("NewPlan() = %v", err)
	}

	part := p.Partitions()[0]
	coords := make([]placer.Point, len(part))
	for i := range coords {
		coords[i] = placer.Point{X: 2, Y: 2}
	}
	if err := p.AssignCoords(0, coords, p.Bounds()[0]); err != nil {
		t.Fatalf("AssignCoords() = %v", err)
	}

	chip, err := placer.Legalize(p)
	if err != nil {
		t.Fatalf("Legalize() = %v", err)
	}

	seen := make(map[placer.Point]placer.AtomRef)
	for i := 0; i < n.NumLUTs(); i++ {
		a := n.LUT(i)
		pt, err := chip.CoordOf(a)
		if err != nil {
			t.Fatalf("CoordOf(%v) = %v", a, err)
		}
		if prev, ok := seen[pt]; ok {
			t.Fatalf("slot %v occupied by both %v and %v", pt, prev, a)
		}
		seen[pt] = a
		if slot := int(pt.X)*chip.Width() + int(pt.Y); slot%2 != 0 {
			t.Errorf("LUT %d landed on odd slot %d", i, slot)
		}
	}
	for i := 0; i < n.NumFFs(); i++ {
		a := n.FF(i)
		pt, err := chip.CoordOf(a)
		if err != nil {
			t.Fatalf("CoordOf(%v) = %v", a, err)
		}
		if prev, ok := seen[pt]; ok {
			t.Fatalf("slot %v occupied by both %v and %v", pt, prev, a)
		}
		seen[pt] = a
		if slot := int(pt.X)*chip.Width() + int(pt.Y); slot%2 != 1 {
			t.Errorf("FF %d landed on even slot %d", i, slot)
		}
	}
}

// A fractional coordinate legalizes to the nearest grid row/column, not
// the truncated one: (2.6, 1.7) must land at (3, 2), not (2, 1).
func TestLegalize_roundsToNearestSlot(t *testing.T) {
	n := placer.NewNetlist(0, 0, 1, 0, 1, 1, 1)
	p, err := placer.NewPlan(8, 8, n)
	if err != nil {
		t.Fatalf("NewPlan() = %v", err)
	}
	if err := p.AssignCoords(0, []placer.Point{{X: 2.6, Y: 1.7}}, p.Bounds()[0]); err != nil {
		t.Fatalf("AssignCoords() = %v", err)
	}

	chip, err := placer.Legalize(p)
	if err != nil {
		t.Fatalf("Legalize() = %v", err)
	}
	pt, err := chip.CoordOf(n.LUT(0))
	if err != nil {
		t.Fatalf("CoordOf() = %v", err)
	}
	if pt != (placer.Point{X: 3, Y: 2}) {
		t.Errorf("legalized coord = %v, want (3,2)", pt)
	}
}

func TestLegalize_outOfRangeCoordIsClamped(t *testing.T) {
	n := placer.NewNetlist(0, 0, 1, 0, 1, 1, 1)
	p, err := placer.NewPlan(4, 4, n)
	if err != nil {
		t.Fatalf("NewPlan() = %v", err)
	}
	if err := p.AssignCoords(0, []placer.Point{{X: 1000, Y: -1000}}, p.Bounds()[0]); err != nil {
		t.Fatalf("AssignCoords() = %v", err)
	}

	chip, err := placer.Legalize(p)
	if err != nil {
		t.Fatalf("Legalize() = %v", err)
	}
	pt, err := chip.CoordOf(n.LUT(0))
	if err != nil {
		t.Fatalf("CoordOf() = %v", err)
	}
	if pt.X < 0 || pt.X > float64(chip.Height()-2) {
		t.Errorf("X = %g out of clamp range [0, %d]", pt.X, chip.Height()-2)
	}
	if pt.Y < 0 || pt.Y > float64(chip.Width()-2) {
		t.Errorf("Y = %g out of clamp range [0, %d]", pt.Y, chip.Width()-2)
	}
}
