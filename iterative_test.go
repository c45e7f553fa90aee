// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer_test

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	placer "github.com/db47h/fpgaplace"
)

// connectedNetlist builds a netlist where every LUT/FF fans in from one of
// two IPins and fans out to its own dedicated OPin, so that it still has
// two nets to contribute to HPWL after being moved. An OPin's single input
// port holds at most one fanin, so one OPin is allocated per movable atom
// rather than sharing a pair of OPins across all of them.
func connectedNetlist(t *testing.T, numLUTs, numFFs int) *placer.Netlist {
	t.Helper()
	n := placer.NewNetlist(2, numLUTs+numFFs, numLUTs, numFFs, 2, 2, numLUTs+numFFs+4)
	connect := func(out placer.AtomRef, outPort int, in placer.AtomRef, inPort int) {
		t.Helper()
		if err := n.Connect(n.OutputPort(out, outPort), n.InputPort(in, inPort)); err != nil {
			t.Fatalf("Connect() = %v", err)
		}
	}
	for i := 0; i < numLUTs; i++ {
		connect(n.IPinAtom(0), 0, n.LUT(i), 0)
		connect(n.LUT(i), 0, n.OPinAtom(i), 0)
	}
	for i := 0; i < numFFs; i++ {
		connect(n.IPinAtom(1), 0, n.FF(i), 0)
		connect(n.FF(i), 0, n.OPinAtom(numLUTs+i), 0)
	}
	return n
}

// Random descent never worsens bbox: every recorded "prev_bbox" in the
// iter stream must be >= the final bbox, since every step either improves
// or is undone.
func TestRandomPlacement_neverWorsens(t *testing.T) {
	n := connectedNetlist(t, 10, 10)
	chip, err := placer.NewChip(20, 20, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}

	var iterBuf bytes.Buffer
	sink := &placer.MetricSink{IterStream: &iterBuf}
	if err := placer.RandomPlacement(chip, 200, 42, sink); err != nil {
		t.Fatalf("RandomPlacement() = %v", err)
	}

	final := chip.Bbox()
	sc := bufio.NewScanner(strings.NewReader(iterBuf.String()))
	prev := int64(-1)
	for sc.Scan() {
		v, err := strconv.ParseInt(sc.Text(), 10, 64)
		if err != nil {
			t.Fatalf("parsing iter line %q: %v", sc.Text(), err)
		}
		if prev >= 0 && v > prev {
			t.Errorf("iter stream bbox increased: %d -> %d", prev, v)
		}
		prev = v
	}
	if prev >= 0 && final > prev {
		t.Errorf("final bbox %d exceeds last recorded prev_bbox %d", final, prev)
	}
}

func TestRandomPlacement_deterministicWithSeed(t *testing.T) {
	n := connectedNetlist(t, 8, 8)
	base, err := placer.NewChip(16, 16, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}

	a := base.Clone()
	b := base.Clone()
	if err := placer.RandomPlacement(a, 500, 7, nil); err != nil {
		t.Fatalf("RandomPlacement(a) = %v", err)
	}
	if err := placer.RandomPlacement(b, 500, 7, nil); err != nil {
		t.Fatalf("RandomPlacement(b) = %v", err)
	}
	if a.Bbox() != b.Bbox() {
		t.Fatalf("two runs with the same seed diverged: %d != %d", a.Bbox(), b.Bbox())
	}
}

// Simulated annealing with hot=0 degenerates to random descent, since
// every worsening move is then rejected unconditionally.
func TestSimulatedAnnealing_zeroTemperatureMatchesRandomDescent(t *testing.T) {
	n := connectedNetlist(t, 1, 0)
	base, err := placer.NewChip(10, 10, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}

	rd := base.Clone()
	sa := base.Clone()

	const numIter = 64
	if err := placer.RandomPlacement(rd, numIter, 99, nil); err != nil {
		t.Fatalf("RandomPlacement() = %v", err)
	}
	if err := placer.SimulatedAnnealing(sa, 1, numIter, 0, 0.5, 99, nil); err != nil {
		t.Fatalf("SimulatedAnnealing() = %v", err)
	}

	if rd.Bbox() != sa.Bbox() {
		t.Fatalf("SimulatedAnnealing(hot=0) bbox = %d, want RandomPlacement's %d", sa.Bbox(), rd.Bbox())
	}
}

func TestSimulatedAnnealing_snapshotsBracketRun(t *testing.T) {
	n := connectedNetlist(t, 4, 4)
	chip, err := placer.NewChip(10, 10, n)
	if err != nil {
		t.Fatalf("NewChip() = %v", err)
	}
	var snapBuf bytes.Buffer
	sink := &placer.MetricSink{SnapshotStream: &snapBuf}
	if err := placer.SimulatedAnnealing(chip, 2, 10, 1.0, 0.5, 1, sink); err != nil {
		t.Fatalf("SimulatedAnnealing() = %v", err)
	}
	out := snapBuf.String()
	if !strings.HasPrefix(out, "ss 0 ") {
		t.Errorf("snapshot stream does not start with a step-0 header: %q", out[:min(20, len(out))])
	}
	if strings.Count(out, "ss ") < 2 {
		t.Errorf("expected at least a start and an end snapshot, got: %q", out)
	}
}
