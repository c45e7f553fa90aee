// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

// Point is a placement coordinate. Chip uses integer-valued Points; Plan
// uses real-valued ones. A single float64-backed type is used for both so
// the HPWL evaluator (coordFunc below) can serve both placement kinds
// without duplication.
type Point struct {
	X, Y float64
}

// coordFunc resolves an atom (movable or border pin) to its current
// placement coordinate. Chip and Plan each provide one.
type coordFunc func(AtomRef) Point

// borderPinCoord computes the fixed border position of an IPin or OPin:
// IPins occupy column x=-1 at y = floor(k*H/|IPins|) for k=0..|IPins|-1;
// OPins occupy column x=W at y = floor(k*H/|OPins|).
func borderPinCoord(k Kind, idx, count, width, height int) Point {
	y := float64((idx * height) / count)
	if k == IPin {
		return Point{X: -1, Y: y}
	}
	return Point{X: float64(width), Y: y}
}

// bboxForNet computes the HPWL of one net: the Manhattan perimeter of the
// axis-aligned bounding box over the output port's source coordinate and
// all of its fanout input ports' coordinates.
func bboxForNet(n *Netlist, out OutputRef, coord coordFunc) float64 {
	src := coord(out.Atom)
	minX, maxX := src.X, src.X
	minY, maxY := src.Y, src.Y
	for _, in := range n.Fanouts(out) {
		p := coord(in.Atom)
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return (maxX - minX) + (maxY - minY)
}

// bboxForAtom sums bboxForNet over every distinct net atom participates in:
// each of its own output nets plus, for each input port with a fanin, the
// upstream output's net. A net reaching the atom through several ports (an
// output driving two of its inputs, or its own input) is counted once.
func bboxForAtom(n *Netlist, a AtomRef, coord coordFunc) float64 {
	seen := make(map[OutputRef]bool, n.NumOutputs(a)+n.NumInputs(a))
	var total float64
	add := func(out OutputRef) {
		if !seen[out] {
			seen[out] = true
			total += bboxForNet(n, out, coord)
		}
	}
	for i := 0; i < n.NumOutputs(a); i++ {
		add(n.OutputPort(a, i))
	}
	for i := 0; i < n.NumInputs(a); i++ {
		if out, ok := n.Fanin(n.InputPort(a, i)); ok {
			add(out)
		}
	}
	return total
}

// totalCost sums bboxForNet over every net in the netlist: the output ports
// of IPins, LUTs, and FFs (OPins emit no nets).
func totalCost(n *Netlist, coord coordFunc) float64 {
	var total float64
	acc := func(a AtomRef) {
		for i := 0; i < n.NumOutputs(a); i++ {
			total += bboxForNet(n, n.OutputPort(a, i), coord)
		}
	}
	for i := range n.ipins {
		acc(AtomRef{IPin, i})
	}
	for i := range n.luts {
		acc(AtomRef{LUT, i})
	}
	for i := range n.ffs {
		acc(AtomRef{FF, i})
	}
	return total
}
