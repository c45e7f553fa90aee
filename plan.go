// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Axis selects the split axis for Plan.RecursivePartition.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Method selects how the split coordinate is chosen within a bound.
type Method int

const (
	// Adaptive splits at the median atom's coordinate, clamped to the
	// partition's bound.
	Adaptive Method = iota
	// Bisection splits at the midpoint of the partition's bound.
	Bisection
)

// Bound is an axis-aligned rectangle [X0,X1] x [Y0,Y1], using the same
// (x,y) convention as Chip: x ranges over [0,height], y over [0,width].
type Bound struct {
	X0, X1 float64
	Y0, Y1 float64
}

func (b Bound) lo(axis Axis) float64 {
	if axis == AxisX {
		return b.X0
	}
	return b.Y0
}

func (b Bound) hi(axis Axis) float64 {
	if axis == AxisX {
		return b.X1
	}
	return b.Y1
}

func (b Bound) withHi(axis Axis, v float64) Bound {
	if axis == AxisX {
		b.X1 = v
	} else {
		b.Y1 = v
	}
	return b
}

func (b Bound) withLo(axis Axis, v float64) Bound {
	if axis == AxisX {
		b.X0 = v
	} else {
		b.Y0 = v
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Plan is a continuous-coordinate placement of a Netlist's movable atoms,
// recursively partitioned into independently-solved regions by the
// quadratic placer.
type Plan struct {
	netlist *Netlist
	width   int
	height  int

	lutCoord []Point
	ffCoord  []Point

	partitions [][]AtomRef
	bounds     []Bound

	log *zap.Logger
}

// PlanOption configures a Plan at construction time.
type PlanOption func(*Plan)

// WithPlanLogger attaches a structured logger to a Plan.
func WithPlanLogger(log *zap.Logger) PlanOption {
	return func(p *Plan) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPlan builds a Plan over netlist with every movable atom initially at
// (0,0) and a single partition covering the full chip rectangle. It
// enforces the same dimension invariants as NewChip.
func NewPlan(width, height int, n *Netlist, opts ...PlanOption) (*Plan, error) {
	if err := validateDimensions(width, height, n); err != nil {
		return nil, err
	}
	p := &Plan{
		netlist:  n,
		width:    width,
		height:   height,
		lutCoord: make([]Point, n.NumLUTs()),
		ffCoord:  make([]Point, n.NumFFs()),
		log:      zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}

	initial := make([]AtomRef, 0, n.NumMovable())
	for i := 0; i < n.NumLUTs(); i++ {
		initial = append(initial, AtomRef{LUT, i})
	}
	for i := 0; i < n.NumFFs(); i++ {
		initial = append(initial, AtomRef{FF, i})
	}
	p.partitions = [][]AtomRef{initial}
	p.bounds = []Bound{{X0: 0, X1: float64(height), Y0: 0, Y1: float64(width)}}
	return p, nil
}

// Width and Height return the plan's grid dimensions.
func (p *Plan) Width() int  { return p.width }
func (p *Plan) Height() int { return p.height }

// Netlist returns the netlist this Plan places.
func (p *Plan) Netlist() *Netlist { return p.netlist }

// Partitions returns the current list of atom partitions.
func (p *Plan) Partitions() [][]AtomRef { return p.partitions }

// Bounds returns the bound rectangle parallel to each partition.
func (p *Plan) Bounds() []Bound { return p.bounds }

func (p *Plan) setCoord(a AtomRef, pt Point) {
	switch a.Kind {
	case LUT:
		p.lutCoord[a.Idx] = pt
	case FF:
		p.ffCoord[a.Idx] = pt
	}
}

func (p *Plan) getCoord(a AtomRef) Point {
	switch a.Kind {
	case LUT:
		return p.lutCoord[a.Idx]
	case FF:
		return p.ffCoord[a.Idx]
	case IPin:
		return borderPinCoord(IPin, a.Idx, p.netlist.NumIPins(), p.width, p.height)
	case OPin:
		return borderPinCoord(OPin, a.Idx, p.netlist.NumOPins(), p.width, p.height)
	default:
		panic(fmt.Sprintf("placer: unknown atom kind %v", a.Kind))
	}
}

// GetCoord returns the real-valued coordinate of a movable atom, or the
// fixed border coordinate of an I/O pin.
func (p *Plan) GetCoord(a AtomRef) (Point, error) {
	switch a.Kind {
	case LUT:
		if a.Idx < 0 || a.Idx >= len(p.lutCoord) {
			return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
		}
	case FF:
		if a.Idx < 0 || a.Idx >= len(p.ffCoord) {
			return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
		}
	case IPin:
		if a.Idx < 0 || a.Idx >= p.netlist.NumIPins() {
			return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
		}
	case OPin:
		if a.Idx < 0 || a.Idx >= p.netlist.NumOPins() {
			return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
		}
	default:
		return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
	}
	return p.getCoord(a), nil
}

// AssignCoords updates the coordinates of every atom in partition idx with
// the provided coords (same order as Partitions()[idx]) and stores bound
// as that partition's bound.
func (p *Plan) AssignCoords(idx int, coords []Point, bound Bound) error {
	part := p.partitions[idx]
	if len(part) != len(coords) {
		return errors.Errorf("placer: AssignCoords: partition has %d atoms, got %d coords", len(part), len(coords))
	}
	for i, a := range part {
		p.setCoord(a, coords[i])
	}
	p.bounds[idx] = bound
	return nil
}

func axisValue(pt Point, axis Axis) float64 {
	if axis == AxisX {
		return pt.X
	}
	return pt.Y
}

func lessXMajor(lhs, rhs Point) bool {
	return lhs.X < rhs.X || (lhs.X == rhs.X && lhs.Y < rhs.Y)
}

func lessYMajor(lhs, rhs Point) bool {
	return lhs.Y < rhs.Y || (lhs.Y == rhs.Y && lhs.X < rhs.X)
}

// RecursivePartition splits every non-empty partition in two along axis:
// the partition is sorted by the split axis (x-major for AxisX, y-major
// for AxisY), split so the lower half gets floor(|P|/2) atoms, and the
// split coordinate is either the (clamped) median atom's coordinate
// (Adaptive) or the midpoint of the bound (Bisection). Empty partitions
// pass through unchanged. A full sort.Slice stands in for a partial sort;
// only the bucketing into halves matters, not the order within each half.
func (p *Plan) RecursivePartition(axis Axis, method Method) error {
	oldPartitions, oldBounds := p.partitions, p.bounds
	newPartitions := make([][]AtomRef, 0, len(oldPartitions)*2)
	newBounds := make([]Bound, 0, len(oldBounds)*2)

	less := lessXMajor
	if axis == AxisY {
		less = lessYMajor
	}

	for i, part := range oldPartitions {
		bound := oldBounds[i]
		if len(part) == 0 {
			newPartitions = append(newPartitions, part)
			newBounds = append(newBounds, bound)
			continue
		}

		sorted := append([]AtomRef(nil), part...)
		sort.Slice(sorted, func(i, j int) bool {
			return less(p.getCoord(sorted[i]), p.getCoord(sorted[j]))
		})

		mid := len(sorted) / 2
		lower := sorted[:mid]
		upper := sorted[mid:]

		var split float64
		switch method {
		case Adaptive:
			split = clamp(axisValue(p.getCoord(sorted[mid]), axis), bound.lo(axis), bound.hi(axis))
		case Bisection:
			split = (bound.lo(axis) + bound.hi(axis)) / 2
		default:
			return errors.Errorf("placer: unknown partitioning method %v", method)
		}

		newPartitions = append(newPartitions, lower, upper)
		newBounds = append(newBounds, bound.withHi(axis, split), bound.withLo(axis, split))
	}

	p.partitions = newPartitions
	p.bounds = newBounds
	p.log.Debug("plan partitioned", zap.Int("partitions", len(newPartitions)))
	return nil
}

// Clone returns an independent copy of the Plan sharing the same
// (read-only) Netlist.
func (p *Plan) Clone() *Plan {
	cp := &Plan{
		netlist:  p.netlist,
		width:    p.width,
		height:   p.height,
		lutCoord: append([]Point(nil), p.lutCoord...),
		ffCoord:  append([]Point(nil), p.ffCoord...),
		bounds:   append([]Bound(nil), p.bounds...),
		log:      p.log,
	}
	cp.partitions = make([][]AtomRef, len(p.partitions))
	for i, part := range p.partitions {
		cp.partitions[i] = append([]AtomRef(nil), part...)
	}
	return cp
}

// writeSnapshot writes one "(<x>,<y>)\n" line per movable atom in
// netlist-iteration order (LUTs then FFs), mirroring Chip.writeSnapshot but
// with floating-point coordinates.
func (p *Plan) writeSnapshot(w io.Writer) error {
	var err error
	write := func(a AtomRef) {
		if err != nil {
			return
		}
		pt := p.getCoord(a)
		_, err = fmt.Fprintf(w, "(%g,%g)\n", pt.X, pt.Y)
	}
	for i := 0; i < p.netlist.NumLUTs(); i++ {
		write(AtomRef{LUT, i})
	}
	for i := 0; i < p.netlist.NumFFs(); i++ {
		write(AtomRef{FF, i})
	}
	return err
}
