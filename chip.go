// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Chip is a discrete placement of a Netlist's movable atoms (LUTs and FFs)
// onto a W x H grid, plus the fixed border positions of its I/O pins. Slot
// index i in [0, W*H) maps to (x, y) = (i/W, i%W); even slots host LUTs,
// odd slots host FFs. The mapping between movable atoms and slots is a
// bijection, maintained as two parallel index arrays rather than a generic
// bidirectional map: the universe of both sides is a dense small integer,
// so slots[idx] and lutSlot[i]/ffSlot[i] are enough.
type Chip struct {
	netlist *Netlist
	width   int
	height  int

	slots   []slotEntry // size width*height
	lutSlot []int       // lutSlot[i] = slot currently holding LUT i, or -1
	ffSlot  []int       // ffSlot[i] = slot currently holding FF i, or -1

	bbox int64

	log *zap.Logger
}

type slotEntry struct {
	occupied bool
	atom     AtomRef
}

// ChipOption configures a Chip at construction time.
type ChipOption func(*Chip)

// WithLogger attaches a structured logger to a Chip. A nil logger (the
// default) is equivalent to zap.NewNop().
func WithLogger(log *zap.Logger) ChipOption {
	return func(c *Chip) {
		if log != nil {
			c.log = log
		}
	}
}

func validateDimensions(width, height int, n *Netlist) error {
	maxMovable := n.NumLUTs()
	if n.NumFFs() > maxMovable {
		maxMovable = n.NumFFs()
	}
	if width*height < 2*maxMovable {
		return errors.Wrapf(ErrInvalidDimensions, "grid %dx%d too small for %d LUTs / %d FFs", width, height, n.NumLUTs(), n.NumFFs())
	}
	if height < n.NumIPins() {
		return errors.Wrapf(ErrInvalidDimensions, "height %d smaller than %d IPins", height, n.NumIPins())
	}
	if height < n.NumOPins() {
		return errors.Wrapf(ErrInvalidDimensions, "height %d smaller than %d OPins", height, n.NumOPins())
	}
	return nil
}

func newEmptyChip(width, height int, n *Netlist, opts []ChipOption) *Chip {
	c := &Chip{
		netlist: n,
		width:   width,
		height:  height,
		slots:   make([]slotEntry, width*height),
		lutSlot: make([]int, n.NumLUTs()),
		ffSlot:  make([]int, n.NumFFs()),
		log:     zap.NewNop(),
	}
	for i := range c.lutSlot {
		c.lutSlot[i] = -1
	}
	for i := range c.ffSlot {
		c.ffSlot[i] = -1
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewChip builds a Chip from a Netlist with the deterministic initial
// placement LUT i -> slot 2i, FF i -> slot 2i+1, and computes the initial
// bbox from scratch. It requires width*height >= 2*max(|LUTs|,|FFs|),
// height >= |IPins|, and height >= |OPins|.
func NewChip(width, height int, n *Netlist, opts ...ChipOption) (*Chip, error) {
	if err := validateDimensions(width, height, n); err != nil {
		return nil, err
	}
	c := newEmptyChip(width, height, n, opts)
	for i := 0; i < n.NumLUTs(); i++ {
		c.place(AtomRef{LUT, i}, lutToSlot(i))
	}
	for i := 0; i < n.NumFFs(); i++ {
		c.place(AtomRef{FF, i}, ffToSlot(i))
	}
	c.bbox = round(totalCost(n, c.coordOf))
	c.log.Debug("chip placed", zap.Int("width", width), zap.Int("height", height), zap.Int64("bbox", c.bbox))
	return c, nil
}

func lutToSlot(idx int) int { return idx * 2 }
func ffToSlot(idx int) int  { return idx*2 + 1 }

func (c *Chip) place(a AtomRef, slot int) {
	c.slots[slot] = slotEntry{occupied: true, atom: a}
	switch a.Kind {
	case LUT:
		c.lutSlot[a.Idx] = slot
	case FF:
		c.ffSlot[a.Idx] = slot
	}
}

func (c *Chip) clear(slot int) {
	c.slots[slot] = slotEntry{}
}

func (c *Chip) slotOf(a AtomRef) (int, bool) {
	switch a.Kind {
	case LUT:
		s := c.lutSlot[a.Idx]
		return s, s >= 0
	case FF:
		s := c.ffSlot[a.Idx]
		return s, s >= 0
	default:
		return 0, false
	}
}

func (c *Chip) idxToCoord(slot int) Point {
	return Point{X: float64(slot / c.width), Y: float64(slot % c.width)}
}

// Width and Height return the chip's grid dimensions.
func (c *Chip) Width() int  { return c.width }
func (c *Chip) Height() int { return c.height }

// Netlist returns the netlist this Chip places.
func (c *Chip) Netlist() *Netlist { return c.netlist }

// Bbox returns the current total HPWL cost, maintained incrementally by
// Swap: a net's HPWL depends only on the coordinates of its source and
// sinks, so subtracting the HPWL of every net touching the moved atoms
// before a move and adding it back after yields the exact new total.
func (c *Chip) Bbox() int64 { return c.bbox }

// CoordOf returns the grid coordinate of a movable atom, or the fixed
// border coordinate of an I/O pin. It fails with ErrUnplaced if the atom
// has no entry in the placement mapping.
func (c *Chip) CoordOf(a AtomRef) (Point, error) {
	switch a.Kind {
	case LUT, FF:
		slot, ok := c.slotOf(a)
		if !ok {
			return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
		}
		return c.idxToCoord(slot), nil
	case IPin:
		if a.Idx < 0 || a.Idx >= c.netlist.NumIPins() {
			return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
		}
		return borderPinCoord(IPin, a.Idx, c.netlist.NumIPins(), c.width, c.height), nil
	case OPin:
		if a.Idx < 0 || a.Idx >= c.netlist.NumOPins() {
			return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
		}
		return borderPinCoord(OPin, a.Idx, c.netlist.NumOPins(), c.width, c.height), nil
	default:
		return Point{}, errors.Wrapf(ErrUnplaced, "%v", a)
	}
}

// coordOf is the infallible form used internally once atoms are known to
// be placed (invariant maintained by the constructors and Swap).
func (c *Chip) coordOf(a AtomRef) Point {
	p, err := c.CoordOf(a)
	if err != nil {
		panic(err)
	}
	return p
}

func round(v float64) int64 { return int64(math.Round(v)) }

// Swap moves atom to the slot identified by targetIdx (a LUT index if atom
// is a LUT, an FF index if atom is an FF, so parity is always preserved),
// exchanging it with whoever occupies that slot, if anyone. It
// returns the LUT/FF index atom previously occupied, and maintains bbox
// incrementally by subtracting and re-adding the HPWL contributions of both
// atoms involved.
func (c *Chip) Swap(atom AtomRef, targetIdx int) int {
	if atom.Kind != LUT && atom.Kind != FF {
		panic(fmt.Sprintf("placer: Swap called with non-movable atom %v", atom))
	}
	var targetSlot int
	if atom.Kind == LUT {
		targetSlot = lutToSlot(targetIdx)
	} else {
		targetSlot = ffToSlot(targetIdx)
	}
	if targetSlot < 0 || targetSlot >= c.width*c.height {
		panic(fmt.Sprintf("placer: Swap target slot %d out of range", targetSlot))
	}

	lhsSlot, ok := c.slotOf(atom)
	if !ok {
		panic(fmt.Sprintf("placer: Swap called with unplaced atom %v", atom))
	}
	if lhsSlot == targetSlot {
		return targetIdx
	}

	c.bbox -= round(bboxForAtom(c.netlist, atom, c.coordOf))

	if occ := c.slots[targetSlot]; occ.occupied {
		rhs := occ.atom
		c.bbox -= round(bboxForAtom(c.netlist, rhs, c.coordOf))

		c.clear(lhsSlot)
		c.place(rhs, lhsSlot)
		c.place(atom, targetSlot)

		c.bbox += round(bboxForAtom(c.netlist, rhs, c.coordOf))
		c.bbox += round(bboxForAtom(c.netlist, atom, c.coordOf))
	} else {
		c.clear(lhsSlot)
		c.place(atom, targetSlot)
		c.bbox += round(bboxForAtom(c.netlist, atom, c.coordOf))
	}

	if atom.Kind == LUT {
		return lhsSlot / 2
	}
	return (lhsSlot - 1) / 2
}

// Clone returns an independent copy of the Chip sharing the same
// (read-only) Netlist.
func (c *Chip) Clone() *Chip {
	cp := &Chip{
		netlist: c.netlist,
		width:   c.width,
		height:  c.height,
		slots:   append([]slotEntry(nil), c.slots...),
		lutSlot: append([]int(nil), c.lutSlot...),
		ffSlot:  append([]int(nil), c.ffSlot...),
		bbox:    c.bbox,
		log:     c.log,
	}
	return cp
}

// recomputeBbox recomputes bbox from scratch; used by the legalizer after
// building a Chip from a Plan, where there is no incremental Swap sequence
// to maintain bbox along the way.
func (c *Chip) recomputeBbox() {
	c.bbox = round(totalCost(c.netlist, c.coordOf))
}

// writeSnapshot writes one "(<x>,<y>)\n" line per movable atom in
// netlist-iteration order (LUTs then FFs). Border pins never move, so
// snapshots only serialize the movable board.
func (c *Chip) writeSnapshot(w io.Writer) error {
	var err error
	write := func(a AtomRef) {
		if err != nil {
			return
		}
		p := c.coordOf(a)
		_, err = fmt.Fprintf(w, "(%d,%d)\n", int64(p.X), int64(p.Y))
	}
	for i := 0; i < c.netlist.NumLUTs(); i++ {
		write(AtomRef{LUT, i})
	}
	for i := 0; i < c.netlist.NumFFs(); i++ {
		write(AtomRef{FF, i})
	}
	return err
}
