// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import "github.com/pkg/errors"

// Kind identifies the variant of an Atom.
type Kind int

// Atom kinds. IPin and OPin atoms are fixed at the chip border; LUT and FF
// atoms are movable.
const (
	LUT Kind = iota
	FF
	IPin
	OPin
)

func (k Kind) String() string {
	switch k {
	case LUT:
		return "LUT"
	case FF:
		return "FF"
	case IPin:
		return "IPin"
	case OPin:
		return "OPin"
	default:
		return "unknown"
	}
}

// AtomRef is a stable, comparable reference to an atom in a Netlist: the
// atom's Kind together with its index within that kind's arena. Atoms are
// never moved between arenas, so an AtomRef stays valid for the lifetime of
// its Netlist.
type AtomRef struct {
	Kind Kind
	Idx  int
}

// OutputRef identifies one output port (equivalently, one net) of an atom.
type OutputRef struct {
	Atom AtomRef
	Port int
}

// InputRef identifies one input port of an atom.
type InputRef struct {
	Atom AtomRef
	Port int
}

// atom is the arena-internal representation of one netlist element.
type atom struct {
	kind     Kind
	inputs   []inputPort
	outputs  []outputPort
	phase    int
	hasPhase bool
}

type inputPort struct {
	fanin    OutputRef
	hasFanin bool
}

type outputPort struct {
	fanouts []InputRef
	maxFan  int
}

// Netlist holds the synthesized logic atoms (LUTs and flip-flops) and I/O
// pins (IPins and OPins) of a circuit, along with their port wiring. A
// Netlist is built once via NewNetlist and is immutable after construction
// except for the wiring established through Connect.
type Netlist struct {
	luts  []atom
	ffs   []atom
	ipins []atom
	opins []atom

	maxInputs, maxOutputs, maxFanouts int
}

// NewNetlist builds an empty (unconnected) netlist with the given atom
// counts and fixed per-atom port capacities. IPins carry a single output
// port (of capacity maxFanouts); OPins carry a single input port. LUTs and
// FFs each carry maxInputs input ports and maxOutputs output ports, every
// output port bounded by maxFanouts fanouts.
func NewNetlist(numIPins, numOPins, numLUTs, numFFs, maxInputs, maxOutputs, maxFanouts int) *Netlist {
	n := &Netlist{
		luts:      make([]atom, numLUTs),
		ffs:       make([]atom, numFFs),
		ipins:     make([]atom, numIPins),
		opins:     make([]atom, numOPins),
		maxInputs: maxInputs, maxOutputs: maxOutputs, maxFanouts: maxFanouts,
	}
	for i := range n.luts {
		n.luts[i] = newAtom(LUT, maxInputs, maxOutputs, maxFanouts)
	}
	for i := range n.ffs {
		n.ffs[i] = newAtom(FF, maxInputs, maxOutputs, maxFanouts)
	}
	for i := range n.ipins {
		n.ipins[i] = newAtom(IPin, 0, 1, maxFanouts)
	}
	for i := range n.opins {
		n.opins[i] = newAtom(OPin, 1, 0, 0)
	}
	return n
}

func newAtom(k Kind, numIn, numOut, maxFan int) atom {
	a := atom{kind: k, inputs: make([]inputPort, numIn), outputs: make([]outputPort, numOut)}
	for i := range a.outputs {
		a.outputs[i].maxFan = maxFan
	}
	return a
}

// NumLUTs, NumFFs, NumIPins, NumOPins return the atom counts by kind.
func (n *Netlist) NumLUTs() int  { return len(n.luts) }
func (n *Netlist) NumFFs() int   { return len(n.ffs) }
func (n *Netlist) NumIPins() int { return len(n.ipins) }
func (n *Netlist) NumOPins() int { return len(n.opins) }

// LUT, FF, IPinAtom, OPinAtom return a stable reference to the i-th atom of
// the given kind.
func (n *Netlist) LUT(i int) AtomRef      { return AtomRef{LUT, i} }
func (n *Netlist) FF(i int) AtomRef       { return AtomRef{FF, i} }
func (n *Netlist) IPinAtom(i int) AtomRef { return AtomRef{IPin, i} }
func (n *Netlist) OPinAtom(i int) AtomRef { return AtomRef{OPin, i} }

func (n *Netlist) arena(k Kind) []atom {
	switch k {
	case LUT:
		return n.luts
	case FF:
		return n.ffs
	case IPin:
		return n.ipins
	case OPin:
		return n.opins
	default:
		return nil
	}
}

func (n *Netlist) at(a AtomRef) *atom {
	arena := n.arena(a.Kind)
	return &arena[a.Idx]
}

// NumInputs returns the number of input ports on atom a.
func (n *Netlist) NumInputs(a AtomRef) int { return len(n.at(a).inputs) }

// NumOutputs returns the number of output ports on atom a.
func (n *Netlist) NumOutputs(a AtomRef) int { return len(n.at(a).outputs) }

// InputPort returns a reference to the i-th input port of atom a.
func (n *Netlist) InputPort(a AtomRef, i int) InputRef { return InputRef{a, i} }

// OutputPort returns a reference to the i-th output port of atom a.
func (n *Netlist) OutputPort(a AtomRef, i int) OutputRef { return OutputRef{a, i} }

// Fanin returns the output port driving input port in, if connected.
func (n *Netlist) Fanin(in InputRef) (OutputRef, bool) {
	p := &n.at(in.Atom).inputs[in.Port]
	return p.fanin, p.hasFanin
}

// Fanouts returns the input ports driven by output port out.
func (n *Netlist) Fanouts(out OutputRef) []InputRef {
	return n.at(out.Atom).outputs[out.Port].fanouts
}

// FanoutCap returns the fanout capacity of output port out.
func (n *Netlist) FanoutCap(out OutputRef) int {
	return n.at(out.Atom).outputs[out.Port].maxFan
}

// Phase returns the pipeline-stage label of atom a, if it was tagged with
// one (see RandomNetlistOptions.Phases).
func (n *Netlist) Phase(a AtomRef) (int, bool) {
	at := n.at(a)
	return at.phase, at.hasPhase
}

// SetPhase tags atom a with a pipeline-stage label.
func (n *Netlist) SetPhase(a AtomRef, phase int) {
	at := n.at(a)
	at.phase, at.hasPhase = phase, true
}

// Connect wires output port out to input port in, establishing both
// directions atomically. It fails with ErrAlreadyConnected if in already
// has a fanin, or ErrCapacityExceeded if out has no fanout capacity left.
func (n *Netlist) Connect(out OutputRef, in InputRef) error {
	ip := &n.at(in.Atom).inputs[in.Port]
	if ip.hasFanin {
		return errors.Wrapf(ErrAlreadyConnected, "input %v.%d", in.Atom, in.Port)
	}
	op := &n.at(out.Atom).outputs[out.Port]
	if len(op.fanouts) >= op.maxFan {
		return errors.Wrapf(ErrCapacityExceeded, "output %v.%d", out.Atom, out.Port)
	}
	op.fanouts = append(op.fanouts, in)
	ip.fanin, ip.hasFanin = out, true
	return nil
}

// ForEachAtom calls fn once per atom in netlist-iteration order: LUTs, then
// FFs, then IPins, then OPins (movable atoms first). The snapshot writers
// emit the movable prefix of this order (LUTs then FFs).
func (n *Netlist) ForEachAtom(fn func(AtomRef)) {
	for i := range n.luts {
		fn(AtomRef{LUT, i})
	}
	for i := range n.ffs {
		fn(AtomRef{FF, i})
	}
	for i := range n.ipins {
		fn(AtomRef{IPin, i})
	}
	for i := range n.opins {
		fn(AtomRef{OPin, i})
	}
}

// NumMovable returns the number of movable atoms (LUTs plus FFs).
func (n *Netlist) NumMovable() int { return len(n.luts) + len(n.ffs) }
