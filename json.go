// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer

import (
	"fmt"
	"io"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// portDump maps a port identifier (its index, as a string) to the list of
// connected-port identifiers: zero or one fanin target for an input port,
// the full fanout list for an output port.
type portDump map[string][]string

// atomDump is the JSON shape of one atom: its ports, plus an optional
// pipeline-stage label for phase-tagged netlists.
type atomDump struct {
	IPorts portDump `json:"iports"`
	OPorts portDump `json:"oports"`
	Phase  *int     `json:"phase,omitempty"`
}

// netlistDump is the top-level JSON shape produced by DumpNetlist: four
// objects keyed by atom kind, each mapping a stable per-atom identifier to
// its atomDump.
type netlistDump struct {
	IPins map[string]atomDump `json:"IPins"`
	OPins map[string]atomDump `json:"OPins"`
	LUTs  map[string]atomDump `json:"LUTs"`
	FFs   map[string]atomDump `json:"FFs"`
}

// atomID returns the stable identifier used as this atom's dump key: its
// Kind name followed by its arena index (e.g. "LUT0"), deterministic
// across runs and processes.
func atomID(a AtomRef) string {
	return fmt.Sprintf("%s%d", a.Kind, a.Idx)
}

func buildAtomDump(n *Netlist, a AtomRef) atomDump {
	ip := make(portDump, n.NumInputs(a))
	for i := 0; i < n.NumInputs(a); i++ {
		in := n.InputPort(a, i)
		if out, ok := n.Fanin(in); ok {
			ip[strconv.Itoa(i)] = []string{atomID(out.Atom)}
		} else {
			ip[strconv.Itoa(i)] = []string{}
		}
	}

	op := make(portDump, n.NumOutputs(a))
	for i := 0; i < n.NumOutputs(a); i++ {
		out := n.OutputPort(a, i)
		fanouts := n.Fanouts(out)
		ids := make([]string, len(fanouts))
		for j, in := range fanouts {
			ids[j] = atomID(in.Atom)
		}
		op[strconv.Itoa(i)] = ids
	}

	d := atomDump{IPorts: ip, OPorts: op}
	if phase, ok := n.Phase(a); ok {
		d.Phase = &phase
	}
	return d
}

// DumpNetlist writes n as JSON to w:
//
//	{"IPins": {...}, "OPins": {...}, "LUTs": {...}, "FFs": {...}}
//
// Each atom maps its identifier to its port wiring ("iports" holding the
// fanin target per input port, "oports" the fanout list per output port)
// plus an optional "phase" label when the netlist is phase-tagged.
func DumpNetlist(w io.Writer, n *Netlist) error {
	dump := netlistDump{
		IPins: make(map[string]atomDump, n.NumIPins()),
		OPins: make(map[string]atomDump, n.NumOPins()),
		LUTs:  make(map[string]atomDump, n.NumLUTs()),
		FFs:   make(map[string]atomDump, n.NumFFs()),
	}
	for i := 0; i < n.NumIPins(); i++ {
		a := AtomRef{IPin, i}
		dump.IPins[atomID(a)] = buildAtomDump(n, a)
	}
	for i := 0; i < n.NumOPins(); i++ {
		a := AtomRef{OPin, i}
		dump.OPins[atomID(a)] = buildAtomDump(n, a)
	}
	for i := 0; i < n.NumLUTs(); i++ {
		a := AtomRef{LUT, i}
		dump.LUTs[atomID(a)] = buildAtomDump(n, a)
	}
	for i := 0; i < n.NumFFs(); i++ {
		a := AtomRef{FF, i}
		dump.FFs[atomID(a)] = buildAtomDump(n, a)
	}

	if err := json.NewEncoder(w).Encode(dump); err != nil {
		return errors.Wrap(ErrIOFailure, err.Error())
	}
	return nil
}
