// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package placer_test

import (
	"bytes"
	"encoding/json"
	"testing"

	placer "github.com/db47h/fpgaplace"
)

func TestDumpNetlist_shape(t *testing.T) {
	n := placer.NewNetlist(1, 1, 2, 1, 1, 1, 2)
	if err := n.Connect(n.OutputPort(n.IPinAtom(0), 0), n.InputPort(n.LUT(0), 0)); err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	if err := n.Connect(n.OutputPort(n.LUT(0), 0), n.InputPort(n.LUT(1), 0)); err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	if err := n.Connect(n.OutputPort(n.LUT(1), 0), n.InputPort(n.OPinAtom(0), 0)); err != nil {
		t.Fatalf("Connect() = %v", err)
	}
	n.SetPhase(n.LUT(0), 2)

	var buf bytes.Buffer
	if err := placer.DumpNetlist(&buf, n); err != nil {
		t.Fatalf("DumpNetlist() = %v", err)
	}

	var doc map[string]map[string]struct {
		IPorts map[string][]string `json:"iports"`
		OPorts map[string][]string `json:"oports"`
		Phase  *int                `json:"phase"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("re-parsing dump: %v\n%s", err, buf.String())
	}

	for _, key := range []string{"IPins", "OPins", "LUTs", "FFs"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("dump missing top-level key %q", key)
		}
	}

	lut0, ok := doc["LUTs"]["LUT0"]
	if !ok {
		t.Fatal("dump missing LUT0")
	}
	if lut0.Phase == nil || *lut0.Phase != 2 {
		t.Errorf("LUT0 phase = %v, want 2", lut0.Phase)
	}
	if got := lut0.IPorts["0"]; len(got) != 1 || got[0] != "IPin0" {
		t.Errorf("LUT0 iports[0] = %v, want [IPin0]", got)
	}
	if got := lut0.OPorts["0"]; len(got) != 1 || got[0] != "LUT1" {
		t.Errorf("LUT0 oports[0] = %v, want [LUT1]", got)
	}

	lut1 := doc["LUTs"]["LUT1"]
	if lut1.Phase != nil {
		t.Errorf("LUT1 phase = %v, want untagged", *lut1.Phase)
	}
}
