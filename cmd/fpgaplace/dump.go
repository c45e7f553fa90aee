// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/db47h/fpgaplace"
)

func newDumpCmd() *cobra.Command {
	var (
		out                                 string
		numIPins, numOPins, numLUTs, numFFs int
		numInputs, numOutputs, fanoutCap    int
		phases                              int
		seed                                int64
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Synthesize a random netlist and write its JSON dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			net := placer.RandomNetlist(placer.RandomNetlistOptions{
				NumIPins: numIPins, NumOPins: numOPins, NumLUTs: numLUTs, NumFFs: numFFs,
				NumInputs: numInputs, NumOutputs: numOutputs, FanoutCap: fanoutCap,
				Phases: phases, Seed: seed,
			})

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				return placer.DumpNetlist(f, net)
			}
			return placer.DumpNetlist(w, net)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&numIPins, "ipins", 10, "number of IPins")
	cmd.Flags().IntVar(&numOPins, "opins", 5, "number of OPins")
	cmd.Flags().IntVar(&numLUTs, "luts", 1000, "number of LUTs")
	cmd.Flags().IntVar(&numFFs, "ffs", 1000, "number of FFs")
	cmd.Flags().IntVar(&numInputs, "inputs", 3, "input ports per LUT/FF")
	cmd.Flags().IntVar(&numOutputs, "outputs", 3, "output ports per LUT/FF")
	cmd.Flags().IntVar(&fanoutCap, "fanout-cap", 10000000, "fanout capacity per output port")
	cmd.Flags().IntVar(&phases, "phases", 0, "tag atoms with a pipeline-stage label drawn from [0, phases)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed")
	return cmd
}
