// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/db47h/fpgaplace"
)

func newDemoCmd() *cobra.Command {
	var (
		outDir        string
		numAtoms      int
		numIterations int
		width, height int
		seed          int64
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run one end-to-end scenario across all three placement engines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(outDir, numAtoms, numIterations, width, height, seed)
		},
	}

	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory to write netlist/metric files to")
	cmd.Flags().IntVar(&numAtoms, "atoms", 1000, "number of LUTs and FFs (each) in the random netlist")
	cmd.Flags().IntVar(&numIterations, "iterations", 100000, "iterations for the iterative placers")
	cmd.Flags().IntVar(&width, "width", 100, "chip grid width")
	cmd.Flags().IntVar(&height, "height", 100, "chip grid height")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed")
	return cmd
}

func runDemo(outDir string, numAtoms, numIterations, width, height int, seed int64) error {
	net := placer.RandomNetlist(placer.RandomNetlistOptions{
		NumIPins: 10, NumOPins: 5, NumLUTs: numAtoms, NumFFs: numAtoms,
		NumInputs: 3, NumOutputs: 3, FanoutCap: 10000000, Seed: seed,
	})
	if err := dumpToFile(outDir, "netlist.json", net); err != nil {
		return err
	}

	chip, err := placer.NewChip(width, height, net, placer.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("initial chip placed", zap.Int64("bbox", chip.Bbox()))

	if err := runIterativeDemo(outDir, "rand", chip.Clone(), func(c *placer.Chip, sink *placer.MetricSink) error {
		return placer.RandomPlacement(c, numIterations, seed, sink)
	}); err != nil {
		return err
	}

	if err := runIterativeDemo(outDir, "sim", chip.Clone(), func(c *placer.Chip, sink *placer.MetricSink) error {
		return placer.SimulatedAnnealing(c, 5, numIterations/5, 0.5, 0.5, seed, sink)
	}); err != nil {
		return err
	}

	for _, method := range []placer.Method{placer.Adaptive, placer.Bisection} {
		name := "qp_adaptive"
		if method == placer.Bisection {
			name = "qp_bisection"
		}
		if err := runQuadraticDemo(outDir, name, width, height, net, method, seed, numIterations); err != nil {
			return err
		}
	}

	return nil
}

func runIterativeDemo(outDir, name string, chip *placer.Chip, run func(*placer.Chip, *placer.MetricSink) error) error {
	iterFile, snapFile, closeFiles, err := openMetricFiles(outDir, name)
	if err != nil {
		return err
	}
	defer closeFiles()

	sink := &placer.MetricSink{IterStream: iterFile, SnapshotStream: snapFile}
	if err := run(chip, sink); err != nil {
		return err
	}
	log.Info("placement complete", zap.String("scenario", name), zap.Int64("bbox", chip.Bbox()))
	return nil
}

func runQuadraticDemo(outDir, name string, width, height int, net *placer.Netlist, method placer.Method, seed int64, numIterations int) error {
	iterFile, snapFile, closeFiles, err := openMetricFiles(outDir, name)
	if err != nil {
		return err
	}
	defer closeFiles()

	sink := &placer.MetricSink{IterStream: iterFile, SnapshotStream: snapFile}
	plan, err := placer.QuadraticPlacement(width, height, net, 4, method, 1, sink, placer.WithPlanLogger(log))
	if err != nil {
		return err
	}

	qpChip, err := placer.Legalize(plan, placer.WithLogger(log))
	if err != nil {
		return err
	}
	log.Info("quadratic placement complete", zap.String("scenario", name), zap.Int64("bbox", qpChip.Bbox()))

	return runIterativeDemo(outDir, name+"_anneal", qpChip, func(c *placer.Chip, s *placer.MetricSink) error {
		return placer.SimulatedAnnealing(c, 5, numIterations/5, 0.5, 0.5, seed, s)
	})
}

func openMetricFiles(outDir, name string) (iterFile, snapFile *os.File, closeFiles func(), err error) {
	iterFile, err = os.Create(filepath.Join(outDir, name+"_iter.out"))
	if err != nil {
		return nil, nil, nil, err
	}
	snapFile, err = os.Create(filepath.Join(outDir, name+"_ss.out"))
	if err != nil {
		iterFile.Close()
		return nil, nil, nil, err
	}
	return iterFile, snapFile, func() {
		iterFile.Close()
		snapFile.Close()
	}, nil
}

func dumpToFile(outDir, name string, net *placer.Netlist) error {
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return errors.Wrapf(err, "creating %s", name)
	}
	defer f.Close()
	return placer.DumpNetlist(f, net)
}
