// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/db47h/fpgaplace"
)

func newSweepCmd() *cobra.Command {
	var (
		dimension string
		seed      int64
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Parameterized experiments over iteration counts, recursion depth, phases, or atom counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch dimension {
			case "iterations":
				return sweepIterations(seed)
			case "recursions":
				return sweepRecursions(seed)
			case "phases":
				return sweepPhases(seed)
			case "atoms":
				return sweepAtoms(seed)
			default:
				return errors.Errorf("unknown --dimension %q (want iterations, recursions, phases, or atoms)", dimension)
			}
		},
	}

	cmd.Flags().StringVar(&dimension, "dimension", "iterations", "sweep dimension: iterations, recursions, phases, atoms")
	cmd.Flags().Int64Var(&seed, "seed", 1, "PRNG seed")
	return cmd
}

func baseNetlistAndChip(seed int64, numAtoms, numPhases int) (*placer.Netlist, *placer.Chip, error) {
	net := placer.RandomNetlist(placer.RandomNetlistOptions{
		NumIPins: 10, NumOPins: 5, NumLUTs: numAtoms, NumFFs: numAtoms,
		NumInputs: 3, NumOutputs: 3, FanoutCap: 10000000, Phases: numPhases, Seed: seed,
	})
	chip, err := placer.NewChip(100, 100, net, placer.WithLogger(log))
	return net, chip, err
}

func sweepIterations(seed int64) error {
	_, chip, err := baseNetlistAndChip(seed, 1000, 3)
	if err != nil {
		return err
	}

	for i := 100; i <= 100000; i *= 10 {
		c := chip.Clone()
		if err := placer.RandomPlacement(c, i, seed, nil); err != nil {
			return err
		}
		log.Info("random placement", zap.Int("iterations", i), zap.Int64("bbox", c.Bbox()))
	}

	for i := 100; i <= 100000; i *= 10 {
		c := chip.Clone()
		if err := placer.SimulatedAnnealing(c, 5, i/5, 0.5, 0.5, seed, nil); err != nil {
			return err
		}
		log.Info("simulated annealing", zap.Int("iterations", i), zap.Int64("bbox", c.Bbox()))
	}
	return nil
}

func sweepRecursions(seed int64) error {
	net, chip, err := baseNetlistAndChip(seed, 1000, 3)
	if err != nil {
		return err
	}

	for _, method := range []placer.Method{placer.Adaptive, placer.Bisection} {
		for i := 1; i <= 4; i++ {
			plan, err := placer.QuadraticPlacement(chip.Width(), chip.Height(), net, i, method, 3, nil)
			if err != nil {
				return err
			}
			exprChip, err := placer.Legalize(plan, placer.WithLogger(log))
			if err != nil {
				return err
			}
			log.Info("quadratic placement", zap.String("method", methodName(method)), zap.Int("recursions", i), zap.Int64("bbox", exprChip.Bbox()))

			randChip := exprChip.Clone()
			if err := placer.RandomPlacement(randChip, 10000, seed, nil); err != nil {
				return err
			}
			log.Info("quadratic placement + random placement", zap.String("method", methodName(method)), zap.Int("recursions", i), zap.Int64("bbox", randChip.Bbox()))

			if err := placer.SimulatedAnnealing(exprChip, 5, 2000, 0.5, 0.5, seed, nil); err != nil {
				return err
			}
			log.Info("quadratic placement + simulated annealing", zap.String("method", methodName(method)), zap.Int("recursions", i), zap.Int64("bbox", exprChip.Bbox()))
		}
	}
	return nil
}

func sweepPhases(seed int64) error {
	for i := 1; i <= 10; i++ {
		net, chip, err := baseNetlistAndChip(seed, 1000, i)
		if err != nil {
			return err
		}

		if err := reportEngines(fmt.Sprintf("%d phases", i), net, chip, seed); err != nil {
			return err
		}
	}
	return nil
}

func sweepAtoms(seed int64) error {
	for i := 100; i <= 1000; i *= 10 {
		net, chip, err := baseNetlistAndChip(seed, i, 3)
		if err != nil {
			return err
		}
		if err := reportEngines(fmt.Sprintf("%d atoms", i), net, chip, seed); err != nil {
			return err
		}
	}
	return nil
}

// reportEngines runs random descent, simulated annealing, and quadratic
// placement (both partitioning methods) over one netlist/chip pair and
// logs the resulting bbox for each.
func reportEngines(label string, net *placer.Netlist, chip *placer.Chip, seed int64) error {
	randChip := chip.Clone()
	if err := placer.RandomPlacement(randChip, 10000, seed, nil); err != nil {
		return err
	}
	log.Info("random placement", zap.String("sweep", label), zap.Int64("bbox", randChip.Bbox()))

	simChip := chip.Clone()
	if err := placer.SimulatedAnnealing(simChip, 5, 2000, 0.5, 0.5, seed, nil); err != nil {
		return err
	}
	log.Info("simulated annealing", zap.String("sweep", label), zap.Int64("bbox", simChip.Bbox()))

	for _, method := range []placer.Method{placer.Adaptive, placer.Bisection} {
		plan, err := placer.QuadraticPlacement(chip.Width(), chip.Height(), net, 2, method, 3, nil)
		if err != nil {
			return err
		}
		qpChip, err := placer.Legalize(plan, placer.WithLogger(log))
		if err != nil {
			return err
		}
		log.Info("quadratic placement", zap.String("sweep", label), zap.String("method", methodName(method)), zap.Int64("bbox", qpChip.Bbox()))
	}
	return nil
}

func methodName(m placer.Method) string {
	if m == placer.Bisection {
		return "bisection"
	}
	return "adaptive"
}
