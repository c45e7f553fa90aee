// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/db47h/fpgaplace"
)

var log *zap.Logger

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "fpgaplace",
		Short:         "Run the FPGA cell placer engines against random netlists",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := placer.NewLogger(debug)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return log.Sync()
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose development logging")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newSweepCmd())
	root.AddCommand(newDumpCmd())
	return root
}
