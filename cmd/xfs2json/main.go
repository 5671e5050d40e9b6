// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mtframework/xfs2json/convert"
	"github.com/mtframework/xfs2json/log"
)

const version = "0.1.0"

var (
	output  string
	verbose bool
)

func run(cmd *cobra.Command, args []string) error {
	logger, err := log.New(verbose)
	if err != nil {
		return fmt.Errorf("xfs2json: init logger: %w", err)
	}
	defer logger.Sync()

	return convert.Run(args[0], convert.Options{Output: output, Logger: logger})
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "xfs2json <input>",
		Short: "Converts MT Framework XFS files to and from JSON",
		Long:  "xfs2json converts MT Framework XFS binary containers to JSON and back, for a single file or a directory.",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("xfs2json version %s\n", version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
