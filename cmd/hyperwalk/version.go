package main

import (
	"fmt"

	"github.com/aretw0/hyperwalk"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hyperwalk",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hyperwalk version %s\n", hyperwalk.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
