package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/robobunny"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bunny",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bunny version %s\n", strings.TrimSpace(robobunny.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
