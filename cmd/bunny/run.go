package main

import (
	"os"
	"time"

	"github.com/aretw0/robobunny/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <program>",
	Short: "Run a program on a map",
	Long: `Loads the map, flattens the program and animates it command by command.
With --watch the run restarts whenever the program or map file is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mapPath, _ := cmd.Flags().GetString("map")
		delay, _ := cmd.Flags().GetDuration("delay")
		step, _ := cmd.Flags().GetBool("step")
		watch, _ := cmd.Flags().GetBool("watch")
		quiet, _ := cmd.Flags().GetBool("no-banner")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		opts := cli.RunOptions{
			ProgramPath: args[0],
			MapPath:     mapPath,
			Delay:       delay,
			Step:        step,
			Watch:       watch,
			Debug:       debugFlag(cmd),
			NoBanner:    quiet,
			Out:         cmd.OutOrStdout(),
		}
		if step {
			opts.In = os.Stdin
		}
		return cli.Execute(sigCtx, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("map", "m", "", "Level document (YAML or JSON)")
	runCmd.Flags().Duration("delay", 500*time.Millisecond, "Pause after each command")
	runCmd.Flags().Bool("step", false, "Execute one command per Enter")
	runCmd.Flags().BoolP("watch", "w", false, "Rerun when the program or map changes")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
	_ = runCmd.MarkFlagRequired("map")
}
