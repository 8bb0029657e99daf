package main

import (
	"github.com/aretw0/robobunny/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <program>...",
	Short: "Check programs and maps for mistakes",
	Long: `Parses each program, reports blocks the compiler would skip or default,
and checks the block limit. With --map the level is validated too and its
block limit applies unless --limit is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mapPath, _ := cmd.Flags().GetString("map")
		limit, _ := cmd.Flags().GetInt("limit")
		return cli.Validate(cli.ValidateOptions{
			ProgramPaths: args,
			MapPath:      mapPath,
			BlockLimit:   limit,
			Out:          cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("map", "m", "", "Level document to validate")
	validateCmd.Flags().Int("limit", 0, "Block limit (0 uses the map's)")
}
