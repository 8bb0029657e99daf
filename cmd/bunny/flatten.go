package main

import (
	"github.com/aretw0/robobunny/internal/cli"
	"github.com/spf13/cobra"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <program>",
	Short: "Print the command list a program compiles to",
	Long: `Unrolls repeat loops and prints one command per line. On a terminal the
list is rendered as a table; use --format to choose text, json, markdown or mermaid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		asJSON, _ := cmd.Flags().GetBool("json")
		limit, _ := cmd.Flags().GetInt("limit")
		if asJSON {
			format = cli.FormatJSON
		}
		return cli.Flatten(cli.FlattenOptions{
			ProgramPath: args[0],
			Format:      format,
			BlockLimit:  limit,
			Debug:       debugFlag(cmd),
			Out:         cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)

	flattenCmd.Flags().String("format", cli.FormatAuto, "Output format: text, json, markdown, mermaid")
	flattenCmd.Flags().Bool("json", false, "Shorthand for --format json")
	flattenCmd.Flags().Int("limit", 0, "Block limit shown in the table footer")
}
