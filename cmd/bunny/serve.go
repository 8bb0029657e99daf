package main

import (
	"time"

	"github.com/aretw0/robobunny/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves editor sessions over a JSON API with server-sent events and
Prometheus metrics. Programs are kept in memory unless --programs or --redis is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		redisTTL, _ := cmd.Flags().GetDuration("redis-ttl")
		programs, _ := cmd.Flags().GetString("programs")
		maps, _ := cmd.Flags().GetString("maps")
		limit, _ := cmd.Flags().GetInt("limit")
		delay, _ := cmd.Flags().GetDuration("delay")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, cli.ServeOptions{
			Addr:        ":" + port,
			RedisAddr:   redisAddr,
			RedisTTL:    redisTTL,
			ProgramsDir: programs,
			MapsDir:     maps,
			BlockLimit:  limit,
			Delay:       delay,
			Debug:       debugFlag(cmd),
			JSONLogs:    jsonLogs,
			Out:         cmd.OutOrStdout(),
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the program store")
	serveCmd.Flags().Duration("redis-ttl", 0, "Expire stored programs after this long")
	serveCmd.Flags().String("programs", "", "Directory for the file program store")
	serveCmd.Flags().String("maps", "", "Directory of level documents served at /maps")
	serveCmd.Flags().Int("limit", 0, "Block limit for sessions and saved programs (0 keeps the defaults)")
	serveCmd.Flags().Duration("delay", 500*time.Millisecond, "Pause after each command in runs")
	serveCmd.Flags().Bool("json-logs", false, "Write logs as JSON")
}
