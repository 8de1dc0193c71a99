package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/arissetyawan/indostemmer/internal/config"
	"github.com/arissetyawan/indostemmer/server"
)

func newServeCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP stemming service",
		Long: `Serve exposes POST /v1/stem, POST /v1/analyze, GET /healthz and
GET /metrics until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cli.openCache()
			if err != nil {
				return err
			}
			defer cli.closeCache(c)

			return server.New(c, cli.serverConfig(), cli.log, cli.metrics).Run(cmd.Context())
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	return cmd
}

// serverConfig maps the loaded configuration onto the server's. Log levels
// are matched case-insensitively, as config validation accepts them.
func (cli *CLI) serverConfig() server.Config {
	cfg := server.DefaultConfig()
	cfg.Addr = cli.cfg.Server.Addr
	cfg.Debug = strings.EqualFold(cli.cfg.Log.Level, "debug")
	cfg.Gatherer = cli.registry
	return cfg
}
