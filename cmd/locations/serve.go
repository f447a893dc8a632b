package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mel-koku/koku-locations/internal/config"
	"github.com/mel-koku/koku-locations/internal/web"
)

func newServeCmd(log zerolog.Logger) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated reports over HTTP for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}

			server := web.NewServer(addr, cfg.ReportDir, log)
			return server.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from LISTEN_ADDR)")

	return cmd
}
