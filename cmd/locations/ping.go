package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newPingCmd(log zerolog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test storage connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, _, err := openStore(log)
			if err != nil {
				return err
			}
			defer conn.Close()

			var count int
			query := fmt.Sprintf("SELECT COUNT(*) FROM %s", cfg.Table)
			if err := conn.DB.QueryRowContext(cmd.Context(), query).Scan(&count); err != nil {
				return fmt.Errorf("count %s: %w", cfg.Table, err)
			}

			fmt.Printf("Database connection successful!\n")
			fmt.Printf("Locations loaded: %d\n", count)
			return nil
		},
	}
}
