package main

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mel-koku/koku-locations/internal/config"
	"github.com/mel-koku/koku-locations/internal/db"
	"github.com/mel-koku/koku-locations/internal/store"
)

// errMismatchesFound signals "attention needed" to calling automation: the
// audit command exits non-zero whenever it finds region mismatches.
var errMismatchesFound = errors.New("region mismatches found")

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	rootCmd := &cobra.Command{
		Use:   "locations",
		Short: "Data-integrity toolkit for the locations table",
		Long: `Batch maintenance jobs for the travel locations corpus: duplicate
detection and resolution, region corruption auditing, and corpus statistics.
Every mutating command defaults to dry-run and prints its full plan before
touching storage.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(newDedupeCmd(log))
	rootCmd.AddCommand(newAuditCmd(log))
	rootCmd.AddCommand(newStatsCmd(log))
	rootCmd.AddCommand(newServeCmd(log))
	rootCmd.AddCommand(newPingCmd(log))

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errMismatchesFound) {
			os.Exit(2)
		}
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// openStore loads configuration and connects to storage. Configuration and
// connection failures are fatal before any analysis starts.
func openStore(log zerolog.Logger) (*config.Config, *db.Connection, *store.Postgres, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if err := cfg.RequireDatabase(); err != nil {
		return nil, nil, nil, err
	}

	conn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, conn, store.NewPostgres(conn.DB, cfg.Table, cfg.PageSize, log), nil
}

func printJSON(v interface{}) error {
	return writeIndentedJSON(os.Stdout, v)
}

func writeIndentedJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
