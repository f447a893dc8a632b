package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mel-koku/koku-locations/internal/dedupe"
	"github.com/mel-koku/koku-locations/internal/report"
)

func newStatsCmd(log zerolog.Logger) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize corpus health",
		Long: `Print record counts per region and category, missing-field tallies,
and the duplicate-name count for the full locations corpus.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, st, err := openStore(log)
			if err != nil {
				return err
			}
			defer conn.Close()

			records, err := st.FetchAll(cmd.Context())
			if err != nil {
				return err
			}

			groups := dedupe.NewMatcher().GroupExact(records)
			stats := report.BuildStats(time.Now(), records, groups)

			if jsonOut {
				return printJSON(stats)
			}
			stats.WriteText(os.Stdout)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the summary as JSON instead of console text")

	return cmd
}
