package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mel-koku/koku-locations/internal/config"
	"github.com/mel-koku/koku-locations/internal/dedupe"
	"github.com/mel-koku/koku-locations/internal/report"
	"github.com/mel-koku/koku-locations/internal/store"
)

type dedupeOptions struct {
	execute  bool
	sameCity bool
	jsonOut  bool
	verbose  bool
	name     string
}

func newDedupeCmd(log zerolog.Logger) *cobra.Command {
	var opts dedupeOptions

	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Find and resolve duplicate locations",
		Long: `Group locations by normalized name and resolve each duplicate group by
keeping the most complete record. Dry-run by default; --execute applies the
deletions. --name switches to search mode against a single query.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, st, err := openStore(log)
			if err != nil {
				return err
			}
			defer conn.Close()

			return runDedupe(cmd.Context(), log, cfg, st, os.Stdout, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.execute, "execute", false, "apply the computed deletions (default is dry-run)")
	cmd.Flags().BoolVar(&opts.sameCity, "same-city", false, "group duplicates within each city instead of corpus-wide")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the report as JSON instead of console text")
	cmd.Flags().StringVar(&opts.name, "name", "", "search mode: match records against a single query string")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "include skipped groups and per-record detail")

	return cmd
}

func runDedupe(ctx context.Context, log zerolog.Logger, cfg *config.Config, st store.Store, stdout io.Writer, opts dedupeOptions) error {
	if opts.name != "" && opts.execute {
		// Search is a lookup with no resolution plan to apply.
		return fmt.Errorf("--name runs search mode and cannot be combined with --execute")
	}

	records, err := st.FetchAll(ctx)
	if err != nil {
		return err
	}

	matcher := dedupe.NewMatcher()
	matcher.Threshold = cfg.SimilarityThreshold
	now := time.Now()

	if opts.name != "" {
		groups := matcher.Search(records, opts.name)
		rep := report.BuildSearch(now, opts.name, len(records), groups)
		if opts.jsonOut {
			return writeIndentedJSON(stdout, rep)
		}
		// Search is a lookup, not a plan: always show the records.
		rep.WritePlan(stdout, true)
		return nil
	}

	var (
		groups   []dedupe.Group
		resolver *dedupe.Resolver
		mode     = "exact"
	)
	if opts.sameCity {
		mode = "same-city"
		groups = matcher.GroupWithinCity(records)
		resolver = dedupe.NewCityScopedResolver()
	} else {
		groups = matcher.GroupExact(records)
		resolver = dedupe.NewResolver()
	}
	decisions := resolver.Plan(groups)

	rep := report.BuildDedupe(now, mode, "", len(records), decisions, dedupe.Outcome{}, false)

	// The full plan prints before any mutation, in either output mode.
	if opts.jsonOut {
		if err := writeIndentedJSON(stdout, rep); err != nil {
			return err
		}
	} else {
		rep.WritePlan(stdout, opts.verbose)
	}

	if opts.execute {
		out := resolver.Execute(ctx, st, decisions, true)
		rep = report.BuildDedupe(now, mode, "", len(records), decisions, out, true)
		if opts.jsonOut {
			if err := writeIndentedJSON(stdout, rep); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(stdout, "\nDeleted: %d, errors: %d\n", out.Deleted, len(out.Errors))
			for _, e := range out.Errors {
				fmt.Fprintf(stdout, "  ERROR %s: %s\n", e.ID, e.Message)
			}
		}
	} else if !opts.jsonOut {
		fmt.Fprintln(stdout, "\nDry run: no records were deleted. Re-run with --execute to apply.")
	}

	path, err := report.WriteJSON(cfg.ReportDir, "dedupe-report", now, rep)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("report written")

	return nil
}
