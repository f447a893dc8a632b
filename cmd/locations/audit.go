package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mel-koku/koku-locations/internal/audit"
	"github.com/mel-koku/koku-locations/internal/config"
	"github.com/mel-koku/koku-locations/internal/report"
	"github.com/mel-koku/koku-locations/internal/store"
)

type auditOptions struct {
	fix     bool
	jsonOut bool
	verbose bool
}

func newAuditCmd(log zerolog.Logger) *cobra.Command {
	var opts auditOptions

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit region assignments for consolidation corruption",
		Long: `Cross-validate each location's stored region against its city name and
its coordinates, flag mismatches introduced by the city consolidation
migration, and generate a rollback script. Dry-run by default; --fix
restores city_original for repairable records. Exits non-zero when any
mismatch is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, st, err := openStore(log)
			if err != nil {
				return err
			}
			defer conn.Close()

			return runAudit(cmd.Context(), log, cfg, st, os.Stdout, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.fix, "fix", false, "restore city_original for repairable records (default is dry-run)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "emit the report as JSON instead of console text")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "list non-critical findings too")

	return cmd
}

func runAudit(ctx context.Context, log zerolog.Logger, cfg *config.Config, st store.Store, stdout io.Writer, opts auditOptions) error {
	records, err := st.FetchAll(ctx)
	if err != nil {
		return err
	}

	auditor := audit.NewAuditor()
	findings := auditor.Audit(records)
	now := time.Now()

	rep := report.BuildAudit(now, len(records), findings,
		auditor.Repair(ctx, st, findings, false), false)

	if hasRepairable(findings) {
		script := audit.RollbackSQL(findings, cfg.Table, now)
		scriptPath, err := report.WriteScript(cfg.ReportDir, "city-rollback", now, script)
		if err != nil {
			return err
		}
		rep.ScriptPath = scriptPath
	}

	// The full findings list prints before any mutation, in either output
	// mode.
	if opts.jsonOut {
		if err := writeIndentedJSON(stdout, rep); err != nil {
			return err
		}
	} else {
		rep.WriteFindings(stdout, opts.verbose)
	}

	if opts.fix {
		out := auditor.Repair(ctx, st, findings, true)
		scriptPath := rep.ScriptPath
		rep = report.BuildAudit(now, len(records), findings, out, true)
		rep.ScriptPath = scriptPath
		if opts.jsonOut {
			if err := writeIndentedJSON(stdout, rep); err != nil {
				return err
			}
		} else {
			fmt.Fprintf(stdout, "\nRepaired: %d, errors: %d\n", out.Repaired, len(out.Errors))
			for _, e := range out.Errors {
				fmt.Fprintf(stdout, "  ERROR %s: %s\n", e.ID, e.Message)
			}
		}
	} else if !opts.jsonOut {
		fmt.Fprintln(stdout, "\nDry run: no records were modified. Re-run with --fix to apply.")
	}

	path, err := report.WriteJSON(cfg.ReportDir, "audit-report", now, rep)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("report written")

	if len(findings) > 0 {
		return errMismatchesFound
	}
	return nil
}

func hasRepairable(findings []audit.Finding) bool {
	for _, f := range findings {
		if f.Repairable {
			return true
		}
	}
	return false
}
