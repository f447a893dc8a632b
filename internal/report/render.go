package report

import (
	"fmt"
	"io"
)

// WriteText renders a dedupe report for human scanning: the full plan plus
// an outcome footer.
func (r *Dedupe) WriteText(w io.Writer, verbose bool) {
	r.WritePlan(w, verbose)

	if r.Executed {
		fmt.Fprintf(w, "\nDeleted: %d, errors: %d\n", r.Deleted, len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  ERROR %s: %s\n", e.ID, e.Message)
		}
	} else {
		fmt.Fprintf(w, "\nDry run: no records were deleted. Re-run with --execute to apply.\n")
	}
}

// WritePlan renders the intended keep/delete partition group by group,
// without any outcome footer. Mutating runs print this before touching
// storage so the operator sees every intended change first. verbose
// additionally lists skipped groups and per-record detail.
func (r *Dedupe) WritePlan(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "=== Duplicate %s report (%s) ===\n", r.Mode, r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.Query != "" {
		fmt.Fprintf(w, "Query: %q\n", r.Query)
	}
	fmt.Fprintf(w, "Records scanned: %d\n", r.TotalRecords)
	fmt.Fprintf(w, "Duplicate groups: %d (%d records to remove, %d groups skipped)\n\n",
		r.DuplicateGroups, r.DuplicateRecords, r.SkippedGroups)

	for _, g := range r.Groups {
		if g.Skipped && !verbose {
			continue
		}

		fmt.Fprintf(w, "%q  x%d  [same_place_id=%v same_city=%v]\n", g.Key, g.Count, g.SamePlaceID, g.SameCity)
		if g.Skipped {
			fmt.Fprintf(w, "  SKIP: %s\n", g.SkipReason)
			continue
		}
		if g.Keep != nil {
			fmt.Fprintf(w, "  KEEP   %s (score %d) %s\n", g.Keep.ID, g.Keep.Score, describe(*g.Keep))
		}
		for _, d := range g.Delete {
			fmt.Fprintf(w, "  DELETE %s (score %d) %s\n", d.ID, d.Score, describe(d))
		}
		if verbose && g.Keep == nil {
			for _, rec := range g.Records {
				fmt.Fprintf(w, "  MATCH  %s %s\n", rec.ID, describe(rec))
			}
		}
	}
}

// WriteText renders an audit report: findings plus an outcome footer.
func (r *Audit) WriteText(w io.Writer, verbose bool) {
	r.WriteFindings(w, verbose)

	if r.Executed {
		fmt.Fprintf(w, "\nRepaired: %d, errors: %d\n", r.Repaired, len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  ERROR %s: %s\n", e.ID, e.Message)
		}
	} else {
		fmt.Fprintf(w, "\nDry run: no records were modified. Re-run with --fix to apply.\n")
	}
}

// WriteFindings renders the findings without any outcome footer. Without
// verbose only critical findings are listed individually; counts and
// transformation patterns always print.
func (r *Audit) WriteFindings(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "=== Region corruption audit (%s) ===\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Records scanned: %d\n", r.TotalRecords)
	fmt.Fprintf(w, "Findings: %d (%d critical)\n", len(r.Findings), r.Critical)
	for _, t := range []string{"city-region", "coordinate-region", "both"} {
		if n := r.ByType[t]; n > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", t, n)
		}
	}

	if len(r.Patterns) > 0 {
		fmt.Fprintf(w, "\nTransformation patterns (city -> city_original):\n")
		for _, p := range r.Patterns {
			fmt.Fprintf(w, "  %s -> %s  x%d\n", p.From, p.To, p.Count)
		}
	}

	fmt.Fprintln(w)
	for _, f := range r.Findings {
		if !f.Critical && !verbose {
			continue
		}
		marker := " "
		if f.Critical {
			marker = "!"
		}
		fmt.Fprintf(w, "%s %s %q city=%q stored=%q expected=%q coords=%q [%s]\n",
			marker, f.ID, f.Name, f.City, f.StoredRegion, f.ExpectedRegion, f.CoordinateRegion, f.Type)
	}

	if r.ManualReview > 0 {
		fmt.Fprintf(w, "\n%d finding(s) have no city_original backup and need manual review.\n", r.ManualReview)
	}
	if r.ScriptPath != "" {
		fmt.Fprintf(w, "Rollback script: %s\n", r.ScriptPath)
	}
}

func describe(rec RecordSummary) string {
	out := rec.Name
	if rec.City != "" {
		out += ", " + rec.City
	}
	if rec.PlaceID != "" {
		out += " [place_id]"
	}
	if rec.HasCoords {
		out += " [coords]"
	}
	return out
}
