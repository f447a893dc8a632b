package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RollbackSQL renders the repairable findings as a reviewable SQL script,
// one UPDATE per city→city_original transformation pattern. The script is
// the reverse of the consolidation migration: applying it restores every
// backed-up city, and each statement carries the ids it touches so it can be
// inverted again by hand if needed.
func RollbackSQL(findings []Finding, table string, generatedAt time.Time) string {
	type pattern struct {
		from string
		to   string
	}

	groups := make(map[pattern][]string)
	for _, f := range findings {
		if !f.Repairable {
			continue
		}
		p := pattern{from: f.Record.CityValue(), to: f.Record.CityOriginalValue()}
		groups[p] = append(groups[p], f.Record.ID)
	}

	patterns := make([]pattern, 0, len(groups))
	for p := range groups {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].from != patterns[j].from {
			return patterns[i].from < patterns[j].from
		}
		return patterns[i].to < patterns[j].to
	})

	var b strings.Builder
	fmt.Fprintf(&b, "-- city rollback script generated %s\n", generatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "-- restores city_original for %d transformation pattern(s)\n", len(patterns))
	b.WriteString("-- review before executing\n")

	for _, p := range patterns {
		ids := groups[p]
		sort.Strings(ids)

		quoted := make([]string, len(ids))
		for i, id := range ids {
			quoted[i] = quoteSQL(id)
		}

		fmt.Fprintf(&b, "\n-- %s -> %s (%d record(s))\n", p.from, p.to, len(ids))
		fmt.Fprintf(&b, "UPDATE %s SET city = %s WHERE id IN (%s);\n",
			table, quoteSQL(p.to), strings.Join(quoted, ", "))
	}

	return b.String()
}

// quoteSQL wraps a value as a single-quoted SQL literal.
func quoteSQL(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
