package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/mel-koku/koku-locations/internal/dedupe"
	"github.com/mel-koku/koku-locations/internal/location"
)

// Stats is a corpus health summary.
type Stats struct {
	GeneratedAt        time.Time      `json:"generated_at"`
	TotalRecords       int            `json:"total_records"`
	ByRegion           map[string]int `json:"by_region"`
	ByCategory         map[string]int `json:"by_category"`
	MissingCoordinates int            `json:"missing_coordinates"`
	MissingPlaceID     int            `json:"missing_place_id"`
	MissingDescription int            `json:"missing_description"`
	MissingImage       int            `json:"missing_image"`
	MissingCity        int            `json:"missing_city"`
	DuplicateGroups    int            `json:"duplicate_groups"`
	DuplicateRecords   int            `json:"duplicate_records"`
}

// BuildStats summarizes a snapshot. dupGroups is the exact-mode duplicate
// grouping of the same snapshot.
func BuildStats(generatedAt time.Time, records []location.Record, dupGroups []dedupe.Group) *Stats {
	s := &Stats{
		GeneratedAt:  generatedAt,
		TotalRecords: len(records),
		ByRegion:     make(map[string]int),
		ByCategory:   make(map[string]int),
	}

	for _, rec := range records {
		region := rec.RegionValue()
		if region == "" {
			region = "(none)"
		}
		s.ByRegion[region]++

		category := rec.CategoryValue()
		if category == "" {
			category = "(none)"
		}
		s.ByCategory[category]++

		if !rec.HasCoordinates() {
			s.MissingCoordinates++
		}
		if !rec.HasPlaceID() {
			s.MissingPlaceID++
		}
		if rec.DescriptionValue() == "" {
			s.MissingDescription++
		}
		if rec.ImageValue() == "" {
			s.MissingImage++
		}
		if rec.CityValue() == "" {
			s.MissingCity++
		}
	}

	for _, g := range dedupe.Duplicates(dupGroups) {
		s.DuplicateGroups++
		s.DuplicateRecords += len(g.Records) - 1
	}

	return s
}

// WriteText renders the summary as console text.
func (s *Stats) WriteText(w io.Writer) {
	fmt.Fprintf(w, "=== Corpus summary (%s) ===\n", s.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Records: %d\n\n", s.TotalRecords)

	fmt.Fprintln(w, "By region:")
	writeCounts(w, s.ByRegion)
	fmt.Fprintln(w, "\nBy category:")
	writeCounts(w, s.ByCategory)

	fmt.Fprintf(w, "\nMissing fields:\n")
	fmt.Fprintf(w, "  coordinates  %d\n", s.MissingCoordinates)
	fmt.Fprintf(w, "  place_id     %d\n", s.MissingPlaceID)
	fmt.Fprintf(w, "  description  %d\n", s.MissingDescription)
	fmt.Fprintf(w, "  image        %d\n", s.MissingImage)
	fmt.Fprintf(w, "  city         %d\n", s.MissingCity)

	fmt.Fprintf(w, "\nDuplicate name groups: %d (%d extra records)\n", s.DuplicateGroups, s.DuplicateRecords)
}

func writeCounts(w io.Writer, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %d\n", k, counts[k])
	}
}
