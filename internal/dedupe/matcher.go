package dedupe

import (
	"sort"
	"strings"

	"github.com/mel-koku/koku-locations/internal/location"
	"github.com/mel-koku/koku-locations/internal/normalize"
)

// Group is a set of records sharing a normalized name (or matching a search
// query), treated as candidate duplicates.
type Group struct {
	Key     string
	Records []location.Record

	// SamePlaceID is true when at most one distinct non-empty place_id exists
	// across the group.
	SamePlaceID bool

	// SameCity is true when at most one distinct lowercased city exists
	// across the group (records without a city excluded).
	SameCity bool
}

// Matcher partitions location records into duplicate candidate groups.
type Matcher struct {
	// Threshold is the minimum Similarity for a fuzzy hit in search mode.
	Threshold float64
}

// NewMatcher returns a Matcher with the default similarity threshold.
func NewMatcher() *Matcher {
	return &Matcher{Threshold: DefaultSimilarityThreshold}
}

// GroupExact partitions records by normalized name. Every record whose name
// is non-blank lands in exactly one group; blank names are skipped. Groups
// come back sorted by descending member count, ties keeping first-seen key
// order, so repeated runs over the same snapshot report identically.
func (m *Matcher) GroupExact(records []location.Record) []Group {
	byKey := make(map[string]int)
	var groups []Group

	for _, rec := range records {
		key := normalize.Key(rec.Name)
		if key == "" {
			continue
		}
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, Group{Key: key})
		}
		groups[idx].Records = append(groups[idx].Records, rec)
	}

	for i := range groups {
		groups[i].SamePlaceID, groups[i].SameCity = deriveFlags(groups[i].Records)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Records) > len(groups[j].Records)
	})

	return groups
}

// GroupWithinCity partitions records by normalized name within each city, so
// same-named places in different cities never share a group. Records without
// a city form their own per-name buckets.
func (m *Matcher) GroupWithinCity(records []location.Record) []Group {
	byCity := make(map[string][]location.Record)
	var cityOrder []string

	for _, rec := range records {
		city := strings.ToLower(rec.CityValue())
		if _, ok := byCity[city]; !ok {
			cityOrder = append(cityOrder, city)
		}
		byCity[city] = append(byCity[city], rec)
	}

	var groups []Group
	for _, city := range cityOrder {
		groups = append(groups, m.GroupExact(byCity[city])...)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].Records) > len(groups[j].Records)
	})

	return groups
}

// Duplicates filters groups down to those with at least two members.
func Duplicates(groups []Group) []Group {
	var out []Group
	for _, g := range groups {
		if len(g.Records) >= 2 {
			out = append(out, g)
		}
	}
	return out
}

// Search finds records matching a free-text query: normalized-name equality,
// substring containment in either direction, or similarity above the
// threshold. Hits are re-grouped by their own normalized name for display.
func (m *Matcher) Search(records []location.Record, query string) []Group {
	q := normalize.Key(query)
	if q == "" {
		return nil
	}

	var hits []location.Record
	for _, rec := range records {
		key := normalize.Key(rec.Name)
		if key == "" {
			continue
		}
		if key == q || strings.Contains(key, q) || strings.Contains(q, key) || Similarity(key, q) > m.Threshold {
			hits = append(hits, rec)
		}
	}

	return m.GroupExact(hits)
}

func deriveFlags(records []location.Record) (samePlaceID, sameCity bool) {
	placeIDs := make(map[string]struct{})
	cities := make(map[string]struct{})

	for _, rec := range records {
		if pid := rec.PlaceIDValue(); pid != "" {
			placeIDs[pid] = struct{}{}
		}
		if city := rec.CityValue(); city != "" {
			cities[strings.ToLower(city)] = struct{}{}
		}
	}

	return len(placeIDs) <= 1, len(cities) <= 1
}
