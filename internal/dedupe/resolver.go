package dedupe

import (
	"context"
	"sort"
	"strings"

	"github.com/mel-koku/koku-locations/internal/location"
)

// Deleter removes a single record from storage.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// ScoredRecord pairs a record with its completeness score.
type ScoredRecord struct {
	Record location.Record
	Score  int
}

// Decision is the keep/delete partition for one duplicate group.
type Decision struct {
	Group      Group
	Keep       ScoredRecord
	Delete     []ScoredRecord
	Skipped    bool
	SkipReason string
}

// DeleteError records a single failed deletion.
type DeleteError struct {
	ID      string
	Message string
}

// Outcome summarizes an execute run.
type Outcome struct {
	Deleted int
	Errors  []DeleteError
}

// Resolver decides which record in each duplicate group survives.
type Resolver struct {
	scorer *Scorer

	// guard, when set, skips groups that carry more than one distinct
	// place_id and more than one distinct city: two same-named records in
	// different cities with different place_ids are almost certainly
	// different places (chain branches), not duplicates. City-scoped runs
	// hold city constant already and leave the guard off.
	guard bool
}

// NewResolver creates a resolver for whole-corpus groups, with the
// false-positive guard enabled.
func NewResolver() *Resolver {
	return &Resolver{scorer: NewScorer(), guard: true}
}

// NewCityScopedResolver creates a resolver for groups already restricted to a
// single city; the false-positive guard is unnecessary there.
func NewCityScopedResolver() *Resolver {
	return &Resolver{scorer: NewScorer(), guard: false}
}

// Plan partitions each group of two or more records into one keep and the
// rest delete. Records are ranked by descending score with a stable sort, so
// ties keep their original collection order and the same snapshot always
// yields the same decision.
func (r *Resolver) Plan(groups []Group) []Decision {
	var decisions []Decision

	for _, g := range Duplicates(groups) {
		if r.guard && isLikelyDistinctPlaces(g.Records) {
			decisions = append(decisions, Decision{
				Group:      g,
				Skipped:    true,
				SkipReason: "multiple distinct place_ids across multiple cities",
			})
			continue
		}

		scored := make([]ScoredRecord, len(g.Records))
		for i, rec := range g.Records {
			scored[i] = ScoredRecord{Record: rec, Score: r.scorer.Score(rec)}
		}
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})

		decisions = append(decisions, Decision{
			Group:  g,
			Keep:   scored[0],
			Delete: scored[1:],
		})
	}

	return decisions
}

// Execute applies the delete side of each decision one record at a time.
// A failed delete is recorded and processing continues; the batch is
// best-effort and non-transactional, and safe to re-run. When execute is
// false nothing is mutated and the outcome is empty.
func (r *Resolver) Execute(ctx context.Context, deleter Deleter, decisions []Decision, execute bool) Outcome {
	var out Outcome
	if !execute {
		return out
	}

	for _, d := range decisions {
		if d.Skipped {
			continue
		}
		for _, sr := range d.Delete {
			if err := deleter.Delete(ctx, sr.Record.ID); err != nil {
				out.Errors = append(out.Errors, DeleteError{ID: sr.Record.ID, Message: err.Error()})
				continue
			}
			out.Deleted++
		}
	}

	return out
}

// isLikelyDistinctPlaces reports whether a group spans more than one distinct
// non-empty place_id and more than one distinct city.
func isLikelyDistinctPlaces(records []location.Record) bool {
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

	return len(placeIDs) > 1 && len(cities) > 1
}
