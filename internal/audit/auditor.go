package audit

import (
	"context"

	"github.com/mel-koku/koku-locations/internal/location"
)

// MismatchType classifies which signals disagree with a record's stored
// region.
type MismatchType string

const (
	// MismatchCityRegion means the city's expected region disagrees with the
	// stored region.
	MismatchCityRegion MismatchType = "city-region"

	// MismatchCoordinateRegion means the coordinate-derived region disagrees
	// with the stored region.
	MismatchCoordinateRegion MismatchType = "coordinate-region"

	// MismatchBoth means both signals disagree with the stored region.
	MismatchBoth MismatchType = "both"
)

// Finding is one flagged record with the evidence behind the flag.
type Finding struct {
	Record           location.Record
	Type             MismatchType
	StoredRegion     string
	ExpectedRegion   string // from the city table, "" when the city is unknown
	CoordinateRegion string // from bounding boxes, "" when unresolvable

	// Critical marks independent corroboration: the coordinate-derived
	// region disagrees with the city's expected region too, so two unrelated
	// signals point away from the stored value.
	Critical bool

	// Repairable marks records carrying a city_original backup to roll back
	// to. Findings without one need manual review.
	Repairable bool
}

// Updater applies a partial update to a single record.
type Updater interface {
	Update(ctx context.Context, id string, fields map[string]interface{}) error
}

// RepairError records a single failed update.
type RepairError struct {
	ID      string
	Message string
}

// RepairOutcome summarizes a repair run.
type RepairOutcome struct {
	Repaired     int
	ManualReview []Finding
	Errors       []RepairError
}

// Auditor detects region corruption introduced by the city consolidation
// migration, which overwrote some cities with same-named wards in the wrong
// region.
type Auditor struct{}

// NewAuditor creates an auditor backed by the built-in region tables.
func NewAuditor() *Auditor {
	return &Auditor{}
}

// Inspect checks one record and returns a finding when any signal disagrees
// with the stored region. A record whose city already equals its
// city_original backup has been rolled back (or was never touched) and is
// never flagged, which keeps repair idempotent: a second run after a
// successful repair finds nothing.
func (a *Auditor) Inspect(rec location.Record) (Finding, bool) {
	city := rec.CityValue()
	backup := rec.CityOriginalValue()
	if backup != "" && backup == city {
		return Finding{}, false
	}

	stored := rec.RegionValue()

	expected, expectedKnown := ExpectedRegion(city)
	cityMismatch := expectedKnown && expected != stored

	coordRegion := ""
	if rec.HasCoordinates() {
		coordRegion = RegionForPoint(*rec.Coordinates)
	}
	coordMismatch := coordRegion != "" && coordRegion != stored

	if !cityMismatch && !coordMismatch {
		return Finding{}, false
	}

	f := Finding{
		Record:           rec,
		StoredRegion:     stored,
		CoordinateRegion: coordRegion,
		Repairable:       backup != "",
	}
	if expectedKnown {
		f.ExpectedRegion = expected
	}

	switch {
	case cityMismatch && coordMismatch:
		f.Type = MismatchBoth
	case cityMismatch:
		f.Type = MismatchCityRegion
	default:
		f.Type = MismatchCoordinateRegion
	}

	f.Critical = expectedKnown && coordRegion != "" && coordRegion != expected

	return f, true
}

// Audit inspects every record in the snapshot, preserving input order.
func (a *Auditor) Audit(records []location.Record) []Finding {
	var findings []Finding
	for _, rec := range records {
		if f, ok := a.Inspect(rec); ok {
			findings = append(findings, f)
		}
	}
	return findings
}

// Repair rolls each repairable finding's city back to its city_original
// backup, one record at a time. Failed updates are recorded and the run
// continues. Findings without a backup are collected for manual review.
// When execute is false nothing is mutated.
func (a *Auditor) Repair(ctx context.Context, updater Updater, findings []Finding, execute bool) RepairOutcome {
	var out RepairOutcome

	for _, f := range findings {
		if !f.Repairable {
			out.ManualReview = append(out.ManualReview, f)
			continue
		}
		if !execute {
			continue
		}

		fields := map[string]interface{}{"city": f.Record.CityOriginalValue()}
		if err := updater.Update(ctx, f.Record.ID, fields); err != nil {
			out.Errors = append(out.Errors, RepairError{ID: f.Record.ID, Message: err.Error()})
			continue
		}
		out.Repaired++
	}

	return out
}
