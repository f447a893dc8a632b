package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mel-koku/koku-locations/internal/location"
)

func strPtr(s string) *string { return &s }

// fakeUpdater applies city updates to an in-memory record set.
type fakeUpdater struct {
	records map[string]*location.Record
	failIDs map[string]bool
	calls   int
}

func (f *fakeUpdater) Update(_ context.Context, id string, fields map[string]interface{}) error {
	f.calls++
	if f.failIDs[id] {
		return errors.New("connection reset")
	}
	if city, ok := fields["city"].(string); ok {
		f.records[id].City = &city
	}
	return nil
}

func TestRegionForPoint(t *testing.T) {
	tests := []struct {
		name string
		c    location.Coordinates
		want string
	}{
		{name: "okinawa", c: location.Coordinates{Lat: 24.8, Lng: 125.3}, want: "Okinawa"},
		{name: "kyoto", c: location.Coordinates{Lat: 35.0116, Lng: 135.7681}, want: "Kansai"},
		{name: "sapporo", c: location.Coordinates{Lat: 43.06, Lng: 141.35}, want: "Hokkaido"},
		{name: "open ocean", c: location.Coordinates{Lat: 10, Lng: 160}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionForPoint(tt.c))
		})
	}
}

func TestRegionForPointFirstMatchOrder(t *testing.T) {
	// The Kanto and Chubu boxes overlap around Hakone; the fixed iteration
	// order resolves the ambiguity to Kanto, every time.
	p := location.Coordinates{Lat: 35.2, Lng: 139.0}
	for i := 0; i < 5; i++ {
		assert.Equal(t, "Kanto", RegionForPoint(p))
	}
}

func TestInspectCorroboratedCorruption(t *testing.T) {
	// The canonical consolidation bug: an Okinawa location whose city was
	// overwritten with the same-named Osaka ward.
	rec := location.Record{
		ID:           "loc-1",
		Name:         "Cape Higashi-Hennazaki",
		City:         strPtr("Osaka"),
		Region:       strPtr("Kansai"),
		Coordinates:  &location.Coordinates{Lat: 24.8, Lng: 125.3},
		CityOriginal: strPtr("Miyakojima"),
	}

	f, ok := NewAuditor().Inspect(rec)

	require.True(t, ok)
	assert.Equal(t, MismatchCoordinateRegion, f.Type)
	assert.Equal(t, "Okinawa", f.CoordinateRegion)
	assert.Equal(t, "Kansai", f.ExpectedRegion)
	assert.True(t, f.Critical, "coordinates and city convention disagree: confirmed corruption")
	assert.True(t, f.Repairable)
}

func TestInspectCityRegionOnly(t *testing.T) {
	rec := location.Record{
		ID:     "loc-2",
		Name:   "Shuri Castle",
		City:   strPtr("Naha"),
		Region: strPtr("Kyushu"),
	}

	f, ok := NewAuditor().Inspect(rec)

	require.True(t, ok)
	assert.Equal(t, MismatchCityRegion, f.Type)
	assert.Equal(t, "Okinawa", f.ExpectedRegion)
	assert.False(t, f.Critical, "no coordinates to corroborate")
	assert.False(t, f.Repairable)
}

func TestInspectBothMismatch(t *testing.T) {
	rec := location.Record{
		ID:          "loc-3",
		Name:        "Churaumi Aquarium",
		City:        strPtr("Nago"),
		Region:      strPtr("Kanto"),
		Coordinates: &location.Coordinates{Lat: 26.69, Lng: 127.88},
	}

	f, ok := NewAuditor().Inspect(rec)

	require.True(t, ok)
	assert.Equal(t, MismatchBoth, f.Type)
	assert.False(t, f.Critical, "both signals agree with each other, so the stored region is simply wrong")
}

func TestInspectCleanRecord(t *testing.T) {
	rec := location.Record{
		ID:          "loc-4",
		Name:        "Fushimi Inari",
		City:        strPtr("Kyoto"),
		Region:      strPtr("Kansai"),
		Coordinates: &location.Coordinates{Lat: 34.967, Lng: 135.772},
	}

	_, ok := NewAuditor().Inspect(rec)
	assert.False(t, ok)
}

func TestInspectUnknownCityNoCoordinates(t *testing.T) {
	rec := location.Record{
		ID:     "loc-5",
		Name:   "Some Izakaya",
		City:   strPtr("Obscure Town"),
		Region: strPtr("Kansai"),
	}

	_, ok := NewAuditor().Inspect(rec)
	assert.False(t, ok, "no signal available, nothing to flag")
}

func TestRepairIdempotent(t *testing.T) {
	auditor := NewAuditor()
	rec := location.Record{
		ID:           "loc-1",
		Name:         "Cape Higashi-Hennazaki",
		City:         strPtr("Osaka"),
		Region:       strPtr("Kansai"),
		Coordinates:  &location.Coordinates{Lat: 24.8, Lng: 125.3},
		CityOriginal: strPtr("Miyakojima"),
	}

	updater := &fakeUpdater{records: map[string]*location.Record{"loc-1": &rec}}

	findings := auditor.Audit([]location.Record{rec})
	require.Len(t, findings, 1)

	out := auditor.Repair(context.Background(), updater, findings, true)
	assert.Equal(t, 1, out.Repaired)
	assert.Equal(t, "Miyakojima", rec.CityValue())

	// Second run over the repaired snapshot: nothing left to flag or touch.
	findings = auditor.Audit([]location.Record{rec})
	assert.Empty(t, findings)

	out = auditor.Repair(context.Background(), updater, findings, true)
	assert.Zero(t, out.Repaired)
	assert.Equal(t, 1, updater.calls)
}

func TestRepairDryRunDoesNotMutate(t *testing.T) {
	rec := location.Record{
		ID:           "loc-1",
		Name:         "Cape Higashi-Hennazaki",
		City:         strPtr("Osaka"),
		Region:       strPtr("Kansai"),
		CityOriginal: strPtr("Miyakojima"),
		Coordinates:  &location.Coordinates{Lat: 24.8, Lng: 125.3},
	}
	updater := &fakeUpdater{records: map[string]*location.Record{"loc-1": &rec}}

	auditor := NewAuditor()
	findings := auditor.Audit([]location.Record{rec})
	out := auditor.Repair(context.Background(), updater, findings, false)

	assert.Zero(t, out.Repaired)
	assert.Zero(t, updater.calls)
	assert.Equal(t, "Osaka", rec.CityValue())
}

func TestRepairCollectsManualReviewAndErrors(t *testing.T) {
	records := []location.Record{
		{
			ID: "a", Name: "A", City: strPtr("Osaka"), Region: strPtr("Kansai"),
			Coordinates: &location.Coordinates{Lat: 24.8, Lng: 125.3}, CityOriginal: strPtr("Miyakojima"),
		},
		{
			ID: "b", Name: "B", City: strPtr("Naha"), Region: strPtr("Kyushu"),
		},
		{
			ID: "c", Name: "C", City: strPtr("Osaka"), Region: strPtr("Kansai"),
			Coordinates: &location.Coordinates{Lat: 26.2, Lng: 127.7}, CityOriginal: strPtr("Urasoe"),
		},
	}

	byID := make(map[string]*location.Record)
	for i := range records {
		byID[records[i].ID] = &records[i]
	}
	updater := &fakeUpdater{records: byID, failIDs: map[string]bool{"c": true}}

	auditor := NewAuditor()
	findings := auditor.Audit(records)
	require.Len(t, findings, 3)

	out := auditor.Repair(context.Background(), updater, findings, true)

	assert.Equal(t, 1, out.Repaired)
	require.Len(t, out.ManualReview, 1)
	assert.Equal(t, "b", out.ManualReview[0].Record.ID)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "c", out.Errors[0].ID)
}

func TestRollbackSQL(t *testing.T) {
	findings := []Finding{
		{
			Record: location.Record{ID: "a2", City: strPtr("Osaka"), CityOriginal: strPtr("Miyakojima")},
			Type:   MismatchBoth, Repairable: true,
		},
		{
			Record: location.Record{ID: "a1", City: strPtr("Osaka"), CityOriginal: strPtr("Miyakojima")},
			Type:   MismatchBoth, Repairable: true,
		},
		{
			Record: location.Record{ID: "b1", City: strPtr("Fuchu"), CityOriginal: strPtr("O'hara")},
			Type:   MismatchCityRegion, Repairable: true,
		},
		{
			Record: location.Record{ID: "c1", City: strPtr("Naha")},
			Type:   MismatchCityRegion, Repairable: false,
		},
	}

	generated := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	script := RollbackSQL(findings, "locations", generated)

	assert.Contains(t, script, "UPDATE locations SET city = 'Miyakojima' WHERE id IN ('a1', 'a2');")
	assert.Contains(t, script, "UPDATE locations SET city = 'O''hara' WHERE id IN ('b1');")
	assert.NotContains(t, script, "Naha", "non-repairable findings stay out of the script")
	assert.Contains(t, script, "2 transformation pattern(s)")
}
