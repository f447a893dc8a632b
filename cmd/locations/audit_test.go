package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mel-koku/koku-locations/internal/location"
	"github.com/mel-koku/koku-locations/internal/report"
)

func corruptedRecord() location.Record {
	// Okinawa coordinates under an Osaka/Kansai label, with the backup the
	// consolidation job wrote.
	return location.Record{
		ID:           "a",
		Name:         "Cape Higashi-Hennazaki",
		City:         strPtr("Osaka"),
		Region:       strPtr("Kansai"),
		Coordinates:  &location.Coordinates{Lat: 24.8, Lng: 125.3},
		CityOriginal: strPtr("Miyakojima"),
	}
}

func TestRunAuditJSONFixPrintsFindingsBeforeUpdating(t *testing.T) {
	st := &fakeStore{records: []location.Record{corruptedRecord()}}

	var buf bytes.Buffer
	st.onUpdate = func() {
		require.Positive(t, buf.Len(), "findings must be emitted before any update")
	}

	err := runAudit(context.Background(), zerolog.Nop(), testConfig(t), st, &buf,
		auditOptions{fix: true, jsonOut: true})
	require.ErrorIs(t, err, errMismatchesFound)
	require.Contains(t, st.updated, "a")
	assert.Equal(t, "Miyakojima", st.updated["a"]["city"])

	// Two JSON documents on stdout: the findings, then the repair report.
	dec := json.NewDecoder(&buf)
	var plan, final report.Audit
	require.NoError(t, dec.Decode(&plan))
	require.NoError(t, dec.Decode(&final))

	assert.False(t, plan.Executed)
	assert.Zero(t, plan.Repaired)
	require.Len(t, plan.Findings, 1)
	assert.True(t, plan.Findings[0].Critical)

	assert.True(t, final.Executed)
	assert.Equal(t, 1, final.Repaired)
	assert.NotEmpty(t, final.ScriptPath)
}

func TestRunAuditDryRunDoesNotMutate(t *testing.T) {
	st := &fakeStore{records: []location.Record{corruptedRecord()}}

	var buf bytes.Buffer
	err := runAudit(context.Background(), zerolog.Nop(), testConfig(t), st, &buf, auditOptions{})
	require.ErrorIs(t, err, errMismatchesFound)
	assert.Empty(t, st.updated)
	assert.Contains(t, buf.String(), "Dry run")
}

func TestRunAuditCleanCorpusExitsZero(t *testing.T) {
	st := &fakeStore{records: []location.Record{
		{ID: "1", Name: "Fushimi Inari", City: strPtr("Kyoto"), Region: strPtr("Kansai"),
			Coordinates: &location.Coordinates{Lat: 34.967, Lng: 135.772}},
	}}

	var buf bytes.Buffer
	err := runAudit(context.Background(), zerolog.Nop(), testConfig(t), st, &buf, auditOptions{})
	require.NoError(t, err)
}
