// Package report separates report construction from rendering: builders
// produce plain data structures from analysis output, and renderers turn
// those into console text or JSON files. Core logic never writes to stdout.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mel-koku/koku-locations/internal/audit"
	"github.com/mel-koku/koku-locations/internal/dedupe"
	"github.com/mel-koku/koku-locations/internal/location"
)

// RecordSummary is the per-record slice of a report.
type RecordSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city,omitempty"`
	Region    string `json:"region,omitempty"`
	PlaceID   string `json:"place_id,omitempty"`
	HasCoords bool   `json:"has_coordinates"`
	Score     int    `json:"score,omitempty"`
}

func summarize(rec location.Record, score int) RecordSummary {
	return RecordSummary{
		ID:        rec.ID,
		Name:      rec.Name,
		City:      rec.CityValue(),
		Region:    rec.RegionValue(),
		PlaceID:   rec.PlaceIDValue(),
		HasCoords: rec.HasCoordinates(),
		Score:     score,
	}
}

// GroupEntry is one duplicate group in a dedupe report.
type GroupEntry struct {
	Key         string          `json:"normalized_name"`
	Count       int             `json:"count"`
	SamePlaceID bool            `json:"same_place_id"`
	SameCity    bool            `json:"same_city"`
	Skipped     bool            `json:"skipped,omitempty"`
	SkipReason  string          `json:"skip_reason,omitempty"`
	Keep        *RecordSummary  `json:"keep,omitempty"`
	Delete      []RecordSummary `json:"delete,omitempty"`
	Records     []RecordSummary `json:"records"`
}

// ErrorEntry is one non-fatal per-record failure.
type ErrorEntry struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Dedupe is the full result of a dedupe run.
type Dedupe struct {
	GeneratedAt      time.Time    `json:"generated_at"`
	Mode             string       `json:"mode"` // "exact", "same-city" or "search"
	Query            string       `json:"query,omitempty"`
	TotalRecords     int          `json:"total_records"`
	DuplicateGroups  int          `json:"duplicate_groups"`
	DuplicateRecords int          `json:"duplicate_records"` // records beyond the first in each group
	SkippedGroups    int          `json:"skipped_groups"`
	Executed         bool         `json:"executed"`
	Deleted          int          `json:"deleted"`
	Errors           []ErrorEntry `json:"errors"`
	Groups           []GroupEntry `json:"groups"`
}

// BuildDedupe assembles a dedupe report from matcher groups, resolver
// decisions and the execution outcome. generatedAt is injected so report
// content is reproducible in tests.
func BuildDedupe(generatedAt time.Time, mode, query string, totalRecords int,
	decisions []dedupe.Decision, out dedupe.Outcome, executed bool) *Dedupe {

	r := &Dedupe{
		GeneratedAt:  generatedAt,
		Mode:         mode,
		Query:        query,
		TotalRecords: totalRecords,
		Executed:     executed,
		Deleted:      out.Deleted,
		Errors:       []ErrorEntry{},
	}

	for _, err := range out.Errors {
		r.Errors = append(r.Errors, ErrorEntry{ID: err.ID, Message: err.Message})
	}

	for _, d := range decisions {
		entry := GroupEntry{
			Key:         d.Group.Key,
			Count:       len(d.Group.Records),
			SamePlaceID: d.Group.SamePlaceID,
			SameCity:    d.Group.SameCity,
			Skipped:     d.Skipped,
			SkipReason:  d.SkipReason,
		}
		for _, rec := range d.Group.Records {
			entry.Records = append(entry.Records, summarize(rec, 0))
		}
		if !d.Skipped {
			keep := summarize(d.Keep.Record, d.Keep.Score)
			entry.Keep = &keep
			for _, sr := range d.Delete {
				entry.Delete = append(entry.Delete, summarize(sr.Record, sr.Score))
			}
			r.DuplicateRecords += len(d.Delete)
		} else {
			r.SkippedGroups++
		}
		r.Groups = append(r.Groups, entry)
	}

	r.DuplicateGroups = len(r.Groups) - r.SkippedGroups

	return r
}

// BuildSearch assembles a report for search mode, where groups carry no
// keep/delete partition.
func BuildSearch(generatedAt time.Time, query string, totalRecords int, groups []dedupe.Group) *Dedupe {
	r := &Dedupe{
		GeneratedAt:  generatedAt,
		Mode:         "search",
		Query:        query,
		TotalRecords: totalRecords,
		Errors:       []ErrorEntry{},
	}

	for _, g := range groups {
		entry := GroupEntry{
			Key:         g.Key,
			Count:       len(g.Records),
			SamePlaceID: g.SamePlaceID,
			SameCity:    g.SameCity,
		}
		for _, rec := range g.Records {
			entry.Records = append(entry.Records, summarize(rec, 0))
		}
		r.Groups = append(r.Groups, entry)
	}
	r.DuplicateGroups = len(r.Groups)

	return r
}

// FindingEntry is one auditor finding.
type FindingEntry struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	City             string `json:"city,omitempty"`
	CityOriginal     string `json:"city_original,omitempty"`
	StoredRegion     string `json:"stored_region,omitempty"`
	ExpectedRegion   string `json:"expected_region,omitempty"`
	CoordinateRegion string `json:"coordinate_region,omitempty"`
	Type             string `json:"type"`
	Critical         bool   `json:"critical"`
	Repairable       bool   `json:"repairable"`
}

// PatternEntry is one city→city_original transformation pattern.
type PatternEntry struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// Audit is the full result of a corruption audit run.
type Audit struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	TotalRecords int            `json:"total_records"`
	Findings     []FindingEntry `json:"findings"`
	ByType       map[string]int `json:"by_type"`
	Critical     int            `json:"critical"`
	Patterns     []PatternEntry `json:"patterns"`
	Executed     bool           `json:"executed"`
	Repaired     int            `json:"repaired"`
	ManualReview int            `json:"manual_review"`
	Errors       []ErrorEntry   `json:"errors"`
	ScriptPath   string         `json:"script_path,omitempty"`
}

// BuildAudit assembles an audit report from findings and the repair outcome.
func BuildAudit(generatedAt time.Time, totalRecords int, findings []audit.Finding,
	out audit.RepairOutcome, executed bool) *Audit {

	r := &Audit{
		GeneratedAt:  generatedAt,
		TotalRecords: totalRecords,
		ByType:       make(map[string]int),
		Executed:     executed,
		Repaired:     out.Repaired,
		ManualReview: len(out.ManualReview),
		Errors:       []ErrorEntry{},
	}

	for _, err := range out.Errors {
		r.Errors = append(r.Errors, ErrorEntry{ID: err.ID, Message: err.Message})
	}

	patternCounts := make(map[PatternEntry]int)
	for _, f := range findings {
		rec := f.Record
		r.Findings = append(r.Findings, FindingEntry{
			ID:               rec.ID,
			Name:             rec.Name,
			City:             rec.CityValue(),
			CityOriginal:     rec.CityOriginalValue(),
			StoredRegion:     f.StoredRegion,
			ExpectedRegion:   f.ExpectedRegion,
			CoordinateRegion: f.CoordinateRegion,
			Type:             string(f.Type),
			Critical:         f.Critical,
			Repairable:       f.Repairable,
		})
		r.ByType[string(f.Type)]++
		if f.Critical {
			r.Critical++
		}
		if f.Repairable {
			patternCounts[PatternEntry{From: rec.CityValue(), To: rec.CityOriginalValue()}]++
		}
	}

	for p, n := range patternCounts {
		p.Count = n
		r.Patterns = append(r.Patterns, p)
	}
	sort.Slice(r.Patterns, func(i, j int) bool {
		if r.Patterns[i].From != r.Patterns[j].From {
			return r.Patterns[i].From < r.Patterns[j].From
		}
		return r.Patterns[i].To < r.Patterns[j].To
	})

	return r
}

// WriteJSON writes a report as indented JSON into dir with a timestamped
// name and returns the path.
func WriteJSON(dir, prefix string, generatedAt time.Time, v interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.json", prefix, generatedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}

// WriteScript writes a generated SQL script into dir with a timestamped name
// and returns the path.
func WriteScript(dir, prefix string, generatedAt time.Time, script string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s.sql", prefix, generatedAt.Format("20060102-150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}

	return path, nil
}
