// Package store is the storage collaborator for the locations table:
// paginated reads, per-record updates and deletes.
package store

import (
	"context"
	"fmt"

	"github.com/mel-koku/koku-locations/internal/location"
)

// Kind tags an error with how callers must react to it.
type Kind string

const (
	// KindConfig is a missing/invalid configuration error. Fatal before any
	// analysis starts.
	KindConfig Kind = "config"

	// KindRead is a failed page fetch. Fatal for the run: grouping
	// correctness depends on seeing the full corpus, so no job proceeds on
	// partial data.
	KindRead Kind = "read"

	// KindRecord is a failed per-record mutation. Non-fatal: the failure is
	// accumulated and the batch continues.
	KindRecord Kind = "record"
)

// Error is a kind-tagged storage error. ID is set for per-record failures.
type Error struct {
	Kind Kind
	ID   string
	Err  error
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("store: %s error for record %s: %v", e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("store: %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fatal reports whether the error must abort the run.
func (e *Error) Fatal() bool { return e.Kind != KindRecord }

// Store is the contract every batch job runs against.
type Store interface {
	// FetchAll reads the full locations snapshot, ordered by name, in pages.
	// Any page failure aborts the read.
	FetchAll(ctx context.Context) ([]location.Record, error)

	// Update applies a partial update to one record.
	Update(ctx context.Context, id string, fields map[string]interface{}) error

	// Delete removes one record. Deleting an already-deleted id is a
	// per-record failure, not corruption; the jobs are safe to re-run.
	Delete(ctx context.Context, id string) error
}
