// Package index defines the persistence contracts for the two entities
// in spec §3 (Archived, File) and the pure state-reconstruction query
// that sits on top of them (spec §4.5). Concrete persistence lives in
// internal/index/sqlite.
package index

import (
	"context"

	"github.com/prn-tf/serac/internal/domain"
)

// ArchivedRepository persists Archived rows. Rows are immutable once
// successfully written; a poisoned row (Hash == "") is updated exactly
// once, from a failed upload, and never deleted.
type ArchivedRepository interface {
	// Create persists a new Archived row and assigns its ID.
	Create(ctx context.Context, a *domain.Archived) error
	// MarkPoisoned clears the hash of an existing Archived row to "",
	// recording a failed upload so the id is never reused.
	MarkPoisoned(ctx context.Context, id int64) error
	// GetByID retrieves an Archived row by id.
	GetByID(ctx context.Context, id int64) (*domain.Archived, error)
}

// FileRepository persists File events. Rows are append-only: insert
// only, never update or delete.
type FileRepository interface {
	// Insert persists a new File event and assigns its ID. Returns
	// serac.ErrArchiveFailed-wrapped error on a (path, last_modified)
	// collision (spec §3: equal last_modified for one path is
	// disallowed).
	Insert(ctx context.Context, f *domain.File) error
	// AllUpTo returns every File row with last_modified <= t, across all
	// paths, for the state-reconstruction query to reduce.
	AllUpTo(ctx context.Context, t int64) ([]*domain.File, error)
}
