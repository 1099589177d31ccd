// Package commitengine drives the per-changeset commit procedure
// (spec §4.7): metadata/delete events are persisted before any new
// content upload, and a per-file archive failure never aborts the
// commit. Grounded on the teacher's internal/service orchestration style
// (session_service.go): a thin struct wrapping repositories, wrapping
// every error at the boundary, logging at each branch.
package commitengine

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/index"
	"github.com/prn-tf/serac/internal/metrics"
	"github.com/prn-tf/serac/internal/reporter"
	"github.com/prn-tf/serac/internal/serac"
	"github.com/prn-tf/serac/internal/storage"
)

// Engine commits a Changeset against the index and storage backend.
type Engine struct {
	files    index.FileRepository
	archived index.ArchivedRepository
	backend  *storage.Backend
	password string
	logger   zerolog.Logger
	counters *metrics.Counters // nil when the metrics surface (spec §4.9) isn't running
}

// New returns a commit Engine.
func New(files index.FileRepository, archived index.ArchivedRepository, backend *storage.Backend, password string, logger zerolog.Logger) *Engine {
	return &Engine{
		files:    files,
		archived: archived,
		backend:  backend,
		password: password,
		logger:   logger.With().Str("component", "commit").Logger(),
	}
}

// WithCounters attaches Prometheus counters; subsequent commits report
// per-file classification and upload activity to them.
func (e *Engine) WithCounters(c *metrics.Counters) *Engine {
	e.counters = c
	return e
}

// Commit persists cs's metadata/delete events first, then archives
// (uploads + persists) added/content events. Per-file archive failures
// are reported through rep and do not abort the commit.
func (e *Engine) Commit(ctx context.Context, cs *domain.Changeset, rep reporter.Reporter) error {
	for _, f := range cs.Metadata {
		if err := e.files.Insert(ctx, f); err != nil {
			return fmt.Errorf("commit metadata event for %s: %w", f.Path, err)
		}
		rep.Complete(reporter.Status{Path: f.Path, Action: "metadata"})
		if e.counters != nil {
			e.counters.FilesMetadata.Inc()
		}
	}
	for _, f := range cs.Deleted {
		if err := e.files.Insert(ctx, f); err != nil {
			return fmt.Errorf("commit delete event for %s: %w", f.Path, err)
		}
		rep.Complete(reporter.Status{Path: f.Path, Action: "delete"})
		if e.counters != nil {
			e.counters.FilesDeleted.Inc()
		}
	}

	for _, f := range cs.Added {
		e.archiveOne(ctx, f, "add", rep)
	}
	for _, f := range cs.Content {
		e.archiveOne(ctx, f, "content", rep)
	}

	return nil
}

func (e *Engine) archiveOne(ctx context.Context, f *domain.File, action string, rep reporter.Reporter) {
	rep.Update(reporter.Status{Path: f.Path, Action: action})
	size, err := e.archive(ctx, f)
	if err != nil {
		e.logger.Error().Err(err).Str("path", f.Path).Msg("archive failed")
		rep.Complete(reporter.Status{Path: f.Path, Action: action, Err: err})
		if e.counters != nil {
			e.counters.ArchiveFailures.Inc()
		}
		return
	}
	rep.Complete(reporter.Status{Path: f.Path, Action: action})
	if e.counters != nil {
		switch action {
		case "add":
			e.counters.FilesAdded.Inc()
		case "content":
			e.counters.FilesContent.Inc()
		}
		e.counters.BytesUploaded.Add(float64(size))
	}
}

// archive implements spec §4.4's archive(File, archive_config) procedure,
// returning the plaintext size uploaded on success.
func (e *Engine) archive(ctx context.Context, f *domain.File) (int64, error) {
	if f.Persisted() {
		return 0, serac.ErrAlreadyArchived
	}

	hash, err := f.CalculateHash()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", serac.ErrArchiveFailed, err)
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", serac.ErrArchiveFailed, err)
	}

	a := &domain.Archived{Hash: hash, Size: info.Size()}
	if err := e.archived.Create(ctx, a); err != nil {
		return 0, fmt.Errorf("%w: create archived row: %v", serac.ErrArchiveFailed, err)
	}

	if err := e.backend.Store(ctx, f.Path, fmt.Sprint(a.ID), e.password); err != nil {
		if poisonErr := e.archived.MarkPoisoned(ctx, a.ID); poisonErr != nil {
			e.logger.Error().Err(poisonErr).Int64("archived_id", a.ID).Msg("failed to poison archived row after store failure")
		}
		return 0, fmt.Errorf("%w: %v", serac.ErrArchiveFailed, err)
	}

	f.ArchivedID = a.ID
	if err := e.files.Insert(ctx, f); err != nil {
		return 0, fmt.Errorf("%w: insert file row: %v", serac.ErrArchiveFailed, err)
	}

	return a.Size, nil
}
