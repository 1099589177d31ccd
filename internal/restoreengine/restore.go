// Package restoreengine implements the restore procedure of spec §4.8:
// select files by pattern at a timestamp, remap paths, decrypt and write
// them, aggregating per-file failures into a result map instead of
// aborting (spec §9's result-sum-type re-architecture note). Grounded on
// original_source/serac/commands.py's cmd_restore.
package restoreengine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/index"
	"github.com/prn-tf/serac/internal/reporter"
	"github.com/prn-tf/serac/internal/serac"
	"github.com/prn-tf/serac/internal/storage"
)

// Engine restores files from the archive into a destination directory.
type Engine struct {
	files    index.FileRepository
	backend  *storage.Backend
	password string
	logger   zerolog.Logger
}

// New returns a restore Engine.
func New(files index.FileRepository, backend *storage.Backend, password string, logger zerolog.Logger) *Engine {
	return &Engine{
		files:    files,
		backend:  backend,
		password: password,
		logger:   logger.With().Str("component", "restore").Logger(),
	}
}

// Result maps each attempted path to nil (success) or the error
// encountered restoring it.
type Result map[string]error

// Restore implements spec §4.8's five-step procedure.
func (e *Engine) Restore(ctx context.Context, t int64, dest string, pattern domain.Pattern, missingOK bool, rep reporter.Reporter) (Result, error) {
	state, err := index.Search(ctx, e.files, t, pattern)
	if err != nil {
		return nil, fmt.Errorf("search state at %d: %w", t, err)
	}

	if !pattern.Empty() && state.Len() == 1 {
		if info, err := os.Stat(dest); err == nil && info.IsDir() {
			dest = filepath.Join(dest, filepath.Base(pattern.String()))
		}
	}

	result := make(Result)

	for _, f := range state.ByPath() {
		target := remap(f.Path, pattern, dest)

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			result[f.Path] = fmt.Errorf("create parent directory for %s: %w", target, err)
			rep.Complete(reporter.Status{Path: f.Path, Action: "restore", Err: result[f.Path]})
			continue
		}

		rep.Update(reporter.Status{Path: f.Path, Action: "restore"})
		if err := e.backend.Retrieve(ctx, target, fmt.Sprint(f.ArchivedID), e.password); err != nil {
			result[f.Path] = err
			rep.Complete(reporter.Status{Path: f.Path, Action: "restore", Err: err})
			continue
		}

		result[f.Path] = nil
		rep.Complete(reporter.Status{Path: f.Path, Action: "restore"})
	}

	if len(result) == 0 && !missingOK {
		if !pattern.Empty() {
			return result, serac.ErrNotFound
		}
		return result, serac.ErrArchiveEmpty
	}

	return result, nil
}

// remap computes the restore target for path under dest, relative to
// pattern if set, or preserving the full tree under dest otherwise.
func remap(path string, pattern domain.Pattern, dest string) string {
	if !pattern.Empty() {
		rel := strings.TrimPrefix(path, pattern.String())
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			return dest
		}
		return filepath.Join(dest, rel)
	}
	return filepath.Join(dest, strings.TrimPrefix(path, "/"))
}
