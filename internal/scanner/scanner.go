// Package scanner walks the configured include roots, applies excludes,
// and classifies each path against the prior index state into a
// Changeset (spec §4.6). Grounded on
// original_source/serac/index/index.py's scan(), but using an explicit
// work queue (spec §9's re-architecture note) instead of the source's
// iterator-splicing, which re-enqueues the same path on directory
// descent.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/index"
)

// Scan expands includes via glob matching, walks the resulting trees
// with an explicit FIFO work queue, applies excludes at every visited
// path, and classifies each regular file against lastState. archivedRepo
// is used to fetch the previous content hash for CONTENT vs METADATA
// classification.
func Scan(ctx context.Context, archivedRepo index.ArchivedRepository, lastState *domain.State, includes, excludes []string) (*domain.Changeset, error) {
	queue, err := expandIncludes(includes)
	if err != nil {
		return nil, err
	}

	remaining := make(map[string]*domain.File)
	for _, f := range lastState.ByPath() {
		remaining[f.Path] = f
	}

	cs := domain.NewChangeset()

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		if matchesAny(excludes, path) {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			// A path that vanished between glob expansion/directory
			// listing and stat is silently dropped, matching the
			// "non-regular files after stat are silently dropped"
			// edge case (spec §4.6).
			continue
		}

		if info.IsDir() {
			children, err := immediateChildren(path)
			if err != nil {
				return nil, fmt.Errorf("list directory %s: %w", path, err)
			}
			queue = append(queue, children...)
			continue
		}

		if !info.Mode().IsRegular() {
			continue
		}

		if err := classify(ctx, archivedRepo, cs, remaining, path); err != nil {
			return nil, err
		}
	}

	for path, prev := range remaining {
		deleted := prev.Clone()
		deleted.ID = 0
		deleted.Action = domain.ActionDelete
		cs.Deleted[path] = deleted
	}

	return cs, nil
}

func classify(ctx context.Context, archivedRepo index.ArchivedRepository, cs *domain.Changeset, remaining map[string]*domain.File, path string) error {
	current := &domain.File{Path: path}
	if err := current.RefreshMetadataFromDisk(); err != nil {
		return fmt.Errorf("refresh metadata for %s: %w", path, err)
	}

	prev, existed := remaining[path]
	delete(remaining, path)

	if !existed {
		current.Action = domain.ActionAdd
		cs.Added[path] = current
		return nil
	}

	if current.MetadataEqual(prev) {
		return nil
	}

	hash, err := current.CalculateHash()
	if err != nil {
		return fmt.Errorf("hash %s: %w", path, err)
	}

	prevArchived, err := archivedRepo.GetByID(ctx, prev.ArchivedID)
	if err != nil {
		return fmt.Errorf("load prior archived record for %s: %w", path, err)
	}

	if hash != prevArchived.Hash {
		current.Action = domain.ActionContent
		cs.Content[path] = current
		return nil
	}

	current.Action = domain.ActionMetadata
	current.ArchivedID = prev.ArchivedID
	cs.Metadata[path] = current
	return nil
}

// expandIncludes globs each include pattern into concrete paths, forming
// the initial work queue. Overlapping includes are not deduplicated here
// (spec §9: callers should not specify overlapping includes; the
// remaining-map pop below is what makes a second visit reclassify as ADD).
func expandIncludes(includes []string) ([]string, error) {
	var queue []string
	for _, pattern := range includes {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand include pattern %q: %w", pattern, err)
		}
		queue = append(queue, matches...)
	}
	return queue, nil
}

func immediateChildren(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	children := make([]string, 0, len(entries))
	for _, e := range entries {
		children = append(children, filepath.Join(dir, e.Name()))
	}
	return children, nil
}

// matchesAny reports whether path matches any exclude pattern, fnmatch-style
// (whole-string glob match, spec §4.6).
func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, err := filepath.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
