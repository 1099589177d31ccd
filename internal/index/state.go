package index

import (
	"context"
	"fmt"

	"github.com/prn-tf/serac/internal/domain"
)

// StateAt materializes the set of live files at timestamp t: for each
// path, the row with the greatest last_modified <= t, excluding any path
// whose selected row is a DELETE event.
//
// Implemented as a Go-side reduction over rows pre-sorted by
// (path, last_modified) rather than a single SQL GROUP BY ... HAVING on a
// non-aggregated column, which is driver/version-fragile under SQLite
// (see DESIGN.md Open Question resolutions).
func StateAt(ctx context.Context, repo FileRepository, t int64) (*domain.State, error) {
	rows, err := repo.AllUpTo(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("reconstruct state at %d: %w", t, err)
	}

	latest := make(map[string]*domain.File, len(rows))
	for _, f := range rows {
		// rows are ordered path ASC, last_modified ASC: each later row
		// for the same path supersedes the previous one.
		latest[f.Path] = f
	}

	live := make(map[string]*domain.File, len(latest))
	for path, f := range latest {
		if f.Action == domain.ActionDelete {
			continue
		}
		live[path] = f
	}

	return domain.NewState(live), nil
}

// Search computes StateAt(t) then retains entries matching pattern.
func Search(ctx context.Context, repo FileRepository, t int64, pattern domain.Pattern) (*domain.State, error) {
	state, err := StateAt(ctx, repo, t)
	if err != nil {
		return nil, err
	}
	return state.Search(pattern), nil
}
