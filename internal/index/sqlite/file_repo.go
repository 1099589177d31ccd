package sqlite

import (
	"context"
	"fmt"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/index"
	"github.com/prn-tf/serac/internal/serac"
)

// fileRepository implements index.FileRepository for SQLite.
type fileRepository struct {
	db *DB
}

// NewFileRepository creates a new SQLite-backed FileRepository.
func NewFileRepository(db *DB) index.FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Insert(ctx context.Context, f *domain.File) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO files (path, archived_id, action, last_modified, owner, file_group, permissions)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.Path, f.ArchivedID, int(f.Action), f.LastModified, f.Owner, f.Group, f.Permissions,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate last_modified for %s", serac.ErrArchiveFailed, f.Path)
		}
		return fmt.Errorf("insert file row: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	f.ID = id
	return nil
}

func (r *fileRepository) AllUpTo(ctx context.Context, t int64) ([]*domain.File, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, path, archived_id, action, last_modified, owner, file_group, permissions
		 FROM files
		 WHERE last_modified <= ?
		 ORDER BY path ASC, last_modified ASC`,
		t,
	)
	if err != nil {
		return nil, fmt.Errorf("query file rows up to %d: %w", t, err)
	}
	defer rows.Close()

	var files []*domain.File
	for rows.Next() {
		f := &domain.File{}
		var action int
		if err := rows.Scan(&f.ID, &f.Path, &f.ArchivedID, &action, &f.LastModified, &f.Owner, &f.Group, &f.Permissions); err != nil {
			return nil, fmt.Errorf("scan file row: %w", err)
		}
		f.Action = domain.Action(action)
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file rows: %w", err)
	}
	return files, nil
}

var _ index.FileRepository = (*fileRepository)(nil)
