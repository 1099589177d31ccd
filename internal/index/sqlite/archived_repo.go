package sqlite

import (
	"context"
	"fmt"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/index"
)

// archivedRepository implements index.ArchivedRepository for SQLite.
type archivedRepository struct {
	db *DB
}

// NewArchivedRepository creates a new SQLite-backed ArchivedRepository.
func NewArchivedRepository(db *DB) index.ArchivedRepository {
	return &archivedRepository{db: db}
}

func (r *archivedRepository) Create(ctx context.Context, a *domain.Archived) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO archived (hash, size) VALUES (?, ?)`,
		a.Hash, a.Size,
	)
	if err != nil {
		return fmt.Errorf("create archived row: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	a.ID = id
	return nil
}

func (r *archivedRepository) MarkPoisoned(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE archived SET hash = '' WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("poison archived row %d: %w", id, err)
	}
	return nil
}

func (r *archivedRepository) GetByID(ctx context.Context, id int64) (*domain.Archived, error) {
	a := &domain.Archived{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, hash, size FROM archived WHERE id = ?`, id,
	).Scan(&a.ID, &a.Hash, &a.Size)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("archived row %d: %w", id, errNotFound)
		}
		return nil, fmt.Errorf("get archived row %d: %w", id, err)
	}
	return a, nil
}

var _ index.ArchivedRepository = (*archivedRepository)(nil)
