package restoreengine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/serac/internal/domain"
	"github.com/prn-tf/serac/internal/reporter"
	"github.com/prn-tf/serac/internal/serac"
	"github.com/prn-tf/serac/internal/storage"
	"github.com/prn-tf/serac/internal/storage/local"
)

type fakeFileRepo struct {
	rows []*domain.File
}

func (r *fakeFileRepo) Insert(context.Context, *domain.File) error { return nil }

func (r *fakeFileRepo) AllUpTo(_ context.Context, t int64) ([]*domain.File, error) {
	var out []*domain.File
	for _, f := range r.rows {
		if f.LastModified <= t {
			out = append(out, f)
		}
	}
	return out, nil
}

func TestEngine_Restore_WritesFileToDest(t *testing.T) {
	storeDir := t.TempDir()
	backend := storage.New(local.New(storeDir), zerolog.Nop())

	require.NoError(t, backend.Store(context.Background(), writeTemp(t, "hello"), "1", "pw"))

	repo := &fakeFileRepo{rows: []*domain.File{
		{Path: "docs/a.txt", ArchivedID: 1, Action: domain.ActionAdd, LastModified: 100},
	}}

	dest := t.TempDir()
	engine := New(repo, backend, "pw", zerolog.Nop())
	result, err := engine.Restore(context.Background(), 200, dest, domain.NewPattern(""), true, reporter.Null{})
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NoError(t, result["docs/a.txt"])

	got, err := os.ReadFile(filepath.Join(dest, "docs/a.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))
}

func TestEngine_Restore_NothingMatchedReturnsArchiveEmpty(t *testing.T) {
	backend := storage.New(local.New(t.TempDir()), zerolog.Nop())
	repo := &fakeFileRepo{}

	engine := New(repo, backend, "pw", zerolog.Nop())
	_, err := engine.Restore(context.Background(), 100, t.TempDir(), domain.NewPattern(""), false, reporter.Null{})
	require.ErrorIs(t, err, serac.ErrArchiveEmpty)
}

func TestEngine_Restore_PatternNotFound(t *testing.T) {
	backend := storage.New(local.New(t.TempDir()), zerolog.Nop())
	repo := &fakeFileRepo{}

	engine := New(repo, backend, "pw", zerolog.Nop())
	_, err := engine.Restore(context.Background(), 100, t.TempDir(), domain.NewPattern("missing"), false, reporter.Null{})
	require.ErrorIs(t, err, serac.ErrNotFound)
}

func TestRemap_WithPattern(t *testing.T) {
	got := remap("docs/sub/a.txt", domain.NewPattern("docs"), "/restore")
	require.Equal(t, filepath.Join("/restore", "sub/a.txt"), got)
}

func TestRemap_SingleFileMatchesPatternExactly(t *testing.T) {
	got := remap("docs/a.txt", domain.NewPattern("docs/a.txt"), "/restore/out.txt")
	require.Equal(t, "/restore/out.txt", got)
}

func TestRemap_NoPatternPreservesTree(t *testing.T) {
	got := remap("/docs/a.txt", domain.NewPattern(""), "/restore")
	require.Equal(t, filepath.Join("/restore", "docs/a.txt"), got)
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
