package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prn-tf/serac/internal/serac"
	"github.com/stretchr/testify/require"
)

func TestFile_RefreshMetadataFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	f := &File{Path: path}
	require.NoError(t, f.RefreshMetadataFromDisk())
	require.NotZero(t, f.LastModified)
	require.Equal(t, uint32(0o644), f.Permissions)
}

func TestFile_RefreshMetadataFromDisk_NotFound(t *testing.T) {
	f := &File{Path: filepath.Join(t.TempDir(), "missing.txt")}
	err := f.RefreshMetadataFromDisk()
	require.ErrorIs(t, err, serac.ErrNotFoundOnDisk)
}

func TestFile_RefreshMetadataFromDisk_NotAFile(t *testing.T) {
	f := &File{Path: t.TempDir()}
	err := f.RefreshMetadataFromDisk()
	require.ErrorIs(t, err, serac.ErrNotAFile)
}

func TestFile_CalculateHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	f := &File{Path: path}
	hash, err := f.CalculateHash()
	require.NoError(t, err)
	require.Len(t, hash, 64)

	// memoized: changing the file on disk must not change the cached hash
	require.NoError(t, os.WriteFile(path, []byte("goodbye"), 0o644))
	again, err := f.CalculateHash()
	require.NoError(t, err)
	require.Equal(t, hash, again)
}

func TestFile_MetadataEqual(t *testing.T) {
	a := &File{Path: "x", LastModified: 1, Owner: 1, Group: 1, Permissions: 0o644}
	b := a.Clone()
	require.True(t, a.MetadataEqual(b))

	b.LastModified = 2
	require.False(t, a.MetadataEqual(b))
}

func TestFile_Persisted(t *testing.T) {
	f := &File{}
	require.False(t, f.Persisted())
	f.ID = 1
	require.True(t, f.Persisted())
}
