package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackend_WriterReaderRoundTrip(t *testing.T) {
	dir := t.TempDir()
	b := New(dir)
	ctx := context.Background()

	w, err := b.Writer(ctx, "obj1")
	require.NoError(t, err)
	_, err = w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	size, err := b.Size(ctx, "obj1")
	require.NoError(t, err)
	require.Equal(t, int64(len("payload")), size)

	r, err := b.Reader(ctx, "obj1")
	require.NoError(t, err)
	defer r.Close()
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
}

func TestBackend_WriterDoesNotExposePartialObject(t *testing.T) {
	dir := t.TempDir()
	b := New(dir)
	ctx := context.Background()

	w, err := b.Writer(ctx, "obj1")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "obj1"))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, w.Close())
	_, err = os.Stat(filepath.Join(dir, "obj1"))
	require.NoError(t, err)
}

func TestBackend_ReaderMissingObject(t *testing.T) {
	dir := t.TempDir()
	b := New(dir)
	_, err := b.Reader(context.Background(), "missing")
	require.Error(t, err)
}
