package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/serac/internal/serac"
)

// memRawBackend is a minimal in-memory RawBackend for exercising the
// encrypt/decrypt wrapping without touching a real storage backend.
type memRawBackend struct {
	objects map[string][]byte
}

func newMemRawBackend() *memRawBackend {
	return &memRawBackend{objects: make(map[string][]byte)}
}

type memWriter struct {
	b    *memRawBackend
	id   string
	buf  bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *memWriter) Close() error {
	w.b.objects[w.id] = w.buf.Bytes()
	return nil
}

func (b *memRawBackend) Writer(_ context.Context, archiveID string) (io.WriteCloser, error) {
	return &memWriter{b: b, id: archiveID}, nil
}

func (b *memRawBackend) Reader(_ context.Context, archiveID string) (io.ReadCloser, error) {
	data, ok := b.objects[archiveID]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memRawBackend) Size(_ context.Context, archiveID string) (int64, error) {
	data, ok := b.objects[archiveID]
	if !ok {
		return 0, os.ErrNotExist
	}
	return int64(len(data)), nil
}

// frozenBackend wraps memRawBackend and reports the object as always
// Frozen, to exercise the thaw-on-retrieve path.
type frozenBackend struct {
	*memRawBackend
	thawRequested bool
}

func (f *frozenBackend) CheckAvailable(context.Context, string) error {
	return serac.ErrObjectFrozen
}

func (f *frozenBackend) StartThaw(context.Context, string) error {
	f.thawRequested = true
	return nil
}

func TestBackend_StoreRetrieve_RoundTrip(t *testing.T) {
	raw := newMemRawBackend()
	b := New(raw, zerolog.Nop())
	ctx := context.Background()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello world"), 0o644))

	require.NoError(t, b.Store(ctx, src, "obj1", "pw"))

	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, b.Retrieve(ctx, dst, "obj1", "pw"))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(got))
}

func TestBackend_Retrieve_RefusesExistingTarget(t *testing.T) {
	raw := newMemRawBackend()
	b := New(raw, zerolog.Nop())
	ctx := context.Background()

	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(dst, []byte("existing"), 0o644))

	err := b.Retrieve(ctx, dst, "obj1", "pw")
	require.ErrorIs(t, err, serac.ErrFileExists)
}

func TestBackend_Retrieve_FrozenTriggersThaw(t *testing.T) {
	fb := &frozenBackend{memRawBackend: newMemRawBackend()}
	b := New(fb, zerolog.Nop())

	hookCalled := false
	b.WithThawHook(func() { hookCalled = true })

	dir := t.TempDir()
	dst := filepath.Join(dir, "dst.txt")

	err := b.Retrieve(context.Background(), dst, "obj1", "pw")
	require.ErrorIs(t, err, serac.ErrObjectFrozen)
	require.True(t, fb.thawRequested)
	require.True(t, hookCalled)

	_, statErr := os.Stat(dst)
	require.True(t, os.IsNotExist(statErr))
}
