// Package storage implements the pluggable, content-addressed object
// store: an abstract RawBackend (Local directory or S3 bucket+prefix)
// wrapped by Backend, which adds the encrypt/decrypt streaming
// protocol every archive_id goes through. This mirrors the teacher's
// internal/storage/filesystem.StreamingEncryptedStorage wrapping a base
// Storage interface, generalized to serac's two backend kinds.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/prn-tf/serac/internal/cryptostream"
	"github.com/prn-tf/serac/internal/serac"
)

// RawBackend is the minimal capability set a storage backend must
// provide: streaming handles keyed by archive_id, and the stored
// (ciphertext) byte size of an object (spec §4.2's get_size).
type RawBackend interface {
	// Writer returns a handle that commits the object atomically: the
	// object is either fully written and discoverable, or absent.
	Writer(ctx context.Context, archiveID string) (io.WriteCloser, error)
	Reader(ctx context.Context, archiveID string) (io.ReadCloser, error)
	Size(ctx context.Context, archiveID string) (int64, error)
}

// Thawable is the optional capability an S3-like backend provides for
// the Glacier thaw state machine (spec §4.2). Backends that don't
// implement it (Local) are always immediately available.
type Thawable interface {
	// CheckAvailable returns nil if the object is Hot or Thawed, and
	// otherwise fails with serac.ErrObjectFrozen or
	// serac.ErrObjectRetrieving. It may memoize successful results per
	// archive_id but must never cache a failure.
	CheckAvailable(ctx context.Context, archiveID string) error
	// StartThaw issues a restore request for a Frozen object.
	StartThaw(ctx context.Context, archiveID string) error
}

// Backend is the object store Store/Retrieve operate against: any
// RawBackend, optionally also a Thawable.
type Backend struct {
	raw    RawBackend
	thaw   Thawable // nil if raw does not implement Thawable
	logger zerolog.Logger
	onThaw func() // optional metrics hook, see WithThawHook
}

// New wraps raw with the encrypted streaming protocol.
func New(raw RawBackend, logger zerolog.Logger) *Backend {
	b := &Backend{raw: raw, logger: logger.With().Str("component", "storage").Logger()}
	if t, ok := raw.(Thawable); ok {
		b.thaw = t
	}
	return b
}

// WithThawHook registers a callback invoked every time Retrieve issues a
// Glacier thaw request, so a caller can wire it to a metrics counter
// (spec §4.9's status/metrics surface) without this package depending on
// the metrics package.
func (b *Backend) WithThawHook(hook func()) *Backend {
	b.onThaw = hook
	return b
}

// Store opens localPath for reading, obtains a write handle for
// archiveID, and streams the plaintext through encrypt. Failures surface
// unchanged; the backend is responsible for atomicity of partial writes.
func (b *Backend) Store(ctx context.Context, localPath, archiveID, password string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s for store: %w", localPath, err)
	}
	defer src.Close()

	dst, err := b.raw.Writer(ctx, archiveID)
	if err != nil {
		return fmt.Errorf("open backend writer for %s: %w", archiveID, err)
	}

	if err := cryptostream.Encrypt(dst, src, password); err != nil {
		dst.Close()
		return fmt.Errorf("encrypt %s: %w", localPath, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("commit backend object %s: %w", archiveID, err)
	}
	return nil
}

// Retrieve fails with serac.ErrFileExists if localPath already exists
// (checked before any backend call). For a Thawable backend it checks
// availability first and may fail with ErrObjectFrozen/ErrObjectRetrieving
// without touching localPath. Otherwise it streams the backend object
// through decrypt into a new local file.
func (b *Backend) Retrieve(ctx context.Context, localPath, archiveID, password string) error {
	if _, err := os.Stat(localPath); err == nil {
		return serac.ErrFileExists
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat restore target %s: %w", localPath, err)
	}

	if b.thaw != nil {
		if err := b.thaw.CheckAvailable(ctx, archiveID); err != nil {
			if errors.Is(err, serac.ErrObjectFrozen) {
				if thawErr := b.thaw.StartThaw(ctx, archiveID); thawErr != nil {
					b.logger.Error().Err(thawErr).Str("archive_id", archiveID).Msg("failed to start thaw")
				} else if b.onThaw != nil {
					b.onThaw()
				}
			}
			return err
		}
	}

	size, err := b.raw.Size(ctx, archiveID)
	if err != nil {
		return fmt.Errorf("get size of %s: %w", archiveID, err)
	}

	src, err := b.raw.Reader(ctx, archiveID)
	if err != nil {
		return fmt.Errorf("open backend reader for %s: %w", archiveID, err)
	}
	defer src.Close()

	tmp := localPath + ".restoring"
	dst, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temp restore file: %w", err)
	}

	if err := cryptostream.Decrypt(dst, src, password, size); err != nil {
		dst.Close()
		os.Remove(tmp)
		return fmt.Errorf("decrypt %s: %w", archiveID, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("finalize restore of %s: %w", archiveID, err)
	}

	if err := os.Rename(tmp, localPath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit restore target %s: %w", localPath, err)
	}
	return nil
}

// StartThaw requests a Glacier restore for archiveID, if the backend
// supports it. No-op for backends without the Thawable capability.
func (b *Backend) StartThaw(ctx context.Context, archiveID string) error {
	if b.thaw == nil {
		return nil
	}
	return b.thaw.StartThaw(ctx, archiveID)
}
