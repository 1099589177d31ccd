// Package s3store implements storage.RawBackend and storage.Thawable
// over an S3 bucket+prefix, including the Glacier-style thaw state
// machine of spec §4.2. There is no precedent for the thaw machinery in
// original_source/serac/storage/s3.py (a thin boto3+smart_open wrapper
// with no Glacier awareness at all); it is designed from scratch here,
// grounded conceptually on the teacher's internal/tiering.TieringController
// (tier state, migration tracking, an access-pattern map guarded by a
// mutex) adapted from modeling storage-tier migrations to modeling
// Glacier object availability.
package s3store

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"github.com/prn-tf/serac/internal/serac"
)

// RestoreDays is the default Glacier restore request duration (spec §4.2).
const RestoreDays = 1

// Backend stores each object at s3://bucket/prefix/archive_id.
type Backend struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger

	avail availabilityCache
}

// New returns an S3 Backend over bucket/prefix using client.
func New(client *s3.Client, bucket, prefix string, logger zerolog.Logger) *Backend {
	return &Backend{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.With().Str("component", "s3store").Logger(),
		avail:  newAvailabilityCache(),
	}
}

func (b *Backend) key(archiveID string) string {
	if b.prefix == "" {
		return archiveID
	}
	return strings.TrimRight(b.prefix, "/") + "/" + archiveID
}

func (b *Backend) Writer(ctx context.Context, archiveID string) (io.WriteCloser, error) {
	pr, pw := io.Pipe()
	done := make(chan error, 1)

	go func() {
		_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(b.key(archiveID)),
			Body:   pr,
		})
		pr.CloseWithError(err)
		done <- err
	}()

	return &pipeWriter{pw: pw, done: done}, nil
}

func (b *Backend) Reader(ctx context.Context, archiveID string) (io.ReadCloser, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(archiveID)),
	})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", archiveID, err)
	}
	return out.Body, nil
}

func (b *Backend) Size(ctx context.Context, archiveID string) (int64, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(archiveID)),
	})
	if err != nil {
		return 0, fmt.Errorf("head object %s: %w", archiveID, err)
	}
	return aws.ToInt64(out.ContentLength), nil
}

// CheckAvailable implements the Hot/Frozen/Thawing/Thawed state machine.
// Results are memoized per archive_id, but only on success: a failure is
// never cached, so the next call re-checks the backend (spec §4.2 and
// §9's fix of the source's unkeyed memoization bug).
func (b *Backend) CheckAvailable(ctx context.Context, archiveID string) error {
	if b.avail.IsAvailable(archiveID) {
		return nil
	}

	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(archiveID)),
	})
	if err != nil {
		return fmt.Errorf("head object %s: %w", archiveID, err)
	}

	switch classifyStorageClass(out.StorageClass) {
	case storageClassHot:
		b.avail.MarkAvailable(archiveID)
		return nil
	default:
		state := parseRestoreHeader(out.Restore)
		switch state {
		case restoreStateThawed:
			b.avail.MarkAvailable(archiveID)
			return nil
		case restoreStateThawing:
			return fmt.Errorf("%w: %w", serac.ErrArchiveUnavailable, serac.ErrObjectRetrieving)
		default: // restoreStateFrozen
			return fmt.Errorf("%w: %w", serac.ErrArchiveUnavailable, serac.ErrObjectFrozen)
		}
	}
}

// StartThaw issues a Glacier restore request for RestoreDays.
func (b *Backend) StartThaw(ctx context.Context, archiveID string) error {
	_, err := b.client.RestoreObject(ctx, &s3.RestoreObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(archiveID)),
		RestoreRequest: &types.RestoreRequest{
			Days: aws.Int32(RestoreDays),
			GlacierJobParameters: &types.GlacierJobParameters{
				Tier: types.TierStandard,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("start thaw for %s: %w", archiveID, err)
	}
	return nil
}

type storageClassState int

const (
	storageClassHot storageClassState = iota
	storageClassArchived
)

func classifyStorageClass(sc types.StorageClass) storageClassState {
	switch sc {
	case types.StorageClassGlacier, types.StorageClassDeepArchive:
		return storageClassArchived
	default:
		return storageClassHot
	}
}

type restoreState int

const (
	restoreStateFrozen restoreState = iota
	restoreStateThawing
	restoreStateThawed
)

// parseRestoreHeader interprets the x-amz-restore header value surfaced
// on HeadObjectOutput.Restore: absent means Frozen (no thaw requested
// yet); ongoing-request="true" means Thawing; ongoing-request="false"
// means Thawed.
func parseRestoreHeader(restore *string) restoreState {
	if restore == nil {
		return restoreStateFrozen
	}
	if strings.Contains(*restore, `ongoing-request="true"`) {
		return restoreStateThawing
	}
	if strings.Contains(*restore, `ongoing-request="false"`) {
		return restoreStateThawed
	}
	return restoreStateFrozen
}

type pipeWriter struct {
	pw   *io.PipeWriter
	done chan error
}

func (w *pipeWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *pipeWriter) Close() error {
	if err := w.pw.Close(); err != nil {
		return err
	}
	return <-w.done
}
