package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prn-tf/serac/internal/config"
	"github.com/prn-tf/serac/internal/storage"
	"github.com/prn-tf/serac/internal/storage/local"
	"github.com/prn-tf/serac/internal/storage/s3store"
)

// buildBackend dispatches on archive.storage (spec §9: a tagged variant
// plus an explicit switch, no runtime registry).
func buildBackend(ctx context.Context, cfg config.ArchiveConfig, logger zerolog.Logger) (*storage.Backend, error) {
	switch cfg.Storage {
	case "local":
		return storage.New(local.New(cfg.Local.Path), logger), nil
	case "s3":
		client, err := s3store.NewClient(ctx, "us-east-1", "", cfg.S3.Key, cfg.S3.Secret)
		if err != nil {
			return nil, fmt.Errorf("build s3 client: %w", err)
		}
		raw := s3store.New(client, cfg.S3.Bucket, cfg.S3.Path, logger)
		return storage.New(raw, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", ErrUsage, cfg.Storage)
	}
}
