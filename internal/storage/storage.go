package storage

import (
	"context"
	"errors"
	"io"

	"autopartes/internal/config"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// Store defines object storage for product images and catalogue feeds.
type Store interface {
	// Put writes the object under key and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)

	// Get opens the object stored under key. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// New builds the configured store: S3 with a local disk fallback, or local
// disk only when S3 is disabled or cannot be initialised.
func New(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) Store {
	local := NewLocalStore(cfg.LocalDir, cfg.LocalBaseURL, logger)
	if !cfg.S3Enabled {
		logger.Info().Msg("using local file system for object storage (S3 disabled)")
		return local
	}

	s3Store, err := NewS3Store(ctx, cfg.Bucket, cfg.Region, cfg.Prefix, cfg.PublicBaseURL, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 store, falling back to local file system only")
		return local
	}

	return NewFallbackStore(s3Store, local, logger)
}
