package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// fallbackStore tries the primary store first, then falls back to the secondary.
type fallbackStore struct {
	primary   Store
	secondary Store
	logger    zerolog.Logger
}

// NewFallbackStore creates a store that tries primary first, then secondary.
// If primary is nil, only secondary is used.
func NewFallbackStore(primary, secondary Store, logger zerolog.Logger) Store {
	return &fallbackStore{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With().Str("component", "fallback-store").Logger(),
	}
}

// Put writes to the primary store, or to the secondary when the primary fails.
// The body is buffered so it can be replayed.
func (s *fallbackStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if s.primary == nil {
		return s.secondary.Put(ctx, key, body, contentType)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read object body: %w", err)
	}

	url, err := s.primary.Put(ctx, key, bytes.NewReader(data), contentType)
	if err == nil {
		return url, nil
	}

	s.logger.Warn().
		Err(err).
		Str("key", key).
		Msg("failed to store in primary, falling back to local file system")

	return s.secondary.Put(ctx, key, bytes.NewReader(data), contentType)
}

// Get reads from the primary store, or from the secondary when the primary fails.
func (s *fallbackStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.primary != nil {
		rc, err := s.primary.Get(ctx, key)
		if err == nil {
			return rc, nil
		}

		s.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("failed to load from primary, falling back to local file system")
	}

	return s.secondary.Get(ctx, key)
}
