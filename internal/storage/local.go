package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// localStore implements Store on the local file system.
type localStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

// NewLocalStore creates a store rooted at dir. URLs are baseURL + key.
func NewLocalStore(dir, baseURL string, logger zerolog.Logger) Store {
	return &localStore{
		dir:     dir,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "local-store").Logger(),
	}
}

func (s *localStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}

// Put writes the object to disk.
func (s *localStore) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to create directory")
		return "", fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	file, err := os.Create(path)
	if err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to create file")
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write file")
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}

	s.logger.Info().Str("path", path).Str("content_type", contentType).Msg("object stored on disk")

	return joinURL(s.baseURL, key), nil
}

// Get opens the file for key.
func (s *localStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", path, ErrNotFound)
		}
		s.logger.Error().Err(err).Str("path", path).Msg("failed to open file")
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	return file, nil
}
