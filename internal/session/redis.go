package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	sessionPrefix = "session:"
	resetPrefix   = "reset:"
)

// RedisStore keeps sessions as JSON values. The expiry restarts on every
// Save; reads do not extend it.
type RedisStore struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisStore wraps a connected client. It pings the server first.
func NewRedisStore(ctx context.Context, rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) (*RedisStore, error) {
	if rdb == nil {
		return nil, errors.New("redis client must be non-nil")
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return &RedisStore{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger.With().Str("component", "session_redis").Logger(),
	}, nil
}

// New creates and stores an empty anonymous session.
func (r *RedisStore) New(ctx context.Context) (*Session, error) {
	s := newSession()
	if err := r.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the session, or ErrNotFound when the key is missing or expired.
func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := r.rdb.Get(ctx, sessionPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		r.logger.Error().Err(err).Msg("failed to read session")
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Error().Err(err).Msg("failed to decode session")
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}

// Save overwrites the session and sets its expiry to the store TTL.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.rdb.Set(ctx, sessionPrefix+s.ID, data, r.ttl).Err(); err != nil {
		r.logger.Error().Err(err).Msg("failed to write session")
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Delete removes the session key.
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.rdb.Del(ctx, sessionPrefix+id).Err(); err != nil {
		r.logger.Error().Err(err).Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PutResetToken stores a one-time reset token for uid that expires after ttl.
func (r *RedisStore) PutResetToken(ctx context.Context, token, uid string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, resetPrefix+token, uid, ttl).Err(); err != nil {
		r.logger.Error().Err(err).Msg("failed to store reset token")
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken reads and deletes the token in one GETDEL.
func (r *RedisStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	uid, err := r.rdb.GetDel(ctx, resetPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		r.logger.Error().Err(err).Msg("failed to consume reset token")
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}
	return uid, nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
