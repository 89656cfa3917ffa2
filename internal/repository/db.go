package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// on returns tx when present, otherwise the pool.
func on(pool *pgxpool.Pool, tx pgx.Tx) querier {
	if tx != nil {
		return tx
	}
	return pool
}

// poolTransactor implements Transactor on top of a connection pool.
type poolTransactor struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTransactor creates a Transactor for the given pool.
func NewTransactor(pool *pgxpool.Pool, logger zerolog.Logger) Transactor {
	return &poolTransactor{
		pool:   pool,
		logger: logger.With().Str("repository", "tx").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (t *poolTransactor) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		t.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}
