package repository

import (
	"context"
	"errors"
	"fmt"

	"autopartes/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// transactionRepository implements the TransactionRepository interface using PostgreSQL.
type transactionRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTransactionRepository creates a new PostgreSQL-backed gateway transaction repository.
func NewTransactionRepository(pool *pgxpool.Pool, logger zerolog.Logger) TransactionRepository {
	return &transactionRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "transaction").Logger(),
	}
}

// Create inserts a pending transaction keyed by buy order.
// A second create for the same buy order overwrites the first.
func (r *transactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO transactions (buy_order, session_id, token, amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (buy_order) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			token = EXCLUDED.token,
			amount = EXCLUDED.amount,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		t.BuyOrder, t.SessionID, t.Token, t.Amount, t.Status, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("buy_order", t.BuyOrder).Msg("failed to create transaction")
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	r.logger.Debug().Str("buy_order", t.BuyOrder).Msg("transaction created successfully")
	return nil
}

// GetByToken retrieves a transaction by gateway token.
func (r *transactionRepository) GetByToken(ctx context.Context, token string) (*model.Transaction, error) {
	query := `
		SELECT buy_order, session_id, token, amount, status, authorization_code,
			payment_type_code, response_code, transaction_date, created_at, updated_at
		FROM transactions
		WHERE token = $1
		LIMIT 1
	`

	var t model.Transaction
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&t.BuyOrder, &t.SessionID, &t.Token, &t.Amount, &t.Status, &t.AuthorizationCode,
		&t.PaymentTypeCode, &t.ResponseCode, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("token", token).Msg("transaction not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query transaction")
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	return &t, nil
}

// UpdateResult stores the commit outcome.
func (r *transactionRepository) UpdateResult(ctx context.Context, t *model.Transaction) error {
	query := `
		UPDATE transactions SET
			status = $2, authorization_code = $3, payment_type_code = $4,
			response_code = $5, transaction_date = $6, updated_at = $7
		WHERE buy_order = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		t.BuyOrder, t.Status, t.AuthorizationCode, t.PaymentTypeCode,
		t.ResponseCode, t.TransactionDate, t.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("buy_order", t.BuyOrder).Msg("failed to update transaction")
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTransactionNotFound
	}

	return nil
}
