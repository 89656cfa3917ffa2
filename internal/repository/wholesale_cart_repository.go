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

// wholesaleCartRepository implements the WholesaleCartRepository interface using PostgreSQL.
type wholesaleCartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWholesaleCartRepository creates a new PostgreSQL-backed wholesale cart repository.
func NewWholesaleCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) WholesaleCartRepository {
	return &wholesaleCartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wholesale_cart").Logger(),
	}
}

// Get returns the stored items, or nil when the user has no cart document.
func (r *wholesaleCartRepository) Get(ctx context.Context, uid string) ([]model.WholesaleItem, error) {
	var items []model.WholesaleItem
	err := r.pool.QueryRow(ctx, "SELECT items FROM carritos_mayorista WHERE user_id = $1", uid).Scan(&items)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("uid", uid).Msg("failed to query wholesale cart")
		return nil, fmt.Errorf("failed to query wholesale cart: %w", err)
	}
	return items, nil
}

// Save overwrites the whole item list and cached total.
func (r *wholesaleCartRepository) Save(ctx context.Context, uid string, items []model.WholesaleItem, total float64) error {
	if items == nil {
		items = []model.WholesaleItem{}
	}

	query := `
		INSERT INTO carritos_mayorista (user_id, items, total, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			items = EXCLUDED.items,
			total = EXCLUDED.total,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := r.pool.Exec(ctx, query, uid, items, total); err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("failed to save wholesale cart")
		return fmt.Errorf("failed to save wholesale cart: %w", err)
	}

	r.logger.Debug().
		Str("uid", uid).
		Int("item_count", len(items)).
		Msg("wholesale cart saved")

	return nil
}

// Delete removes the cart document.
func (r *wholesaleCartRepository) Delete(ctx context.Context, uid string) error {
	if _, err := r.pool.Exec(ctx, "DELETE FROM carritos_mayorista WHERE user_id = $1", uid); err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("failed to delete wholesale cart")
		return fmt.Errorf("failed to delete wholesale cart: %w", err)
	}
	return nil
}
