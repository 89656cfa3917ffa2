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

const wholesaleOrderColumns = `
	id, user_id, email, items, subtotal, descuento, iva, total, monto,
	estado, token, authorization_code, created_at, updated_at`

// wholesaleOrderRepository implements the WholesaleOrderRepository interface using PostgreSQL.
type wholesaleOrderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWholesaleOrderRepository creates a new PostgreSQL-backed wholesale order repository.
func NewWholesaleOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) WholesaleOrderRepository {
	return &wholesaleOrderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wholesale_order").Logger(),
	}
}

// Create inserts a new order snapshot.
func (r *wholesaleOrderRepository) Create(ctx context.Context, o *model.WholesaleOrder) error {
	query := `
		INSERT INTO ordenes_mayorista (` + wholesaleOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	items := o.Items
	if items == nil {
		items = []model.WholesaleItem{}
	}

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.UserID, o.Email, items, o.Subtotal, o.Descuento, o.IVA, o.Total, o.Monto,
		o.Estado, o.Token, o.AuthorizationCode, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", o.ID).Msg("failed to create wholesale order")
		return fmt.Errorf("failed to create wholesale order: %w", err)
	}

	r.logger.Debug().Str("order_id", o.ID).Msg("wholesale order created successfully")
	return nil
}

// GetByID retrieves an order by its ID.
func (r *wholesaleOrderRepository) GetByID(ctx context.Context, id string) (*model.WholesaleOrder, error) {
	return r.getOne(ctx, "id", id)
}

// GetByToken retrieves an order by its payment token.
func (r *wholesaleOrderRepository) GetByToken(ctx context.Context, token string) (*model.WholesaleOrder, error) {
	return r.getOne(ctx, "token", token)
}

func (r *wholesaleOrderRepository) getOne(ctx context.Context, column, value string) (*model.WholesaleOrder, error) {
	query := "SELECT " + wholesaleOrderColumns + " FROM ordenes_mayorista WHERE " + column + " = $1 LIMIT 1"

	var o model.WholesaleOrder
	err := r.pool.QueryRow(ctx, query, value).Scan(
		&o.ID, &o.UserID, &o.Email, &o.Items, &o.Subtotal, &o.Descuento, &o.IVA, &o.Total, &o.Monto,
		&o.Estado, &o.Token, &o.AuthorizationCode, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str(column, value).Msg("wholesale order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str(column, value).Msg("failed to query wholesale order")
		return nil, fmt.Errorf("failed to query wholesale order: %w", err)
	}

	return &o, nil
}

// SetToken stores the gateway token on a pending order.
func (r *wholesaleOrderRepository) SetToken(ctx context.Context, id, token string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE ordenes_mayorista SET token = $2, updated_at = NOW() WHERE id = $1", id, token)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to store payment token")
		return fmt.Errorf("failed to store payment token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// SetStatus records the payment outcome.
func (r *wholesaleOrderRepository) SetStatus(ctx context.Context, id string, estado model.OrderStatus, authorizationCode string) error {
	query := `
		UPDATE ordenes_mayorista
		SET estado = $2, authorization_code = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id, estado, authorizationCode)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to update wholesale order status")
		return fmt.Errorf("failed to update wholesale order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}
