package repository

import (
	"context"
	"fmt"

	"autopartes/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// Create inserts an order for a completed payment.
func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO ordenes (id, buy_order, session_id, token, amount, estado,
			authorization_code, payment_type_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		o.ID, o.BuyOrder, o.SessionID, o.Token, o.Amount, o.Estado,
		o.AuthorizationCode, o.PaymentTypeCode, o.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", o.ID).
			Str("buy_order", o.BuyOrder).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", o.ID).
		Msg("order created successfully")

	return nil
}

// GetByBuyOrder retrieves orders created for a buy order.
func (r *orderRepository) GetByBuyOrder(ctx context.Context, buyOrder string) ([]model.Order, error) {
	query := `
		SELECT id, buy_order, session_id, token, amount, estado,
			authorization_code, payment_type_code, created_at
		FROM ordenes
		WHERE buy_order = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, buyOrder)
	if err != nil {
		r.logger.Error().Err(err).Str("buy_order", buyOrder).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.BuyOrder, &o.SessionID, &o.Token, &o.Amount, &o.Estado,
			&o.AuthorizationCode, &o.PaymentTypeCode, &o.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
