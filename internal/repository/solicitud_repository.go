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

const solicitudColumns = `
	id, empresa, rut, giro, contacto, email, telefono, direccion, mensaje, estado,
	user_id, aprobado_por, fecha_aprobacion, rechazado_por, fecha_rechazo, motivo_rechazo,
	migrated, requiere_autenticacion, created_at, updated_at`

// solicitudRepository implements the SolicitudRepository interface using PostgreSQL.
type solicitudRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSolicitudRepository creates a new PostgreSQL-backed wholesale request repository.
func NewSolicitudRepository(pool *pgxpool.Pool, logger zerolog.Logger) SolicitudRepository {
	return &solicitudRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "solicitud").Logger(),
	}
}

func scanSolicitud(row pgx.Row, s *model.Solicitud) error {
	return row.Scan(
		&s.ID, &s.Empresa, &s.RUT, &s.Giro, &s.Contacto, &s.Email, &s.Telefono, &s.Direccion, &s.Mensaje, &s.Estado,
		&s.UserID, &s.AprobadoPor, &s.FechaAprobacion, &s.RechazadoPor, &s.FechaRechazo, &s.MotivoRechazo,
		&s.Migrated, &s.RequiereAutenticacion, &s.CreatedAt, &s.UpdatedAt,
	)
}

// Create inserts a new request.
func (r *solicitudRepository) Create(ctx context.Context, tx pgx.Tx, s *model.Solicitud) error {
	query := `
		INSERT INTO solicitudes_mayorista (` + solicitudColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := on(r.pool, tx).Exec(ctx, query,
		s.ID, s.Empresa, s.RUT, s.Giro, s.Contacto, s.Email, s.Telefono, s.Direccion, s.Mensaje, s.Estado,
		s.UserID, s.AprobadoPor, s.FechaAprobacion, s.RechazadoPor, s.FechaRechazo, s.MotivoRechazo,
		s.Migrated, s.RequiereAutenticacion, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("solicitud_id", s.ID).Msg("failed to create request")
		return fmt.Errorf("failed to create request: %w", err)
	}

	r.logger.Debug().
		Str("solicitud_id", s.ID).
		Str("estado", string(s.Estado)).
		Msg("request created successfully")

	return nil
}

// GetByID retrieves a request by ID.
func (r *solicitudRepository) GetByID(ctx context.Context, id string) (*model.Solicitud, error) {
	query := "SELECT " + solicitudColumns + " FROM solicitudes_mayorista WHERE id = $1"
	return r.getOne(ctx, query, id)
}

// FindByEmailOrUser returns the first request whose email matches, or whose
// user_id matches when uid is not empty.
func (r *solicitudRepository) FindByEmailOrUser(ctx context.Context, email, uid string) (*model.Solicitud, error) {
	query := "SELECT " + solicitudColumns + ` FROM solicitudes_mayorista
		WHERE email = $1 OR ($2 <> '' AND user_id = $2)
		ORDER BY created_at
		LIMIT 1`
	return r.getOne(ctx, query, email, uid)
}

// FindApprovedForLink returns an approved request for email whose user_id is
// empty or differs from uid.
func (r *solicitudRepository) FindApprovedForLink(ctx context.Context, email, uid string) (*model.Solicitud, error) {
	query := "SELECT " + solicitudColumns + ` FROM solicitudes_mayorista
		WHERE email = $1 AND estado = $2 AND user_id <> $3
		ORDER BY created_at
		LIMIT 1`
	return r.getOne(ctx, query, email, model.EstadoAprobado, uid)
}

func (r *solicitudRepository) getOne(ctx context.Context, query string, args ...any) (*model.Solicitud, error) {
	var s model.Solicitud
	if err := scanSolicitud(r.pool.QueryRow(ctx, query, args...), &s); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query request")
		return nil, fmt.Errorf("failed to query request: %w", err)
	}
	return &s, nil
}

// ExistsForUser reports whether any request is linked to uid.
func (r *solicitudRepository) ExistsForUser(ctx context.Context, uid string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM solicitudes_mayorista WHERE user_id = $1)", uid).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("failed to check request for user")
		return false, fmt.Errorf("failed to check request for user: %w", err)
	}
	return exists, nil
}

// List returns requests newest first, optionally filtered by state.
func (r *solicitudRepository) List(ctx context.Context, estado model.SolicitudEstado) ([]model.Solicitud, error) {
	query := "SELECT " + solicitudColumns + ` FROM solicitudes_mayorista
		WHERE $1 = '' OR estado = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, string(estado))
	if err != nil {
		r.logger.Error().Err(err).Str("estado", string(estado)).Msg("failed to list requests")
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	solicitudes := []model.Solicitud{}
	for rows.Next() {
		var s model.Solicitud
		if err := scanSolicitud(rows, &s); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan request row")
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		solicitudes = append(solicitudes, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating request rows")
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}

	return solicitudes, nil
}

// Update overwrites the mutable state fields.
func (r *solicitudRepository) Update(ctx context.Context, tx pgx.Tx, s *model.Solicitud) error {
	query := `
		UPDATE solicitudes_mayorista SET
			estado = $2, user_id = $3, aprobado_por = $4, fecha_aprobacion = $5,
			rechazado_por = $6, fecha_rechazo = $7, motivo_rechazo = $8,
			requiere_autenticacion = $9, updated_at = $10
		WHERE id = $1
	`

	tag, err := on(r.pool, tx).Exec(ctx, query,
		s.ID, s.Estado, s.UserID, s.AprobadoPor, s.FechaAprobacion,
		s.RechazadoPor, s.FechaRechazo, s.MotivoRechazo,
		s.RequiereAutenticacion, s.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("solicitud_id", s.ID).Msg("failed to update request")
		return fmt.Errorf("failed to update request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSolicitudNotFound
	}

	return nil
}
