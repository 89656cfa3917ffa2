package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autopartes/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const userColumns = `
	uid, nombre, email, telefono, direccion, comuna, ciudad, region,
	tipo, validado, solicitud_mayorista, rol, password_hash, created_at, updated_at`

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user profile repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.UID, &u.Nombre, &u.Email, &u.Telefono, &u.Direccion, &u.Comuna, &u.Ciudad, &u.Region,
		&u.Tipo, &u.Validado, &u.SolicitudMayorista, &u.Rol, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
}

// Create inserts a new profile.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO usuarios (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.pool.Exec(ctx, query,
		u.UID, u.Nombre, u.Email, u.Telefono, u.Direccion, u.Comuna, u.Ciudad, u.Region,
		u.Tipo, u.Validado, u.SolicitudMayorista, u.Rol, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("uid", u.UID).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().Str("uid", u.UID).Msg("user created successfully")
	return nil
}

// GetByUID retrieves a profile by auth UID.
func (r *userRepository) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	return r.getOne(ctx, "uid", uid)
}

// GetByEmail retrieves a profile by normalised e-mail.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "email", email)
}

func (r *userRepository) getOne(ctx context.Context, column, value string) (*model.User, error) {
	query := "SELECT " + userColumns + " FROM usuarios WHERE " + column + " = $1"

	var u model.User
	if err := scanUser(r.pool.QueryRow(ctx, query, value), &u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str(column, value).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str(column, value).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// UpdateProfile overwrites the editable profile fields.
func (r *userRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	query := `
		UPDATE usuarios SET
			nombre = $2, telefono = $3, direccion = $4, comuna = $5,
			ciudad = $6, region = $7, updated_at = $8
		WHERE uid = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		u.UID, u.Nombre, u.Telefono, u.Direccion, u.Comuna, u.Ciudad, u.Region, u.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("uid", u.UID).Msg("failed to update user profile")
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// UpdatePassword replaces the password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, uid, hash string) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE usuarios SET password_hash = $2, updated_at = NOW() WHERE uid = $1", uid, hash)
	if err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("failed to update password")
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}

	return nil
}

// ListUnvalidatedWholesale returns profiles with tipo=mayorista and validado=false.
func (r *userRepository) ListUnvalidatedWholesale(ctx context.Context) ([]model.User, error) {
	query := "SELECT " + userColumns + " FROM usuarios WHERE tipo = $1 AND validado = FALSE ORDER BY created_at"

	rows, err := r.pool.Query(ctx, query, model.UserTypeMayorista)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query unvalidated wholesale users")
		return nil, fmt.Errorf("failed to query unvalidated wholesale users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan user row")
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating user rows")
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// SetWholesale flips the profile to tipo=mayorista, validado=true.
func (r *userRepository) SetWholesale(ctx context.Context, tx pgx.Tx, uid string, snapshot *model.SolicitudSnapshot) error {
	query := `
		UPDATE usuarios
		SET tipo = $2, validado = TRUE, solicitud_mayorista = $3, updated_at = $4
		WHERE uid = $1
	`

	tag, err := on(r.pool, tx).Exec(ctx, query, uid, model.UserTypeMayorista, snapshot, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("failed to set wholesale status")
		return fmt.Errorf("failed to set wholesale status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("uid", uid).Msg("no profile to set wholesale status on")
		return fmt.Errorf("failed to set wholesale status for %q: %w", uid, model.ErrUserNotFound)
	}

	return nil
}

// SetSolicitudSnapshot stores only the request snapshot.
func (r *userRepository) SetSolicitudSnapshot(ctx context.Context, tx pgx.Tx, uid string, snapshot *model.SolicitudSnapshot) error {
	query := `
		UPDATE usuarios
		SET solicitud_mayorista = $2, updated_at = $3
		WHERE uid = $1
	`

	tag, err := on(r.pool, tx).Exec(ctx, query, uid, snapshot, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("uid", uid).Msg("failed to store request snapshot")
		return fmt.Errorf("failed to store request snapshot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("uid", uid).Msg("no profile to store request snapshot on")
		return fmt.Errorf("failed to store request snapshot for %q: %w", uid, model.ErrUserNotFound)
	}

	return nil
}
