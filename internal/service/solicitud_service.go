package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"autopartes/internal/model"
	"autopartes/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// solicitudService implements SolicitudService.
type solicitudService struct {
	tx            repository.Transactor
	solicitudRepo repository.SolicitudRepository
	userRepo      repository.UserRepository
	logger        zerolog.Logger
	now           func() time.Time
}

// NewSolicitudService creates a new wholesale onboarding service.
func NewSolicitudService(
	tx repository.Transactor,
	solicitudRepo repository.SolicitudRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) SolicitudService {
	return &solicitudService{
		tx:            tx,
		solicitudRepo: solicitudRepo,
		userRepo:      userRepo,
		logger:        logger.With().Str("service", "solicitud").Logger(),
		now:           time.Now,
	}
}

// inTx runs fn in a database transaction, rolling back when it fails.
func (s *solicitudService) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.tx.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to commit transaction")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Submit creates a request; uid is empty for anonymous visitors.
// Anonymous requests wait in sin_autenticar until the visitor signs up.
func (s *solicitudService) Submit(ctx context.Context, req *model.SolicitudRequest, uid string) (*model.Solicitud, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := model.NormaliseEmail(req.Email)

	existing, err := s.solicitudRepo.FindByEmailOrUser(ctx, email, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to check existing request")
		return nil, fmt.Errorf("failed to check existing request: %w", err)
	}
	if existing != nil {
		s.logger.Info().
			Str("email", email).
			Str("existing_id", existing.ID).
			Msg("duplicate wholesale request rejected")
		return nil, model.ErrSolicitudExistente
	}

	now := s.now()
	sol := &model.Solicitud{
		ID:                    uuid.NewString(),
		Empresa:               strings.TrimSpace(req.Empresa),
		RUT:                   strings.TrimSpace(req.RUT),
		Giro:                  strings.TrimSpace(req.Giro),
		Contacto:              strings.TrimSpace(req.Contacto),
		Email:                 email,
		Telefono:              strings.TrimSpace(req.Telefono),
		Direccion:             strings.TrimSpace(req.Direccion),
		Mensaje:               strings.TrimSpace(req.Mensaje),
		Estado:                model.EstadoPendiente,
		UserID:                uid,
		RequiereAutenticacion: uid == "",
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if uid == "" {
		sol.Estado = model.EstadoSinAutenticar
		if err := s.solicitudRepo.Create(ctx, nil, sol); err != nil {
			return nil, fmt.Errorf("failed to submit request: %w", err)
		}
	} else {
		err = s.inTx(ctx, func(tx pgx.Tx) error {
			if err := s.solicitudRepo.Create(ctx, tx, sol); err != nil {
				return err
			}
			return s.userRepo.SetSolicitudSnapshot(ctx, tx, uid, &model.SolicitudSnapshot{
				SolicitudID: sol.ID,
				Estado:      sol.Estado,
				Fecha:       now,
			})
		})
		if err != nil {
			s.logger.Error().Err(err).Str("uid", uid).Msg("failed to submit request")
			return nil, fmt.Errorf("failed to submit request: %w", err)
		}
	}

	s.logger.Info().
		Str("solicitud_id", sol.ID).
		Str("estado", string(sol.Estado)).
		Str("uid", uid).
		Msg("wholesale request submitted")

	return sol, nil
}

// Approve moves a request to aprobado. A linked profile is flipped to a
// validated wholesale account in the same transaction; without a linked user
// only the request changes.
func (s *solicitudService) Approve(ctx context.Context, id, approver string) (*model.Solicitud, error) {
	sol, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sol.Estado.Terminal() {
		return nil, model.ErrInvalidTransition
	}

	now := s.now()
	sol.Estado = model.EstadoAprobado
	sol.AprobadoPor = approver
	sol.FechaAprobacion = &now
	sol.UpdatedAt = now

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if err := s.solicitudRepo.Update(ctx, tx, sol); err != nil {
			return err
		}
		if sol.UserID == "" {
			return nil
		}
		return s.userRepo.SetWholesale(ctx, tx, sol.UserID, &model.SolicitudSnapshot{
			SolicitudID: sol.ID,
			Estado:      model.EstadoAprobado,
			Fecha:       now,
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Str("solicitud_id", id).Msg("failed to approve request")
		return nil, fmt.Errorf("failed to approve request: %w", err)
	}

	s.logger.Info().
		Str("solicitud_id", id).
		Str("uid", sol.UserID).
		Str("approver", approver).
		Msg("wholesale request approved")

	return sol, nil
}

// Reject moves a request to rechazado and writes the rejection onto the
// linked profile. Both writes share a transaction, so a request without a
// linked profile cannot be rejected.
func (s *solicitudService) Reject(ctx context.Context, id, approver, motivo string) (*model.Solicitud, error) {
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		return nil, model.ErrMotivoRequerido
	}

	sol, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sol.Estado.Terminal() {
		return nil, model.ErrInvalidTransition
	}

	now := s.now()
	sol.Estado = model.EstadoRechazado
	sol.RechazadoPor = approver
	sol.FechaRechazo = &now
	sol.MotivoRechazo = motivo
	sol.UpdatedAt = now

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if err := s.solicitudRepo.Update(ctx, tx, sol); err != nil {
			return err
		}
		return s.userRepo.SetSolicitudSnapshot(ctx, tx, sol.UserID, &model.SolicitudSnapshot{
			SolicitudID: sol.ID,
			Estado:      model.EstadoRechazado,
			Fecha:       now,
			Motivo:      motivo,
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Str("solicitud_id", id).Str("uid", sol.UserID).Msg("failed to reject request")
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}

	s.logger.Info().
		Str("solicitud_id", id).
		Str("uid", sol.UserID).
		Str("approver", approver).
		Msg("wholesale request rejected")

	return sol, nil
}

// AutoLink links an approved request for email to uid and validates the
// profile atomically. Reports whether a link happened.
func (s *solicitudService) AutoLink(ctx context.Context, uid, email string) (bool, error) {
	email = model.NormaliseEmail(email)
	if uid == "" || email == "" {
		return false, nil
	}

	sol, err := s.solicitudRepo.FindApprovedForLink(ctx, email, uid)
	if err != nil {
		s.logger.Error().Err(err).Str("uid", uid).Msg("failed to look up approved request")
		return false, fmt.Errorf("failed to look up approved request: %w", err)
	}
	if sol == nil {
		return false, nil
	}

	now := s.now()
	approvedAt := now
	if sol.FechaAprobacion != nil {
		approvedAt = *sol.FechaAprobacion
	}
	sol.UserID = uid
	sol.RequiereAutenticacion = false
	sol.UpdatedAt = now

	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if err := s.solicitudRepo.Update(ctx, tx, sol); err != nil {
			return err
		}
		return s.userRepo.SetWholesale(ctx, tx, uid, &model.SolicitudSnapshot{
			SolicitudID: sol.ID,
			Estado:      model.EstadoAprobado,
			Fecha:       approvedAt,
		})
	})
	if err != nil {
		s.logger.Error().Err(err).Str("uid", uid).Str("solicitud_id", sol.ID).Msg("failed to link approved request")
		return false, fmt.Errorf("failed to link approved request: %w", err)
	}

	s.logger.Info().
		Str("uid", uid).
		Str("solicitud_id", sol.ID).
		Msg("approved wholesale request linked to account")

	return true, nil
}

// MigrateLegacy creates a pendiente request for every profile marked as an
// unvalidated wholesale account that has no request yet. Safe to run repeatedly.
func (s *solicitudService) MigrateLegacy(ctx context.Context) (int, error) {
	users, err := s.userRepo.ListUnvalidatedWholesale(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list legacy wholesale profiles")
		return 0, fmt.Errorf("failed to list legacy wholesale profiles: %w", err)
	}

	migrated := 0
	for _, u := range users {
		exists, err := s.solicitudRepo.ExistsForUser(ctx, u.UID)
		if err != nil {
			return migrated, fmt.Errorf("failed to migrate legacy profile %s: %w", u.UID, err)
		}
		if exists {
			continue
		}

		now := s.now()
		sol := &model.Solicitud{
			ID:        uuid.NewString(),
			Empresa:   u.Nombre,
			Contacto:  u.Nombre,
			Email:     model.NormaliseEmail(u.Email),
			Telefono:  u.Telefono,
			Direccion: u.Direccion,
			Estado:    model.EstadoPendiente,
			UserID:    u.UID,
			Migrated:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.solicitudRepo.Create(ctx, nil, sol); err != nil {
			s.logger.Error().Err(err).Str("uid", u.UID).Msg("failed to migrate legacy profile")
			return migrated, fmt.Errorf("failed to migrate legacy profile %s: %w", u.UID, err)
		}
		migrated++
	}

	if migrated > 0 {
		s.logger.Info().Int("migrated", migrated).Msg("legacy wholesale profiles migrated")
	}

	return migrated, nil
}

// List returns requests newest first, optionally filtered by state.
func (s *solicitudService) List(ctx context.Context, estado model.SolicitudEstado) ([]model.Solicitud, error) {
	if estado != "" && !estado.Valid() {
		return nil, model.ValidationError("estado no válido")
	}

	solicitudes, err := s.solicitudRepo.List(ctx, estado)
	if err != nil {
		s.logger.Error().Err(err).Str("estado", string(estado)).Msg("failed to list requests")
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return solicitudes, nil
}

// Get retrieves one request.
func (s *solicitudService) Get(ctx context.Context, id string) (*model.Solicitud, error) {
	if id == "" {
		return nil, model.ErrSolicitudNotFound
	}

	sol, err := s.solicitudRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("solicitud_id", id).Msg("failed to get request")
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if sol == nil {
		return nil, model.ErrSolicitudNotFound
	}

	return sol, nil
}
