package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"autopartes/internal/auth"
	"autopartes/internal/config"
	"autopartes/internal/model"
	"autopartes/internal/repository"
	"autopartes/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

const uniqueViolation = "23505"

// authService implements AuthService.
type authService struct {
	userRepo    repository.UserRepository
	solicitudes SolicitudService
	sessions    session.Store
	tokens      *auth.TokenManager
	cfg         config.AuthConfig
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new auth service. Reset tokens are kept in sessions.
func NewAuthService(
	userRepo repository.UserRepository,
	solicitudes SolicitudService,
	sessions session.Store,
	tokens *auth.TokenManager,
	cfg config.AuthConfig,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		solicitudes: solicitudes,
		sessions:    sessions,
		tokens:      tokens,
		cfg:         cfg,
		logger:      logger.With().Str("service", "auth").Logger(),
		now:         time.Now,
	}
}

// Register creates the account and its profile, then runs wholesale auto-link.
func (s *authService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := model.NormaliseEmail(req.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check e-mail: %w", err)
	}
	if existing != nil {
		return nil, model.ErrEmailInUse
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	now := s.now()
	user := &model.User{
		UID:          uuid.NewString(),
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        email,
		Telefono:     strings.TrimSpace(req.Telefono),
		Tipo:         model.UserTypeCliente,
		Rol:          model.RoleUser,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if s.cfg.AdminEmail != "" && email == s.cfg.AdminEmail {
		user.Rol = model.RoleAdmin
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, model.ErrEmailInUse
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info().
		Str("uid", user.UID).
		Str("rol", string(user.Rol)).
		Msg("user registered")

	return s.signedIn(ctx, user), nil
}

// Login checks credentials, then runs wholesale auto-link.
func (s *authService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := model.NormaliseEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, model.ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.logger.Info().Str("email", email).Msg("failed login attempt")
		return nil, model.ErrInvalidCredentials
	}

	s.logger.Info().Str("uid", user.UID).Msg("user signed in")

	return s.signedIn(ctx, user), nil
}

// signedIn runs auto-link for an authenticated user. A link failure
// is logged and does not fail the sign-in.
func (s *authService) signedIn(ctx context.Context, user *model.User) *model.AuthResponse {
	linked, err := s.solicitudes.AutoLink(ctx, user.UID, user.Email)
	if err != nil {
		s.logger.Warn().Err(err).Str("uid", user.UID).Msg("wholesale auto-link failed")
		return &model.AuthResponse{User: user}
	}
	if !linked {
		return &model.AuthResponse{User: user}
	}

	if fresh, err := s.userRepo.GetByUID(ctx, user.UID); err == nil && fresh != nil {
		user = fresh
	} else {
		user.Tipo = model.UserTypeMayorista
		user.Validado = true
	}

	return &model.AuthResponse{User: user, Welcome: true}
}

// Me returns the profile of uid. Until the profile is a validated wholesale
// one it also runs auto-link, so an approval made after sign-in is picked up
// by the session that is already open.
func (s *authService) Me(ctx context.Context, uid string) (*model.AuthResponse, error) {
	user, err := s.profile(ctx, uid)
	if err != nil {
		return nil, err
	}
	if user.IsWholesaleValidated() {
		return &model.AuthResponse{User: user}, nil
	}

	return s.signedIn(ctx, user), nil
}

func (s *authService) profile(ctx context.Context, uid string) (*model.User, error) {
	if uid == "" {
		return nil, model.ErrUnauthorised
	}

	user, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile edits the profile of uid.
func (s *authService) UpdateProfile(ctx context.Context, uid string, req *model.ProfileUpdateRequest) (*model.User, error) {
	if req.Nombre != nil && strings.TrimSpace(*req.Nombre) == "" {
		return nil, model.ValidationError("el nombre es obligatorio")
	}

	user, err := s.profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	req.Apply(user)
	user.UpdatedAt = s.now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrUserNotFound
		}
		s.logger.Error().Err(err).Str("uid", uid).Msg("failed to update profile")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}

// IssueToken signs a bearer token for uid.
func (s *authService) IssueToken(ctx context.Context, uid string) (*model.TokenResponse, error) {
	user, err := s.profile(ctx, uid)
	if err != nil {
		return nil, err
	}

	token, expires, err := s.tokens.Issue(user)
	if err != nil {
		s.logger.Error().Err(err).Str("uid", uid).Msg("failed to issue token")
		return nil, err
	}

	return &model.TokenResponse{Token: token, ExpiresAt: expires}, nil
}

// RequestPasswordReset creates a one-time reset token. The token is written
// to the log, which stands in for the mail delivery.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	email = model.NormaliseEmail(email)
	if !model.ValidEmail(email) {
		return model.ValidationError("el correo no es válido")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		s.logger.Debug().Str("email", email).Msg("password reset requested for unknown e-mail")
		return nil
	}

	token := uuid.NewString()
	if err := s.sessions.PutResetToken(ctx, token, user.UID, s.cfg.ResetTokenTTL); err != nil {
		s.logger.Error().Err(err).Str("uid", user.UID).Msg("failed to store reset token")
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.logger.Info().
		Str("uid", user.UID).
		Str("email", email).
		Str("reset_token", token).
		Dur("ttl", s.cfg.ResetTokenTTL).
		Msg("password reset token issued")

	return nil
}

// ConfirmPasswordReset consumes the token and sets the new password.
func (s *authService) ConfirmPasswordReset(ctx context.Context, req *model.PasswordResetConfirm) error {
	if req.Token == "" {
		return model.ErrInvalidResetToken
	}
	if len(req.Password) < 6 {
		return model.ValidationError("la contraseña debe tener al menos 6 caracteres")
	}

	uid, err := s.sessions.ConsumeResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return model.ErrInvalidResetToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, uid, hash); err != nil {
		s.logger.Error().Err(err).Str("uid", uid).Msg("failed to update password")
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info().Str("uid", uid).Msg("password reset completed")
	return nil
}
