package model

import (
	"net/mail"
	"strings"
	"time"
)

// UserType is the account "tipo" stored on the profile.
type UserType string

const (
	UserTypeCliente   UserType = "cliente"
	UserTypeMayorista UserType = "mayorista"
)

// Role is the server-side authorisation claim carried by sessions and tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the profile document kept in "usuarios", keyed by the auth UID.
type User struct {
	UID                string             `json:"uid" db:"uid"`
	Nombre             string             `json:"nombre" db:"nombre"`
	Email              string             `json:"email" db:"email"`
	Telefono           string             `json:"telefono" db:"telefono"`
	Direccion          string             `json:"direccion" db:"direccion"`
	Comuna             string             `json:"comuna" db:"comuna"`
	Ciudad             string             `json:"ciudad" db:"ciudad"`
	Region             string             `json:"region" db:"region"`
	Tipo               UserType           `json:"tipo" db:"tipo"`
	Validado           bool               `json:"validado" db:"validado"`
	SolicitudMayorista *SolicitudSnapshot `json:"solicitudMayorista,omitempty" db:"solicitud_mayorista"`
	Rol                Role               `json:"rol" db:"rol"`
	PasswordHash       string             `json:"-" db:"password_hash"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`
}

// IsWholesaleValidated reports whether the account may use wholesale pricing.
func (u *User) IsWholesaleValidated() bool {
	return u != nil && u.Tipo == UserTypeMayorista && u.Validado
}

// IsAdmin reports whether the profile carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Rol == RoleAdmin
}

// SolicitudSnapshot mirrors the state of the user's wholesale request.
type SolicitudSnapshot struct {
	SolicitudID string          `json:"solicitudId,omitempty"`
	Estado      SolicitudEstado `json:"estado"`
	Fecha       time.Time       `json:"fecha"`
	Motivo      string          `json:"motivo,omitempty"`
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Telefono string `json:"telefono"`
}

// Validate checks the sign-up form.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Nombre) == "" {
		return ValidationError("el nombre es obligatorio")
	}
	if !ValidEmail(r.Email) {
		return ValidationError("el correo no es válido")
	}
	if len(r.Password) < 6 {
		return ValidationError("la contraseña debe tener al menos 6 caracteres")
	}
	return nil
}

// LoginRequest is the sign-in payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdateRequest carries the editable profile fields.
type ProfileUpdateRequest struct {
	Nombre    *string `json:"nombre,omitempty"`
	Telefono  *string `json:"telefono,omitempty"`
	Direccion *string `json:"direccion,omitempty"`
	Comuna    *string `json:"comuna,omitempty"`
	Ciudad    *string `json:"ciudad,omitempty"`
	Region    *string `json:"region,omitempty"`
}

// Apply copies the non-nil fields onto u.
func (r *ProfileUpdateRequest) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&u.Nombre, r.Nombre)
	set(&u.Telefono, r.Telefono)
	set(&u.Direccion, r.Direccion)
	set(&u.Comuna, r.Comuna)
	set(&u.Ciudad, r.Ciudad)
	set(&u.Region, r.Region)
}

// PasswordResetRequest asks for a reset token.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm consumes a reset token.
type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User    *User `json:"user"`
	Welcome bool  `json:"welcomeMayorista"`
}

// NormaliseEmail lower-cases and trims an address for lookups.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email is a bare, parseable address.
func ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// TokenResponse carries a bearer token for API clients.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
