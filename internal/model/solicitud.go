package model

import (
	"strings"
	"time"
)

// SolicitudEstado is the state of a wholesale request.
type SolicitudEstado string

const (
	EstadoSinAutenticar SolicitudEstado = "sin_autenticar"
	EstadoPendiente     SolicitudEstado = "pendiente"
	EstadoAprobado      SolicitudEstado = "aprobado"
	EstadoRechazado     SolicitudEstado = "rechazado"
)

// Terminal reports whether no further admin transition is allowed.
func (e SolicitudEstado) Terminal() bool {
	return e == EstadoAprobado || e == EstadoRechazado
}

// Valid reports whether e is a known state.
func (e SolicitudEstado) Valid() bool {
	switch e {
	case EstadoSinAutenticar, EstadoPendiente, EstadoAprobado, EstadoRechazado:
		return true
	}
	return false
}

// Solicitud is a wholesale account request (collection "solicitudes_mayorista").
type Solicitud struct {
	ID                    string          `json:"id" db:"id"`
	Empresa               string          `json:"empresa" db:"empresa"`
	RUT                   string          `json:"rut" db:"rut"`
	Giro                  string          `json:"giro" db:"giro"`
	Contacto              string          `json:"contacto" db:"contacto"`
	Email                 string          `json:"email" db:"email"`
	Telefono              string          `json:"telefono" db:"telefono"`
	Direccion             string          `json:"direccion" db:"direccion"`
	Mensaje               string          `json:"mensaje" db:"mensaje"`
	Estado                SolicitudEstado `json:"estado" db:"estado"`
	UserID                string          `json:"userId" db:"user_id"`
	AprobadoPor           string          `json:"aprobadoPor,omitempty" db:"aprobado_por"`
	FechaAprobacion       *time.Time      `json:"fechaAprobacion,omitempty" db:"fecha_aprobacion"`
	RechazadoPor          string          `json:"rechazadoPor,omitempty" db:"rechazado_por"`
	FechaRechazo          *time.Time      `json:"fechaRechazo,omitempty" db:"fecha_rechazo"`
	MotivoRechazo         string          `json:"motivoRechazo,omitempty" db:"motivo_rechazo"`
	Migrated              bool            `json:"migrated" db:"migrated"`
	RequiereAutenticacion bool            `json:"requiereAutenticacion" db:"requiere_autenticacion"`
	CreatedAt             time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time       `json:"updatedAt" db:"updated_at"`
}

// SolicitudRequest is the public wholesale form.
type SolicitudRequest struct {
	Empresa   string `json:"empresa"`
	RUT       string `json:"rut"`
	Giro      string `json:"giro"`
	Contacto  string `json:"contacto"`
	Email     string `json:"email"`
	Telefono  string `json:"telefono"`
	Direccion string `json:"direccion"`
	Mensaje   string `json:"mensaje"`
}

// Validate checks the form before any store access.
func (r *SolicitudRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Empresa) == "":
		return ValidationError("el nombre de la empresa es obligatorio")
	case !ValidRUT(r.RUT):
		return ValidationError("el RUT no es válido")
	case strings.TrimSpace(r.Contacto) == "":
		return ValidationError("el nombre de contacto es obligatorio")
	case !ValidEmail(r.Email):
		return ValidationError("el correo no es válido")
	case strings.TrimSpace(r.Telefono) == "":
		return ValidationError("el teléfono es obligatorio")
	}
	return nil
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Motivo string `json:"motivo"`
}

// ValidRUT checks a Chilean RUT ("12.345.678-5") against its módulo 11 check digit.
func ValidRUT(rut string) bool {
	clean := strings.ToUpper(strings.NewReplacer(".", "", "-", "", " ", "").Replace(rut))
	if len(clean) < 2 {
		return false
	}
	body, dv := clean[:len(clean)-1], clean[len(clean)-1]
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
	}

	sum, factor := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	var expected byte
	switch rest := 11 - sum%11; rest {
	case 11:
		expected = '0'
	case 10:
		expected = 'K'
	default:
		expected = byte('0' + rest)
	}
	return dv == expected
}
