package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"autopartes/internal/model"

	"github.com/rs/zerolog"
)

var errInvalidJSON = model.NewDomainError(model.ErrCodeInvalidJSON, "El cuerpo de la solicitud no es JSON válido")

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps err to a status code and writes the error body. Errors that
// are not domain errors are logged and reported as internal.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var de *model.DomainError
	if !errors.As(err, &de) {
		logger.Error().Err(err).Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "Error interno del servidor",
		})
		return
	}

	status := statusFor(de.Code)
	logger.Debug().Str("code", de.Code).Int("status", status).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{Error: de.Code, Message: de.Message})
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeValidation,
		model.ErrCodeInvalidQuantity, model.ErrCodeMotivoRequerido, model.ErrCodeEmptyCart,
		model.ErrCodeInvalidImage:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised, model.ErrCodeInvalidCredentials, model.ErrCodeInvalidResetToken:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden, model.ErrCodeWholesaleNotValidated:
		return http.StatusForbidden
	case model.ErrCodeProductNotFound, model.ErrCodeUserNotFound, model.ErrCodeSolicitudNotFound,
		model.ErrCodeItemNotFound, model.ErrCodeTransactionNotFound, model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmailInUse, model.ErrCodeSolicitudExistente, model.ErrCodeInvalidTransition:
		return http.StatusConflict
	case model.ErrCodePaymentFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidJSON
	}
	return nil
}
