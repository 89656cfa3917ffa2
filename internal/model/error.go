package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON           = "INVALID_JSON"
	ErrCodeMissingField          = "MISSING_FIELD"
	ErrCodeValidation            = "VALIDATION_FAILED"
	ErrCodeProductNotFound       = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity       = "INVALID_QUANTITY"
	ErrCodeUnauthorised          = "UNAUTHORIZED"
	ErrCodeForbidden             = "FORBIDDEN"
	ErrCodeInternalError         = "INTERNAL_ERROR"
	ErrCodeEmailInUse            = "EMAIL_IN_USE"
	ErrCodeInvalidCredentials    = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound          = "USER_NOT_FOUND"
	ErrCodeInvalidResetToken     = "INVALID_RESET_TOKEN"
	ErrCodeSolicitudExistente    = "SOLICITUD_EXISTENTE"
	ErrCodeSolicitudNotFound     = "SOLICITUD_NOT_FOUND"
	ErrCodeInvalidTransition     = "INVALID_TRANSITION"
	ErrCodeMotivoRequerido       = "MOTIVO_REQUERIDO"
	ErrCodeEmptyCart             = "EMPTY_CART"
	ErrCodeItemNotFound          = "ITEM_NOT_FOUND"
	ErrCodeWholesaleNotValidated = "WHOLESALE_NOT_VALIDATED"
	ErrCodePaymentFailed         = "PAYMENT_FAILED"
	ErrCodeTransactionNotFound   = "TRANSACTION_NOT_FOUND"
	ErrCodeOrderNotFound         = "ORDER_NOT_FOUND"
	ErrCodeInvalidImage          = "INVALID_IMAGE"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ValidationError builds a VALIDATION_FAILED error with a field-specific message.
func ValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrProductNotFound       = NewDomainError(ErrCodeProductNotFound, "Producto no encontrado")
	ErrInvalidQuantity       = NewDomainError(ErrCodeInvalidQuantity, "La cantidad debe ser mayor que cero")
	ErrUnauthorised          = NewDomainError(ErrCodeUnauthorised, "Debes iniciar sesión")
	ErrForbidden             = NewDomainError(ErrCodeForbidden, "No tienes permisos para realizar esta acción")
	ErrEmailInUse            = NewDomainError(ErrCodeEmailInUse, "El correo ya está registrado")
	ErrInvalidCredentials    = NewDomainError(ErrCodeInvalidCredentials, "Correo o contraseña incorrectos")
	ErrUserNotFound          = NewDomainError(ErrCodeUserNotFound, "Usuario no encontrado")
	ErrInvalidResetToken     = NewDomainError(ErrCodeInvalidResetToken, "El enlace de recuperación no es válido o expiró")
	ErrSolicitudExistente    = NewDomainError(ErrCodeSolicitudExistente, "Ya existe una solicitud mayorista para este correo o usuario")
	ErrSolicitudNotFound     = NewDomainError(ErrCodeSolicitudNotFound, "Solicitud no encontrada")
	ErrInvalidTransition     = NewDomainError(ErrCodeInvalidTransition, "La solicitud ya fue resuelta")
	ErrMotivoRequerido       = NewDomainError(ErrCodeMotivoRequerido, "Debes indicar el motivo del rechazo")
	ErrEmptyCart             = NewDomainError(ErrCodeEmptyCart, "El carrito está vacío")
	ErrItemNotFound          = NewDomainError(ErrCodeItemNotFound, "El producto no está en el carrito")
	ErrWholesaleNotValidated = NewDomainError(ErrCodeWholesaleNotValidated, "Tu cuenta mayorista aún no está validada")
	ErrPaymentFailed         = NewDomainError(ErrCodePaymentFailed, "No se pudo procesar el pago, inténtalo nuevamente")
	ErrTransactionNotFound   = NewDomainError(ErrCodeTransactionNotFound, "Transacción no encontrada")
	ErrOrderNotFound         = NewDomainError(ErrCodeOrderNotFound, "Orden no encontrada")
	ErrInvalidImage          = NewDomainError(ErrCodeInvalidImage, "Formato de imagen no permitido (solo PNG, JPG o WEBP)")
)
