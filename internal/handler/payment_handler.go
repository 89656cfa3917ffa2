package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"autopartes/internal/model"
	"autopartes/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles the gateway endpoints.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Create handles POST /api/webpay/create.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Confirm handles POST and GET /api/webpay/confirm.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Confirm(r.Context(), tokenWS(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// WholesaleReturn handles GET /api/mayorista/checkout/retorno, where the
// gateway sends the browser after a wholesale checkout.
func (h *PaymentHandler) WholesaleReturn(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ConfirmWholesale(r.Context(), tokenWS(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// tokenWS reads token_ws from the query, a form post or a JSON body.
func tokenWS(r *http.Request) string {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Token string `json:"token_ws"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Token != "" {
			return body.Token
		}
	}
	return r.FormValue("token_ws")
}
