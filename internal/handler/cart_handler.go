package handler

import (
	"net/http"

	"autopartes/internal/middleware"
	"autopartes/internal/model"
	"autopartes/internal/service"
	"autopartes/internal/session"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CartHandler handles the retail session cart and the wholesale cart.
type CartHandler struct {
	service service.CartService
	auth    *middleware.Auth
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, auth *middleware.Auth, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		auth:    auth,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := h.auth.Session(w, r)
	if err != nil {
		writeError(w, err, h.logger)
		return nil, false
	}
	return sess, true
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.service.Retail(sess))
}

// Add handles POST /api/cart/add.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req model.CartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	resp, err := h.service.AddRetail(r.Context(), sess, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Update handles PUT /api/cart/update.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.CartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	resp, err := h.service.UpdateRetail(r.Context(), sess, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Remove handles DELETE /api/cart/remove/{productId}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	resp, err := h.service.RemoveRetail(r.Context(), sess, mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Clear handles DELETE /api/cart/clear.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	resp, err := h.service.ClearRetail(r.Context(), sess)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// wholesaleUser returns the profile loaded by RequireWholesale.
func (h *CartHandler) wholesaleUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorised, h.logger)
		return nil, false
	}
	return user, true
}

// GetWholesale handles GET /api/mayorista/carrito.
func (h *CartHandler) GetWholesale(w http.ResponseWriter, r *http.Request) {
	user, ok := h.wholesaleUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Wholesale(r.Context(), user)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddWholesale handles POST /api/mayorista/carrito/items.
func (h *CartHandler) AddWholesale(w http.ResponseWriter, r *http.Request) {
	user, ok := h.wholesaleUser(w, r)
	if !ok {
		return
	}
	var req model.WholesaleItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.AddWholesale(r.Context(), user, &req)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateWholesale handles PUT /api/mayorista/carrito/items/{id}.
func (h *CartHandler) UpdateWholesale(w http.ResponseWriter, r *http.Request) {
	user, ok := h.wholesaleUser(w, r)
	if !ok {
		return
	}
	var req model.WholesaleQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	resp, err := h.service.UpdateWholesale(r.Context(), user, mux.Vars(r)["id"], req.Cantidad)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RemoveWholesale handles DELETE /api/mayorista/carrito/items/{id}.
func (h *CartHandler) RemoveWholesale(w http.ResponseWriter, r *http.Request) {
	user, ok := h.wholesaleUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.RemoveWholesale(r.Context(), user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ClearWholesale handles DELETE /api/mayorista/carrito.
func (h *CartHandler) ClearWholesale(w http.ResponseWriter, r *http.Request) {
	user, ok := h.wholesaleUser(w, r)
	if !ok {
		return
	}

	if err := h.service.ClearWholesale(r.Context(), user); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout handles POST /api/mayorista/checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.wholesaleUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Checkout(r.Context(), user)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
