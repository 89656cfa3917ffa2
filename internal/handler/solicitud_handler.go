package handler

import (
	"net/http"

	"autopartes/internal/model"
	"autopartes/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// SolicitudHandler handles wholesale onboarding requests.
type SolicitudHandler struct {
	service service.SolicitudService
	logger  zerolog.Logger
}

// NewSolicitudHandler creates a new wholesale request handler.
func NewSolicitudHandler(service service.SolicitudService, logger zerolog.Logger) *SolicitudHandler {
	return &SolicitudHandler{
		service: service,
		logger:  logger.With().Str("handler", "solicitud").Logger(),
	}
}

// Submit handles POST /api/mayorista/solicitudes. Signed-in callers get the
// request linked to their account.
func (h *SolicitudHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.SolicitudRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	s, err := h.service.Submit(r.Context(), &req, actor(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// List handles GET /api/admin/solicitudes?estado=. Legacy wholesale profiles
// are migrated first so they show up in the listing.
func (h *SolicitudHandler) List(w http.ResponseWriter, r *http.Request) {
	if n, err := h.service.MigrateLegacy(r.Context()); err != nil {
		h.logger.Warn().Err(err).Msg("legacy wholesale migration failed")
	} else if n > 0 {
		h.logger.Info().Int("migrated", n).Msg("legacy wholesale profiles migrated")
	}

	estado := model.SolicitudEstado(r.URL.Query().Get("estado"))
	solicitudes, err := h.service.List(r.Context(), estado)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, solicitudes)
}

// Get handles GET /api/admin/solicitudes/{id}.
func (h *SolicitudHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Approve handles POST /api/admin/solicitudes/{id}/aprobar.
func (h *SolicitudHandler) Approve(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Approve(r.Context(), mux.Vars(r)["id"], actor(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Reject handles POST /api/admin/solicitudes/{id}/rechazar.
func (h *SolicitudHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req model.RejectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	s, err := h.service.Reject(r.Context(), mux.Vars(r)["id"], actor(r), req.Motivo)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
