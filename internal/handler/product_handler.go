package handler

import (
	"net/http"
	"strconv"

	"autopartes/internal/middleware"
	"autopartes/internal/model"
	"autopartes/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ProductHandler handles product-related HTTP requests.
type ProductHandler struct {
	service   service.ProductService
	maxUpload int64
	logger    zerolog.Logger
}

// NewProductHandler creates a new product handler. maxUploadMB caps image uploads.
func NewProductHandler(service service.ProductService, maxUploadMB int, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:   service,
		maxUpload: int64(maxUploadMB) << 20,
		logger:    logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ProductFilter{})
}

// ByCategoria handles GET /api/products/categoria/{categoria}.
func (h *ProductHandler) ByCategoria(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ProductFilter{Categoria: mux.Vars(r)["categoria"]})
}

// ByMarca handles GET /api/products/marca/{marca}.
func (h *ProductHandler) ByMarca(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ProductFilter{Marca: mux.Vars(r)["marca"]})
}

// Search handles GET /api/products/buscar/{term}.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ProductFilter{Search: mux.Vars(r)["term"]})
}

// list applies the optional ?limit&offset and writes the matches.
func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, filter model.ProductFilter) {
	limit, offset, err := pagination(r)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	filter.Limit, filter.Offset = limit, offset

	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// Popular handles GET /api/products/populares/{n}.
func (h *ProductHandler) Popular(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		writeError(w, model.ValidationError("n debe ser un número"), h.logger)
		return
	}

	products, err := h.service.Popular(r.Context(), n)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), &req, actor(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	product, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &req, actor(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage handles POST /api/products/{id}/imagen with a multipart "imagen" field.
func (h *ProductHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeError(w, model.ValidationError("La imagen excede el tamaño permitido o el formulario es inválido"), h.logger)
		return
	}

	file, _, err := r.FormFile("imagen")
	if err != nil {
		writeError(w, model.ValidationError("Debes adjuntar el campo imagen"), h.logger)
		return
	}
	defer file.Close()

	url, err := h.service.UploadImage(r.Context(), mux.Vars(r)["id"], file)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// Import handles POST /api/admin/productos/importar.
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req model.ImportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err, h.logger)
		return
	}

	result, err := h.service.Import(r.Context(), req.Keys, actor(r))
	if err != nil {
		writeError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func pagination(r *http.Request) (int, int, error) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, model.ValidationError("limit inválido")
		}
		limit = v
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, model.ValidationError("offset inválido")
		}
		offset = v
	}

	return limit, offset, nil
}

// actor is the uid recorded as createdBy/updatedBy.
func actor(r *http.Request) string {
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		return p.UID
	}
	return ""
}
