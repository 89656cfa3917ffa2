package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autopartes/internal/catalog"
	"autopartes/internal/middleware"
	"autopartes/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func asAdmin(r *http.Request) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), &middleware.Principal{UID: "admin-1", Role: model.RoleAdmin}))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestProductHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	testProducts := []model.Product{
		{ID: "P001", Codigo: "FLT-001", Nombre: "Filtro de aceite", Precio: 8990, CreatedAt: time.Now()},
		{ID: "P002", Codigo: "PST-002", Nombre: "Pastillas de freno", Precio: 24990, CreatedAt: time.Now()},
	}

	tests := []struct {
		name           string
		queryParams    string
		limit          int
		offset         int
		mockReturn     []model.Product
		mockError      error
		expectedStatus int
		expectService  bool
	}{
		{
			name:           "Success with defaults",
			queryParams:    "",
			limit:          0,
			offset:         0,
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Success with pagination",
			queryParams:    "?limit=5&offset=10",
			limit:          5,
			offset:         10,
			mockReturn:     testProducts,
			expectedStatus: http.StatusOK,
			expectService:  true,
		},
		{
			name:           "Invalid limit",
			queryParams:    "?limit=abc",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Invalid offset",
			queryParams:    "?offset=xyz",
			expectedStatus: http.StatusBadRequest,
			expectService:  false,
		},
		{
			name:           "Service error",
			queryParams:    "",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
			expectService:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, 5, logger)

			if tt.expectService {
				mockService.On("List", mock.Anything, model.ProductFilter{Limit: tt.limit, Offset: tt.offset}).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.queryParams, nil)
			w := httptest.NewRecorder()

			handler.GetAll(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Filters(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name   string
		query  string
		vars   map[string]string
		filter model.ProductFilter
		call   func(h *ProductHandler) http.HandlerFunc
	}{
		{"categoria", "", map[string]string{"categoria": "Frenos"}, model.ProductFilter{Categoria: "Frenos"},
			func(h *ProductHandler) http.HandlerFunc { return h.ByCategoria }},
		{"categoria paged", "?limit=25&offset=25", map[string]string{"categoria": "Frenos"},
			model.ProductFilter{Categoria: "Frenos", Limit: 25, Offset: 25},
			func(h *ProductHandler) http.HandlerFunc { return h.ByCategoria }},
		{"marca", "", map[string]string{"marca": "Bosch"}, model.ProductFilter{Marca: "Bosch"},
			func(h *ProductHandler) http.HandlerFunc { return h.ByMarca }},
		{"buscar", "?offset=40", map[string]string{"term": "filtro"}, model.ProductFilter{Search: "filtro", Offset: 40},
			func(h *ProductHandler) http.HandlerFunc { return h.Search }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, 5, logger)
			mockService.On("List", mock.Anything, tt.filter).Return([]model.Product{}, nil)

			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/products/x"+tt.query, nil), tt.vars)
			w := httptest.NewRecorder()

			tt.call(handler)(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, "[]", w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Popular(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, 5, logger)
		mockService.On("Popular", mock.Anything, 4).Return([]model.Product{{ID: "P001"}}, nil)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/products/populares/4", nil), map[string]string{"n": "4"})
		w := httptest.NewRecorder()
		handler.Popular(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Not a number", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, 5, logger)

		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/products/populares/x", nil), map[string]string{"n": "x"})
		w := httptest.NewRecorder()
		handler.Popular(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeValidation, decodeError(t, w).Error)
		mockService.AssertNotCalled(t, "Popular", mock.Anything, mock.Anything)
	})
}

func TestProductHandler_GetByID(t *testing.T) {
	logger := zerolog.Nop()

	testProduct := &model.Product{ID: "P001", Nombre: "Filtro de aceite", Precio: 8990, CreatedAt: time.Now()}

	tests := []struct {
		name           string
		productID      string
		mockReturn     *model.Product
		mockError      error
		expectedStatus int
	}{
		{"Success", "P001", testProduct, nil, http.StatusOK},
		{"Product not found", "P999", nil, model.ErrProductNotFound, http.StatusNotFound},
		{"Service error", "P001", nil, errors.New("database error"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, 5, logger)
			mockService.On("GetByID", mock.Anything, tt.productID).Return(tt.mockReturn, tt.mockError)

			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/products/"+tt.productID, nil),
				map[string]string{"id": tt.productID})
			w := httptest.NewRecorder()

			handler.GetByID(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_Create(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("Records the admin as creator", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, 5, logger)
		mockService.On("Create", mock.Anything, mock.MatchedBy(func(req *model.ProductRequest) bool {
			return req.Codigo == "FLT-001" && req.Precio == 8990
		}), "admin-1").Return(&model.Product{ID: "P001", Codigo: "FLT-001"}, nil)

		body := `{"codigo":"FLT-001","nombre":"Filtro de aceite","marca":"Bosch","categoria":"Filtros","precio":8990}`
		req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(body)))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, 5, logger)

		req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{")))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, model.ErrCodeInvalidJSON, decodeError(t, w).Error)
	})

	t.Run("Validation error", func(t *testing.T) {
		mockService := new(MockProductService)
		handler := NewProductHandler(mockService, 5, logger)
		mockService.On("Create", mock.Anything, mock.Anything, "admin-1").
			Return(nil, model.ValidationError("nombre es obligatorio"))

		req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(`{"precio":1}`)))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "nombre es obligatorio", decodeError(t, w).Message)
	})
}

func TestProductHandler_UpdateAndDelete(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, 5, logger)
	mockService.On("Update", mock.Anything, "P404", mock.Anything, "admin-1").Return(nil, model.ErrProductNotFound)
	mockService.On("Delete", mock.Anything, "P001").Return(nil)

	req := asAdmin(httptest.NewRequest(http.MethodPut, "/api/products/P404", bytes.NewBufferString(`{"nombre":"x"}`)))
	req = mux.SetURLVars(req, map[string]string{"id": "P404"})
	w := httptest.NewRecorder()
	handler.Update(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	req = mux.SetURLVars(asAdmin(httptest.NewRequest(http.MethodDelete, "/api/products/P001", nil)), map[string]string{"id": "P001"})
	w = httptest.NewRecorder()
	handler.Delete(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	mockService.AssertExpectations(t)
}

func multipartImage(t *testing.T, field string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, "foto.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestProductHandler_UploadImage(t *testing.T) {
	logger := zerolog.Nop()
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	tests := []struct {
		name           string
		field          string
		mockURL        string
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{"Success", "imagen", "http://localhost:8080/uploads/productos/P001/a.png", nil, true, http.StatusCreated},
		{"Invalid image", "imagen", "", model.ErrInvalidImage, true, http.StatusBadRequest},
		{"Missing field", "foto", "", nil, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockProductService)
			handler := NewProductHandler(mockService, 1, logger)
			if tt.expectService {
				mockService.On("UploadImage", mock.Anything, "P001", mock.Anything).Return(tt.mockURL, tt.mockError)
			}

			body, contentType := multipartImage(t, tt.field, png)
			req := httptest.NewRequest(http.MethodPost, "/api/products/P001/imagen", body)
			req.Header.Set("Content-Type", contentType)
			req = mux.SetURLVars(asAdmin(req), map[string]string{"id": "P001"})
			w := httptest.NewRecorder()

			handler.UploadImage(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.mockURL != "" {
				assert.Contains(t, w.Body.String(), tt.mockURL)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestProductHandler_UploadImageTooLarge(t *testing.T) {
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, 1, zerolog.Nop())

	body, contentType := multipartImage(t, "imagen", make([]byte, 2<<20))
	req := httptest.NewRequest(http.MethodPost, "/api/products/P001/imagen", body)
	req.Header.Set("Content-Type", contentType)
	req = mux.SetURLVars(asAdmin(req), map[string]string{"id": "P001"})
	w := httptest.NewRecorder()

	handler.UploadImage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductHandler_Import(t *testing.T) {
	mockService := new(MockProductService)
	handler := NewProductHandler(mockService, 5, zerolog.Nop())
	mockService.On("Import", mock.Anything, []string{"feeds/catalogo.csv.gz"}, "admin-1").
		Return(&catalog.Result{Files: 1, Imported: 12}, nil)

	req := asAdmin(httptest.NewRequest(http.MethodPost, "/api/admin/productos/importar",
		bytes.NewBufferString(`{"keys":["feeds/catalogo.csv.gz"]}`)))
	w := httptest.NewRecorder()

	handler.Import(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var result catalog.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 12, result.Imported)
	mockService.AssertExpectations(t)
}
