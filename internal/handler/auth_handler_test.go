package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autopartes/internal/auth"
	"autopartes/internal/config"
	"autopartes/internal/middleware"
	"autopartes/internal/model"
	"autopartes/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAuth() (*middleware.Auth, *session.MemoryStore) {
	store := session.NewMemoryStore(time.Hour)
	a := middleware.NewAuth(store, auth.NewTokenManager("handler-secret", time.Hour), nil, nil,
		config.SessionConfig{CookieName: "sessionId", TTL: time.Hour}, zerolog.Nop())
	return a, store
}

func asUser(r *http.Request, uid string) *http.Request {
	return r.WithContext(middleware.WithPrincipal(r.Context(), &middleware.Principal{UID: uid, Role: model.RoleUser}))
}

func TestAuthHandler_Login(t *testing.T) {
	user := &model.User{UID: "u1", Email: "ana@taller.cl", Rol: model.RoleUser}

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.AuthResponse
		mockError      error
		expectService  bool
		expectedStatus int
		expectCookie   bool
	}{
		{
			name:           "Success",
			body:           `{"email":"ana@taller.cl","password":"secreto123"}`,
			mockReturn:     &model.AuthResponse{User: user},
			expectService:  true,
			expectedStatus: http.StatusOK,
			expectCookie:   true,
		},
		{
			name:           "Invalid credentials",
			body:           `{"email":"ana@taller.cl","password":"mala"}`,
			mockError:      model.ErrInvalidCredentials,
			expectService:  true,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid JSON",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockAuthService)
			a, store := newTestAuth()
			handler := NewAuthHandler(mockService, a, zerolog.Nop())

			if tt.expectService {
				mockService.On("Login", mock.Anything, mock.AnythingOfType("*model.LoginRequest")).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			cookies := w.Result().Cookies()
			if tt.expectCookie {
				require.Len(t, cookies, 1)
				sess, err := store.Get(context.Background(), cookies[0].Value)
				require.NoError(t, err)
				assert.Equal(t, "u1", sess.UserID)
			} else {
				assert.Empty(t, cookies)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("Created and signed in", func(t *testing.T) {
		mockService := new(MockAuthService)
		a, _ := newTestAuth()
		handler := NewAuthHandler(mockService, a, zerolog.Nop())

		mockService.On("Register", mock.Anything, mock.MatchedBy(func(r *model.RegisterRequest) bool {
			return r.Email == "taller@mayorista.cl"
		})).Return(&model.AuthResponse{
			User:    &model.User{UID: "u2", Email: "taller@mayorista.cl", Tipo: model.UserTypeMayorista, Validado: true},
			Welcome: true,
		}, nil)

		body := `{"nombre":"Taller Sur","email":"taller@mayorista.cl","password":"secreto123"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		handler.Register(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"welcomeMayorista":true`)
		assert.Len(t, w.Result().Cookies(), 1)
		mockService.AssertExpectations(t)
	})

	t.Run("Email in use", func(t *testing.T) {
		mockService := new(MockAuthService)
		a, _ := newTestAuth()
		handler := NewAuthHandler(mockService, a, zerolog.Nop())
		mockService.On("Register", mock.Anything, mock.Anything).Return(nil, model.ErrEmailInUse)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(`{"email":"x@y.cl"}`))
		w := httptest.NewRecorder()

		handler.Register(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, model.ErrCodeEmailInUse, decodeError(t, w).Error)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	mockService := new(MockAuthService)
	a, _ := newTestAuth()
	handler := NewAuthHandler(mockService, a, zerolog.Nop())

	nombre := "Ana Pérez"
	mockService.On("Me", mock.Anything, "u1").Return(&model.AuthResponse{
		User:    &model.User{UID: "u1", Nombre: "Ana", Tipo: model.UserTypeMayorista, Validado: true},
		Welcome: true,
	}, nil)
	mockService.On("UpdateProfile", mock.Anything, "u1", mock.MatchedBy(func(r *model.ProfileUpdateRequest) bool {
		return r.Nombre != nil && *r.Nombre == nombre && r.Telefono == nil
	})).Return(&model.User{UID: "u1", Nombre: nombre}, nil)

	w := httptest.NewRecorder()
	handler.Me(w, asUser(httptest.NewRequest(http.MethodGet, "/api/auth/me", nil), "u1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"welcomeMayorista":true`)
	assert.Contains(t, w.Body.String(), `"uid":"u1"`)

	w = httptest.NewRecorder()
	handler.UpdateMe(w, asUser(httptest.NewRequest(http.MethodPut, "/api/auth/me",
		bytes.NewBufferString(`{"nombre":"Ana Pérez"}`)), "u1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), nombre)

	mockService.AssertExpectations(t)
}

func TestAuthHandler_Token(t *testing.T) {
	mockService := new(MockAuthService)
	a, _ := newTestAuth()
	handler := NewAuthHandler(mockService, a, zerolog.Nop())

	expires := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mockService.On("IssueToken", mock.Anything, "u1").Return(&model.TokenResponse{Token: "jwt", ExpiresAt: expires}, nil)

	w := httptest.NewRecorder()
	handler.Token(w, asUser(httptest.NewRequest(http.MethodPost, "/api/auth/token", nil), "u1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token":"jwt"`)
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Logout(t *testing.T) {
	mockService := new(MockAuthService)
	a, store := newTestAuth()
	handler := NewAuthHandler(mockService, a, zerolog.Nop())

	ctx := context.Background()
	sess, err := store.New(ctx)
	require.NoError(t, err)
	sess.SignIn("u1", "ana@taller.cl", model.RoleUser)
	sess.Cart = []model.CartItem{{ProductID: "P001", Cantidad: 1}}
	require.NoError(t, store.Save(ctx, sess))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "sessionId", Value: sess.ID})
	w := httptest.NewRecorder()

	a.Authenticate(http.HandlerFunc(handler.Logout)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, sess.ID, cookies[0].Value)

	stored, err := store.Get(ctx, cookies[0].Value)
	require.NoError(t, err)
	assert.False(t, stored.Authenticated())
	assert.Len(t, stored.Cart, 1)
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	mockService := new(MockAuthService)
	a, _ := newTestAuth()
	handler := NewAuthHandler(mockService, a, zerolog.Nop())

	mockService.On("RequestPasswordReset", mock.Anything, "ana@taller.cl").Return(nil)
	mockService.On("ConfirmPasswordReset", mock.Anything, &model.PasswordResetConfirm{Token: "bad", Password: "nueva12345"}).
		Return(model.ErrInvalidResetToken)

	w := httptest.NewRecorder()
	handler.RequestPasswordReset(w, httptest.NewRequest(http.MethodPost, "/api/auth/password-reset",
		bytes.NewBufferString(`{"email":"ana@taller.cl"}`)))
	assert.Equal(t, http.StatusAccepted, w.Code)

	w = httptest.NewRecorder()
	handler.ConfirmPasswordReset(w, httptest.NewRequest(http.MethodPost, "/api/auth/password-reset/confirm",
		bytes.NewBufferString(`{"token":"bad","password":"nueva12345"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, model.ErrCodeInvalidResetToken, decodeError(t, w).Error)

	mockService.AssertExpectations(t)
}
