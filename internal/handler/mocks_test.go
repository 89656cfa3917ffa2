package handler

import (
	"context"
	"io"

	"autopartes/internal/catalog"
	"autopartes/internal/model"
	"autopartes/internal/session"

	"github.com/stretchr/testify/mock"
)

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Popular(ctx context.Context, n int) ([]model.Product, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, req *model.ProductRequest, actor string) (*model.Product, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, req *model.ProductRequest, actor string) (*model.Product, error) {
	args := m.Called(ctx, id, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) UploadImage(ctx context.Context, id string, body io.Reader) (string, error) {
	args := m.Called(ctx, id, body)
	return args.String(0), args.Error(1)
}

func (m *MockProductService) Import(ctx context.Context, keys []string, actor string) (*catalog.Result, error) {
	args := m.Called(ctx, keys, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Result), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Me(ctx context.Context, uid string) (*model.AuthResponse, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuthResponse), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, uid string, req *model.ProfileUpdateRequest) (*model.User, error) {
	args := m.Called(ctx, uid, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, uid string) (*model.TokenResponse, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TokenResponse), args.Error(1)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockAuthService) ConfirmPasswordReset(ctx context.Context, req *model.PasswordResetConfirm) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// MockSolicitudService is a mock implementation of SolicitudService.
type MockSolicitudService struct {
	mock.Mock
}

func (m *MockSolicitudService) Submit(ctx context.Context, req *model.SolicitudRequest, uid string) (*model.Solicitud, error) {
	args := m.Called(ctx, req, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Solicitud), args.Error(1)
}

func (m *MockSolicitudService) Approve(ctx context.Context, id, approver string) (*model.Solicitud, error) {
	args := m.Called(ctx, id, approver)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Solicitud), args.Error(1)
}

func (m *MockSolicitudService) Reject(ctx context.Context, id, approver, motivo string) (*model.Solicitud, error) {
	args := m.Called(ctx, id, approver, motivo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Solicitud), args.Error(1)
}

func (m *MockSolicitudService) AutoLink(ctx context.Context, uid, email string) (bool, error) {
	args := m.Called(ctx, uid, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockSolicitudService) MigrateLegacy(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockSolicitudService) List(ctx context.Context, estado model.SolicitudEstado) ([]model.Solicitud, error) {
	args := m.Called(ctx, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Solicitud), args.Error(1)
}

func (m *MockSolicitudService) Get(ctx context.Context, id string) (*model.Solicitud, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Solicitud), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

type retailResponse = model.CartResponse[model.CartItem]
type wholesaleResponse = model.CartResponse[model.WholesaleItem]

func (m *MockCartService) Retail(sess *session.Session) retailResponse {
	args := m.Called(sess)
	return args.Get(0).(retailResponse)
}

func (m *MockCartService) AddRetail(ctx context.Context, sess *session.Session, req *model.CartRequest) (retailResponse, error) {
	args := m.Called(ctx, sess, req)
	return args.Get(0).(retailResponse), args.Error(1)
}

func (m *MockCartService) UpdateRetail(ctx context.Context, sess *session.Session, req *model.CartRequest) (retailResponse, error) {
	args := m.Called(ctx, sess, req)
	return args.Get(0).(retailResponse), args.Error(1)
}

func (m *MockCartService) RemoveRetail(ctx context.Context, sess *session.Session, productID string) (retailResponse, error) {
	args := m.Called(ctx, sess, productID)
	return args.Get(0).(retailResponse), args.Error(1)
}

func (m *MockCartService) ClearRetail(ctx context.Context, sess *session.Session) (retailResponse, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(retailResponse), args.Error(1)
}

func (m *MockCartService) Wholesale(ctx context.Context, user *model.User) (wholesaleResponse, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(wholesaleResponse), args.Error(1)
}

func (m *MockCartService) AddWholesale(ctx context.Context, user *model.User, req *model.WholesaleItemRequest) (wholesaleResponse, error) {
	args := m.Called(ctx, user, req)
	return args.Get(0).(wholesaleResponse), args.Error(1)
}

func (m *MockCartService) UpdateWholesale(ctx context.Context, user *model.User, id string, cantidad int) (wholesaleResponse, error) {
	args := m.Called(ctx, user, id, cantidad)
	return args.Get(0).(wholesaleResponse), args.Error(1)
}

func (m *MockCartService) RemoveWholesale(ctx context.Context, user *model.User, id string) (wholesaleResponse, error) {
	args := m.Called(ctx, user, id)
	return args.Get(0).(wholesaleResponse), args.Error(1)
}

func (m *MockCartService) ClearWholesale(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockCartService) Checkout(ctx context.Context, user *model.User) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

// MockPaymentService is a mock implementation of PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Create(ctx context.Context, req *model.CreateTransactionRequest) (*model.CreateTransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CreateTransactionResponse), args.Error(1)
}

func (m *MockPaymentService) Confirm(ctx context.Context, token string) (*model.ConfirmResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfirmResponse), args.Error(1)
}

func (m *MockPaymentService) ConfirmWholesale(ctx context.Context, token string) (*model.ConfirmResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ConfirmResponse), args.Error(1)
}
