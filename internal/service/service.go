package service

import (
	"context"
	"io"

	"autopartes/internal/catalog"
	"autopartes/internal/model"
	"autopartes/internal/session"
)

// ProductService defines catalogue browsing and administration.
type ProductService interface {
	// List returns products matching the filter with pagination.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Popular returns the n most popular products.
	Popular(ctx context.Context, n int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, req *model.ProductRequest, actor string) (*model.Product, error)

	// Update validates and overwrites an existing product.
	Update(ctx context.Context, id string, req *model.ProductRequest, actor string) (*model.Product, error)

	// Delete removes a product.
	Delete(ctx context.Context, id string) error

	// UploadImage stores an image and appends its URL to the product.
	UploadImage(ctx context.Context, id string, body io.Reader) (string, error)

	// Import loads catalogue feeds from object storage and upserts them.
	Import(ctx context.Context, keys []string, actor string) (*catalog.Result, error)
}

// AuthService defines account operations. Session binding is left to the caller.
type AuthService interface {
	// Register creates the account and its profile, then runs wholesale auto-link.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login checks credentials, then runs wholesale auto-link.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// Me returns the profile of uid and runs wholesale auto-link until the
	// profile is validated.
	Me(ctx context.Context, uid string) (*model.AuthResponse, error)

	// UpdateProfile edits the profile of uid.
	UpdateProfile(ctx context.Context, uid string, req *model.ProfileUpdateRequest) (*model.User, error)

	// IssueToken signs a bearer token for uid.
	IssueToken(ctx context.Context, uid string) (*model.TokenResponse, error)

	// RequestPasswordReset creates a one-time reset token. Unknown e-mails succeed silently.
	RequestPasswordReset(ctx context.Context, email string) error

	// ConfirmPasswordReset consumes the token and sets the new password.
	ConfirmPasswordReset(ctx context.Context, req *model.PasswordResetConfirm) error
}

// SolicitudService defines the wholesale onboarding state machine.
type SolicitudService interface {
	// Submit creates a request; uid is empty for anonymous visitors.
	Submit(ctx context.Context, req *model.SolicitudRequest, uid string) (*model.Solicitud, error)

	// Approve moves a request to aprobado and validates the linked profile.
	Approve(ctx context.Context, id, approver string) (*model.Solicitud, error)

	// Reject moves a request to rechazado and stores the reason on the linked profile.
	Reject(ctx context.Context, id, approver, motivo string) (*model.Solicitud, error)

	// AutoLink links an approved request for email to uid. Reports whether a link happened.
	AutoLink(ctx context.Context, uid, email string) (bool, error)

	// MigrateLegacy creates requests for legacy unvalidated wholesale profiles.
	MigrateLegacy(ctx context.Context) (int, error)

	// List returns requests newest first, optionally filtered by state.
	List(ctx context.Context, estado model.SolicitudEstado) ([]model.Solicitud, error)

	// Get retrieves one request.
	Get(ctx context.Context, id string) (*model.Solicitud, error)
}

// CartService defines the retail (session) and wholesale (per-user) carts.
type CartService interface {
	// Retail returns the session cart.
	Retail(sess *session.Session) model.CartResponse[model.CartItem]

	// AddRetail adds a product to the session cart.
	AddRetail(ctx context.Context, sess *session.Session, req *model.CartRequest) (model.CartResponse[model.CartItem], error)

	// UpdateRetail sets a line quantity; zero or less removes the line.
	UpdateRetail(ctx context.Context, sess *session.Session, req *model.CartRequest) (model.CartResponse[model.CartItem], error)

	// RemoveRetail removes a line from the session cart.
	RemoveRetail(ctx context.Context, sess *session.Session, productID string) (model.CartResponse[model.CartItem], error)

	// ClearRetail empties the session cart.
	ClearRetail(ctx context.Context, sess *session.Session) (model.CartResponse[model.CartItem], error)

	// Wholesale returns the user's wholesale cart.
	Wholesale(ctx context.Context, user *model.User) (model.CartResponse[model.WholesaleItem], error)

	// AddWholesale adds a product at its wholesale price.
	AddWholesale(ctx context.Context, user *model.User, req *model.WholesaleItemRequest) (model.CartResponse[model.WholesaleItem], error)

	// UpdateWholesale sets a line quantity rounded up to the lot size.
	UpdateWholesale(ctx context.Context, user *model.User, id string, cantidad int) (model.CartResponse[model.WholesaleItem], error)

	// RemoveWholesale removes a line from the wholesale cart.
	RemoveWholesale(ctx context.Context, user *model.User, id string) (model.CartResponse[model.WholesaleItem], error)

	// ClearWholesale deletes the wholesale cart.
	ClearWholesale(ctx context.Context, user *model.User) error

	// Checkout turns the wholesale cart into a pending order and a payment redirect.
	Checkout(ctx context.Context, user *model.User) (*model.CheckoutResponse, error)
}

// PaymentService defines the server-side payment endpoints.
type PaymentService interface {
	// Create opens a gateway transaction and records it as pending.
	Create(ctx context.Context, req *model.CreateTransactionRequest) (*model.CreateTransactionResponse, error)

	// Confirm commits the transaction and records an order when authorised.
	Confirm(ctx context.Context, token string) (*model.ConfirmResponse, error)

	// ConfirmWholesale commits a wholesale checkout and records its outcome.
	ConfirmWholesale(ctx context.Context, token string) (*model.ConfirmResponse, error)
}
