package repository

import (
	"context"

	"autopartes/internal/model"

	"github.com/jackc/pgx/v5"
)

// Transactor starts database transactions shared by several repositories.
type Transactor interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// ProductRepository defines data access for the "productos" collection.
type ProductRepository interface {
	// List returns products matching the filter ordered by name.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Popular returns the n products with the highest popularidad.
	Popular(ctx context.Context, n int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *model.Product) error

	// Update overwrites an existing product. Returns false when it does not exist.
	Update(ctx context.Context, p *model.Product) (bool, error)

	// Delete removes a product. Returns false when it does not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// AddImage appends an image URL to the product.
	AddImage(ctx context.Context, id, url string) (bool, error)

	// UpsertByCodigo inserts or updates products keyed by codigo in one batch.
	UpsertByCodigo(ctx context.Context, products []model.Product) error
}

// UserRepository defines data access for the "usuarios" collection.
type UserRepository interface {
	// Create inserts a new profile.
	Create(ctx context.Context, u *model.User) error

	// GetByUID retrieves a profile by auth UID.
	GetByUID(ctx context.Context, uid string) (*model.User, error)

	// GetByEmail retrieves a profile by normalised e-mail.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpdateProfile overwrites the editable profile fields.
	UpdateProfile(ctx context.Context, u *model.User) error

	// UpdatePassword replaces the password hash.
	UpdatePassword(ctx context.Context, uid, hash string) error

	// ListUnvalidatedWholesale returns profiles with tipo=mayorista and validado=false.
	ListUnvalidatedWholesale(ctx context.Context) ([]model.User, error)

	// SetWholesale flips the profile to tipo=mayorista, validado=true and stores
	// the snapshot. tx may be nil. Fails with ErrUserNotFound when no row matches.
	SetWholesale(ctx context.Context, tx pgx.Tx, uid string, snapshot *model.SolicitudSnapshot) error

	// SetSolicitudSnapshot stores only the request snapshot. tx may be nil.
	// Fails with ErrUserNotFound when no row matches.
	SetSolicitudSnapshot(ctx context.Context, tx pgx.Tx, uid string, snapshot *model.SolicitudSnapshot) error
}

// SolicitudRepository defines data access for the "solicitudes_mayorista" collection.
type SolicitudRepository interface {
	// Create inserts a new request. tx may be nil.
	Create(ctx context.Context, tx pgx.Tx, s *model.Solicitud) error

	// GetByID retrieves a request by ID.
	GetByID(ctx context.Context, id string) (*model.Solicitud, error)

	// FindByEmailOrUser returns the first request whose email matches, or whose
	// user_id matches when uid is not empty.
	FindByEmailOrUser(ctx context.Context, email, uid string) (*model.Solicitud, error)

	// FindApprovedForLink returns an approved request for email whose user_id
	// is empty or differs from uid.
	FindApprovedForLink(ctx context.Context, email, uid string) (*model.Solicitud, error)

	// ExistsForUser reports whether any request is linked to uid.
	ExistsForUser(ctx context.Context, uid string) (bool, error)

	// List returns requests newest first, optionally filtered by state.
	List(ctx context.Context, estado model.SolicitudEstado) ([]model.Solicitud, error)

	// Update overwrites the mutable state fields. tx may be nil.
	Update(ctx context.Context, tx pgx.Tx, s *model.Solicitud) error
}

// WholesaleCartRepository defines data access for the "carritos_mayorista" collection.
type WholesaleCartRepository interface {
	// Get returns the stored items, or nil when the user has no cart document.
	Get(ctx context.Context, uid string) ([]model.WholesaleItem, error)

	// Save overwrites the whole item list and cached total.
	Save(ctx context.Context, uid string, items []model.WholesaleItem, total float64) error

	// Delete removes the cart document.
	Delete(ctx context.Context, uid string) error
}

// WholesaleOrderRepository defines data access for the "ordenes_mayorista" collection.
type WholesaleOrderRepository interface {
	// Create inserts a new order snapshot.
	Create(ctx context.Context, o *model.WholesaleOrder) error

	// GetByID retrieves an order by its ID.
	GetByID(ctx context.Context, id string) (*model.WholesaleOrder, error)

	// GetByToken retrieves an order by its payment token.
	GetByToken(ctx context.Context, token string) (*model.WholesaleOrder, error)

	// SetToken stores the gateway token on a pending order.
	SetToken(ctx context.Context, id, token string) error

	// SetStatus records the payment outcome.
	SetStatus(ctx context.Context, id string, estado model.OrderStatus, authorizationCode string) error
}

// TransactionRepository defines data access for the "transactions" collection.
type TransactionRepository interface {
	// Create inserts a pending transaction keyed by buy order.
	Create(ctx context.Context, t *model.Transaction) error

	// GetByToken retrieves a transaction by gateway token.
	GetByToken(ctx context.Context, token string) (*model.Transaction, error)

	// UpdateResult stores the commit outcome.
	UpdateResult(ctx context.Context, t *model.Transaction) error
}

// OrderRepository defines data access for the "ordenes" collection.
type OrderRepository interface {
	// Create inserts an order for a completed payment.
	Create(ctx context.Context, o *model.Order) error

	// GetByBuyOrder retrieves orders created for a buy order.
	GetByBuyOrder(ctx context.Context, buyOrder string) ([]model.Order, error)
}
