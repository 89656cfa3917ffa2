package service

import (
	"context"

	"autopartes/internal/model"
	"autopartes/internal/payment"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Popular(ctx context.Context, n int) ([]model.Product, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *model.Product) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) AddImage(ctx context.Context, id, url string) (bool, error) {
	args := m.Called(ctx, id, url)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) UpsertByCodigo(ctx context.Context, products []model.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, uid, hash string) error {
	args := m.Called(ctx, uid, hash)
	return args.Error(0)
}

func (m *MockUserRepository) ListUnvalidatedWholesale(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SetWholesale(ctx context.Context, tx pgx.Tx, uid string, snapshot *model.SolicitudSnapshot) error {
	args := m.Called(ctx, tx, uid, snapshot)
	return args.Error(0)
}

func (m *MockUserRepository) SetSolicitudSnapshot(ctx context.Context, tx pgx.Tx, uid string, snapshot *model.SolicitudSnapshot) error {
	args := m.Called(ctx, tx, uid, snapshot)
	return args.Error(0)
}

// MockSolicitudRepository is a mock implementation of SolicitudRepository.
type MockSolicitudRepository struct {
	mock.Mock
}

func (m *MockSolicitudRepository) Create(ctx context.Context, tx pgx.Tx, s *model.Solicitud) error {
	args := m.Called(ctx, tx, s)
	return args.Error(0)
}

func (m *MockSolicitudRepository) GetByID(ctx context.Context, id string) (*model.Solicitud, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Solicitud), args.Error(1)
}

func (m *MockSolicitudRepository) FindByEmailOrUser(ctx context.Context, email, uid string) (*model.Solicitud, error) {
	args := m.Called(ctx, email, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Solicitud), args.Error(1)
}

func (m *MockSolicitudRepository) FindApprovedForLink(ctx context.Context, email, uid string) (*model.Solicitud, error) {
	args := m.Called(ctx, email, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Solicitud), args.Error(1)
}

func (m *MockSolicitudRepository) ExistsForUser(ctx context.Context, uid string) (bool, error) {
	args := m.Called(ctx, uid)
	return args.Bool(0), args.Error(1)
}

func (m *MockSolicitudRepository) List(ctx context.Context, estado model.SolicitudEstado) ([]model.Solicitud, error) {
	args := m.Called(ctx, estado)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Solicitud), args.Error(1)
}

func (m *MockSolicitudRepository) Update(ctx context.Context, tx pgx.Tx, s *model.Solicitud) error {
	args := m.Called(ctx, tx, s)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, t *model.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByToken(ctx context.Context, token string) (*model.Transaction, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateResult(ctx context.Context, t *model.Transaction) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *model.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByBuyOrder(ctx context.Context, buyOrder string) ([]model.Order, error) {
	args := m.Called(ctx, buyOrder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

// MockWholesaleOrderRepository is a mock implementation of WholesaleOrderRepository.
type MockWholesaleOrderRepository struct {
	mock.Mock
}

func (m *MockWholesaleOrderRepository) Create(ctx context.Context, o *model.WholesaleOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockWholesaleOrderRepository) GetByID(ctx context.Context, id string) (*model.WholesaleOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WholesaleOrder), args.Error(1)
}

func (m *MockWholesaleOrderRepository) GetByToken(ctx context.Context, token string) (*model.WholesaleOrder, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WholesaleOrder), args.Error(1)
}

func (m *MockWholesaleOrderRepository) SetToken(ctx context.Context, id, token string) error {
	args := m.Called(ctx, id, token)
	return args.Error(0)
}

func (m *MockWholesaleOrderRepository) SetStatus(ctx context.Context, id string, estado model.OrderStatus, authorizationCode string) error {
	args := m.Called(ctx, id, estado, authorizationCode)
	return args.Error(0)
}

// MockWholesaleCartRepository is a mock implementation of WholesaleCartRepository.
type MockWholesaleCartRepository struct {
	mock.Mock
}

func (m *MockWholesaleCartRepository) Get(ctx context.Context, uid string) ([]model.WholesaleItem, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WholesaleItem), args.Error(1)
}

func (m *MockWholesaleCartRepository) Save(ctx context.Context, uid string, items []model.WholesaleItem, total float64) error {
	args := m.Called(ctx, uid, items, total)
	return args.Error(0)
}

func (m *MockWholesaleCartRepository) Delete(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateTransaction(ctx context.Context, req payment.CreateRequest) (*payment.CreateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreateResponse), args.Error(1)
}

func (m *MockGateway) Commit(ctx context.Context, token string) (*payment.CommitResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CommitResponse), args.Error(1)
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

// MockTransactor is a mock implementation of Transactor.
type MockTransactor struct {
	mock.Mock
}

func (m *MockTransactor) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
