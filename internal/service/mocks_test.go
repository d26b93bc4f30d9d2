package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/pkg/database"
)

// mockCouponSource is a mock implementation of content.CouponSource.
type mockCouponSource struct {
	getCouponFn func(ctx context.Context, code string) (*model.Coupon, error)
}

func (m *mockCouponSource) GetCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getCouponFn != nil {
		return m.getCouponFn(ctx, code)
	}
	return nil, nil
}

// mockRedemptionCounter is a mock implementation of RedemptionCounterInterface.
type mockRedemptionCounter struct {
	countFn func(ctx context.Context, code string) (int, error)
	calls   int
}

func (m *mockRedemptionCounter) CountByCode(ctx context.Context, code string) (int, error) {
	m.calls++
	if m.countFn != nil {
		return m.countFn(ctx, code)
	}
	return 0, nil
}

// mockPlans is a mock implementation of PlanResolverInterface.
type mockPlans map[string]model.Plan

func (m mockPlans) Resolve(id string) (model.Plan, error) {
	p, ok := m[id]
	if !ok {
		return model.Plan{}, errors.New("invalid plan: " + id)
	}
	return p, nil
}

// mockCouponValidator is a mock implementation of CouponValidatorInterface.
type mockCouponValidator struct {
	validateFn func(ctx context.Context, code string, base decimal.Decimal) (*model.CouponValidation, error)
}

func (m *mockCouponValidator) Validate(ctx context.Context, code string, base decimal.Decimal) (*model.CouponValidation, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, code, base)
	}
	return &model.CouponValidation{Valid: false, Reason: ReasonInvalidCode}, nil
}

// mockGateway is a mock implementation of GatewayInterface.
type mockGateway struct {
	configured    bool
	keyID         string
	createOrderFn func(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
	requests      []gateway.OrderRequest
}

func (m *mockGateway) Configured() bool { return m.configured }

func (m *mockGateway) KeyID() string { return m.keyID }

func (m *mockGateway) CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error) {
	m.requests = append(m.requests, req)
	if m.createOrderFn != nil {
		return m.createOrderFn(ctx, req)
	}
	return &gateway.Order{ID: "order_test", Amount: req.Amount, Currency: req.Currency, Status: "created"}, nil
}

// mockTransactionRepository implements the transaction interfaces used by services.
type mockTransactionRepository struct {
	insertFn       func(ctx context.Context, txn *model.Transaction) error
	getByOrderIDFn func(ctx context.Context, orderID string) (*model.Transaction, error)
	markPaidFn     func(ctx context.Context, tx database.TxQuerier, orderID, paymentID string, paidAt int64) error
	inserted       []*model.Transaction
}

func (m *mockTransactionRepository) Insert(ctx context.Context, txn *model.Transaction) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, txn); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, txn)
	return nil
}

func (m *mockTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	if m.getByOrderIDFn != nil {
		return m.getByOrderIDFn(ctx, orderID)
	}
	return nil, ErrTransactionNotFound
}

func (m *mockTransactionRepository) MarkPaid(ctx context.Context, tx database.TxQuerier, orderID, paymentID string, paidAt int64) error {
	if m.markPaidFn != nil {
		return m.markPaidFn(ctx, tx, orderID, paymentID, paidAt)
	}
	return nil
}

// memoryLedger is an in-memory settlement store: MarkPaid and InsertIfAbsent
// with the same idempotency as the SQL they stand in for.
type memoryLedger struct {
	mu          sync.Mutex
	status      map[string]model.TransactionStatus
	paidAt      map[string]int64
	redemptions map[string]string
}

func newMemoryLedger(orderIDs ...string) *memoryLedger {
	l := &memoryLedger{
		status:      map[string]model.TransactionStatus{},
		paidAt:      map[string]int64{},
		redemptions: map[string]string{},
	}
	for _, id := range orderIDs {
		l.status[id] = model.StatusCreated
	}
	return l
}

func (l *memoryLedger) MarkPaid(_ context.Context, _ database.TxQuerier, orderID, _ string, paidAt int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.status[orderID]; !ok {
		return ErrTransactionNotFound
	}
	l.status[orderID] = model.StatusPaid
	if _, ok := l.paidAt[orderID]; !ok {
		l.paidAt[orderID] = paidAt
	}
	return nil
}

func (l *memoryLedger) InsertIfAbsent(_ context.Context, _ database.TxQuerier, r *model.CouponRedemption) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.redemptions[r.OrderID]; ok {
		return false, nil
	}
	l.redemptions[r.OrderID] = r.CouponCode
	return true, nil
}

// mockRedemptionWriter is a mock implementation of RedemptionWriterInterface.
type mockRedemptionWriter struct {
	insertFn func(ctx context.Context, tx database.TxQuerier, r *model.CouponRedemption) (bool, error)
	calls    []*model.CouponRedemption
}

func (m *mockRedemptionWriter) InsertIfAbsent(ctx context.Context, tx database.TxQuerier, r *model.CouponRedemption) (bool, error) {
	m.calls = append(m.calls, r)
	if m.insertFn != nil {
		return m.insertFn(ctx, tx, r)
	}
	return true, nil
}

// mockLeadRepository is a mock implementation of LeadRepositoryInterface.
type mockLeadRepository struct {
	insertFn func(ctx context.Context, lead *model.Lead) error
	inserted []*model.Lead
}

func (m *mockLeadRepository) Insert(ctx context.Context, lead *model.Lead) error {
	if m.insertFn != nil {
		if err := m.insertFn(ctx, lead); err != nil {
			return err
		}
	}
	m.inserted = append(m.inserted, lead)
	return nil
}

// mockPublisher records published events.
type mockPublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (m *mockPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, routingKey)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

// mockTx is a mock implementation of pgx.Tx for testing transactions.
type mockTx struct {
	commitFn   func(ctx context.Context) error
	rollbackFn func(ctx context.Context) error
	committed  bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("nested transactions not supported")
}

func (m *mockTx) Commit(ctx context.Context) error {
	if m.commitFn != nil {
		return m.commitFn(ctx)
	}
	m.committed = true
	return nil
}

func (m *mockTx) Rollback(ctx context.Context) error {
	if m.rollbackFn != nil {
		return m.rollbackFn(ctx)
	}
	return nil
}

func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return nil
}

func (m *mockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (m *mockTx) Conn() *pgx.Conn {
	return nil
}

// mockTxBeginner is a mock implementation of TxBeginner.
type mockTxBeginner struct {
	beginFn func(ctx context.Context) (pgx.Tx, error)
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginFn != nil {
		return m.beginFn(ctx)
	}
	return &mockTx{}, nil
}

func intPtr(i int) *int {
	return &i
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
