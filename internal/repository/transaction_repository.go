package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/internal/service"
	"github.com/fairyhunter13/checkout-service/pkg/database"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// TransactionRepository provides data access for gateway order transactions.
type TransactionRepository struct {
	pool PoolInterface
}

// NewTransactionRepository creates a new TransactionRepository with the given pool.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// NewTransactionRepositoryWithPool creates a TransactionRepository with a custom pool interface.
// This is primarily used for testing.
func NewTransactionRepositoryWithPool(pool PoolInterface) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Insert records a freshly created order in the created state.
// Returns service.ErrDuplicateOrder if the order id is already recorded.
func (r *TransactionRepository) Insert(ctx context.Context, txn *model.Transaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, order_id, plan_id, amount, currency, coupon_code, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID, txn.OrderID, txn.PlanID, txn.Amount.StringFixed(2), txn.Currency,
		txn.CouponCode, string(txn.Status), txn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return service.ErrDuplicateOrder
		}
		return fmt.Errorf("insert transaction %s: %w", txn.OrderID, err)
	}
	return nil
}

// GetByOrderID retrieves a transaction by gateway order id.
// Returns service.ErrTransactionNotFound if none exists.
func (r *TransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*model.Transaction, error) {
	query := `SELECT id, order_id, plan_id, amount::text, currency, coupon_code, status, payment_id, created_at, paid_at
		FROM transactions WHERE order_id = $1`

	var (
		txn    model.Transaction
		amount string
		status string
	)
	err := r.pool.QueryRow(ctx, query, orderID).Scan(
		&txn.ID,
		&txn.OrderID,
		&txn.PlanID,
		&amount,
		&txn.Currency,
		&txn.CouponCode,
		&status,
		&txn.PaymentID,
		&txn.CreatedAt,
		&txn.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction %s: %w", orderID, err)
	}

	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("parse amount of %s: %w", orderID, err)
	}
	txn.Status = model.TransactionStatus(status)
	return &txn, nil
}

// MarkPaid moves a transaction to paid within the settlement transaction.
// Repeated calls keep the first payment id and paid_at.
// Returns service.ErrTransactionNotFound if no row matches orderID.
func (r *TransactionRepository) MarkPaid(ctx context.Context, tx database.TxQuerier, orderID, paymentID string, paidAt int64) error {
	query := `UPDATE transactions
		SET status = 'paid',
		    payment_id = CASE WHEN payment_id = '' THEN $2 ELSE payment_id END,
		    paid_at = COALESCE(paid_at, $3)
		WHERE order_id = $1`

	tag, err := tx.Exec(ctx, query, orderID, paymentID, paidAt)
	if err != nil {
		return fmt.Errorf("mark transaction %s paid: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrTransactionNotFound
	}
	return nil
}
