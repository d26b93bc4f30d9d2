package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/pkg/database"
)

// RedemptionRepository provides data access for coupon redemptions.
type RedemptionRepository struct {
	pool PoolInterface
}

// NewRedemptionRepository creates a new RedemptionRepository with the given pool.
func NewRedemptionRepository(pool *pgxpool.Pool) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// NewRedemptionRepositoryWithPool creates a RedemptionRepository with a custom pool interface.
// This is primarily used for testing.
func NewRedemptionRepositoryWithPool(pool PoolInterface) *RedemptionRepository {
	return &RedemptionRepository{pool: pool}
}

// CountByCode returns how many orders have redeemed the coupon.
func (r *RedemptionRepository) CountByCode(ctx context.Context, code string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM coupon_redemptions WHERE coupon_code = $1`, code,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count redemptions for %s: %w", code, err)
	}
	return count, nil
}

// InsertIfAbsent records a redemption unless one already exists for the order.
// Returns false when the order was already redeemed.
func (r *RedemptionRepository) InsertIfAbsent(ctx context.Context, tx database.TxQuerier, redemption *model.CouponRedemption) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO coupon_redemptions (id, coupon_code, order_id, redeemed_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (order_id) DO NOTHING`,
		redemption.ID, redemption.CouponCode, redemption.OrderID, redemption.RedeemedAt)
	if err != nil {
		// Another unique index raced us; the redemption is already recorded.
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("insert redemption for %s: %w", redemption.OrderID, err)
	}
	return tag.RowsAffected() == 1, nil
}
