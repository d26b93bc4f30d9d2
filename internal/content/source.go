// Package content reads coupon definitions from the content store.
//
// Coupons are authored outside this service. Two backends are supported: the Sanity
// query API and a MongoDB collection mirror. Both are read-only here.
package content

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/checkout-service/internal/model"
)

// CouponSource looks up coupons by canonical code.
// A missing coupon is (nil, nil); errors are reserved for store failures.
type CouponSource interface {
	GetCoupon(ctx context.Context, code string) (*model.Coupon, error)
}

// couponFields is the backend-neutral shape both stores decode into.
type couponFields struct {
	Code           string
	Description    string
	DiscountType   string
	DiscountValue  decimal.Decimal
	Active         bool
	ExpiresAt      *time.Time
	MaxRedemptions *int
}

func (f couponFields) toModel() *model.Coupon {
	c := &model.Coupon{
		Code:          model.CanonicalCouponCode(f.Code),
		Description:   f.Description,
		DiscountType:  model.DiscountType(f.DiscountType),
		DiscountValue: f.DiscountValue,
		Active:        f.Active,
		ExpiresAt:     f.ExpiresAt,
	}
	// Zero or negative caps mean "no cap".
	if f.MaxRedemptions != nil && *f.MaxRedemptions > 0 {
		limit := *f.MaxRedemptions
		c.MaxRedemptions = &limit
	}
	if c.DiscountValue.IsNegative() {
		c.DiscountValue = decimal.Zero
	}
	return c
}
