package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/checkout-service/internal/content"
	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/pkg/money"
)

// Rejection reasons surfaced to the customer.
const (
	ReasonInvalidCode     = "Invalid coupon code"
	ReasonInactive        = "Coupon is inactive"
	ReasonExpired         = "Coupon has expired"
	ReasonLimitReached    = "Coupon usage limit reached"
	ReasonUnsupportedType = "Unsupported discount type"
)

// MessageCouponApplied accompanies a valid validation response.
const MessageCouponApplied = "Coupon applied successfully"

// Discounts are rounded to paise before clamping.
const discountDecimalPlaces = 2

// RedemptionCounterInterface counts recorded redemptions of a coupon.
type RedemptionCounterInterface interface {
	CountByCode(ctx context.Context, code string) (int, error)
}

// CouponService validates coupon codes against a base amount.
type CouponService struct {
	source      content.CouponSource
	redemptions RedemptionCounterInterface
	now         func() time.Time
}

// NewCouponService creates a CouponService reading definitions from source.
func NewCouponService(source content.CouponSource, redemptions RedemptionCounterInterface) *CouponService {
	return NewCouponServiceWithClock(source, redemptions, time.Now)
}

// NewCouponServiceWithClock creates a CouponService with a custom clock.
// Primarily used for testing.
func NewCouponServiceWithClock(source content.CouponSource, redemptions RedemptionCounterInterface, now func() time.Time) *CouponService {
	return &CouponService{source: source, redemptions: redemptions, now: now}
}

// Validate checks code against baseAmount and computes the discount.
// Business rejections are reported through CouponValidation.Reason with a nil error;
// an error means the content store or the redemption count could not be read.
// Validate never writes.
func (s *CouponService) Validate(ctx context.Context, code string, baseAmount decimal.Decimal) (*model.CouponValidation, error) {
	canonical := model.CanonicalCouponCode(code)
	if canonical == "" {
		return rejected(canonical, ReasonInvalidCode), nil
	}

	coupon, err := s.source.GetCoupon(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("get coupon %s: %w", canonical, err)
	}
	if coupon == nil {
		return rejected(canonical, ReasonInvalidCode), nil
	}
	if !coupon.Active {
		return rejected(canonical, ReasonInactive), nil
	}
	// Valid only while now < expires_at.
	if coupon.ExpiresAt != nil && !s.now().Before(*coupon.ExpiresAt) {
		return rejected(canonical, ReasonExpired), nil
	}

	if coupon.MaxRedemptions != nil {
		count, err := s.redemptions.CountByCode(ctx, coupon.Code)
		if err != nil {
			return nil, fmt.Errorf("count redemptions %s: %w", coupon.Code, err)
		}
		if count >= *coupon.MaxRedemptions {
			return rejected(canonical, ReasonLimitReached), nil
		}
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case model.DiscountPercentage:
		discount = money.Percent(baseAmount, coupon.DiscountValue)
	case model.DiscountFlat:
		discount = coupon.DiscountValue
	default:
		return rejected(canonical, ReasonUnsupportedType), nil
	}

	discount = money.Clamp(discount.Round(discountDecimalPlaces), decimal.Zero, baseAmount)

	return &model.CouponValidation{
		Valid:          true,
		Code:           coupon.Code,
		DiscountAmount: discount,
		FinalAmount:    baseAmount.Sub(discount),
	}, nil
}

func rejected(code, reason string) *model.CouponValidation {
	return &model.CouponValidation{Valid: false, Code: code, Reason: reason}
}
