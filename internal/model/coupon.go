package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is how a coupon's DiscountValue is applied.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Coupon is a discount definition owned by the content store.
type Coupon struct {
	Code           string
	Description    string
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	Active         bool
	ExpiresAt      *time.Time
	MaxRedemptions *int
}

// CanonicalCouponCode normalizes a user-entered code for lookup and storage.
func CanonicalCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponValidation is the outcome of validating a code against a base amount.
// Reason is set only when Valid is false.
type CouponValidation struct {
	Valid          bool
	Code           string
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	Reason         string
}

// ValidateCouponRequest is the DTO for POST /validate-coupon.
type ValidateCouponRequest struct {
	CouponCode string   `json:"couponCode"`
	Amount     *float64 `json:"amount"`
}

// ValidateCouponResponse is the API response for POST /validate-coupon.
type ValidateCouponResponse struct {
	Valid          bool     `json:"valid"`
	Code           string   `json:"code,omitempty"`
	DiscountAmount *float64 `json:"discount_amount,omitempty"`
	FinalAmount    *float64 `json:"final_amount,omitempty"`
	Reason         string   `json:"reason,omitempty"`
	Message        string   `json:"message,omitempty"`
}
