package model

import "github.com/shopspring/decimal"

// TransactionStatus is the settlement state of an order.
type TransactionStatus string

const (
	StatusCreated  TransactionStatus = "created"
	StatusPaid     TransactionStatus = "paid"
	StatusFailed   TransactionStatus = "failed"
	StatusRefunded TransactionStatus = "refunded"
)

// Transaction is the local record of a gateway order.
// CreatedAt and PaidAt are epoch seconds.
type Transaction struct {
	ID         string
	OrderID    string
	PlanID     string
	Amount     decimal.Decimal
	Currency   string
	CouponCode string
	Status     TransactionStatus
	PaymentID  string
	CreatedAt  int64
	PaidAt     *int64
}

// CouponRedemption records that a coupon was used by a captured order.
type CouponRedemption struct {
	ID         string
	CouponCode string
	OrderID    string
	RedeemedAt int64
}

// CreateOrderRequest is the DTO for POST /create-order.
type CreateOrderRequest struct {
	PlanID     string `json:"planId" validate:"required,notblank,max=100"`
	Currency   string `json:"currency" validate:"omitempty,currency"`
	CouponCode string `json:"couponCode" validate:"omitempty,max=64"`
}

// CreateOrderResponse is the API response for POST /create-order.
type CreateOrderResponse struct {
	OrderID       string  `json:"order_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	KeyID         string  `json:"key_id"`
	CouponApplied bool    `json:"coupon_applied"`
}

// VerifyPaymentRequest is the DTO for POST /verify-payment.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required,notblank"`
	PaymentID string `json:"razorpay_payment_id" validate:"required,notblank"`
	Signature string `json:"razorpay_signature" validate:"required,notblank"`
}

// VerifyPaymentResponse is the API response for POST /verify-payment.
type VerifyPaymentResponse struct {
	Verified bool              `json:"verified"`
	Status   TransactionStatus `json:"status,omitempty"`
}
