package service

import "errors"

var (
	// ErrInvalidRequest is returned when request data is nil or incomplete.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnsupportedCurrency is returned when an order asks for a currency the plan is not priced in.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrGatewayNotConfigured is returned when the Razorpay key id or secret is missing.
	ErrGatewayNotConfigured = errors.New("payment gateway not configured")

	// ErrGateway wraps a failed remote order creation.
	ErrGateway = errors.New("gateway order creation failed")

	// ErrCouponLookup wraps an infrastructure failure while re-validating a coupon for an order.
	ErrCouponLookup = errors.New("coupon lookup failed")

	// ErrWebhookNotConfigured is returned when the webhook secret is missing.
	ErrWebhookNotConfigured = errors.New("webhook secret not configured")

	// ErrInvalidSignature is returned when a webhook or checkout signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrDuplicateOrder is returned when a transaction for the gateway order id already exists.
	ErrDuplicateOrder = errors.New("transaction already exists for order")

	// ErrTransactionNotFound is returned when no transaction matches a gateway order id.
	ErrTransactionNotFound = errors.New("transaction not found")
)
