package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// jsonFieldNames maps DTO struct fields to the names clients send.
var jsonFieldNames = map[string]string{
	"PlanID":     "planId",
	"Currency":   "currency",
	"CouponCode": "couponCode",
	"Name":       "name",
	"Email":      "email",
	"OrderID":    "razorpay_order_id",
	"PaymentID":  "razorpay_payment_id",
	"Signature":  "razorpay_signature",
}

// formatValidationError converts validator errors to client-facing messages naming the field.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field, ok := jsonFieldNames[fe.Field()]
			if !ok {
				field = fe.Field()
			}

			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
			case "currency":
				return "invalid request: " + field + " must be a three-letter currency code"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
