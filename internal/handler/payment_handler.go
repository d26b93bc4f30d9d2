package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/internal/service"
)

// PaymentServiceInterface defines the interface for checkout signature checks.
type PaymentServiceInterface interface {
	VerifyCheckout(ctx context.Context, orderID, paymentID, signature string) (*model.VerifyPaymentResponse, error)
}

// PaymentHandler handles checkout callback verification.
type PaymentHandler struct {
	service   PaymentServiceInterface
	validator *validator.Validate
}

// NewPaymentHandler creates a new PaymentHandler with the given service and validator.
func NewPaymentHandler(svc PaymentServiceInterface, v *validator.Validate) *PaymentHandler {
	return &PaymentHandler{service: svc, validator: v}
}

// VerifyPayment handles POST /verify-payment. It reports, it never settles.
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req model.VerifyPaymentRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"verified": false, "error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"verified": false, "error": formatValidationError(err)})
	}

	resp, err := h.service.VerifyCheckout(c.UserContext(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			log.Warn().Str("request_id", requestID(c)).Str("order_id", req.OrderID).Msg("checkout signature rejected")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"verified": false, "error": "invalid signature"})
		case errors.Is(err, service.ErrGatewayNotConfigured):
			log.Error().Str("request_id", requestID(c)).Msg("razorpay key secret missing")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"verified": false, "error": "Server Configuration Error"})
		default:
			log.Error().Err(err).Str("request_id", requestID(c)).Str("order_id", req.OrderID).Msg("checkout verification failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"verified": false, "error": "internal server error"})
		}
	}

	return c.JSON(resp)
}
