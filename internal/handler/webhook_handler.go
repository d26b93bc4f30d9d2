package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/service"
)

// SettlementServiceInterface defines the interface for webhook settlement.
type SettlementServiceInterface interface {
	HandleWebhook(ctx context.Context, body []byte, signature string) (service.Outcome, error)
}

// WebhookHandler handles gateway webhook deliveries.
type WebhookHandler struct {
	service SettlementServiceInterface
}

// NewWebhookHandler creates a new WebhookHandler with the given service.
func NewWebhookHandler(svc SettlementServiceInterface) *WebhookHandler {
	return &WebhookHandler{service: svc}
}

// Razorpay handles POST /razorpay-webhook. The body is verified byte for byte,
// so it is never parsed before the signature check.
func (h *WebhookHandler) Razorpay(c *fiber.Ctx) error {
	// fasthttp reuses the request buffer after the handler returns.
	body := append([]byte(nil), c.Body()...)
	signature := c.Get(gateway.SignatureHeader)

	outcome, err := h.service.HandleWebhook(c.UserContext(), body, signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignature):
			log.Warn().Str("request_id", requestID(c)).Bool("signature_present", signature != "").Msg("webhook signature rejected")
			return c.Status(fiber.StatusUnauthorized).SendString("Invalid Signature")
		case errors.Is(err, service.ErrWebhookNotConfigured):
			log.Error().Str("request_id", requestID(c)).Msg("webhook secret missing")
			return c.Status(fiber.StatusInternalServerError).SendString("Server Configuration Error")
		default:
			log.Error().Err(err).Str("request_id", requestID(c)).Msg("webhook settlement failed")
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Error")
		}
	}

	log.Debug().Str("request_id", requestID(c)).Str("outcome", outcome.String()).Msg("webhook acknowledged")
	return c.Status(fiber.StatusOK).SendString("OK")
}
