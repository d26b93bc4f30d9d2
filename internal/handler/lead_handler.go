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

// LeadServiceInterface defines the interface for lead intake.
type LeadServiceInterface interface {
	Submit(ctx context.Context, req *model.SubmitLeadRequest) (*model.Lead, error)
}

// LeadHandler handles contact form submissions.
type LeadHandler struct {
	service   LeadServiceInterface
	validator *validator.Validate
}

// NewLeadHandler creates a new LeadHandler with the given service and validator.
func NewLeadHandler(svc LeadServiceInterface, v *validator.Validate) *LeadHandler {
	return &LeadHandler{service: svc, validator: v}
}

// SubmitLead handles POST /submit-lead.
func (h *LeadHandler) SubmitLead(c *fiber.Ctx) error {
	var req model.SubmitLeadRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	lead, err := h.service.Submit(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}
		log.Error().Err(err).Str("request_id", requestID(c)).Msg("failed to submit lead")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit lead"})
	}

	log.Info().Str("request_id", requestID(c)).Str("lead_id", lead.ID).Str("source", lead.Source).Msg("lead captured")
	return c.JSON(fiber.Map{"success": true})
}
