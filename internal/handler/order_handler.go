package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/checkout-service/internal/catalog"
	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/internal/service"
)

// OrderServiceInterface defines the interface for order creation.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error)
}

// OrderHandler handles HTTP requests for order creation.
type OrderHandler struct {
	service   OrderServiceInterface
	validator *validator.Validate
}

// NewOrderHandler creates a new OrderHandler with the given service and validator.
func NewOrderHandler(svc OrderServiceInterface, v *validator.Validate) *OrderHandler {
	return &OrderHandler{service: svc, validator: v}
}

// CreateOrder handles POST /create-order.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	var req model.CreateOrderRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.CreateOrder(c.UserContext(), &req)
	if err != nil {
		return h.orderError(c, &req, err)
	}

	log.Info().
		Str("request_id", requestID(c)).
		Str("order_id", resp.OrderID).
		Str("plan_id", req.PlanID).
		Float64("amount", resp.Amount).
		Bool("coupon_applied", resp.CouponApplied).
		Msg("order created")

	return c.JSON(resp)
}

func (h *OrderHandler) orderError(c *fiber.Ctx, req *model.CreateOrderRequest, err error) error {
	planID := strings.TrimSpace(req.PlanID)

	switch {
	case errors.Is(err, catalog.ErrInvalidPlan):
		log.Warn().Str("request_id", requestID(c)).Str("plan_id", planID).Msg("order rejected: invalid plan")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid planId: " + planID + "."})
	case errors.Is(err, service.ErrUnsupportedCurrency):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	case errors.Is(err, service.ErrGatewayNotConfigured):
		log.Error().Str("request_id", requestID(c)).Msg("razorpay credentials missing")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server Configuration Error"})
	case errors.Is(err, service.ErrGateway):
		log.Error().Err(err).Str("request_id", requestID(c)).Str("plan_id", planID).Msg("razorpay order creation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Razorpay API error: " + gatewayDetail(err)})
	case errors.Is(err, service.ErrCouponLookup):
		log.Error().Err(err).Str("request_id", requestID(c)).Str("plan_id", planID).Msg("coupon lookup failed during order creation")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Order Creation Failed: coupon could not be verified"})
	default:
		log.Error().Err(err).Str("request_id", requestID(c)).Str("plan_id", planID).Msg("order creation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Order Creation Failed"})
	}
}

// gatewayDetail extracts what the gateway said without exposing transport internals.
func gatewayDetail(err error) string {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Description != "" {
			return apiErr.Description
		}
		return apiErr.Body
	}
	return "request failed"
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.Get(fiber.HeaderXRequestID)
}
