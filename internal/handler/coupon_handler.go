package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/internal/service"
)

// CouponServiceInterface defines the interface for coupon validation.
type CouponServiceInterface interface {
	Validate(ctx context.Context, code string, baseAmount decimal.Decimal) (*model.CouponValidation, error)
}

// CouponHandler handles HTTP requests for coupon validation.
type CouponHandler struct {
	service CouponServiceInterface
}

// NewCouponHandler creates a new CouponHandler with the given service.
func NewCouponHandler(svc CouponServiceInterface) *CouponHandler {
	return &CouponHandler{service: svc}
}

// ValidateCoupon handles POST /validate-coupon.
// Rejections are 200 with valid=false; only store failures are 500.
func (h *CouponHandler) ValidateCoupon(c *fiber.Ctx) error {
	var req model.ValidateCouponRequest

	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.CouponCode) == "" || req.Amount == nil || *req.Amount <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(model.ValidateCouponResponse{Valid: false, Reason: "Missing inputs"})
	}

	result, err := h.service.Validate(c.UserContext(), req.CouponCode, decimal.NewFromFloat(*req.Amount))
	if err != nil {
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("coupon_code", model.CanonicalCouponCode(req.CouponCode)).
			Msg("coupon validation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(model.ValidateCouponResponse{Valid: false, Reason: "Server Error"})
	}

	if !result.Valid {
		return c.JSON(model.ValidateCouponResponse{Valid: false, Reason: result.Reason})
	}

	discount := result.DiscountAmount.InexactFloat64()
	final := result.FinalAmount.InexactFloat64()
	return c.JSON(model.ValidateCouponResponse{
		Valid:          true,
		Code:           result.Code,
		DiscountAmount: &discount,
		FinalAmount:    &final,
		Message:        service.MessageCouponApplied,
	})
}
