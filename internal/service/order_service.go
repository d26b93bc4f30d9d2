package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/pkg/money"
)

// PlanResolverInterface resolves a plan id to its authoritative price.
type PlanResolverInterface interface {
	Resolve(id string) (model.Plan, error)
}

// CouponValidatorInterface validates a coupon against a base amount.
type CouponValidatorInterface interface {
	Validate(ctx context.Context, code string, baseAmount decimal.Decimal) (*model.CouponValidation, error)
}

// GatewayInterface creates remote orders on the payment gateway.
type GatewayInterface interface {
	Configured() bool
	KeyID() string
	CreateOrder(ctx context.Context, req gateway.OrderRequest) (*gateway.Order, error)
}

// TransactionWriterInterface records newly created orders.
type TransactionWriterInterface interface {
	Insert(ctx context.Context, txn *model.Transaction) error
}

// OrderService turns a plan selection into a gateway order and a pending transaction.
type OrderService struct {
	plans   PlanResolverInterface
	coupons CouponValidatorInterface
	gateway GatewayInterface
	txns    TransactionWriterInterface
	now     func() time.Time
	newID   func() string
}

// NewOrderService creates a new OrderService.
func NewOrderService(plans PlanResolverInterface, coupons CouponValidatorInterface, gw GatewayInterface, txns TransactionWriterInterface) *OrderService {
	return NewOrderServiceWithClock(plans, coupons, gw, txns, time.Now, uuid.NewString)
}

// NewOrderServiceWithClock creates an OrderService with a custom clock and id generator.
// Primarily used for testing.
func NewOrderServiceWithClock(plans PlanResolverInterface, coupons CouponValidatorInterface, gw GatewayInterface, txns TransactionWriterInterface, now func() time.Time, newID func() string) *OrderService {
	return &OrderService{
		plans:   plans,
		coupons: coupons,
		gateway: gw,
		txns:    txns,
		now:     now,
		newID:   newID,
	}
}

// CreateOrder prices the plan from the catalog, re-validates any coupon, creates the
// gateway order for the final amount and records a created transaction.
//
// Returns:
//   - catalog.ErrInvalidPlan if the plan id is unknown (the gateway is not called)
//   - ErrUnsupportedCurrency if the requested currency differs from the plan's
//   - ErrGatewayNotConfigured if gateway credentials are missing
//   - ErrCouponLookup if the coupon could not be checked
//   - ErrGateway if the gateway rejected the order (no transaction is recorded)
//
// An invalid coupon is not an error: the order proceeds at full price.
func (s *OrderService) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.CreateOrderResponse, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	plan, err := s.plans.Resolve(strings.TrimSpace(req.PlanID))
	if err != nil {
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = plan.Currency
	}
	if currency != plan.Currency {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
	}

	if !s.gateway.Configured() {
		return nil, ErrGatewayNotConfigured
	}

	finalAmount := plan.Price
	appliedCoupon := ""
	if code := model.CanonicalCouponCode(req.CouponCode); code != "" {
		validation, err := s.coupons.Validate(ctx, code, plan.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCouponLookup, err)
		}
		if validation.Valid {
			finalAmount = validation.FinalAmount
			appliedCoupon = validation.Code
		} else {
			log.Info().
				Str("plan_id", plan.ID).
				Str("coupon_code", code).
				Str("reason", validation.Reason).
				Msg("coupon not applied, charging full price")
		}
	}

	now := s.now()
	order, err := s.gateway.CreateOrder(ctx, gateway.OrderRequest{
		Amount:   money.ToMinorUnits(finalAmount),
		Currency: currency,
		Receipt:  fmt.Sprintf("txn_%d", now.UnixMilli()),
		Notes: map[string]string{
			gateway.NoteCouponCode: appliedCoupon,
			gateway.NotePlanID:     plan.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}

	if order.Currency != "" {
		currency = order.Currency
	}

	txn := &model.Transaction{
		ID:         s.newID(),
		OrderID:    order.ID,
		PlanID:     plan.ID,
		Amount:     finalAmount,
		Currency:   currency,
		CouponCode: appliedCoupon,
		Status:     model.StatusCreated,
		CreatedAt:  now.Unix(),
	}
	if err := s.txns.Insert(ctx, txn); err != nil {
		if errors.Is(err, ErrDuplicateOrder) {
			return nil, fmt.Errorf("gateway returned reused order id %s: %w", order.ID, err)
		}
		return nil, fmt.Errorf("record transaction %s: %w", order.ID, err)
	}

	return &model.CreateOrderResponse{
		OrderID:       order.ID,
		Amount:        finalAmount.InexactFloat64(),
		Currency:      currency,
		KeyID:         s.gateway.KeyID(),
		CouponApplied: appliedCoupon != "",
	}, nil
}
