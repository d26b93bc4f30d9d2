package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/checkout-service/internal/events"
	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/model"
	"github.com/fairyhunter13/checkout-service/pkg/database"
)

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TransactionSettlerInterface transitions transactions to paid.
type TransactionSettlerInterface interface {
	MarkPaid(ctx context.Context, tx database.TxQuerier, orderID, paymentID string, paidAt int64) error
}

// RedemptionWriterInterface records coupon redemptions at most once per order.
type RedemptionWriterInterface interface {
	InsertIfAbsent(ctx context.Context, tx database.TxQuerier, redemption *model.CouponRedemption) (bool, error)
}

// Outcome is how an authenticated webhook delivery was handled.
// Every outcome is acknowledged to the gateway with 200.
type Outcome int

const (
	// OutcomeSettled means the order was marked paid (or already was).
	OutcomeSettled Outcome = iota
	// OutcomeIgnored means the event type does not settle anything.
	OutcomeIgnored
	// OutcomeMalformed means the body or entity could not be interpreted.
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSettled:
		return "settled"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// SettlementService authenticates gateway webhooks and settles captured payments.
type SettlementService struct {
	pool        TxBeginner
	txns        TransactionSettlerInterface
	redemptions RedemptionWriterInterface
	publisher   events.Publisher
	secret      string
	now         func() time.Time
	newID       func() string
}

// NewSettlementService creates a SettlementService. A nil publisher disables events.
func NewSettlementService(pool *pgxpool.Pool, txns TransactionSettlerInterface, redemptions RedemptionWriterInterface, publisher events.Publisher, webhookSecret string) *SettlementService {
	return NewSettlementServiceWithTxBeginner(pool, txns, redemptions, publisher, webhookSecret, time.Now, uuid.NewString)
}

// NewSettlementServiceWithTxBeginner creates a SettlementService with a custom TxBeginner,
// clock and id generator. Primarily used for testing.
func NewSettlementServiceWithTxBeginner(pool TxBeginner, txns TransactionSettlerInterface, redemptions RedemptionWriterInterface, publisher events.Publisher, webhookSecret string, now func() time.Time, newID func() string) *SettlementService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &SettlementService{
		pool:        pool,
		txns:        txns,
		redemptions: redemptions,
		publisher:   publisher,
		secret:      webhookSecret,
		now:         now,
		newID:       newID,
	}
}

// HandleWebhook verifies the signature over the exact raw body and, for
// payment.captured events, settles the order in a single database transaction.
//
// Returns:
//   - ErrWebhookNotConfigured if no webhook secret is set
//   - ErrInvalidSignature if the signature is missing or does not verify (nothing is parsed)
//   - a wrapped store error if settlement could not commit, so the gateway retries
//
// Redeliveries are safe: the status update is idempotent and the redemption insert
// does nothing when the order already has one.
func (s *SettlementService) HandleWebhook(ctx context.Context, body []byte, signature string) (Outcome, error) {
	if s.secret == "" {
		return OutcomeIgnored, ErrWebhookNotConfigured
	}
	if signature == "" || !gateway.VerifyWebhookSignature(body, signature, s.secret) {
		return OutcomeIgnored, ErrInvalidSignature
	}

	evt, err := gateway.ParseWebhookEvent(body)
	if err != nil {
		log.Warn().Err(err).Msg("webhook body is not valid JSON")
		return OutcomeMalformed, nil
	}
	if evt.Event != gateway.EventPaymentCaptured {
		log.Debug().Str("event", evt.Event).Msg("webhook event ignored")
		return OutcomeIgnored, nil
	}

	orderID := evt.OrderID()
	if orderID == "" {
		log.Warn().Str("event", evt.Event).Msg("webhook entity has no order id")
		return OutcomeMalformed, nil
	}
	paymentID := evt.PaymentID()
	couponCode := model.CanonicalCouponCode(evt.Note(gateway.NoteCouponCode))

	redeemed, err := s.settle(ctx, orderID, paymentID, couponCode)
	if err != nil {
		return OutcomeIgnored, err
	}

	log.Info().
		Str("order_id", orderID).
		Str("payment_id", paymentID).
		Str("coupon_code", couponCode).
		Bool("redeemed", redeemed).
		Msg("payment settled")

	if err := events.PublishJSON(ctx, s.publisher, events.PaymentSettled, events.PaymentSettledEvent{
		EventID:    s.newID(),
		OrderID:    orderID,
		PaymentID:  paymentID,
		CouponCode: couponCode,
		Redeemed:   redeemed,
		SettledAt:  s.now().UTC(),
	}); err != nil {
		log.Warn().Err(err).Str("order_id", orderID).Msg("failed to publish payment.settled")
	}

	return OutcomeSettled, nil
}

func (s *SettlementService) settle(ctx context.Context, orderID, paymentID, couponCode string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	settledAt := s.now().Unix()

	err = s.txns.MarkPaid(ctx, tx, orderID, paymentID, settledAt)
	if err != nil {
		if !errors.Is(err, ErrTransactionNotFound) {
			return false, fmt.Errorf("mark paid %s: %w", orderID, err)
		}
		log.Warn().Str("order_id", orderID).Msg("captured payment for unknown order")
	}

	redeemed := false
	if couponCode != "" {
		redeemed, err = s.redemptions.InsertIfAbsent(ctx, tx, &model.CouponRedemption{
			ID:         s.newID(),
			CouponCode: couponCode,
			OrderID:    orderID,
			RedeemedAt: settledAt,
		})
		if err != nil {
			return false, fmt.Errorf("record redemption %s: %w", orderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit settlement %s: %w", orderID, err)
	}
	return redeemed, nil
}
