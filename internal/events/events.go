// Package events publishes domain events after state changes commit.
//
// Publishing is best effort: callers log failures and never roll back on them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Routing keys of the published events.
const (
	PaymentSettled = "payment.settled"
	LeadCaptured   = "lead.captured"
)

// PaymentSettledEvent is emitted after a capture webhook commits.
type PaymentSettledEvent struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	PaymentID  string    `json:"payment_id,omitempty"`
	CouponCode string    `json:"coupon_code,omitempty"`
	Redeemed   bool      `json:"redeemed"`
	SettledAt  time.Time `json:"settled_at"`
}

// LeadCapturedEvent is emitted after a lead is stored.
type LeadCapturedEvent struct {
	EventID    string    `json:"event_id"`
	LeadID     string    `json:"lead_id"`
	Source     string    `json:"source"`
	CapturedAt time.Time `json:"captured_at"`
}

// Publisher sends a payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// PublishJSON marshals v and publishes it.
func PublishJSON(ctx context.Context, p Publisher, routingKey string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	return p.Publish(ctx, routingKey, payload)
}

// NopPublisher discards every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) error { return nil }

func (NopPublisher) Close() error { return nil }
