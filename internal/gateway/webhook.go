package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EventPaymentCaptured is the only webhook event that settles an order.
const EventPaymentCaptured = "payment.captured"

// SignatureHeader carries the webhook HMAC.
const SignatureHeader = "X-Razorpay-Signature"

// NoteCouponCode and NotePlanID are the order notes written at order creation.
const (
	NoteCouponCode = "coupon_code"
	NotePlanID     = "plan_id"
)

// Notes is the free-form key/value map Razorpay attaches to orders and payments.
// Razorpay serializes empty notes as [] rather than {}.
type Notes map[string]string

// UnmarshalJSON accepts an object, an empty array or null.
func (n *Notes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = nil
		return nil
	}
	if trimmed[0] == '[' {
		var arr []json.RawMessage
		if err := json.Unmarshal(trimmed, &arr); err != nil {
			return err
		}
		if len(arr) > 0 {
			return fmt.Errorf("notes: unexpected non-empty array")
		}
		*n = Notes{}
		return nil
	}

	var raw map[string]any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	out := make(Notes, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	*n = out
	return nil
}

// Entity is the payment or order object inside a webhook payload.
type Entity struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Notes    Notes  `json:"notes"`
}

type entityWrapper struct {
	Entity *Entity `json:"entity"`
}

// WebhookEvent is a parsed webhook delivery.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *entityWrapper `json:"payment"`
		Order   *entityWrapper `json:"order"`
	} `json:"payload"`
	CreatedAt int64 `json:"created_at"`
}

// ParseWebhookEvent decodes a webhook body. Call only after the signature verified.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var evt WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return nil, fmt.Errorf("decode webhook: %w", err)
	}
	return &evt, nil
}

// Payment returns the payment entity, or nil.
func (e *WebhookEvent) Payment() *Entity {
	if e.Payload.Payment == nil {
		return nil
	}
	return e.Payload.Payment.Entity
}

// Order returns the order entity, or nil.
func (e *WebhookEvent) Order() *Entity {
	if e.Payload.Order == nil {
		return nil
	}
	return e.Payload.Order.Entity
}

// OrderID returns the gateway order id the event refers to, or "".
func (e *WebhookEvent) OrderID() string {
	if p := e.Payment(); p != nil && p.OrderID != "" {
		return p.OrderID
	}
	if o := e.Order(); o != nil {
		return o.ID
	}
	return ""
}

// PaymentID returns the captured payment id, or "".
func (e *WebhookEvent) PaymentID() string {
	if p := e.Payment(); p != nil {
		return p.ID
	}
	return ""
}

// Note looks up key in the payment notes, falling back to the order notes.
func (e *WebhookEvent) Note(key string) string {
	if p := e.Payment(); p != nil && p.Notes[key] != "" {
		return p.Notes[key]
	}
	if o := e.Order(); o != nil {
		return o.Notes[key]
	}
	return ""
}
