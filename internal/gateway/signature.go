package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the hex HMAC-SHA256 of payload keyed with secret.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the exact raw body.
// Comparison is constant time; malformed hex never verifies.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	return verify(body, signature, secret)
}

// VerifyPaymentSignature checks the signature the checkout widget returns to the browser,
// HMAC-SHA256(key_secret, order_id + "|" + payment_id).
func VerifyPaymentSignature(orderID, paymentID, signature, keySecret string) bool {
	if orderID == "" || paymentID == "" || signature == "" || keySecret == "" {
		return false
	}
	return verify([]byte(orderID+"|"+paymentID), signature, keySecret)
}

func verify(payload []byte, signature, secret string) bool {
	provided, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(provided, mac.Sum(nil))
}
