package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fairyhunter13/checkout-service/internal/gateway"
	"github.com/fairyhunter13/checkout-service/internal/model"
)

// TransactionReaderInterface reads transactions by gateway order id.
type TransactionReaderInterface interface {
	GetByOrderID(ctx context.Context, orderID string) (*model.Transaction, error)
}

// PaymentService checks the signature the checkout widget hands back to the browser.
// It is advisory: only the webhook settles orders.
type PaymentService struct {
	txns      TransactionReaderInterface
	keySecret string
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(txns TransactionReaderInterface, keySecret string) *PaymentService {
	return &PaymentService{txns: txns, keySecret: keySecret}
}

// VerifyCheckout verifies HMAC-SHA256(key_secret, order_id|payment_id) and reports the
// transaction's current status. It never changes state.
//
// Returns:
//   - ErrGatewayNotConfigured if the key secret is missing
//   - ErrInvalidSignature if the signature does not verify
func (s *PaymentService) VerifyCheckout(ctx context.Context, orderID, paymentID, signature string) (*model.VerifyPaymentResponse, error) {
	if s.keySecret == "" {
		return nil, ErrGatewayNotConfigured
	}
	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	if !gateway.VerifyPaymentSignature(orderID, paymentID, signature, s.keySecret) {
		return nil, ErrInvalidSignature
	}

	txn, err := s.txns.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return &model.VerifyPaymentResponse{Verified: true}, nil
		}
		return nil, fmt.Errorf("get transaction %s: %w", orderID, err)
	}
	return &model.VerifyPaymentResponse{Verified: true, Status: txn.Status}, nil
}
