// Package gateway talks to the Razorpay REST API and verifies its signatures.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.razorpay.com/v1"
	defaultTimeout = 10 * time.Second
)

// ErrNotConfigured is returned when the key id or key secret is missing.
var ErrNotConfigured = errors.New("razorpay credentials not configured")

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Body        string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("razorpay API error (%d): %s: %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("razorpay API error (%d): %s", e.StatusCode, e.Body)
}

type apiErrorBody struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// OrderRequest is the body of POST /orders. Amount is in minor units.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's view of a created order.
type Order struct {
	ID        string `json:"id"`
	Entity    string `json:"entity"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	Notes     Notes  `json:"notes"`
	CreatedAt int64  `json:"created_at"`
}

// Client is a minimal Razorpay REST client authenticated with basic auth.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// NewClient creates a Razorpay client.
func NewClient(keyID, keySecret string, opts ...Option) *Client {
	c := &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// KeyID returns the public key id handed to the checkout widget.
func (c *Client) KeyID() string {
	return c.keyID
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

// CreateOrder creates a remote order. Any non-2xx status is returned as *APIError.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read razorpay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		var parsed apiErrorBody
		if json.Unmarshal(respBody, &parsed) == nil {
			apiErr.Code = parsed.Error.Code
			apiErr.Description = parsed.Error.Description
		}
		return nil, apiErr
	}

	var order Order
	if err := json.Unmarshal(respBody, &order); err != nil {
		return nil, fmt.Errorf("decode razorpay order: %w", err)
	}
	if order.ID == "" {
		return nil, errors.New("razorpay order response missing id")
	}
	return &order, nil
}
