package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/checkout-service/internal/model"
)

const couponQuery = `*[_type == "coupon" && code == $code][0]`

// ErrSanityNotConfigured is returned when no project id is set.
var ErrSanityNotConfigured = errors.New("sanity project id not configured")

// SanityConfig configures the Sanity query client.
type SanityConfig struct {
	ProjectID  string
	Dataset    string
	Token      string
	APIVersion string
	Timeout    time.Duration
	// BaseURL overrides https://<project>.apicdn.sanity.io, e.g. for tests.
	BaseURL string
}

// SanityClient resolves coupons through the Sanity GROQ query endpoint.
type SanityClient struct {
	cfg    SanityConfig
	client *http.Client
}

// NewSanityClient creates a Sanity-backed CouponSource.
func NewSanityClient(cfg SanityConfig) *SanityClient {
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v2022-03-07"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &SanityClient{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

type sanityCoupon struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	Active         bool            `json:"active"`
	ExpiresAt      string          `json:"expires_at"`
	MaxRedemptions *int            `json:"max_redemptions"`
}

type sanityResponse struct {
	Result *sanityCoupon `json:"result"`
}

// parseContentTime accepts Sanity datetime (RFC 3339) and date ("2006-01-02") fields.
func parseContentTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid expires_at %q", v)
}

func (c *SanityClient) queryURL(code string) string {
	base := c.cfg.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.apicdn.sanity.io", c.cfg.ProjectID)
	}
	params := url.Values{}
	params.Set("query", couponQuery)
	// GROQ parameters are JSON literals.
	params.Set("$code", strconv.Quote(code))
	return fmt.Sprintf("%s/%s/data/query/%s?%s",
		strings.TrimRight(base, "/"), c.cfg.APIVersion, c.cfg.Dataset, params.Encode())
}

// GetCoupon implements CouponSource.
func (c *SanityClient) GetCoupon(ctx context.Context, code string) (*model.Coupon, error) {
	if c.cfg.ProjectID == "" && c.cfg.BaseURL == "" {
		return nil, ErrSanityNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL(model.CanonicalCouponCode(code)), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sanity request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sanity query failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out sanityResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode sanity response: %w", err)
	}
	if out.Result == nil {
		return nil, nil
	}

	expiresAt, err := parseContentTime(out.Result.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("coupon %s: %w", out.Result.Code, err)
	}
	return couponFields{
		Code:           out.Result.Code,
		Description:    out.Result.Description,
		DiscountType:   out.Result.DiscountType,
		DiscountValue:  out.Result.DiscountValue,
		Active:         out.Result.Active,
		ExpiresAt:      expiresAt,
		MaxRedemptions: out.Result.MaxRedemptions,
	}.toModel(), nil
}
