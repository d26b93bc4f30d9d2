// Package catalog resolves plan identifiers to authoritative prices.
//
// The catalog is a versioned document injected into the order flow at construction.
// Prices sent by clients are never consulted.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/fairyhunter13/checkout-service/internal/model"
)

// DefaultCurrency is used when a catalog document does not name one.
const DefaultCurrency = "INR"

// ErrInvalidPlan is returned when a plan id is not present in the catalog.
var ErrInvalidPlan = errors.New("invalid plan")

//go:embed default_catalog.yaml
var defaultCatalog []byte

type planDocument struct {
	Title    string          `yaml:"title"`
	Price    decimal.Decimal `yaml:"price"`
	Currency string          `yaml:"currency"`
}

type catalogDocument struct {
	Version  string                  `yaml:"version"`
	Currency string                  `yaml:"currency"`
	Plans    map[string]planDocument `yaml:"plans"`
}

// Catalog is an immutable plan -> price mapping.
type Catalog struct {
	version string
	plans   map[string]model.Plan
}

// New builds a catalog from already-parsed plans.
// Every plan must have a positive price.
func New(version string, plans []model.Plan) (*Catalog, error) {
	c := &Catalog{version: version, plans: make(map[string]model.Plan, len(plans))}
	for _, p := range plans {
		if strings.TrimSpace(p.ID) == "" {
			return nil, errors.New("catalog: plan with empty id")
		}
		if !p.Price.IsPositive() {
			return nil, fmt.Errorf("catalog: plan %s has non-positive price %s", p.ID, p.Price)
		}
		if _, dup := c.plans[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate plan %s", p.ID)
		}
		if p.Currency == "" {
			p.Currency = DefaultCurrency
		}
		c.plans[p.ID] = p
	}
	if len(c.plans) == 0 {
		return nil, errors.New("catalog: no plans defined")
	}
	return c, nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	currency := doc.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	plans := make([]model.Plan, 0, len(doc.Plans))
	for id, p := range doc.Plans {
		planCurrency := p.Currency
		if planCurrency == "" {
			planCurrency = currency
		}
		plans = append(plans, model.Plan{
			ID:       id,
			Title:    p.Title,
			Price:    p.Price,
			Currency: strings.ToUpper(planCurrency),
		})
	}
	return New(doc.Version, plans)
}

// Load reads the catalog at path, or the embedded default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	return Parse(data)
}

// Version identifies the catalog document the prices came from.
func (c *Catalog) Version() string {
	return c.version
}

// Resolve returns the plan for id or ErrInvalidPlan.
func (c *Catalog) Resolve(id string) (model.Plan, error) {
	p, ok := c.plans[id]
	if !ok {
		return model.Plan{}, fmt.Errorf("%w: %s", ErrInvalidPlan, id)
	}
	return p, nil
}

// Plans lists every plan sorted by id.
func (c *Catalog) Plans() []model.Plan {
	out := make([]model.Plan, 0, len(c.plans))
	for _, p := range c.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
