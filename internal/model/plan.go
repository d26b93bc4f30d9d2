package model

import "github.com/shopspring/decimal"

// Plan is a purchasable coaching package with its authoritative price.
type Plan struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Currency string
}

// PlanResponse is one entry of GET /plans.
type PlanResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

// PlanListResponse is the API response for GET /plans.
type PlanListResponse struct {
	Version string         `json:"version"`
	Plans   []PlanResponse `json:"plans"`
}
