package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/checkout-service/internal/model"
)

// LeadRepository provides data access for contact leads.
type LeadRepository struct {
	pool PoolInterface
}

// NewLeadRepository creates a new LeadRepository with the given pool.
func NewLeadRepository(pool *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// NewLeadRepositoryWithPool creates a LeadRepository with a custom pool interface.
// This is primarily used for testing.
func NewLeadRepositoryWithPool(pool PoolInterface) *LeadRepository {
	return &LeadRepository{pool: pool}
}

// Insert appends a lead. Leads are never deduplicated.
func (r *LeadRepository) Insert(ctx context.Context, lead *model.Lead) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO leads (id, name, email, phone, message, source, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.Message, lead.Source, lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}
