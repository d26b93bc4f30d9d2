package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/checkout-service/internal/events"
	"github.com/fairyhunter13/checkout-service/internal/model"
)

// Field limits, in characters.
const (
	maxLeadName    = 100
	maxLeadEmail   = 100
	maxLeadPhone   = 20
	maxLeadMessage = 2000
	maxLeadSource  = 50

	// DefaultLeadSource is stored when the form does not say where it came from.
	DefaultLeadSource = "contact"
)

// LeadRepositoryInterface defines the interface for lead data access.
type LeadRepositoryInterface interface {
	Insert(ctx context.Context, lead *model.Lead) error
}

// LeadService stores contact form submissions.
type LeadService struct {
	repo      LeadRepositoryInterface
	publisher events.Publisher
	now       func() time.Time
	newID     func() string
}

// NewLeadService creates a LeadService. A nil publisher disables events.
func NewLeadService(repo LeadRepositoryInterface, publisher events.Publisher) *LeadService {
	return NewLeadServiceWithClock(repo, publisher, time.Now, uuid.NewString)
}

// NewLeadServiceWithClock creates a LeadService with a custom clock and id generator.
// Primarily used for testing.
func NewLeadServiceWithClock(repo LeadRepositoryInterface, publisher events.Publisher, now func() time.Time, newID func() string) *LeadService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &LeadService{repo: repo, publisher: publisher, now: now, newID: newID}
}

// Submit truncates the fields to their limits and appends the lead.
// Returns ErrInvalidRequest if name or email is blank.
func (s *LeadService) Submit(ctx context.Context, req *model.SubmitLeadRequest) (*model.Lead, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" {
		return nil, ErrInvalidRequest
	}

	source := truncate(strings.TrimSpace(req.Source), maxLeadSource)
	if source == "" {
		source = DefaultLeadSource
	}

	lead := &model.Lead{
		ID:        s.newID(),
		Name:      truncate(name, maxLeadName),
		Email:     truncate(email, maxLeadEmail),
		Phone:     optional(req.Phone, maxLeadPhone),
		Message:   optional(req.Message, maxLeadMessage),
		Source:    source,
		CreatedAt: s.now().Unix(),
	}
	if err := s.repo.Insert(ctx, lead); err != nil {
		return nil, fmt.Errorf("store lead: %w", err)
	}

	if err := events.PublishJSON(ctx, s.publisher, events.LeadCaptured, events.LeadCapturedEvent{
		EventID:    s.newID(),
		LeadID:     lead.ID,
		Source:     lead.Source,
		CapturedAt: time.Unix(lead.CreatedAt, 0).UTC(),
	}); err != nil {
		log.Warn().Err(err).Str("lead_id", lead.ID).Msg("failed to publish lead.captured")
	}
	return lead, nil
}

// truncate cuts s to at most n runes without splitting a character.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func optional(s string, n int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	s = truncate(s, n)
	return &s
}
