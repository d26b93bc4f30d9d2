package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "checkout-service"

// Pinger is an interface for health check ping operations.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pool Pinger
	now  func() time.Time
}

// NewHealthHandler creates a new HealthHandler with the given database pool.
// A nil pool reports the database as "unknown".
func NewHealthHandler(pool Pinger) *HealthHandler {
	return &HealthHandler{pool: pool, now: time.Now}
}

// Check reports liveness. It always answers 200; database reachability is a field
// ("connected", "disconnected" or "unknown") so load balancers keep routing webhooks.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	dbStatus := "unknown"
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			log.Error().Err(err).Msg("health check: database unreachable")
			dbStatus = "disconnected"
		} else {
			dbStatus = "connected"
		}
	}

	return c.JSON(fiber.Map{
		"status":    "ok",
		"service":   ServiceName,
		"database":  dbStatus,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
