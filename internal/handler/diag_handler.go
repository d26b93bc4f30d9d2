package handler

import (
	"github.com/gofiber/fiber/v2"
)

// DiagHandler reports which secrets are configured, never their values.
type DiagHandler struct {
	flags func() map[string]bool
}

// NewDiagHandler creates a new DiagHandler over a flag source such as config.Config.Diagnostics.
func NewDiagHandler(flags func() map[string]bool) *DiagHandler {
	return &DiagHandler{flags: flags}
}

// Diag handles GET /_diag.
func (h *DiagHandler) Diag(c *fiber.Ctx) error {
	return c.JSON(h.flags())
}
