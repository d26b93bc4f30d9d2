package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/checkout-service/internal/model"
)

// PlanListerInterface exposes the active price catalog.
type PlanListerInterface interface {
	Version() string
	Plans() []model.Plan
}

// PlansHandler serves the price list.
type PlansHandler struct {
	catalog PlanListerInterface
}

// NewPlansHandler creates a new PlansHandler.
func NewPlansHandler(catalog PlanListerInterface) *PlansHandler {
	return &PlansHandler{catalog: catalog}
}

// List handles GET /plans.
func (h *PlansHandler) List(c *fiber.Ctx) error {
	plans := h.catalog.Plans()
	resp := model.PlanListResponse{
		Version: h.catalog.Version(),
		Plans:   make([]model.PlanResponse, 0, len(plans)),
	}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, model.PlanResponse{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price.InexactFloat64(),
			Currency: p.Currency,
		})
	}
	return c.JSON(resp)
}
