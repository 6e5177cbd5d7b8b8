package routing

import (
	"go-docflow/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type RoutingController struct {
	Service RoutingService
}

func NewRoutingController(service RoutingService) *RoutingController {
	return &RoutingController{Service: service}
}

// ResolveResponse echoes the process flags derived from the selection
type ResolveResponse struct {
	Routing
	IsInterBranchProcess bool `json:"isInterBranchProcess"`
	IsHeadofficeIncluded bool `json:"isHeadofficeIncluded"`
}

// Resolve godoc
// @Summary      Resolve workflow and connectors for a routing selection
// @Tags         routing
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "Selection, tagged by mode"
// @Success      200  {object}  ResolveResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/routing/resolve [post]
func (h *RoutingController) Resolve(c *fiber.Ctx) error {
	var envelope SelectionEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		return apperr.Respond(c, err)
	}

	routing, err := h.Service.ResolveRouting(c.UserContext(), envelope.Selection)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.JSON(ResolveResponse{
		Routing:              routing,
		IsInterBranchProcess: envelope.Selection.IsInterBranch(),
		IsHeadofficeIncluded: envelope.Selection.IncludesHeadoffice(),
	})
}
