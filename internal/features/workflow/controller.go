package workflow

import (
	"go-docflow/internal/common/apperr"
	"go-docflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{Service: service}
}

type SaveWorkflowRequest struct {
	Steps []Step `json:"steps"`
}

type InsertStepRequest struct {
	Steps   []Step `json:"steps"`
	AtIndex int    `json:"atIndex"`
	Step    Step   `json:"step"`
}

type RemoveStepRequest struct {
	Steps []Step `json:"steps"`
	Index int    `json:"index"`
}

type DraftResponse struct {
	Steps []Step `json:"steps"`
}

// GetWorkflow godoc
// @Summary      Get a department's workflow
// @Tags         workflows
// @Produce      json
// @Param        departmentId  path  string  true  "Department ID"
// @Success      200  {object}  Workflow
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/workflows/{departmentId} [get]
func (h *WorkflowController) GetWorkflow(c *fiber.Ctx) error {
	wf, err := h.Service.GetWorkflow(c.UserContext(), c.Params("departmentId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(wf)
}

// SaveWorkflow godoc
// @Summary      Replace a department's workflow
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        departmentId  path  string               true  "Department ID"
// @Param        body          body  SaveWorkflowRequest  true  "Steps"
// @Success      200  {object}  Workflow
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/workflows/{departmentId} [put]
func (h *WorkflowController) SaveWorkflow(c *fiber.Ctx) error {
	s, err := middleware.RequireSession(c)
	if err != nil {
		return err
	}

	var req SaveWorkflowRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	wf, err := h.Service.SaveWorkflow(c.UserContext(), c.Params("departmentId"), req.Steps, s.Username)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(wf)
}

// InsertDraftStep godoc
// @Summary      Insert a step into a draft workflow
// @Description  Stateless. Returns the renumbered draft.
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        body  body  InsertStepRequest  true  "Draft and step"
// @Success      200  {object}  DraftResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/workflows/draft/insert [post]
func (h *WorkflowController) InsertDraftStep(c *fiber.Ctx) error {
	var req InsertStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	steps, err := InsertStep(req.Steps, req.AtIndex, req.Step)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(DraftResponse{Steps: steps})
}

// RemoveDraftStep godoc
// @Summary      Remove a step from a draft workflow
// @Tags         workflows
// @Accept       json
// @Produce      json
// @Param        body  body  RemoveStepRequest  true  "Draft and index"
// @Success      200  {object}  DraftResponse
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/workflows/draft/remove [post]
func (h *WorkflowController) RemoveDraftStep(c *fiber.Ctx) error {
	var req RemoveStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	steps, err := RemoveStep(req.Steps, req.Index)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(DraftResponse{Steps: steps})
}
