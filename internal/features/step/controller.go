package step

import (
	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/workflow"
	"go-docflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type StepController struct {
	Workflows workflow.WorkflowService
}

func NewStepController(workflows workflow.WorkflowService) *StepController {
	return &StepController{Workflows: workflows}
}

// NextStepRequest takes either a draft step list or a department whose stored workflow is used
type NextStepRequest struct {
	Steps        []workflow.Step `json:"steps"`
	DepartmentID string          `json:"departmentId"`
	Query
}

// NextStep godoc
// @Summary      Compute the next step for the requester
// @Tags         steps
// @Accept       json
// @Produce      json
// @Param        body  body  NextStepRequest  true  "Workflow and position"
// @Success      200  {object}  Advance
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/steps/next [post]
func (h *StepController) NextStep(c *fiber.Ctx) error {
	s, err := middleware.RequireSession(c)
	if err != nil {
		return err
	}

	var req NextStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	steps := req.Steps
	if len(steps) == 0 {
		if req.DepartmentID == "" {
			return apperr.Respond(c, apperr.Validation("Provide steps or departmentId"))
		}
		wf, err := h.Workflows.GetWorkflow(c.UserContext(), req.DepartmentID)
		if err != nil {
			return apperr.Respond(c, err)
		}
		steps = wf.Steps
	}

	next, err := ComputeNextStep(steps, s.Username, req.Query)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(next)
}
