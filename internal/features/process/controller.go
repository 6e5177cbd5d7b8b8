package process

import (
	"go-docflow/internal/common/apperr"
	"go-docflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProcessController struct {
	Service ProcessService
}

func NewProcessController(service ProcessService) *ProcessController {
	return &ProcessController{Service: service}
}

type CreateResponse struct {
	Message   string `json:"message"`
	ProcessID string `json:"processId"`
}

// Create godoc
// @Summary      Submit a process initiation request
// @Tags         processes
// @Accept       json
// @Produce      json
// @Param        body  body  ProcessInitiationRequest  true  "Initiation request"
// @Success      201  {object}  CreateResponse
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/processes [post]
func (h *ProcessController) Create(c *fiber.Ctx) error {
	s, err := middleware.RequireSession(c)
	if err != nil {
		return err
	}

	var req ProcessInitiationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
	}

	id, err := h.Service.Submit(c.UserContext(), s, req)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(CreateResponse{
		Message:   "Process initiated successfully",
		ProcessID: id,
	})
}

// Get godoc
// @Summary      Get a process
// @Tags         processes
// @Produce      json
// @Param        id   path      string  true  "Process ID"
// @Success      200  {object}  Process
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/processes/{id} [get]
func (h *ProcessController) Get(c *fiber.Ctx) error {
	p, err := h.Service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

// List godoc
// @Summary      List processes a department initiated or connects to
// @Tags         processes
// @Produce      json
// @Param        department  query  string  false  "Department ID, defaults to the caller's"
// @Success      200  {array}   Process
// @Router       /api/v1/processes [get]
func (h *ProcessController) List(c *fiber.Ctx) error {
	s, err := middleware.RequireSession(c)
	if err != nil {
		return err
	}

	processes, err := h.Service.ListByDepartment(c.UserContext(), c.Query("department", s.Department))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(processes)
}

// Advance godoc
// @Summary      Move a process past its current step
// @Tags         processes
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Process ID"
// @Param        body  body  AdvanceRequest  false "Optional skip target"
// @Success      200  {object}  Process
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/processes/{id}/advance [post]
func (h *ProcessController) Advance(c *fiber.Ctx) error {
	s, err := middleware.RequireSession(c)
	if err != nil {
		return err
	}

	var req AdvanceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid request body"})
		}
	}

	p, err := h.Service.Advance(c.UserContext(), s, c.Params("id"), req)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}
