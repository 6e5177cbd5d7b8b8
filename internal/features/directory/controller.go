package directory

import (
	"go-docflow/internal/common/apperr"
	"go-docflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DirectoryController struct {
	Service DirectoryService
}

func NewDirectoryController(service DirectoryService) *DirectoryController {
	return &DirectoryController{Service: service}
}

// ListBranches godoc
// @Summary      List branches
// @Description  Every branch with its departments
// @Tags         directory
// @Produce      json
// @Success      200  {array}   Branch
// @Router       /api/v1/branches [get]
func (h *DirectoryController) ListBranches(c *fiber.Ctx) error {
	branches, err := h.Service.ListBranches(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(branches)
}

// ListInitiableDepartments godoc
// @Summary      Departments the requester can initiate a process from
// @Tags         directory
// @Produce      json
// @Success      200  {array}   Department
// @Router       /api/v1/departments/initiable [get]
func (h *DirectoryController) ListInitiableDepartments(c *fiber.Ctx) error {
	s, err := middleware.RequireSession(c)
	if err != nil {
		return err
	}
	departments, err := h.Service.ListDepartmentsInitiableBy(c.UserContext(), s.Username)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(departments)
}

// ListRoles godoc
// @Summary      List roles, optionally for one branch
// @Tags         directory
// @Param        branchId  query  string  false  "Branch ID"
// @Success      200  {array}   Role
// @Router       /api/v1/roles [get]
func (h *DirectoryController) ListRoles(c *fiber.Ctx) error {
	roles, err := h.Service.ListRoles(c.UserContext(), c.Query("branchId"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(roles)
}
