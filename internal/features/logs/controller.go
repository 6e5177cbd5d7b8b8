package logs

import (
	"fmt"
	"time"

	"go-docflow/internal/common/apperr"

	"github.com/gofiber/fiber/v2"
)

type LogController struct {
	Service LogService
}

func NewLogController(service LogService) *LogController {
	return &LogController{Service: service}
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	filter := Filter{
		Level:     c.Query("level"),
		Username:  c.Query("username"),
		ProcessID: c.Query("processId"),
		Limit:     c.QueryInt("limit", 0),
	}
	for _, p := range []struct {
		key string
		dst **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return Filter{}, apperr.Validation("%s must be an RFC3339 timestamp", p.key)
		}
		*p.dst = &t
	}
	return filter, nil
}

// List godoc
// @Summary      List application logs
// @Tags         logs
// @Produce      json
// @Param        level      query  string  false  "Level"
// @Param        username   query  string  false  "Username"
// @Param        processId  query  string  false  "Process ID"
// @Param        from       query  string  false  "RFC3339 lower bound"
// @Param        to         query  string  false  "RFC3339 upper bound"
// @Param        limit      query  int     false  "Max entries"
// @Success      200  {array}  common_models.Log
// @Router       /api/v1/logs [get]
func (h *LogController) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	entries, err := h.Service.List(c.UserContext(), filter)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(entries)
}

// Export godoc
// @Summary      Export application logs to Excel
// @Tags         logs
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}  file
// @Router       /api/v1/logs/export [get]
func (h *LogController) Export(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	data, filename, err := h.Service.ExportToExcel(c.UserContext(), filter)
	if err != nil {
		return apperr.Respond(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}
