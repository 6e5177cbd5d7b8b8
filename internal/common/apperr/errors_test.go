package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("First step should be upload"), fiber.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("insert: %w", Validation("bad")), fiber.StatusBadRequest},
		{"selection", SelectionIncomplete("Select department and provide branches"), fiber.StatusBadRequest},
		{"skip", &InvalidSkipTargetError{SkipTo: 4, Reason: "beyond ceiling"}, fiber.StatusBadRequest},
		{"submission", SubmissionFailed("store unavailable", errors.New("timeout")), fiber.StatusBadGateway},
		{"submission of invalid draft", SubmissionFailed("invalid request", Validation("no documents")), fiber.StatusBadRequest},
		{"not found", NotFound("process", "p-1"), fiber.StatusNotFound},
		{"conflict", Conflict("already moved"), fiber.StatusConflict},
		{"submission in flight", SubmissionFailed("busy", Conflict("in flight")), fiber.StatusConflict},
		{"submission with bad skip", SubmissionFailed("bad step", &InvalidSkipTargetError{SkipTo: 9}), fiber.StatusBadRequest},
		{"fiber", fiber.NewError(fiber.StatusUnauthorized, "no"), fiber.StatusUnauthorized},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestSubmissionFailedUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := SubmissionFailed("store unavailable", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "submission failed: store unavailable: connection reset", err.Error())
}
