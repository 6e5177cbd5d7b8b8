// Package apperr holds the error types surfaced to API callers.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ValidationError reports bad user input. The caller can re-prompt.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SelectionIncompleteError reports an underspecified routing selection
type SelectionIncompleteError struct {
	Reason string
}

func (e *SelectionIncompleteError) Error() string { return e.Reason }

func SelectionIncomplete(reason string) error {
	return &SelectionIncompleteError{Reason: reason}
}

// InvalidSkipTargetError reports a skip target that breaks step ordering
type InvalidSkipTargetError struct {
	SkipTo int
	Reason string
}

func (e *InvalidSkipTargetError) Error() string {
	return fmt.Sprintf("cannot skip to step %d: %s", e.SkipTo, e.Reason)
}

// SubmissionFailedError wraps any failure during the final process submission
type SubmissionFailedError struct {
	Reason string
	Err    error
}

func (e *SubmissionFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submission failed: %s: %v", e.Reason, e.Err)
	}
	return "submission failed: " + e.Reason
}

func (e *SubmissionFailedError) Unwrap() error { return e.Err }

func SubmissionFailed(reason string, err error) error {
	return &SubmissionFailedError{Reason: reason, Err: err}
}

// ConflictError reports a request that clashes with the current state
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(message string) error {
	return &ConflictError{Message: message}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// Status maps an error to the HTTP status the API answers with
func Status(err error) int {
	var (
		validation *ValidationError
		selection  *SelectionIncompleteError
		skip       *InvalidSkipTargetError
		submission *SubmissionFailedError
		notFound   *NotFoundError
		conflict   *ConflictError
		fiberErr   *fiber.Error
	)
	switch {
	case errors.As(err, &submission):
		// A rejected request keeps its client status; anything else is an upstream failure
		if submission.Err != nil {
			if code := Status(submission.Err); code < fiber.StatusInternalServerError {
				return code
			}
		}
		return fiber.StatusBadGateway
	case errors.As(err, &validation), errors.As(err, &selection), errors.As(err, &skip):
		return fiber.StatusBadRequest
	case errors.As(err, &notFound):
		return fiber.StatusNotFound
	case errors.As(err, &conflict):
		return fiber.StatusConflict
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// Respond writes err as {message} with the mapped status
func Respond(c *fiber.Ctx, err error) error {
	return c.Status(Status(err)).JSON(fiber.Map{
		"message": err.Error(),
	})
}
