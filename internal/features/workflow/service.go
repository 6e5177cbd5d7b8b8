package workflow

import (
	"context"
	"errors"

	"go-docflow/internal/common/apperr"

	"go.uber.org/zap"
)

// Invalidator is notified after a definition changes so cached reference data is refreshed
type Invalidator interface {
	Invalidate()
}

type WorkflowService interface {
	GetWorkflow(ctx context.Context, departmentID string) (*Workflow, error)
	GetWorkflowByID(ctx context.Context, id string) (*Workflow, error)
	SaveWorkflow(ctx context.Context, departmentID string, steps []Step, updatedBy string) (*Workflow, error)
}

type WorkflowServiceImpl struct {
	Repo        WorkflowRepository
	Invalidator Invalidator
	Logger      *zap.Logger
}

func NewWorkflowService(repo WorkflowRepository, invalidator Invalidator, logger *zap.Logger) WorkflowService {
	return &WorkflowServiceImpl{
		Repo:        repo,
		Invalidator: invalidator,
		Logger:      logger,
	}
}

func (s *WorkflowServiceImpl) GetWorkflow(ctx context.Context, departmentID string) (*Workflow, error) {
	wf, err := s.Repo.FindByDepartment(ctx, departmentID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("workflow for department", departmentID)
	}
	return wf, err
}

func (s *WorkflowServiceImpl) GetWorkflowByID(ctx context.Context, id string) (*Workflow, error) {
	wf, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("workflow", id)
	}
	return wf, err
}

// SaveWorkflow replaces the department's permanent definition. Drafts edited while
// initiating a process never reach this method.
func (s *WorkflowServiceImpl) SaveWorkflow(ctx context.Context, departmentID string, steps []Step, updatedBy string) (*Workflow, error) {
	if departmentID == "" {
		return nil, apperr.Validation("Department is required")
	}
	if err := Validate(steps); err != nil {
		return nil, err
	}

	wf, err := s.Repo.Replace(ctx, departmentID, steps, updatedBy)
	if err != nil {
		s.Logger.Error("Failed to save workflow", zap.String("departmentId", departmentID), zap.Error(err))
		return nil, err
	}

	if s.Invalidator != nil {
		s.Invalidator.Invalidate()
	}
	s.Logger.Info("Workflow saved",
		zap.String("departmentId", departmentID),
		zap.String("username", updatedBy),
		zap.Int("version", wf.Version),
		zap.Int("steps", len(wf.Steps)),
	)
	return wf, nil
}
