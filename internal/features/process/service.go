package process

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/document"
	"go-docflow/internal/features/events"
	"go-docflow/internal/features/step"
	"go-docflow/internal/features/workflow"
	"go-docflow/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdvanceRequest moves a stored process on from its current step
type AdvanceRequest struct {
	SkipTo                *int `json:"skipTo,omitempty"`
	MaxReceiverStepNumber int  `json:"maxReceiverStepNumber,omitempty"`
}

type ProcessService interface {
	// Submit inserts the process exactly once. It is not idempotent and never retries.
	Submit(ctx context.Context, sess session.Session, req ProcessInitiationRequest) (string, error)
	Advance(ctx context.Context, sess session.Session, id string, req AdvanceRequest) (*Process, error)
	Get(ctx context.Context, id string) (*Process, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]Process, error)
}

type ProcessServiceImpl struct {
	Repo      ProcessRepository
	Workflows workflow.WorkflowService
	Documents document.DocumentService
	Guard     SubmissionGuard
	Events    events.Publisher
	Logger    *zap.Logger
}

func NewProcessService(
	repo ProcessRepository,
	workflows workflow.WorkflowService,
	documents document.DocumentService,
	guard SubmissionGuard,
	publisher events.Publisher,
	logger *zap.Logger,
) ProcessService {
	return &ProcessServiceImpl{
		Repo:      repo,
		Workflows: workflows,
		Documents: documents,
		Guard:     guard,
		Events:    publisher,
		Logger:    logger,
	}
}

func (s *ProcessServiceImpl) Submit(ctx context.Context, sess session.Session, req ProcessInitiationRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", apperr.SubmissionFailed("invalid request", err)
	}

	token, err := s.Guard.Acquire(ctx, sess.Username)
	if errors.Is(err, ErrInFlight) {
		return "", apperr.SubmissionFailed("duplicate submission",
			apperr.Conflict(fmt.Sprintf("A submission by %s is already in progress", sess.Username)))
	}
	if err != nil {
		return "", apperr.SubmissionFailed("guard unavailable", err)
	}
	defer func() {
		// the insert outcome stands even if the key has to expire on its own
		if err := s.Guard.Release(context.WithoutCancel(ctx), sess.Username, token); err != nil {
			s.Logger.Warn("Failed to release submission guard", zap.String("username", sess.Username), zap.Error(err))
		}
	}()

	wf, err := s.Workflows.GetWorkflowByID(ctx, req.WorkflowID)
	if err != nil {
		return "", apperr.SubmissionFailed("workflow unavailable", err)
	}
	if len(req.Steps) == 0 {
		if err := workflow.Validate(wf.Steps); err != nil {
			return "", apperr.SubmissionFailed("invalid workflow", err)
		}
		req.Steps = wf.Steps
	} else {
		// edited snapshots were shape-checked by Validate; keep an audit line
		s.Logger.Info("Process submitted with edited steps",
			zap.String("username", sess.Username),
			zap.String("workflowId", req.WorkflowID),
			zap.Int("storedSteps", len(wf.Steps)),
			zap.Int("submittedSteps", len(req.Steps)),
		)
	}

	missing, err := s.Documents.Missing(ctx, req.Documents)
	if err != nil {
		return "", apperr.SubmissionFailed("document store unavailable", err)
	}
	if len(missing) > 0 {
		return "", apperr.SubmissionFailed("invalid request",
			apperr.Validation("Unknown documents: %s", strings.Join(missing, ", ")))
	}

	next, err := step.ComputeNextStep(req.Steps, sess.Username, step.Query{
		Current:               0,
		SkipTo:                req.NextStepNumber,
		MaxReceiverStepNumber: req.MaxReceiverStepNumber,
	})
	if err != nil {
		return "", apperr.SubmissionFailed("invalid next step", err)
	}
	if next.Completed {
		return "", apperr.SubmissionFailed("invalid next step",
			apperr.Validation("Workflow has no step for anyone but the initiator"))
	}
	state, err := step.Drafting().Submit(next.Step)
	if err != nil {
		return "", apperr.SubmissionFailed("invalid next step", apperr.Validation("%s", err.Error()))
	}

	now := time.Now().UTC()
	p := &Process{
		ID:                       uuid.NewString(),
		ProcessInitiationRequest: req,
		Initiator:                sess.Username,
		State:                    state,
		History: []Transition{
			{From: step.Drafting(), To: state, By: sess.Username, At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Repo.Create(ctx, p); err != nil {
		s.Logger.Error("Failed to store process",
			zap.String("username", sess.Username),
			zap.String("workflowId", req.WorkflowID),
			zap.Error(err),
		)
		return "", apperr.SubmissionFailed("store unavailable", err)
	}

	s.Logger.Info("Process submitted",
		zap.String("username", sess.Username),
		zap.String("processId", p.ID),
		zap.String("workflowId", p.WorkflowID),
		zap.Int("step", state.Step),
	)
	s.publish(events.ProcessSubmitted, p, sess.Username)
	return p.ID, nil
}

// Advance lets an approver of the current step hand the process on
func (s *ProcessServiceImpl) Advance(ctx context.Context, sess session.Session, id string, req AdvanceRequest) (*Process, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.State.IsTerminal() {
		return nil, apperr.Conflict("Process is already completed")
	}

	current := p.State.Current()
	cur, ok := p.stepAt(current)
	if !ok || !cur.HasApprover(sess.Username) {
		return nil, apperr.Validation("Only an approver of step %d can advance this process", current)
	}

	next, err := step.ComputeNextStep(p.Steps, sess.Username, step.Query{
		Current:               current,
		SkipTo:                req.SkipTo,
		MaxReceiverStepNumber: req.MaxReceiverStepNumber,
	})
	if err != nil {
		return nil, err
	}

	to, err := p.State.Apply(next)
	if err != nil {
		return nil, apperr.Conflict(err.Error())
	}

	t := Transition{From: p.State, To: to, By: sess.Username, At: time.Now().UTC()}
	if err := s.Repo.UpdateState(ctx, id, p.State, t); err != nil {
		if errors.Is(err, ErrStale) {
			return nil, apperr.Conflict("Process was moved by someone else, reload and try again")
		}
		return nil, err
	}

	p.State = to
	p.History = append(p.History, t)
	p.UpdatedAt = t.At

	s.Logger.Info("Process advanced",
		zap.String("username", sess.Username),
		zap.String("processId", p.ID),
		zap.String("from", t.From.String()),
		zap.String("to", to.String()),
	)
	kind := events.ProcessAdvanced
	if to.IsTerminal() {
		kind = events.ProcessCompleted
	}
	s.publish(kind, p, sess.Username)
	return p, nil
}

func (s *ProcessServiceImpl) Get(ctx context.Context, id string) (*Process, error) {
	p, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("process", id)
	}
	return p, err
}

func (s *ProcessServiceImpl) ListByDepartment(ctx context.Context, departmentID string) ([]Process, error) {
	if departmentID == "" {
		return nil, apperr.Validation("Department is required")
	}
	return s.Repo.FindByDepartment(ctx, departmentID)
}

func (s *ProcessServiceImpl) publish(kind events.EventType, p *Process, actor string) {
	if s.Events == nil {
		return
	}
	s.Events.Publish(events.ProcessEvent{
		Type:        kind,
		ProcessID:   p.ID,
		WorkflowID:  p.WorkflowID,
		Step:        p.State.Current(),
		Actor:       actor,
		Departments: p.Participants(),
	})
}
