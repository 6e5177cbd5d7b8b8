package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockWorkflowRepository struct {
	mock.Mock
}

func (m *MockWorkflowRepository) FindByDepartment(ctx context.Context, departmentID string) (*Workflow, error) {
	args := m.Called(ctx, departmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) FindByID(ctx context.Context, id string) (*Workflow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) Replace(ctx context.Context, departmentID string, steps []Step, updatedBy string) (*Workflow, error) {
	args := m.Called(ctx, departmentID, steps, updatedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Workflow), args.Error(1)
}

func (m *MockWorkflowRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate() { c.calls++ }

func TestGetWorkflow(t *testing.T) {
	repo := new(MockWorkflowRepository)
	wf := &Workflow{ID: "Finance-wf-id", DepartmentID: "Finance", Steps: sampleWorkflow(1)}
	repo.On("FindByDepartment", mock.Anything, "Finance").Return(wf, nil)
	repo.On("FindByDepartment", mock.Anything, "Nowhere").Return(nil, ErrNotFound)

	svc := NewWorkflowService(repo, nil, zap.NewNop())

	got, err := svc.GetWorkflow(context.Background(), "Finance")
	require.NoError(t, err)
	assert.Equal(t, "Finance-wf-id", got.ID)

	_, err = svc.GetWorkflow(context.Background(), "Nowhere")
	var notFound *apperr.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSaveWorkflow(t *testing.T) {
	steps := sampleWorkflow(2)
	repo := new(MockWorkflowRepository)
	repo.On("Replace", mock.Anything, "Finance", steps, "alice").
		Return(&Workflow{ID: "Finance-wf-id", DepartmentID: "Finance", Version: 2, Steps: steps}, nil).Once()
	inv := &countingInvalidator{}

	svc := NewWorkflowService(repo, inv, zap.NewNop())
	wf, err := svc.SaveWorkflow(context.Background(), "Finance", steps, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, wf.Version)
	assert.Equal(t, 1, inv.calls)
	repo.AssertExpectations(t)
}

func TestSaveWorkflowRejectsInvalidSteps(t *testing.T) {
	repo := new(MockWorkflowRepository)
	inv := &countingInvalidator{}
	svc := NewWorkflowService(repo, inv, zap.NewNop())

	bad := sampleWorkflow(2)
	bad[0].Work = WorkApprove
	_, err := svc.SaveWorkflow(context.Background(), "Finance", bad, "alice")
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)
	repo.AssertNotCalled(t, "Replace", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, inv.calls)
}

func TestSaveWorkflowStoreError(t *testing.T) {
	steps := sampleWorkflow(1)
	repo := new(MockWorkflowRepository)
	repo.On("Replace", mock.Anything, "Finance", steps, "alice").Return(nil, errors.New("write conflict"))
	inv := &countingInvalidator{}

	svc := NewWorkflowService(repo, inv, zap.NewNop())
	_, err := svc.SaveWorkflow(context.Background(), "Finance", steps, "alice")
	assert.EqualError(t, err, "write conflict")
	assert.Zero(t, inv.calls)
}

func TestDraftEndpoints(t *testing.T) {
	app := fiber.New()
	api := NewWorkflowApi(
		NewWorkflowController(NewWorkflowService(new(MockWorkflowRepository), nil, zap.NewNop())),
		nil, nil,
	)
	group := app.Group("/api/v1/workflows", func(c *fiber.Ctx) error {
		session.Store(c, middleware.DevSession)
		return c.Next()
	})
	group.Post("/draft/insert", api.controller.InsertDraftStep)
	group.Post("/draft/remove", api.controller.RemoveDraftStep)

	post := func(path string, body any) (int, map[string]any) {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}

	status, out := post("/api/v1/workflows/draft/insert", InsertStepRequest{AtIndex: 1, Step: step(WorkApprove, "alice")})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "First step should be upload", out["message"])

	status, out = post("/api/v1/workflows/draft/insert", InsertStepRequest{Steps: sampleWorkflow(2), AtIndex: 9, Step: step(WorkView, "zed")})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["steps"], 3)

	status, out = post("/api/v1/workflows/draft/remove", RemoveStepRequest{Steps: sampleWorkflow(3), Index: 2})
	assert.Equal(t, fiber.StatusOK, status)
	steps := out["steps"].([]any)
	require.Len(t, steps, 2)
	assert.Equal(t, float64(2), steps[1].(map[string]any)["index"])
}

func TestGetWorkflowByID(t *testing.T) {
	repo := new(MockWorkflowRepository)
	repo.On("FindByID", mock.Anything, "Finance-wf-id").
		Return(&Workflow{ID: "Finance-wf-id", DepartmentID: "Finance", Steps: sampleWorkflow(2)}, nil)
	repo.On("FindByID", mock.Anything, "gone").Return(nil, ErrNotFound)

	svc := NewWorkflowService(repo, nil, zap.NewNop())

	wf, err := svc.GetWorkflowByID(context.Background(), "Finance-wf-id")
	require.NoError(t, err)
	assert.Len(t, wf.Steps, 2)

	_, err = svc.GetWorkflowByID(context.Background(), "gone")
	assert.Equal(t, fiber.StatusNotFound, apperr.Status(err))
}
