package process

import (
	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/document"
	"go-docflow/internal/features/routing"
	"go-docflow/internal/features/workflow"
)

// ProcessRequestBuilder assembles an initiation request and validates it once in Build
type ProcessRequestBuilder struct {
	req ProcessInitiationRequest
}

func NewRequestBuilder() *ProcessRequestBuilder {
	return &ProcessRequestBuilder{}
}

// Routing copies the resolved driver and connectors plus the flags of the selection
func (b *ProcessRequestBuilder) Routing(r routing.Routing, sel routing.Selection) *ProcessRequestBuilder {
	b.req.WorkflowID = r.WorkflowID
	b.req.Connectors = append([]string(nil), r.Connectors...)
	if sel != nil {
		b.req.IsInterBranchProcess = sel.IsInterBranch()
		b.req.IsHeadofficeIncluded = sel.IncludesHeadoffice()
		if b.req.InitiatorDepartment == "" {
			b.req.InitiatorDepartment = sel.Initiator()
		}
	}
	return b
}

func (b *ProcessRequestBuilder) Initiator(departmentID string) *ProcessRequestBuilder {
	b.req.InitiatorDepartment = departmentID
	return b
}

func (b *ProcessRequestBuilder) Steps(steps []workflow.Step) *ProcessRequestBuilder {
	b.req.Steps = append([]workflow.Step(nil), steps...)
	return b
}

func (b *ProcessRequestBuilder) Document(ref document.DocumentRef) *ProcessRequestBuilder {
	b.req.Documents = append(b.req.Documents, ref)
	return b
}

func (b *ProcessRequestBuilder) NextStep(n int) *ProcessRequestBuilder {
	b.req.NextStepNumber = &n
	return b
}

func (b *ProcessRequestBuilder) MaxReceiverStep(n int) *ProcessRequestBuilder {
	b.req.MaxReceiverStepNumber = n
	return b
}

func (b *ProcessRequestBuilder) Remarks(remarks string) *ProcessRequestBuilder {
	b.req.Remarks = remarks
	return b
}

func (b *ProcessRequestBuilder) Build() (ProcessInitiationRequest, error) {
	if err := Validate(b.req); err != nil {
		return ProcessInitiationRequest{}, err
	}
	return b.req, nil
}

// Validate checks a request before anything is sent to the store
func Validate(req ProcessInitiationRequest) error {
	if req.WorkflowID == "" {
		return apperr.SelectionIncomplete("Selected department has no workflow")
	}
	if req.InitiatorDepartment == "" {
		return apperr.Validation("Initiator department is required")
	}
	if req.IsInterBranchProcess && len(req.Connectors) == 0 {
		return apperr.SelectionIncomplete("Select department and provide branches")
	}
	if len(req.Documents) == 0 {
		return apperr.Validation("Upload at least one document")
	}
	for _, d := range req.Documents {
		if d.DocumentID == "" {
			return apperr.Validation("Document id is required")
		}
	}
	if req.MaxReceiverStepNumber < 0 {
		return apperr.Validation("maxReceiverStepNumber cannot be negative")
	}
	if len(req.Steps) > 0 {
		if err := workflow.Validate(req.Steps); err != nil {
			return err
		}
	}
	return nil
}
