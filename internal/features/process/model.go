package process

import (
	"time"

	"go-docflow/internal/features/document"
	"go-docflow/internal/features/step"
	"go-docflow/internal/features/workflow"
)

const CollectionName = "processes"

// ProcessInitiationRequest is submitted once and never changes afterwards
type ProcessInitiationRequest struct {
	WorkflowID            string                 `bson:"workflow_id" json:"workflowId"`
	Connectors            []string               `bson:"connectors" json:"connectors"`
	IsInterBranchProcess  bool                   `bson:"is_inter_branch_process" json:"isInterBranchProcess"`
	IsHeadofficeIncluded  bool                   `bson:"is_headoffice_included" json:"isHeadofficeIncluded"`
	InitiatorDepartment   string                 `bson:"initiator_department" json:"initiatorDepartment"`
	Documents             []document.DocumentRef `bson:"documents" json:"documents"`
	NextStepNumber        *int                   `bson:"next_step_number,omitempty" json:"nextStepNumber,omitempty"`
	MaxReceiverStepNumber int                    `bson:"max_receiver_step_number,omitempty" json:"maxReceiverStepNumber,omitempty"`
	Remarks               string                 `bson:"remarks" json:"remarks"`
	// Steps is the workflow as edited for this submission; empty means the stored definition
	Steps []workflow.Step `bson:"steps" json:"steps,omitempty"`
}

type Transition struct {
	From step.ProcessState `bson:"from" json:"from"`
	To   step.ProcessState `bson:"to" json:"to"`
	By   string            `bson:"by" json:"by"`
	At   time.Time         `bson:"at" json:"at"`
}

type Process struct {
	ID                       string `bson:"_id" json:"id"`
	ProcessInitiationRequest `bson:",inline"`
	Initiator                string            `bson:"initiator" json:"initiator"`
	State                    step.ProcessState `bson:"state" json:"state"`
	History                  []Transition      `bson:"history" json:"history"`
	CreatedAt                time.Time         `bson:"created_at" json:"createdAt"`
	UpdatedAt                time.Time         `bson:"updated_at" json:"updatedAt"`
}

// Participants is the initiating department followed by the connectors, without repeats
func (p Process) Participants() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range append([]string{p.InitiatorDepartment}, p.Connectors...) {
		if d == "" || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

func (p Process) stepAt(index int) (workflow.Step, bool) {
	for _, s := range p.Steps {
		if s.Index == index {
			return s, true
		}
	}
	return workflow.Step{}, false
}
