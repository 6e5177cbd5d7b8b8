package routing

import (
	"encoding/json"
	"fmt"

	"go-docflow/internal/common/apperr"
)

type Mode string

const (
	ModeIntraBranch                  Mode = "intraBranch"
	ModeInterBranchWithinHeadoffice  Mode = "interBranchWithinHeadoffice"
	ModeInterBranchHeadofficeManager Mode = "interBranchHeadofficeManager"
	ModeInterBranchDirectToBranches  Mode = "interBranchDirectToBranches"
)

// Selection is the routing shape chosen for a new process. The set of
// implementations is closed; Resolve switches over all of them.
type Selection interface {
	Mode() Mode
	Initiator() string
	IsInterBranch() bool
	IncludesHeadoffice() bool
	isSelection()
}

// IntraBranch keeps the process inside the initiating department's workflow
type IntraBranch struct {
	DepartmentID string `json:"departmentId"`
}

// InterBranchWithinHeadoffice is started by a head office department and
// reaches other head office departments and/or whole branches
type InterBranchWithinHeadoffice struct {
	DepartmentID      string   `json:"departmentId"`
	HeadDepartmentIDs []string `json:"headDepartmentIds"`
	BranchIDs         []string `json:"branchIds"`
}

// InterBranchHeadofficeManager hands the process to a head office manager
// department whose workflow drives it
type InterBranchHeadofficeManager struct {
	DepartmentID        string `json:"departmentId"`
	ManagerDepartmentID string `json:"managerDepartmentId"`
}

// InterBranchDirectToBranches sends the process straight to receiver branches
type InterBranchDirectToBranches struct {
	DepartmentID string   `json:"departmentId"`
	BranchIDs    []string `json:"branchIds"`
}

func (IntraBranch) Mode() Mode                  { return ModeIntraBranch }
func (InterBranchWithinHeadoffice) Mode() Mode  { return ModeInterBranchWithinHeadoffice }
func (InterBranchHeadofficeManager) Mode() Mode { return ModeInterBranchHeadofficeManager }
func (InterBranchDirectToBranches) Mode() Mode  { return ModeInterBranchDirectToBranches }

func (s IntraBranch) Initiator() string                  { return s.DepartmentID }
func (s InterBranchWithinHeadoffice) Initiator() string  { return s.DepartmentID }
func (s InterBranchHeadofficeManager) Initiator() string { return s.DepartmentID }
func (s InterBranchDirectToBranches) Initiator() string  { return s.DepartmentID }

func (IntraBranch) IsInterBranch() bool                  { return false }
func (InterBranchWithinHeadoffice) IsInterBranch() bool  { return true }
func (InterBranchHeadofficeManager) IsInterBranch() bool { return true }
func (InterBranchDirectToBranches) IsInterBranch() bool  { return true }

func (IntraBranch) IncludesHeadoffice() bool                  { return false }
func (InterBranchWithinHeadoffice) IncludesHeadoffice() bool  { return true }
func (InterBranchHeadofficeManager) IncludesHeadoffice() bool { return true }
func (InterBranchDirectToBranches) IncludesHeadoffice() bool  { return false }

func (IntraBranch) isSelection()                  {}
func (InterBranchWithinHeadoffice) isSelection()  {}
func (InterBranchHeadofficeManager) isSelection() {}
func (InterBranchDirectToBranches) isSelection()  {}

// Routing is the resolved workflow driver and connector departments
type Routing struct {
	WorkflowID string   `json:"workflowId"`
	Connectors []string `json:"connectors"`
}

// SelectionEnvelope is the wire form: {"mode": "...", ...variant fields}
type SelectionEnvelope struct {
	Selection Selection
}

func (e *SelectionEnvelope) UnmarshalJSON(data []byte) error {
	var head struct {
		Mode Mode `json:"mode"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return apperr.Validation("Invalid routing selection")
	}

	var sel Selection
	var err error
	switch head.Mode {
	case ModeIntraBranch:
		var v IntraBranch
		err = json.Unmarshal(data, &v)
		sel = v
	case ModeInterBranchWithinHeadoffice:
		var v InterBranchWithinHeadoffice
		err = json.Unmarshal(data, &v)
		sel = v
	case ModeInterBranchHeadofficeManager:
		var v InterBranchHeadofficeManager
		err = json.Unmarshal(data, &v)
		sel = v
	case ModeInterBranchDirectToBranches:
		var v InterBranchDirectToBranches
		err = json.Unmarshal(data, &v)
		sel = v
	case "":
		return apperr.SelectionIncomplete("Select a routing mode")
	default:
		return apperr.SelectionIncomplete(fmt.Sprintf("Unknown routing mode %q", head.Mode))
	}
	if err != nil {
		return apperr.Validation("Invalid routing selection")
	}

	e.Selection = sel
	return nil
}

func (e SelectionEnvelope) MarshalJSON() ([]byte, error) {
	if e.Selection == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(e.Selection)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["mode"] = e.Selection.Mode()
	return json.Marshal(fields)
}
