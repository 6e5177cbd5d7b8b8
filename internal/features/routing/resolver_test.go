package routing

import (
	"encoding/json"
	"testing"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/directory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrganization() directory.Organization {
	branches := []directory.Branch{
		{ID: "b-ho", Name: directory.HeadOfficeBranchName},
		{ID: "b-north", Name: "north"},
		{ID: "b-south", Name: "south"},
		{ID: "b-empty", Name: "empty"},
	}
	departments := []directory.Department{
		{ID: "ho-audit", Name: "audit", BranchID: "b-ho"},
		{ID: "ho-manager", Name: "manager", BranchID: "b-ho"},
		{ID: "ho-legal", Name: "legal", BranchID: "b-ho"},
		{ID: "Finance", Name: "Finance", BranchID: "b-north"},
		{ID: "Stores", Name: "Stores", BranchID: "b-north"},
		{ID: "Sales", Name: "Sales", BranchID: "b-south"},
		{ID: "Drafts", Name: "Drafts", BranchID: "b-south"},
	}
	refs := []directory.WorkflowRef{
		{ID: "Finance-wf-id", DepartmentID: "Finance", StepCount: 1},
		{ID: "Stores-wf-id", DepartmentID: "Stores", StepCount: 2},
		{ID: "Sales-wf-id", DepartmentID: "Sales", StepCount: 2},
		{ID: "ho-audit-wf-id", DepartmentID: "ho-audit", StepCount: 3},
		{ID: "ho-manager-wf-id", DepartmentID: "ho-manager", StepCount: 2},
	}
	return directory.NewOrganization(branches, departments, refs)
}

func TestResolve(t *testing.T) {
	org := testOrganization()

	tests := []struct {
		name      string
		selection Selection
		want      Routing
	}{
		{
			name:      "intra branch",
			selection: IntraBranch{DepartmentID: "Finance"},
			want:      Routing{WorkflowID: "Finance-wf-id", Connectors: []string{}},
		},
		{
			name: "within head office, head departments and branches",
			selection: InterBranchWithinHeadoffice{
				DepartmentID:      "ho-audit",
				HeadDepartmentIDs: []string{"ho-legal", "ho-manager"},
				BranchIDs:         []string{"b-south", "b-north"},
			},
			want: Routing{WorkflowID: "ho-audit-wf-id", Connectors: []string{"ho-legal", "ho-manager", "Sales", "Drafts", "Finance", "Stores"}},
		},
		{
			name: "within head office, duplicates collapse",
			selection: InterBranchWithinHeadoffice{
				DepartmentID:      "ho-audit",
				HeadDepartmentIDs: []string{"ho-legal", "ho-legal"},
				BranchIDs:         []string{"b-north", "b-north"},
			},
			want: Routing{WorkflowID: "ho-audit-wf-id", Connectors: []string{"ho-legal", "Finance", "Stores"}},
		},
		{
			name:      "within head office, only head departments",
			selection: &InterBranchWithinHeadoffice{DepartmentID: "ho-audit", HeadDepartmentIDs: []string{"ho-legal"}},
			want:      Routing{WorkflowID: "ho-audit-wf-id", Connectors: []string{"ho-legal"}},
		},
		{
			name:      "head office manager drives the workflow",
			selection: InterBranchHeadofficeManager{DepartmentID: "Stores", ManagerDepartmentID: "ho-manager"},
			want:      Routing{WorkflowID: "ho-manager-wf-id", Connectors: []string{"Stores"}},
		},
		{
			name:      "direct to branches skips head office",
			selection: InterBranchDirectToBranches{DepartmentID: "Finance", BranchIDs: []string{"b-ho", "b-south"}},
			want:      Routing{WorkflowID: "Finance-wf-id", Connectors: []string{"Sales", "Drafts"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(org, tt.selection)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveRejectsIncompleteSelections(t *testing.T) {
	org := testOrganization()

	tests := []struct {
		name      string
		selection Selection
		reason    string
	}{
		{"nil", nil, "Select a routing mode"},
		{"nil pointer", (*IntraBranch)(nil), "Select a routing mode"},
		{"no department", IntraBranch{}, "Select department"},
		{"unknown department", IntraBranch{DepartmentID: "Nope"}, `Department "Nope" does not exist`},
		{"department without workflow", IntraBranch{DepartmentID: "Drafts"}, "Selected department has no workflow"},
		{"within head office, nothing selected", InterBranchWithinHeadoffice{DepartmentID: "ho-audit"}, "Select department and provide branches"},
		{"within head office, only head office branch", InterBranchWithinHeadoffice{DepartmentID: "ho-audit", BranchIDs: []string{"b-ho"}}, "Select department and provide branches"},
		{"within head office, empty branch", InterBranchWithinHeadoffice{DepartmentID: "ho-audit", BranchIDs: []string{"b-empty"}}, "Select department and provide branches"},
		{"within head office from a branch", InterBranchWithinHeadoffice{DepartmentID: "Finance", BranchIDs: []string{"b-south"}}, "Department does not belong to head office"},
		{"within head office, branch department as head", InterBranchWithinHeadoffice{DepartmentID: "ho-audit", HeadDepartmentIDs: []string{"Sales"}}, `Head office department "Sales" does not exist`},
		{"manager missing", InterBranchHeadofficeManager{DepartmentID: "Finance"}, "Select head office manager department"},
		{"manager outside head office", InterBranchHeadofficeManager{DepartmentID: "Finance", ManagerDepartmentID: "Sales"}, `Head office department "Sales" does not exist`},
		{"manager without workflow", InterBranchHeadofficeManager{DepartmentID: "Finance", ManagerDepartmentID: "ho-legal"}, "Selected department has no workflow"},
		{"manager from head office", InterBranchHeadofficeManager{DepartmentID: "ho-audit", ManagerDepartmentID: "ho-manager"}, "Head office departments cannot route through a head office manager"},
		{"direct, no branches", InterBranchDirectToBranches{DepartmentID: "Finance"}, "Select department and provide branches"},
		{"direct, only head office", InterBranchDirectToBranches{DepartmentID: "Finance", BranchIDs: []string{"b-ho"}}, "Select department and provide branches"},
		{"direct, unknown branch", InterBranchDirectToBranches{DepartmentID: "Finance", BranchIDs: []string{"b-x"}}, `Branch "b-x" does not exist`},
		{"direct from head office", InterBranchDirectToBranches{DepartmentID: "ho-audit", BranchIDs: []string{"b-north"}}, "Head office departments should route within head office"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(org, tt.selection)
			var incomplete *apperr.SelectionIncompleteError
			require.ErrorAs(t, err, &incomplete)
			assert.Equal(t, tt.reason, incomplete.Reason)
			assert.Equal(t, Routing{}, got)
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	org := testOrganization()
	selections := []Selection{
		IntraBranch{DepartmentID: "Finance"},
		InterBranchWithinHeadoffice{DepartmentID: "ho-audit", HeadDepartmentIDs: []string{"ho-legal"}, BranchIDs: []string{"b-north"}},
		InterBranchHeadofficeManager{DepartmentID: "Stores", ManagerDepartmentID: "ho-manager"},
		InterBranchDirectToBranches{DepartmentID: "Finance", BranchIDs: []string{"b-south"}},
	}
	for _, sel := range selections {
		t.Run(string(sel.Mode()), func(t *testing.T) {
			first, err := Resolve(org, sel)
			require.NoError(t, err)
			second, err := Resolve(org, sel)
			require.NoError(t, err)
			assert.Equal(t, first, second)
			if sel.IsInterBranch() {
				assert.NotEmpty(t, first.Connectors)
			}
		})
	}
}

func TestSelectionFlags(t *testing.T) {
	tests := []struct {
		selection   Selection
		interBranch bool
		headoffice  bool
	}{
		{IntraBranch{}, false, false},
		{InterBranchWithinHeadoffice{}, true, true},
		{InterBranchHeadofficeManager{}, true, true},
		{InterBranchDirectToBranches{}, true, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.selection.Mode()), func(t *testing.T) {
			assert.Equal(t, tt.interBranch, tt.selection.IsInterBranch())
			assert.Equal(t, tt.headoffice, tt.selection.IncludesHeadoffice())
		})
	}
}

func TestSelectionEnvelopeJSON(t *testing.T) {
	var env SelectionEnvelope
	require.NoError(t, json.Unmarshal([]byte(`{"mode":"interBranchDirectToBranches","departmentId":"Finance","branchIds":["b-south"]}`), &env))
	assert.Equal(t, InterBranchDirectToBranches{DepartmentID: "Finance", BranchIDs: []string{"b-south"}}, env.Selection)

	raw, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"interBranchDirectToBranches","departmentId":"Finance","branchIds":["b-south"]}`, string(raw))

	err = json.Unmarshal([]byte(`{"mode":"everywhere","departmentId":"Finance"}`), &env)
	var incomplete *apperr.SelectionIncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, `Unknown routing mode "everywhere"`, incomplete.Reason)

	err = json.Unmarshal([]byte(`{"departmentId":"Finance"}`), &env)
	assert.ErrorAs(t, err, &incomplete)
}
