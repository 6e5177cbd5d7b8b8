package directory

// HeadOfficeBranchName marks the central branch
const HeadOfficeBranchName = "headOffice"

type Branch struct {
	ID          string       `bson:"_id" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Departments []Department `bson:"-" json:"departments"`
}

func (b Branch) IsHeadOffice() bool {
	return b.Name == HeadOfficeBranchName
}

type Department struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	BranchID string `bson:"branch_id" json:"branchId"`
	// Filled from the workflow store when the organization is loaded
	WorkflowID string `bson:"-" json:"workflowId,omitempty"`
	StepCount  int    `bson:"-" json:"stepCount"`
}

// QualifiedName namespaces head office departments as headOffice_<dept>
func (d Department) QualifiedName(branch Branch) string {
	if branch.IsHeadOffice() {
		return HeadOfficeBranchName + "_" + d.Name
	}
	return d.Name
}

type Role struct {
	ID       string `bson:"_id" json:"id"`
	Name     string `bson:"name" json:"name"`
	BranchID string `bson:"branch_id" json:"branchId"`
}

type User struct {
	Username     string `bson:"_id" json:"username"`
	Role         string `bson:"role" json:"role"`
	BranchID     string `bson:"branch_id" json:"branchId"`
	Department   string `bson:"department,omitempty" json:"department,omitempty"`
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
}

// WorkflowRef links a department to its workflow definition
type WorkflowRef struct {
	ID           string `bson:"_id"`
	DepartmentID string `bson:"department_id"`
	StepCount    int    `bson:"step_count"`
}

// Organization is a read-only snapshot of branches and their departments
type Organization struct {
	Branches []Branch `json:"branches"`
}

func (o Organization) Branch(id string) (Branch, bool) {
	for _, b := range o.Branches {
		if b.ID == id {
			return b, true
		}
	}
	return Branch{}, false
}

// Department returns the department and the branch owning it
func (o Organization) Department(id string) (Department, Branch, bool) {
	for _, b := range o.Branches {
		for _, d := range b.Departments {
			if d.ID == id {
				return d, b, true
			}
		}
	}
	return Department{}, Branch{}, false
}

func (o Organization) HeadOffice() (Branch, bool) {
	for _, b := range o.Branches {
		if b.IsHeadOffice() {
			return b, true
		}
	}
	return Branch{}, false
}

// NewOrganization groups departments under their branches and attaches workflow refs
func NewOrganization(branches []Branch, departments []Department, refs []WorkflowRef) Organization {
	byDepartment := make(map[string]WorkflowRef, len(refs))
	for _, ref := range refs {
		byDepartment[ref.DepartmentID] = ref
	}

	index := make(map[string]int, len(branches))
	out := make([]Branch, len(branches))
	for i, b := range branches {
		b.Departments = []Department{}
		out[i] = b
		index[b.ID] = i
	}

	for _, d := range departments {
		i, ok := index[d.BranchID]
		if !ok {
			continue
		}
		if ref, ok := byDepartment[d.ID]; ok {
			d.WorkflowID = ref.ID
			d.StepCount = ref.StepCount
		}
		out[i].Departments = append(out[i].Departments, d)
	}

	return Organization{Branches: out}
}

// InitiableBy lists the departments of the user's branch that have a workflow to start
func (o Organization) InitiableBy(user User) []Department {
	branch, ok := o.Branch(user.BranchID)
	if !ok {
		return []Department{}
	}
	departments := []Department{}
	for _, d := range branch.Departments {
		if d.WorkflowID != "" && d.StepCount > 0 {
			departments = append(departments, d)
		}
	}
	return departments
}
