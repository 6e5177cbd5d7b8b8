package workflow

import "time"

const CollectionName = "workflows"

type WorkKind string

const (
	WorkUpload  WorkKind = "upload"
	WorkView    WorkKind = "view"
	WorkEdit    WorkKind = "edit"
	WorkApprove WorkKind = "approve"
)

// StepUser is one required sign-off on a step
type StepUser struct {
	User string `bson:"user" json:"user"`
	Role string `bson:"role" json:"role"`
}

// Step is one stage of a workflow. Index is 1-based and contiguous within a workflow.
type Step struct {
	Index int        `bson:"index" json:"index"`
	Work  WorkKind   `bson:"work" json:"work"`
	Users []StepUser `bson:"users" json:"users"`
}

// HasApprover reports whether username must act on this step
func (s Step) HasApprover(username string) bool {
	for _, u := range s.Users {
		if u.User == username {
			return true
		}
	}
	return false
}

// Workflow is a department's persisted step sequence
type Workflow struct {
	ID           string    `bson:"_id" json:"id"`
	DepartmentID string    `bson:"department_id" json:"departmentId"`
	Version      int       `bson:"version" json:"version"`
	Steps        []Step    `bson:"steps" json:"steps"`
	UpdatedBy    string    `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updatedAt"`
}

// IDFor is the workflow id assigned to a department's first saved definition
func IDFor(departmentID string) string {
	return departmentID + "-wf-id"
}
