package workflow

// StepBuilder assembles a Step before it is inserted into a draft workflow.
//
//	step, err := workflow.NewStep(workflow.WorkApprove).
//		Approver("bob", "manager").
//		Build()
type StepBuilder struct {
	step Step
}

func NewStep(work WorkKind) *StepBuilder {
	return &StepBuilder{step: Step{Work: work}}
}

func (b *StepBuilder) Work(work WorkKind) *StepBuilder {
	b.step.Work = work
	return b
}

func (b *StepBuilder) Approver(user, role string) *StepBuilder {
	b.step.Users = append(b.step.Users, StepUser{User: user, Role: role})
	return b
}

// Build validates the step. The index is assigned on insertion.
func (b *StepBuilder) Build() (Step, error) {
	step := cloneStep(b.step)
	if err := ValidateStep(step); err != nil {
		return Step{}, err
	}
	return step, nil
}
