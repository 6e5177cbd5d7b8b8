package workflow

import (
	"go-docflow/internal/common/apperr"
)

const (
	msgFirstStepUpload = "First step should be upload"
	msgNoApprovers     = "Step should have at least one approver"
)

// ValidateStep checks a single step on its own
func ValidateStep(step Step) error {
	if step.Work == "" {
		return apperr.Validation("Step work is required")
	}
	if len(step.Users) == 0 {
		return apperr.Validation(msgNoApprovers)
	}
	for _, u := range step.Users {
		if u.User == "" {
			return apperr.Validation("Approver username is required")
		}
	}
	return nil
}

// InsertStep returns a copy of steps with step placed at atIndex (1-based).
// An index past the end appends. Later steps move down by one.
func InsertStep(steps []Step, atIndex int, step Step) ([]Step, error) {
	if len(steps) == 0 && step.Work != WorkUpload {
		return nil, apperr.Validation(msgFirstStepUpload)
	}
	if err := ValidateStep(step); err != nil {
		return nil, err
	}

	pos := atIndex - 1
	if pos < 0 {
		pos = 0
	}
	if pos > len(steps) {
		pos = len(steps)
	}

	out := make([]Step, 0, len(steps)+1)
	out = append(out, cloneSteps(steps[:pos])...)
	out = append(out, cloneStep(step))
	out = append(out, cloneSteps(steps[pos:])...)
	return renumber(out), nil
}

// RemoveStep returns a copy of steps without the step at index (1-based)
func RemoveStep(steps []Step, index int) ([]Step, error) {
	if index < 1 || index > len(steps) {
		return nil, apperr.Validation("Step %d does not exist", index)
	}

	out := make([]Step, 0, len(steps)-1)
	out = append(out, cloneSteps(steps[:index-1])...)
	out = append(out, cloneSteps(steps[index:])...)
	return renumber(out), nil
}

// Validate checks a complete workflow before it is stored or submitted
func Validate(steps []Step) error {
	if len(steps) == 0 {
		return apperr.Validation("Workflow should have at least one step")
	}
	if steps[0].Work != WorkUpload {
		return apperr.Validation(msgFirstStepUpload)
	}
	for i, s := range steps {
		if s.Index != i+1 {
			return apperr.Validation("Step indices should be contiguous from 1, found %d at position %d", s.Index, i+1)
		}
		if err := ValidateStep(s); err != nil {
			return err
		}
	}
	return nil
}

func renumber(steps []Step) []Step {
	for i := range steps {
		steps[i].Index = i + 1
	}
	return steps
}

func cloneStep(s Step) Step {
	s.Users = append([]StepUser(nil), s.Users...)
	return s
}

func cloneSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		out[i] = cloneStep(s)
	}
	return out
}
