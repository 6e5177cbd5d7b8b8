package step

import "fmt"

type Phase string

const (
	PhaseDrafting           Phase = "DRAFTING"
	PhaseAwaitingStepAction Phase = "AWAITING_STEP_ACTION"
	PhaseCompleted          Phase = "COMPLETED"
)

// ProcessState is Drafting, AwaitingStepAction(Step) or Completed.
// Transitions only move forward.
type ProcessState struct {
	Phase Phase `bson:"phase" json:"phase"`
	Step  int   `bson:"step,omitempty" json:"step,omitempty"`
}

// InvalidTransitionError reports a move the state machine does not allow
type InvalidTransitionError struct {
	From ProcessState
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move process from %s to %s", e.From, e.To)
}

func Drafting() ProcessState {
	return ProcessState{Phase: PhaseDrafting}
}

func (s ProcessState) String() string {
	if s.Phase == PhaseAwaitingStepAction {
		return fmt.Sprintf("%s(%d)", s.Phase, s.Step)
	}
	return string(s.Phase)
}

func (s ProcessState) IsTerminal() bool {
	return s.Phase == PhaseCompleted
}

// Current is the step the process waits on, 0 while drafting or after completion
func (s ProcessState) Current() int {
	if s.Phase == PhaseAwaitingStepAction {
		return s.Step
	}
	return 0
}

// Submit moves a draft onto its first step
func (s ProcessState) Submit(first int) (ProcessState, error) {
	if s.Phase != PhaseDrafting {
		return s, &InvalidTransitionError{From: s, To: "submitted"}
	}
	if first < 1 {
		return s, &InvalidTransitionError{From: s, To: fmt.Sprintf("step %d", first)}
	}
	return ProcessState{Phase: PhaseAwaitingStepAction, Step: first}, nil
}

// Apply moves an awaiting process to the computed advance
func (s ProcessState) Apply(next Advance) (ProcessState, error) {
	if s.Phase != PhaseAwaitingStepAction {
		return s, &InvalidTransitionError{From: s, To: describe(next)}
	}
	if next.Completed {
		return ProcessState{Phase: PhaseCompleted}, nil
	}
	if next.Step <= s.Step {
		return s, &InvalidTransitionError{From: s, To: describe(next)}
	}
	return ProcessState{Phase: PhaseAwaitingStepAction, Step: next.Step}, nil
}

func describe(a Advance) string {
	if a.Completed {
		return string(PhaseCompleted)
	}
	return fmt.Sprintf("%s(%d)", PhaseAwaitingStepAction, a.Step)
}
