package step

import (
	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/workflow"
)

// Query positions the requester in a workflow
type Query struct {
	// Current is the step the process is on; 0 while drafting
	Current int `json:"current"`
	// SkipTo optionally names the step to jump to
	SkipTo *int `json:"skipTo,omitempty"`
	// MaxReceiverStepNumber is the furthest step a skip may reach; 0 means the last step
	MaxReceiverStepNumber int `json:"maxReceiverStepNumber,omitempty"`
}

// Advance is where the process lands next
type Advance struct {
	Step      int  `json:"step"`
	Completed bool `json:"completed"`
}

// ComputeNextStep picks the next step for requester. Steps the requester must
// approve are never chosen.
func ComputeNextStep(steps []workflow.Step, requester string, q Query) (Advance, error) {
	eligible := make(map[int]bool, len(steps))
	var order []int
	for _, s := range steps {
		if s.HasApprover(requester) {
			continue
		}
		eligible[s.Index] = true
		order = append(order, s.Index)
	}

	if q.SkipTo != nil {
		target := *q.SkipTo
		ceiling := q.MaxReceiverStepNumber
		if ceiling <= 0 {
			ceiling = len(steps)
		}

		switch {
		case target <= q.Current:
			return Advance{}, &apperr.InvalidSkipTargetError{SkipTo: target, Reason: "steps can only move forward"}
		case target > ceiling:
			return Advance{}, &apperr.InvalidSkipTargetError{SkipTo: target, Reason: "beyond the last receiver step"}
		case !eligible[target]:
			return Advance{}, &apperr.InvalidSkipTargetError{SkipTo: target, Reason: "not an eligible step for this requester"}
		}
		return Advance{Step: target}, nil
	}

	next := 0
	for _, index := range order {
		if index > q.Current && (next == 0 || index < next) {
			next = index
		}
	}
	if next == 0 {
		return Advance{Completed: true}, nil
	}
	return Advance{Step: next}, nil
}
