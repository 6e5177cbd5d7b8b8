package routing

import (
	"fmt"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/features/directory"
)

// Resolve computes the workflow driver and connector departments for a selection.
// It reads only its arguments, so equal inputs give equal results.
func Resolve(org directory.Organization, selection Selection) (Routing, error) {
	selection = normalize(selection)
	if selection == nil {
		return Routing{}, apperr.SelectionIncomplete("Select a routing mode")
	}
	if selection.Initiator() == "" {
		return Routing{}, apperr.SelectionIncomplete("Select department")
	}

	dept, branch, ok := org.Department(selection.Initiator())
	if !ok {
		return Routing{}, apperr.SelectionIncomplete(fmt.Sprintf("Department %q does not exist", selection.Initiator()))
	}

	var (
		routing Routing
		err     error
	)
	switch sel := selection.(type) {
	case IntraBranch:
		routing, err = resolveIntraBranch(dept)
	case InterBranchWithinHeadoffice:
		routing, err = resolveWithinHeadoffice(org, dept, branch, sel)
	case InterBranchHeadofficeManager:
		routing, err = resolveHeadofficeManager(org, dept, branch, sel)
	case InterBranchDirectToBranches:
		routing, err = resolveDirectToBranches(org, dept, branch, sel)
	default:
		return Routing{}, apperr.SelectionIncomplete(fmt.Sprintf("Unknown routing mode %q", selection.Mode()))
	}
	if err != nil {
		return Routing{}, err
	}

	if routing.WorkflowID == "" {
		return Routing{}, apperr.SelectionIncomplete("Selected department has no workflow")
	}
	if selection.IsInterBranch() && len(routing.Connectors) == 0 {
		return Routing{}, apperr.SelectionIncomplete("Select department and provide branches")
	}
	return routing, nil
}

// normalize turns pointer variants into values, and nil pointers into nil
func normalize(s Selection) Selection {
	switch v := s.(type) {
	case *IntraBranch:
		if v == nil {
			return nil
		}
		return *v
	case *InterBranchWithinHeadoffice:
		if v == nil {
			return nil
		}
		return *v
	case *InterBranchHeadofficeManager:
		if v == nil {
			return nil
		}
		return *v
	case *InterBranchDirectToBranches:
		if v == nil {
			return nil
		}
		return *v
	}
	return s
}

func resolveIntraBranch(dept directory.Department) (Routing, error) {
	return Routing{WorkflowID: dept.WorkflowID, Connectors: []string{}}, nil
}

func resolveWithinHeadoffice(org directory.Organization, dept directory.Department, branch directory.Branch, sel InterBranchWithinHeadoffice) (Routing, error) {
	if !branch.IsHeadOffice() {
		return Routing{}, apperr.SelectionIncomplete("Department does not belong to head office")
	}

	connectors := newConnectorSet()
	for _, id := range sel.HeadDepartmentIDs {
		head, headBranch, ok := org.Department(id)
		if !ok || !headBranch.IsHeadOffice() {
			return Routing{}, apperr.SelectionIncomplete(fmt.Sprintf("Head office department %q does not exist", id))
		}
		connectors.add(head.ID)
	}
	for _, id := range sel.BranchIDs {
		receiver, ok := org.Branch(id)
		if !ok {
			return Routing{}, apperr.SelectionIncomplete(fmt.Sprintf("Branch %q does not exist", id))
		}
		if receiver.IsHeadOffice() {
			continue
		}
		for _, d := range receiver.Departments {
			connectors.add(d.ID)
		}
	}

	return Routing{WorkflowID: dept.WorkflowID, Connectors: connectors.list()}, nil
}

func resolveHeadofficeManager(org directory.Organization, dept directory.Department, branch directory.Branch, sel InterBranchHeadofficeManager) (Routing, error) {
	if branch.IsHeadOffice() {
		return Routing{}, apperr.SelectionIncomplete("Head office departments cannot route through a head office manager")
	}
	if sel.ManagerDepartmentID == "" {
		return Routing{}, apperr.SelectionIncomplete("Select head office manager department")
	}
	manager, managerBranch, ok := org.Department(sel.ManagerDepartmentID)
	if !ok || !managerBranch.IsHeadOffice() {
		return Routing{}, apperr.SelectionIncomplete(fmt.Sprintf("Head office department %q does not exist", sel.ManagerDepartmentID))
	}

	// The manager's workflow drives the process; the initiator is its only connector
	return Routing{WorkflowID: manager.WorkflowID, Connectors: []string{dept.ID}}, nil
}

func resolveDirectToBranches(org directory.Organization, dept directory.Department, branch directory.Branch, sel InterBranchDirectToBranches) (Routing, error) {
	if branch.IsHeadOffice() {
		return Routing{}, apperr.SelectionIncomplete("Head office departments should route within head office")
	}

	connectors := newConnectorSet()
	for _, id := range sel.BranchIDs {
		receiver, ok := org.Branch(id)
		if !ok {
			return Routing{}, apperr.SelectionIncomplete(fmt.Sprintf("Branch %q does not exist", id))
		}
		if receiver.IsHeadOffice() {
			continue
		}
		for _, d := range receiver.Departments {
			connectors.add(d.ID)
		}
	}

	return Routing{WorkflowID: dept.WorkflowID, Connectors: connectors.list()}, nil
}

// connectorSet keeps first-seen order and drops duplicates
type connectorSet struct {
	seen  map[string]struct{}
	order []string
}

func newConnectorSet() *connectorSet {
	return &connectorSet{seen: map[string]struct{}{}, order: []string{}}
}

func (s *connectorSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
}

func (s *connectorSet) list() []string {
	return s.order
}
