package storefront

import (
	"fmt"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/shared"
)

// FlowState is where a storefront session is
type FlowState string

const (
	StateOrderEntry      FlowState = "order_entry"
	StateSubmitting      FlowState = "submitting"
	StateSubmitted       FlowState = "submitted"
	StateSubmissionError FlowState = "submission_error"
	StateAdminView       FlowState = "admin_view"
)

var flowTransitions = map[FlowState][]FlowState{
	StateOrderEntry:      {StateSubmitting, StateAdminView},
	StateSubmitting:      {StateSubmitted, StateSubmissionError},
	StateSubmitted:       {StateOrderEntry},
	StateSubmissionError: {StateOrderEntry, StateSubmitting},
	StateAdminView:       {StateOrderEntry},
}

// CanTransition reports whether from -> to is allowed
func CanTransition(from, to FlowState) bool {
	for _, next := range flowTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Flow tracks one session through the storefront state machine.
// Entering the admin view requires an authenticated caller.
type Flow struct {
	state FlowState
}

// NewFlow starts a session at order entry
func NewFlow() *Flow {
	return &Flow{state: StateOrderEntry}
}

// ResumeAdminFlow picks up an authenticated session. Admin sessions live in
// their access token, so each admin request resumes at the admin view.
func ResumeAdminFlow() *Flow {
	return &Flow{state: StateAdminView}
}

// State returns the current state
func (f *Flow) State() FlowState {
	return f.state
}

// Transition moves to the next state
func (f *Flow) Transition(to FlowState) error {
	if to == StateAdminView {
		return shared.NewDomainError("INVALID_STATE", "admin view requires login")
	}
	return f.transition(to)
}

// EnterAdmin moves to the admin view once the caller authenticated
func (f *Flow) EnterAdmin(authenticated bool) error {
	if !authenticated {
		return shared.ErrUnauthorized
	}
	return f.transition(StateAdminView)
}

func (f *Flow) transition(to FlowState) error {
	if !CanTransition(f.state, to) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("cannot move from %s to %s", f.state, to))
	}
	f.state = to
	return nil
}
