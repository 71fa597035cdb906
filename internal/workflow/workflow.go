// Package workflow declares the document review lifecycle as a state machine.
// The review engine validates every consultant or vendor action against it
// before mutating the store, so illegal transitions are rejected in one place.
package workflow

import (
	"fmt"

	"github.com/anggasct/fluo"

	"vendocs/internal/model"
)

// Events accepted by the review machine.
const (
	EventStartReview = "start_review"
	EventApprove     = "approve"
	EventReject      = "reject"
	EventResubmit    = "resubmit"
)

// Machine wraps a shared fluo machine definition for document statuses.
// Instances are created per validation; the definition itself is immutable
// and safe to share.
type Machine struct {
	def fluo.MachineDefinition
}

// New builds the document review machine.
//
// Approve and reject are allowed from any reviewable state, including
// overriding a previous decision (last write wins, guarded by the document
// version counter at the repository). Resubmit is only valid from rejected.
func New() *Machine {
	def := fluo.NewMachine().
		State(string(model.DocumentPending)).Initial().
		To(string(model.DocumentUnderReview)).On(EventStartReview).
		To(string(model.DocumentApproved)).On(EventApprove).
		To(string(model.DocumentRejected)).On(EventReject).
		State(string(model.DocumentUnderReview)).
		To(string(model.DocumentApproved)).On(EventApprove).
		To(string(model.DocumentRejected)).On(EventReject).
		State(string(model.DocumentApproved)).
		ToSelf().On(EventApprove).
		To(string(model.DocumentRejected)).On(EventReject).
		State(string(model.DocumentRejected)).
		ToSelf().On(EventReject).
		To(string(model.DocumentApproved)).On(EventApprove).
		To(string(model.DocumentResubmitted)).On(EventResubmit).
		State(string(model.DocumentResubmitted)).
		To(string(model.DocumentUnderReview)).On(EventStartReview).
		To(string(model.DocumentApproved)).On(EventApprove).
		To(string(model.DocumentRejected)).On(EventReject).
		Build()

	return &Machine{def: def}
}

// Apply runs event against a machine instance positioned at from and returns
// the resulting status. It fails when the lifecycle does not allow the event
// from that status.
func (m *Machine) Apply(from model.DocumentStatus, event string) (model.DocumentStatus, error) {
	inst := m.def.CreateInstance()
	if err := inst.Start(); err != nil {
		return from, fmt.Errorf("start review machine: %w", err)
	}
	if from != model.DocumentPending {
		if err := inst.SetState(string(from)); err != nil {
			return from, fmt.Errorf("unknown document status %q: %w", from, err)
		}
	}

	res := inst.SendEvent(event, nil)
	if res.Error != nil {
		return from, fmt.Errorf("%s not allowed from %s: %w", event, from, res.Error)
	}
	if !res.Processed {
		return from, fmt.Errorf("%s not allowed from %s", event, from)
	}
	return model.DocumentStatus(res.CurrentState), nil
}

// CanApply reports whether event is legal from the given status.
func (m *Machine) CanApply(from model.DocumentStatus, event string) bool {
	_, err := m.Apply(from, event)
	return err == nil
}
