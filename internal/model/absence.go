package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status is the justification state of an absence. The set is closed.
type Status string

const (
	// StatusAbsent is the initial state of an attendance-recorded absence.
	StatusAbsent Status = "absent"
	// StatusPending means a justification claim has been submitted and
	// awaits a supervisor decision.
	StatusPending Status = "pending"
	// StatusJustified means a supervisor approved the claim.
	StatusJustified Status = "justified"
	// StatusUnjustified means a supervisor rejected the claim.
	StatusUnjustified Status = "unjustified"
	// StatusPresent is terminal and only ever written by attendance
	// recording, never by the claim workflow.
	StatusPresent Status = "present"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAbsent, StatusPending, StatusJustified, StatusUnjustified, StatusPresent:
		return true
	}
	return false
}

// transitions is the full set of status changes the claim workflow may
// request. Anything not listed is rejected.
var transitions = map[Status][]Status{
	StatusAbsent:  {StatusPending},
	StatusPending: {StatusJustified, StatusUnjustified},
}

// CanTransitionTo reports whether the claim workflow may move an absence
// from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// AbsenceStore defines persistence operations for absences. Absences are
// never physically deleted.
type AbsenceStore interface {
	List(ctx context.Context) ([]Absence, error)
	ListByStudent(ctx context.Context, studentID string) ([]Absence, error)
	GetByID(ctx context.Context, id uuid.UUID) (Absence, error)
	Create(ctx context.Context, absence Absence) (Absence, error)
	UpdateStatus(ctx context.Context, params TransitionParams) (Absence, error)
}

// Absence records a student's non-attendance at one course session.
// StudentID is the business identifier of the subject, not a row reference.
// SubmittedOn is written once, when a justification first arrives.
type Absence struct {
	ID          uuid.UUID  `json:"id"`
	StudentID   string     `json:"student_id"`
	Subject     string     `json:"subject"`
	Date        string     `json:"date"`
	TimeSlot    string     `json:"time"`
	Status      Status     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	Description string     `json:"description,omitempty"`
	DocumentURL string     `json:"document_url,omitempty"`
	SubmittedOn *time.Time `json:"submitted_on,omitempty"`

	// RequestID is the client-generated idempotency key of the mutation
	// that produced this row state. Not exposed on the wire.
	RequestID uuid.UUID `json:"-"`
}

// TransitionParams describes a status change request against the store.
// Reason and Description accompany a claim submission; they are ignored on
// review transitions.
type TransitionParams struct {
	ID          uuid.UUID
	Status      Status
	Reason      string
	Description string
	DocumentURL string
	RequestID   uuid.UUID
}
