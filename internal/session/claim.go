package session

import (
	"context"

	"github.com/google/uuid"

	"absenceportal/internal/model"
	"absenceportal/internal/remote"
)

// Claims composes the scope filter, the status transition table and the
// synchronization layer into the two user-facing workflows: a student files
// or submits a justification claim, a supervisor decides it. A failing check
// aborts the flow before any remote call.
type Claims struct {
	session *Session
}

// NewClaims wraps a session with the claim workflow.
func NewClaims(session *Session) *Claims {
	return &Claims{session: session}
}

// FileParams describes a brand new claim, filed for an absence the store
// does not know about yet. The record is created directly in pending.
type FileParams struct {
	Subject     string
	Date        string
	TimeSlot    string
	Reason      string
	Description string
	Document    *remote.Document
}

// File creates a new pending claim for the calling student's own record.
func (c *Claims) File(ctx context.Context, params FileParams) (model.Absence, error) {
	scope := c.session.Scope()
	if scope.Role != model.RoleStudent {
		return model.Absence{}, model.ErrInvalidRole
	}
	if !scope.Linked {
		return model.Absence{}, model.ErrStudentNotLinked
	}
	if params.Subject == "" {
		return model.Absence{}, model.NewValidationError("subject", "must not be empty")
	}
	if params.Date == "" {
		return model.Absence{}, model.NewValidationError("date", "must not be empty")
	}
	if params.Reason == "" {
		return model.Absence{}, model.NewValidationError("reason", "required when submitting a claim")
	}

	return c.session.CreateAbsence(ctx, remote.CreateAbsenceParams{
		StudentID:   scope.StudentID,
		Subject:     params.Subject,
		Date:        params.Date,
		TimeSlot:    params.TimeSlot,
		Status:      model.StatusPending,
		Reason:      params.Reason,
		Description: params.Description,
		Document:    params.Document,
	})
}

// Submit files a claim against an existing absent record, moving it to
// pending. Only the owning student may submit, and a reason is required.
func (c *Claims) Submit(ctx context.Context, absenceID uuid.UUID, reason, description string) (model.Absence, error) {
	scope := c.session.Scope()
	if scope.Role != model.RoleStudent {
		return model.Absence{}, model.ErrInvalidRole
	}
	if reason == "" {
		return model.Absence{}, model.NewValidationError("reason", "required when submitting a claim")
	}

	absence, err := c.session.Absence(absenceID)
	if err != nil {
		return model.Absence{}, err
	}
	if !scope.OwnsAbsence(absence) {
		return model.Absence{}, model.ErrNotFound
	}

	return c.session.TransitionAbsence(ctx, model.TransitionParams{
		ID:          absenceID,
		Status:      model.StatusPending,
		Reason:      reason,
		Description: description,
	})
}

// Approve marks a pending claim justified. Supervisor only.
func (c *Claims) Approve(ctx context.Context, absenceID uuid.UUID) (model.Absence, error) {
	return c.decide(ctx, absenceID, model.StatusJustified)
}

// Reject marks a pending claim unjustified. Supervisor only.
func (c *Claims) Reject(ctx context.Context, absenceID uuid.UUID) (model.Absence, error) {
	return c.decide(ctx, absenceID, model.StatusUnjustified)
}

func (c *Claims) decide(ctx context.Context, absenceID uuid.UUID, verdict model.Status) (model.Absence, error) {
	if c.session.Scope().Role != model.RoleSupervisor {
		return model.Absence{}, model.ErrInvalidRole
	}
	return c.session.TransitionAbsence(ctx, model.TransitionParams{
		ID:     absenceID,
		Status: verdict,
	})
}
