package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
)

// documentPrefix is the relative path under which stored documents are
// served back to clients.
const documentPrefix = "/uploads/absence_documents/"

// maxDocumentSize bounds uploaded justification documents (5 MiB).
const maxDocumentSize = 5 << 20

var allowedDocumentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// Absence implements claim intake and status persistence. The store is
// deliberately dumb about transition legality; the client core is the sole
// gate for the transition table. What the store does enforce is idempotency
// of mutations.
type Absence struct {
	absenceStore model.AbsenceStore
	studentStore model.StudentStore
	documents    model.DocumentStorage
	logger       *logger.Logger
}

func NewAbsence(
	absenceStore model.AbsenceStore,
	studentStore model.StudentStore,
	documents model.DocumentStorage,
	logger *logger.Logger,
) *Absence {
	return &Absence{
		absenceStore: absenceStore,
		studentStore: studentStore,
		documents:    documents,
		logger:       logger,
	}
}

// DocumentUpload describes an incoming justification document.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// CreateClaimParams describes an absence claim being filed.
type CreateClaimParams struct {
	StudentID   string
	Subject     string
	Date        string
	TimeSlot    string
	Status      model.Status
	Reason      string
	Description string
	Document    *DocumentUpload
	RequestID   uuid.UUID
}

func (s *Absence) List(ctx context.Context) ([]model.Absence, error) {
	absences, err := s.absenceStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	return absences, nil
}

func (s *Absence) ListByStudent(ctx context.Context, studentID string) ([]model.Absence, error) {
	absences, err := s.absenceStore.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences by student: %w", err)
	}
	return absences, nil
}

// CreateClaim records a new absence. The subject reference must resolve to
// an existing student. A justification accompanying the creation puts the
// record straight into pending, which also stamps submitted_on.
func (s *Absence) CreateClaim(ctx context.Context, params CreateClaimParams) (model.Absence, error) {
	if params.StudentID == "" {
		return model.Absence{}, model.NewValidationError("student_id", "must not be empty")
	}
	if params.Subject == "" {
		return model.Absence{}, model.NewValidationError("subject", "must not be empty")
	}
	if params.Status == "" {
		params.Status = model.StatusPending
	}
	if !params.Status.Valid() {
		return model.Absence{}, model.NewValidationError("status", fmt.Sprintf("unknown value %q", params.Status))
	}
	if params.Status == model.StatusPending && params.Reason == "" {
		return model.Absence{}, model.NewValidationError("reason", "required when submitting a justification")
	}

	if _, err := s.studentStore.GetByStudentID(ctx, params.StudentID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Absence{}, model.ErrNotFound
		}
		return model.Absence{}, fmt.Errorf("failed to resolve student: %w", err)
	}

	absence := model.Absence{
		ID:          uuid.New(),
		StudentID:   params.StudentID,
		Subject:     params.Subject,
		Date:        params.Date,
		TimeSlot:    params.TimeSlot,
		Status:      params.Status,
		Reason:      params.Reason,
		Description: params.Description,
		RequestID:   params.RequestID,
	}
	if absence.RequestID == uuid.Nil {
		absence.RequestID = uuid.New()
	}

	if params.Document != nil {
		url, err := s.storeDocument(ctx, absence.ID, params.Document)
		if err != nil {
			return model.Absence{}, err
		}
		absence.DocumentURL = url
	}

	created, err := s.absenceStore.Create(ctx, absence)
	if err != nil {
		return model.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}

	s.logger.Info("Absence service: claim recorded",
		"absence_id", created.ID,
		"student_id", created.StudentID,
		"status", created.Status)

	return created, nil
}

// Transition persists a status change. Replays of the same request id return
// the current row without re-applying anything.
func (s *Absence) Transition(ctx context.Context, params model.TransitionParams) (model.Absence, error) {
	if !params.Status.Valid() {
		return model.Absence{}, model.NewValidationError("status", fmt.Sprintf("unknown value %q", params.Status))
	}
	if params.RequestID == uuid.Nil {
		params.RequestID = uuid.New()
	}

	updated, err := s.absenceStore.UpdateStatus(ctx, params)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Absence{}, model.ErrNotFound
		}
		return model.Absence{}, fmt.Errorf("failed to update absence status: %w", err)
	}

	s.logger.Info("Absence service: status updated",
		"absence_id", updated.ID,
		"status", updated.Status)

	return updated, nil
}

// Document streams a stored justification document by its relative URL.
func (s *Absence) Document(ctx context.Context, documentURL string) (io.ReadCloser, error) {
	key := strings.TrimPrefix(documentURL, documentPrefix)
	if key == "" || strings.Contains(key, "/") {
		return nil, model.ErrNotFound
	}

	reader, err := s.documents.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	return reader, nil
}

func (s *Absence) storeDocument(ctx context.Context, absenceID uuid.UUID, doc *DocumentUpload) (string, error) {
	if !allowedDocumentTypes[doc.ContentType] {
		return "", model.NewValidationError("document", fmt.Sprintf("unsupported content type %q", doc.ContentType))
	}
	if doc.Size > maxDocumentSize {
		return "", model.NewValidationError("document", "exceeds the 5 MiB limit")
	}

	key := absenceID.String() + strings.ToLower(path.Ext(doc.FileName))
	if err := s.documents.Upload(ctx, key, doc.Reader, doc.Size, doc.ContentType); err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}

	return documentPrefix + key, nil
}
