package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"absenceportal/internal/model"
)

var _ model.AbsenceStore = (*AbsenceRepository)(nil)

type AbsenceRepository struct {
	db *sql.DB
}

func NewAbsenceRepository(db *sql.DB) *AbsenceRepository {
	return &AbsenceRepository{
		db: db,
	}
}

const absenceColumns = `id, student_id, subject, date, time_slot, status, reason, description, document_url, submitted_on, request_id`

func scanAbsence(row rowScanner) (model.Absence, error) {
	var absence model.Absence
	var requestID uuid.NullUUID
	err := row.Scan(
		&absence.ID, &absence.StudentID, &absence.Subject, &absence.Date,
		&absence.TimeSlot, &absence.Status, &absence.Reason, &absence.Description,
		&absence.DocumentURL, &absence.SubmittedOn, &requestID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Absence{}, model.ErrNotFound
		}
		return model.Absence{}, err
	}
	absence.RequestID = requestID.UUID
	return absence, nil
}

func (r *AbsenceRepository) collect(rows *sql.Rows) ([]model.Absence, error) {
	defer rows.Close()
	var absences []model.Absence
	for rows.Next() {
		absence, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, absence)
	}
	return absences, rows.Err()
}

func (r *AbsenceRepository) List(ctx context.Context) ([]model.Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences ORDER BY date DESC, time_slot DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *AbsenceRepository) ListByStudent(ctx context.Context, studentID string) ([]model.Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences WHERE student_id = $1 ORDER BY date DESC, time_slot DESC`
	rows, err := r.db.QueryContext(ctx, query, studentID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *AbsenceRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Absence, error) {
	query := `SELECT ` + absenceColumns + ` FROM absences WHERE id = $1`
	return scanAbsence(r.db.QueryRowContext(ctx, query, id))
}

// Create inserts an absence; when the idempotency key was already consumed
// the existing row is returned instead of a duplicate.
func (r *AbsenceRepository) Create(ctx context.Context, absence model.Absence) (model.Absence, error) {
	query := `
		WITH ins AS (
			INSERT INTO absences (id, student_id, subject, date, time_slot, status, reason, description, document_url, submitted_on, request_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			        CASE WHEN $6 = 'pending' THEN now() ELSE NULL END,
			        NULLIF($10::uuid, '00000000-0000-0000-0000-000000000000'))
			ON CONFLICT (request_id) WHERE request_id IS NOT NULL DO NOTHING
			RETURNING ` + absenceColumns + `
		)
		SELECT ` + absenceColumns + ` FROM ins
		UNION ALL
		SELECT ` + absenceColumns + ` FROM absences
		WHERE NOT EXISTS (SELECT 1 FROM ins)
		  AND request_id = NULLIF($10::uuid, '00000000-0000-0000-0000-000000000000')
		LIMIT 1`
	return scanAbsence(r.db.QueryRowContext(ctx, query,
		absence.ID, absence.StudentID, absence.Subject, absence.Date,
		absence.TimeSlot, string(absence.Status), absence.Reason,
		absence.Description, absence.DocumentURL, absence.RequestID,
	))
}

// UpdateStatus applies a status change and records the idempotency key on
// the row. A replayed key matches nothing and falls through to returning the
// current row unchanged. submitted_on is written only once, when the first
// justification arrives.
func (r *AbsenceRepository) UpdateStatus(ctx context.Context, params model.TransitionParams) (model.Absence, error) {
	query := `
		UPDATE absences
		SET status = $2,
		    reason = COALESCE(NULLIF($3, ''), reason),
		    description = COALESCE(NULLIF($4, ''), description),
		    document_url = COALESCE(NULLIF($5, ''), document_url),
		    submitted_on = CASE WHEN $2 = 'pending' THEN COALESCE(submitted_on, now()) ELSE submitted_on END,
		    request_id = NULLIF($6::uuid, '00000000-0000-0000-0000-000000000000')
		WHERE id = $1
		  AND request_id IS DISTINCT FROM NULLIF($6::uuid, '00000000-0000-0000-0000-000000000000')
		RETURNING ` + absenceColumns
	absence, err := scanAbsence(r.db.QueryRowContext(ctx, query,
		params.ID, string(params.Status), params.Reason, params.Description,
		params.DocumentURL, params.RequestID,
	))
	if errors.Is(err, model.ErrNotFound) {
		// Either the id is unknown or the key was replayed; GetByID decides.
		return r.GetByID(ctx, params.ID)
	}
	return absence, err
}
