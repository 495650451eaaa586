package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"absenceportal/internal/model"
)

var _ model.StudentStore = (*StudentRepository)(nil)

type StudentRepository struct {
	db *sql.DB
}

func NewStudentRepository(db *sql.DB) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

// The absence counters on a student are derived, never stored.
const studentSelect = `
	SELECT s.id, s.first_name, s.last_name, s.email, s.student_id, s.department,
	       s.year, s.class, s.phone_number, s.address, s.user_id, s.join_date,
	       (SELECT count(*) FROM absences a WHERE a.student_id = s.student_id) AS absences,
	       (SELECT count(*) FROM absences a WHERE a.student_id = s.student_id AND a.status = 'justified') AS justified_absences
	FROM students s`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (model.Student, error) {
	var student model.Student
	var userID uuid.NullUUID
	err := row.Scan(
		&student.ID, &student.FirstName, &student.LastName, &student.Email,
		&student.StudentID, &student.Department, &student.Year, &student.ClassName,
		&student.PhoneNumber, &student.Address, &userID, &student.JoinDate,
		&student.AbsenceCount, &student.JustifiedCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Student{}, model.ErrNotFound
		}
		return model.Student{}, err
	}
	student.UserID = userID.UUID
	return student, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	query := studentSelect + ` ORDER BY s.last_name, s.first_name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (model.Student, error) {
	query := studentSelect + ` WHERE s.student_id = $1`
	return scanStudent(r.db.QueryRowContext(ctx, query, studentID))
}

func (r *StudentRepository) Create(ctx context.Context, student model.Student) (model.Student, error) {
	query := `
		INSERT INTO students (id, first_name, last_name, email, student_id, department, year, class, phone_number, address, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11::uuid, '00000000-0000-0000-0000-000000000000'))
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query,
		student.ID, student.FirstName, student.LastName, student.Email,
		student.StudentID, student.Department, student.Year, student.ClassName,
		student.PhoneNumber, student.Address, student.UserID,
	).Scan(&student.ID); err != nil {
		return model.Student{}, err
	}
	return r.GetByStudentID(ctx, student.StudentID)
}

func (r *StudentRepository) Update(ctx context.Context, student model.Student) (model.Student, error) {
	query := `
		UPDATE students
		SET first_name = $2, last_name = $3, email = $4, department = $5, year = $6,
		    class = $7, phone_number = $8, address = $9,
		    user_id = NULLIF($10::uuid, '00000000-0000-0000-0000-000000000000')
		WHERE student_id = $1
		RETURNING id`
	var id uuid.UUID
	if err := r.db.QueryRowContext(ctx, query,
		student.StudentID, student.FirstName, student.LastName, student.Email,
		student.Department, student.Year, student.ClassName,
		student.PhoneNumber, student.Address, student.UserID,
	).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Student{}, model.ErrNotFound
		}
		return model.Student{}, err
	}
	return r.GetByStudentID(ctx, student.StudentID)
}

func (r *StudentRepository) Delete(ctx context.Context, studentID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

var _ model.ClassStore = (*ClassRepository)(nil)

type ClassRepository struct {
	db *sql.DB
}

func NewClassRepository(db *sql.DB) *ClassRepository {
	return &ClassRepository{
		db: db,
	}
}

func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, department, year FROM classes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		var class model.Class
		if err := rows.Scan(&class.ID, &class.Name, &class.Department, &class.Year); err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}
