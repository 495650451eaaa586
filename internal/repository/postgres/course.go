package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"absenceportal/internal/model"
)

var _ model.CourseStore = (*CourseRepository)(nil)

type CourseRepository struct {
	db *sql.DB
}

func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

const courseColumns = `id, name, room, day, start_time, end_time, professor, department, year`

func scanCourse(row rowScanner) (model.Course, error) {
	var course model.Course
	err := row.Scan(
		&course.ID, &course.Name, &course.Room, &course.Day,
		&course.StartTime, &course.EndTime, &course.Professor,
		&course.Department, &course.Year,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Course{}, model.ErrNotFound
		}
		return model.Course{}, err
	}
	return course, nil
}

func (r *CourseRepository) collect(rows *sql.Rows) ([]model.Course, error) {
	defer rows.Close()
	var courses []model.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses ORDER BY day, start_time`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *CourseRepository) ListByDepartmentYear(ctx context.Context, department, year string) ([]model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE department = $1 AND year = $2 ORDER BY day, start_time`
	rows, err := r.db.QueryContext(ctx, query, department, year)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *CourseRepository) Create(ctx context.Context, course model.Course) (model.Course, error) {
	query := `
		INSERT INTO courses (id, name, room, day, start_time, end_time, professor, department, year)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + courseColumns
	return scanCourse(r.db.QueryRowContext(ctx, query,
		course.ID, course.Name, course.Room, course.Day,
		course.StartTime, course.EndTime, course.Professor,
		course.Department, course.Year,
	))
}

func (r *CourseRepository) Update(ctx context.Context, course model.Course) (model.Course, error) {
	query := `
		UPDATE courses
		SET name = $2, room = $3, day = $4, start_time = $5, end_time = $6, professor = $7, department = $8, year = $9
		WHERE id = $1
		RETURNING ` + courseColumns
	return scanCourse(r.db.QueryRowContext(ctx, query,
		course.ID, course.Name, course.Room, course.Day,
		course.StartTime, course.EndTime, course.Professor,
		course.Department, course.Year,
	))
}

func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
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
