package model

import (
	"context"

	"github.com/google/uuid"
)

// CourseStore defines persistence operations for scheduled courses.
type CourseStore interface {
	List(ctx context.Context) ([]Course, error)
	ListByDepartmentYear(ctx context.Context, department, year string) ([]Course, error)
	Create(ctx context.Context, course Course) (Course, error)
	Update(ctx context.Context, course Course) (Course, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Course is one scheduled timetable slot. Students are exposed to the
// courses whose (department, year) match their own.
type Course struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Room       string    `json:"room"`
	Day        string    `json:"day"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	Professor  string    `json:"professor"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
}
