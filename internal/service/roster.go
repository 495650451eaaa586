package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
)

// Roster implements student, class and course administration.
type Roster struct {
	studentStore model.StudentStore
	classStore   model.ClassStore
	courseStore  model.CourseStore
	logger       *logger.Logger
}

func NewRoster(
	studentStore model.StudentStore,
	classStore model.ClassStore,
	courseStore model.CourseStore,
	logger *logger.Logger,
) *Roster {
	return &Roster{
		studentStore: studentStore,
		classStore:   classStore,
		courseStore:  courseStore,
		logger:       logger,
	}
}

func (s *Roster) Students(ctx context.Context) ([]model.Student, error) {
	students, err := s.studentStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *Roster) Student(ctx context.Context, studentID string) (model.Student, error) {
	student, err := s.studentStore.GetByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Student{}, model.ErrNotFound
		}
		return model.Student{}, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func validateStudent(student model.Student) error {
	switch {
	case student.StudentID == "":
		return model.NewValidationError("student_id", "must not be empty")
	case student.FirstName == "":
		return model.NewValidationError("first_name", "must not be empty")
	case student.LastName == "":
		return model.NewValidationError("last_name", "must not be empty")
	case student.Department == "":
		return model.NewValidationError("department", "must not be empty")
	case student.Year == "":
		return model.NewValidationError("year", "must not be empty")
	}
	return nil
}

func (s *Roster) CreateStudent(ctx context.Context, student model.Student) (model.Student, error) {
	if err := validateStudent(student); err != nil {
		return model.Student{}, err
	}
	student.ID = uuid.New()

	created, err := s.studentStore.Create(ctx, student)
	if err != nil {
		return model.Student{}, fmt.Errorf("failed to create student: %w", err)
	}
	s.logger.Info("Roster service: student created", "student_id", created.StudentID)
	return created, nil
}

func (s *Roster) UpdateStudent(ctx context.Context, student model.Student) (model.Student, error) {
	if err := validateStudent(student); err != nil {
		return model.Student{}, err
	}

	updated, err := s.studentStore.Update(ctx, student)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Student{}, model.ErrNotFound
		}
		return model.Student{}, fmt.Errorf("failed to update student: %w", err)
	}
	return updated, nil
}

func (s *Roster) DeleteStudent(ctx context.Context, studentID string) error {
	if err := s.studentStore.Delete(ctx, studentID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete student: %w", err)
	}
	s.logger.Info("Roster service: student deleted", "student_id", studentID)
	return nil
}

func (s *Roster) Classes(ctx context.Context) ([]model.Class, error) {
	classes, err := s.classStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	return classes, nil
}

func (s *Roster) Courses(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courseStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *Roster) CoursesByDepartmentYear(ctx context.Context, department, year string) ([]model.Course, error) {
	courses, err := s.courseStore.ListByDepartmentYear(ctx, department, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// StudentCourses returns the courses a student is exposed to, i.e. those
// matching the student's department and year.
func (s *Roster) StudentCourses(ctx context.Context, studentID string) ([]model.Course, error) {
	student, err := s.Student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return s.CoursesByDepartmentYear(ctx, student.Department, student.Year)
}

func validateCourse(course model.Course) error {
	switch {
	case course.Name == "":
		return model.NewValidationError("name", "must not be empty")
	case course.Day == "":
		return model.NewValidationError("day", "must not be empty")
	case course.Department == "":
		return model.NewValidationError("department", "must not be empty")
	case course.Year == "":
		return model.NewValidationError("year", "must not be empty")
	}
	return nil
}

func (s *Roster) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	if err := validateCourse(course); err != nil {
		return model.Course{}, err
	}
	course.ID = uuid.New()

	created, err := s.courseStore.Create(ctx, course)
	if err != nil {
		return model.Course{}, fmt.Errorf("failed to create course: %w", err)
	}
	return created, nil
}

func (s *Roster) UpdateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	if err := validateCourse(course); err != nil {
		return model.Course{}, err
	}

	updated, err := s.courseStore.Update(ctx, course)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Course{}, model.ErrNotFound
		}
		return model.Course{}, fmt.Errorf("failed to update course: %w", err)
	}
	return updated, nil
}

func (s *Roster) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if err := s.courseStore.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return nil
}
