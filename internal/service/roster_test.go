package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
)

// MockClassStore mocks the ClassStore interface
type MockClassStore struct {
	mock.Mock
}

func (m *MockClassStore) List(ctx context.Context) ([]model.Class, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Class), args.Error(1)
}

// MockCourseStore mocks the CourseStore interface
type MockCourseStore struct {
	mock.Mock
}

func (m *MockCourseStore) List(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseStore) ListByDepartmentYear(ctx context.Context, department, year string) ([]model.Course, error) {
	args := m.Called(ctx, department, year)
	return args.Get(0).([]model.Course), args.Error(1)
}

func (m *MockCourseStore) Create(ctx context.Context, course model.Course) (model.Course, error) {
	args := m.Called(ctx, course)
	return args.Get(0).(model.Course), args.Error(1)
}

func (m *MockCourseStore) Update(ctx context.Context, course model.Course) (model.Course, error) {
	args := m.Called(ctx, course)
	return args.Get(0).(model.Course), args.Error(1)
}

func (m *MockCourseStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newRoster(studentStore *MockStudentStore, classStore *MockClassStore, courseStore *MockCourseStore) *Roster {
	return NewRoster(studentStore, classStore, courseStore, logger.New(0))
}

func TestRosterService_CreateStudent(t *testing.T) {
	tests := []struct {
		name    string
		student model.Student
		wantErr bool
	}{
		{
			name: "complete record",
			student: model.Student{
				FirstName: "Youssef", LastName: "Amrani", StudentID: "S100",
				Department: "CS", Year: "3",
			},
		},
		{
			name:    "missing business id",
			student: model.Student{FirstName: "Youssef", LastName: "Amrani", Department: "CS", Year: "3"},
			wantErr: true,
		},
		{
			name:    "missing department",
			student: model.Student{FirstName: "Youssef", LastName: "Amrani", StudentID: "S100", Year: "3"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			studentStore := &MockStudentStore{}
			if !tt.wantErr {
				studentStore.On("Create", mock.Anything, mock.MatchedBy(func(s model.Student) bool {
					return s.ID != uuid.Nil && s.StudentID == tt.student.StudentID
				})).Return(tt.student, nil)
			}

			service := newRoster(studentStore, &MockClassStore{}, &MockCourseStore{})
			_, err := service.CreateStudent(context.Background(), tt.student)

			if tt.wantErr {
				require.True(t, model.IsValidation(err))
			} else {
				require.NoError(t, err)
			}
			studentStore.AssertExpectations(t)
		})
	}
}

func TestRosterService_StudentCourses(t *testing.T) {
	studentStore := &MockStudentStore{}
	courseStore := &MockCourseStore{}

	studentStore.On("GetByStudentID", mock.Anything, "S100").Return(model.Student{
		StudentID: "S100", Department: "CS", Year: "3",
	}, nil)
	courseStore.On("ListByDepartmentYear", mock.Anything, "CS", "3").Return([]model.Course{
		{ID: uuid.New(), Name: "Networks", Department: "CS", Year: "3"},
	}, nil)

	service := newRoster(studentStore, &MockClassStore{}, courseStore)
	courses, err := service.StudentCourses(context.Background(), "S100")

	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Networks", courses[0].Name)
}

func TestRosterService_StudentCourses_UnknownStudent(t *testing.T) {
	studentStore := &MockStudentStore{}
	studentStore.On("GetByStudentID", mock.Anything, "S999").Return(model.Student{}, model.ErrNotFound)

	service := newRoster(studentStore, &MockClassStore{}, &MockCourseStore{})
	_, err := service.StudentCourses(context.Background(), "S999")

	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestRosterService_CreateCourse_Validation(t *testing.T) {
	service := newRoster(&MockStudentStore{}, &MockClassStore{}, &MockCourseStore{})

	_, err := service.CreateCourse(context.Background(), model.Course{Name: "Networks", Day: "Monday", Year: "3"})
	require.True(t, model.IsValidation(err))
}
