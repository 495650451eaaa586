// Package session holds the client-side synchronization layer: a per-session
// working set populated from the remote store, reconciled from authoritative
// responses after every successful mutation, and read through a role scope.
package session

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
	"absenceportal/internal/remote"
)

// RemoteStore is the slice of the store client the session depends on.
type RemoteStore interface {
	Login(ctx context.Context, email, password string, role model.Role) (model.User, error)
	ListStudents(ctx context.Context) ([]model.Student, error)
	ListClasses(ctx context.Context) ([]model.Class, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	ListStudentCourses(ctx context.Context, studentID string) ([]model.Course, error)
	ListAbsences(ctx context.Context) ([]model.Absence, error)
	ListStudentAbsences(ctx context.Context, studentID string) ([]model.Absence, error)
	CreateAbsence(ctx context.Context, params remote.CreateAbsenceParams) (model.Absence, error)
	TransitionAbsence(ctx context.Context, params model.TransitionParams) (model.Absence, error)
	CreateStudent(ctx context.Context, student model.Student, requestID uuid.UUID) (model.Student, error)
	UpdateStudent(ctx context.Context, student model.Student, requestID uuid.UUID) (model.Student, error)
	DeleteStudent(ctx context.Context, studentID string, requestID uuid.UUID) error
	CreateCourse(ctx context.Context, course model.Course, requestID uuid.UUID) (model.Course, error)
	UpdateCourse(ctx context.Context, course model.Course, requestID uuid.UUID) (model.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID, requestID uuid.UUID) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.User, error)
	UpdateProfileImage(ctx context.Context, userID uuid.UUID, image string) (model.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// Session owns one working set. It is single-writer: mutations are issued one
// per user action and the set is only ever updated from a successful remote
// response, never speculatively.
type Session struct {
	store  RemoteStore
	logger *logger.Logger

	user  model.User
	scope Scope
	set   *workingSet
	ready bool
}

// New creates an unauthenticated session.
func New(store RemoteStore, logger *logger.Logger) *Session {
	return &Session{
		store:  store,
		logger: logger,
		set:    newWorkingSet(),
	}
}

// Login authenticates against the store and records the session identity.
// The working set stays empty until Initialize.
func (s *Session) Login(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	if !role.Valid() {
		return model.User{}, model.ErrInvalidRole
	}
	user, err := s.store.Login(ctx, email, password, role)
	if err != nil {
		return model.User{}, err
	}
	s.user = user
	s.ready = false
	s.set = newWorkingSet()
	return user, nil
}

// User returns the authenticated identity.
func (s *Session) User() model.User {
	return s.user
}

// Scope returns the resolved visibility boundary.
func (s *Session) Scope() Scope {
	return s.scope
}

// Initialize performs the full scoped fetch and populates the working set
// with one consistent snapshot. If any fetch in the batch fails, the set is
// left empty and the whole call fails with ErrPartialFetch.
func (s *Session) Initialize(ctx context.Context) error {
	s.ready = false
	s.set = newWorkingSet()

	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return fmt.Errorf("%w: students: %s", model.ErrPartialFetch, err)
	}

	scope, err := ResolveScope(s.user, students)
	if err != nil && !errors.Is(err, model.ErrStudentNotLinked) {
		return err
	}
	s.scope = scope
	if errors.Is(err, model.ErrStudentNotLinked) {
		s.logger.Warn("no student record linked to user, view will be empty",
			"user_id", s.user.ID)
	}

	classes, err := s.store.ListClasses(ctx)
	if err != nil {
		return fmt.Errorf("%w: classes: %s", model.ErrPartialFetch, err)
	}

	courses, absences, err := s.fetchScoped(ctx, scope)
	if err != nil {
		return err
	}

	s.set.populate(students, classes, courses, absences)
	s.ready = true
	s.logger.Info("working set initialized",
		"role", scope.Role,
		"students", len(students),
		"courses", len(courses),
		"absences", len(absences))
	return nil
}

func (s *Session) fetchScoped(ctx context.Context, scope Scope) ([]model.Course, []model.Absence, error) {
	if scope.Role == model.RoleStudent {
		if !scope.Linked {
			return nil, nil, nil
		}
		courses, err := s.store.ListStudentCourses(ctx, scope.StudentID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: courses: %s", model.ErrPartialFetch, err)
		}
		absences, err := s.store.ListStudentAbsences(ctx, scope.StudentID)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: absences: %s", model.ErrPartialFetch, err)
		}
		return courses, absences, nil
	}

	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: courses: %s", model.ErrPartialFetch, err)
	}
	absences, err := s.store.ListAbsences(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: absences: %s", model.ErrPartialFetch, err)
	}
	return courses, absences, nil
}

// Ready reports whether Initialize has completed since the last login.
func (s *Session) Ready() bool {
	return s.ready
}

// Students returns the visible student roster.
func (s *Session) Students() []model.Student {
	if s.scope.Role == model.RoleStudent {
		if !s.scope.Linked {
			return nil
		}
		if student, ok := s.set.students[s.scope.StudentID]; ok {
			return []model.Student{student}
		}
		return nil
	}
	return s.set.studentList()
}

// Student looks up one visible student by business id.
func (s *Session) Student(studentID string) (model.Student, error) {
	student, ok := s.set.students[studentID]
	if !ok {
		return model.Student{}, model.ErrNotFound
	}
	if s.scope.Role == model.RoleStudent && studentID != s.scope.StudentID {
		return model.Student{}, model.ErrNotFound
	}
	return student, nil
}

// Classes returns the class groupings. Visible to both roles.
func (s *Session) Classes() []model.Class {
	return s.set.classList()
}

// Courses returns the scope-filtered course list.
func (s *Session) Courses() []model.Course {
	return s.scope.FilterCourses(s.set.courseList())
}

// Absences returns the scope-filtered absence list.
func (s *Session) Absences() []model.Absence {
	return s.scope.FilterAbsences(s.set.absenceList())
}

// Absence looks up one visible absence by id.
func (s *Session) Absence(id uuid.UUID) (model.Absence, error) {
	absence, ok := s.set.absences[id]
	if !ok || !s.scope.CanViewAbsence(absence) {
		return model.Absence{}, model.ErrNotFound
	}
	return absence, nil
}

// CreateAbsence files a new absence record at the store and reconciles the
// working set from the response.
func (s *Session) CreateAbsence(ctx context.Context, params remote.CreateAbsenceParams) (model.Absence, error) {
	if params.RequestID == uuid.Nil {
		params.RequestID = uuid.New()
	}
	created, err := s.store.CreateAbsence(ctx, params)
	if err != nil {
		return model.Absence{}, err
	}
	s.set.putAbsence(created)
	return created, nil
}

// TransitionAbsence requests a status change. Legality is checked against
// the working set snapshot before any remote call; an illegal pair never
// reaches the store.
func (s *Session) TransitionAbsence(ctx context.Context, params model.TransitionParams) (model.Absence, error) {
	if !params.Status.Valid() {
		return model.Absence{}, model.NewValidationError("status", "unknown status value")
	}
	current, err := s.Absence(params.ID)
	if err != nil {
		return model.Absence{}, err
	}
	if !current.Status.CanTransitionTo(params.Status) {
		return model.Absence{}, fmt.Errorf("%w: %s to %s", model.ErrIllegalTransition, current.Status, params.Status)
	}
	if params.RequestID == uuid.Nil {
		params.RequestID = uuid.New()
	}

	updated, err := s.store.TransitionAbsence(ctx, params)
	if err != nil {
		return model.Absence{}, err
	}
	s.set.putAbsence(updated)
	return updated, nil
}

// AddStudent creates a roster entry. Supervisor only.
func (s *Session) AddStudent(ctx context.Context, student model.Student) (model.Student, error) {
	if !s.scope.CanManageRoster() {
		return model.Student{}, model.ErrInvalidRole
	}
	created, err := s.store.CreateStudent(ctx, student, uuid.New())
	if err != nil {
		return model.Student{}, err
	}
	s.set.putStudent(created)
	return created, nil
}

// UpdateStudent replaces a roster entry. Supervisor only.
func (s *Session) UpdateStudent(ctx context.Context, student model.Student) (model.Student, error) {
	if !s.scope.CanManageRoster() {
		return model.Student{}, model.ErrInvalidRole
	}
	updated, err := s.store.UpdateStudent(ctx, student, uuid.New())
	if err != nil {
		return model.Student{}, err
	}
	s.set.putStudent(updated)
	return updated, nil
}

// DeleteStudent removes a roster entry. Supervisor only. Absences keep
// their subject reference; the store never cascades deletes to them.
func (s *Session) DeleteStudent(ctx context.Context, studentID string) error {
	if !s.scope.CanManageRoster() {
		return model.ErrInvalidRole
	}
	if err := s.store.DeleteStudent(ctx, studentID, uuid.New()); err != nil {
		return err
	}
	s.set.removeStudent(studentID)
	return nil
}

// AddCourse creates a timetable entry. Supervisor only.
func (s *Session) AddCourse(ctx context.Context, course model.Course) (model.Course, error) {
	if !s.scope.CanManageRoster() {
		return model.Course{}, model.ErrInvalidRole
	}
	created, err := s.store.CreateCourse(ctx, course, uuid.New())
	if err != nil {
		return model.Course{}, err
	}
	s.set.putCourse(created)
	return created, nil
}

// UpdateCourse replaces a timetable entry. Supervisor only.
func (s *Session) UpdateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	if !s.scope.CanManageRoster() {
		return model.Course{}, model.ErrInvalidRole
	}
	updated, err := s.store.UpdateCourse(ctx, course, uuid.New())
	if err != nil {
		return model.Course{}, err
	}
	s.set.putCourse(updated)
	return updated, nil
}

// DeleteCourse removes a timetable entry. Supervisor only.
func (s *Session) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	if !s.scope.CanManageRoster() {
		return model.ErrInvalidRole
	}
	if err := s.store.DeleteCourse(ctx, id, uuid.New()); err != nil {
		return err
	}
	s.set.removeCourse(id)
	return nil
}

// UpdateProfile changes the session identity's contact fields.
func (s *Session) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (model.User, error) {
	user, err := s.store.UpdateProfile(ctx, s.user.ID, update)
	if err != nil {
		return model.User{}, err
	}
	s.user = user
	return user, nil
}

// UpdateProfileImage changes the session identity's avatar reference.
func (s *Session) UpdateProfileImage(ctx context.Context, image string) (model.User, error) {
	user, err := s.store.UpdateProfileImage(ctx, s.user.ID, image)
	if err != nil {
		return model.User{}, err
	}
	s.user = user
	return user, nil
}

// UpdatePassword changes the session identity's password.
func (s *Session) UpdatePassword(ctx context.Context, current, next string) error {
	if next == "" {
		return model.NewValidationError("new_password", "must not be empty")
	}
	return s.store.UpdatePassword(ctx, s.user.ID, current, next)
}

// ExportStudentsCSV writes the visible roster with its derived absence
// counters.
func (s *Session) ExportStudentsCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"student_id", "first_name", "last_name", "department", "year", "class", "absences", "justified_absences"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, st := range s.Students() {
		record := []string{
			st.StudentID,
			st.FirstName,
			st.LastName,
			st.Department,
			st.Year,
			st.ClassName,
			strconv.Itoa(st.AbsenceCount),
			strconv.Itoa(st.JustifiedCount),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
