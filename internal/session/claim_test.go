package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absenceportal/internal/model"
	"absenceportal/internal/remote"
	"absenceportal/internal/testutil"
)

// fakeStore is a stateful in-memory store for workflow tests. It behaves
// like the real one: transitions are applied blindly, submitted_on is set
// once, and duplicate request ids replay the stored record.
type fakeStore struct {
	students []model.Student
	classes  []model.Class
	courses  []model.Course
	absences map[uuid.UUID]model.Absence
	requests map[uuid.UUID]uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		absences: make(map[uuid.UUID]model.Absence),
		requests: make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeStore) Login(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	return model.User{ID: uuid.New(), Email: email, Role: role}, nil
}

func (f *fakeStore) ListStudents(ctx context.Context) ([]model.Student, error) {
	return f.students, nil
}

func (f *fakeStore) ListClasses(ctx context.Context) ([]model.Class, error) {
	return f.classes, nil
}

func (f *fakeStore) ListCourses(ctx context.Context) ([]model.Course, error) {
	return f.courses, nil
}

func (f *fakeStore) ListStudentCourses(ctx context.Context, studentID string) ([]model.Course, error) {
	return f.courses, nil
}

func (f *fakeStore) ListAbsences(ctx context.Context) ([]model.Absence, error) {
	absences := make([]model.Absence, 0, len(f.absences))
	for _, a := range f.absences {
		absences = append(absences, a)
	}
	return absences, nil
}

func (f *fakeStore) ListStudentAbsences(ctx context.Context, studentID string) ([]model.Absence, error) {
	var absences []model.Absence
	for _, a := range f.absences {
		if a.StudentID == studentID {
			absences = append(absences, a)
		}
	}
	return absences, nil
}

func (f *fakeStore) CreateAbsence(ctx context.Context, params remote.CreateAbsenceParams) (model.Absence, error) {
	if id, ok := f.requests[params.RequestID]; ok {
		return f.absences[id], nil
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
	}
	if params.Status == model.StatusPending {
		now := time.Now()
		absence.SubmittedOn = &now
	}
	f.absences[absence.ID] = absence
	if params.RequestID != uuid.Nil {
		f.requests[params.RequestID] = absence.ID
	}
	return absence, nil
}

func (f *fakeStore) TransitionAbsence(ctx context.Context, params model.TransitionParams) (model.Absence, error) {
	if id, ok := f.requests[params.RequestID]; ok {
		return f.absences[id], nil
	}
	absence, ok := f.absences[params.ID]
	if !ok {
		return model.Absence{}, model.ErrNotFound
	}
	absence.Status = params.Status
	if params.Reason != "" {
		absence.Reason = params.Reason
	}
	if params.Description != "" {
		absence.Description = params.Description
	}
	if params.Status == model.StatusPending && absence.SubmittedOn == nil {
		now := time.Now()
		absence.SubmittedOn = &now
	}
	f.absences[absence.ID] = absence
	if params.RequestID != uuid.Nil {
		f.requests[params.RequestID] = absence.ID
	}
	return absence, nil
}

func (f *fakeStore) CreateStudent(ctx context.Context, student model.Student, requestID uuid.UUID) (model.Student, error) {
	f.students = append(f.students, student)
	return student, nil
}

func (f *fakeStore) UpdateStudent(ctx context.Context, student model.Student, requestID uuid.UUID) (model.Student, error) {
	return student, nil
}

func (f *fakeStore) DeleteStudent(ctx context.Context, studentID string, requestID uuid.UUID) error {
	return nil
}

func (f *fakeStore) CreateCourse(ctx context.Context, course model.Course, requestID uuid.UUID) (model.Course, error) {
	return course, nil
}

func (f *fakeStore) UpdateCourse(ctx context.Context, course model.Course, requestID uuid.UUID) (model.Course, error) {
	return course, nil
}

func (f *fakeStore) DeleteCourse(ctx context.Context, id uuid.UUID, requestID uuid.UUID) error {
	return nil
}

func (f *fakeStore) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	return model.User{ID: userID}, nil
}

func (f *fakeStore) UpdateProfileImage(ctx context.Context, userID uuid.UUID, image string) (model.User, error) {
	return model.User{ID: userID}, nil
}

func (f *fakeStore) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return nil
}

func newSessionFor(t *testing.T, store *fakeStore, user model.User) *Session {
	t.Helper()
	s := New(store, testutil.MakeNoopLogger())
	s.user = user
	require.NoError(t, s.Initialize(context.Background()))
	return s
}

func TestClaims_SubmitThenApprove(t *testing.T) {
	ctx := context.Background()
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}
	supervisorUser := model.User{ID: uuid.New(), Role: model.RoleSupervisor}

	store := newFakeStore()
	store.students = []model.Student{{StudentID: "S100", UserID: studentUser.ID, Department: "CS", Year: "3"}}
	absenceID := uuid.New()
	store.absences[absenceID] = model.Absence{
		ID: absenceID, StudentID: "S100", Subject: "Networks", Date: "2025-03-10", Status: model.StatusAbsent,
	}

	studentClaims := NewClaims(newSessionFor(t, store, studentUser))

	submitted, err := studentClaims.Submit(ctx, absenceID, "Medical", "flu, saw a doctor")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, submitted.Status)
	assert.Equal(t, "Medical", submitted.Reason)
	require.NotNil(t, submitted.SubmittedOn)
	firstSubmission := *submitted.SubmittedOn

	// submitted_on is written once and survives subsequent fetches
	fetched, err := store.ListStudentAbsences(ctx, "S100")
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	require.NotNil(t, fetched[0].SubmittedOn)
	assert.Equal(t, firstSubmission, *fetched[0].SubmittedOn)

	supervisorClaims := NewClaims(newSessionFor(t, store, supervisorUser))

	approved, err := supervisorClaims.Approve(ctx, absenceID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusJustified, approved.Status)

	// the claim is decided, rejecting it now must fail
	_, err = supervisorClaims.Reject(ctx, absenceID)
	require.ErrorIs(t, err, model.ErrIllegalTransition)
	assert.Equal(t, model.StatusJustified, store.absences[absenceID].Status)
}

func TestClaims_Submit_TwiceFails(t *testing.T) {
	ctx := context.Background()
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}

	store := newFakeStore()
	store.students = []model.Student{{StudentID: "S100", UserID: studentUser.ID}}
	absenceID := uuid.New()
	store.absences[absenceID] = model.Absence{ID: absenceID, StudentID: "S100", Status: model.StatusAbsent}

	claims := NewClaims(newSessionFor(t, store, studentUser))

	_, err := claims.Submit(ctx, absenceID, "Medical", "")
	require.NoError(t, err)

	_, err = claims.Submit(ctx, absenceID, "Medical", "")
	require.ErrorIs(t, err, model.ErrIllegalTransition)
}

func TestClaims_Submit_RequiresReason(t *testing.T) {
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}

	store := newFakeStore()
	store.students = []model.Student{{StudentID: "S100", UserID: studentUser.ID}}
	absenceID := uuid.New()
	store.absences[absenceID] = model.Absence{ID: absenceID, StudentID: "S100", Status: model.StatusAbsent}

	claims := NewClaims(newSessionFor(t, store, studentUser))

	_, err := claims.Submit(context.Background(), absenceID, "", "")
	require.True(t, model.IsValidation(err))
	assert.Equal(t, model.StatusAbsent, store.absences[absenceID].Status)
}

func TestClaims_Submit_NotOwnAbsence(t *testing.T) {
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}

	store := newFakeStore()
	store.students = []model.Student{
		{StudentID: "S100", UserID: studentUser.ID},
		{StudentID: "S200", UserID: uuid.New()},
	}
	absenceID := uuid.New()
	store.absences[absenceID] = model.Absence{ID: absenceID, StudentID: "S200", Status: model.StatusAbsent}

	claims := NewClaims(newSessionFor(t, store, studentUser))

	_, err := claims.Submit(context.Background(), absenceID, "Medical", "")
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, model.StatusAbsent, store.absences[absenceID].Status)
}

func TestClaims_Submit_SupervisorRejected(t *testing.T) {
	supervisorUser := model.User{ID: uuid.New(), Role: model.RoleSupervisor}

	store := newFakeStore()
	absenceID := uuid.New()
	store.absences[absenceID] = model.Absence{ID: absenceID, StudentID: "S100", Status: model.StatusAbsent}

	claims := NewClaims(newSessionFor(t, store, supervisorUser))

	_, err := claims.Submit(context.Background(), absenceID, "Medical", "")
	require.ErrorIs(t, err, model.ErrInvalidRole)
}

func TestClaims_File_CreatesPendingClaim(t *testing.T) {
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}

	store := newFakeStore()
	store.students = []model.Student{{StudentID: "S100", UserID: studentUser.ID}}

	claims := NewClaims(newSessionFor(t, store, studentUser))

	created, err := claims.File(context.Background(), FileParams{
		Subject: "Networks",
		Date:    "2025-03-10",
		Reason:  "Medical",
	})
	require.NoError(t, err)
	assert.Equal(t, "S100", created.StudentID)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, "Medical", created.Reason)
	assert.NotNil(t, created.SubmittedOn)

	// round-trip through a student-scoped fetch preserves the claim fields
	fetched, err := store.ListStudentAbsences(context.Background(), "S100")
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.Equal(t, created.StudentID, fetched[0].StudentID)
	assert.Equal(t, created.Subject, fetched[0].Subject)
	assert.Equal(t, created.Date, fetched[0].Date)
	assert.Equal(t, created.Reason, fetched[0].Reason)
}

func TestClaims_File_MissingFields(t *testing.T) {
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}
	store := newFakeStore()
	store.students = []model.Student{{StudentID: "S100", UserID: studentUser.ID}}

	claims := NewClaims(newSessionFor(t, store, studentUser))

	_, err := claims.File(context.Background(), FileParams{Date: "2025-03-10", Reason: "Medical"})
	require.True(t, model.IsValidation(err))

	_, err = claims.File(context.Background(), FileParams{Subject: "Networks", Reason: "Medical"})
	require.True(t, model.IsValidation(err))

	_, err = claims.File(context.Background(), FileParams{Subject: "Networks", Date: "2025-03-10"})
	require.True(t, model.IsValidation(err))
}

func TestClaims_File_UnlinkedStudent(t *testing.T) {
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}
	store := newFakeStore()

	claims := NewClaims(newSessionFor(t, store, studentUser))

	_, err := claims.File(context.Background(), FileParams{Subject: "Networks", Date: "2025-03-10", Reason: "Medical"})
	require.ErrorIs(t, err, model.ErrStudentNotLinked)
}

func TestClaims_Decide_StudentRejected(t *testing.T) {
	studentUser := model.User{ID: uuid.New(), Role: model.RoleStudent}
	store := newFakeStore()
	store.students = []model.Student{{StudentID: "S100", UserID: studentUser.ID}}
	absenceID := uuid.New()
	store.absences[absenceID] = model.Absence{ID: absenceID, StudentID: "S100", Status: model.StatusPending}

	claims := NewClaims(newSessionFor(t, store, studentUser))

	_, err := claims.Approve(context.Background(), absenceID)
	require.ErrorIs(t, err, model.ErrInvalidRole)
	assert.Equal(t, model.StatusPending, store.absences[absenceID].Status)
}
