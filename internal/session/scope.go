package session

import (
	"github.com/google/uuid"

	"absenceportal/internal/model"
)

// Scope is the visibility boundary of a session: who the caller is and, for
// students, which student record they act as. It is a pure projection over
// already-fetched data and is re-applied on every read, so the view narrows
// or widens correctly as the working set changes.
type Scope struct {
	UserID     uuid.UUID
	Role       model.Role
	StudentID  string
	Department string
	Year       string
	// Linked is false for a student identity with no matching student
	// record. The session stays usable with an empty view.
	Linked bool
}

// ResolveScope builds the scope for an identity against the fetched student
// roster. A student identity with no back-referencing student record yields
// an unlinked scope together with ErrStudentNotLinked; the caller may treat
// that as an empty view rather than a fatal condition.
func ResolveScope(user model.User, students []model.Student) (Scope, error) {
	if !user.Role.Valid() {
		return Scope{}, model.ErrInvalidRole
	}

	scope := Scope{UserID: user.ID, Role: user.Role}
	if user.Role == model.RoleSupervisor {
		scope.Linked = true
		return scope, nil
	}

	for _, s := range students {
		if s.UserID != uuid.Nil && s.UserID == user.ID {
			scope.StudentID = s.StudentID
			scope.Department = s.Department
			scope.Year = s.Year
			scope.Linked = true
			return scope, nil
		}
	}
	return scope, model.ErrStudentNotLinked
}

// CanViewAbsence reports whether the absence falls inside the scope.
func (s Scope) CanViewAbsence(a model.Absence) bool {
	if s.Role == model.RoleSupervisor {
		return true
	}
	return s.Linked && a.StudentID == s.StudentID
}

// CanViewCourse reports whether the course falls inside the scope. Students
// see courses matching their own department and year.
func (s Scope) CanViewCourse(c model.Course) bool {
	if s.Role == model.RoleSupervisor {
		return true
	}
	return s.Linked && c.Department == s.Department && c.Year == s.Year
}

// OwnsAbsence reports whether a student caller is the subject of the
// absence. Supervisors own nothing; they review.
func (s Scope) OwnsAbsence(a model.Absence) bool {
	return s.Role == model.RoleStudent && s.Linked && a.StudentID == s.StudentID
}

// CanManageRoster reports whether the caller may mutate students and
// courses.
func (s Scope) CanManageRoster() bool {
	return s.Role == model.RoleSupervisor
}

// FilterAbsences projects the visible subset, preserving order.
func (s Scope) FilterAbsences(absences []model.Absence) []model.Absence {
	visible := make([]model.Absence, 0, len(absences))
	for _, a := range absences {
		if s.CanViewAbsence(a) {
			visible = append(visible, a)
		}
	}
	return visible
}

// FilterCourses projects the visible subset, preserving order.
func (s Scope) FilterCourses(courses []model.Course) []model.Course {
	visible := make([]model.Course, 0, len(courses))
	for _, c := range courses {
		if s.CanViewCourse(c) {
			visible = append(visible, c)
		}
	}
	return visible
}
