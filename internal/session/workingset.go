package session

import (
	"sort"

	"github.com/google/uuid"

	"absenceportal/internal/model"
)

// workingSet is the in-memory replica of the remote store's state for one
// session. Entries are keyed by entity id and replaced wholesale with the
// store's authoritative response after each successful mutation.
type workingSet struct {
	students map[string]model.Student
	classes  []model.Class
	courses  map[uuid.UUID]model.Course
	absences map[uuid.UUID]model.Absence
}

func newWorkingSet() *workingSet {
	return &workingSet{
		students: make(map[string]model.Student),
		courses:  make(map[uuid.UUID]model.Course),
		absences: make(map[uuid.UUID]model.Absence),
	}
}

// populate replaces the whole set with one consistent snapshot.
func (w *workingSet) populate(students []model.Student, classes []model.Class, courses []model.Course, absences []model.Absence) {
	w.students = make(map[string]model.Student, len(students))
	for _, s := range students {
		w.students[s.StudentID] = s
	}
	w.classes = append([]model.Class(nil), classes...)
	w.courses = make(map[uuid.UUID]model.Course, len(courses))
	for _, c := range courses {
		w.courses[c.ID] = c
	}
	w.absences = make(map[uuid.UUID]model.Absence, len(absences))
	for _, a := range absences {
		w.absences[a.ID] = a
	}
}

func (w *workingSet) putStudent(s model.Student) {
	w.students[s.StudentID] = s
}

func (w *workingSet) removeStudent(studentID string) {
	delete(w.students, studentID)
}

func (w *workingSet) putCourse(c model.Course) {
	w.courses[c.ID] = c
}

func (w *workingSet) removeCourse(id uuid.UUID) {
	delete(w.courses, id)
}

func (w *workingSet) putAbsence(a model.Absence) {
	w.absences[a.ID] = a
}

// studentList returns students ordered by business id.
func (w *workingSet) studentList() []model.Student {
	students := make([]model.Student, 0, len(w.students))
	for _, s := range w.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return students
}

func (w *workingSet) classList() []model.Class {
	return append([]model.Class(nil), w.classes...)
}

// courseList returns courses ordered by name, then id for stability.
func (w *workingSet) courseList() []model.Course {
	courses := make([]model.Course, 0, len(w.courses))
	for _, c := range w.courses {
		courses = append(courses, c)
	}
	sort.Slice(courses, func(i, j int) bool {
		if courses[i].Name != courses[j].Name {
			return courses[i].Name < courses[j].Name
		}
		return courses[i].ID.String() < courses[j].ID.String()
	})
	return courses
}

// absenceList returns absences ordered by date descending, then id.
func (w *workingSet) absenceList() []model.Absence {
	absences := make([]model.Absence, 0, len(w.absences))
	for _, a := range w.absences {
		absences = append(absences, a)
	}
	sort.Slice(absences, func(i, j int) bool {
		if absences[i].Date != absences[j].Date {
			return absences[i].Date > absences[j].Date
		}
		return absences[i].ID.String() < absences[j].ID.String()
	})
	return absences
}
