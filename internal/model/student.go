package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// StudentStore defines persistence operations for students. Students are
// addressed by their business identifier (e.g. "S100"), not the row id.
type StudentStore interface {
	List(ctx context.Context) ([]Student, error)
	GetByStudentID(ctx context.Context, studentID string) (Student, error)
	Create(ctx context.Context, student Student) (Student, error)
	Update(ctx context.Context, student Student) (Student, error)
	Delete(ctx context.Context, studentID string) error
}

// Student is the academic record of a portal user. UserID is a weak
// back-reference to the owning User; uuid.Nil means no account is linked yet,
// which the scoping layer treats as an empty view rather than an error.
type Student struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	StudentID   string    `json:"student_id"`
	Department  string    `json:"department"`
	Year        string    `json:"year"`
	ClassName   string    `json:"class"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	UserID      uuid.UUID `json:"user_id"`
	JoinDate    time.Time `json:"join_date"`

	// Derived at read time from the absences table.
	AbsenceCount   int `json:"absences"`
	JustifiedCount int `json:"justified_absences"`
}

// ClassStore defines read operations for class groupings.
type ClassStore interface {
	List(ctx context.Context) ([]Class, error)
}

// Class groups students of one department and year.
type Class struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Department string    `json:"department"`
	Year       string    `json:"year"`
}
