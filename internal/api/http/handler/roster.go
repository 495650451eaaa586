package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
)

// RosterService defines roster operations consumed by the HTTP layer.
type RosterService interface {
	Students(ctx context.Context) ([]model.Student, error)
	Student(ctx context.Context, studentID string) (model.Student, error)
	CreateStudent(ctx context.Context, student model.Student) (model.Student, error)
	UpdateStudent(ctx context.Context, student model.Student) (model.Student, error)
	DeleteStudent(ctx context.Context, studentID string) error
	Classes(ctx context.Context) ([]model.Class, error)
	Courses(ctx context.Context) ([]model.Course, error)
	CoursesByDepartmentYear(ctx context.Context, department, year string) ([]model.Course, error)
	StudentCourses(ctx context.Context, studentID string) ([]model.Course, error)
	CreateCourse(ctx context.Context, course model.Course) (model.Course, error)
	UpdateCourse(ctx context.Context, course model.Course) (model.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

// Roster handles HTTP endpoints for students, classes and courses.
type Roster struct {
	service RosterService
	logger  *logger.Logger
}

func NewRoster(service RosterService, logger *logger.Logger) *Roster {
	return &Roster{
		service: service,
		logger:  logger,
	}
}

// ListStudents handles GET /students.
func (h *Roster) ListStudents(c *gin.Context) {
	students, err := h.service.Students(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudent handles GET /students/:id.
func (h *Roster) GetStudent(c *gin.Context) {
	student, err := h.service.Student(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, student)
}

// CreateStudent handles POST /students.
func (h *Roster) CreateStudent(c *gin.Context) {
	var student model.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateStudent(c.Request.Context(), student)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateStudent handles PUT /students/:id.
func (h *Roster) UpdateStudent(c *gin.Context) {
	var student model.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	student.StudentID = c.Param("id")

	updated, err := h.service.UpdateStudent(c.Request.Context(), student)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteStudent handles DELETE /students/:id.
func (h *Roster) DeleteStudent(c *gin.Context) {
	if err := h.service.DeleteStudent(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}

// StudentCourses handles GET /students/:id/courses.
func (h *Roster) StudentCourses(c *gin.Context) {
	courses, err := h.service.StudentCourses(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// ListClasses handles GET /classes.
func (h *Roster) ListClasses(c *gin.Context) {
	classes, err := h.service.Classes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// ListCourses handles GET /courses.
func (h *Roster) ListCourses(c *gin.Context) {
	courses, err := h.service.Courses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CoursesByDepartmentYear handles GET /courses/:department/:year.
func (h *Roster) CoursesByDepartmentYear(c *gin.Context) {
	courses, err := h.service.CoursesByDepartmentYear(c.Request.Context(), c.Param("department"), c.Param("year"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// CreateCourse handles POST /courses.
func (h *Roster) CreateCourse(c *gin.Context) {
	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.CreateCourse(c.Request.Context(), course)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateCourse handles PUT /courses/:id.
func (h *Roster) UpdateCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return
	}

	var course model.Course
	if err := c.ShouldBindJSON(&course); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	course.ID = id

	updated, err := h.service.UpdateCourse(c.Request.Context(), course)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteCourse handles DELETE /courses/:id.
func (h *Roster) DeleteCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return
	}

	if err := h.service.DeleteCourse(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course deleted"})
}
