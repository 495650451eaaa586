package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
	"absenceportal/internal/service"
)

// idempotencyHeader carries the client-generated mutation key.
const idempotencyHeader = "Idempotency-Key"

// AbsenceService defines absence operations consumed by the HTTP layer.
type AbsenceService interface {
	List(ctx context.Context) ([]model.Absence, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.Absence, error)
	CreateClaim(ctx context.Context, params service.CreateClaimParams) (model.Absence, error)
	Transition(ctx context.Context, params model.TransitionParams) (model.Absence, error)
	Document(ctx context.Context, documentURL string) (io.ReadCloser, error)
}

// Absence handles HTTP endpoints for absence records and claims.
type Absence struct {
	service AbsenceService
	logger  *logger.Logger
}

func NewAbsence(service AbsenceService, logger *logger.Logger) *Absence {
	return &Absence{
		service: service,
		logger:  logger,
	}
}

func requestID(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.GetHeader(idempotencyHeader))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// List handles GET /absences.
func (h *Absence) List(c *gin.Context) {
	absences, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, absences)
}

// ListByStudent handles GET /students/:id/absences.
func (h *Absence) ListByStudent(c *gin.Context) {
	absences, err := h.service.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, absences)
}

type createAbsenceRequest struct {
	StudentID   string `json:"student_id" form:"student_id" binding:"required"`
	Subject     string `json:"subject" form:"subject" binding:"required"`
	Date        string `json:"date" form:"date" binding:"required"`
	TimeSlot    string `json:"time" form:"time"`
	Status      string `json:"status" form:"status"`
	Reason      string `json:"reason" form:"reason"`
	Description string `json:"description" form:"description"`
}

// Create handles POST /absences. The body is JSON, or multipart form data
// when a justification document is attached under the "document" field.
func (h *Absence) Create(c *gin.Context) {
	var req createAbsenceRequest
	var doc *service.DocumentUpload

	if strings.Contains(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		file, header, err := c.Request.FormFile("document")
		if err == nil {
			defer file.Close()
			doc = &service.DocumentUpload{
				FileName:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Reader:      file,
			}
		}
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	created, err := h.service.CreateClaim(c.Request.Context(), service.CreateClaimParams{
		StudentID:   req.StudentID,
		Subject:     req.Subject,
		Date:        req.Date,
		TimeSlot:    req.TimeSlot,
		Status:      model.Status(req.Status),
		Reason:      req.Reason,
		Description: req.Description,
		Document:    doc,
		RequestID:   requestID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

type transitionRequest struct {
	Status      string `json:"status" binding:"required"`
	Reason      string `json:"reason"`
	Description string `json:"description"`
}

// Transition handles PATCH /absences/:id.
func (h *Absence) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.Transition(c.Request.Context(), model.TransitionParams{
		ID:          id,
		Status:      model.Status(req.Status),
		Reason:      req.Reason,
		Description: req.Description,
		RequestID:   requestID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Document handles GET /uploads/absence_documents/:name, streaming a stored
// justification document.
func (h *Absence) Document(c *gin.Context) {
	reader, err := h.service.Document(c.Request.Context(), "/uploads/absence_documents/"+c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Error("Absence handler: document stream interrupted", "error", err.Error())
	}
}
