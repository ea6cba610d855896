package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/siakadcloud/siakad-backend/internal/middleware"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/validator"
)

// AssignmentHandler handles assignments and submissions.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

func failAssignment(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotClassOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotClassOwner)
	case errors.Is(err, service.ErrDeadlinePassed):
		response.Fail(c, http.StatusConflict, response.ErrDeadlinePassed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Create godoc
// POST /api/v1/teacher/classes/:id/assignments (multipart)
func (h *AssignmentHandler) Create(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.AssignmentRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	upload, file, ok := formUpload(c, "attachment")
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	claims := middleware.GetClaims(c)
	assignment, err := h.assignmentService.Create(c.Request.Context(), classID, claims.UserID, &req, upload)
	if err != nil {
		failAssignment(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"assignment": assignment})
}

// Update godoc
// PUT /api/v1/teacher/assignments/:id (multipart)
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.AssignmentRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	upload, file, ok := formUpload(c, "attachment")
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	claims := middleware.GetClaims(c)
	assignment, err := h.assignmentService.Update(c.Request.Context(), id, claims.UserID, &req, upload)
	if err != nil {
		failAssignment(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}

// Delete godoc
// DELETE /api/v1/teacher/assignments/:id
func (h *AssignmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.assignmentService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		failAssignment(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListByClass godoc
// GET /api/v1/teacher/classes/:id/assignments
// GET /api/v1/student/classes/:id/assignments
func (h *AssignmentHandler) ListByClass(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	assignments, err := h.assignmentService.ListByClass(c.Request.Context(), classID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"assignments": assignments})
}

// Submissions godoc
// GET /api/v1/teacher/assignments/:id/submissions
func (h *AssignmentHandler) Submissions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	subs, err := h.assignmentService.Submissions(c.Request.Context(), id, claims.UserID)
	if err != nil {
		failAssignment(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// DownloadSubmissions godoc
// GET /api/v1/teacher/assignments/:id/submissions/download
// Streams every submission as one zip file.
func (h *AssignmentHandler) DownloadSubmissions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="submissions-%d.zip"`, id))
	if err := h.assignmentService.ZipSubmissions(c.Request.Context(), id, claims.UserID, c.Writer); err != nil {
		failAssignment(c, err)
	}
}

// Submit godoc
// POST /api/v1/student/assignments/:id/submissions (multipart)
// Re-submitting before the deadline replaces the earlier file.
func (h *AssignmentHandler) Submit(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	upload, file, ok := formUpload(c, "file")
	if !ok {
		return
	}
	if upload == nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	claims := middleware.GetClaims(c)
	sub, err := h.assignmentService.Submit(c.Request.Context(), id, claims.UserID, upload)
	if err != nil {
		failAssignment(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"submission": sub})
}

// OwnSubmission godoc
// GET /api/v1/student/assignments/:id/submissions/me
func (h *AssignmentHandler) OwnSubmission(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	sub, err := h.assignmentService.OwnSubmission(c.Request.Context(), id, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submission": sub})
}
