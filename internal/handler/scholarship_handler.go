package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/siakadcloud/siakad-backend/internal/middleware"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/validator"
)

// ScholarshipHandler handles scholarship programs and applications.
type ScholarshipHandler struct {
	scholarshipService *service.ScholarshipService
}

// NewScholarshipHandler creates a new ScholarshipHandler.
func NewScholarshipHandler(scholarshipService *service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipService: scholarshipService}
}

// ListPrograms godoc
// GET /api/v1/admin/scholarships
// GET /api/v1/student/scholarships
func (h *ScholarshipHandler) ListPrograms(c *gin.Context) {
	programs, err := h.scholarshipService.ListPrograms(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"programs": programs})
}

// GetProgram godoc
// GET /api/v1/admin/scholarships/:id
func (h *ScholarshipHandler) GetProgram(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	program, err := h.scholarshipService.GetProgram(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"program": program})
}

// CreateProgram godoc
// POST /api/v1/admin/scholarships
// Publishing notifies every student, best effort.
func (h *ScholarshipHandler) CreateProgram(c *gin.Context) {
	var req model.ScholarshipProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	program, err := h.scholarshipService.CreateProgram(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"program": program})
}

// UpdateProgram godoc
// PUT /api/v1/admin/scholarships/:id
func (h *ScholarshipHandler) UpdateProgram(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.ScholarshipProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	program, err := h.scholarshipService.UpdateProgram(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"program": program})
}

// DeleteProgram godoc
// DELETE /api/v1/admin/scholarships/:id
func (h *ScholarshipHandler) DeleteProgram(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.scholarshipService.DeleteProgram(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Apply godoc
// POST /api/v1/student/scholarships/:id/applications (multipart)
func (h *ScholarshipHandler) Apply(c *gin.Context) {
	programID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.ScholarshipApplyRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	upload, file, ok := formUpload(c, "file")
	if !ok {
		return
	}
	if file != nil {
		defer file.Close()
	}

	claims := middleware.GetClaims(c)
	application, err := h.scholarshipService.Apply(c.Request.Context(), programID, claims.UserID, &req, upload)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateApplication):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, service.ErrDeadlinePassed):
			response.Fail(c, http.StatusConflict, response.ErrDeadlinePassed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"application": application})
}

// ListApplications godoc
// GET /api/v1/admin/scholarships/:id/applications
func (h *ScholarshipHandler) ListApplications(c *gin.Context) {
	programID, ok := paramID(c, "id")
	if !ok {
		return
	}
	applications, err := h.scholarshipService.ListApplications(c.Request.Context(), programID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applications": applications})
}

// OwnApplications godoc
// GET /api/v1/student/scholarships/applications
func (h *ScholarshipHandler) OwnApplications(c *gin.Context) {
	claims := middleware.GetClaims(c)
	applications, err := h.scholarshipService.ListOwnApplications(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"applications": applications})
}

// DecideApplication godoc
// POST /api/v1/admin/scholarships/applications/:id/decision
func (h *ScholarshipHandler) DecideApplication(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.DecisionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	application, err := h.scholarshipService.Decide(c.Request.Context(), id, model.ApprovalStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyDecided):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyDecided)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"application": application})
}
