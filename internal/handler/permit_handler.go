package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/siakadcloud/siakad-backend/internal/middleware"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/validator"
)

// PermitHandler handles absence permits.
type PermitHandler struct {
	permitService *service.PermitService
}

// NewPermitHandler creates a new PermitHandler.
func NewPermitHandler(permitService *service.PermitService) *PermitHandler {
	return &PermitHandler{permitService: permitService}
}

// statusFilter parses the optional ?status= query.
func statusFilter(c *gin.Context) (*model.ApprovalStatus, bool) {
	q := c.Query("status")
	if q == "" {
		return nil, true
	}
	s := model.ApprovalStatus(q)
	switch s {
	case model.StatusMenunggu, model.StatusDisetujui, model.StatusDitolak:
		return &s, true
	}
	response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	return nil, false
}

// Submit godoc
// POST /api/v1/student/permits (multipart)
func (h *PermitHandler) Submit(c *gin.Context) {
	var req model.PermitRequest
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
	permit, err := h.permitService.Submit(c.Request.Context(), claims.UserID, &req, upload)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"permit": permit})
}

// OwnPermits godoc
// GET /api/v1/student/permits
func (h *PermitHandler) OwnPermits(c *gin.Context) {
	claims := middleware.GetClaims(c)
	permits, err := h.permitService.ListOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permits": permits})
}

// List godoc
// GET /api/v1/admin/permits?status=
func (h *PermitHandler) List(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	permits, err := h.permitService.List(c.Request.Context(), status)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"permits": permits})
}

// Decide godoc
// POST /api/v1/admin/permits/:id/decision
// Approval normalizes the student's attendance on that date.
func (h *PermitHandler) Decide(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.DecisionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	permit, err := h.permitService.Decide(c.Request.Context(), id, model.ApprovalStatus(req.Status))
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
	response.Success(c, http.StatusOK, gin.H{"permit": permit})
}
