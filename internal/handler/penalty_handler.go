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

// PenaltyHandler handles disciplinary records.
type PenaltyHandler struct {
	penaltyService *service.PenaltyService
}

// NewPenaltyHandler creates a new PenaltyHandler.
func NewPenaltyHandler(penaltyService *service.PenaltyService) *PenaltyHandler {
	return &PenaltyHandler{penaltyService: penaltyService}
}

// Record godoc
// POST /api/v1/admin/penalties
// An override of the rulebook points requires a reason.
func (h *PenaltyHandler) Record(c *gin.Context) {
	var req model.PenaltyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	penalty, err := h.penaltyService.Record(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrOverrideReasonRequired) {
			response.Fail(c, http.StatusBadRequest, response.ErrOverrideReason)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"penalty": penalty})
}

// Update godoc
// PUT /api/v1/admin/penalties/:id
func (h *PenaltyHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.PenaltyRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	penalty, err := h.penaltyService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrOverrideReasonRequired):
			response.Fail(c, http.StatusBadRequest, response.ErrOverrideReason)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"penalty": penalty})
}

// Delete godoc
// DELETE /api/v1/admin/penalties/:id
func (h *PenaltyHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.penaltyService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// List godoc
// GET /api/v1/admin/penalties
func (h *PenaltyHandler) List(c *gin.Context) {
	penalties, err := h.penaltyService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"penalties": penalties})
}

// OwnPenalties godoc
// GET /api/v1/student/penalties
// Includes the running point total.
func (h *PenaltyHandler) OwnPenalties(c *gin.Context) {
	claims := middleware.GetClaims(c)
	penalties, total, err := h.penaltyService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"penalties": penalties, "total_points": total})
}
