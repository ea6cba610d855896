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

// FeeReliefHandler handles tuition relief requests.
type FeeReliefHandler struct {
	feeReliefService *service.FeeReliefService
}

// NewFeeReliefHandler creates a new FeeReliefHandler.
func NewFeeReliefHandler(feeReliefService *service.FeeReliefService) *FeeReliefHandler {
	return &FeeReliefHandler{feeReliefService: feeReliefService}
}

// Submit godoc
// POST /api/v1/student/fee-reliefs (multipart)
func (h *FeeReliefHandler) Submit(c *gin.Context) {
	var req model.FeeReliefRequest
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
	relief, err := h.feeReliefService.Submit(c.Request.Context(), claims.UserID, &req, upload)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"fee_relief": relief})
}

// OwnRequests godoc
// GET /api/v1/student/fee-reliefs
func (h *FeeReliefHandler) OwnRequests(c *gin.Context) {
	claims := middleware.GetClaims(c)
	reliefs, err := h.feeReliefService.ListOwn(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee_reliefs": reliefs})
}

// List godoc
// GET /api/v1/admin/fee-reliefs?status=
func (h *FeeReliefHandler) List(c *gin.Context) {
	status, ok := statusFilter(c)
	if !ok {
		return
	}
	reliefs, err := h.feeReliefService.List(c.Request.Context(), status)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee_reliefs": reliefs})
}

// Decide godoc
// POST /api/v1/admin/fee-reliefs/:id/decision
func (h *FeeReliefHandler) Decide(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.DecisionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	relief, err := h.feeReliefService.Decide(c.Request.Context(), id, model.ApprovalStatus(req.Status))
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
	response.Success(c, http.StatusOK, gin.H{"fee_relief": relief})
}
