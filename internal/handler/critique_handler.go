package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siakadcloud/siakad-backend/internal/middleware"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/validator"
)

// CritiqueHandler handles student feedback.
type CritiqueHandler struct {
	critiqueService *service.CritiqueService
}

// NewCritiqueHandler creates a new CritiqueHandler.
func NewCritiqueHandler(critiqueService *service.CritiqueService) *CritiqueHandler {
	return &CritiqueHandler{critiqueService: critiqueService}
}

// Submit godoc
// POST /api/v1/student/critiques
// Anonymous submissions never store the author.
func (h *CritiqueHandler) Submit(c *gin.Context) {
	var req model.CritiqueRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	critique, err := h.critiqueService.Submit(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"critique": critique})
}

// List godoc
// GET /api/v1/admin/critiques
func (h *CritiqueHandler) List(c *gin.Context) {
	critiques, err := h.critiqueService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"critiques": critiques})
}
