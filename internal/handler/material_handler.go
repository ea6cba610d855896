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

// MaterialHandler handles learning materials.
type MaterialHandler struct {
	materialService *service.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler.
func NewMaterialHandler(materialService *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

func failMaterial(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotClassOwner):
		response.Fail(c, http.StatusForbidden, response.ErrNotClassOwner)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Create godoc
// POST /api/v1/teacher/classes/:id/materials (multipart)
func (h *MaterialHandler) Create(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.MaterialRequest
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
	material, err := h.materialService.Create(c.Request.Context(), classID, claims.UserID, &req, upload)
	if err != nil {
		failMaterial(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"material": material})
}

// Update godoc
// PUT /api/v1/teacher/materials/:id (multipart)
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.MaterialRequest
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
	material, err := h.materialService.Update(c.Request.Context(), id, claims.UserID, &req, upload)
	if err != nil {
		failMaterial(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"material": material})
}

// Delete godoc
// DELETE /api/v1/teacher/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	if err := h.materialService.Delete(c.Request.Context(), id, claims.UserID); err != nil {
		failMaterial(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ListByClass godoc
// GET /api/v1/teacher/classes/:id/materials
// GET /api/v1/student/classes/:id/materials
func (h *MaterialHandler) ListByClass(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	materials, err := h.materialService.ListByClass(c.Request.Context(), classID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"materials": materials})
}
