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

// ScoreHandler handles grading.
type ScoreHandler struct {
	scoreService *service.ScoreService
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scoreService *service.ScoreService) *ScoreHandler {
	return &ScoreHandler{scoreService: scoreService}
}

// Record godoc
// POST /api/v1/teacher/classes/:id/scores
// Writing the same component twice overwrites the earlier value.
func (h *ScoreHandler) Record(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.ScoreRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	score, err := h.scoreService.Record(c.Request.Context(), classID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotClassOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotClassOwner)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"score": score})
}

// ListByClass godoc
// GET /api/v1/teacher/classes/:id/scores
func (h *ScoreHandler) ListByClass(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	scores, err := h.scoreService.ListByClass(c.Request.Context(), classID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotClassOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotClassOwner)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"scores": scores})
}

// OwnScores godoc
// GET /api/v1/student/scores
func (h *ScoreHandler) OwnScores(c *gin.Context) {
	claims := middleware.GetClaims(c)
	scores, err := h.scoreService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"scores": scores})
}
