package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/siakadcloud/siakad-backend/internal/middleware"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/validator"
)

// AttendanceHandler handles attendance sheets.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// RecordSheet godoc
// POST /api/v1/teacher/classes/:id/attendances
// Records a whole meeting at once; re-submitting overwrites the sheet.
func (h *AttendanceHandler) RecordSheet(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.AttendanceSheetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.attendanceService.RecordSheet(c.Request.Context(), classID, claims.UserID, &req); err != nil {
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
	response.Success(c, http.StatusOK, gin.H{"recorded": true})
}

// ListByClassDate godoc
// GET /api/v1/teacher/classes/:id/attendances?date=YYYY-MM-DD
func (h *AttendanceHandler) ListByClassDate(c *gin.Context) {
	classID, ok := paramID(c, "id")
	if !ok {
		return
	}
	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"date": "format tanggal harus YYYY-MM-DD",
		})
		return
	}

	claims := middleware.GetClaims(c)
	list, err := h.attendanceService.ListByClassDate(c.Request.Context(), classID, claims.UserID, date)
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
	response.Success(c, http.StatusOK, gin.H{"attendances": list})
}

// OwnHistory godoc
// GET /api/v1/student/attendances
func (h *AttendanceHandler) OwnHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	list, err := h.attendanceService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"attendances": list})
}
