package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
)

// ReportHandler streams admin CSV exports.
type ReportHandler struct {
	scoreService      *service.ScoreService
	attendanceService *service.AttendanceService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(scoreService *service.ScoreService, attendanceService *service.AttendanceService) *ReportHandler {
	return &ReportHandler{scoreService: scoreService, attendanceService: attendanceService}
}

// optionalClassID parses ?class_id=; 0 means the whole school.
func optionalClassID(c *gin.Context) (int, bool) {
	q := c.Query("class_id")
	if q == "" {
		return 0, true
	}
	id, err := strconv.Atoi(q)
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// Scores godoc
// GET /api/v1/admin/reports/scores?class_id=
func (h *ReportHandler) Scores(c *gin.Context) {
	classID, ok := optionalClassID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="scores.csv"`)
	if err := h.scoreService.ExportCSV(c.Request.Context(), classID, c.Writer); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// Attendances godoc
// GET /api/v1/admin/reports/attendance?class_id=&from=&to=
func (h *ReportHandler) Attendances(c *gin.Context) {
	classID, ok := optionalClassID(c)
	if !ok {
		return
	}
	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", time.Now().AddDate(0, -1, 0).Format("2006-01-02")))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", time.Now().Format("2006-01-02")))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="attendances.csv"`)
	if err := h.attendanceService.ExportCSV(c.Request.Context(), classID, from, to, c.Writer); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
