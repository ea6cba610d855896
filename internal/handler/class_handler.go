package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/siakadcloud/siakad-backend/internal/middleware"
	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/schedule"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/validator"
)

// ClassHandler handles class scheduling, membership and bulk import/export.
type ClassHandler struct {
	classService *service.ClassService
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

func failClassWrite(c *gin.Context, err error) {
	var conflictErr *service.ScheduleConflictError
	switch {
	case errors.As(err, &conflictErr):
		response.FailWithMessage(c, http.StatusConflict, response.ErrScheduleConflict, conflictErr.Error())
	case errors.Is(err, schedule.ErrInvalidTimeRange):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidTimeRange)
	case errors.Is(err, schedule.ErrBadClock):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"start_time": "format jam harus HH:MM",
			"end_time":   "format jam harus HH:MM",
		})
	case errors.Is(err, pgx.ErrNoRows):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// List godoc
// GET /api/v1/admin/classes?grade_level=&day=
func (h *ClassHandler) List(c *gin.Context) {
	var grade *model.GradeLevel
	if q := c.Query("grade_level"); q != "" {
		g := model.GradeLevel(q)
		grade = &g
	}
	var day *model.Day
	if q := c.Query("day"); q != "" {
		d := model.Day(q)
		day = &d
	}

	classes, err := h.classService.List(c.Request.Context(), grade, day)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// Get godoc
// GET /api/v1/admin/classes/:id
func (h *ClassHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	class, err := h.classService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Create godoc
// POST /api/v1/admin/classes
// Rejects schedule conflicts and auto-enrolls eligible students.
func (h *ClassHandler) Create(c *gin.Context) {
	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), &req)
	if err != nil {
		failClassWrite(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"class": class})
}

// Update godoc
// PUT /api/v1/admin/classes/:id
func (h *ClassHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.ClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failClassWrite(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class": class})
}

// Delete godoc
// DELETE /api/v1/admin/classes/:id
func (h *ClassHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.classService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Members godoc
// GET /api/v1/admin/classes/:id/members
func (h *ClassHandler) Members(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	members, err := h.classService.Members(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// AddMember godoc
// POST /api/v1/admin/classes/:id/members
func (h *ClassHandler) AddMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req model.ClassMemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.classService.AddMember(c.Request.Context(), id, req.StudentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"added": true})
}

// RemoveMember godoc
// DELETE /api/v1/admin/classes/:id/members/:studentId
func (h *ClassHandler) RemoveMember(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	studentID, ok := paramID(c, "studentId")
	if !ok {
		return
	}
	// Idempotent: removing a student who is not a member leaves the class
	// unchanged and still reports success.
	if err := h.classService.RemoveMember(c.Request.Context(), id, studentID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

// ImportCSV godoc
// POST /api/v1/admin/classes/import
// Bulk-creates classes; bad rows are reported, not fatal.
func (h *ClassHandler) ImportCSV(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer file.Close()

	result, err := h.classService.ImportCSV(c.Request.Context(), file)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"import": result})
}

// ExportCSV godoc
// GET /api/v1/admin/classes/export
// Streams the schedule in the import format.
func (h *ClassHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="classes.csv"`)
	if err := h.classService.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

// OwnTeaching godoc
// GET /api/v1/teacher/classes
func (h *ClassHandler) OwnTeaching(c *gin.Context) {
	claims := middleware.GetClaims(c)
	classes, err := h.classService.ListByTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}

// OwnSchedule godoc
// GET /api/v1/student/classes
func (h *ClassHandler) OwnSchedule(c *gin.Context) {
	claims := middleware.GetClaims(c)
	classes, err := h.classService.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"classes": classes})
}
