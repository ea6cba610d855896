package service

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
)

// AttendanceService handles class attendance sheets and recaps.
type AttendanceService struct {
	attendances *repository.AttendanceRepository
	classes     *ClassService
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(attendances *repository.AttendanceRepository, classes *ClassService) *AttendanceService {
	return &AttendanceService{attendances: attendances, classes: classes}
}

// RecordSheet stores a whole meeting's attendance for a class the teacher
// owns. Re-submitting the sheet for the same date overwrites it.
func (s *AttendanceService) RecordSheet(ctx context.Context, classID, teacherID int, req *model.AttendanceSheetRequest) error {
	owner, err := s.classes.IsOwner(ctx, classID, teacherID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotClassOwner
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return err
	}
	return s.attendances.UpsertSheet(ctx, classID, date, req.Entries)
}

// ListByClassDate retrieves one meeting's sheet for its teacher.
func (s *AttendanceService) ListByClassDate(ctx context.Context, classID, teacherID int, date time.Time) ([]model.AttendanceDetail, error) {
	owner, err := s.classes.IsOwner(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrNotClassOwner
	}
	return s.attendances.ListByClassDate(ctx, classID, date)
}

// ListByStudent retrieves a student's own attendance history.
func (s *AttendanceService) ListByStudent(ctx context.Context, studentID int) ([]model.Attendance, error) {
	return s.attendances.ListByStudent(ctx, studentID)
}

// ExportCSV writes the attendance recap for a date range, for one class or
// the whole school when classID is 0.
func (s *AttendanceService) ExportCSV(ctx context.Context, classID int, from, to time.Time, w io.Writer) error {
	report, err := s.attendances.ListForReport(ctx, classID, from, to)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "student", "class", "status"}); err != nil {
		return err
	}
	for _, row := range report {
		if err := writer.Write([]string{
			row.Date.Format("2006-01-02"), row.StudentName, row.ClassName, string(row.Status),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
