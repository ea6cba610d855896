package model

import "time"

// AttendanceStatus is the normalized presence state for one class meeting.
type AttendanceStatus string

const (
	AttendanceHadir AttendanceStatus = "hadir"
	AttendanceIzin  AttendanceStatus = "izin"
	AttendanceSakit AttendanceStatus = "sakit"
	AttendanceAlpa  AttendanceStatus = "alpa"
)

// Attendance records one student's presence in one class on one date.
// One row per (class, student, date); repeated writes upsert.
type Attendance struct {
	ID        int              `json:"id"`
	ClassID   int              `json:"class_id"`
	StudentID int              `json:"student_id"`
	Date      time.Time        `json:"date"`
	Status    AttendanceStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// AttendanceDetail enriches Attendance with the student's name.
type AttendanceDetail struct {
	Attendance
	StudentName string `json:"student_name"`
}

// AttendanceEntry is one row of a bulk attendance sheet.
type AttendanceEntry struct {
	StudentID int    `json:"student_id" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=hadir izin sakit alpa"`
}

// AttendanceSheetRequest records attendance for a whole class meeting at once.
type AttendanceSheetRequest struct {
	Date    string            `json:"date" binding:"required,datetime=2006-01-02"`
	Entries []AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}
