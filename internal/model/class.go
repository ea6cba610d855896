package model

import "time"

// Day is an Indonesian weekday label used for class schedules.
type Day string

const (
	DaySenin  Day = "Senin"
	DaySelasa Day = "Selasa"
	DayRabu   Day = "Rabu"
	DayKamis  Day = "Kamis"
	DayJumat  Day = "Jumat"
	DaySabtu  Day = "Sabtu"
	DayMinggu Day = "Minggu"
)

// Category decides which students a class applies to. A "Wajib" class is
// compulsory for the whole grade; IPA/IPS classes only apply to students of
// that major.
type Category string

const (
	CategoryWajib Category = "Wajib"
	CategoryIPA   Category = "IPA"
	CategoryIPS   Category = "IPS"
)

// Class represents a scheduled weekly class for one grade level.
// StartMinute and EndMinute are wall-clock minute offsets from midnight;
// the interval is half-open: a class ending at the minute another starts
// does not overlap it.
type Class struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	GradeLevel  GradeLevel `json:"grade_level"`
	Day         Day        `json:"day"`
	StartMinute int        `json:"start_minute"`
	EndMinute   int        `json:"end_minute"`
	Category    Category   `json:"category"`
	TeacherID   *int       `json:"teacher_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ClassDetail enriches Class with display fields.
type ClassDetail struct {
	Class
	TeacherName  *string `json:"teacher_name,omitempty"`
	StudentCount int     `json:"student_count"`
}

// ClassRequest is the payload for creating or updating a class.
// Times are "HH:MM" strings on a 24h clock.
type ClassRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	GradeLevel string `json:"grade_level" binding:"required,oneof=X XI XII"`
	Day        string `json:"day" binding:"required,oneof=Senin Selasa Rabu Kamis Jumat Sabtu Minggu"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
	Category   string `json:"category" binding:"required,oneof=Wajib IPA IPS"`
	TeacherID  *int   `json:"teacher_id"`
}

// ClassMemberRequest adds or removes a single student from a class.
type ClassMemberRequest struct {
	StudentID int `json:"student_id" binding:"required"`
}

// ClassImportResult is the tally returned by the bulk CSV import.
type ClassImportResult struct {
	Created int                `json:"created"`
	Skipped int                `json:"skipped"`
	Rows    []ClassImportError `json:"skipped_rows,omitempty"`
}

// ClassImportError describes a skipped CSV row and why it was skipped.
type ClassImportError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
