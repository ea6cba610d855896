package model

import "time"

// ScholarshipProgram is a scholarship offering managed by admins.
type ScholarshipProgram struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Provider    string    `json:"provider"`
	Quota       int       `json:"quota"`
	Deadline    time.Time `json:"deadline"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ScholarshipProgramRequest is the payload for creating or updating a program.
type ScholarshipProgramRequest struct {
	Name        string    `json:"name" binding:"required,min=2,max=150"`
	Description string    `json:"description" binding:"max=5000"`
	Provider    string    `json:"provider" binding:"required,min=2,max=150"`
	Quota       int       `json:"quota" binding:"required,min=1"`
	Deadline    time.Time `json:"deadline" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// ScholarshipApplication is a student's application to a program.
// One application per (program, student).
type ScholarshipApplication struct {
	ID        int            `json:"id"`
	ProgramID int            `json:"program_id"`
	StudentID int            `json:"student_id"`
	Essay     string         `json:"essay"`
	FileURL   *string        `json:"file_url,omitempty"`
	FileKey   *string        `json:"-"`
	Status    ApprovalStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ScholarshipApplicationDetail enriches an application for admin listings.
type ScholarshipApplicationDetail struct {
	ScholarshipApplication
	StudentName string `json:"student_name"`
	ProgramName string `json:"program_name"`
}

// ScholarshipApplyRequest is the multipart payload for applying.
type ScholarshipApplyRequest struct {
	Essay string `form:"essay" binding:"required,min=10,max=10000"`
}
