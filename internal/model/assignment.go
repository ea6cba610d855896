package model

import "time"

// Assignment is a task given by a teacher to all members of a class.
type Assignment struct {
	ID            int       `json:"id"`
	ClassID       int       `json:"class_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Deadline      time.Time `json:"deadline"`
	AttachmentURL *string   `json:"attachment_url,omitempty"`
	AttachmentKey *string   `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AssignmentRequest is the payload for creating or updating an assignment.
// The attachment travels separately as a multipart file.
type AssignmentRequest struct {
	Title       string    `form:"title" binding:"required,min=2,max=150"`
	Description string    `form:"description" binding:"max=5000"`
	Deadline    time.Time `form:"deadline" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Submission is one student's uploaded answer to an assignment.
// At most one submission exists per (assignment, student); re-uploading
// replaces the previous file.
type Submission struct {
	ID           int       `json:"id"`
	AssignmentID int       `json:"assignment_id"`
	StudentID    int       `json:"student_id"`
	FileURL      string    `json:"file_url"`
	FileKey      string    `json:"-"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SubmissionDetail enriches Submission with the student's name for listings.
type SubmissionDetail struct {
	Submission
	StudentName string `json:"student_name"`
}
