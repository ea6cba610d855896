package model

import "time"

// Critique is feedback submitted by a student to the school.
// StudentID is nil for anonymous submissions.
type Critique struct {
	ID        int       `json:"id"`
	StudentID *int      `json:"student_id,omitempty"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CritiqueRequest is the payload for submitting a critique.
type CritiqueRequest struct {
	Subject   string `json:"subject" binding:"required,min=2,max=150"`
	Body      string `json:"body" binding:"required,min=5,max=10000"`
	Anonymous bool   `json:"anonymous"`
}
