package model

import "time"

// ScoreKind is the assessment component a score belongs to.
type ScoreKind string

const (
	ScoreTugas ScoreKind = "tugas"
	ScoreUTS   ScoreKind = "uts"
	ScoreUAS   ScoreKind = "uas"
)

// Score is one graded component for a student in a class.
// Exactly one row exists per (student, class, kind); writes are upserts.
type Score struct {
	ID        int       `json:"id"`
	StudentID int       `json:"student_id"`
	ClassID   int       `json:"class_id"`
	Kind      ScoreKind `json:"kind"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScoreDetail enriches Score with the student's name for class listings.
type ScoreDetail struct {
	Score
	StudentName string `json:"student_name"`
}

// ScoreRequest is the payload for recording a score.
type ScoreRequest struct {
	StudentID int    `json:"student_id" binding:"required"`
	Kind      string `json:"kind" binding:"required,oneof=tugas uts uas"`
	Value     int    `json:"value" binding:"min=0,max=100"`
}
