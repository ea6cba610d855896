package model

import "time"

// FeeRelief is a student's request for a tuition (SPP) reduction,
// expressed as a percentage of the monthly fee.
type FeeRelief struct {
	ID        int            `json:"id"`
	StudentID int            `json:"student_id"`
	Reason    string         `json:"reason"`
	Pct       int            `json:"pct"`
	FileURL   *string        `json:"file_url,omitempty"`
	FileKey   *string        `json:"-"`
	Status    ApprovalStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// FeeReliefDetail enriches FeeRelief with the student's name.
type FeeReliefDetail struct {
	FeeRelief
	StudentName string `json:"student_name"`
}

// FeeReliefRequest is the multipart payload for requesting relief.
type FeeReliefRequest struct {
	Reason string `form:"reason" binding:"required,min=10,max=2000"`
	Pct    int    `form:"pct" binding:"required,min=1,max=100"`
}
