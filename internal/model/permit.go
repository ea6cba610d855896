package model

import "time"

// ApprovalStatus is the review state of a student-submitted request.
// Shared by permits, scholarship applications and fee relief requests.
type ApprovalStatus string

const (
	StatusMenunggu  ApprovalStatus = "menunggu"
	StatusDisetujui ApprovalStatus = "disetujui"
	StatusDitolak   ApprovalStatus = "ditolak"
)

// PermitKind distinguishes a planned absence from a sick note.
type PermitKind string

const (
	PermitIzin  PermitKind = "izin"
	PermitSakit PermitKind = "sakit"
)

// Permit is a student's absence request for one date, optionally backed by
// an uploaded letter. Approval normalizes the student's attendance for that
// date to the permit's kind.
type Permit struct {
	ID        int            `json:"id"`
	StudentID int            `json:"student_id"`
	Date      time.Time      `json:"date"`
	Kind      PermitKind     `json:"kind"`
	Reason    string         `json:"reason"`
	FileURL   *string        `json:"file_url,omitempty"`
	FileKey   *string        `json:"-"`
	Status    ApprovalStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PermitDetail enriches Permit with the student's name.
type PermitDetail struct {
	Permit
	StudentName string `json:"student_name"`
}

// PermitRequest is the multipart payload for submitting a permit.
type PermitRequest struct {
	Date   string `form:"date" binding:"required,datetime=2006-01-02"`
	Kind   string `form:"kind" binding:"required,oneof=izin sakit"`
	Reason string `form:"reason" binding:"required,min=3,max=500"`
}

// DecisionRequest approves or rejects a pending request.
type DecisionRequest struct {
	Status string `json:"status" binding:"required,oneof=disetujui ditolak"`
}
