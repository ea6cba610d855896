package model

import "time"

// Penalty is a disciplinary record for a student. Points follow the school
// rulebook; an authority may override the points, in which case a reason is
// mandatory.
type Penalty struct {
	ID             int       `json:"id"`
	StudentID      int       `json:"student_id"`
	Rule           string    `json:"rule"`
	Points         int       `json:"points"`
	OverridePoints *int      `json:"override_points,omitempty"`
	OverrideReason *string   `json:"override_reason,omitempty"`
	IssuedBy       int       `json:"issued_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PenaltyDetail enriches Penalty with display names.
type PenaltyDetail struct {
	Penalty
	StudentName string `json:"student_name"`
	IssuerName  string `json:"issuer_name"`
}

// PenaltyRequest is the payload for recording a penalty.
// OverrideReason is required whenever OverridePoints is set.
type PenaltyRequest struct {
	StudentID      int    `json:"student_id" binding:"required"`
	Rule           string `json:"rule" binding:"required,min=3,max=300"`
	Points         int    `json:"points" binding:"required,min=1,max=100"`
	OverridePoints *int   `json:"override_points" binding:"omitempty,min=0,max=100"`
	OverrideReason string `json:"override_reason" binding:"omitempty,min=3,max=500"`
}

// EffectivePoints returns the override when present, the rulebook points
// otherwise.
func (p *Penalty) EffectivePoints() int {
	if p.OverridePoints != nil {
		return *p.OverridePoints
	}
	return p.Points
}
