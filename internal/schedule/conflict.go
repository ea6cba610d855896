// Package schedule holds the pure scheduling and enrollment rules of the
// school timetable: conflict detection between classes, auto-enrollment
// eligibility, membership set arithmetic and the bulk CSV import planner.
// Nothing in this package touches the database; callers fetch the inputs and
// persist the outputs.
package schedule

import (
	"errors"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// ErrInvalidTimeRange is returned before any conflict comparison when a
// candidate's start is not strictly before its end.
var ErrInvalidTimeRange = errors.New("start time must be before end time")

// ConflictReason identifies which category rule blocked a candidate class.
type ConflictReason string

const (
	// ReasonCandidateWajib: the candidate is Wajib and overlaps anything.
	ReasonCandidateWajib ConflictReason = "WAJIB_VS_ANY"
	// ReasonExistingWajib: the candidate overlaps an existing Wajib class.
	ReasonExistingWajib ConflictReason = "ANY_VS_WAJIB"
	// ReasonSameCategory: two overlapping classes share a non-Wajib category.
	ReasonSameCategory ConflictReason = "SAME_CATEGORY"
)

// Conflict names the first existing class that blocks a candidate.
type Conflict struct {
	With   model.Class
	Reason ConflictReason
}

// Overlaps reports whether half-open minute intervals [s1,e1) and [s2,e2)
// intersect. Touching boundaries (e1 == s2) do not overlap, so classes may
// run back to back.
func Overlaps(s1, e1, s2, e2 int) bool {
	return max(s1, s2) < min(e1, e2)
}

// CheckConflict decides whether a candidate class may occupy its time slot,
// given the existing classes of the same grade and day. The caller must
// exclude the class being edited from existing.
//
// Category precedence on overlap, first match wins:
//  1. candidate Wajib blocks against everything,
//  2. an existing Wajib blocks everything,
//  3. equal non-Wajib categories block each other,
//  4. different non-Wajib categories coexist.
//
// Existing classes are scanned in the order given and the first blocking
// class is returned; nil means the slot is free.
func CheckConflict(candidate model.Class, existing []model.Class) (*Conflict, error) {
	if candidate.StartMinute >= candidate.EndMinute {
		return nil, ErrInvalidTimeRange
	}

	for _, other := range existing {
		if !Overlaps(candidate.StartMinute, candidate.EndMinute, other.StartMinute, other.EndMinute) {
			continue
		}
		switch {
		case candidate.Category == model.CategoryWajib:
			return &Conflict{With: other, Reason: ReasonCandidateWajib}, nil
		case other.Category == model.CategoryWajib:
			return &Conflict{With: other, Reason: ReasonExistingWajib}, nil
		case candidate.Category == other.Category:
			return &Conflict{With: other, Reason: ReasonSameCategory}, nil
		}
	}
	return nil, nil
}
