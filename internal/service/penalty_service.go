package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
)

// ErrOverrideReasonRequired rejects a points override without a reason.
var ErrOverrideReasonRequired = errors.New("override_reason is required when override_points is set")

// PenaltyService handles disciplinary records.
type PenaltyService struct {
	penalties *repository.PenaltyRepository
	users     *repository.UserRepository
	notifier  *Notifier
	log       zerolog.Logger
}

// NewPenaltyService creates a new PenaltyService.
func NewPenaltyService(penalties *repository.PenaltyRepository, users *repository.UserRepository, notifier *Notifier, log zerolog.Logger) *PenaltyService {
	return &PenaltyService{
		penalties: penalties,
		users:     users,
		notifier:  notifier,
		log:       log.With().Str("component", "penalty_service").Logger(),
	}
}

func penaltyFromRequest(req *model.PenaltyRequest, issuedBy int) (*model.Penalty, error) {
	if req.OverridePoints != nil && req.OverrideReason == "" {
		return nil, ErrOverrideReasonRequired
	}
	p := &model.Penalty{
		StudentID:      req.StudentID,
		Rule:           req.Rule,
		Points:         req.Points,
		OverridePoints: req.OverridePoints,
		IssuedBy:       issuedBy,
	}
	if req.OverrideReason != "" {
		reason := req.OverrideReason
		p.OverrideReason = &reason
	}
	return p, nil
}

// Record issues a penalty and notifies the student, best effort.
func (s *PenaltyService) Record(ctx context.Context, issuedBy int, req *model.PenaltyRequest) (*model.Penalty, error) {
	p, err := penaltyFromRequest(req, issuedBy)
	if err != nil {
		return nil, err
	}
	if err := s.penalties.Create(ctx, p); err != nil {
		return nil, err
	}

	if tokens, err := s.users.DeviceTokensByIDs(ctx, []int{p.StudentID}); err == nil {
		s.notifier.Enqueue(ctx, tokens, "Catatan pelanggaran",
			fmt.Sprintf("Anda menerima %d poin pelanggaran: %s", p.EffectivePoints(), p.Rule))
	}
	return p, nil
}

// Update rewrites a penalty under the same override rule.
func (s *PenaltyService) Update(ctx context.Context, id int, req *model.PenaltyRequest) (*model.Penalty, error) {
	p, err := penaltyFromRequest(req, 0)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.penalties.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.penalties.GetByID(ctx, id)
}

// Delete removes a penalty.
func (s *PenaltyService) Delete(ctx context.Context, id int) error {
	return s.penalties.Delete(ctx, id)
}

// List retrieves every penalty with names.
func (s *PenaltyService) List(ctx context.Context) ([]model.PenaltyDetail, error) {
	return s.penalties.List(ctx)
}

// ListByStudent retrieves one student's penalties plus their running total.
func (s *PenaltyService) ListByStudent(ctx context.Context, studentID int) ([]model.Penalty, int, error) {
	penalties, err := s.penalties.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.penalties.TotalPoints(ctx, studentID)
	if err != nil {
		return nil, 0, err
	}
	return penalties, total, nil
}
