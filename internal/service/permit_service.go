package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/storage"
)

// ErrAlreadyDecided rejects a second decision on the same request.
var ErrAlreadyDecided = errors.New("request has already been decided")

// PermitService handles absence permits and their attendance side effects.
type PermitService struct {
	permits     *repository.PermitRepository
	attendances *repository.AttendanceRepository
	users       *repository.UserRepository
	store       *storage.Client
	notifier    *Notifier
	log         zerolog.Logger
}

// NewPermitService creates a new PermitService.
func NewPermitService(permits *repository.PermitRepository, attendances *repository.AttendanceRepository, users *repository.UserRepository, store *storage.Client, notifier *Notifier, log zerolog.Logger) *PermitService {
	return &PermitService{
		permits:     permits,
		attendances: attendances,
		users:       users,
		store:       store,
		notifier:    notifier,
		log:         log.With().Str("component", "permit_service").Logger(),
	}
}

// Submit files a permit for one date, optionally with a supporting letter.
// A failed letter upload fails the whole request.
func (s *PermitService) Submit(ctx context.Context, studentID int, req *model.PermitRequest, file *Upload) (*model.Permit, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, err
	}

	p := &model.Permit{
		StudentID: studentID,
		Date:      date,
		Kind:      model.PermitKind(req.Kind),
		Reason:    req.Reason,
	}
	if file != nil {
		url, key, err := s.store.Upload(ctx, "permits", file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload letter: %w", err)
		}
		p.FileURL = &url
		p.FileKey = &key
	}
	if err := s.permits.Create(ctx, p); err != nil {
		if p.FileKey != nil {
			s.store.Delete(ctx, *p.FileKey)
		}
		return nil, err
	}
	return p, nil
}

// ListOwn retrieves the caller's permits.
func (s *PermitService) ListOwn(ctx context.Context, studentID int) ([]model.Permit, error) {
	return s.permits.ListByStudent(ctx, studentID)
}

// List retrieves permits for review, optionally filtered by status.
func (s *PermitService) List(ctx context.Context, status *model.ApprovalStatus) ([]model.PermitDetail, error) {
	return s.permits.List(ctx, status)
}

// Decide approves or rejects a waiting permit. Approval normalizes the
// student's attendance on that date to the permit's kind across every class
// they are enrolled in; a failure there is logged, not raised, since the
// decision itself already stands. The student is notified, best effort.
func (s *PermitService) Decide(ctx context.Context, id int, status model.ApprovalStatus) (*model.Permit, error) {
	p, err := s.permits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != model.StatusMenunggu {
		return nil, ErrAlreadyDecided
	}
	if err := s.permits.Decide(ctx, id, status); err != nil {
		return nil, err
	}
	p.Status = status

	if status == model.StatusDisetujui {
		if err := s.attendances.NormalizeForStudentDate(ctx, p.StudentID, p.Date, model.AttendanceStatus(p.Kind)); err != nil {
			s.log.Error().Err(err).Int("permit_id", id).Msg("attendance normalize failed")
		}
	}

	if tokens, err := s.users.DeviceTokensByIDs(ctx, []int{p.StudentID}); err == nil {
		verdict := "disetujui"
		if status == model.StatusDitolak {
			verdict = "ditolak"
		}
		s.notifier.Enqueue(ctx, tokens, "Izin diputuskan",
			fmt.Sprintf("Pengajuan izin Anda untuk %s telah %s.", p.Date.Format("2006-01-02"), verdict))
	}
	return p, nil
}
