package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/storage"
)

// FeeReliefService handles tuition relief requests.
type FeeReliefService struct {
	reliefs  *repository.FeeReliefRepository
	users    *repository.UserRepository
	store    *storage.Client
	notifier *Notifier
	log      zerolog.Logger
}

// NewFeeReliefService creates a new FeeReliefService.
func NewFeeReliefService(reliefs *repository.FeeReliefRepository, users *repository.UserRepository, store *storage.Client, notifier *Notifier, log zerolog.Logger) *FeeReliefService {
	return &FeeReliefService{
		reliefs:  reliefs,
		users:    users,
		store:    store,
		notifier: notifier,
		log:      log.With().Str("component", "fee_relief_service").Logger(),
	}
}

// Submit files a relief request, optionally with a supporting document.
func (s *FeeReliefService) Submit(ctx context.Context, studentID int, req *model.FeeReliefRequest, file *Upload) (*model.FeeRelief, error) {
	f := &model.FeeRelief{
		StudentID: studentID,
		Reason:    req.Reason,
		Pct:       req.Pct,
	}
	if file != nil {
		url, key, err := s.store.Upload(ctx, "fee-reliefs", file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload document: %w", err)
		}
		f.FileURL = &url
		f.FileKey = &key
	}
	if err := s.reliefs.Create(ctx, f); err != nil {
		if f.FileKey != nil {
			s.store.Delete(ctx, *f.FileKey)
		}
		return nil, err
	}
	return f, nil
}

// ListOwn retrieves the caller's relief requests.
func (s *FeeReliefService) ListOwn(ctx context.Context, studentID int) ([]model.FeeRelief, error) {
	return s.reliefs.ListByStudent(ctx, studentID)
}

// List retrieves relief requests for review, optionally by status.
func (s *FeeReliefService) List(ctx context.Context, status *model.ApprovalStatus) ([]model.FeeReliefDetail, error) {
	return s.reliefs.List(ctx, status)
}

// Decide approves or rejects a waiting request and notifies the student,
// best effort.
func (s *FeeReliefService) Decide(ctx context.Context, id int, status model.ApprovalStatus) (*model.FeeRelief, error) {
	f, err := s.reliefs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status != model.StatusMenunggu {
		return nil, ErrAlreadyDecided
	}
	if err := s.reliefs.Decide(ctx, id, status); err != nil {
		return nil, err
	}
	f.Status = status

	if tokens, err := s.users.DeviceTokensByIDs(ctx, []int{f.StudentID}); err == nil {
		verdict := "disetujui"
		if status == model.StatusDitolak {
			verdict = "ditolak"
		}
		s.notifier.Enqueue(ctx, tokens, "Keringanan SPP diputuskan",
			fmt.Sprintf("Pengajuan keringanan SPP Anda telah %s.", verdict))
	}
	return f, nil
}
