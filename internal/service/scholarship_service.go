package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/storage"
)

// ScholarshipService handles programs and student applications.
type ScholarshipService struct {
	scholarships *repository.ScholarshipRepository
	users        *repository.UserRepository
	store        *storage.Client
	notifier     *Notifier
	log          zerolog.Logger
}

// NewScholarshipService creates a new ScholarshipService.
func NewScholarshipService(scholarships *repository.ScholarshipRepository, users *repository.UserRepository, store *storage.Client, notifier *Notifier, log zerolog.Logger) *ScholarshipService {
	return &ScholarshipService{
		scholarships: scholarships,
		users:        users,
		store:        store,
		notifier:     notifier,
		log:          log.With().Str("component", "scholarship_service").Logger(),
	}
}

// CreateProgram publishes a program and notifies every student, best effort.
func (s *ScholarshipService) CreateProgram(ctx context.Context, req *model.ScholarshipProgramRequest) (*model.ScholarshipProgram, error) {
	p := &model.ScholarshipProgram{
		Name:        req.Name,
		Description: req.Description,
		Provider:    req.Provider,
		Quota:       req.Quota,
		Deadline:    req.Deadline,
	}
	if err := s.scholarships.CreateProgram(ctx, p); err != nil {
		return nil, err
	}

	if tokens, err := s.users.DeviceTokensByRoles(ctx, []model.Role{model.RoleStudent}); err == nil {
		s.notifier.Enqueue(ctx, tokens, "Beasiswa baru",
			fmt.Sprintf("Program beasiswa %q telah dibuka.", p.Name))
	}
	return p, nil
}

// UpdateProgram rewrites a program.
func (s *ScholarshipService) UpdateProgram(ctx context.Context, id int, req *model.ScholarshipProgramRequest) (*model.ScholarshipProgram, error) {
	p := &model.ScholarshipProgram{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Provider:    req.Provider,
		Quota:       req.Quota,
		Deadline:    req.Deadline,
	}
	if err := s.scholarships.UpdateProgram(ctx, p); err != nil {
		return nil, err
	}
	return s.scholarships.GetProgram(ctx, id)
}

// DeleteProgram removes a program and its applications.
func (s *ScholarshipService) DeleteProgram(ctx context.Context, id int) error {
	return s.scholarships.DeleteProgram(ctx, id)
}

// GetProgram retrieves one program.
func (s *ScholarshipService) GetProgram(ctx context.Context, id int) (*model.ScholarshipProgram, error) {
	return s.scholarships.GetProgram(ctx, id)
}

// ListPrograms retrieves every program.
func (s *ScholarshipService) ListPrograms(ctx context.Context) ([]model.ScholarshipProgram, error) {
	return s.scholarships.ListPrograms(ctx)
}

// Apply files a student's application before the program deadline. One
// application per student per program.
func (s *ScholarshipService) Apply(ctx context.Context, programID, studentID int, req *model.ScholarshipApplyRequest, file *Upload) (*model.ScholarshipApplication, error) {
	program, err := s.scholarships.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if time.Now().After(program.Deadline) {
		return nil, ErrDeadlinePassed
	}

	a := &model.ScholarshipApplication{
		ProgramID: programID,
		StudentID: studentID,
		Essay:     req.Essay,
	}
	if file != nil {
		url, key, err := s.store.Upload(ctx, "scholarships", file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload document: %w", err)
		}
		a.FileURL = &url
		a.FileKey = &key
	}
	if err := s.scholarships.CreateApplication(ctx, a); err != nil {
		if a.FileKey != nil {
			s.store.Delete(ctx, *a.FileKey)
		}
		return nil, err
	}
	return a, nil
}

// ListApplications retrieves a program's applications for review.
func (s *ScholarshipService) ListApplications(ctx context.Context, programID int) ([]model.ScholarshipApplicationDetail, error) {
	return s.scholarships.ListApplicationsByProgram(ctx, programID)
}

// ListOwnApplications retrieves the caller's applications.
func (s *ScholarshipService) ListOwnApplications(ctx context.Context, studentID int) ([]model.ScholarshipApplicationDetail, error) {
	return s.scholarships.ListApplicationsByStudent(ctx, studentID)
}

// Decide approves or rejects a waiting application and notifies the
// student, best effort.
func (s *ScholarshipService) Decide(ctx context.Context, id int, status model.ApprovalStatus) (*model.ScholarshipApplication, error) {
	a, err := s.scholarships.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.StatusMenunggu {
		return nil, ErrAlreadyDecided
	}
	if err := s.scholarships.DecideApplication(ctx, id, status); err != nil {
		return nil, err
	}
	a.Status = status

	if tokens, err := s.users.DeviceTokensByIDs(ctx, []int{a.StudentID}); err == nil {
		verdict := "disetujui"
		if status == model.StatusDitolak {
			verdict = "ditolak"
		}
		s.notifier.Enqueue(ctx, tokens, "Beasiswa diputuskan",
			fmt.Sprintf("Lamaran beasiswa Anda telah %s.", verdict))
	}
	return a, nil
}
