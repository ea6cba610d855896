package service

import (
	"context"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
)

// CritiqueService handles student feedback to the school.
type CritiqueService struct {
	critiques *repository.CritiqueRepository
}

// NewCritiqueService creates a new CritiqueService.
func NewCritiqueService(critiques *repository.CritiqueRepository) *CritiqueService {
	return &CritiqueService{critiques: critiques}
}

// Submit files a critique. An anonymous one drops the author id entirely,
// so not even admins can trace it back.
func (s *CritiqueService) Submit(ctx context.Context, studentID int, req *model.CritiqueRequest) (*model.Critique, error) {
	c := &model.Critique{
		Subject: req.Subject,
		Body:    req.Body,
	}
	if !req.Anonymous {
		c.StudentID = &studentID
	}
	if err := s.critiques.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves every critique. Admin view.
func (s *CritiqueService) List(ctx context.Context) ([]model.Critique, error) {
	return s.critiques.List(ctx)
}
