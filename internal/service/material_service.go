package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/storage"
)

// MaterialService handles learning materials and their files.
type MaterialService struct {
	materials *repository.MaterialRepository
	classes   *ClassService
	store     *storage.Client
	notifier  *Notifier
	log       zerolog.Logger
}

// NewMaterialService creates a new MaterialService.
func NewMaterialService(materials *repository.MaterialRepository, classes *ClassService, store *storage.Client, notifier *Notifier, log zerolog.Logger) *MaterialService {
	return &MaterialService{
		materials: materials,
		classes:   classes,
		store:     store,
		notifier:  notifier,
		log:       log.With().Str("component", "material_service").Logger(),
	}
}

// Create shares a material with a class the teacher owns and notifies the
// members, best effort.
func (s *MaterialService) Create(ctx context.Context, classID, teacherID int, req *model.MaterialRequest, file *Upload) (*model.Material, error) {
	if err := s.requireOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}

	m := &model.Material{
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
	}
	if file != nil {
		url, key, err := s.store.Upload(ctx, "materials", file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload material: %w", err)
		}
		m.FileURL = &url
		m.FileKey = &key
	}
	if err := s.materials.Create(ctx, m); err != nil {
		if m.FileKey != nil {
			s.store.Delete(ctx, *m.FileKey)
		}
		return nil, err
	}

	s.notifier.Enqueue(ctx, s.classes.MemberTokens(ctx, classID),
		"Materi baru", fmt.Sprintf("Materi %q telah dibagikan.", m.Title))
	return m, nil
}

// Update rewrites a material. A new file replaces the old one, whose object
// is deleted best effort after the row is saved.
func (s *MaterialService) Update(ctx context.Context, id, teacherID int, req *model.MaterialRequest, file *Upload) (*model.Material, error) {
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, m.ClassID, teacherID); err != nil {
		return nil, err
	}

	var oldKey string
	if file != nil {
		url, key, err := s.store.Upload(ctx, "materials", file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload material: %w", err)
		}
		if m.FileKey != nil {
			oldKey = *m.FileKey
		}
		m.FileURL = &url
		m.FileKey = &key
	}
	m.Title = req.Title
	m.Description = req.Description

	if err := s.materials.Update(ctx, m); err != nil {
		return nil, err
	}
	s.store.Delete(ctx, oldKey)
	return m, nil
}

// Delete removes a material and then its file, best effort.
func (s *MaterialService) Delete(ctx context.Context, id, teacherID int) error {
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, m.ClassID, teacherID); err != nil {
		return err
	}
	if err := s.materials.Delete(ctx, id); err != nil {
		return err
	}
	if m.FileKey != nil {
		s.store.Delete(ctx, *m.FileKey)
	}
	return nil
}

// Get retrieves one material.
func (s *MaterialService) Get(ctx context.Context, id int) (*model.Material, error) {
	return s.materials.GetByID(ctx, id)
}

// ListByClass retrieves a class's materials.
func (s *MaterialService) ListByClass(ctx context.Context, classID int) ([]model.Material, error) {
	return s.materials.ListByClass(ctx, classID)
}

func (s *MaterialService) requireOwner(ctx context.Context, classID, teacherID int) error {
	owner, err := s.classes.IsOwner(ctx, classID, teacherID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotClassOwner
	}
	return nil
}
