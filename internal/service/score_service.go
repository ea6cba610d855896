package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
)

// ScoreService handles grading.
type ScoreService struct {
	scores  *repository.ScoreRepository
	classes *ClassService
}

// NewScoreService creates a new ScoreService.
func NewScoreService(scores *repository.ScoreRepository, classes *ClassService) *ScoreService {
	return &ScoreService{scores: scores, classes: classes}
}

// Record stores one score. The student must be a member of the class and
// the teacher must own it; a repeated write for the same component
// overwrites the earlier value.
func (s *ScoreService) Record(ctx context.Context, classID, teacherID int, req *model.ScoreRequest) (*model.Score, error) {
	owner, err := s.classes.IsOwner(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrNotClassOwner
	}
	member, err := s.classes.classes.IsMember(ctx, classID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, pgx.ErrNoRows
	}

	score := &model.Score{
		StudentID: req.StudentID,
		ClassID:   classID,
		Kind:      model.ScoreKind(req.Kind),
		Value:     req.Value,
	}
	if err := s.scores.Upsert(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

// ListByClass retrieves a class's scores for its teacher.
func (s *ScoreService) ListByClass(ctx context.Context, classID, teacherID int) ([]model.ScoreDetail, error) {
	owner, err := s.classes.IsOwner(ctx, classID, teacherID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrNotClassOwner
	}
	return s.scores.ListByClass(ctx, classID)
}

// ListByStudent retrieves a student's own scores.
func (s *ScoreService) ListByStudent(ctx context.Context, studentID int) ([]model.Score, error) {
	return s.scores.ListByStudent(ctx, studentID)
}

// ExportCSV writes the grade report for one class, or the whole school when
// classID is 0.
func (s *ScoreService) ExportCSV(ctx context.Context, classID int, w io.Writer) error {
	report, err := s.scores.ListForReport(ctx, classID)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"student", "class", "kind", "value"}); err != nil {
		return err
	}
	for _, row := range report {
		if err := writer.Write([]string{
			row.StudentName, row.ClassName, string(row.Kind), strconv.Itoa(row.Value),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
