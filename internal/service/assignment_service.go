package service

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/storage"
)

// ErrDeadlinePassed rejects submissions after the assignment deadline.
var ErrDeadlinePassed = errors.New("assignment deadline has passed")

// AssignmentService handles assignments, submissions and their files.
type AssignmentService struct {
	assignments *repository.AssignmentRepository
	classes     *ClassService
	store       *storage.Client
	notifier    *Notifier
	log         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignments *repository.AssignmentRepository, classes *ClassService, store *storage.Client, notifier *Notifier, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		classes:     classes,
		store:       store,
		notifier:    notifier,
		log:         log.With().Str("component", "assignment_service").Logger(),
	}
}

// Upload is an optional attachment accompanying a create or update.
type Upload struct {
	Reader      io.Reader
	ContentType string
}

// Create adds an assignment to a class the teacher owns. A failed
// attachment upload fails the whole request; members are then notified,
// best effort.
func (s *AssignmentService) Create(ctx context.Context, classID, teacherID int, req *model.AssignmentRequest, file *Upload) (*model.Assignment, error) {
	if err := s.requireOwner(ctx, classID, teacherID); err != nil {
		return nil, err
	}

	a := &model.Assignment{
		ClassID:     classID,
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
	}
	if file != nil {
		url, key, err := s.store.Upload(ctx, "assignments", file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		a.AttachmentURL = &url
		a.AttachmentKey = &key
	}
	if err := s.assignments.Create(ctx, a); err != nil {
		if a.AttachmentKey != nil {
			s.store.Delete(ctx, *a.AttachmentKey)
		}
		return nil, err
	}

	s.notifier.Enqueue(ctx, s.classes.MemberTokens(ctx, classID),
		"Tugas baru", fmt.Sprintf("Tugas %q telah ditambahkan.", a.Title))
	return a, nil
}

// Update rewrites an assignment. A new attachment replaces the old file,
// whose object is deleted best effort after the row is saved.
func (s *AssignmentService) Update(ctx context.Context, id, teacherID int, req *model.AssignmentRequest, file *Upload) (*model.Assignment, error) {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, a.ClassID, teacherID); err != nil {
		return nil, err
	}

	var oldKey string
	if file != nil {
		url, key, err := s.store.Upload(ctx, "assignments", file.Reader, file.ContentType)
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		if a.AttachmentKey != nil {
			oldKey = *a.AttachmentKey
		}
		a.AttachmentURL = &url
		a.AttachmentKey = &key
	}
	a.Title = req.Title
	a.Description = req.Description
	a.Deadline = req.Deadline

	if err := s.assignments.Update(ctx, a); err != nil {
		return nil, err
	}
	s.store.Delete(ctx, oldKey)
	return a, nil
}

// Delete removes an assignment and then its files, best effort.
func (s *AssignmentService) Delete(ctx context.Context, id, teacherID int) error {
	a, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.requireOwner(ctx, a.ClassID, teacherID); err != nil {
		return err
	}

	subs, err := s.assignments.ListSubmissions(ctx, id)
	if err != nil {
		return err
	}
	if err := s.assignments.Delete(ctx, id); err != nil {
		return err
	}
	if a.AttachmentKey != nil {
		s.store.Delete(ctx, *a.AttachmentKey)
	}
	for _, sub := range subs {
		s.store.Delete(ctx, sub.FileKey)
	}
	return nil
}

// Get retrieves one assignment.
func (s *AssignmentService) Get(ctx context.Context, id int) (*model.Assignment, error) {
	return s.assignments.GetByID(ctx, id)
}

// ListByClass retrieves a class's assignments.
func (s *AssignmentService) ListByClass(ctx context.Context, classID int) ([]model.Assignment, error) {
	return s.assignments.ListByClass(ctx, classID)
}

// Submit stores a student's answer file. Re-submitting before the deadline
// replaces the previous upload and deletes its object, best effort.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID, studentID int, file *Upload) (*model.Submission, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	member, err := s.classes.classes.IsMember(ctx, a.ClassID, studentID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, pgx.ErrNoRows
	}
	if time.Now().After(a.Deadline) {
		return nil, ErrDeadlinePassed
	}

	var oldKey string
	if prev, err := s.assignments.GetSubmission(ctx, assignmentID, studentID); err == nil {
		oldKey = prev.FileKey
	}

	url, key, err := s.store.Upload(ctx, "submissions", file.Reader, file.ContentType)
	if err != nil {
		return nil, fmt.Errorf("upload submission: %w", err)
	}

	sub := &model.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FileURL:      url,
		FileKey:      key,
	}
	if err := s.assignments.UpsertSubmission(ctx, sub); err != nil {
		s.store.Delete(ctx, key)
		return nil, err
	}
	if oldKey != "" && oldKey != key {
		s.store.Delete(ctx, oldKey)
	}
	return sub, nil
}

// Submissions retrieves every submission for grading.
func (s *AssignmentService) Submissions(ctx context.Context, assignmentID, teacherID int) ([]model.SubmissionDetail, error) {
	a, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwner(ctx, a.ClassID, teacherID); err != nil {
		return nil, err
	}
	return s.assignments.ListSubmissions(ctx, assignmentID)
}

// OwnSubmission retrieves the caller's submission, if any.
func (s *AssignmentService) OwnSubmission(ctx context.Context, assignmentID, studentID int) (*model.Submission, error) {
	return s.assignments.GetSubmission(ctx, assignmentID, studentID)
}

// ZipSubmissions streams every submission file into one zip archive named
// after the submitting students. Files that cannot be fetched are skipped
// so one lost object never breaks the download.
func (s *AssignmentService) ZipSubmissions(ctx context.Context, assignmentID, teacherID int, w io.Writer) error {
	subs, err := s.Submissions(ctx, assignmentID, teacherID)
	if err != nil {
		return err
	}

	archive := zip.NewWriter(w)
	for _, sub := range subs {
		body, err := s.store.Fetch(ctx, sub.FileKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", sub.FileKey).Msg("skipping unreadable submission")
			continue
		}
		name := fmt.Sprintf("%s%s", sub.StudentName, path.Ext(sub.FileKey))
		entry, err := archive.Create(name)
		if err != nil {
			body.Close()
			return err
		}
		if _, err := io.Copy(entry, body); err != nil {
			body.Close()
			return err
		}
		body.Close()
	}
	return archive.Close()
}

func (s *AssignmentService) requireOwner(ctx context.Context, classID, teacherID int) error {
	owner, err := s.classes.IsOwner(ctx, classID, teacherID)
	if err != nil {
		return err
	}
	if !owner {
		return ErrNotClassOwner
	}
	return nil
}
