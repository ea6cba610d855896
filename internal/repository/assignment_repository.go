package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

const assignmentColumns = `id, class_id, title, description, deadline,
	attachment_url, attachment_key, created_at, updated_at`

// AssignmentRepository handles assignment and submission data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := row.Scan(&a.ID, &a.ClassID, &a.Title, &a.Description, &a.Deadline,
		&a.AttachmentURL, &a.AttachmentKey, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int) (*model.Assignment, error) {
	return scanAssignment(r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
}

// ListByClass retrieves a class's assignments, newest deadline first.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID int) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE class_id = $1
		 ORDER BY deadline DESC, id DESC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assignments (class_id, title, description, deadline, attachment_url, attachment_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		a.ClassID, a.Title, a.Description, a.Deadline, a.AttachmentURL, a.AttachmentKey,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update rewrites an assignment, including its attachment columns.
func (r *AssignmentRepository) Update(ctx context.Context, a *model.Assignment) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE assignments SET title = $1, description = $2, deadline = $3,
		 attachment_url = $4, attachment_key = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		a.Title, a.Description, a.Deadline, a.AttachmentURL, a.AttachmentKey, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes an assignment. Submissions cascade at the schema level.
func (r *AssignmentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetSubmission retrieves one student's submission for an assignment.
func (r *AssignmentRepository) GetSubmission(ctx context.Context, assignmentID, studentID int) (*model.Submission, error) {
	s := &model.Submission{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, assignment_id, student_id, file_url, file_key, submitted_at
		 FROM submissions WHERE assignment_id = $1 AND student_id = $2`,
		assignmentID, studentID,
	).Scan(&s.ID, &s.AssignmentID, &s.StudentID, &s.FileURL, &s.FileKey, &s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// UpsertSubmission records a submission, replacing a previous one from the
// same student.
func (r *AssignmentRepository) UpsertSubmission(ctx context.Context, s *model.Submission) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions (assignment_id, student_id, file_url, file_key)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (assignment_id, student_id)
		 DO UPDATE SET file_url = EXCLUDED.file_url, file_key = EXCLUDED.file_key,
		               submitted_at = CURRENT_TIMESTAMP
		 RETURNING id, submitted_at`,
		s.AssignmentID, s.StudentID, s.FileURL, s.FileKey,
	).Scan(&s.ID, &s.SubmittedAt)
}

// ListSubmissions retrieves every submission for an assignment with student
// names, for grading and archive downloads.
func (r *AssignmentRepository) ListSubmissions(ctx context.Context, assignmentID int) ([]model.SubmissionDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.assignment_id, s.student_id, s.file_url, s.file_key, s.submitted_at, u.name
		 FROM submissions s
		 JOIN users u ON u.id = s.student_id
		 WHERE s.assignment_id = $1
		 ORDER BY u.name`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.SubmissionDetail
	for rows.Next() {
		var d model.SubmissionDetail
		if err := rows.Scan(&d.ID, &d.AssignmentID, &d.StudentID, &d.FileURL, &d.FileKey,
			&d.SubmittedAt, &d.StudentName); err != nil {
			return nil, err
		}
		subs = append(subs, d)
	}
	return subs, rows.Err()
}

// FileKeysByClass collects the object keys of every assignment attachment
// and submission under one class, for storage cleanup when the class goes.
func (r *AssignmentRepository) FileKeysByClass(ctx context.Context, classID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT attachment_key FROM assignments WHERE class_id = $1 AND attachment_key IS NOT NULL
		 UNION ALL
		 SELECT s.file_key FROM submissions s
		 JOIN assignments a ON a.id = s.assignment_id
		 WHERE a.class_id = $1`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
