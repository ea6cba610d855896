package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// ErrDuplicateApplication signals a student applying twice to one program.
var ErrDuplicateApplication = errors.New("student already applied to this program")

// ScholarshipRepository handles scholarship program and application data access.
type ScholarshipRepository struct {
	pool *pgxpool.Pool
}

// NewScholarshipRepository creates a new ScholarshipRepository.
func NewScholarshipRepository(pool *pgxpool.Pool) *ScholarshipRepository {
	return &ScholarshipRepository{pool: pool}
}

const programColumns = `id, name, description, provider, quota, deadline, created_at, updated_at`

func scanProgram(row pgx.Row) (*model.ScholarshipProgram, error) {
	p := &model.ScholarshipProgram{}
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Provider, &p.Quota, &p.Deadline,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProgram retrieves a program by ID.
func (r *ScholarshipRepository) GetProgram(ctx context.Context, id int) (*model.ScholarshipProgram, error) {
	return scanProgram(r.pool.QueryRow(ctx,
		`SELECT `+programColumns+` FROM scholarship_programs WHERE id = $1`, id))
}

// ListPrograms retrieves every program, nearest deadline first.
func (r *ScholarshipRepository) ListPrograms(ctx context.Context) ([]model.ScholarshipProgram, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+programColumns+` FROM scholarship_programs ORDER BY deadline, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []model.ScholarshipProgram
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, *p)
	}
	return programs, rows.Err()
}

// CreateProgram inserts a new program.
func (r *ScholarshipRepository) CreateProgram(ctx context.Context, p *model.ScholarshipProgram) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO scholarship_programs (name, description, provider, quota, deadline)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.Description, p.Provider, p.Quota, p.Deadline,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// UpdateProgram rewrites a program.
func (r *ScholarshipRepository) UpdateProgram(ctx context.Context, p *model.ScholarshipProgram) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE scholarship_programs SET name = $1, description = $2, provider = $3,
		 quota = $4, deadline = $5, updated_at = CURRENT_TIMESTAMP WHERE id = $6`,
		p.Name, p.Description, p.Provider, p.Quota, p.Deadline, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteProgram removes a program. Applications cascade at the schema level.
func (r *ScholarshipRepository) DeleteProgram(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM scholarship_programs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// GetApplication retrieves an application by ID.
func (r *ScholarshipRepository) GetApplication(ctx context.Context, id int) (*model.ScholarshipApplication, error) {
	a := &model.ScholarshipApplication{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, program_id, student_id, essay, file_url, file_key, status, created_at, updated_at
		 FROM scholarship_applications WHERE id = $1`, id,
	).Scan(&a.ID, &a.ProgramID, &a.StudentID, &a.Essay, &a.FileURL, &a.FileKey,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateApplication inserts a new application in the waiting state.
func (r *ScholarshipRepository) CreateApplication(ctx context.Context, a *model.ScholarshipApplication) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO scholarship_applications (program_id, student_id, essay, file_url, file_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, status, created_at, updated_at`,
		a.ProgramID, a.StudentID, a.Essay, a.FileURL, a.FileKey,
	).Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateApplication
		}
	}
	return err
}

// ListApplicationsByProgram retrieves a program's applications with names.
func (r *ScholarshipRepository) ListApplicationsByProgram(ctx context.Context, programID int) ([]model.ScholarshipApplicationDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.program_id, a.student_id, a.essay, a.file_url, a.file_key, a.status,
		        a.created_at, a.updated_at, u.name, p.name
		 FROM scholarship_applications a
		 JOIN users u ON u.id = a.student_id
		 JOIN scholarship_programs p ON p.id = a.program_id
		 WHERE a.program_id = $1
		 ORDER BY a.id`, programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

// ListApplicationsByStudent retrieves a student's applications with names.
func (r *ScholarshipRepository) ListApplicationsByStudent(ctx context.Context, studentID int) ([]model.ScholarshipApplicationDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.program_id, a.student_id, a.essay, a.file_url, a.file_key, a.status,
		        a.created_at, a.updated_at, u.name, p.name
		 FROM scholarship_applications a
		 JOIN users u ON u.id = a.student_id
		 JOIN scholarship_programs p ON p.id = a.program_id
		 WHERE a.student_id = $1
		 ORDER BY a.id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

func collectApplications(rows pgx.Rows) ([]model.ScholarshipApplicationDetail, error) {
	var apps []model.ScholarshipApplicationDetail
	for rows.Next() {
		var d model.ScholarshipApplicationDetail
		if err := rows.Scan(&d.ID, &d.ProgramID, &d.StudentID, &d.Essay, &d.FileURL, &d.FileKey,
			&d.Status, &d.CreatedAt, &d.UpdatedAt, &d.StudentName, &d.ProgramName); err != nil {
			return nil, err
		}
		apps = append(apps, d)
	}
	return apps, rows.Err()
}

// DecideApplication moves a waiting application to its final status.
// Returns pgx.ErrNoRows when it does not exist or was already decided.
func (r *ScholarshipRepository) DecideApplication(ctx context.Context, id int, status model.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE scholarship_applications SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND status = 'menunggu'`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CountApproved counts a program's approved applications, for quota checks.
func (r *ScholarshipRepository) CountApproved(ctx context.Context, programID int) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM scholarship_applications
		 WHERE program_id = $1 AND status = 'disetujui'`, programID).Scan(&n)
	return n, err
}
