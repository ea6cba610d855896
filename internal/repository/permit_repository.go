package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// PermitRepository handles absence permit data access.
type PermitRepository struct {
	pool *pgxpool.Pool
}

// NewPermitRepository creates a new PermitRepository.
func NewPermitRepository(pool *pgxpool.Pool) *PermitRepository {
	return &PermitRepository{pool: pool}
}

const permitColumns = `p.id, p.student_id, p.date, p.kind, p.reason, p.file_url, p.file_key,
	p.status, p.created_at, p.updated_at`

// GetByID retrieves a permit by ID.
func (r *PermitRepository) GetByID(ctx context.Context, id int) (*model.Permit, error) {
	p := &model.Permit{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+permitColumns+` FROM permits p WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.StudentID, &p.Date, &p.Kind, &p.Reason, &p.FileURL, &p.FileKey,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new permit in the waiting state.
func (r *PermitRepository) Create(ctx context.Context, p *model.Permit) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO permits (student_id, date, kind, reason, file_url, file_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, status, created_at, updated_at`,
		p.StudentID, p.Date, p.Kind, p.Reason, p.FileURL, p.FileKey,
	).Scan(&p.ID, &p.Status, &p.CreatedAt, &p.UpdatedAt)
}

// ListByStudent retrieves a student's permits, newest first.
func (r *PermitRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Permit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+permitColumns+` FROM permits p WHERE p.student_id = $1 ORDER BY p.id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permits []model.Permit
	for rows.Next() {
		var p model.Permit
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Date, &p.Kind, &p.Reason, &p.FileURL,
			&p.FileKey, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		permits = append(permits, p)
	}
	return permits, rows.Err()
}

// List retrieves permits with student names, optionally filtered by status.
func (r *PermitRepository) List(ctx context.Context, status *model.ApprovalStatus) ([]model.PermitDetail, error) {
	query := `SELECT ` + permitColumns + `, u.name
		 FROM permits p JOIN users u ON u.id = p.student_id`
	var args []interface{}
	if status != nil {
		query += ` WHERE p.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY p.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permits []model.PermitDetail
	for rows.Next() {
		var d model.PermitDetail
		if err := rows.Scan(&d.ID, &d.StudentID, &d.Date, &d.Kind, &d.Reason, &d.FileURL,
			&d.FileKey, &d.Status, &d.CreatedAt, &d.UpdatedAt, &d.StudentName); err != nil {
			return nil, err
		}
		permits = append(permits, d)
	}
	return permits, rows.Err()
}

// Decide moves a waiting permit to its final status. Returns pgx.ErrNoRows
// when the permit does not exist or was already decided.
func (r *PermitRepository) Decide(ctx context.Context, id int, status model.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE permits SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND status = 'menunggu'`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
