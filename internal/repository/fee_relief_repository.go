package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// FeeReliefRepository handles tuition relief request data access.
type FeeReliefRepository struct {
	pool *pgxpool.Pool
}

// NewFeeReliefRepository creates a new FeeReliefRepository.
func NewFeeReliefRepository(pool *pgxpool.Pool) *FeeReliefRepository {
	return &FeeReliefRepository{pool: pool}
}

// GetByID retrieves a relief request by ID.
func (r *FeeReliefRepository) GetByID(ctx context.Context, id int) (*model.FeeRelief, error) {
	f := &model.FeeRelief{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, reason, pct, file_url, file_key, status, created_at, updated_at
		 FROM fee_reliefs WHERE id = $1`, id,
	).Scan(&f.ID, &f.StudentID, &f.Reason, &f.Pct, &f.FileURL, &f.FileKey,
		&f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Create inserts a new relief request in the waiting state.
func (r *FeeReliefRepository) Create(ctx context.Context, f *model.FeeRelief) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO fee_reliefs (student_id, reason, pct, file_url, file_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, status, created_at, updated_at`,
		f.StudentID, f.Reason, f.Pct, f.FileURL, f.FileKey,
	).Scan(&f.ID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
}

// ListByStudent retrieves a student's relief requests, newest first.
func (r *FeeReliefRepository) ListByStudent(ctx context.Context, studentID int) ([]model.FeeRelief, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, reason, pct, file_url, file_key, status, created_at, updated_at
		 FROM fee_reliefs WHERE student_id = $1 ORDER BY id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reliefs []model.FeeRelief
	for rows.Next() {
		var f model.FeeRelief
		if err := rows.Scan(&f.ID, &f.StudentID, &f.Reason, &f.Pct, &f.FileURL, &f.FileKey,
			&f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		reliefs = append(reliefs, f)
	}
	return reliefs, rows.Err()
}

// List retrieves relief requests with student names, optionally by status.
func (r *FeeReliefRepository) List(ctx context.Context, status *model.ApprovalStatus) ([]model.FeeReliefDetail, error) {
	query := `SELECT f.id, f.student_id, f.reason, f.pct, f.file_url, f.file_key, f.status,
	          f.created_at, f.updated_at, u.name
	          FROM fee_reliefs f JOIN users u ON u.id = f.student_id`
	var args []interface{}
	if status != nil {
		query += ` WHERE f.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY f.id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reliefs []model.FeeReliefDetail
	for rows.Next() {
		var d model.FeeReliefDetail
		if err := rows.Scan(&d.ID, &d.StudentID, &d.Reason, &d.Pct, &d.FileURL, &d.FileKey,
			&d.Status, &d.CreatedAt, &d.UpdatedAt, &d.StudentName); err != nil {
			return nil, err
		}
		reliefs = append(reliefs, d)
	}
	return reliefs, rows.Err()
}

// Decide moves a waiting relief request to its final status. Returns
// pgx.ErrNoRows when it does not exist or was already decided.
func (r *FeeReliefRepository) Decide(ctx context.Context, id int, status model.ApprovalStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE fee_reliefs SET status = $1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $2 AND status = 'menunggu'`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
