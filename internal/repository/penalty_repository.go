package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// PenaltyRepository handles disciplinary record data access.
type PenaltyRepository struct {
	pool *pgxpool.Pool
}

// NewPenaltyRepository creates a new PenaltyRepository.
func NewPenaltyRepository(pool *pgxpool.Pool) *PenaltyRepository {
	return &PenaltyRepository{pool: pool}
}

const penaltyColumns = `p.id, p.student_id, p.rule, p.points, p.override_points,
	p.override_reason, p.issued_by, p.created_at, p.updated_at`

// GetByID retrieves a penalty by ID.
func (r *PenaltyRepository) GetByID(ctx context.Context, id int) (*model.Penalty, error) {
	p := &model.Penalty{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+penaltyColumns+` FROM penalties p WHERE p.id = $1`, id,
	).Scan(&p.ID, &p.StudentID, &p.Rule, &p.Points, &p.OverridePoints,
		&p.OverrideReason, &p.IssuedBy, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create inserts a new penalty.
func (r *PenaltyRepository) Create(ctx context.Context, p *model.Penalty) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO penalties (student_id, rule, points, override_points, override_reason, issued_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		p.StudentID, p.Rule, p.Points, p.OverridePoints, p.OverrideReason, p.IssuedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update rewrites a penalty.
func (r *PenaltyRepository) Update(ctx context.Context, p *model.Penalty) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE penalties SET rule = $1, points = $2, override_points = $3,
		 override_reason = $4, updated_at = CURRENT_TIMESTAMP WHERE id = $5`,
		p.Rule, p.Points, p.OverridePoints, p.OverrideReason, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a penalty.
func (r *PenaltyRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM penalties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListByStudent retrieves a student's penalties, newest first.
func (r *PenaltyRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Penalty, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+penaltyColumns+` FROM penalties p WHERE p.student_id = $1 ORDER BY p.id DESC`,
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var penalties []model.Penalty
	for rows.Next() {
		var p model.Penalty
		if err := rows.Scan(&p.ID, &p.StudentID, &p.Rule, &p.Points, &p.OverridePoints,
			&p.OverrideReason, &p.IssuedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		penalties = append(penalties, p)
	}
	return penalties, rows.Err()
}

// List retrieves every penalty with student and issuer names.
func (r *PenaltyRepository) List(ctx context.Context) ([]model.PenaltyDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+penaltyColumns+`, s.name, i.name
		 FROM penalties p
		 JOIN users s ON s.id = p.student_id
		 JOIN users i ON i.id = p.issued_by
		 ORDER BY p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var penalties []model.PenaltyDetail
	for rows.Next() {
		var d model.PenaltyDetail
		if err := rows.Scan(&d.ID, &d.StudentID, &d.Rule, &d.Points, &d.OverridePoints,
			&d.OverrideReason, &d.IssuedBy, &d.CreatedAt, &d.UpdatedAt,
			&d.StudentName, &d.IssuerName); err != nil {
			return nil, err
		}
		penalties = append(penalties, d)
	}
	return penalties, rows.Err()
}

// TotalPoints sums a student's effective penalty points.
func (r *PenaltyRepository) TotalPoints(ctx context.Context, studentID int) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(COALESCE(override_points, points)), 0)
		 FROM penalties WHERE student_id = $1`, studentID).Scan(&total)
	return total, err
}
