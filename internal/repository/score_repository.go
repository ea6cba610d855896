package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// ScoreRepository handles grade data access.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Upsert records a score, overwriting a previous value for the same
// (student, class, kind).
func (r *ScoreRepository) Upsert(ctx context.Context, s *model.Score) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO scores (student_id, class_id, kind, value)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (student_id, class_id, kind)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = CURRENT_TIMESTAMP
		 RETURNING id, created_at, updated_at`,
		s.StudentID, s.ClassID, s.Kind, s.Value,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ListByClass retrieves every score in a class with student names.
func (r *ScoreRepository) ListByClass(ctx context.Context, classID int) ([]model.ScoreDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.student_id, s.class_id, s.kind, s.value, s.created_at, s.updated_at, u.name
		 FROM scores s
		 JOIN users u ON u.id = s.student_id
		 WHERE s.class_id = $1
		 ORDER BY u.name, s.kind`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.ScoreDetail
	for rows.Next() {
		var d model.ScoreDetail
		if err := rows.Scan(&d.ID, &d.StudentID, &d.ClassID, &d.Kind, &d.Value,
			&d.CreatedAt, &d.UpdatedAt, &d.StudentName); err != nil {
			return nil, err
		}
		scores = append(scores, d)
	}
	return scores, rows.Err()
}

// ListByStudent retrieves a student's scores across all classes.
func (r *ScoreRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Score, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, class_id, kind, value, created_at, updated_at
		 FROM scores WHERE student_id = $1
		 ORDER BY class_id, kind`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.Score
	for rows.Next() {
		var s model.Score
		if err := rows.Scan(&s.ID, &s.StudentID, &s.ClassID, &s.Kind, &s.Value,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}

// ReportRow is one line of the grade report export.
type ReportRow struct {
	StudentName string
	ClassName   string
	Kind        model.ScoreKind
	Value       int
}

// ListForReport retrieves the flattened grade report for one class, or for
// the whole school when classID is 0.
func (r *ScoreRepository) ListForReport(ctx context.Context, classID int) ([]ReportRow, error) {
	query := `SELECT u.name, c.name, s.kind, s.value
		 FROM scores s
		 JOIN users u ON u.id = s.student_id
		 JOIN classes c ON c.id = s.class_id`
	var args []interface{}
	if classID != 0 {
		query += ` WHERE s.class_id = $1`
		args = append(args, classID)
	}
	query += ` ORDER BY c.name, u.name, s.kind`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(&row.StudentName, &row.ClassName, &row.Kind, &row.Value); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
