package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// CritiqueRepository handles student feedback data access.
type CritiqueRepository struct {
	pool *pgxpool.Pool
}

// NewCritiqueRepository creates a new CritiqueRepository.
func NewCritiqueRepository(pool *pgxpool.Pool) *CritiqueRepository {
	return &CritiqueRepository{pool: pool}
}

// Create inserts a new critique. StudentID stays nil for anonymous ones.
func (r *CritiqueRepository) Create(ctx context.Context, c *model.Critique) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO critiques (student_id, subject, body)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.StudentID, c.Subject, c.Body,
	).Scan(&c.ID, &c.CreatedAt)
}

// List retrieves every critique, newest first. Admin view.
func (r *CritiqueRepository) List(ctx context.Context) ([]model.Critique, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, subject, body, created_at FROM critiques ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var critiques []model.Critique
	for rows.Next() {
		var c model.Critique
		if err := rows.Scan(&c.ID, &c.StudentID, &c.Subject, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		critiques = append(critiques, c)
	}
	return critiques, rows.Err()
}
