package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// MaterialRepository handles learning material data access.
type MaterialRepository struct {
	pool *pgxpool.Pool
}

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(pool *pgxpool.Pool) *MaterialRepository {
	return &MaterialRepository{pool: pool}
}

const materialColumns = `id, class_id, title, description, file_url, file_key, created_at, updated_at`

func scanMaterial(row pgx.Row) (*model.Material, error) {
	m := &model.Material{}
	err := row.Scan(&m.ID, &m.ClassID, &m.Title, &m.Description, &m.FileURL, &m.FileKey,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetByID retrieves a material by ID.
func (r *MaterialRepository) GetByID(ctx context.Context, id int) (*model.Material, error) {
	return scanMaterial(r.pool.QueryRow(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`, id))
}

// ListByClass retrieves a class's materials, newest first.
func (r *MaterialRepository) ListByClass(ctx context.Context, classID int) ([]model.Material, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE class_id = $1 ORDER BY id DESC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materials []model.Material
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		materials = append(materials, *m)
	}
	return materials, rows.Err()
}

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, m *model.Material) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO materials (class_id, title, description, file_url, file_key)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		m.ClassID, m.Title, m.Description, m.FileURL, m.FileKey,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

// Update rewrites a material, including its file columns.
func (r *MaterialRepository) Update(ctx context.Context, m *model.Material) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE materials SET title = $1, description = $2, file_url = $3, file_key = $4,
		 updated_at = CURRENT_TIMESTAMP WHERE id = $5`,
		m.Title, m.Description, m.FileURL, m.FileKey, m.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a material.
func (r *MaterialRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// FileKeysByClass collects the object keys of a class's material files.
func (r *MaterialRepository) FileKeysByClass(ctx context.Context, classID int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT file_key FROM materials WHERE class_id = $1 AND file_key IS NOT NULL`, classID)
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
