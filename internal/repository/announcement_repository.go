package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// AnnouncementRepository handles announcement data access.
type AnnouncementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository creates a new AnnouncementRepository.
func NewAnnouncementRepository(pool *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

const announcementColumns = `id, title, body, audience, author_id, created_at, updated_at`

func scanAnnouncement(row pgx.Row) (*model.Announcement, error) {
	a := &model.Announcement{}
	err := row.Scan(&a.ID, &a.Title, &a.Body, &a.Audience, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an announcement by ID.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id int) (*model.Announcement, error) {
	return scanAnnouncement(r.pool.QueryRow(ctx,
		`SELECT `+announcementColumns+` FROM announcements WHERE id = $1`, id))
}

// Create inserts a new announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, a *model.Announcement) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO announcements (title, body, audience, author_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		a.Title, a.Body, a.Audience, a.AuthorID,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update rewrites an announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, a *model.Announcement) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE announcements SET title = $1, body = $2, audience = $3,
		 updated_at = CURRENT_TIMESTAMP WHERE id = $4`,
		a.Title, a.Body, a.Audience, a.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListAll retrieves every announcement, newest first. Admin view.
func (r *AnnouncementRepository) ListAll(ctx context.Context) ([]model.Announcement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+announcementColumns+` FROM announcements ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListForAudience retrieves announcements visible to one audience, which is
// the role-specific feed plus everything addressed to everyone.
func (r *AnnouncementRepository) ListForAudience(ctx context.Context, audience model.Audience) ([]model.Announcement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+announcementColumns+` FROM announcements
		 WHERE audience = $1 OR audience = 'semua'
		 ORDER BY id DESC`, audience)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *AnnouncementRepository) collect(rows pgx.Rows) ([]model.Announcement, error) {
	defer rows.Close()
	var list []model.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}
