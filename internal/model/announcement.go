package model

import "time"

// Audience selects which roles an announcement targets.
type Audience string

const (
	AudienceSemua Audience = "semua"
	AudienceGuru  Audience = "guru"
	AudienceSiswa Audience = "siswa"
)

// Announcement is a school-wide or role-targeted notice.
type Announcement struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Audience  Audience  `json:"audience"`
	AuthorID  int       `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnnouncementRequest is the payload for creating or updating an announcement.
type AnnouncementRequest struct {
	Title    string `json:"title" binding:"required,min=2,max=150"`
	Body     string `json:"body" binding:"required,min=2,max=10000"`
	Audience string `json:"audience" binding:"required,oneof=semua guru siswa"`
}
