package model

import "time"

// Material is a learning resource shared by a teacher with a class.
type Material struct {
	ID          int       `json:"id"`
	ClassID     int       `json:"class_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     *string   `json:"file_url,omitempty"`
	FileKey     *string   `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaterialRequest is the payload for creating or updating a material.
type MaterialRequest struct {
	Title       string `form:"title" binding:"required,min=2,max=150"`
	Description string `form:"description" binding:"max=5000"`
}
