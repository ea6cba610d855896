package model

import "time"

// Role determines which part of the API a user may access.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// GradeLevel is the cohort tier a student or class belongs to.
type GradeLevel string

const (
	GradeX   GradeLevel = "X"
	GradeXI  GradeLevel = "XI"
	GradeXII GradeLevel = "XII"
)

// Major is a student's specialization track.
type Major string

const (
	MajorIPA Major = "IPA"
	MajorIPS Major = "IPS"
)

// User represents any account in the system: admin, teacher or student.
// GradeLevel and Major are only set for students.
type User struct {
	ID                 int         `json:"id"`
	Name               string      `json:"name"`
	Email              string      `json:"email"`
	PasswordHash       string      `json:"-"`
	Role               Role        `json:"role"`
	GradeLevel         *GradeLevel `json:"grade_level,omitempty"`
	Major              *Major      `json:"major,omitempty"`
	DeviceToken        *string     `json:"-"`
	MustChangePassword bool        `json:"must_change_password"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// LoginRequest is the payload for authentication of any role.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
	Role       Role   `json:"role" binding:"required,oneof=admin teacher student"`
	GradeLevel string `json:"grade_level" binding:"omitempty,oneof=X XI XII"`
	Major      string `json:"major" binding:"omitempty,oneof=IPA IPS"`
}

// UpdateUserRequest is the admin payload for updating an account.
// Password is optional; when present it replaces the current one.
type UpdateUserRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"omitempty,min=6,max=128"`
	Role       Role   `json:"role" binding:"required,oneof=admin teacher student"`
	GradeLevel string `json:"grade_level" binding:"omitempty,oneof=X XI XII"`
	Major      string `json:"major" binding:"omitempty,oneof=IPA IPS"`
}

// UserImportResult is the tally returned by the bulk account import.
type UserImportResult struct {
	Created int                `json:"created"`
	Skipped int                `json:"skipped"`
	Rows    []ClassImportError `json:"skipped_rows,omitempty"`
}

// ChangePasswordRequest is the payload for a user changing their own password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}

// DeviceTokenRequest registers a push notification token for the caller.
type DeviceTokenRequest struct {
	DeviceToken string `json:"device_token" binding:"required,min=8"`
}
