package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

var ErrDuplicateEmail = errors.New("user with this email already exists")

const userColumns = `id, name, email, password_hash, role, grade_level, major,
	device_token, must_change_password, created_at, updated_at`

// UserRepository handles account data access for all roles.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.GradeLevel, &u.Major, &u.DeviceToken, &u.MustChangePassword,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail retrieves a user by their unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// TeacherIDByEmail resolves a teacher's email to an id. Returns nil when no
// teacher account has that email.
func (r *UserRepository) TeacherIDByEmail(ctx context.Context, email string) *int {
	var id int
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM users WHERE email = $1 AND role = 'teacher'`, email,
	).Scan(&id)
	if err != nil {
		return nil
	}
	return &id
}

// ListPaginated retrieves users with pagination and optional role filter.
func (r *UserRepository) ListPaginated(ctx context.Context, role *model.Role, limit, offset int) ([]model.User, int, error) {
	countQuery := `SELECT COUNT(*) FROM users`
	var countArgs []interface{}
	if role != nil {
		countQuery += ` WHERE role = $1`
		countArgs = append(countArgs, *role)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	argIdx := 1
	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
		argIdx++
	}
	query += ` ORDER BY name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// ListStudentsByGrade retrieves every student of one grade level, the input
// set for auto-enrollment eligibility.
func (r *UserRepository) ListStudentsByGrade(ctx context.Context, grade model.GradeLevel) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = 'student' AND grade_level = $1`, grade)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, grade_level, major, must_change_password)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.PasswordHash, u.Role, u.GradeLevel, u.Major, u.MustChangePassword,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// Update modifies a user's basic info (excluding password).
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $1, email = $2, role = $3, grade_level = $4, major = $5,
		 updated_at = CURRENT_TIMESTAMP WHERE id = $6`,
		u.Name, u.Email, u.Role, u.GradeLevel, u.Major, u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
	}
	return err
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string, mustChange bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, must_change_password = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $3`, hash, mustChange, id)
	return err
}

// UpdateDeviceToken registers or replaces a user's push token.
func (r *UserRepository) UpdateDeviceToken(ctx context.Context, id int, token string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET device_token = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, token, id)
	return err
}

// Delete removes a user by ID. Dependent rows (memberships, submissions,
// permits, ...) cascade at the schema level.
func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

// DeviceTokensByRoles returns the non-empty push tokens of every user with
// one of the given roles.
func (r *UserRepository) DeviceTokensByRoles(ctx context.Context, roles []model.Role) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT device_token FROM users WHERE role = ANY($1) AND device_token IS NOT NULL`, roles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTokens(rows)
}

// DeviceTokensByIDs returns the non-empty push tokens of specific users.
func (r *UserRepository) DeviceTokensByIDs(ctx context.Context, ids []int) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT device_token FROM users WHERE id = ANY($1) AND device_token IS NOT NULL`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTokens(rows)
}

func collectTokens(rows pgx.Rows) ([]string, error) {
	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens, rows.Err()
}
