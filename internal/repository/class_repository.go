package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

const classColumns = `c.id, c.name, c.grade_level, c.day, c.start_minute, c.end_minute,
	c.category, c.teacher_id, c.created_at, c.updated_at`

// ClassRepository handles class and membership data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.Name, &c.GradeLevel, &c.Day, &c.StartMinute, &c.EndMinute,
		&c.Category, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID retrieves a class by ID.
func (r *ClassRepository) GetByID(ctx context.Context, id int) (*model.Class, error) {
	return scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes c WHERE c.id = $1`, id))
}

// GetDetail retrieves a class with its teacher name and student count.
func (r *ClassRepository) GetDetail(ctx context.Context, id int) (*model.ClassDetail, error) {
	d := &model.ClassDetail{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+classColumns+`, t.name,
		        (SELECT COUNT(*) FROM class_students cs WHERE cs.class_id = c.id)
		 FROM classes c
		 LEFT JOIN users t ON t.id = c.teacher_id
		 WHERE c.id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.GradeLevel, &d.Day, &d.StartMinute, &d.EndMinute,
		&d.Category, &d.TeacherID, &d.CreatedAt, &d.UpdatedAt,
		&d.TeacherName, &d.StudentCount)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *ClassRepository) collect(rows pgx.Rows) ([]model.Class, error) {
	defer rows.Close()
	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// List retrieves classes with optional grade and day filters, ordered by
// day then start time.
func (r *ClassRepository) List(ctx context.Context, grade *model.GradeLevel, day *model.Day) ([]model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes c WHERE 1=1`
	var args []interface{}
	if grade != nil {
		args = append(args, *grade)
		query += ` AND c.grade_level = $1`
	}
	if day != nil {
		args = append(args, *day)
		if grade != nil {
			query += ` AND c.day = $2`
		} else {
			query += ` AND c.day = $1`
		}
	}
	query += ` ORDER BY c.day, c.start_minute, c.id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListByTeacher retrieves classes taught by one teacher.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes c WHERE c.teacher_id = $1
		 ORDER BY c.day, c.start_minute, c.id`, teacherID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListByStudent retrieves the classes a student is enrolled in.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes c
		 JOIN class_students cs ON cs.class_id = c.id
		 WHERE cs.student_id = $1
		 ORDER BY c.day, c.start_minute, c.id`, studentID)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// ListByGrade retrieves every class of one grade level.
func (r *ClassRepository) ListByGrade(ctx context.Context, grade model.GradeLevel) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes c WHERE c.grade_level = $1
		 ORDER BY c.day, c.start_minute, c.id`, grade)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

// CreateGuarded inserts a class after running the given schedule check
// against the classes already on the same grade and day. The check runs
// under a transaction-scoped advisory lock on (grade_level, day) so two
// concurrent writes to the same slot serialize instead of both passing
// the check.
func (r *ClassRepository) CreateGuarded(ctx context.Context, c *model.Class, check func(existing []model.Class) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockGradeDay(ctx, tx, c.GradeLevel, c.Day); err != nil {
			return err
		}
		existing, err := gradeDayClasses(ctx, tx, c.GradeLevel, c.Day, 0)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		return tx.QueryRow(ctx,
			`INSERT INTO classes (name, grade_level, day, start_minute, end_minute, category, teacher_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, created_at, updated_at`,
			c.Name, c.GradeLevel, c.Day, c.StartMinute, c.EndMinute, c.Category, c.TeacherID,
		).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	})
}

// UpdateGuarded rewrites a class under the same advisory lock discipline as
// CreateGuarded. The class being updated is excluded from the set handed to
// the check.
func (r *ClassRepository) UpdateGuarded(ctx context.Context, c *model.Class, check func(existing []model.Class) error) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := lockGradeDay(ctx, tx, c.GradeLevel, c.Day); err != nil {
			return err
		}
		existing, err := gradeDayClasses(ctx, tx, c.GradeLevel, c.Day, c.ID)
		if err != nil {
			return err
		}
		if err := check(existing); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE classes SET name = $1, grade_level = $2, day = $3, start_minute = $4,
			 end_minute = $5, category = $6, teacher_id = $7, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $8`,
			c.Name, c.GradeLevel, c.Day, c.StartMinute, c.EndMinute, c.Category, c.TeacherID, c.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
}

func lockGradeDay(ctx context.Context, tx pgx.Tx, grade model.GradeLevel, day model.Day) error {
	_, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`, string(grade)+":"+string(day))
	return err
}

func gradeDayClasses(ctx context.Context, tx pgx.Tx, grade model.GradeLevel, day model.Day, excludeID int) ([]model.Class, error) {
	rows, err := tx.Query(ctx,
		`SELECT `+classColumns+` FROM classes c
		 WHERE c.grade_level = $1 AND c.day = $2 AND c.id <> $3
		 ORDER BY c.start_minute, c.id`, grade, day, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// Delete removes a class. Memberships, assignments, materials, scores and
// attendance rows cascade at the schema level.
func (r *ClassRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Members retrieves the students enrolled in a class.
func (r *ClassRepository) Members(ctx context.Context, classID int) ([]model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 JOIN class_students cs ON cs.student_id = users.id
		 WHERE cs.class_id = $1
		 ORDER BY users.name`, classID)
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

// MemberIDs retrieves the ids of the students enrolled in a class.
func (r *ClassRepository) MemberIDs(ctx context.Context, classID int) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id FROM class_students WHERE class_id = $1 ORDER BY student_id`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MemberClassIDs retrieves the ids of the classes a student belongs to.
func (r *ClassRepository) MemberClassIDs(ctx context.Context, studentID int) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT class_id FROM class_students WHERE student_id = $1 ORDER BY class_id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AddMembers enrolls students into a class. Already-enrolled students are
// skipped, so re-running an enrollment pass is harmless.
func (r *ClassRepository) AddMembers(ctx context.Context, classID int, studentIDs []int) error {
	if len(studentIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO class_students (class_id, student_id)
		 SELECT $1, unnest($2::int[])
		 ON CONFLICT (class_id, student_id) DO NOTHING`, classID, studentIDs)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return pgx.ErrNoRows
		}
	}
	return err
}

// RemoveMember drops one student from a class.
func (r *ClassRepository) RemoveMember(ctx context.Context, classID, studentID int) error {
	// Removing an absent membership is a no-op; the end state is the same.
	_, err := r.pool.Exec(ctx,
		`DELETE FROM class_students WHERE class_id = $1 AND student_id = $2`, classID, studentID)
	return err
}

// RemoveMemberships drops a student from every class in the given set.
func (r *ClassRepository) RemoveMemberships(ctx context.Context, studentID int, classIDs []int) error {
	if len(classIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM class_students WHERE student_id = $1 AND class_id = ANY($2)`, studentID, classIDs)
	return err
}

// IsMember reports whether a student is enrolled in a class.
func (r *ClassRepository) IsMember(ctx context.Context, classID, studentID int) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM class_students WHERE class_id = $1 AND student_id = $2)`,
		classID, studentID).Scan(&ok)
	return ok, err
}
