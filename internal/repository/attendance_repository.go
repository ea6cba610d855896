package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// AttendanceRepository handles attendance data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// UpsertSheet records a whole class meeting's attendance in one transaction.
// Re-submitting a sheet for the same date overwrites the earlier statuses.
func (r *AttendanceRepository) UpsertSheet(ctx context.Context, classID int, date time.Time, entries []model.AttendanceEntry) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, e := range entries {
			_, err := tx.Exec(ctx,
				`INSERT INTO attendances (class_id, student_id, date, status)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (class_id, student_id, date)
				 DO UPDATE SET status = EXCLUDED.status, updated_at = CURRENT_TIMESTAMP`,
				classID, e.StudentID, date, e.Status)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// NormalizeForStudentDate writes one status across every class the student
// is enrolled in on the given date. Used when an absence permit is approved.
func (r *AttendanceRepository) NormalizeForStudentDate(ctx context.Context, studentID int, date time.Time, status model.AttendanceStatus) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO attendances (class_id, student_id, date, status)
		 SELECT cs.class_id, cs.student_id, $2, $3
		 FROM class_students cs
		 WHERE cs.student_id = $1
		 ON CONFLICT (class_id, student_id, date)
		 DO UPDATE SET status = EXCLUDED.status, updated_at = CURRENT_TIMESTAMP`,
		studentID, date, status)
	return err
}

// ListByClassDate retrieves a class's attendance for one date with names.
func (r *AttendanceRepository) ListByClassDate(ctx context.Context, classID int, date time.Time) ([]model.AttendanceDetail, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.class_id, a.student_id, a.date, a.status, a.created_at, a.updated_at, u.name
		 FROM attendances a
		 JOIN users u ON u.id = a.student_id
		 WHERE a.class_id = $1 AND a.date = $2
		 ORDER BY u.name`, classID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.AttendanceDetail
	for rows.Next() {
		var d model.AttendanceDetail
		if err := rows.Scan(&d.ID, &d.ClassID, &d.StudentID, &d.Date, &d.Status,
			&d.CreatedAt, &d.UpdatedAt, &d.StudentName); err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// ListByStudent retrieves a student's attendance history, newest first.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Attendance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, class_id, student_id, date, status, created_at, updated_at
		 FROM attendances WHERE student_id = $1
		 ORDER BY date DESC, class_id`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []model.Attendance
	for rows.Next() {
		var a model.Attendance
		if err := rows.Scan(&a.ID, &a.ClassID, &a.StudentID, &a.Date, &a.Status,
			&a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// AttendanceReportRow is one line of the attendance recap export.
type AttendanceReportRow struct {
	StudentName string
	ClassName   string
	Date        time.Time
	Status      model.AttendanceStatus
}

// ListForReport retrieves attendance rows within a date range for export,
// for one class or for the whole school when classID is 0.
func (r *AttendanceRepository) ListForReport(ctx context.Context, classID int, from, to time.Time) ([]AttendanceReportRow, error) {
	query := `SELECT u.name, c.name, a.date, a.status
		 FROM attendances a
		 JOIN users u ON u.id = a.student_id
		 JOIN classes c ON c.id = a.class_id
		 WHERE a.date BETWEEN $1 AND $2`
	args := []interface{}{from, to}
	if classID != 0 {
		query += ` AND a.class_id = $3`
		args = append(args, classID)
	}
	query += ` ORDER BY a.date, c.name, u.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []AttendanceReportRow
	for rows.Next() {
		var row AttendanceReportRow
		if err := rows.Scan(&row.StudentName, &row.ClassName, &row.Date, &row.Status); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
