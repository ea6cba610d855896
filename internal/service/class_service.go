package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/schedule"
	"github.com/siakadcloud/siakad-backend/internal/storage"
)

// ErrNotClassOwner rejects a teacher acting on a class they do not teach.
var ErrNotClassOwner = errors.New("caller does not teach this class")

// ScheduleConflictError carries the blocking class so handlers can name it.
type ScheduleConflictError struct {
	Conflict schedule.Conflict
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("jadwal bentrok dengan kelas %q (%s %s-%s)",
		e.Conflict.With.Name, e.Conflict.With.Day,
		schedule.FormatClock(e.Conflict.With.StartMinute),
		schedule.FormatClock(e.Conflict.With.EndMinute))
}

// ClassService handles class scheduling, membership and bulk import/export.
type ClassService struct {
	classes     *repository.ClassRepository
	users       *repository.UserRepository
	assignments *repository.AssignmentRepository
	materials   *repository.MaterialRepository
	store       *storage.Client
	log         zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(
	classes *repository.ClassRepository,
	users *repository.UserRepository,
	assignments *repository.AssignmentRepository,
	materials *repository.MaterialRepository,
	store *storage.Client,
	log zerolog.Logger,
) *ClassService {
	return &ClassService{
		classes:     classes,
		users:       users,
		assignments: assignments,
		materials:   materials,
		store:       store,
		log:         log.With().Str("component", "class_service").Logger(),
	}
}

func classFromRequest(req *model.ClassRequest) (*model.Class, error) {
	start, err := schedule.ParseClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, schedule.ErrInvalidTimeRange
	}
	return &model.Class{
		Name:        req.Name,
		GradeLevel:  model.GradeLevel(req.GradeLevel),
		Day:         model.Day(req.Day),
		StartMinute: start,
		EndMinute:   end,
		Category:    model.Category(req.Category),
		TeacherID:   req.TeacherID,
	}, nil
}

// conflictGuard adapts the schedule check to the repository's guarded write.
func conflictGuard(candidate *model.Class) func([]model.Class) error {
	return func(existing []model.Class) error {
		conflict, err := schedule.CheckConflict(*candidate, existing)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ScheduleConflictError{Conflict: *conflict}
		}
		return nil
	}
}

// Create adds a class after a conflict check against its grade/day slot,
// then enrolls every eligible student.
func (s *ClassService) Create(ctx context.Context, req *model.ClassRequest) (*model.Class, error) {
	class, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.classes.CreateGuarded(ctx, class, conflictGuard(class)); err != nil {
		return nil, err
	}
	if err := s.autoEnroll(ctx, class); err != nil {
		s.log.Error().Err(err).Int("class_id", class.ID).Msg("auto enroll failed")
	}
	return class, nil
}

// Update rewrites a class under the same conflict guard, then reconciles
// its membership since grade or category may have changed.
func (s *ClassService) Update(ctx context.Context, id int, req *model.ClassRequest) (*model.Class, error) {
	class, err := classFromRequest(req)
	if err != nil {
		return nil, err
	}
	class.ID = id
	if err := s.classes.UpdateGuarded(ctx, class, conflictGuard(class)); err != nil {
		return nil, err
	}
	if err := s.reconcileMembers(ctx, class); err != nil {
		s.log.Error().Err(err).Int("class_id", id).Msg("membership reconcile failed")
	}
	return s.classes.GetByID(ctx, id)
}

// autoEnroll adds every student the class's grade and category call for.
func (s *ClassService) autoEnroll(ctx context.Context, class *model.Class) error {
	students, err := s.users.ListStudentsByGrade(ctx, class.GradeLevel)
	if err != nil {
		return err
	}
	eligible := schedule.EligibleStudents(class.GradeLevel, class.Category, students)
	return s.classes.AddMembers(ctx, class.ID, eligible)
}

// reconcileMembers drops members a changed class no longer matches and adds
// the newly eligible.
func (s *ClassService) reconcileMembers(ctx context.Context, class *model.Class) error {
	members, err := s.classes.Members(ctx, class.ID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if !schedule.EligibleForClass(m, *class) {
			if err := s.classes.RemoveMember(ctx, class.ID, m.ID); err != nil {
				return err
			}
		}
	}
	return s.autoEnroll(ctx, class)
}

// Get retrieves a class with display fields.
func (s *ClassService) Get(ctx context.Context, id int) (*model.ClassDetail, error) {
	return s.classes.GetDetail(ctx, id)
}

// List retrieves classes with optional grade and day filters.
func (s *ClassService) List(ctx context.Context, grade *model.GradeLevel, day *model.Day) ([]model.Class, error) {
	return s.classes.List(ctx, grade, day)
}

// ListByTeacher retrieves a teacher's classes.
func (s *ClassService) ListByTeacher(ctx context.Context, teacherID int) ([]model.Class, error) {
	return s.classes.ListByTeacher(ctx, teacherID)
}

// ListByStudent retrieves a student's schedule.
func (s *ClassService) ListByStudent(ctx context.Context, studentID int) ([]model.Class, error) {
	return s.classes.ListByStudent(ctx, studentID)
}

// Delete removes a class and then clears its files from object storage.
// The database delete is the source of truth; file cleanup is best effort
// and an orphaned object never fails the request.
func (s *ClassService) Delete(ctx context.Context, id int) error {
	assignmentKeys, err := s.assignments.FileKeysByClass(ctx, id)
	if err != nil {
		return err
	}
	materialKeys, err := s.materials.FileKeysByClass(ctx, id)
	if err != nil {
		return err
	}
	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}
	for _, key := range append(assignmentKeys, materialKeys...) {
		s.store.Delete(ctx, key)
	}
	return nil
}

// Members retrieves the students enrolled in a class.
func (s *ClassService) Members(ctx context.Context, classID int) ([]model.User, error) {
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return s.classes.Members(ctx, classID)
}

// AddMember enrolls one student by hand. The account must be a student;
// manual adds intentionally skip the eligibility rule so admins can handle
// exceptions.
func (s *ClassService) AddMember(ctx context.Context, classID, studentID int) error {
	user, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if user.Role != model.RoleStudent {
		return errors.New("only students can join classes")
	}
	if _, err := s.classes.GetByID(ctx, classID); err != nil {
		return err
	}
	return s.classes.AddMembers(ctx, classID, []int{studentID})
}

// RemoveMember drops one student from a class.
func (s *ClassService) RemoveMember(ctx context.Context, classID, studentID int) error {
	return s.classes.RemoveMember(ctx, classID, studentID)
}

// IsOwner reports whether a teacher teaches the class.
func (s *ClassService) IsOwner(ctx context.Context, classID, teacherID int) (bool, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return false, err
	}
	return class.TeacherID != nil && *class.TeacherID == teacherID, nil
}

// ImportCSV bulk-creates classes from an uploaded schedule file. Each
// accepted class goes through the same guarded insert and auto-enrollment
// as a hand-created one.
func (s *ClassService) ImportCSV(ctx context.Context, r io.Reader) (*model.ClassImportResult, error) {
	rows, err := schedule.ParseClassCSV(r)
	if err != nil {
		return nil, err
	}
	existing, err := s.classes.List(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	plan := schedule.PlanImport(rows, existing, func(email string) *int {
		return s.users.TeacherIDByEmail(ctx, email)
	})

	result := &model.ClassImportResult{
		Skipped: len(plan.Skipped),
		Rows:    plan.Skipped,
	}
	for i := range plan.Create {
		class := plan.Create[i].Class
		if err := s.classes.CreateGuarded(ctx, &class, conflictGuard(&class)); err != nil {
			var conflictErr *ScheduleConflictError
			if errors.As(err, &conflictErr) {
				result.Skipped++
				result.Rows = append(result.Rows, model.ClassImportError{
					Line:   plan.Create[i].Line,
					Reason: conflictErr.Error(),
				})
				continue
			}
			return nil, err
		}
		if err := s.autoEnroll(ctx, &class); err != nil {
			s.log.Error().Err(err).Int("class_id", class.ID).Msg("auto enroll failed")
		}
		result.Created++
	}
	return result, nil
}

// ExportCSV writes the full schedule in the import format, so an export can
// round-trip back in.
func (s *ClassService) ExportCSV(ctx context.Context, w io.Writer) error {
	classes, err := s.classes.List(ctx, nil, nil)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "grade_level", "day", "start_time", "end_time", "category", "teacher_email"}); err != nil {
		return err
	}
	for _, c := range classes {
		email := ""
		if c.TeacherID != nil {
			if teacher, err := s.users.GetByID(ctx, *c.TeacherID); err == nil {
				email = teacher.Email
			}
		}
		record := []string{
			c.Name,
			string(c.GradeLevel),
			string(c.Day),
			schedule.FormatClock(c.StartMinute),
			schedule.FormatClock(c.EndMinute),
			string(c.Category),
			email,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// MemberTokens retrieves push tokens for a class's members.
func (s *ClassService) MemberTokens(ctx context.Context, classID int) []string {
	ids, err := s.classes.MemberIDs(ctx, classID)
	if err != nil {
		s.log.Warn().Err(err).Int("class_id", classID).Msg("member lookup for notify failed")
		return nil
	}
	tokens, err := s.users.DeviceTokensByIDs(ctx, ids)
	if err != nil {
		s.log.Warn().Err(err).Int("class_id", classID).Msg("token lookup for notify failed")
		return nil
	}
	return tokens
}
