package service

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/rs/zerolog"

	"github.com/siakadcloud/siakad-backend/internal/model"
	"github.com/siakadcloud/siakad-backend/internal/repository"
	"github.com/siakadcloud/siakad-backend/internal/schedule"
)

// ErrStudentFieldsRequired signals a student account without grade/major.
var ErrStudentFieldsRequired = errors.New("student accounts require grade_level and major")

// UserService handles account management and keeps student enrollments in
// step with grade and major changes.
type UserService struct {
	users   *repository.UserRepository
	classes *repository.ClassRepository
	auth    *AuthService
	log     zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users *repository.UserRepository, classes *repository.ClassRepository, auth *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		users:   users,
		classes: classes,
		auth:    auth,
		log:     log.With().Str("component", "user_service").Logger(),
	}
}

// List retrieves users with pagination and optional role filter.
func (s *UserService) List(ctx context.Context, role *model.Role, page, perPage int) ([]model.User, int, error) {
	offset := (page - 1) * perPage
	return s.users.ListPaginated(ctx, role, perPage, offset)
}

// Get retrieves one user.
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create adds an account. New students are auto-enrolled into every class
// their grade and major make them eligible for.
func (s *UserService) Create(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	user, err := buildUser(req.Name, req.Email, req.Role, req.GradeLevel, req.Major)
	if err != nil {
		return nil, err
	}
	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if user.Role == model.RoleStudent {
		if err := s.syncEnrollment(ctx, user); err != nil {
			s.log.Error().Err(err).Int("student_id", user.ID).Msg("enrollment sync failed")
		}
	}
	return user, nil
}

// Update modifies an account. A student whose grade or major changed is
// dropped from classes they no longer match and enrolled into newly
// matching ones.
func (s *UserService) Update(ctx context.Context, id int, req *model.UpdateUserRequest) (*model.User, error) {
	existing, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := buildUser(req.Name, req.Email, req.Role, req.GradeLevel, req.Major)
	if err != nil {
		return nil, err
	}
	user.ID = id
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != "" {
		hash, err := s.auth.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, id, hash, false); err != nil {
			return nil, err
		}
	}

	if user.Role == model.RoleStudent && studentShapeChanged(existing, user) {
		if err := s.syncEnrollment(ctx, user); err != nil {
			s.log.Error().Err(err).Int("student_id", id).Msg("enrollment sync failed")
		}
	}
	return s.users.GetByID(ctx, id)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id int) error {
	return s.users.Delete(ctx, id)
}

// RegisterDeviceToken stores the caller's push token.
func (s *UserService) RegisterDeviceToken(ctx context.Context, userID int, token string) error {
	return s.users.UpdateDeviceToken(ctx, userID, token)
}

func studentShapeChanged(before, after *model.User) bool {
	return !ptrEq(before.GradeLevel, after.GradeLevel) ||
		!ptrEq(before.Major, after.Major) ||
		before.Role != after.Role
}

func ptrEq[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func buildUser(name, email string, role model.Role, grade, major string) (*model.User, error) {
	user := &model.User{Name: name, Email: email, Role: role}
	if role == model.RoleStudent {
		if grade == "" || major == "" {
			return nil, ErrStudentFieldsRequired
		}
		g := model.GradeLevel(grade)
		m := model.Major(major)
		user.GradeLevel = &g
		user.Major = &m
	}
	return user, nil
}

// syncEnrollment reconciles a student's memberships with what their grade
// and major entitle them to.
func (s *UserService) syncEnrollment(ctx context.Context, student *model.User) error {
	current, err := s.classes.ListByStudent(ctx, student.ID)
	if err != nil {
		return err
	}
	var drop []int
	for _, c := range current {
		if !schedule.EligibleForClass(*student, c) {
			drop = append(drop, c.ID)
		}
	}
	if err := s.classes.RemoveMemberships(ctx, student.ID, drop); err != nil {
		return err
	}

	if student.GradeLevel == nil {
		return nil
	}
	candidates, err := s.classes.ListByGrade(ctx, *student.GradeLevel)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		if !schedule.EligibleForClass(*student, c) {
			continue
		}
		if err := s.classes.AddMembers(ctx, c.ID, []int{student.ID}); err != nil {
			return err
		}
	}
	return nil
}

// ImportCSV bulk-creates accounts from a CSV with columns name, email,
// password, role, grade_level, major. A row without a password gets a
// random one and the account is flagged to change it at first login. Bad
// rows are skipped with a reason and never abort the batch.
func (s *UserService) ImportCSV(ctx context.Context, r io.Reader) (*model.UserImportResult, error) {
	rows, err := parseUserCSV(r)
	if err != nil {
		return nil, err
	}

	result := &model.UserImportResult{}
	for _, row := range rows {
		user, reason := s.buildImportUser(row)
		if reason == "" {
			password := row.password
			mustChange := false
			if password == "" {
				password, err = randomPassword(12)
				if err != nil {
					return nil, fmt.Errorf("generate password: %w", err)
				}
				mustChange = true
			}
			hash, err := s.auth.HashPassword(password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
			user.MustChangePassword = mustChange

			switch err := s.users.Create(ctx, user); {
			case err == nil:
				if user.Role == model.RoleStudent {
					if err := s.syncEnrollment(ctx, user); err != nil {
						s.log.Error().Err(err).Int("student_id", user.ID).Msg("enrollment sync failed")
					}
				}
				result.Created++
				continue
			case errors.Is(err, repository.ErrDuplicateEmail):
				reason = fmt.Sprintf("email %s sudah terdaftar", user.Email)
			default:
				return nil, err
			}
		}
		result.Skipped++
		result.Rows = append(result.Rows, model.ClassImportError{Line: row.line, Reason: reason})
	}
	return result, nil
}

type userImportRow struct {
	line      int
	malformed bool
	name      string
	email     string
	password  string
	role      string
	grade     string
	major     string
}

func parseUserCSV(r io.Reader) ([]userImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Ragged rows surface as empty fields and fail validation row by row;
	// the reader must never fail the whole batch over one short row.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	field := func(record []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []userImportRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			rows = append(rows, userImportRow{line: line, malformed: true})
			continue
		}
		rows = append(rows, userImportRow{
			line:     line,
			name:     field(record, "name"),
			email:    field(record, "email"),
			password: field(record, "password"),
			role:     field(record, "role"),
			grade:    field(record, "grade_level"),
			major:    field(record, "major"),
		})
	}
	return rows, nil
}

func (s *UserService) buildImportUser(row userImportRow) (*model.User, string) {
	if row.malformed {
		return nil, "baris tidak dapat dibaca"
	}
	if row.name == "" {
		return nil, "kolom name kosong"
	}
	if row.email == "" {
		return nil, "kolom email kosong"
	}
	role := model.Role(row.role)
	if role == "" {
		role = model.RoleStudent
	}
	switch role {
	case model.RoleAdmin, model.RoleTeacher, model.RoleStudent:
	default:
		return nil, fmt.Sprintf("role %q tidak dikenal", row.role)
	}

	user, err := buildUser(row.name, row.email, role, row.grade, row.major)
	if err != nil {
		return nil, "siswa membutuhkan kolom grade_level dan major"
	}
	if user.GradeLevel != nil {
		switch *user.GradeLevel {
		case model.GradeX, model.GradeXI, model.GradeXII:
		default:
			return nil, fmt.Sprintf("grade_level %q tidak dikenal", row.grade)
		}
		switch *user.Major {
		case model.MajorIPA, model.MajorIPS:
		default:
			return nil, fmt.Sprintf("major %q tidak dikenal", row.major)
		}
	}
	return user, ""
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomPassword draws n characters from a crypto-grade source. Each
// imported account gets its own value so a leaked file never exposes a
// shared credential.
func randomPassword(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(passwordAlphabet[idx.Int64()])
	}
	return b.String(), nil
}
