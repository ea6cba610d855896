package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

// ImportRow is one raw row of the bulk class import CSV, before validation.
// Line is the 1-based position in the file, counting the header. Malformed
// marks a row the CSV reader could not parse at all; it still gets a line
// number so the skip tally can name it.
type ImportRow struct {
	Line         int
	Malformed    bool
	Name         string
	GradeLevel   string
	Day          string
	StartTime    string
	EndTime      string
	Category     string
	TeacherEmail string
}

// PlannedClass pairs an accepted class with the CSV line it came from, so
// a failure after planning can still point back at the row.
type PlannedClass struct {
	Line  int
	Class model.Class
}

// ImportPlan is the outcome of planning a bulk import: the classes to
// create, in row order, and the rows that were skipped with a reason.
// A bad row never aborts the batch.
type ImportPlan struct {
	Create  []PlannedClass
	Skipped []model.ClassImportError
}

// ParseClassCSV reads a class import file. The first row is a header;
// column names are matched case-insensitively (name/Name both work).
// Unknown columns are ignored.
func ParseClassCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Ragged rows surface as empty fields and are skipped by validation;
	// the reader must never fail the whole batch over one short row.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []ImportRow
	line := 1
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			rows = append(rows, ImportRow{Line: line, Malformed: true})
			continue
		}
		rows = append(rows, ImportRow{
			Line:         line,
			Name:         field(record, "name"),
			GradeLevel:   field(record, "grade_level"),
			Day:          field(record, "day"),
			StartTime:    field(record, "start_time"),
			EndTime:      field(record, "end_time"),
			Category:     field(record, "category"),
			TeacherEmail: field(record, "teacher_email"),
		})
	}
	return rows, nil
}

var validDays = map[model.Day]bool{
	model.DaySenin: true, model.DaySelasa: true, model.DayRabu: true,
	model.DayKamis: true, model.DayJumat: true, model.DaySabtu: true,
	model.DayMinggu: true,
}

var validGrades = map[model.GradeLevel]bool{
	model.GradeX: true, model.GradeXI: true, model.GradeXII: true,
}

var validCategories = map[model.Category]bool{
	model.CategoryWajib: true, model.CategoryIPA: true, model.CategoryIPS: true,
}

// PlanImport validates each row and checks it for schedule conflicts against
// the pre-existing classes plus the rows accepted earlier in the same batch.
// resolveTeacher maps a teacher email to a user id; nil means unknown, which
// leaves the class unassigned rather than failing the row. The returned plan
// is deterministic in row order.
func PlanImport(rows []ImportRow, existing []model.Class, resolveTeacher func(email string) *int) ImportPlan {
	plan := ImportPlan{}
	known := append([]model.Class(nil), existing...)

	skip := func(row ImportRow, reason string) {
		plan.Skipped = append(plan.Skipped, model.ClassImportError{Line: row.Line, Reason: reason})
	}

	for _, row := range rows {
		candidate, reason := buildCandidate(row, resolveTeacher)
		if reason != "" {
			skip(row, reason)
			continue
		}

		sameSlot := make([]model.Class, 0)
		for _, c := range known {
			if c.GradeLevel == candidate.GradeLevel && c.Day == candidate.Day {
				sameSlot = append(sameSlot, c)
			}
		}
		conflict, err := CheckConflict(candidate, sameSlot)
		if err != nil {
			skip(row, "waktu tidak valid: jam mulai harus sebelum jam selesai")
			continue
		}
		if conflict != nil {
			skip(row, fmt.Sprintf("bentrok dengan kelas %q (%s %s-%s)",
				conflict.With.Name, conflict.With.Day,
				FormatClock(conflict.With.StartMinute), FormatClock(conflict.With.EndMinute)))
			continue
		}

		plan.Create = append(plan.Create, PlannedClass{Line: row.Line, Class: candidate})
		known = append(known, candidate)
	}
	return plan
}

// buildCandidate validates one row and returns the class it describes, or a
// skip reason. Category defaults to Wajib when absent.
func buildCandidate(row ImportRow, resolveTeacher func(email string) *int) (model.Class, string) {
	var c model.Class

	if row.Malformed {
		return c, "baris tidak dapat dibaca"
	}
	if row.Name == "" {
		return c, "kolom name kosong"
	}
	grade := model.GradeLevel(row.GradeLevel)
	if !validGrades[grade] {
		return c, "kolom grade_level kosong atau tidak dikenal"
	}
	day := model.Day(row.Day)
	if !validDays[day] {
		return c, "kolom day kosong atau tidak dikenal"
	}
	if row.StartTime == "" {
		return c, "kolom start_time kosong"
	}
	if row.EndTime == "" {
		return c, "kolom end_time kosong"
	}
	start, err := ParseClock(row.StartTime)
	if err != nil {
		return c, "format start_time tidak valid"
	}
	end, err := ParseClock(row.EndTime)
	if err != nil {
		return c, "format end_time tidak valid"
	}
	if start >= end {
		return c, "waktu tidak valid: jam mulai harus sebelum jam selesai"
	}

	category := model.CategoryWajib
	if row.Category != "" {
		category = model.Category(row.Category)
		if !validCategories[category] {
			return c, "kolom category tidak dikenal"
		}
	}

	c = model.Class{
		Name:        row.Name,
		GradeLevel:  grade,
		Day:         day,
		StartMinute: start,
		EndMinute:   end,
		Category:    category,
	}
	if row.TeacherEmail != "" && resolveTeacher != nil {
		// Unknown teacher emails leave the class unassigned on purpose.
		c.TeacherID = resolveTeacher(row.TeacherEmail)
	}
	return c, ""
}
