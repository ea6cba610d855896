package schedule

import (
	"strings"
	"testing"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

func TestParseClassCSVHeaderCaseTolerant(t *testing.T) {
	input := "Name,GRADE_LEVEL,Day,start_time,End_Time,Category,teacher_email\n" +
		"Matematika,X,Senin,07:00,08:30,Wajib,guru@sekolah.sch.id\n"

	rows, err := ParseClassCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Name != "Matematika" || row.GradeLevel != "X" || row.Day != "Senin" ||
		row.StartTime != "07:00" || row.EndTime != "08:30" ||
		row.Category != "Wajib" || row.TeacherEmail != "guru@sekolah.sch.id" {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.Line != 2 {
		t.Errorf("line = %d, want 2", row.Line)
	}
}

func TestPlanImportTallyAndResilience(t *testing.T) {
	input := "name,grade_level,day,start_time,end_time,category\n" +
		"Matematika,X,Senin,07:00,08:30,Wajib\n" +
		"Fisika,X,Selasa,07:00,08:30,IPA\n" +
		"Kimia,X,Rabu,07:00,08:30,IPA\n" +
		"Biologi,X,Kamis,07:00,08:30,IPA\n" +
		"Sejarah,X,Jumat,07:00,08:30,Wajib\n" +
		"Ekonomi,X,Sabtu,,08:30,IPS\n" // missing start_time

	rows, err := ParseClassCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	plan := PlanImport(rows, nil, nil)

	if len(plan.Create) != 5 {
		t.Errorf("created = %d, want 5", len(plan.Create))
	}
	if len(plan.Skipped) != 1 {
		t.Fatalf("skipped = %d, want 1", len(plan.Skipped))
	}
	if plan.Skipped[0].Line != 7 {
		t.Errorf("skipped line = %d, want 7", plan.Skipped[0].Line)
	}
	if !strings.Contains(plan.Skipped[0].Reason, "start_time") {
		t.Errorf("skip reason %q should name start_time", plan.Skipped[0].Reason)
	}
}

func TestParseClassCSVRaggedRowDoesNotAbortBatch(t *testing.T) {
	input := "name,grade_level,day,start_time,end_time,category\n" +
		"Matematika,X,Senin,07:00,08:30,Wajib\n" +
		"Fisika,X,Selasa,07:00,08:30,IPA\n" +
		"Kimia,X,Rabu\n" // three fields only

	rows, err := ParseClassCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("short row must not fail the parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	plan := PlanImport(rows, nil, nil)
	if len(plan.Create) != 2 {
		t.Errorf("created = %d, want 2", len(plan.Create))
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Line != 4 {
		t.Fatalf("expected line 4 skipped, got %+v", plan.Skipped)
	}
	// Accepted rows keep their source line for later error reporting.
	if plan.Create[0].Line != 2 || plan.Create[1].Line != 3 {
		t.Errorf("planned lines = %d, %d, want 2, 3", plan.Create[0].Line, plan.Create[1].Line)
	}
}

func TestParseClassCSVUnreadableRowSkippedWithReason(t *testing.T) {
	input := "name,grade_level,day,start_time,end_time,category\n" +
		"Matematika,X,Senin,07:00,08:30,Wajib\n" +
		"\"Fisika,X,Selasa,07:00,08:30,IPA\n" // unterminated quote

	rows, err := ParseClassCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("broken row must not fail the parse: %v", err)
	}

	plan := PlanImport(rows, nil, nil)
	if len(plan.Create) != 1 {
		t.Errorf("created = %d, want 1", len(plan.Create))
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Line != 3 {
		t.Fatalf("expected line 3 skipped, got %+v", plan.Skipped)
	}
	if !strings.Contains(plan.Skipped[0].Reason, "tidak dapat dibaca") {
		t.Errorf("skip reason %q should say the row was unreadable", plan.Skipped[0].Reason)
	}
}

func TestPlanImportCategoryDefaultsToWajib(t *testing.T) {
	rows := []ImportRow{{
		Line: 2, Name: "Bahasa Indonesia", GradeLevel: "XI", Day: "Senin",
		StartTime: "07:00", EndTime: "08:00",
	}}
	plan := PlanImport(rows, nil, nil)
	if len(plan.Create) != 1 {
		t.Fatalf("created = %d, want 1", len(plan.Create))
	}
	if plan.Create[0].Class.Category != model.CategoryWajib {
		t.Errorf("category = %s, want %s", plan.Create[0].Class.Category, model.CategoryWajib)
	}
}

func TestPlanImportConflictsWithinBatch(t *testing.T) {
	rows := []ImportRow{
		{Line: 2, Name: "Fisika", GradeLevel: "X", Day: "Senin", StartTime: "07:00", EndTime: "08:30", Category: "IPA"},
		{Line: 3, Name: "Kimia", GradeLevel: "X", Day: "Senin", StartTime: "08:00", EndTime: "09:00", Category: "IPA"},
		{Line: 4, Name: "Sosiologi", GradeLevel: "X", Day: "Senin", StartTime: "08:00", EndTime: "09:00", Category: "IPS"},
	}
	plan := PlanImport(rows, nil, nil)

	if len(plan.Create) != 2 {
		t.Fatalf("created = %d, want 2 (Fisika and Sosiologi)", len(plan.Create))
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Line != 3 {
		t.Fatalf("expected only line 3 skipped, got %+v", plan.Skipped)
	}
	if !strings.Contains(plan.Skipped[0].Reason, "Fisika") {
		t.Errorf("skip reason %q should name the blocking class", plan.Skipped[0].Reason)
	}
}

func TestPlanImportConflictsWithExisting(t *testing.T) {
	existing := []model.Class{{
		ID: 9, Name: "Upacara", GradeLevel: model.GradeX, Day: model.DaySenin,
		StartMinute: 420, EndMinute: 480, Category: model.CategoryWajib,
	}}
	rows := []ImportRow{
		{Line: 2, Name: "Fisika", GradeLevel: "X", Day: "Senin", StartTime: "07:30", EndTime: "08:30", Category: "IPA"},
		{Line: 3, Name: "Fisika XI", GradeLevel: "XI", Day: "Senin", StartTime: "07:30", EndTime: "08:30", Category: "IPA"},
	}
	plan := PlanImport(rows, existing, nil)

	// Same grade+day conflicts; the XI class is a different grade and passes.
	if len(plan.Create) != 1 || plan.Create[0].Class.Name != "Fisika XI" {
		t.Fatalf("expected only Fisika XI created, got %+v", plan.Create)
	}
	if len(plan.Skipped) != 1 || plan.Skipped[0].Line != 2 {
		t.Fatalf("expected line 2 skipped, got %+v", plan.Skipped)
	}
}

func TestPlanImportTeacherResolution(t *testing.T) {
	known := 42
	resolve := func(email string) *int {
		if email == "guru@sekolah.sch.id" {
			return &known
		}
		return nil
	}
	rows := []ImportRow{
		{Line: 2, Name: "Matematika", GradeLevel: "X", Day: "Senin", StartTime: "07:00", EndTime: "08:00", TeacherEmail: "guru@sekolah.sch.id"},
		{Line: 3, Name: "Matematika XI", GradeLevel: "XI", Day: "Senin", StartTime: "07:00", EndTime: "08:00", TeacherEmail: "tidak@ada.id"},
	}
	plan := PlanImport(rows, nil, resolve)

	if len(plan.Create) != 2 {
		t.Fatalf("created = %d, want 2", len(plan.Create))
	}
	if plan.Create[0].Class.TeacherID == nil || *plan.Create[0].Class.TeacherID != 42 {
		t.Errorf("known teacher should be assigned, got %v", plan.Create[0].Class.TeacherID)
	}
	// Unknown teacher email leaves the class unassigned, it is not an error.
	if plan.Create[1].Class.TeacherID != nil {
		t.Errorf("unknown teacher should leave class unassigned, got %v", *plan.Create[1].Class.TeacherID)
	}
}
