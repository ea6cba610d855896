package service

import (
	"strings"
	"testing"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

func TestParseUserCSVHeaderCaseTolerant(t *testing.T) {
	input := "Name,EMAIL,Password,role,Grade_Level,major\n" +
		"Andi Pratama,andi@sekolah.sch.id,rahasia123,student,X,IPA\n"

	rows, err := parseUserCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.name != "Andi Pratama" || row.email != "andi@sekolah.sch.id" ||
		row.password != "rahasia123" || row.role != "student" ||
		row.grade != "X" || row.major != "IPA" {
		t.Errorf("unexpected row: %+v", row)
	}
	if row.line != 2 {
		t.Errorf("line = %d, want 2", row.line)
	}
}

func TestParseUserCSVRaggedRowDoesNotAbortBatch(t *testing.T) {
	input := "name,email,password,role\n" +
		"Andi Pratama,andi@sekolah.sch.id,rahasia123,teacher\n" +
		"Budi Santoso,budi@sekolah.sch.id,rahasia123,teacher\n" +
		"Citra,citra@sekolah.sch.id\n" // two fields missing

	rows, err := parseUserCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("short row must not fail the parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// The short row still parses; its missing columns come back empty and
	// validation handles them per row.
	if rows[2].line != 4 || rows[2].name != "Citra" || rows[2].role != "" {
		t.Errorf("unexpected short row: %+v", rows[2])
	}
}

func TestParseUserCSVUnreadableRowKeepsLineNumber(t *testing.T) {
	input := "name,email,password,role\n" +
		"Andi Pratama,andi@sekolah.sch.id,rahasia123,teacher\n" +
		"\"Budi,budi@sekolah.sch.id,rahasia123,teacher\n" // unterminated quote

	rows, err := parseUserCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("broken row must not fail the parse: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[1].malformed || rows[1].line != 3 {
		t.Fatalf("expected malformed row at line 3, got %+v", rows[1])
	}

	svc := &UserService{}
	user, reason := svc.buildImportUser(rows[1])
	if user != nil {
		t.Fatalf("expected rejection, got user %+v", user)
	}
	if !strings.Contains(reason, "tidak dapat dibaca") {
		t.Errorf("reason %q should say the row was unreadable", reason)
	}
}

func TestBuildImportUserValidation(t *testing.T) {
	svc := &UserService{}

	tests := []struct {
		name       string
		row        userImportRow
		wantReason string
	}{
		{
			name:       "missing name",
			row:        userImportRow{email: "a@b.c", role: "teacher"},
			wantReason: "kolom name kosong",
		},
		{
			name:       "missing email",
			row:        userImportRow{name: "Budi", role: "teacher"},
			wantReason: "kolom email kosong",
		},
		{
			name:       "unknown role",
			row:        userImportRow{name: "Budi", email: "a@b.c", role: "wali"},
			wantReason: "tidak dikenal",
		},
		{
			name:       "student without grade",
			row:        userImportRow{name: "Budi", email: "a@b.c", role: "student"},
			wantReason: "grade_level dan major",
		},
		{
			name:       "bad grade value",
			row:        userImportRow{name: "Budi", email: "a@b.c", role: "student", grade: "XIII", major: "IPA"},
			wantReason: "tidak dikenal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, reason := svc.buildImportUser(tt.row)
			if user != nil {
				t.Fatalf("expected rejection, got user %+v", user)
			}
			if !strings.Contains(reason, tt.wantReason) {
				t.Errorf("reason %q should contain %q", reason, tt.wantReason)
			}
		})
	}
}

func TestBuildImportUserDefaultsToStudent(t *testing.T) {
	svc := &UserService{}
	user, reason := svc.buildImportUser(userImportRow{
		name:  "Siti Aminah",
		email: "siti@sekolah.sch.id",
		grade: "XI",
		major: "IPS",
	})
	if reason != "" {
		t.Fatalf("unexpected rejection: %s", reason)
	}
	if user.Role != model.RoleStudent {
		t.Errorf("role = %s, want student", user.Role)
	}
	if user.GradeLevel == nil || *user.GradeLevel != model.GradeXI {
		t.Errorf("grade = %v, want XI", user.GradeLevel)
	}
}

func TestRandomPasswordLengthAndAlphabet(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		pw, err := randomPassword(12)
		if err != nil {
			t.Fatal(err)
		}
		if len(pw) != 12 {
			t.Fatalf("len = %d, want 12", len(pw))
		}
		for _, ch := range pw {
			if !strings.ContainsRune(passwordAlphabet, ch) {
				t.Fatalf("character %q outside alphabet", ch)
			}
		}
		seen[pw] = true
	}
	// 10 draws from a 56^12 space must not collide.
	if len(seen) != 10 {
		t.Error("duplicate passwords generated")
	}
}
