package schedule

import (
	"strings"
	"testing"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

func mkClass(id int, name string, cat model.Category, start, end int) model.Class {
	return model.Class{
		ID:          id,
		Name:        name,
		GradeLevel:  model.GradeX,
		Day:         model.DaySenin,
		StartMinute: start,
		EndMinute:   end,
		Category:    cat,
	}
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct{ s1, e1, s2, e2 int }{
		{0, 60, 30, 90},
		{0, 60, 60, 120},
		{420, 510, 480, 540},
		{0, 1440, 100, 200},
		{100, 200, 300, 400},
	}
	for _, c := range cases {
		ab := Overlaps(c.s1, c.e1, c.s2, c.e2)
		ba := Overlaps(c.s2, c.e2, c.s1, c.e1)
		if ab != ba {
			t.Errorf("Overlaps(%d,%d,%d,%d)=%v but reversed=%v", c.s1, c.e1, c.s2, c.e2, ab, ba)
		}
	}
}

func TestOverlapsBoundary(t *testing.T) {
	if Overlaps(0, 60, 60, 120) {
		t.Error("touching intervals [0,60) and [60,120) must not overlap")
	}
	if !Overlaps(0, 61, 60, 120) {
		t.Error("[0,61) and [60,120) share minute 60 and must overlap")
	}
}

func TestCheckConflictInvalidTimeRange(t *testing.T) {
	bad := mkClass(0, "Kimia", model.CategoryWajib, 480, 480)
	if _, err := CheckConflict(bad, nil); err != ErrInvalidTimeRange {
		t.Fatalf("expected ErrInvalidTimeRange, got %v", err)
	}
	bad.EndMinute = 420
	if _, err := CheckConflict(bad, nil); err != ErrInvalidTimeRange {
		t.Fatalf("expected ErrInvalidTimeRange for reversed range, got %v", err)
	}
}

func TestCheckConflictEmptyExisting(t *testing.T) {
	for _, cat := range []model.Category{model.CategoryWajib, model.CategoryIPA, model.CategoryIPS} {
		c := mkClass(0, "Apapun", cat, 420, 510)
		conflict, err := CheckConflict(c, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conflict != nil {
			t.Errorf("category %s: no existing classes must mean no conflict", cat)
		}
	}
}

func TestCheckConflictCategoryRules(t *testing.T) {
	tests := []struct {
		name      string
		candidate model.Category
		existing  model.Category
		want      ConflictReason // "" means no conflict
	}{
		{"wajib blocks ipa", model.CategoryWajib, model.CategoryIPA, ReasonCandidateWajib},
		{"wajib blocks ips", model.CategoryWajib, model.CategoryIPS, ReasonCandidateWajib},
		{"wajib blocks wajib", model.CategoryWajib, model.CategoryWajib, ReasonCandidateWajib},
		{"ipa blocked by wajib", model.CategoryIPA, model.CategoryWajib, ReasonExistingWajib},
		{"ips blocked by wajib", model.CategoryIPS, model.CategoryWajib, ReasonExistingWajib},
		{"ipa blocks ipa", model.CategoryIPA, model.CategoryIPA, ReasonSameCategory},
		{"ips blocks ips", model.CategoryIPS, model.CategoryIPS, ReasonSameCategory},
		{"ipa and ips coexist", model.CategoryIPA, model.CategoryIPS, ""},
		{"ips and ipa coexist", model.CategoryIPS, model.CategoryIPA, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			existing := []model.Class{mkClass(1, "Lama", tc.existing, 420, 510)}
			candidate := mkClass(0, "Baru", tc.candidate, 450, 540)

			conflict, err := CheckConflict(candidate, existing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want == "" {
				if conflict != nil {
					t.Fatalf("expected no conflict, got %v", conflict.Reason)
				}
				return
			}
			if conflict == nil {
				t.Fatal("expected a conflict")
			}
			if conflict.Reason != tc.want {
				t.Errorf("reason = %s, want %s", conflict.Reason, tc.want)
			}
			if conflict.With.ID != 1 {
				t.Errorf("blocking class id = %d, want 1", conflict.With.ID)
			}
		})
	}
}

func TestCheckConflictReportsFirstInOrder(t *testing.T) {
	existing := []model.Class{
		mkClass(1, "A", model.CategoryIPA, 400, 500),
		mkClass(2, "B", model.CategoryIPA, 450, 550),
	}
	candidate := mkClass(0, "C", model.CategoryIPA, 460, 470)

	conflict, err := CheckConflict(candidate, existing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conflict == nil || conflict.With.ID != 1 {
		t.Fatalf("expected first conflict with class 1, got %+v", conflict)
	}
}

// Grade 10 Monday scenario: a compulsory morning class, then classes that
// touch it, overlap it, and overlap each other across majors.
func TestMondayScheduleScenario(t *testing.T) {
	var existing []model.Class

	create := func(t *testing.T, name string, cat model.Category, start, end string) *Conflict {
		t.Helper()
		s, err := ParseClock(start)
		if err != nil {
			t.Fatal(err)
		}
		e, err := ParseClock(end)
		if err != nil {
			t.Fatal(err)
		}
		candidate := mkClass(len(existing)+1, name, cat, s, e)
		conflict, err := CheckConflict(candidate, existing)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if conflict == nil {
			existing = append(existing, candidate)
		}
		return conflict
	}

	if c := create(t, "A Matematika", model.CategoryWajib, "07:00", "08:30"); c != nil {
		t.Fatalf("A should succeed, got conflict %v", c.Reason)
	}
	if c := create(t, "B Fisika", model.CategoryIPA, "08:00", "09:00"); c == nil {
		t.Fatal("B overlaps the Wajib class A and must be rejected")
	} else if c.Reason != ReasonExistingWajib {
		t.Fatalf("B reason = %s, want %s", c.Reason, ReasonExistingWajib)
	}
	if c := create(t, "C Kimia", model.CategoryIPA, "08:30", "09:30"); c != nil {
		t.Fatalf("C touches A's end and must succeed, got %v", c.Reason)
	}
	if c := create(t, "D Sosiologi", model.CategoryIPS, "08:45", "09:15"); c != nil {
		t.Fatalf("D overlaps C across majors and must succeed, got %v", c.Reason)
	}
	if c := create(t, "E Biologi", model.CategoryIPA, "08:45", "09:15"); c == nil {
		t.Fatal("E overlaps C with the same major and must be rejected")
	} else if c.Reason != ReasonSameCategory {
		t.Fatalf("E reason = %s, want %s", c.Reason, ReasonSameCategory)
	} else if c.With.Name != "C Kimia" {
		t.Fatalf("E must conflict with C, got %q", c.With.Name)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"07:00", 420, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{" 08:30 ", 510, false},
		{"24:00", 0, true},
		{"7", 0, true},
		{"07:60", 0, true},
		{"aa:bb", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.in, got, tc.want)
		}
		if back := FormatClock(got); back != strings.TrimSpace(tc.in) {
			t.Errorf("FormatClock(%d) = %s, want %s", got, back, strings.TrimSpace(tc.in))
		}
	}
}
