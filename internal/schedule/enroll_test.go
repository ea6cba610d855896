package schedule

import (
	"reflect"
	"testing"

	"github.com/siakadcloud/siakad-backend/internal/model"
)

func mkStudent(id int, grade model.GradeLevel, major model.Major) model.User {
	g, m := grade, major
	u := model.User{ID: id, Role: model.RoleStudent, GradeLevel: &g}
	if major != "" {
		u.Major = &m
	}
	return u
}

func TestEligibleStudentsExactMatch(t *testing.T) {
	students := []model.User{
		mkStudent(1, model.GradeXI, model.MajorIPA),
		mkStudent(2, model.GradeXI, model.MajorIPS),
		mkStudent(3, model.GradeX, model.MajorIPA),
		mkStudent(4, model.GradeXI, ""), // no major chosen yet
		{ID: 5, Role: model.RoleTeacher},
		{ID: 6, Role: model.RoleStudent}, // no grade at all
	}

	tests := []struct {
		name     string
		grade    model.GradeLevel
		category model.Category
		want     []int
	}{
		{"wajib XI takes the whole grade", model.GradeXI, model.CategoryWajib, []int{1, 2, 4}},
		{"ipa XI takes only ipa majors", model.GradeXI, model.CategoryIPA, []int{1}},
		{"ips XI takes only ips majors", model.GradeXI, model.CategoryIPS, []int{2}},
		{"wajib X excludes other grades", model.GradeX, model.CategoryWajib, []int{3}},
		{"ips X matches nobody", model.GradeX, model.CategoryIPS, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := EligibleStudents(tc.grade, tc.category, students)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEligibleForClass(t *testing.T) {
	student := mkStudent(1, model.GradeXI, model.MajorIPA)

	cases := []struct {
		grade    model.GradeLevel
		category model.Category
		want     bool
	}{
		{model.GradeXI, model.CategoryWajib, true},
		{model.GradeXI, model.CategoryIPA, true},
		{model.GradeXI, model.CategoryIPS, false},
		{model.GradeX, model.CategoryWajib, false},
		{model.GradeX, model.CategoryIPA, false},
	}
	for _, tc := range cases {
		c := model.Class{GradeLevel: tc.grade, Category: tc.category}
		if got := EligibleForClass(student, c); got != tc.want {
			t.Errorf("grade %s category %s: got %v, want %v", tc.grade, tc.category, got, tc.want)
		}
	}
}

func TestMergeEnrollmentIdempotent(t *testing.T) {
	current := []int{1, 2}
	add := []int{2, 3, 3, 4}

	once := MergeEnrollment(current, add)
	twice := MergeEnrollment(once, add)

	want := []int{1, 2, 3, 4}
	if !reflect.DeepEqual(once, want) {
		t.Errorf("first merge = %v, want %v", once, want)
	}
	if !reflect.DeepEqual(twice, want) {
		t.Errorf("second merge = %v, want %v (merge must be idempotent)", twice, want)
	}
}

func TestMergeEnrollmentEmptySides(t *testing.T) {
	if got := MergeEnrollment(nil, []int{7}); !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("merge into empty = %v, want [7]", got)
	}
	if got := MergeEnrollment([]int{7}, nil); !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("merge of nothing = %v, want [7]", got)
	}
}

func TestRemoveEnrollment(t *testing.T) {
	got := RemoveEnrollment([]int{1, 2, 3}, 2)
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("remove member = %v, want [1 3]", got)
	}
	// Removing an absent id is a no-op, not an error.
	got = RemoveEnrollment(got, 2)
	if !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("remove absent = %v, want [1 3]", got)
	}
}
