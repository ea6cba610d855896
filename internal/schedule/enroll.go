package schedule

import "github.com/siakadcloud/siakad-backend/internal/model"

// EligibleStudents returns the ids of students who belong in a class of the
// given grade and category: the grade must match exactly, and non-Wajib
// classes additionally require a matching major. Students with no grade or
// no major never match a requirement on that field.
func EligibleStudents(grade model.GradeLevel, category model.Category, students []model.User) []int {
	var ids []int
	for _, s := range students {
		if s.Role != model.RoleStudent {
			continue
		}
		if s.GradeLevel == nil || *s.GradeLevel != grade {
			continue
		}
		if category != model.CategoryWajib {
			if s.Major == nil || model.Category(*s.Major) != category {
				continue
			}
		}
		ids = append(ids, s.ID)
	}
	return ids
}

// EligibleForClass reports whether one student matches a class's grade and
// category requirement.
func EligibleForClass(s model.User, c model.Class) bool {
	if s.Role != model.RoleStudent || s.GradeLevel == nil || *s.GradeLevel != c.GradeLevel {
		return false
	}
	if c.Category == model.CategoryWajib {
		return true
	}
	return s.Major != nil && model.Category(*s.Major) == c.Category
}

// MergeEnrollment unions new member ids into the current membership set.
// Current members keep their position, additions append in given order, and
// duplicates (within add, or between add and current) collapse, so applying
// the same add twice yields the same set.
func MergeEnrollment(current, add []int) []int {
	seen := make(map[int]struct{}, len(current)+len(add))
	merged := make([]int, 0, len(current)+len(add))
	for _, id := range current {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	for _, id := range add {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}

// RemoveEnrollment drops one member id from the set. Removing an id that is
// not a member is a no-op, not an error.
func RemoveEnrollment(current []int, remove int) []int {
	result := make([]int, 0, len(current))
	for _, id := range current {
		if id != remove {
			result = append(result, id)
		}
	}
	return result
}
