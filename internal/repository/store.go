package repository

import (
	"context"
	"strings"

	"school-admin/internal/model"
)

type ClassroomStore interface {
	ListClassrooms(ctx context.Context, filter model.ClassroomFilter, page model.PageRequest) ([]model.Classroom, int, error)
	GetClassroom(ctx context.Context, classroomID string) (model.Classroom, error)
	CreateClassroom(ctx context.Context, c model.Classroom) error
	UpdateClassroom(ctx context.Context, c model.Classroom) error
	DeleteClassroom(ctx context.Context, classroomID string) error
}

type StudentStore interface {
	ListStudents(ctx context.Context, filter model.StudentFilter, page model.PageRequest) ([]model.Student, int, error)
	GetStudent(ctx context.Context, studentID string) (model.Student, error)
	CreateStudent(ctx context.Context, s model.Student) error
	UpdateStudent(ctx context.Context, s model.Student) error
	DeleteStudent(ctx context.Context, studentID string) error
	ListStudentsByGender(ctx context.Context, genderID int) ([]model.Student, error)
}

type RosterStore interface {
	ListMembers(ctx context.Context, classroomID string, page model.PageRequest) ([]model.Student, int, error)
	ListNonMembers(ctx context.Context, classroomID string, page model.PageRequest) ([]model.Student, int, error)
	AddMember(ctx context.Context, studentID string, classroomID string) error
	RemoveMember(ctx context.Context, studentID string, classroomID string) error
}

// SchoolStore is everything the school services persist. Implementations
// return the sentinel errors of the model package, wrapped with the id.
type SchoolStore interface {
	ClassroomStore
	StudentStore
	RosterStore
}

type OperatorStore interface {
	FindByUsername(ctx context.Context, username string) (model.Operator, error)
	FindByID(ctx context.Context, id string) (model.Operator, error)
	CreateOperator(ctx context.Context, op model.Operator) error
	CountOperators(ctx context.Context) (int, error)
}

// offset returns the index of the first row of page.
func offset(page model.PageRequest) int {
	return (page.Page - 1) * page.Limit
}

// window slices n rows down to page.
func window(n int, page model.PageRequest) (int, int) {
	start := offset(page)
	if start > n {
		start = n
	}
	end := start + page.Limit
	if end > n {
		end = n
	}
	return start, end
}

func containsFold(haystack string, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// searchName is what the fullname filter matches against.
func searchName(s model.Student) string {
	return s.FirstName + " " + s.LastName
}
