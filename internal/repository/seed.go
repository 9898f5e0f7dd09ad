package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"school-admin/internal/model"
)

var demoClassrooms = []model.Classroom{
	{ClassroomID: "C101", ClassName: "ป.1/1", AcademicYear: 2567, HomeroomTeacher: "ครูสมศรี ใจงาม"},
	{ClassroomID: "C701", ClassName: "ม.1/1", AcademicYear: 2567, HomeroomTeacher: "ครูวิชัย รักเรียน"},
	{ClassroomID: "C801", ClassName: "ม.2/1", AcademicYear: 2567, HomeroomTeacher: "ครูมาลี ศรีสุข"},
}

var demoStudents = []model.Student{
	{StudentID: "S0001", PrefixID: 1, FirstName: "สมชาย", LastName: "ใจดี", GradeLevelID: 1, GenderID: model.GenderMale, BirthDate: "2017-05-14"},
	{StudentID: "S0002", PrefixID: 2, FirstName: "สมหญิง", LastName: "แสนดี", GradeLevelID: 1, GenderID: model.GenderFemale, BirthDate: "2017-08-02"},
	{StudentID: "S0003", PrefixID: 1, FirstName: "ธนา", LastName: "มั่นคง", GradeLevelID: 7, GenderID: model.GenderMale, BirthDate: "2012-01-20"},
	{StudentID: "S0004", PrefixID: 2, FirstName: "กานดา", LastName: "พรมมา", GradeLevelID: 7, GenderID: model.GenderFemale, BirthDate: "2012-11-30"},
	{StudentID: "S0005", PrefixID: 3, FirstName: "ปกรณ์", LastName: "ทองดี", GradeLevelID: 8, GenderID: model.GenderMale, BirthDate: "2011-03-09"},
}

var demoRoster = []model.RosterChange{
	{StudentID: "S0001", ClassroomID: "C101"},
	{StudentID: "S0003", ClassroomID: "C701"},
}

// SeedDemo fills an empty store with a few classrooms and students. Records
// that already exist are left untouched.
func SeedDemo(ctx context.Context, store SchoolStore) error {
	for _, c := range demoClassrooms {
		if err := store.CreateClassroom(ctx, c); err != nil && !errors.Is(err, model.ErrClassroomExists) {
			return fmt.Errorf("seed classroom %s: %w", c.ClassroomID, err)
		}
	}

	for _, s := range demoStudents {
		if err := store.CreateStudent(ctx, s); err != nil && !errors.Is(err, model.ErrStudentExists) {
			return fmt.Errorf("seed student %s: %w", s.StudentID, err)
		}
	}

	for _, m := range demoRoster {
		if err := store.AddMember(ctx, m.StudentID, m.ClassroomID); err != nil && !errors.Is(err, model.ErrAlreadyMember) {
			return fmt.Errorf("seed roster %s/%s: %w", m.ClassroomID, m.StudentID, err)
		}
	}

	slog.Info("demo data seeded", "classrooms", len(demoClassrooms), "students", len(demoStudents))
	return nil
}
