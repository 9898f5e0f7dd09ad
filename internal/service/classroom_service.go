package service

import (
	"context"
	"fmt"
	"strings"

	"school-admin/internal/event"
	"school-admin/internal/model"
	"school-admin/internal/repository"
)

type ClassroomService struct {
	store  repository.SchoolStore
	events event.Bus
}

func NewClassroomService(store repository.SchoolStore, events event.Bus) *ClassroomService {
	return &ClassroomService{store: store, events: events}
}

func (s *ClassroomService) List(ctx context.Context, filter model.ClassroomFilter, page model.PageRequest) (model.Page[model.ClassroomRow], error) {
	if err := page.Validate(); err != nil {
		return model.Page[model.ClassroomRow]{}, err
	}

	classrooms, total, err := s.store.ListClassrooms(ctx, filter, page)
	if err != nil {
		return model.Page[model.ClassroomRow]{}, err
	}

	rows := make([]model.ClassroomRow, 0, len(classrooms))
	for _, c := range classrooms {
		rows = append(rows, c.Row())
	}
	return model.Page[model.ClassroomRow]{List: rows, Total: total}, nil
}

func (s *ClassroomService) Get(ctx context.Context, id string) (model.Classroom, error) {
	return s.store.GetClassroom(ctx, strings.TrimSpace(id))
}

func (s *ClassroomService) Create(ctx context.Context, in model.Classroom) (model.Classroom, error) {
	in = normalizeClassroom(in)
	if err := in.Validate(); err != nil {
		return model.Classroom{}, err
	}
	if err := s.store.CreateClassroom(ctx, in); err != nil {
		return model.Classroom{}, err
	}
	publish(ctx, s.events, event.TypeClassroomCreated, classroomResource(in.ClassroomID), in)
	return in, nil
}

// Update replaces the classroom addressed by id. The body may repeat the
// id but cannot change it.
func (s *ClassroomService) Update(ctx context.Context, id string, in model.Classroom) (model.Classroom, error) {
	id = strings.TrimSpace(id)
	in = normalizeClassroom(in)
	if in.ClassroomID == "" {
		in.ClassroomID = id
	}
	if in.ClassroomID != id {
		return model.Classroom{}, fmt.Errorf("%w: classroomId cannot be changed", model.ErrInvalidInput)
	}
	if err := in.Validate(); err != nil {
		return model.Classroom{}, err
	}
	if err := s.store.UpdateClassroom(ctx, in); err != nil {
		return model.Classroom{}, err
	}
	publish(ctx, s.events, event.TypeClassroomUpdated, classroomResource(in.ClassroomID), in)
	return in, nil
}

func (s *ClassroomService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.store.DeleteClassroom(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, event.TypeClassroomDeleted, classroomResource(id), nil)
	return nil
}

func (s *ClassroomService) Members(ctx context.Context, classroomID string, page model.PageRequest) (model.Page[model.StudentRow], error) {
	if err := page.Validate(); err != nil {
		return model.Page[model.StudentRow]{}, err
	}
	students, total, err := s.store.ListMembers(ctx, strings.TrimSpace(classroomID), page)
	if err != nil {
		return model.Page[model.StudentRow]{}, err
	}
	return studentPage(students, total), nil
}

func (s *ClassroomService) NonMembers(ctx context.Context, classroomID string, page model.PageRequest) (model.Page[model.StudentRow], error) {
	if err := page.Validate(); err != nil {
		return model.Page[model.StudentRow]{}, err
	}
	students, total, err := s.store.ListNonMembers(ctx, strings.TrimSpace(classroomID), page)
	if err != nil {
		return model.Page[model.StudentRow]{}, err
	}
	return studentPage(students, total), nil
}

func (s *ClassroomService) AddMember(ctx context.Context, change model.RosterChange) error {
	studentID := strings.TrimSpace(change.StudentID)
	classroomID := strings.TrimSpace(change.ClassroomID)
	if studentID == "" || classroomID == "" {
		return fmt.Errorf("%w: studentId and classroomId are required", model.ErrInvalidInput)
	}
	if err := s.store.AddMember(ctx, studentID, classroomID); err != nil {
		return err
	}
	publish(ctx, s.events, event.TypeMemberAdded, rosterResource(classroomID, studentID), nil)
	return nil
}

func (s *ClassroomService) RemoveMember(ctx context.Context, studentID string, classroomID string) error {
	studentID = strings.TrimSpace(studentID)
	classroomID = strings.TrimSpace(classroomID)
	if err := s.store.RemoveMember(ctx, studentID, classroomID); err != nil {
		return err
	}
	publish(ctx, s.events, event.TypeMemberRemoved, rosterResource(classroomID, studentID), nil)
	return nil
}

// MaleStudents is the male student report across all classrooms.
func (s *ClassroomService) MaleStudents(ctx context.Context) ([]model.StudentRow, error) {
	students, err := s.store.ListStudentsByGender(ctx, model.GenderMale)
	if err != nil {
		return nil, err
	}
	return studentPage(students, len(students)).List, nil
}

func normalizeClassroom(c model.Classroom) model.Classroom {
	c.ID = ""
	c.ClassroomID = strings.TrimSpace(c.ClassroomID)
	c.ClassName = strings.TrimSpace(c.ClassName)
	c.HomeroomTeacher = strings.TrimSpace(c.HomeroomTeacher)
	return c
}

func studentPage(students []model.Student, total int) model.Page[model.StudentRow] {
	rows := make([]model.StudentRow, 0, len(students))
	for _, st := range students {
		rows = append(rows, st.Row())
	}
	return model.Page[model.StudentRow]{List: rows, Total: total}
}
