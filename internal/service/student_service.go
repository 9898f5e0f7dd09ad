package service

import (
	"context"
	"fmt"
	"strings"

	"school-admin/internal/event"
	"school-admin/internal/model"
	"school-admin/internal/repository"
)

type StudentService struct {
	store  repository.SchoolStore
	events event.Bus
}

func NewStudentService(store repository.SchoolStore, events event.Bus) *StudentService {
	return &StudentService{store: store, events: events}
}

func (s *StudentService) List(ctx context.Context, filter model.StudentFilter, page model.PageRequest) (model.Page[model.StudentRow], error) {
	if err := page.Validate(); err != nil {
		return model.Page[model.StudentRow]{}, err
	}
	if filter.GradeLevel != 0 {
		if _, ok := model.LabelOf(model.GradeLevels, filter.GradeLevel); !ok {
			return model.Page[model.StudentRow]{}, fmt.Errorf("%w: unknown gradeLevel %d", model.ErrInvalidInput, filter.GradeLevel)
		}
	}

	students, total, err := s.store.ListStudents(ctx, filter, page)
	if err != nil {
		return model.Page[model.StudentRow]{}, err
	}
	return studentPage(students, total), nil
}

func (s *StudentService) Get(ctx context.Context, id string) (model.Student, error) {
	return s.store.GetStudent(ctx, strings.TrimSpace(id))
}

func (s *StudentService) Create(ctx context.Context, in model.Student) (model.Student, error) {
	in = normalizeStudent(in)
	if err := in.Validate(); err != nil {
		return model.Student{}, err
	}
	if err := s.store.CreateStudent(ctx, in); err != nil {
		return model.Student{}, err
	}
	publish(ctx, s.events, event.TypeStudentCreated, studentResource(in.StudentID), in)
	return in, nil
}

func (s *StudentService) Update(ctx context.Context, id string, in model.Student) (model.Student, error) {
	id = strings.TrimSpace(id)
	in = normalizeStudent(in)
	if in.StudentID == "" {
		in.StudentID = id
	}
	if in.StudentID != id {
		return model.Student{}, fmt.Errorf("%w: studentId cannot be changed", model.ErrInvalidInput)
	}
	if err := in.Validate(); err != nil {
		return model.Student{}, err
	}
	if err := s.store.UpdateStudent(ctx, in); err != nil {
		return model.Student{}, err
	}
	publish(ctx, s.events, event.TypeStudentUpdated, studentResource(in.StudentID), in)
	return in, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if err := s.store.DeleteStudent(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.events, event.TypeStudentDeleted, studentResource(id), nil)
	return nil
}

func normalizeStudent(st model.Student) model.Student {
	st.ID = ""
	st.StudentID = strings.TrimSpace(st.StudentID)
	st.FirstName = strings.TrimSpace(st.FirstName)
	st.LastName = strings.TrimSpace(st.LastName)
	st.BirthDate = strings.TrimSpace(st.BirthDate)
	return st
}
