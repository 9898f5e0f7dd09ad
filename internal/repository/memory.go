package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"school-admin/internal/model"
)

// MemoryStore keeps the whole school in process memory. It backs the dev
// server when no DATABASE_URL is configured, and the tests.
type MemoryStore struct {
	mu         sync.RWMutex
	classrooms map[string]model.Classroom
	students   map[string]model.Student
	members    map[string]map[string]struct{}
	operators  map[string]model.Operator
	audit      []model.AuditEntry
}

// maxMemoryAudit bounds the in-memory audit trail; the oldest entries go
// first.
const maxMemoryAudit = 1000

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		classrooms: map[string]model.Classroom{},
		students:   map[string]model.Student{},
		members:    map[string]map[string]struct{}{},
		operators:  map[string]model.Operator{},
	}
}

func (m *MemoryStore) ListClassrooms(_ context.Context, filter model.ClassroomFilter, page model.PageRequest) ([]model.Classroom, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]model.Classroom, 0, len(m.classrooms))
	for _, c := range m.classrooms {
		if containsFold(c.ClassroomID, filter.ClassroomID) &&
			containsFold(c.ClassName, filter.ClassName) &&
			containsFold(c.HomeroomTeacher, filter.HomeroomTeacher) {
			matched = append(matched, c)
		}
	}
	slices.SortFunc(matched, func(a, b model.Classroom) int { return cmp.Compare(a.ClassroomID, b.ClassroomID) })

	start, end := window(len(matched), page)
	return matched[start:end], len(matched), nil
}

func (m *MemoryStore) GetClassroom(_ context.Context, classroomID string) (model.Classroom, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.classrooms[classroomID]
	if !ok {
		return model.Classroom{}, fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}
	return c, nil
}

func (m *MemoryStore) CreateClassroom(_ context.Context, c model.Classroom) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.classrooms[c.ClassroomID]; exists {
		return fmt.Errorf("%w: %s", model.ErrClassroomExists, c.ClassroomID)
	}
	c.ID = ""
	m.classrooms[c.ClassroomID] = c
	return nil
}

func (m *MemoryStore) UpdateClassroom(_ context.Context, c model.Classroom) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.classrooms[c.ClassroomID]; !exists {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotFound, c.ClassroomID)
	}
	c.ID = ""
	m.classrooms[c.ClassroomID] = c
	return nil
}

func (m *MemoryStore) DeleteClassroom(_ context.Context, classroomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.classrooms[classroomID]; !exists {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}
	if len(m.members[classroomID]) > 0 {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotEmpty, classroomID)
	}
	delete(m.classrooms, classroomID)
	delete(m.members, classroomID)
	return nil
}

func (m *MemoryStore) ListStudents(_ context.Context, filter model.StudentFilter, page model.PageRequest) ([]model.Student, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := m.studentsLocked(func(s model.Student) bool {
		return containsFold(s.StudentID, filter.StudentID) &&
			containsFold(searchName(s), filter.Fullname) &&
			(filter.GradeLevel == 0 || s.GradeLevelID == filter.GradeLevel)
	})

	start, end := window(len(matched), page)
	return matched[start:end], len(matched), nil
}

func (m *MemoryStore) GetStudent(_ context.Context, studentID string) (model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[studentID]
	if !ok {
		return model.Student{}, fmt.Errorf("%w: %s", model.ErrStudentNotFound, studentID)
	}
	return s, nil
}

func (m *MemoryStore) CreateStudent(_ context.Context, s model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.students[s.StudentID]; exists {
		return fmt.Errorf("%w: %s", model.ErrStudentExists, s.StudentID)
	}
	s.ID = ""
	m.students[s.StudentID] = s
	return nil
}

func (m *MemoryStore) UpdateStudent(_ context.Context, s model.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.students[s.StudentID]; !exists {
		return fmt.Errorf("%w: %s", model.ErrStudentNotFound, s.StudentID)
	}
	s.ID = ""
	m.students[s.StudentID] = s
	return nil
}

// DeleteStudent also drops the student from every roster.
func (m *MemoryStore) DeleteStudent(_ context.Context, studentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.students[studentID]; !exists {
		return fmt.Errorf("%w: %s", model.ErrStudentNotFound, studentID)
	}
	delete(m.students, studentID)
	for _, roster := range m.members {
		delete(roster, studentID)
	}
	return nil
}

func (m *MemoryStore) ListStudentsByGender(_ context.Context, genderID int) ([]model.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.studentsLocked(func(s model.Student) bool { return s.GenderID == genderID }), nil
}

func (m *MemoryStore) ListMembers(_ context.Context, classroomID string, page model.PageRequest) ([]model.Student, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.classrooms[classroomID]; !exists {
		return nil, 0, fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}

	roster := m.members[classroomID]
	matched := m.studentsLocked(func(s model.Student) bool {
		_, in := roster[s.StudentID]
		return in
	})

	start, end := window(len(matched), page)
	return matched[start:end], len(matched), nil
}

func (m *MemoryStore) ListNonMembers(_ context.Context, classroomID string, page model.PageRequest) ([]model.Student, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, exists := m.classrooms[classroomID]; !exists {
		return nil, 0, fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}

	roster := m.members[classroomID]
	matched := m.studentsLocked(func(s model.Student) bool {
		_, in := roster[s.StudentID]
		return !in
	})

	start, end := window(len(matched), page)
	return matched[start:end], len(matched), nil
}

func (m *MemoryStore) AddMember(_ context.Context, studentID string, classroomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.classrooms[classroomID]; !exists {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}
	if _, exists := m.students[studentID]; !exists {
		return fmt.Errorf("%w: %s", model.ErrStudentNotFound, studentID)
	}

	roster, ok := m.members[classroomID]
	if !ok {
		roster = map[string]struct{}{}
		m.members[classroomID] = roster
	}
	if _, in := roster[studentID]; in {
		return fmt.Errorf("%w: %s in %s", model.ErrAlreadyMember, studentID, classroomID)
	}
	roster[studentID] = struct{}{}
	return nil
}

func (m *MemoryStore) RemoveMember(_ context.Context, studentID string, classroomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.classrooms[classroomID]; !exists {
		return fmt.Errorf("%w: %s", model.ErrClassroomNotFound, classroomID)
	}
	if _, in := m.members[classroomID][studentID]; !in {
		return fmt.Errorf("%w: %s in %s", model.ErrNotMember, studentID, classroomID)
	}
	delete(m.members[classroomID], studentID)
	return nil
}

func (m *MemoryStore) FindByUsername(_ context.Context, username string) (model.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, op := range m.operators {
		if strings.EqualFold(op.Username, strings.TrimSpace(username)) {
			return op, nil
		}
	}
	return model.Operator{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, username)
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (model.Operator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	op, ok := m.operators[id]
	if !ok {
		return model.Operator{}, fmt.Errorf("%w: %s", model.ErrUserNotFound, id)
	}
	return op, nil
}

func (m *MemoryStore) CreateOperator(_ context.Context, op model.Operator) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.operators {
		if strings.EqualFold(existing.Username, op.Username) {
			return fmt.Errorf("operator %q already exists", op.Username)
		}
	}
	m.operators[op.ID] = op
	return nil
}

func (m *MemoryStore) CountOperators(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.operators), nil
}

// studentsLocked returns the students accepted by keep, ordered by id.
func (m *MemoryStore) studentsLocked(keep func(model.Student) bool) []model.Student {
	out := make([]model.Student, 0, len(m.students))
	for _, s := range m.students {
		if keep(s) {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b model.Student) int { return cmp.Compare(a.StudentID, b.StudentID) })
	return out
}

func (m *MemoryStore) LogAudit(_ context.Context, entry model.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.audit = append(m.audit, entry)
	if over := len(m.audit) - maxMemoryAudit; over > 0 {
		m.audit = slices.Delete(m.audit, 0, over)
	}
	return nil
}

func (m *MemoryStore) ListAudit(_ context.Context, filter model.AuditFilter, page model.PageRequest) ([]model.AuditEntry, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]model.AuditEntry, 0, len(m.audit))
	for i := len(m.audit) - 1; i >= 0; i-- {
		e := m.audit[i]
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if !containsFold(e.ActorName, filter.Actor) || !containsFold(e.Resource, filter.Resource) {
			continue
		}
		matched = append(matched, e)
	}

	start, end := window(len(matched), page)
	return matched[start:end], len(matched), nil
}
