package client

import (
	"context"
	"net/http"
	"strings"

	"school-admin/internal/gateway"
	"school-admin/internal/model"
	"school-admin/pkg/querystring"
)

const classroomBase = "/api/classroom"

type ClassroomClient struct {
	gateway *gateway.Gateway
}

func NewClassroomClient(g *gateway.Gateway) *ClassroomClient {
	return &ClassroomClient{gateway: g}
}

func (c *ClassroomClient) List(ctx context.Context, page model.PageRequest, filter model.ClassroomFilter) (*model.Envelope[model.Page[model.ClassroomRow]], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return gateway.Call[model.Page[model.ClassroomRow]](ctx, c.gateway, http.MethodGet, classroomBase+"/list", model.ListQuery(page, filter), nil)
}

func (c *ClassroomClient) Get(ctx context.Context, id string) (*model.Envelope[model.Classroom], error) {
	escaped, err := pathID("classroom id", id)
	if err != nil {
		return nil, err
	}
	return gateway.Call[model.Classroom](ctx, c.gateway, http.MethodGet, classroomBase+"/detail/"+escaped, nil, nil)
}

func (c *ClassroomClient) Create(ctx context.Context, in model.Classroom) (*model.Envelope[model.Classroom], error) {
	return gateway.Call[model.Classroom](ctx, c.gateway, http.MethodPost, classroomBase+"/create", nil, in)
}

// Update sends id both in the path and in the body.
func (c *ClassroomClient) Update(ctx context.Context, id string, in model.Classroom) (*model.Envelope[model.Classroom], error) {
	escaped, err := pathID("classroom id", id)
	if err != nil {
		return nil, err
	}
	in.ID = strings.TrimSpace(id)
	return gateway.Call[model.Classroom](ctx, c.gateway, http.MethodPut, classroomBase+"/update/"+escaped, nil, in)
}

func (c *ClassroomClient) Delete(ctx context.Context, id string) (*model.Envelope[Empty], error) {
	escaped, err := pathID("classroom id", id)
	if err != nil {
		return nil, err
	}
	return gateway.Call[Empty](ctx, c.gateway, http.MethodDelete, classroomBase+"/delete/"+escaped, nil, nil)
}

// ListMembers pages through the students enrolled in a classroom.
func (c *ClassroomClient) ListMembers(ctx context.Context, classroomID string, page model.PageRequest) (*model.Envelope[model.Page[model.StudentRow]], error) {
	escaped, err := pathID("classroom id", classroomID)
	if err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	params := rosterQuery(classroomID, page)
	return gateway.Call[model.Page[model.StudentRow]](ctx, c.gateway, http.MethodGet, classroomBase+"/students/"+escaped, params, nil)
}

// ListNonMembers pages through the students that can still be added.
func (c *ClassroomClient) ListNonMembers(ctx context.Context, classroomID string, page model.PageRequest) (*model.Envelope[model.Page[model.StudentRow]], error) {
	if _, err := pathID("classroom id", classroomID); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}
	params := rosterQuery(classroomID, page)
	return gateway.Call[model.Page[model.StudentRow]](ctx, c.gateway, http.MethodGet, classroomBase+"/students-not-in-class", params, nil)
}

func (c *ClassroomClient) AddMember(ctx context.Context, studentID string, classroomID string) (*model.Envelope[Empty], error) {
	if _, err := pathID("student id", studentID); err != nil {
		return nil, err
	}
	if _, err := pathID("classroom id", classroomID); err != nil {
		return nil, err
	}
	body := model.RosterChange{StudentID: strings.TrimSpace(studentID), ClassroomID: strings.TrimSpace(classroomID)}
	return gateway.Call[Empty](ctx, c.gateway, http.MethodPost, classroomBase+"/add-student", nil, body)
}

func (c *ClassroomClient) RemoveMember(ctx context.Context, studentID string, classroomID string) (*model.Envelope[Empty], error) {
	student, err := pathID("student id", studentID)
	if err != nil {
		return nil, err
	}
	classroom, err := pathID("classroom id", classroomID)
	if err != nil {
		return nil, err
	}
	return gateway.Call[Empty](ctx, c.gateway, http.MethodDelete, classroomBase+"/remove-student/"+student+"/"+classroom, nil, nil)
}

// MaleStudents runs the server-side male student report.
func (c *ClassroomClient) MaleStudents(ctx context.Context) (*model.Envelope[[]model.StudentRow], error) {
	return gateway.Call[[]model.StudentRow](ctx, c.gateway, http.MethodGet, classroomBase+"/get-male-student-raw-query", nil, nil)
}

func rosterQuery(classroomID string, page model.PageRequest) *querystring.Params {
	return querystring.Of("id", strings.TrimSpace(classroomID)).Merge(page.Params())
}
