package client

import (
	"context"
	"net/http"
	"strings"

	"school-admin/internal/gateway"
	"school-admin/internal/model"
)

const studentBase = "/api/students"

type StudentClient struct {
	gateway *gateway.Gateway
}

func NewStudentClient(g *gateway.Gateway) *StudentClient {
	return &StudentClient{gateway: g}
}

func (c *StudentClient) List(ctx context.Context, page model.PageRequest, filter model.StudentFilter) (*model.Envelope[model.Page[model.StudentRow]], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return gateway.Call[model.Page[model.StudentRow]](ctx, c.gateway, http.MethodGet, studentBase+"/list", model.ListQuery(page, filter), nil)
}

func (c *StudentClient) Get(ctx context.Context, id string) (*model.Envelope[model.Student], error) {
	escaped, err := pathID("student id", id)
	if err != nil {
		return nil, err
	}
	return gateway.Call[model.Student](ctx, c.gateway, http.MethodGet, studentBase+"/detail/"+escaped, nil, nil)
}

func (c *StudentClient) Create(ctx context.Context, in model.Student) (*model.Envelope[model.Student], error) {
	return gateway.Call[model.Student](ctx, c.gateway, http.MethodPost, studentBase+"/create", nil, in)
}

func (c *StudentClient) Update(ctx context.Context, id string, in model.Student) (*model.Envelope[model.Student], error) {
	escaped, err := pathID("student id", id)
	if err != nil {
		return nil, err
	}
	in.ID = strings.TrimSpace(id)
	return gateway.Call[model.Student](ctx, c.gateway, http.MethodPut, studentBase+"/update/"+escaped, nil, in)
}

func (c *StudentClient) Delete(ctx context.Context, id string) (*model.Envelope[Empty], error) {
	escaped, err := pathID("student id", id)
	if err != nil {
		return nil, err
	}
	return gateway.Call[Empty](ctx, c.gateway, http.MethodDelete, studentBase+"/delete/"+escaped, nil, nil)
}
