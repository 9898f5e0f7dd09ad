// Package client exposes the school API resources as typed operation sets.
// Input validation is limited to request shape (identifiers, paging); the
// API owns business rules and reports them through the envelope.
package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"school-admin/internal/gateway"
	"school-admin/internal/model"
)

// Empty is the data type of endpoints that return no payload.
type Empty = json.RawMessage

type Client struct {
	Classrooms *ClassroomClient
	Students   *StudentClient
	Auth       *AuthClient
	Audit      *AuditClient
}

func New(g *gateway.Gateway) *Client {
	return &Client{
		Classrooms: NewClassroomClient(g),
		Students:   NewStudentClient(g),
		Auth:       NewAuthClient(g),
		Audit:      NewAuditClient(g),
	}
}

func pathID(name string, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("%w: %s is required", model.ErrInvalidInput, name)
	}
	return url.PathEscape(id), nil
}
