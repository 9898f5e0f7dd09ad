package model

import (
	"fmt"
	"slices"
	"strings"

	"school-admin/pkg/querystring"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 5
	MaxPageSize     = 100
)

// PageSizeOptions are the page sizes offered by list screens.
var PageSizeOptions = []int{5, 10, 15, 20, 25, 30}

func IsPageSizeOption(size int) bool {
	return slices.Contains(PageSizeOptions, size)
}

// PageRequest is the pagination cursor sent with every list call.
type PageRequest struct {
	Page  int
	Limit int
}

func FirstPage(limit int) PageRequest {
	return PageRequest{Page: DefaultPage, Limit: limit}
}

func (p PageRequest) Validate() error {
	if p.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", ErrInvalidInput)
	}
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxPageSize)
	}
	return nil
}

func (p PageRequest) Params() *querystring.Params {
	return querystring.Of("page", p.Page, "limit", p.Limit)
}

// Filter is implemented by every list search form.
type Filter interface {
	Params() *querystring.Params
}

// NoFilter is used by lists without search criteria.
type NoFilter struct{}

func (NoFilter) Params() *querystring.Params { return querystring.New() }

func (f ClassroomFilter) Params() *querystring.Params {
	return querystring.Of(
		"classroomId", optional(f.ClassroomID),
		"className", optional(f.ClassName),
		"homeroomTeacher", optional(f.HomeroomTeacher),
	)
}

func (f StudentFilter) Params() *querystring.Params {
	grade := any(querystring.Undefined)
	if f.GradeLevel > 0 {
		grade = f.GradeLevel
	}
	return querystring.Of(
		"studentId", optional(f.StudentID),
		"fullname", optional(f.Fullname),
		"gradeLevel", grade,
	)
}

// optional maps blank form input to an omitted parameter.
func optional(v string) any {
	v = strings.TrimSpace(v)
	if v == "" {
		return querystring.Undefined
	}
	return v
}

// ListQuery merges a cursor and filter criteria the way list screens do:
// page and limit first, criteria after.
func ListQuery(page PageRequest, filter Filter) *querystring.Params {
	params := page.Params()
	if filter != nil {
		params.Merge(filter.Params())
	}
	return params
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
