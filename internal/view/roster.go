package view

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"school-admin/internal/model"
)

// RosterAPI is implemented by *client.ClassroomClient.
type RosterAPI interface {
	ListMembers(ctx context.Context, classroomID string, page model.PageRequest) (*model.Envelope[model.Page[model.StudentRow]], error)
	ListNonMembers(ctx context.Context, classroomID string, page model.PageRequest) (*model.Envelope[model.Page[model.StudentRow]], error)
	AddMember(ctx context.Context, studentID string, classroomID string) (*model.Envelope[json.RawMessage], error)
	RemoveMember(ctx context.Context, studentID string, classroomID string) (*model.Envelope[json.RawMessage], error)
}

// Roster manages the membership screen of one classroom: the enrolled
// students, the students that can be added, and moves between the two.
type Roster struct {
	classroomID string
	api         RosterAPI
	notifier    Notifier

	Members    *List[model.StudentRow, model.NoFilter]
	NonMembers *List[model.StudentRow, model.NoFilter]
}

func NewRoster(api RosterAPI, classroomID string, notifier Notifier, opts ListOptions) (*Roster, error) {
	classroomID = strings.TrimSpace(classroomID)
	if classroomID == "" {
		return nil, fmt.Errorf("%w: classroom id is required", model.ErrInvalidInput)
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}

	r := &Roster{classroomID: classroomID, api: api, notifier: notifier}
	r.Members = NewList(func(ctx context.Context, page model.PageRequest, _ model.NoFilter) (*model.Envelope[model.Page[model.StudentRow]], error) {
		return api.ListMembers(ctx, classroomID, page)
	}, notifier, opts)
	r.NonMembers = NewList(func(ctx context.Context, page model.PageRequest, _ model.NoFilter) (*model.Envelope[model.Page[model.StudentRow]], error) {
		return api.ListNonMembers(ctx, classroomID, page)
	}, notifier, opts)

	return r, nil
}

func (r *Roster) ClassroomID() string {
	return r.classroomID
}

func (r *Roster) Mount(ctx context.Context) {
	r.Members.Mount(ctx)
	r.NonMembers.Mount(ctx)
}

func (r *Roster) Reset() {
	r.Members.Reset()
	r.NonMembers.Reset()
}

func (r *Roster) Add(ctx context.Context, studentID string) error {
	return r.change(ctx, func(ctx context.Context) (*model.Envelope[json.RawMessage], error) {
		return r.api.AddMember(ctx, studentID, r.classroomID)
	})
}

func (r *Roster) Remove(ctx context.Context, studentID string) error {
	return r.change(ctx, func(ctx context.Context) (*model.Envelope[json.RawMessage], error) {
		return r.api.RemoveMember(ctx, studentID, r.classroomID)
	})
}

func (r *Roster) change(ctx context.Context, do func(ctx context.Context) (*model.Envelope[json.RawMessage], error)) error {
	env, err := do(ctx)
	if failure := outcome(env, err); failure != nil {
		r.notifier.Error(TitleError, Describe(failure))
		return failure
	}

	r.notifier.Success(TitleSuccess, env.Message)
	r.Members.Refresh(ctx)
	r.NonMembers.Refresh(ctx)
	return nil
}
