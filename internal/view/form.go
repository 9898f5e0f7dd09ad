package view

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"school-admin/internal/model"
)

// FormAPI is the subset of a resource client a form needs.
type FormAPI[T any] struct {
	Get    func(ctx context.Context, id string) (*model.Envelope[T], error)
	Create func(ctx context.Context, in T) (*model.Envelope[T], error)
	Update func(ctx context.Context, id string, in T) (*model.Envelope[T], error)
}

// Form holds the fields of a create, edit or detail screen. The record id
// decides whether Submit creates or updates.
type Form[T any] struct {
	api      FormAPI[T]
	notifier Notifier

	mu         sync.Mutex
	id         string
	fields     T
	loading    bool
	submitting bool
}

func NewForm[T any](api FormAPI[T], notifier Notifier) *Form[T] {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Form[T]{api: api, notifier: notifier}
}

func (f *Form[T]) ID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *Form[T]) Editing() bool {
	return f.ID() != ""
}

func (f *Form[T]) Fields() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form[T]) SetFields(fields T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

func (f *Form[T]) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading || f.submitting
}

// Load fetches the record for an edit or detail screen and fills the
// fields with it.
func (f *Form[T]) Load(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		err := fmt.Errorf("%w: id is required", model.ErrInvalidInput)
		f.notifier.Error(TitleError, Describe(err))
		return err
	}

	f.mu.Lock()
	f.loading = true
	f.mu.Unlock()

	env, err := f.api.Get(ctx, id)
	failure := outcome(env, err)

	f.mu.Lock()
	f.loading = false
	if failure == nil {
		f.id = id
		f.fields = env.Data
	}
	f.mu.Unlock()

	if failure != nil {
		f.notifier.Error(TitleError, Describe(failure))
		return failure
	}
	return nil
}

// Submit creates the record when the form has no id and updates it
// otherwise. Entered fields are kept whatever the outcome.
func (f *Form[T]) Submit(ctx context.Context) (*model.Envelope[T], error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil, fmt.Errorf("%w: submit already in progress", model.ErrInvalidInput)
	}
	f.submitting = true
	id := f.id
	fields := f.fields
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	var (
		env *model.Envelope[T]
		err error
	)
	if id == "" {
		env, err = f.api.Create(ctx, fields)
	} else {
		env, err = f.api.Update(ctx, id, fields)
	}

	if failure := outcome(env, err); failure != nil {
		f.notifier.Error(TitleError, Describe(failure))
		return env, failure
	}

	f.notifier.Success(TitleSuccess, env.Message)
	return env, nil
}
