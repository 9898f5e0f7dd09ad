package view

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"school-admin/internal/model"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseEmpty
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseEmpty:
		return "empty"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// PageState is the data a list screen renders.
type PageState[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
	Loading  bool
	Phase    Phase
	Message  string
}

// Fetcher loads one page. Resource clients' List methods match it directly.
type Fetcher[T any, F any] func(ctx context.Context, page model.PageRequest, filter F) (*model.Envelope[model.Page[T]], error)

type ListOptions struct {
	// PageSize defaults to model.DefaultPageSize.
	PageSize int
	// KeepPageOnFilter keeps the current page when new criteria are
	// submitted. By default a filter submission goes back to page 1.
	KeepPageOnFilter bool
}

// List drives a paged, filterable list screen:
// Idle -> Loading -> Success | Empty | Error, and back to Loading on every
// page, page size or filter change. Only the latest fetch may settle the
// state; older responses are dropped.
type List[T any, F any] struct {
	fetch    Fetcher[T, F]
	notifier Notifier
	opts     ListOptions

	mu         sync.Mutex
	state      PageState[T]
	filter     F
	generation uint64
	listeners  []func(PageState[T])
}

func NewList[T any, F any](fetch Fetcher[T, F], notifier Notifier, opts ListOptions) *List[T, F] {
	if opts.PageSize <= 0 {
		opts.PageSize = model.DefaultPageSize
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}

	l := &List[T, F]{fetch: fetch, notifier: notifier, opts: opts}
	l.state = l.initialState(model.DefaultPage, opts.PageSize)
	return l
}

func (l *List[T, F]) initialState(page int, pageSize int) PageState[T] {
	return PageState[T]{
		Items:    []T{},
		Page:     page,
		PageSize: pageSize,
		Loading:  true,
		Phase:    PhaseIdle,
	}
}

// OnChange registers fn to receive every state transition.
func (l *List[T, F]) OnChange(fn func(PageState[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

func (l *List[T, F]) State() PageState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *List[T, F]) Filter() F {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.filter
}

// Mount performs the first fetch of the screen.
func (l *List[T, F]) Mount(ctx context.Context) PageState[T] {
	return l.load(ctx)
}

func (l *List[T, F]) Refresh(ctx context.Context) PageState[T] {
	return l.load(ctx)
}

func (l *List[T, F]) SetPage(ctx context.Context, page int) (PageState[T], error) {
	if page < 1 {
		return l.State(), fmt.Errorf("%w: page must be >= 1", model.ErrInvalidInput)
	}
	l.mu.Lock()
	l.state.Page = page
	l.mu.Unlock()
	return l.load(ctx), nil
}

func (l *List[T, F]) SetPageSize(ctx context.Context, size int) (PageState[T], error) {
	if err := checkPageSize(size); err != nil {
		return l.State(), err
	}
	l.mu.Lock()
	l.state.PageSize = size
	l.mu.Unlock()
	return l.load(ctx), nil
}

// Sizes are limited to model.PageSizeOptions wherever a list is paged.
func checkPageSize(size int) error {
	if !model.IsPageSizeOption(size) {
		return fmt.Errorf("%w: page size %d is not offered", model.ErrInvalidInput, size)
	}
	return nil
}

func checkPaging(page int, size int) error {
	if page < 1 {
		return fmt.Errorf("%w: page must be >= 1", model.ErrInvalidInput)
	}
	return checkPageSize(size)
}

// Paginate applies a page and size change from a pagination control in one
// fetch.
func (l *List[T, F]) Paginate(ctx context.Context, page int, size int) (PageState[T], error) {
	if err := checkPaging(page, size); err != nil {
		return l.State(), err
	}
	l.mu.Lock()
	l.state.Page = page
	l.state.PageSize = size
	l.mu.Unlock()
	return l.load(ctx), nil
}

// Query applies page, size and criteria together, as when a screen is
// opened from a link or a command line.
func (l *List[T, F]) Query(ctx context.Context, page int, size int, filter F) (PageState[T], error) {
	if err := checkPaging(page, size); err != nil {
		return l.State(), err
	}
	l.mu.Lock()
	l.filter = filter
	l.state.Page = page
	l.state.PageSize = size
	l.mu.Unlock()
	return l.load(ctx), nil
}

func (l *List[T, F]) SubmitFilter(ctx context.Context, filter F) PageState[T] {
	l.mu.Lock()
	l.filter = filter
	if !l.opts.KeepPageOnFilter {
		l.state.Page = model.DefaultPage
	}
	l.mu.Unlock()
	return l.load(ctx)
}

// Reset is called when the screen goes away. It clears the rows and makes
// any in-flight fetch a no-op. Page, size and filter survive for a remount.
func (l *List[T, F]) Reset() {
	l.mu.Lock()
	l.generation++
	l.state = l.initialState(l.state.Page, l.state.PageSize)
	snapshot := l.snapshotLocked()
	listeners := l.listeners
	l.mu.Unlock()

	emit(listeners, snapshot)
}

// Delete runs a delete call, reports the outcome and reloads the list when
// it succeeded.
func (l *List[T, F]) Delete(ctx context.Context, del func(ctx context.Context) (*model.Envelope[json.RawMessage], error)) error {
	env, err := del(ctx)
	if failure := outcome(env, err); failure != nil {
		l.notifier.Error(TitleError, Describe(failure))
		return failure
	}

	l.notifier.Success(TitleSuccess, env.Message)
	l.load(ctx)
	return nil
}

func (l *List[T, F]) load(ctx context.Context) PageState[T] {
	l.mu.Lock()
	l.generation++
	generation := l.generation
	l.state.Loading = true
	l.state.Phase = PhaseLoading
	l.state.Message = ""
	page := model.PageRequest{Page: l.state.Page, Limit: l.state.PageSize}
	filter := l.filter
	started := l.snapshotLocked()
	listeners := l.listeners
	l.mu.Unlock()

	emit(listeners, started)

	env, err := l.fetch(ctx, page, filter)
	failure := outcome(env, err)

	l.mu.Lock()
	if generation != l.generation {
		current := l.snapshotLocked()
		l.mu.Unlock()
		return current
	}

	l.state.Loading = false
	switch {
	case failure != nil:
		l.state.Items = []T{}
		l.state.Total = 0
		l.state.Phase = PhaseError
		l.state.Message = Describe(failure)
	case len(env.Data.List) == 0:
		l.state.Items = []T{}
		l.state.Total = env.Data.Total
		l.state.Phase = PhaseEmpty
	default:
		l.state.Items = env.Data.List
		l.state.Total = env.Data.Total
		l.state.Phase = PhaseSuccess
	}
	settled := l.snapshotLocked()
	listeners = l.listeners
	l.mu.Unlock()

	if failure != nil {
		l.notifier.Error(TitleError, settled.Message)
	}
	emit(listeners, settled)

	return settled
}

func (l *List[T, F]) snapshotLocked() PageState[T] {
	out := l.state
	out.Items = make([]T, len(l.state.Items))
	copy(out.Items, l.state.Items)
	return out
}

func emit[T any](listeners []func(PageState[T]), state PageState[T]) {
	for _, fn := range listeners {
		fn(state)
	}
}
