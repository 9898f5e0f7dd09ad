// Package view holds the screen-level state machines that presentation
// layers bind to: paged lists, create/edit forms and classroom rosters.
package view

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"school-admin/internal/gateway"
	"school-admin/internal/model"
)

const (
	TitleError   = "Error"
	TitleSuccess = "Success"
)

// Notifier shows user-facing messages. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Success(title string, message string)
	Error(title string, message string)
}

// LogNotifier writes notifications to a slog logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Logger == nil {
		return slog.Default()
	}
	return n.Logger
}

func (n LogNotifier) Success(title string, message string) {
	n.logger().Info(message, "title", title)
}

func (n LogNotifier) Error(title string, message string) {
	n.logger().Error(message, "title", title)
}

type NoteKind string

const (
	NoteSuccess NoteKind = "success"
	NoteError   NoteKind = "error"
)

type Note struct {
	Kind    NoteKind
	Title   string
	Message string
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	notes []Note
}

func (r *Recorder) Success(title string, message string) {
	r.add(Note{Kind: NoteSuccess, Title: title, Message: message})
}

func (r *Recorder) Error(title string, message string) {
	r.add(Note{Kind: NoteError, Title: title, Message: message})
}

func (r *Recorder) add(n Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *Recorder) Notes() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Note, len(r.notes))
	copy(out, r.notes)
	return out
}

func (r *Recorder) Last() (Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Note{}, false
	}
	return r.notes[len(r.notes)-1], true
}

// Describe turns any failure of a client call into the message shown to the
// user. Business messages pass through verbatim.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var bizErr *model.BusinessError
	if errors.As(err, &bizErr) {
		return bizErr.Error()
	}

	var statusErr *gateway.StatusError
	if errors.As(err, &statusErr) {
		if msg := statusErr.Message(); msg != "" {
			return msg
		}
		return fmt.Sprintf("server responded %d %s", statusErr.StatusCode, http.StatusText(statusErr.StatusCode))
	}

	var transportErr *gateway.TransportError
	if errors.As(err, &transportErr) {
		return fmt.Sprintf("cannot reach the server: %v", transportErr.Err)
	}

	var decodeErr *gateway.DecodeError
	if errors.As(err, &decodeErr) {
		return "the server sent an unreadable response"
	}

	return err.Error()
}

// outcome folds the three failure kinds of a client call into one error.
func outcome[T any](env *model.Envelope[T], err error) error {
	if err != nil {
		return err
	}
	if env == nil {
		return errors.New("empty response")
	}
	return env.Err()
}
