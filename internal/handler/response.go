package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"school-admin/internal/model"
	"school-admin/pkg/apierror"
)

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.OK(message, data))
}

// writeError maps service errors onto the envelope contract: rejected
// requests are 200 with status=false, missing records 404, auth failures
// 401 and everything unclassified 500.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, model.ErrClassroomNotFound):
		apiErr = apierror.New("NOT_FOUND", "Classroom not found", detail(err), http.StatusNotFound)
	case errors.Is(err, model.ErrStudentNotFound):
		apiErr = apierror.New("NOT_FOUND", "Student not found", detail(err), http.StatusNotFound)
	case errors.Is(err, model.ErrUserNotFound):
		apiErr = apierror.New("NOT_FOUND", "User not found", "", http.StatusNotFound)
	case errors.Is(err, model.ErrInvalidCredentials):
		apiErr = apierror.New("UNAUTHORIZED", "Invalid username or password", "", http.StatusUnauthorized)
	case errors.Is(err, model.ErrUnauthorized):
		apiErr = apierror.New("UNAUTHORIZED", "Authentication required", "", http.StatusUnauthorized)
	case errors.Is(err, model.ErrClassroomExists):
		apiErr = apierror.Business("ALREADY_EXISTS", "Classroom id is already in use", detail(err))
	case errors.Is(err, model.ErrStudentExists):
		apiErr = apierror.Business("ALREADY_EXISTS", "Student id is already in use", detail(err))
	case errors.Is(err, model.ErrClassroomNotEmpty):
		apiErr = apierror.Business("CONFLICT", "Classroom still has students", detail(err))
	case errors.Is(err, model.ErrAlreadyMember):
		apiErr = apierror.Business("CONFLICT", "Student is already in this classroom", detail(err))
	case errors.Is(err, model.ErrNotMember):
		apiErr = apierror.Business("CONFLICT", "Student is not in this classroom", detail(err))
	case errors.Is(err, model.ErrInvalidInput):
		apiErr = apierror.Business("INVALID_INPUT", detail(err), "")
	default:
		// Log unclassified errors so they are visible in container logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
		apiErr = apierror.New("INTERNAL_ERROR", "Unexpected server error", "", http.StatusInternalServerError)
	}

	apierror.Write(w, apiErr)
}

// detail is the part of a wrapped sentinel error after "sentinel: ".
func detail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}

func badRequest(message string, details string) *apierror.APIError {
	return apierror.New("BAD_REQUEST", message, details, http.StatusBadRequest)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body", err.Error())
	}
	return nil
}

// pageFromQuery reads page and limit, defaulting to the first page of
// model.DefaultPageSize rows.
func pageFromQuery(r *http.Request) (model.PageRequest, error) {
	page := model.FirstPage(model.DefaultPageSize)

	q := r.URL.Query()
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return page, badRequest("page must be a number", raw)
		}
		page.Page = v
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return page, badRequest("limit must be a number", raw)
		}
		page.Limit = v
	}
	return page, nil
}
