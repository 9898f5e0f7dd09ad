package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"school-admin/internal/model"
	"school-admin/internal/service"
)

type StudentHandler struct {
	service *service.StudentService
}

func NewStudentHandler(service *service.StudentService) *StudentHandler {
	return &StudentHandler{service: service}
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	filter := model.StudentFilter{
		StudentID: q.Get("studentId"),
		Fullname:  q.Get("fullname"),
	}
	if raw := strings.TrimSpace(q.Get("gradeLevel")); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, badRequest("gradeLevel must be a number", raw))
			return
		}
		filter.GradeLevel = level
	}

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", result)
}

func (h *StudentHandler) Detail(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", student)
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.Student
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Student created", created)
}

func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.Student
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if body := strings.TrimSpace(payload.ID); body != "" && body != strings.TrimSpace(id) {
		writeError(w, badRequest("body id does not match the path", body))
		return
	}

	updated, err := h.service.Update(r.Context(), id, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student updated", updated)
}

func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student deleted", nil)
}
