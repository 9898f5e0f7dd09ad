package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"school-admin/internal/model"
	"school-admin/internal/service"
)

type ClassroomHandler struct {
	service *service.ClassroomService
}

func NewClassroomHandler(service *service.ClassroomService) *ClassroomHandler {
	return &ClassroomHandler{service: service}
}

func (h *ClassroomHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	filter := model.ClassroomFilter{
		ClassroomID:     q.Get("classroomId"),
		ClassName:       q.Get("className"),
		HomeroomTeacher: q.Get("homeroomTeacher"),
	}

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", result)
}

func (h *ClassroomHandler) Detail(w http.ResponseWriter, r *http.Request) {
	classroom, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", classroom)
}

func (h *ClassroomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload model.Classroom
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Classroom created", created)
}

func (h *ClassroomHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload model.Classroom
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

	writeSuccess(w, http.StatusOK, "Classroom updated", updated)
}

func (h *ClassroomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Classroom deleted", nil)
}

// Members serves /students/{id}; the id is also accepted as a query
// parameter.
func (h *ClassroomHandler) Members(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}

	result, err := h.service.Members(r.Context(), id, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", result)
}

func (h *ClassroomHandler) NonMembers(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, badRequest("id is required", "id"))
		return
	}

	result, err := h.service.NonMembers(r.Context(), id, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", result)
}

func (h *ClassroomHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	var payload model.RosterChange
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.AddMember(r.Context(), payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student added to classroom", nil)
}

func (h *ClassroomHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	err := h.service.RemoveMember(r.Context(), chi.URLParam(r, "studentId"), chi.URLParam(r, "classroomId"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Student removed from classroom", nil)
}

func (h *ClassroomHandler) MaleStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.MaleStudents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", rows)
}
