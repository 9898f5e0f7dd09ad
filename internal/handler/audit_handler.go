package handler

import (
	"net/http"

	"school-admin/internal/model"
	"school-admin/internal/service"
)

type AuditHandler struct {
	service *service.AuditService
}

func NewAuditHandler(service *service.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	filter := model.AuditFilter{
		Action:   q.Get("action"),
		Actor:    q.Get("actor"),
		Resource: q.Get("resource"),
	}

	result, err := h.service.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "", result)
}
