package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/inkwell/internal/leads"
)

// FormHandler holds the lead form route handlers.
type FormHandler struct {
	svc *leads.Service
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(svc *leads.Service) *FormHandler {
	return &FormHandler{svc: svc}
}

// Describe handles GET /api/forms/{form}.
func (h *FormHandler) Describe(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")
	required, ok := h.svc.Validator().Required(form)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("unknown form"))
		return
	}
	writeJSON(w, http.StatusOK, FormResponse{
		Form:                    form,
		Required:                required,
		AutoSaveIntervalSeconds: int(h.svc.AutoSaveInterval() / time.Second),
	})
}

// GetDraft handles GET /api/forms/{form}/draft.
func (h *FormHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")
	draft, ok, err := h.svc.Store().LoadDraft(r.Context(), form)
	if err != nil {
		writeError(w, "load draft", err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("no saved draft"))
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// SaveDraft handles PUT /api/forms/{form}/draft.
func (h *FormHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")
	if !h.svc.Validator().Known(form) {
		writeJSON(w, http.StatusNotFound, errorBody("unknown form"))
		return
	}
	var req DraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Store().SaveDraft(r.Context(), form, req.Fields); err != nil {
		writeError(w, "save draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearDraft handles DELETE /api/forms/{form}/draft.
func (h *FormHandler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Store().ClearDraft(r.Context(), chi.URLParam(r, "form")); err != nil {
		writeError(w, "clear draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Submit handles POST /api/forms/{form}/submit. An invalid submission is
// still a 200; the body says which required fields were blank.
func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")
	var req DraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.svc.Submit(r.Context(), form, req.Fields, nil)
	if err != nil {
		writeError(w, "submit form", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
