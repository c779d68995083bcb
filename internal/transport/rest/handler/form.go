package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"formflow/internal/model"
	"formflow/internal/service"
	"formflow/internal/transport/rest/middleware"
)

// FormHandler handles authoring endpoints
type FormHandler struct {
	formSvc *service.FormService
	fillSvc *service.FillService
	logger  *zap.Logger
}

// NewFormHandler creates a new form handler
func NewFormHandler(formSvc *service.FormService, fillSvc *service.FillService, logger *zap.Logger) *FormHandler {
	return &FormHandler{
		formSvc: formSvc,
		fillSvc: fillSvc,
		logger:  logger,
	}
}

// AddQuestionRequest is a question plus an optional insert position
type AddQuestionRequest struct {
	model.Question
	At *int `json:"at,omitempty"`
}

// MoveQuestionRequest is the request body for reordering a question
type MoveQuestionRequest struct {
	To int `json:"to"`
}

// Create handles POST /v1/forms
func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req service.FormInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.Create(r.Context(), claims.TenantID, claims.UserID, req)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, form)
}

// List handles GET /v1/forms
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	forms, err := h.formSvc.List(r.Context(), claims.TenantID)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"forms": forms})
}

// Get handles GET /v1/forms/{formId}
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	form, err := h.formSvc.Get(r.Context(), claims.TenantID, mux.Vars(r)["formId"])
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Update handles PUT /v1/forms/{formId}
func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req service.FormInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.Update(r.Context(), claims.TenantID, mux.Vars(r)["formId"], req)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Delete handles DELETE /v1/forms/{formId}
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := h.formSvc.Delete(r.Context(), claims.TenantID, mux.Vars(r)["formId"]); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddQuestion handles POST /v1/forms/{formId}/questions
func (h *FormHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	var req AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.AddQuestion(r.Context(), claims.TenantID, mux.Vars(r)["formId"], req.Question, req.At)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// UpdateQuestion handles PUT /v1/forms/{formId}/questions/{ordinal}
func (h *FormHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	ordinal, ok := ordinalVar(r, "ordinal")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ordinal")
		return
	}

	var req service.QuestionPatch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.UpdateQuestion(r.Context(), claims.TenantID, mux.Vars(r)["formId"], ordinal, req)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// DeleteQuestion handles DELETE /v1/forms/{formId}/questions/{ordinal}
func (h *FormHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	ordinal, ok := ordinalVar(r, "ordinal")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ordinal")
		return
	}

	form, err := h.formSvc.DeleteQuestion(r.Context(), claims.TenantID, mux.Vars(r)["formId"], ordinal)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// MoveQuestion handles POST /v1/forms/{formId}/questions/{ordinal}/move
func (h *FormHandler) MoveQuestion(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	ordinal, ok := ordinalVar(r, "ordinal")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ordinal")
		return
	}

	var req MoveQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form, err := h.formSvc.MoveQuestion(r.Context(), claims.TenantID, mux.Vars(r)["formId"], ordinal, req.To)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Publish handles POST /v1/forms/{formId}/publish
func (h *FormHandler) Publish(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	form, err := h.formSvc.Publish(r.Context(), claims.TenantID, mux.Vars(r)["formId"])
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, form)
}

// Submissions handles GET /v1/forms/{formId}/submissions
func (h *FormHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	submissions, err := h.fillSvc.ListSubmissions(r.Context(), claims.TenantID, mux.Vars(r)["formId"])
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": submissions})
}
