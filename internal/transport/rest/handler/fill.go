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

// FillHandler handles respondent endpoints
type FillHandler struct {
	fillSvc *service.FillService
	logger  *zap.Logger
}

// NewFillHandler creates a new fill handler
func NewFillHandler(fillSvc *service.FillService, logger *zap.Logger) *FillHandler {
	return &FillHandler{
		fillSvc: fillSvc,
		logger:  logger,
	}
}

// AnswerRequest is the request body for answering a question
type AnswerRequest struct {
	Answer model.Answer `json:"answer"`
}

// Start handles POST /v1/forms/{formId}/sessions
func (h *FillHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	session, err := h.fillSvc.Start(r.Context(), claims, mux.Vars(r)["formId"])
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, session.View())
}

// Get handles GET /v1/sessions/{sessionId}
func (h *FillHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	session, err := h.fillSvc.Get(r.Context(), claims, mux.Vars(r)["sessionId"])
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session.View())
}

// Answer handles PUT /v1/sessions/{sessionId}/answers/{ordinal}
func (h *FillHandler) Answer(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())
	ordinal, ok := ordinalVar(r, "ordinal")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ordinal")
		return
	}

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.fillSvc.Answer(r.Context(), claims, mux.Vars(r)["sessionId"], ordinal, req.Answer)
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusOK, session.View())
}

// Submit handles POST /v1/sessions/{sessionId}/submit
func (h *FillHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	submission, err := h.fillSvc.Submit(r.Context(), claims, mux.Vars(r)["sessionId"])
	if err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, submission)
}

// Abandon handles DELETE /v1/sessions/{sessionId}
func (h *FillHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r.Context())

	if err := h.fillSvc.Abandon(r.Context(), claims, mux.Vars(r)["sessionId"]); err != nil {
		respondError(w, h.logger, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
