package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"formflow/internal/engine"
	"formflow/internal/service"
)

// respondError maps service and engine errors onto HTTP statuses. Anything
// unrecognized is a storage failure and is logged.
func respondError(w http.ResponseWriter, logger *zap.Logger, r *http.Request, err error) {
	var (
		validationErr *engine.ValidationError
		answerErr     *engine.AnswerError
		publishErr    *service.PublishError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":           err.Error(),
			"missingQuestion": validationErr.MissingQuestion,
		})
	case errors.As(err, &publishErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":    err.Error(),
			"problems": publishErr.Problems,
		})
	case errors.As(err, &answerErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   err.Error(),
			"ordinal": answerErr.Ordinal,
		})
	case errors.Is(err, service.ErrInvalidForm):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFormNotFound),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotOnPath),
		errors.Is(err, service.ErrNotPublished),
		errors.Is(err, service.ErrSessionSubmitting):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func ordinalVar(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		return 0, false
	}
	return n, true
}
