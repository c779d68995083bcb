package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"formflow/internal/cache"
	"formflow/internal/engine"
	"formflow/internal/model"
	"formflow/internal/repository"
)

// FillService runs fill sessions: it owns the only writes to a session's
// path and answers, and hands finalized records to the submission store.
type FillService struct {
	formRepo       repository.FormRepo
	submissionRepo repository.SubmissionRepo
	sessions       cache.SessionCache
	broadcaster    Broadcaster
	logger         *zap.Logger
	now            func() time.Time
}

// NewFillService creates a new fill service
func NewFillService(
	formRepo repository.FormRepo,
	submissionRepo repository.SubmissionRepo,
	sessions cache.SessionCache,
	logger *zap.Logger,
) *FillService {
	return &FillService{
		formRepo:       formRepo,
		submissionRepo: submissionRepo,
		sessions:       sessions,
		broadcaster:    nopBroadcaster{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *FillService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a fill session on a snapshot of a published form
func (s *FillService) Start(ctx context.Context, claims *model.UserClaims, formID string) (*model.FillSession, error) {
	form, err := s.formRepo.GetByID(ctx, claims.TenantID, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	if !form.IsPublished() {
		return nil, ErrNotPublished
	}

	snapshot := form.Clone()
	engine.Repair(snapshot)

	now := s.now().UTC()
	session := &model.FillSession{
		ID:          uuid.NewString(),
		TenantID:    claims.TenantID,
		UserID:      claims.UserID,
		FormID:      form.ID,
		FormVersion: form.Version,
		Form:        snapshot,
		Progress:    engine.Start(snapshot),
		Answers:     model.AnswerMap{},
		StartedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Info("fill session started",
		zap.String("session_id", session.ID),
		zap.String("form_id", form.ID),
		zap.String("tenant_id", claims.TenantID))
	s.broadcaster.BroadcastToForm(form.ID, EventSessionStarted, map[string]interface{}{
		"sessionId": session.ID,
	})
	return session, nil
}

// Get returns the caller's session
func (s *FillService) Get(ctx context.Context, claims *model.UserClaims, sessionID string) (*model.FillSession, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if err := checkOwner(session, claims); err != nil {
		return nil, err
	}
	return session, nil
}

// Answer records the answer for ordinal and advances the visible path.
// Only questions on the current path may be answered; answering an earlier
// question again drops everything that followed it. Repeating the same
// answer is harmless. Values are trimmed before they are checked, stored or
// matched against rules.
func (s *FillService) Answer(ctx context.Context, claims *model.UserClaims, sessionID string, ordinal int, answer model.Answer) (*model.FillSession, error) {
	answer = answer.Trimmed()
	session, err := s.sessions.Update(ctx, sessionID, func(session *model.FillSession) error {
		if err := checkOwner(session, claims); err != nil {
			return err
		}
		if session.Submitting {
			return ErrSessionSubmitting
		}
		if !engine.OnPath(session.Progress, ordinal) {
			return fmt.Errorf("%w: %d", ErrNotOnPath, ordinal)
		}
		q := session.Form.Question(ordinal)
		if err := engine.CheckAnswer(q, answer); err != nil {
			return err
		}

		session.Answers[ordinal] = answer
		session.Progress = engine.Advance(session.Form, session.Progress, ordinal, answer)
		session.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	s.logger.Debug("question answered",
		zap.String("session_id", session.ID),
		zap.Int("ordinal", ordinal),
		zap.Ints("path", session.Progress.Path),
		zap.Bool("terminal", session.Progress.Terminal))
	s.broadcaster.BroadcastToForm(session.FormID, EventSessionProgress, map[string]interface{}{
		"sessionId": session.ID,
		"path":      session.Progress.Path,
		"terminal":  session.Progress.Terminal,
	})
	return session, nil
}

// Submit finalizes the session. A *engine.ValidationError names the first
// required question on the path without an answer. The session is marked
// as submitting in the same transaction that finalizes it, so no answer can
// slip in between the record and the delete. If storing the record fails,
// the session is reopened so the caller can retry.
func (s *FillService) Submit(ctx context.Context, claims *model.UserClaims, sessionID string) (*model.Submission, error) {
	var record *model.Record
	session, err := s.sessions.Update(ctx, sessionID, func(session *model.FillSession) error {
		if err := checkOwner(session, claims); err != nil {
			return err
		}
		finalized, err := engine.Finalize(session.Form, session.Progress.Path, session.Answers)
		if err != nil {
			return err
		}
		record = finalized
		session.Submitting = true
		session.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, sessionError(err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	submission := &model.Submission{
		TenantID:    session.TenantID,
		FormID:      session.FormID,
		FormVersion: session.FormVersion,
		SessionID:   session.ID,
		UserID:      session.UserID,
		Path:        append([]int{}, session.Progress.Path...),
		Answers:     record.Answers,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		s.logger.Warn("submission not stored, session kept for retry",
			zap.String("session_id", session.ID),
			zap.Error(err))
		s.reopen(ctx, session.ID)
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		// the record is stored; a leftover session only expires later
		s.logger.Warn("failed to delete submitted session",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}

	s.logger.Info("submission stored",
		zap.String("session_id", session.ID),
		zap.String("form_id", session.FormID),
		zap.Int("answers", len(submission.Answers)))
	s.broadcaster.BroadcastToForm(session.FormID, EventSubmissionReceived, submission)
	return submission, nil
}

// reopen lets answers in again after a failed submit
func (s *FillService) reopen(ctx context.Context, sessionID string) {
	_, err := s.sessions.Update(ctx, sessionID, func(session *model.FillSession) error {
		session.Submitting = false
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to reopen session",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

// Abandon discards the session; nothing was persisted, so nothing rolls back
func (s *FillService) Abandon(ctx context.Context, claims *model.UserClaims, sessionID string) error {
	session, err := s.Get(ctx, claims, sessionID)
	if err != nil {
		return err
	}
	if session.Submitting {
		return ErrSessionSubmitting
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.logger.Info("fill session abandoned", zap.String("session_id", session.ID))
	s.broadcaster.BroadcastToForm(session.FormID, EventSessionAbandoned, map[string]interface{}{
		"sessionId": session.ID,
	})
	return nil
}

// ListSubmissions returns the stored records of a form, newest first
func (s *FillService) ListSubmissions(ctx context.Context, tenantID, formID string) ([]*model.Submission, error) {
	form, err := s.formRepo.GetByID(ctx, tenantID, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return s.submissionRepo.ListByForm(ctx, tenantID, formID)
}

// sessionError passes caller-facing errors through and wraps store failures
func sessionError(err error) error {
	var (
		answerErr     *engine.AnswerError
		validationErr *engine.ValidationError
	)
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNotOnPath),
		errors.Is(err, ErrSessionSubmitting),
		errors.As(err, &answerErr),
		errors.As(err, &validationErr):
		return err
	}
	return fmt.Errorf("failed to update session: %w", err)
}

func checkOwner(session *model.FillSession, claims *model.UserClaims) error {
	if session == nil {
		return ErrSessionNotFound
	}
	if session.TenantID != claims.TenantID {
		return ErrSessionNotFound
	}
	if session.UserID != claims.UserID {
		return ErrForbidden
	}
	return nil
}
