package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"formflow/internal/engine"
	"formflow/internal/model"
	"formflow/internal/repository"
)

const opPublish = "publish"

// FormInput is the author-editable part of a form
type FormInput struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Questions   []model.Question `json:"questions"`
}

// QuestionPatch updates selected fields of one question. Nil fields are left
// unchanged.
type QuestionPatch struct {
	Text      *string             `json:"text,omitempty"`
	Type      *model.QuestionType `json:"type,omitempty"`
	Required  *bool               `json:"required,omitempty"`
	Options   *[]string           `json:"options,omitempty"`
	Branching *[]model.BranchRule `json:"branching,omitempty"`
}

// PublishError carries the structural problems that blocked publishing
type PublishError struct {
	Problems []engine.Problem
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("form has %d structural problems", len(e.Problems))
}

func (e *PublishError) Unwrap() error {
	return ErrInvalidForm
}

// FormService handles authoring: form CRUD and structural edits. Every edit
// goes through the engine's integrity routines so jump targets stay valid.
type FormService struct {
	formRepo repository.FormRepo
	logger   *zap.Logger
	now      func() time.Time
}

// NewFormService creates a new form service
func NewFormService(formRepo repository.FormRepo, logger *zap.Logger) *FormService {
	return &FormService{
		formRepo: formRepo,
		logger:   logger,
		now:      time.Now,
	}
}

// Create stores a new draft form
func (s *FormService) Create(ctx context.Context, tenantID, userID string, in FormInput) (*model.Form, error) {
	form := &model.Form{
		TenantID:    tenantID,
		CreatedBy:   userID,
		Status:      model.FormDraft,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Questions:   []model.Question{},
	}
	if err := s.replaceQuestions(form, in.Questions); err != nil {
		return nil, err
	}
	if form.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidForm)
	}

	if _, err := s.formRepo.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}
	s.logger.Info("form created",
		zap.String("form_id", form.ID),
		zap.String("tenant_id", tenantID),
		zap.Int("questions", form.Len()))
	return form, nil
}

// Get retrieves a form by ID
func (s *FormService) Get(ctx context.Context, tenantID, id string) (*model.Form, error) {
	form, err := s.formRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

// List retrieves all forms of a tenant
func (s *FormService) List(ctx context.Context, tenantID string) ([]*model.Form, error) {
	return s.formRepo.ListByTenant(ctx, tenantID)
}

// Update replaces name, description and the whole question list. Jumps in
// the new list are interpreted against the new list and repaired.
func (s *FormService) Update(ctx context.Context, tenantID, id string, in FormInput) (*model.Form, error) {
	return s.edit(ctx, tenantID, id, "update", func(form *model.Form) error {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return fmt.Errorf("%w: name is required", ErrInvalidForm)
		}
		form.Name = name
		form.Description = strings.TrimSpace(in.Description)
		return s.replaceQuestions(form, in.Questions)
	})
}

// Delete removes a form. Running fill sessions keep their snapshot.
func (s *FormService) Delete(ctx context.Context, tenantID, id string) error {
	err := s.formRepo.Delete(ctx, tenantID, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrFormNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}
	s.logger.Info("form deleted", zap.String("form_id", id), zap.String("tenant_id", tenantID))
	return nil
}

// AddQuestion appends q, or inserts it at *at when given
func (s *FormService) AddQuestion(ctx context.Context, tenantID, formID string, q model.Question, at *int) (*model.Form, error) {
	return s.edit(ctx, tenantID, formID, "add_question", func(form *model.Form) error {
		if err := normalizeQuestion(&q); err != nil {
			return err
		}
		q.ID = ""
		if at == nil {
			engine.AppendQuestion(form, q)
			return nil
		}
		return engine.InsertQuestion(form, *at, q)
	})
}

// UpdateQuestion applies patch to the question at ordinal. Changing the
// options of a choice question prunes that question's rules for removed
// options.
func (s *FormService) UpdateQuestion(ctx context.Context, tenantID, formID string, ordinal int, patch QuestionPatch) (*model.Form, error) {
	return s.edit(ctx, tenantID, formID, "update_question", func(form *model.Form) error {
		q := form.Question(ordinal)
		if q == nil {
			return &engine.EditError{Op: "update", Ordinal: ordinal, Len: form.Len()}
		}
		updated := q.Clone()
		if patch.Text != nil {
			updated.Text = *patch.Text
		}
		if patch.Type != nil {
			updated.Type = *patch.Type
		}
		if patch.Required != nil {
			updated.Required = *patch.Required
		}
		if patch.Branching != nil {
			updated.Branching = append([]model.BranchRule(nil), (*patch.Branching)...)
		}
		if err := normalizeQuestion(&updated); err != nil {
			return err
		}
		form.Questions[ordinal] = updated

		if patch.Options != nil && updated.Type.IsChoice() {
			return engine.SetOptions(form, ordinal, cleanOptions(*patch.Options))
		}
		return nil
	})
}

// DeleteQuestion removes the question at ordinal; jumps to it end the form
func (s *FormService) DeleteQuestion(ctx context.Context, tenantID, formID string, ordinal int) (*model.Form, error) {
	return s.edit(ctx, tenantID, formID, "delete_question", func(form *model.Form) error {
		return engine.DeleteQuestion(form, ordinal)
	})
}

// MoveQuestion reorders a question; jumps follow the questions they name
func (s *FormService) MoveQuestion(ctx context.Context, tenantID, formID string, from, to int) (*model.Form, error) {
	return s.edit(ctx, tenantID, formID, "move_question", func(form *model.Form) error {
		return engine.MoveQuestion(form, from, to)
	})
}

// Publish makes the form fillable. Forms without questions or with
// structural errors are rejected with a *PublishError.
func (s *FormService) Publish(ctx context.Context, tenantID, formID string) (*model.Form, error) {
	return s.edit(ctx, tenantID, formID, opPublish, func(form *model.Form) error {
		problems := engine.Check(form)
		if form.Len() == 0 {
			problems = append(problems, engine.Problem{Ordinal: -1, Rule: -1, Severity: engine.SeverityError, Message: "form has no questions"})
		}
		if engine.HasErrors(problems) {
			return &PublishError{Problems: problems}
		}
		s.bumpVersion(form)
		return nil
	})
}

// bumpVersion publishes the current question list under a new version
func (s *FormService) bumpVersion(form *model.Form) {
	now := s.now().UTC()
	form.Status = model.FormPublished
	form.Version++
	form.PublishedAt = &now
}

// edit loads a form, applies fn, repairs the structure and saves it. Editing
// a published form publishes the result as a new version, so submissions
// keyed by ordinal stay attributable to the question list they answered.
func (s *FormService) edit(ctx context.Context, tenantID, formID, op string, fn func(*model.Form) error) (*model.Form, error) {
	form, err := s.Get(ctx, tenantID, formID)
	if err != nil {
		return nil, err
	}
	republish := form.IsPublished() && op != opPublish

	if err := fn(form); err != nil {
		var editErr *engine.EditError
		if errors.As(err, &editErr) {
			return nil, fmt.Errorf("%w: %v", ErrQuestionNotFound, editErr)
		}
		return nil, err
	}
	engine.Repair(form)
	assignQuestionIDs(form)
	if republish {
		s.bumpVersion(form)
	}

	if err := s.formRepo.Update(ctx, form); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to save form: %w", err)
	}
	s.logger.Info("form edited",
		zap.String("op", op),
		zap.String("form_id", form.ID),
		zap.String("tenant_id", tenantID),
		zap.Int("questions", form.Len()),
		zap.Int("version", form.Version))
	return form, nil
}

func (s *FormService) replaceQuestions(form *model.Form, questions []model.Question) error {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		q = q.Clone()
		if err := normalizeQuestion(&q); err != nil {
			return err
		}
		out = append(out, q)
	}
	form.Questions = out
	engine.Repair(form)
	assignQuestionIDs(form)
	return nil
}

func normalizeQuestion(q *model.Question) error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return fmt.Errorf("%w: question text is required", ErrInvalidForm)
	}
	if !q.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidForm, q.Type)
	}
	if !q.Type.IsChoice() {
		q.Options = nil
		return nil
	}
	q.Options = cleanOptions(q.Options)
	return nil
}

func cleanOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, o := range options {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func assignQuestionIDs(form *model.Form) {
	for i := range form.Questions {
		if form.Questions[i].ID == "" {
			form.Questions[i].ID = uuid.NewString()
		}
	}
}
