package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"formflow/internal/model"
)

type memFormRepo struct {
	mu     sync.Mutex
	forms  map[string]*model.Form
	nextID int
}

func (r *memFormRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	form.ID = fmt.Sprintf("%024x", r.nextID)
	r.forms[form.ID] = form.Clone()
	return form.ID, nil
}

func (r *memFormRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[id]; ok && f.TenantID == tenantID {
		return f.Clone(), nil
	}
	return nil, nil
}

func (r *memFormRepo) ListByTenant(ctx context.Context, tenantID string) ([]*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Form{}
	for _, f := range r.forms {
		if f.TenantID == tenantID {
			out = append(out, f.Clone())
		}
	}
	return out, nil
}

func (r *memFormRepo) Update(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[form.ID]; !ok || f.TenantID != form.TenantID {
		return mongo.ErrNoDocuments
	}
	r.forms[form.ID] = form.Clone()
	return nil
}

func (r *memFormRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.forms[id]; !ok || f.TenantID != tenantID {
		return mongo.ErrNoDocuments
	}
	delete(r.forms, id)
	return nil
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions []*model.Submission
}

func (r *memSubmissionRepo) Create(ctx context.Context, s *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = fmt.Sprintf("sub-%d", len(r.submissions)+1)
	r.submissions = append(r.submissions, s)
	return nil
}

func (r *memSubmissionRepo) ListByForm(ctx context.Context, tenantID, formID string) ([]*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Submission{}
	for _, s := range r.submissions {
		if s.TenantID == tenantID && s.FormID == formID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memSessionCache struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func (c *memSessionCache) Create(ctx context.Context, s *model.FillSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	c.sessions[s.ID] = data
	return nil
}

func (c *memSessionCache) load(id string) (*model.FillSession, error) {
	data, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	var s model.FillSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s.Answers == nil {
		s.Answers = model.AnswerMap{}
	}
	return &s, nil
}

func (c *memSessionCache) Get(ctx context.Context, id string) (*model.FillSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(id)
}

func (c *memSessionCache) Update(ctx context.Context, id string, fn func(*model.FillSession) error) (*model.FillSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.load(id)
	if err != nil || s == nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	c.sessions[id] = data
	return s, nil
}

func (c *memSessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}
