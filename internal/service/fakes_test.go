package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"formflow/internal/model"
)

type fakeFormRepo struct {
	mu     sync.Mutex
	forms  map[string]*model.Form
	nextID int
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: make(map[string]*model.Form)}
}

func (r *fakeFormRepo) Create(ctx context.Context, form *model.Form) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	form.ID = fmt.Sprintf("%024x", r.nextID)
	r.forms[form.ID] = form.Clone()
	return form.ID, nil
}

func (r *fakeFormRepo) GetByID(ctx context.Context, tenantID, id string) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	form, ok := r.forms[id]
	if !ok || form.TenantID != tenantID {
		return nil, nil
	}
	return form.Clone(), nil
}

func (r *fakeFormRepo) ListByTenant(ctx context.Context, tenantID string) ([]*model.Form, error) {
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

func (r *fakeFormRepo) Update(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.forms[form.ID]
	if !ok || existing.TenantID != form.TenantID {
		return mongo.ErrNoDocuments
	}
	r.forms[form.ID] = form.Clone()
	return nil
}

func (r *fakeFormRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.forms[id]
	if !ok || existing.TenantID != tenantID {
		return mongo.ErrNoDocuments
	}
	delete(r.forms, id)
	return nil
}

type fakeSubmissionRepo struct {
	mu          sync.Mutex
	submissions []*model.Submission
	failWith    error
	onCreate    func() // runs before the record is stored
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *model.Submission) error {
	if r.onCreate != nil {
		r.onCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	submission.ID = fmt.Sprintf("sub-%d", len(r.submissions)+1)
	r.submissions = append(r.submissions, submission)
	return nil
}

func (r *fakeSubmissionRepo) ListByForm(ctx context.Context, tenantID, formID string) ([]*model.Submission, error) {
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

// fakeSessionCache stores JSON like the Redis cache does, so sessions pass
// through the same encoding.
type fakeSessionCache struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

func newFakeSessionCache() *fakeSessionCache {
	return &fakeSessionCache{sessions: make(map[string][]byte)}
}

func (c *fakeSessionCache) Create(ctx context.Context, session *model.FillSession) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.sessions[session.ID]; ok {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	c.sessions[session.ID] = data
	return nil
}

func (c *fakeSessionCache) get(id string) (*model.FillSession, error) {
	data, ok := c.sessions[id]
	if !ok {
		return nil, nil
	}
	var session model.FillSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	if session.Answers == nil {
		session.Answers = model.AnswerMap{}
	}
	return &session, nil
}

func (c *fakeSessionCache) Get(ctx context.Context, id string) (*model.FillSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(id)
}

func (c *fakeSessionCache) Update(ctx context.Context, id string, fn func(*model.FillSession) error) (*model.FillSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	session, err := c.get(id)
	if err != nil || session == nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	c.sessions[id] = data
	return session, nil
}

func (c *fakeSessionCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, id)
	return nil
}

func (c *fakeSessionCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

type broadcastEvent struct {
	formID  string
	msgType string
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (b *recordingBroadcaster) BroadcastToForm(formID string, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastEvent{formID: formID, msgType: msgType})
}

func (b *recordingBroadcaster) types() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for _, e := range b.events {
		out = append(out, e.msgType)
	}
	return out
}
