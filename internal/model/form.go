package model

import "time"

// FormStatus describes the authoring lifecycle of a form
type FormStatus string

const (
	FormDraft     FormStatus = "draft"
	FormPublished FormStatus = "published"
)

// Form is an ordered questionnaire owned by a tenant. Question order is the
// default "next" edge when no branching rule fires.
type Form struct {
	ID          string     `json:"id" bson:"_id,omitempty" yaml:"id,omitempty"`
	TenantID    string     `json:"tenantId" bson:"tenantId" yaml:"tenantId,omitempty"`
	Name        string     `json:"name" bson:"name" yaml:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	Status      FormStatus `json:"status" bson:"status" yaml:"status,omitempty"`
	Version     int        `json:"version" bson:"version" yaml:"version,omitempty"` // bumped on every publish
	Questions   []Question `json:"questions" bson:"questions" yaml:"questions"`
	CreatedBy   string     `json:"createdBy,omitempty" bson:"createdBy,omitempty" yaml:"-"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt" yaml:"-"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updatedAt" yaml:"-"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" bson:"publishedAt,omitempty" yaml:"-"`
}

// Len returns the number of questions
func (f *Form) Len() int {
	return len(f.Questions)
}

// Question returns the question at ordinal, or nil when out of range
func (f *Form) Question(ordinal int) *Question {
	if ordinal < 0 || ordinal >= len(f.Questions) {
		return nil
	}
	return &f.Questions[ordinal]
}

// IsPublished reports whether respondents may fill the form
func (f *Form) IsPublished() bool {
	return f.Status == FormPublished
}

// Clone returns a deep copy. Fill sessions work on a clone so authoring edits
// never reach an in-flight session.
func (f *Form) Clone() *Form {
	out := *f
	if f.Questions != nil {
		out.Questions = make([]Question, len(f.Questions))
		for i, q := range f.Questions {
			out.Questions[i] = q.Clone()
		}
	}
	if f.PublishedAt != nil {
		t := *f.PublishedAt
		out.PublishedAt = &t
	}
	return &out
}
