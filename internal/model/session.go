package model

import "time"

// Progress is the respondent's current route through a form. Path holds the
// visited ordinals in order; Terminal is set once the form has ended.
type Progress struct {
	Path     []int `json:"path"`
	Terminal bool  `json:"terminal"`
}

// Current returns the trailing ordinal of the path, or -1 when empty
func (p Progress) Current() int {
	if len(p.Path) == 0 {
		return -1
	}
	return p.Path[len(p.Path)-1]
}

// Clone returns a copy that shares no memory with p
func (p Progress) Clone() Progress {
	return Progress{Path: append([]int{}, p.Path...), Terminal: p.Terminal}
}

// FillSession is the private, single-writer state of one respondent filling a
// form. It lives in Redis and is discarded on submit or abandon.
type FillSession struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	UserID      string    `json:"userId"`
	FormID      string    `json:"formId"`
	FormVersion int       `json:"formVersion"`
	Form        *Form     `json:"form"` // snapshot taken at start
	Progress    Progress  `json:"progress"`
	Answers     AnswerMap `json:"answers"`
	Submitting  bool      `json:"submitting,omitempty"` // answers are frozen while the record is stored
	StartedAt   time.Time `json:"startedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SessionView is what the respondent sees after every answer event
type SessionView struct {
	SessionID string    `json:"sessionId"`
	FormID    string    `json:"formId"`
	Path      []int     `json:"path"`
	Terminal  bool      `json:"terminal"`
	Current   *Question `json:"current,omitempty"`
	Answers   AnswerMap `json:"answers"`
}

// View renders the session for the presentation layer
func (s *FillSession) View() *SessionView {
	v := &SessionView{
		SessionID: s.ID,
		FormID:    s.FormID,
		Path:      s.Progress.Path,
		Terminal:  s.Progress.Terminal,
		Answers:   s.Answers,
	}
	if v.Path == nil {
		v.Path = []int{}
	}
	if !s.Progress.Terminal && s.Form != nil {
		v.Current = s.Form.Question(s.Progress.Current())
	}
	return v
}
