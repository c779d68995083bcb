package model

import "time"

// Record is the outgoing payload of a finalized session: only answers for
// questions on the visible path, and only non-empty ones.
type Record struct {
	Answers AnswerMap `json:"answers" bson:"answers"`
}

// Submission is a persisted Record
type Submission struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	TenantID    string    `json:"tenantId" bson:"tenantId"`
	FormID      string    `json:"formId" bson:"formId"`
	FormVersion int       `json:"formVersion" bson:"formVersion"`
	SessionID   string    `json:"sessionId" bson:"sessionId"`
	UserID      string    `json:"userId" bson:"userId"`
	Path        []int     `json:"path" bson:"path"`
	Answers     AnswerMap `json:"answers" bson:"answers"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}
