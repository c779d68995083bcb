package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

func TestSessionEncoding_RoundTrip(t *testing.T) {
	session := &model.FillSession{
		ID:     "s1",
		FormID: "f1",
		Form: &model.Form{Questions: []model.Question{{
			Ordinal:   0,
			Type:      model.QuestionTypeMultiChoice,
			Options:   []string{"A", "B"},
			Branching: []model.BranchRule{{When: "A", Goto: model.JumpEnd}},
		}}},
		Progress:  model.Progress{Path: []int{0}, Terminal: true},
		Answers:   model.AnswerMap{0: model.Selection("A")},
		StartedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(session)
	require.NoError(t, err)

	decoded, err := decodeSession(data)
	require.NoError(t, err)
	assert.Equal(t, session, decoded)
}

func TestDecodeSession_NilAnswers(t *testing.T) {
	decoded, err := decodeSession([]byte(`{"id":"s1","progress":{"path":[0],"terminal":false}}`))
	require.NoError(t, err)
	assert.NotNil(t, decoded.Answers)

	_, err = decodeSession([]byte(`{`))
	assert.Error(t, err)
}

func TestSessionCache_Key(t *testing.T) {
	c := &sessionCache{}
	assert.Equal(t, "fill:abc", c.key("abc"))
}
