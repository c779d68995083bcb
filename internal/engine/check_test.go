package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

func TestCheck_CleanForm(t *testing.T) {
	assert.Empty(t, Check(scenarioForm()))
}

func TestCheck_Findings(t *testing.T) {
	form := &model.Form{Questions: []model.Question{
		{
			Ordinal: 0,
			Type:    model.QuestionTypeSingleChoice,
			Options: []string{"A"},
			Branching: []model.BranchRule{
				{When: "A", Goto: model.To(4)},
				{When: "Z", Goto: model.JumpEnd},
			},
		},
		{Ordinal: 1, Type: model.QuestionTypeMultiChoice},
		{Ordinal: 5, Type: "slider", Branching: []model.BranchRule{{When: "x", Goto: model.To(2)}}},
	}}

	problems := Check(form)
	require.True(t, HasErrors(problems))

	var got []string
	for _, p := range problems {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{
		"error: question 0 rule 0: jump to 4 does not name a question",
		"warning: question 0 rule 1: when \"Z\" is not an option and can never match",
		"error: question 1: choice question has no options",
		"error: question 2: ordinal 5 does not match position",
		"error: question 2: unknown type \"slider\"",
		"warning: question 2 rule 0: jumps to itself",
	}, got)
}

func TestHasErrors_WarningsOnly(t *testing.T) {
	assert.False(t, HasErrors([]Problem{{Severity: SeverityWarning}}))
	assert.False(t, HasErrors(nil))
}
