package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

func TestFinalize_SparseRecord(t *testing.T) {
	form := linearForm(4)
	form.Questions[0].Required = true

	answers := model.AnswerMap{
		0: model.Text("first"),
		1: model.Text(""),
		2: model.Text("off path"),
		3: model.Text("last"),
	}

	record, err := Finalize(form, []int{0, 1, 3}, answers)
	require.NoError(t, err)
	assert.Equal(t, model.AnswerMap{0: model.Text("first"), 3: model.Text("last")}, record.Answers)
}

func TestFinalize_MissingRequired(t *testing.T) {
	testCases := []struct {
		name    string
		answers model.AnswerMap
	}{
		{"absent", model.AnswerMap{0: model.Text("x")}},
		{"empty string", model.AnswerMap{0: model.Text("x"), 2: model.Text("")}},
		{"whitespace", model.AnswerMap{0: model.Text("x"), 2: model.Text("   ")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := linearForm(3)
			form.Questions[2].Required = true

			_, err := Finalize(form, []int{0, 2}, tc.answers)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, 2, verr.MissingQuestion)
			assert.Contains(t, err.Error(), "question 2")
		})
	}
}

func TestFinalize_EmptySetIsMissing(t *testing.T) {
	form := &model.Form{Questions: []model.Question{{
		Ordinal:  0,
		Type:     model.QuestionTypeMultiChoice,
		Options:  []string{"a"},
		Required: true,
	}}}

	_, err := Finalize(form, []int{0}, model.AnswerMap{0: model.Selection()})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, verr.MissingQuestion)

	record, err := Finalize(form, []int{0}, model.AnswerMap{0: model.Selection("a")})
	require.NoError(t, err)
	assert.Equal(t, model.Selection("a"), record.Answers[0])
}

func TestFinalize_RequiredOffPathIgnored(t *testing.T) {
	form := scenarioForm()
	record, err := Finalize(form, []int{0}, model.AnswerMap{0: model.Text("A")})
	require.NoError(t, err)
	assert.Len(t, record.Answers, 1)
}

func TestFinalize_ReportsFirstMissingInPathOrder(t *testing.T) {
	form := linearForm(4)
	for i := range form.Questions {
		form.Questions[i].Required = true
	}
	_, err := Finalize(form, []int{0, 3, 1}, model.AnswerMap{0: model.Text("x")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, verr.MissingQuestion)
}
