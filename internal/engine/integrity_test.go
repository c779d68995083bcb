package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formflow/internal/model"
)

func gotos(form *model.Form) [][]model.Jump {
	out := make([][]model.Jump, form.Len())
	for i, q := range form.Questions {
		for _, r := range q.Branching {
			out[i] = append(out[i], r.Goto)
		}
	}
	return out
}

func texts(form *model.Form) []string {
	out := make([]string, form.Len())
	for i, q := range form.Questions {
		out[i] = q.Text
	}
	return out
}

func labelledForm(labels ...string) *model.Form {
	form := &model.Form{}
	for i, l := range labels {
		form.Questions = append(form.Questions, model.Question{Ordinal: i, Text: l, Type: model.QuestionTypeShortText})
	}
	return form
}

func TestDeleteQuestion_ShiftsLaterTargets(t *testing.T) {
	form := labelledForm("q0", "q1", "q2")
	form.Questions[0].Branching = []model.BranchRule{{When: "go", Goto: model.To(2)}}

	require.NoError(t, DeleteQuestion(form, 1))

	assert.Equal(t, []string{"q0", "q2"}, texts(form))
	assert.Equal(t, model.To(1), form.Questions[0].Branching[0].Goto)
	assert.Equal(t, 1, form.Questions[1].Ordinal)

	// the rewritten rule still resolves to the same question
	target := Evaluate(&form.Questions[0], model.Text("go"))
	assert.Equal(t, Target{Kind: Question, Ordinal: 1}, target)
	assert.Equal(t, "q2", form.Questions[target.Ordinal].Text)
}

func TestDeleteQuestion_DanglingTargetBecomesEnd(t *testing.T) {
	form := labelledForm("q0", "q1", "q2", "q3")
	form.Questions[0].Branching = []model.BranchRule{
		{When: "a", Goto: model.To(2)},
		{When: "b", Goto: model.To(1)},
		{When: "c", Goto: model.To(3)},
		{When: "d", Goto: model.JumpEnd},
	}
	form.Questions[3].Branching = []model.BranchRule{{When: "back", Goto: model.To(2)}}

	require.NoError(t, DeleteQuestion(form, 2))

	want := [][]model.Jump{
		{model.JumpEnd, model.To(1), model.To(2), model.JumpEnd},
		nil,
		{model.JumpEnd},
	}
	if diff := cmp.Diff(want, gotos(form)); diff != "" {
		t.Errorf("gotos mismatch (-want +got):\n%s", diff)
	}

	// navigating through the dangling rule ends the form without error
	p := Advance(form, Start(form), 0, model.Text("a"))
	assert.Equal(t, model.Progress{Path: []int{0}, Terminal: true}, p)
}

func TestDeleteQuestion_OutOfRange(t *testing.T) {
	form := labelledForm("q0")
	var editErr *EditError
	require.ErrorAs(t, DeleteQuestion(form, 1), &editErr)
	assert.Equal(t, "delete", editErr.Op)
	require.ErrorAs(t, DeleteQuestion(form, -1), &editErr)
	assert.Equal(t, 1, form.Len())
}

func TestDeleteQuestion_LastQuestion(t *testing.T) {
	form := labelledForm("q0")
	form.Questions[0].Branching = []model.BranchRule{{When: "x", Goto: model.To(0)}}
	require.NoError(t, DeleteQuestion(form, 0))
	assert.Equal(t, 0, form.Len())
	assert.Equal(t, model.Progress{Path: []int{}, Terminal: true}, Start(form))
}

func TestAppendQuestion(t *testing.T) {
	form := labelledForm("q0", "q1")
	form.Questions[0].Branching = []model.BranchRule{{When: "x", Goto: model.To(1)}}

	ordinal := AppendQuestion(form, model.Question{Text: "q2", Type: model.QuestionTypeEmail, Ordinal: 99})

	assert.Equal(t, 2, ordinal)
	assert.Equal(t, 2, form.Questions[2].Ordinal)
	assert.Equal(t, model.To(1), form.Questions[0].Branching[0].Goto)
}

func TestInsertQuestion_ShiftsTargets(t *testing.T) {
	form := labelledForm("q0", "q1", "q2")
	form.Questions[0].Branching = []model.BranchRule{
		{When: "a", Goto: model.To(1)},
		{When: "b", Goto: model.To(2)},
	}
	form.Questions[2].Branching = []model.BranchRule{{When: "back", Goto: model.To(0)}}

	require.NoError(t, InsertQuestion(form, 1, model.Question{Text: "new", Type: model.QuestionTypeShortText}))

	assert.Equal(t, []string{"q0", "new", "q1", "q2"}, texts(form))
	want := [][]model.Jump{{model.To(2), model.To(3)}, nil, nil, {model.To(0)}}
	if diff := cmp.Diff(want, gotos(form)); diff != "" {
		t.Errorf("gotos mismatch (-want +got):\n%s", diff)
	}
	for i, q := range form.Questions {
		assert.Equal(t, i, q.Ordinal)
	}
}

func TestInsertQuestion_Bounds(t *testing.T) {
	form := labelledForm("q0")
	require.NoError(t, InsertQuestion(form, 1, model.Question{Text: "tail"}))
	require.NoError(t, InsertQuestion(form, 0, model.Question{Text: "head"}))
	assert.Equal(t, []string{"head", "q0", "tail"}, texts(form))

	var editErr *EditError
	assert.ErrorAs(t, InsertQuestion(form, 5, model.Question{}), &editErr)
}

func TestMoveQuestion_ReferencesFollowQuestions(t *testing.T) {
	testCases := []struct {
		name     string
		from, to int
		order    []string
	}{
		{"forward", 0, 2, []string{"q1", "q2", "q0", "q3"}},
		{"backward", 3, 1, []string{"q0", "q3", "q1", "q2"}},
		{"adjacent", 1, 2, []string{"q0", "q2", "q1", "q3"}},
		{"same", 2, 2, []string{"q0", "q1", "q2", "q3"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			form := labelledForm("q0", "q1", "q2", "q3")
			// every question jumps to the next one by label, last one to q0
			for i := range form.Questions {
				form.Questions[i].Branching = []model.BranchRule{{When: "next", Goto: model.To((i + 1) % 4)}}
			}

			require.NoError(t, MoveQuestion(form, tc.from, tc.to))
			assert.Equal(t, tc.order, texts(form))

			next := map[string]string{"q0": "q1", "q1": "q2", "q2": "q3", "q3": "q0"}
			for i, q := range form.Questions {
				assert.Equal(t, i, q.Ordinal)
				target := int(q.Branching[0].Goto)
				assert.Equal(t, next[q.Text], form.Questions[target].Text, "question %s", q.Text)
			}
		})
	}
}

func TestMoveQuestion_OutOfRange(t *testing.T) {
	form := labelledForm("q0", "q1")
	var editErr *EditError
	assert.ErrorAs(t, MoveQuestion(form, 2, 0), &editErr)
	assert.ErrorAs(t, MoveQuestion(form, 0, 2), &editErr)
}

func TestSetOptions_PrunesOwnRulesOnly(t *testing.T) {
	form := &model.Form{Questions: []model.Question{
		{
			Ordinal: 0,
			Type:    model.QuestionTypeSingleChoice,
			Options: []string{"Yes", "No", "Maybe"},
			Branching: []model.BranchRule{
				{When: "No", Goto: model.JumpEnd},
				{When: "Maybe", Goto: model.To(1)},
			},
		},
		{
			Ordinal:   1,
			Type:      model.QuestionTypeShortText,
			Branching: []model.BranchRule{{When: "Maybe", Goto: model.JumpEnd}},
		},
	}}

	require.NoError(t, SetOptions(form, 0, []string{"Yes", "No"}))

	assert.Equal(t, []model.BranchRule{{When: "No", Goto: model.JumpEnd}}, form.Questions[0].Branching)
	assert.Equal(t, []model.BranchRule{{When: "Maybe", Goto: model.JumpEnd}}, form.Questions[1].Branching)
}

func TestSetOptions_NonChoiceKeepsRules(t *testing.T) {
	form := labelledForm("q0")
	form.Questions[0].Branching = []model.BranchRule{{When: "x", Goto: model.JumpEnd}}
	require.NoError(t, SetOptions(form, 0, nil))
	assert.Len(t, form.Questions[0].Branching, 1)

	var editErr *EditError
	assert.ErrorAs(t, SetOptions(form, 3, nil), &editErr)
}

func TestRepair(t *testing.T) {
	form := labelledForm("q0", "q1")
	form.Questions[0].Ordinal = 7
	form.Questions[0].Branching = []model.BranchRule{
		{When: "a", Goto: model.To(5)},
		{When: "b", Goto: model.Jump(-3)},
		{When: "c", Goto: model.To(1)},
	}

	Repair(form)

	assert.Equal(t, 0, form.Questions[0].Ordinal)
	assert.Equal(t, []model.Jump{model.JumpEnd, model.JumpEnd, model.To(1)}, gotos(form)[0])
	assert.Empty(t, Check(form))
}
