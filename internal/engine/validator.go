package engine

import "formflow/internal/model"

// Finalize gates submission. Every required question on path must have a
// non-empty answer; the first one missing, in path order, is reported. The
// resulting record is sparse: only non-empty answers for visited questions.
func Finalize(form *model.Form, path []int, answers model.AnswerMap) (*model.Record, error) {
	record := &model.Record{Answers: model.AnswerMap{}}
	for _, ordinal := range path {
		q := form.Question(ordinal)
		if q == nil {
			continue
		}
		a, ok := answers[ordinal]
		if !ok || a.IsEmpty() {
			if q.Required {
				return nil, &ValidationError{MissingQuestion: ordinal}
			}
			continue
		}
		if a.Multi {
			a.Values = append([]string(nil), a.Values...)
		}
		record.Answers[ordinal] = a
	}
	return record, nil
}
