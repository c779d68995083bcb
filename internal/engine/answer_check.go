package engine

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"formflow/internal/model"
)

// DateLayout is the accepted format for date answers.
const DateLayout = "2006-01-02"

// CheckAnswer verifies that a fits q's declared type before it is stored or
// evaluated. Empty answers are always accepted; they clear the question.
func CheckAnswer(q *model.Question, a model.Answer) error {
	if a.Multi != q.Type.IsMulti() {
		if q.Type.IsMulti() {
			return &AnswerError{Ordinal: q.Ordinal, Reason: "expected a list of options"}
		}
		return &AnswerError{Ordinal: q.Ordinal, Reason: "expected a single value"}
	}
	if a.IsEmpty() {
		return nil
	}

	v := strings.TrimSpace(a.Value)
	switch q.Type {
	case model.QuestionTypeInteger:
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			return &AnswerError{Ordinal: q.Ordinal, Reason: fmt.Sprintf("%q is not an integer", a.Value)}
		}
	case model.QuestionTypeDecimal:
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return &AnswerError{Ordinal: q.Ordinal, Reason: fmt.Sprintf("%q is not a number", a.Value)}
		}
	case model.QuestionTypeEmail:
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return &AnswerError{Ordinal: q.Ordinal, Reason: fmt.Sprintf("%q is not an email address", a.Value)}
		}
	case model.QuestionTypeDate:
		if _, err := time.Parse(DateLayout, v); err != nil {
			return &AnswerError{Ordinal: q.Ordinal, Reason: fmt.Sprintf("%q is not a date (YYYY-MM-DD)", a.Value)}
		}
	case model.QuestionTypeSingleChoice:
		if !q.HasOption(a.Value) {
			return &AnswerError{Ordinal: q.Ordinal, Reason: fmt.Sprintf("%q is not an option", a.Value)}
		}
	case model.QuestionTypeMultiChoice:
		seen := make(map[string]bool, len(a.Values))
		for _, s := range a.Values {
			if !q.HasOption(s) {
				return &AnswerError{Ordinal: q.Ordinal, Reason: fmt.Sprintf("%q is not an option", s)}
			}
			if seen[s] {
				return &AnswerError{Ordinal: q.Ordinal, Reason: fmt.Sprintf("%q selected twice", s)}
			}
			seen[s] = true
		}
	}
	return nil
}
