package engine

import "fmt"

// ValidationError blocks submission: a required question on the visible
// path has no answer.
type ValidationError struct {
	MissingQuestion int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required question %d is unanswered", e.MissingQuestion)
}

// AnswerError reports an answer whose shape or format does not fit the
// question's type.
type AnswerError struct {
	Ordinal int
	Reason  string
}

func (e *AnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %d: %s", e.Ordinal, e.Reason)
}

// EditError reports a structural edit addressed at an ordinal that does not
// exist.
type EditError struct {
	Op      string
	Ordinal int
	Len     int
}

func (e *EditError) Error() string {
	return fmt.Sprintf("%s: ordinal %d out of range (form has %d questions)", e.Op, e.Ordinal, e.Len)
}
